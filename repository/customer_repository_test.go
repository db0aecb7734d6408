package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointsdesk/domain/entities"
	"pointsdesk/repository/testutil"
)

func TestCustomerRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCustomerRepository(testDB.DB)
	ctx := context.Background()

	t.Run("customer not found", func(t *testing.T) {
		customer, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, customer)
	})

	t.Run("customer found", func(t *testing.T) {
		created, err := repo.Create(ctx, "M-0001", "Sato")
		require.NoError(t, err)
		require.NotNil(t, created)

		customer, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, customer)

		assert.Equal(t, "M-0001", customer.MemberNumber)
		assert.Equal(t, "Sato", customer.Name)
		assert.Equal(t, int64(0), customer.GeneralBalance)
		assert.Equal(t, int64(0), customer.BettingBalance)
	})
}

func TestCustomerRepository_ApplyDelta(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCustomerRepository(testDB.DB)
	ctx := context.Background()

	customer, err := repo.Create(ctx, "M-0002", "Suzuki")
	require.NoError(t, err)

	t.Run("credit increases the balance", func(t *testing.T) {
		newBalance, err := repo.ApplyDelta(ctx, customer.ID, entities.CategoryGeneral, 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), newBalance)
	})

	t.Run("debit within balance succeeds", func(t *testing.T) {
		newBalance, err := repo.ApplyDelta(ctx, customer.ID, entities.CategoryGeneral, -400)
		require.NoError(t, err)
		assert.Equal(t, int64(600), newBalance)
	})

	t.Run("overdraw is rejected and leaves the balance untouched", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, customer.ID, entities.CategoryGeneral, -601)

		var insufficient *entities.InsufficientBalanceError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(600), insufficient.Balance)

		general, _, err := repo.GetBalances(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(600), general)
	})

	t.Run("debit to exactly zero succeeds", func(t *testing.T) {
		newBalance, err := repo.ApplyDelta(ctx, customer.ID, entities.CategoryGeneral, -600)
		require.NoError(t, err)
		assert.Equal(t, int64(0), newBalance)
	})

	t.Run("balances are independent per category", func(t *testing.T) {
		newBalance, err := repo.ApplyDelta(ctx, customer.ID, entities.CategoryBetting, 250)
		require.NoError(t, err)
		assert.Equal(t, int64(250), newBalance)

		general, betting, err := repo.GetBalances(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), general)
		assert.Equal(t, int64(250), betting)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, 999999, entities.CategoryGeneral, 100)

		var notFound *entities.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestCustomerRepository_ApplyDelta_RefreshesActivity(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCustomerRepository(testDB.DB)
	ctx := context.Background()

	customer, err := repo.Create(ctx, "M-0003", "Tanaka")
	require.NoError(t, err)

	_, err = repo.ApplyDelta(ctx, customer.ID, entities.CategoryGeneral, 100)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.False(t, updated.LastActivityAt.Before(customer.LastActivityAt))
}

func TestCustomerRepository_GetDormant(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCustomerRepository(testDB.DB)
	ctx := context.Background()

	dormantWithPoints, err := repo.Create(ctx, "M-0010", "Dormant")
	require.NoError(t, err)
	_, err = repo.ApplyDelta(ctx, dormantWithPoints.ID, entities.CategoryGeneral, 500)
	require.NoError(t, err)

	dormantBroke, err := repo.Create(ctx, "M-0011", "Broke")
	require.NoError(t, err)

	activeWithPoints, err := repo.Create(ctx, "M-0012", "Active")
	require.NoError(t, err)
	_, err = repo.ApplyDelta(ctx, activeWithPoints.ID, entities.CategoryBetting, 300)
	require.NoError(t, err)

	// Age the first two accounts past the cutoff.
	old := time.Now().UTC().AddDate(0, -13, 0)
	for _, id := range []int64{dormantWithPoints.ID, dormantBroke.ID} {
		_, err = testDB.DB.Exec(ctx, `UPDATE customers SET last_activity_at = $1 WHERE id = $2`, old, id)
		require.NoError(t, err)
	}

	cutoff := time.Now().UTC().AddDate(0, -12, 0)
	dormant, err := repo.GetDormant(ctx, cutoff)
	require.NoError(t, err)

	// Only inactive accounts that still hold points qualify.
	require.Len(t, dormant, 1)
	assert.Equal(t, dormantWithPoints.ID, dormant[0].ID)
	assert.Equal(t, int64(500), dormant[0].GeneralBalance)
}
