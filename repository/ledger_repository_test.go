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

func TestLedgerRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	customerRepo := NewCustomerRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	customer, err := customerRepo.Create(ctx, "M-0001", "Sato")
	require.NoError(t, err)

	entry := testutil.NewTestEntry(customer.ID, 500, entities.KindCharge)
	require.NoError(t, repo.Create(ctx, entry))
	assert.NotZero(t, entry.ID)

	loaded, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(500), loaded.Amount)
	assert.Equal(t, entities.KindCharge, loaded.Kind)
	assert.Equal(t, entities.EntryStatePending, loaded.State)
	assert.Nil(t, loaded.ApprovedBy)
	assert.Nil(t, loaded.ProcessedAt)
}

func TestLedgerRepository_StateTransitions(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	customerRepo := NewCustomerRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	customer, err := customerRepo.Create(ctx, "M-0002", "Suzuki")
	require.NoError(t, err)

	newPending := func() *entities.LedgerEntry {
		entry := testutil.NewTestEntry(customer.ID, 500, entities.KindCharge)
		require.NoError(t, repo.Create(ctx, entry))
		return entry
	}

	t.Run("approve records approver and timestamp", func(t *testing.T) {
		entry := newPending()
		require.NoError(t, repo.MarkApproved(ctx, entry.ID, 900))

		loaded, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.EntryStateApproved, loaded.State)
		require.NotNil(t, loaded.ApprovedBy)
		assert.Equal(t, int64(900), *loaded.ApprovedBy)
		assert.NotNil(t, loaded.ProcessedAt)
	})

	t.Run("double approve fails with the current state", func(t *testing.T) {
		entry := newPending()
		require.NoError(t, repo.MarkApproved(ctx, entry.ID, 900))

		err := repo.MarkApproved(ctx, entry.ID, 901)
		var already *entities.AlreadyProcessedError
		require.ErrorAs(t, err, &already)
		assert.Equal(t, entities.EntryStateApproved, already.State)
	})

	t.Run("reject then approve fails", func(t *testing.T) {
		entry := newPending()
		require.NoError(t, repo.MarkRejected(ctx, entry.ID, 900))

		err := repo.MarkApproved(ctx, entry.ID, 900)
		var already *entities.AlreadyProcessedError
		require.ErrorAs(t, err, &already)
		assert.Equal(t, entities.EntryStateRejected, already.State)
	})

	t.Run("reverse requires approved state", func(t *testing.T) {
		entry := newPending()

		err := repo.MarkReversed(ctx, entry.ID)
		var notApproved *entities.NotApprovedError
		require.ErrorAs(t, err, &notApproved)
		assert.Equal(t, entities.EntryStatePending, notApproved.State)

		require.NoError(t, repo.MarkApproved(ctx, entry.ID, 900))
		require.NoError(t, repo.MarkReversed(ctx, entry.ID))

		loaded, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.EntryStateReversed, loaded.State)
	})

	t.Run("transition on missing entry", func(t *testing.T) {
		err := repo.MarkApproved(ctx, 999999, 900)
		var notFound *entities.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestLedgerRepository_SumApprovedByKind(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	customerRepo := NewCustomerRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	customer, err := customerRepo.Create(ctx, "M-0003", "Tanaka")
	require.NoError(t, err)

	approved := func(amount int64, kind entities.EntryKind) {
		entry := testutil.NewTestEntry(customer.ID, amount, kind)
		require.NoError(t, repo.Create(ctx, entry))
		require.NoError(t, repo.MarkApproved(ctx, entry.ID, 900))
	}

	approved(1000, entities.KindCharge)
	approved(2500, entities.KindCharge)
	approved(300, entities.KindRefund)

	// A pending charge must not count.
	pending := testutil.NewTestEntry(customer.ID, 9999, entities.KindCharge)
	require.NoError(t, repo.Create(ctx, pending))

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	total, count, err := repo.SumApprovedByKind(ctx, entities.KindCharge, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), total)
	assert.Equal(t, 2, count)

	total, count, err = repo.SumApprovedByKind(ctx, entities.KindRefund, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(300), total)
	assert.Equal(t, 1, count)

	// Debits report their absolute value.
	use := testutil.NewTestEntry(customer.ID, 400, entities.KindUse)
	require.NoError(t, repo.Create(ctx, use))
	require.NoError(t, repo.MarkApproved(ctx, use.ID, 900))

	total, count, err = repo.SumApprovedByKind(ctx, entities.KindUse, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(400), total)
	assert.Equal(t, 1, count)
}

func TestLedgerRepository_GetByCustomer(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	customerRepo := NewCustomerRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	customer, err := customerRepo.Create(ctx, "M-0004", "Watanabe")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		entry := testutil.NewTestEntry(customer.ID, int64(100+i), entities.KindCharge)
		require.NoError(t, repo.Create(ctx, entry))
	}

	entries, err := repo.GetByCustomer(ctx, customer.ID, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first.
	assert.Greater(t, entries[0].ID, entries[1].ID)
	assert.Greater(t, entries[1].ID, entries[2].ID)
}
