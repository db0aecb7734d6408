package entities

// Role is a staff member's permission level, resolved by the external
// identity oracle
type Role string

const (
	RoleEmployee Role = "employee"
	RoleStaff    Role = "staff"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
	RoleCEO      Role = "ceo"
)

// roleLevels orders roles; a higher number means more authority
var roleLevels = map[Role]int{
	RoleEmployee: 20,
	RoleStaff:    40,
	RoleOperator: 60,
	RoleAdmin:    80,
	RoleCEO:      100,
}

// Valid reports whether the role is one of the recognized values
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast reports whether the role meets the given minimum
func (r Role) AtLeast(min Role) bool {
	return roleLevels[r] >= roleLevels[min]
}

func (r Role) String() string {
	return string(r)
}

// Actor identifies the staff member performing an operation
type Actor struct {
	UserID int64
	Role   Role
}

// CanApprove reports whether the actor may approve ledger entries,
// confiscate balances, or settle matches
func (a Actor) CanApprove() bool {
	return a.Role.AtLeast(RoleOperator)
}

// CanRequest reports whether the actor may create entries and place bets
func (a Actor) CanRequest() bool {
	return a.Role.AtLeast(RoleStaff)
}
