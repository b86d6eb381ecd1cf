package entity

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Principal is the caller identity resolved once per request by the identity
// provider. Core operations receive it explicitly and never reach into
// ambient request state.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   Role
}

// Anonymous is the zero principal used for unauthenticated read paths.
var Anonymous = Principal{}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != ""
}

func (p Principal) IsAdmin() bool {
	return p.IsAuthenticated() && p.Role == RoleAdmin
}
