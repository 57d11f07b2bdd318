package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleGuide    Role = "guide"
	RoleAgency   Role = "agency"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleGuide, RoleAgency, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Is reports whether the actor holds the given role and identity.
func (a Actor) Is(role Role, id string) bool {
	return a.Role == role && a.ID == id
}
