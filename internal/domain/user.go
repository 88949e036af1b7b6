package domain

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// User is the identity resolved by the external provider.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
