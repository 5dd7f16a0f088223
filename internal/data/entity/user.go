package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	BaseNoDelete
	Username string   `db:"username"`
	Email    string   `db:"email"`
	Role     UserRole `db:"role"`
	IsActive bool     `db:"is_active"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
