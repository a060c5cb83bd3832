package user

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is an account row. Password is the stored plain credential; it never
// leaves the service layer.
type User struct {
	ID       string `db:"id"`
	Email    string `db:"email"`
	Password string `db:"password"`
	FullName string `db:"full_name"`
	Role     string `db:"role"`
}
