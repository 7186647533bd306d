package entities

// Actor roles carried in access tokens
const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	Username      string
	AccountNumber string
	Role          string
}

// IsEmployee reports whether the caller is bank staff
func (a Actor) IsEmployee() bool {
	return a.Role == RoleEmployee
}

// CanAccess reports whether the caller may see records owned by username.
// Employees see everything, customers only their own.
func (a Actor) CanAccess(username string) bool {
	return a.IsEmployee() || a.Username == username
}
