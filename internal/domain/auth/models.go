package auth

const (
	RoleAdmin     = "Admin"
	RoleScheduler = "Scheduler"
	RoleBilling   = "Billing"

	UserStatusActive = "active"
)

type UserContext struct {
	UserID   string
	RoleID   string
	RoleName string
}

type AuthUser struct {
	ID       string
	Email    string
	RoleID   string
	RoleName string
	Password string
}
