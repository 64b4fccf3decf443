package model

// Staff roles.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// A User represents a database record.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Email       string `msgpack:"email" storm:"unique"`
	Password    string `msgpack:"password,omitempty"`
	DisplayName string `msgpack:"display_name"`
	Role        string `msgpack:"role"`

	PasswordUpdatedAt int64 `msgpack:"password_updated_at"`
}

// NewUser returns a new user with default params.
func NewUser() *User {
	return &User{
		Role: RoleCashier,
	}
}
