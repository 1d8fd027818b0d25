package user

// Role is the account role of a user.
type Role string

// Roles.
const (
	RoleMentee Role = "mentee"
	RoleMentor Role = "mentor"
	RoleAdmin  Role = "admin"
)

// User is the searchable projection of a platform account.
type User struct {
	ID        string
	Name      string
	Role      Role
	CreatedAt int64 // unix millis
}
