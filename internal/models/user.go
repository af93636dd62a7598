package models

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// AdminUserID is the subject stored in admin tokens. Admins are not rows in
// the students table, so they never collide with a student ID.
const AdminUserID uint = 0
