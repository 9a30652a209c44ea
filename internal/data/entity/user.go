package entity

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	Base
	Username       string   `db:"username"`
	Email          string   `db:"email"`
	PasswordHash   string   `db:"password"`
	Name           string   `db:"name"`
	Phone          *string  `db:"phone"`
	Role           UserRole `db:"role"`
	ViolationCount int      `db:"violation_count"`
	IsBanned       bool     `db:"is_banned"`
	IsActive       bool     `db:"is_active"`
}
