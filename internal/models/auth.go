package models

import "github.com/supabase-community/gotrue-go/types"

type Scope int

const (
	AccessScope  Scope = 0
	RefreshScope Scope = 1
)

type Role string

const (
	Admin      Role = "admin"
	Instructor Role = "instructor"
	Student    Role = "student"
	Parent     Role = "parent"
	Influencer Role = "influencer"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserFromTypesUser reads the role from the app metadata GoTrue keeps per
// user, defaulting to student.
func UserFromTypesUser(user types.User) User {
	role := Student
	if value, ok := user.AppMetadata["role"].(string); ok && value != "" {
		role = Role(value)
	}

	return User{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  role,
	}
}
