package entities

import (
	"time"

	"github.com/twoojoo/zschema/schema"
)

const (
	msgEmail        = "Invalid email format"
	msgNameRequired = "Name is required"
	msgNameTooLong  = "Name must be at most 50 characters"
	msgPasswordMin  = "Password must be at least 8 characters"
)

var (
	emailField = schema.String().Email(msgEmail)
	nameField  = schema.String().Min(1, msgNameRequired).Max(50, msgNameTooLong)
)

// UserSchema validates a stored user.
var UserSchema = schema.NewObject("User",
	schema.Prop("id", schema.String().Min(1, "User ID is required")),
	schema.Prop("email", emailField),
	schema.Prop("name", nameField),
	schema.Prop("avatar", schema.String().URL("Invalid URL format").Optional()),
	schema.Prop("createdAt", schema.Date()),
	schema.Prop("updatedAt", schema.Date()),
)

// CreateUserSchema drops the server-assigned fields and asks for a password.
var CreateUserSchema = UserSchema.
	Omit("id", "createdAt", "updatedAt").
	Extend(schema.Prop("password", schema.String().Min(8, msgPasswordMin))).
	WithTitle("CreateUser")

// UpdateUserSchema validates a profile patch. The password is changed through ChangePasswordSchema.
var UpdateUserSchema = CreateUserSchema.Partial().Omit("password").WithTitle("UpdateUser")

// LoginSchema validates login credentials.
var LoginSchema = schema.NewObject("Login",
	schema.Prop("email", emailField),
	schema.Prop("password", schema.String().Min(1, "Password is required")),
)

// User is a validated user.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUser is a validated sign-up through the user API.
type CreateUser struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Password string `json:"password"`
}

// UpdateUser carries only the fields present in the request.
type UpdateUser struct {
	Email  *string `json:"email,omitempty"`
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Login is a validated set of credentials.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
