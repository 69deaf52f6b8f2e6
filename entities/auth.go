package entities

import "github.com/twoojoo/zschema/schema"

// RegisterSchema validates a sign-up form; both passwords must match.
var RegisterSchema = schema.NewObject("Register",
	schema.Prop("email", emailField),
	schema.Prop("password", schema.String().Min(8, msgPasswordMin)),
	schema.Prop("confirmPassword", schema.String().Min(1, "Password confirmation is required")),
	schema.Prop("name", nameField),
).RefineMatch("password", "confirmPassword", "Passwords do not match")

// ResetPasswordSchema validates a password reset request.
var ResetPasswordSchema = schema.NewObject("ResetPassword",
	schema.Prop("email", emailField),
)

// ChangePasswordSchema validates a password change; the new password must be entered twice.
var ChangePasswordSchema = schema.NewObject("ChangePassword",
	schema.Prop("currentPassword", schema.String().Min(1, "Current password is required")),
	schema.Prop("newPassword", schema.String().Min(8, "New password must be at least 8 characters")),
	schema.Prop("confirmNewPassword", schema.String().Min(1, "New password confirmation is required")),
).RefineMatch("newPassword", "confirmNewPassword", "New passwords do not match")

// Register is a validated sign-up form.
type Register struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
}

// ResetPassword is a validated password reset request.
type ResetPassword struct {
	Email string `json:"email"`
}

// ChangePassword is a validated password change.
type ChangePassword struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}
