// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupForm represents the sign-up form posted to /users.
// Field-level validation is intentionally not expressed as binding tags:
// the usecase evaluates every rule and reports all violations together,
// which gin's short-circuiting binding cannot do.
type SignupForm struct {
	Nickname             string `form:"nickname" json:"nickname"`
	Email                string `form:"email" json:"email"`
	Password             string `form:"password" json:"password"`
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation"`
}
