package dto

// LoginForm は/users/sign_inにPOSTされるログインフォームを表します。
type LoginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}
