package dto

import "techlog_backend/internal/feature/auth/usecase"

// SignupFormView はサインアップフォームの描画用ビューモデルです。
// バリデーション失敗時は送信されたニックネームとメールアドレスをそのまま
// 返し、フォームの再入力を保ちます。パスワードは決して返しません。
type SignupFormView struct {
	Errors   []usecase.FieldError `json:"errors"`
	Nickname string               `json:"nickname"`
	Email    string               `json:"email"`
}

// SignInFormView はサインインフォームの描画用ビューモデルです。
type SignInFormView struct {
	Flash string `json:"flash,omitempty"`
}
