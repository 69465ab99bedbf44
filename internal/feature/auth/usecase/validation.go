package usecase

import "unicode/utf8"

const (
	// maxNicknameRunes はニックネームの最大文字数を定義します。
	maxNicknameRunes = 20
	// minPasswordRunes はパスワードの最低文字数を定義します。
	minPasswordRunes = 6
	// maxPasswordRunes はパスワードの最大文字数を定義します。
	maxPasswordRunes = 128
)

// ユーザー登録フォームに表示するフィールド単位のエラーメッセージ。
const (
	MsgNicknameRequired     = "ニックネーム が入力されていません。"
	MsgNicknameTooLong      = "ニックネーム は20文字以下に設定して下さい。"
	MsgEmailRequired        = "メールアドレス が入力されていません。"
	MsgEmailTaken           = "メールアドレス は既に使用されています。"
	MsgPasswordRequired     = "パスワード が入力されていません。"
	MsgPasswordTooShort     = "パスワード は6文字以上に設定して下さい。"
	MsgPasswordTooLong      = "パスワード は128文字以下に設定して下さい。"
	MsgConfirmationMismatch = "確認用パスワード が一致していません。"
)

// FieldError は1つの入力フィールドに紐づくバリデーションエラーです。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterInput はユーザー登録フォームの入力値を保持します。
type RegisterInput struct {
	Nickname             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// registerRule は登録入力に対する純粋なバリデーションルールです。
// 違反がなければnilを返します。
type registerRule func(in RegisterInput) *FieldError

// registerRules は登録時に適用するルールの順序付きリストです。
// 全ルールを評価し、違反をすべてまとめて報告します（短絡しません）。
var registerRules = []registerRule{
	ruleNicknameRequired,
	ruleNicknameLength,
	ruleEmailRequired,
	rulePasswordRequired,
	rulePasswordMinLength,
	rulePasswordMaxLength,
	rulePasswordConfirmation,
}

// validateRegister は全ルールを順に評価し、違反したフィールドエラーを返します。
// メールアドレスの一意性は永続化層への問い合わせが必要なため、ここではなく
// Register側でチェックします。
func validateRegister(in RegisterInput) []FieldError {
	var errs []FieldError
	for _, rule := range registerRules {
		if fe := rule(in); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

func ruleNicknameRequired(in RegisterInput) *FieldError {
	if in.Nickname == "" {
		return &FieldError{Field: "nickname", Message: MsgNicknameRequired}
	}
	return nil
}

// ruleNicknameLength はバイト数ではなく文字数で長さを判定します。
// 全角20文字のニックネームは許可されます。
func ruleNicknameLength(in RegisterInput) *FieldError {
	if utf8.RuneCountInString(in.Nickname) > maxNicknameRunes {
		return &FieldError{Field: "nickname", Message: MsgNicknameTooLong}
	}
	return nil
}

func ruleEmailRequired(in RegisterInput) *FieldError {
	if in.Email == "" {
		return &FieldError{Field: "email", Message: MsgEmailRequired}
	}
	return nil
}

func rulePasswordRequired(in RegisterInput) *FieldError {
	if in.Password == "" {
		return &FieldError{Field: "password", Message: MsgPasswordRequired}
	}
	return nil
}

func rulePasswordMinLength(in RegisterInput) *FieldError {
	if in.Password != "" && utf8.RuneCountInString(in.Password) < minPasswordRunes {
		return &FieldError{Field: "password", Message: MsgPasswordTooShort}
	}
	return nil
}

func rulePasswordMaxLength(in RegisterInput) *FieldError {
	if utf8.RuneCountInString(in.Password) > maxPasswordRunes {
		return &FieldError{Field: "password", Message: MsgPasswordTooLong}
	}
	return nil
}

func rulePasswordConfirmation(in RegisterInput) *FieldError {
	if in.Password != in.PasswordConfirmation {
		return &FieldError{Field: "password_confirmation", Message: MsgConfirmationMismatch}
	}
	return nil
}
