// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"techlog_backend/internal/feature/auth/domain/entity"
	"techlog_backend/internal/feature/auth/transport/http/dto"
	"techlog_backend/internal/feature/auth/usecase"
	"techlog_backend/internal/platform/flash"
	"techlog_backend/internal/platform/session"
)

// ログイン・ログアウト操作のフラッシュメッセージ。
const (
	FlashLoggedIn    = "ログインしました"
	FlashLoginFailed = "メールアドレスまたはパスワードが違います。"
	FlashLoggedOut   = "ログアウトしました。"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は登録フォームを検証し、全ルール通過時のみユーザーを永続化します。
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, []usecase.FieldError, error)
	// Login はユーザーを認証し、成功時にユーザーを返します。
	Login(ctx context.Context, email, password string) (*entity.User, error)
	// StartSession は新しいセッションを発行し、Cookie用トークンを返します。
	StartSession(ctx context.Context, user *entity.User, userAgent, ipAddress string) (string, error)
	// EndSession は指定されたセッションを失効させます。
	EndSession(ctx context.Context, sessionID string) error
}

// AuthHandler は登録・ログイン・ログアウトのHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// NewUser はサインアップフォームのビューモデルを返します。 GET /users/sign_up
func (h *AuthHandler) NewUser(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SignupFormView{Errors: []usecase.FieldError{}})
}

// CreateUser はユーザー登録を処理します。 POST /users
// - 全フィールドルールを通過した場合のみユーザーを作成し、そのままログイン状態にして / へ303
// - 違反がある場合は1件も書き込まず、全フィールドエラーと入力値（パスワード除く）を422で返却
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var form dto.SignupForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Warn("signup bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, fieldErrs, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Nickname:             form.Nickname,
		Email:                form.Email,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
	})
	if err != nil {
		slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, dto.SignupFormView{
			Errors:   fieldErrs,
			Nickname: form.Nickname,
			Email:    form.Email,
		})
		return
	}

	h.signIn(c, user)
	slog.Info("user signup successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.Redirect(http.StatusSeeOther, "/")
}

// NewSession はサインインフォームのビューモデルを返します。 GET /users/sign_in
func (h *AuthHandler) NewSession(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SignInFormView{Flash: flash.Pop(c)})
}

// CreateSession はログインを処理します。 POST /users/sign_in
// 認証失敗時はリダイレクトせず、汎用のフラッシュメッセージのみを401で返します。
// メールアドレスの存在有無を区別できる情報は返しません。
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Warn("login bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		slog.Warn("login failed", "email", form.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.SignInFormView{Flash: FlashLoginFailed})
		return
	}

	h.signIn(c, user)
	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	flash.Set(c, FlashLoggedIn)
	c.Redirect(http.StatusSeeOther, "/")
}

// DestroySession はログアウトを処理します。 DELETE /users/sign_out（POSTも受け付け）
// セッションが既に失効していても成功として扱います。
func (h *AuthHandler) DestroySession(c *gin.Context) {
	if sid := session.SessionIDFrom(c); sid != "" {
		if err := h.auth.EndSession(c.Request.Context(), sid); err != nil {
			slog.Error("logout failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
	}
	// Cookieを破棄
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	flash.Set(c, FlashLoggedOut)
	c.Redirect(http.StatusSeeOther, "/")
}

// signIn は新しいセッションを発行してCookieに設定します。
func (h *AuthHandler) signIn(c *gin.Context, user *entity.User) {
	token, err := h.auth.StartSession(c.Request.Context(), user, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		// セッション発行の失敗は登録やログイン自体を巻き戻さない。
		// Cookieなしで処理を続け、ユーザーには再ログインを促す。
		slog.Error("session start failed", "error", err, "user_id", user.ID)
		return
	}
	c.SetCookie(session.CookieName, token, session.CookieMaxAge, "/", "", false, true)
}
