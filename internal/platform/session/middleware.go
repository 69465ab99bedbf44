package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"techlog_backend/internal/feature/auth/domain/entity"
	"techlog_backend/internal/platform/flash"
)

const (
	// CookieName はセッショントークンを格納するCookie名です。
	CookieName = "session_token"

	// CookieMaxAge はセッションCookieの寿命（秒）です。セッションTTLと揃えます。
	CookieMaxAge = 14 * 24 * 60 * 60

	// contextUser はginコンテキストに現在のユーザーを格納するキーです。
	contextUser = "currentUser"

	// contextSessionID はginコンテキストにセッションIDを格納するキーです。
	contextSessionID = "sessionID"

	// SignInPath は未ログイン時のリダイレクト先です。
	SignInPath = "/users/sign_in"

	// MsgLoginRequired は未ログインで認証必須ページに達したときのフラッシュです。
	MsgLoginRequired = "ログインしてください。"
)

// TokenParser はセッションCookieの署名検証とセッションID抽出を抽象化します。
type TokenParser interface {
	ParseSessionToken(token string) (string, error)
}

// SessionFinder はセッションの検索に必要なインターフェースです。
// usecase.SessionRepositoryの部分集合として定義します。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*entity.Session, error)
}

// UserFinder はセッションに紐づくユーザーの取得を抽象化します。
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// CurrentUser はCookieのセッショントークンを検証し、有効なら現在のユーザーを
// リクエストスコープのginコンテキストに載せるミドルウェアを返します。
// プロセス全体の可変シングルトンは使いません。無効・不在のトークンは
// 匿名セッションとして素通しし、認可の判断は後段のゲートに任せます。
func CurrentUser(tokens TokenParser, sessions SessionFinder, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sid, err := tokens.ParseSessionToken(token)
		if err != nil {
			// 署名不正はストアに問い合わせる前に落とす
			c.Next()
			return
		}

		sess, err := sessions.FindByID(c.Request.Context(), sid)
		if err != nil || !sess.IsValid() {
			c.Next()
			return
		}

		user, err := users.FindByID(c.Request.Context(), sess.UserID)
		if err != nil {
			slog.Warn("session user lookup failed", "error", err, "session_id", sid)
			c.Next()
			return
		}

		SetUser(c, user, sess.ID)
		c.Next()
	}
}

// SetUser はginコンテキストに現在のユーザーとセッションIDを載せます。
// 通常はCurrentUserミドルウェアが呼びます。テストからの注入にも使えます。
func SetUser(c *gin.Context, user *entity.User, sessionID string) {
	c.Set(contextUser, user)
	c.Set(contextSessionID, sessionID)
}

// LoginRequired は未ログインのリクエストをサインインページへ303リダイレクトする
// ミドルウェアを返します。CurrentUserの後段に配置します。
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFrom(c) == nil {
			flash.Set(c, MsgLoginRequired)
			c.Redirect(http.StatusSeeOther, SignInPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserFrom はginコンテキストから現在のユーザーを取得します。
// 匿名セッションの場合はnilを返します。
func UserFrom(c *gin.Context) *entity.User {
	v, ok := c.Get(contextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*entity.User)
	if !ok {
		return nil
	}
	return user
}

// SessionIDFrom はginコンテキストから現在のセッションIDを取得します。
// 匿名セッションの場合は空文字を返します。
func SessionIDFrom(c *gin.Context) string {
	v, ok := c.Get(contextSessionID)
	if !ok {
		return ""
	}
	sid, _ := v.(string)
	return sid
}
