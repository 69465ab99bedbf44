// Package flash はリダイレクトをまたいで1度だけ表示する通知メッセージを提供します。
// Railsのflashに相当するもので、短命のHttpOnly Cookieとして運びます。
// 次のページ描画で読み取られた時点で消費され、再表示されません。
package flash

import (
	"net/url"

	"github.com/gin-gonic/gin"
)

const (
	cookieName = "flash"
	// 読み捨て前提のため寿命は短くてよい
	maxAge = 60
)

// Set は次のレスポンス描画で表示するフラッシュメッセージを設定します。
// 日本語メッセージをCookieで安全に運ぶためURLエンコードします。
func Set(c *gin.Context, message string) {
	c.SetCookie(cookieName, url.QueryEscape(message), maxAge, "/", "", false, true)
}

// Pop は設定済みのフラッシュメッセージを取り出し、同時に消費します。
// メッセージがなければ空文字を返します。
func Pop(c *gin.Context) string {
	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return ""
	}
	// 消費: MaxAgeを負にしてCookieを削除
	c.SetCookie(cookieName, "", -1, "/", "", false, true)

	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}
