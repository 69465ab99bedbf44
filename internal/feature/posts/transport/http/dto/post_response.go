package dto

import (
	"fmt"
	"time"

	"techlog_backend/internal/feature/posts/domain/entity"
	"techlog_backend/internal/feature/posts/usecase"
)

// PostItem は一覧・詳細・プロフィールで使う投稿1件のビューモデルです。
// AuthorNicknameは読み取り時にusersから結合された現在のニックネームです。
type PostItem struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	UserID         uint      `json:"user_id"`
	AuthorNickname string    `json:"author_nickname"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewPostItem はドメインの読み取りモデルからPostItemを生成します。
func NewPostItem(p entity.PostWithAuthor) PostItem {
	return PostItem{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		UserID:         p.UserID,
		AuthorNickname: p.AuthorNickname,
		CreatedAt:      p.CreatedAt,
	}
}

// NewPostItems は読み取りモデルのスライスを変換します。
func NewPostItems(posts []entity.PostWithAuthor) []PostItem {
	out := make([]PostItem, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostItem(p))
	}
	return out
}

// FeedView はトップページと投稿一覧のビューモデルです。
// CanPostはナビゲーションの「ログ投稿」リンク表示可否で、実際のゲートではありません。
type FeedView struct {
	Flash   string     `json:"flash,omitempty"`
	Posts   []PostItem `json:"posts"`
	CanPost bool       `json:"can_post"`
}

// PostDetailView は投稿詳細ページのビューモデルです。
// CanDeleteは削除ボタンの表示可否で、削除ゲートと同じ認可関数から導出します。
type PostDetailView struct {
	Flash     string   `json:"flash,omitempty"`
	Post      PostItem `json:"post"`
	CanDelete bool     `json:"can_delete"`
}

// PostFormView は投稿フォームのビューモデルです。
// バリデーション失敗時は入力されたタイトルと本文をそのまま返します。
type PostFormView struct {
	Flash   string               `json:"flash,omitempty"`
	Errors  []usecase.FieldError `json:"errors"`
	Title   string               `json:"title"`
	Content string               `json:"content"`
}

// ProfileUser はプロフィールページに表示するユーザー情報です。
type ProfileUser struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nickname"`
}

// ProfileView はユーザーページのビューモデルです。
// CountLabelは「投稿数: N件」の表示文字列で、Countおよび一覧と常に一致します。
type ProfileView struct {
	Flash      string      `json:"flash,omitempty"`
	User       ProfileUser `json:"user"`
	Posts      []PostItem  `json:"posts"`
	Count      int         `json:"count"`
	CountLabel string      `json:"count_label"`
}

// CountLabel は投稿数の表示文字列を生成します。
func CountLabel(count int) string {
	return fmt.Sprintf("投稿数: %d件", count)
}
