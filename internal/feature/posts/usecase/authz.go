package usecase

import (
	authentity "techlog_backend/internal/feature/auth/domain/entity"
	"techlog_backend/internal/feature/posts/domain/entity"
)

// CanCreatePost は現在のセッションが投稿を作成できるかを判定します。
// viewerがnil（未ログイン）の場合はfalseを返します。
func CanCreatePost(viewer *authentity.User) bool {
	return viewer != nil
}

// CanDeletePost は現在のセッションが指定された投稿を削除できるかを判定します。
// 投稿の所有者のみが削除できます。
// 変更系のユースケースは必ずこの関数でゲートし、描画層は削除ボタンの
// 表示可否を決めるためだけに同じ関数を参照します。表示の抑制そのものは
// セキュリティ境界ではありません。
func CanDeletePost(viewer *authentity.User, post *entity.Post) bool {
	return viewer != nil && post != nil && viewer.ID == post.UserID
}
