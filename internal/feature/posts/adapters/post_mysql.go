// Package adapters はpostsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"techlog_backend/internal/feature/posts/domain/entity"
	"techlog_backend/internal/feature/posts/usecase"
)

// postMySQL はPostRepositoryインターフェースのMySQL実装です。
type postMySQL struct {
	db *gorm.DB
}

var _ usecase.PostRepository = (*postMySQL)(nil)

// NewPostMySQL は指定されたDB接続でpostMySQLリポジトリの新しいインスタンスを生成します。
func NewPostMySQL(db *gorm.DB) *postMySQL {
	return &postMySQL{db: db}
}

// withAuthor は著者ニックネームを読み取り時に結合するベースクエリを返します。
// ニックネームは投稿行に非正規化せず、常にusersテーブルから読み取ります。
func (r *postMySQL) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select("posts.*, users.nickname AS author_nickname").
		Joins("JOIN users ON users.id = posts.user_id")
}

// Create は投稿をデータベースに追加します。
func (r *postMySQL) Create(ctx context.Context, p *entity.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID は投稿を著者ニックネーム付きで取得します。
// 投稿が存在しない場合、usecase.ErrPostNotFoundを返します。
func (r *postMySQL) FindByID(ctx context.Context, id uint) (*entity.PostWithAuthor, error) {
	var row entity.PostWithAuthor
	err := r.withAuthor(ctx).
		Where("posts.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPostNotFound
		}
		return nil, err
	}
	return &row, nil
}

// ListAll は全投稿を新しい順で返します。
// created_atが同時刻の場合に備えてidを第2キーにし、順序を決定的にします。
func (r *postMySQL) ListAll(ctx context.Context) ([]entity.PostWithAuthor, error) {
	var rows []entity.PostWithAuthor
	if err := r.withAuthor(ctx).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUserID は指定ユーザーの投稿を新しい順で返します。
func (r *postMySQL) ListByUserID(ctx context.Context, userID uint) ([]entity.PostWithAuthor, error) {
	var rows []entity.PostWithAuthor
	if err := r.withAuthor(ctx).
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteOwned は id と user_id の両方が一致する投稿を1文のDELETEで削除します。
// 所有権チェックと削除が同一文で行われるため、並行リクエストと競合しても
// 同じ投稿が二重に「削除成功」することはありません。削除行数を返します。
func (r *postMySQL) DeleteOwned(ctx context.Context, postID, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", postID, userID).
		Delete(&entity.Post{})
	return result.RowsAffected, result.Error
}
