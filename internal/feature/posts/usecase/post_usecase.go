// Package usecase はpostsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	authentity "techlog_backend/internal/feature/auth/domain/entity"
	"techlog_backend/internal/feature/posts/domain/entity"
)

// 投稿フォームに表示するフィールド単位のエラーメッセージ。
const (
	MsgTitleRequired   = "タイトル が入力されていません。"
	MsgContentRequired = "本文 が入力されていません。"
)

// FieldError は1つの入力フィールドに紐づくバリデーションエラーです。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreatePostInput は投稿フォームの入力値を保持します。
// 投稿者はクライアント入力ではなく、必ずセッションのユーザーから決定します。
type CreatePostInput struct {
	Title   string
	Content string
}

// PostRepository は投稿エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type PostRepository interface {
	// Create は新しい投稿をストレージに永続化します。
	Create(ctx context.Context, post *entity.Post) error

	// FindByID は投稿を著者ニックネーム付きで取得します。
	// 投稿が存在しない場合、ErrPostNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.PostWithAuthor, error)

	// ListAll は全投稿を新しい順（created_at DESC, id DESC）で返します。
	ListAll(ctx context.Context) ([]entity.PostWithAuthor, error)

	// ListByUserID は指定ユーザーの投稿を新しい順で返します。
	ListByUserID(ctx context.Context, userID uint) ([]entity.PostWithAuthor, error)

	// DeleteOwned は id と user_id の両方が一致する投稿を1文で削除し、
	// 削除された行数を返します。所有権チェックと削除がアトミックになるため、
	// 並行する削除と競合しても行数が負になることはありません。
	DeleteOwned(ctx context.Context, postID, userID uint) (int64, error)
}

// UserFinder はプロフィールページに表示するユーザーの取得を抽象化します。
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
}

// Profile は1ユーザーのプロフィールページに必要な情報一式です。
// Countは返したPosts自体から算出するため、同一呼び出し内で件数と一覧が
// 食い違うことはありません。
type Profile struct {
	User  *authentity.User
	Posts []entity.PostWithAuthor
	Count int
}

// PostUsecase は投稿の作成・削除・一覧・プロフィール集計のビジネスロジックを実装します。
type PostUsecase struct {
	posts PostRepository
	users UserFinder
}

// NewPostUsecase はPostUsecaseの新しいインスタンスを生成します。
func NewPostUsecase(posts PostRepository, users UserFinder) *PostUsecase {
	return &PostUsecase{posts: posts, users: users}
}

// validateCreatePost は投稿入力のルールを順に評価し、違反をすべて返します。
func validateCreatePost(in CreatePostInput) []FieldError {
	var errs []FieldError
	if in.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: MsgTitleRequired})
	}
	if in.Content == "" {
		errs = append(errs, FieldError{Field: "content", Message: MsgContentRequired})
	}
	return errs
}

// CreatePost は認証済みユーザーの新規投稿を検証して永続化します。
// 未ログインの場合はErrNotSignedInを返し、1件も書き込みません。
// UIを迂回した直接リクエストでも必ずここでゲートされます。
// バリデーション失敗時も書き込まず、呼び出し側がフォームを再描画できるよう
// フィールドエラーを返します（入力値はそのまま呼び出し側に残ります）。
func (u *PostUsecase) CreatePost(ctx context.Context, viewer *authentity.User, in CreatePostInput) (*entity.Post, []FieldError, error) {
	if !CanCreatePost(viewer) {
		return nil, nil, ErrNotSignedIn
	}

	if fieldErrs := validateCreatePost(in); len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	post := &entity.Post{
		Title:   in.Title,
		Content: in.Content,
		UserID:  viewer.ID,
	}
	if err := u.posts.Create(ctx, post); err != nil {
		return nil, nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil, nil
}

// DeletePost は所有者本人による投稿の削除を実行します。
// 未ログインはErrNotSignedIn、所有者以外はErrNotPostOwner、対象が存在しない
// （並行削除で消えた場合を含む）ときはErrPostNotFoundを返します。
// いずれの拒否でも行は変更されず、障害として伝播しません。
func (u *PostUsecase) DeletePost(ctx context.Context, viewer *authentity.User, postID uint) error {
	if viewer == nil {
		return ErrNotSignedIn
	}

	found, err := u.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if !CanDeletePost(viewer, &found.Post) {
		return ErrNotPostOwner
	}

	rows, err := u.posts.DeleteOwned(ctx, postID, viewer.ID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if rows == 0 {
		// チェックと削除の間に別リクエストが消した。no-opとして扱う。
		return ErrPostNotFound
	}
	return nil
}

// Feed は全投稿を決定的な順序で返します。認可ゲートはありません。
func (u *PostUsecase) Feed(ctx context.Context) ([]entity.PostWithAuthor, error) {
	return u.posts.ListAll(ctx)
}

// GetPost は投稿詳細を著者ニックネーム付きで返します。
func (u *PostUsecase) GetPost(ctx context.Context, id uint) (*entity.PostWithAuthor, error) {
	return u.posts.FindByID(ctx, id)
}

// GetProfile は指定ユーザーのプロフィール（ユーザー情報・投稿一覧・投稿数）を返します。
func (u *PostUsecase) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := u.posts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:  user,
		Posts: posts,
		Count: len(posts),
	}, nil
}
