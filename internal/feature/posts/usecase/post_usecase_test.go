package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "techlog_backend/internal/feature/auth/domain/entity"
	"techlog_backend/internal/feature/posts/domain/entity"
)

// mockPostRepository はテスト用のPostRepositoryモックです。
type mockPostRepository struct {
	CreateFunc       func(ctx context.Context, post *entity.Post) error
	FindByIDFunc     func(ctx context.Context, id uint) (*entity.PostWithAuthor, error)
	ListAllFunc      func(ctx context.Context) ([]entity.PostWithAuthor, error)
	ListByUserIDFunc func(ctx context.Context, userID uint) ([]entity.PostWithAuthor, error)
	DeleteOwnedFunc  func(ctx context.Context, postID, userID uint) (int64, error)
}

func (m *mockPostRepository) Create(ctx context.Context, post *entity.Post) error {
	return m.CreateFunc(ctx, post)
}

func (m *mockPostRepository) FindByID(ctx context.Context, id uint) (*entity.PostWithAuthor, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockPostRepository) ListAll(ctx context.Context) ([]entity.PostWithAuthor, error) {
	return m.ListAllFunc(ctx)
}

func (m *mockPostRepository) ListByUserID(ctx context.Context, userID uint) ([]entity.PostWithAuthor, error) {
	return m.ListByUserIDFunc(ctx, userID)
}

func (m *mockPostRepository) DeleteOwned(ctx context.Context, postID, userID uint) (int64, error) {
	return m.DeleteOwnedFunc(ctx, postID, userID)
}

// mockUserFinder はテスト用のUserFinderモックです。
type mockUserFinder struct {
	FindByIDFunc func(ctx context.Context, id uint) (*authentity.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id uint) (*authentity.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func validPostInput() CreatePostInput {
	return CreatePostInput{Title: "Goのスライス", Content: "appendの挙動についてまとめた。"}
}

func TestPostUsecase_CreatePost(t *testing.T) {
	viewer := &authentity.User{ID: 1, Nickname: "テスト太郎"}

	t.Run("successful post creation sets author from session user", func(t *testing.T) {
		var created *entity.Post
		repo := &mockPostRepository{
			CreateFunc: func(ctx context.Context, post *entity.Post) error {
				post.ID = 10
				created = post
				return nil
			},
		}
		uc := NewPostUsecase(repo, &mockUserFinder{})

		post, fieldErrs, err := uc.CreatePost(context.Background(), viewer, validPostInput())

		assert.NoError(t, err, "failed to create post")
		assert.Empty(t, fieldErrs, "should have no field errors")
		require.NotNil(t, post, "post is nil")
		assert.Equal(t, viewer.ID, post.UserID, "author should come from the viewer")

		require.NotNil(t, created, "repository should be called")
		assert.Equal(t, "Goのスライス", created.Title, "title does not match")
	})

	t.Run("anonymous viewer is refused and nothing is written", func(t *testing.T) {
		repoCalled := false
		repo := &mockPostRepository{
			CreateFunc: func(ctx context.Context, post *entity.Post) error {
				repoCalled = true
				return nil
			},
		}
		uc := NewPostUsecase(repo, &mockUserFinder{})

		post, fieldErrs, err := uc.CreatePost(context.Background(), nil, validPostInput())

		assert.ErrorIs(t, err, ErrNotSignedIn, "should return ErrNotSignedIn")
		assert.Nil(t, post, "post should be nil")
		assert.Empty(t, fieldErrs, "should have no field errors")
		assert.False(t, repoCalled, "repository should not be called")
	})

	t.Run("validation failure returns all errors and writes nothing", func(t *testing.T) {
		repoCalled := false
		repo := &mockPostRepository{
			CreateFunc: func(ctx context.Context, post *entity.Post) error {
				repoCalled = true
				return nil
			},
		}
		uc := NewPostUsecase(repo, &mockUserFinder{})

		post, fieldErrs, err := uc.CreatePost(context.Background(), viewer, CreatePostInput{})

		assert.NoError(t, err, "validation failure is not a system error")
		assert.Nil(t, post, "post should be nil")
		require.Len(t, fieldErrs, 2, "both violations should be reported")
		assert.Equal(t, MsgTitleRequired, fieldErrs[0].Message)
		assert.Equal(t, MsgContentRequired, fieldErrs[1].Message)
		assert.False(t, repoCalled, "repository should not be called")
	})

	t.Run("repository error is propagated", func(t *testing.T) {
		repoErr := errors.New("db error")
		repo := &mockPostRepository{
			CreateFunc: func(ctx context.Context, post *entity.Post) error {
				return repoErr
			},
		}
		uc := NewPostUsecase(repo, &mockUserFinder{})

		post, _, err := uc.CreatePost(context.Background(), viewer, validPostInput())

		assert.ErrorIs(t, err, repoErr, "should wrap the repository error")
		assert.Nil(t, post, "post should be nil")
	})
}

func TestPostUsecase_DeletePost(t *testing.T) {
	owner := &authentity.User{ID: 1}
	other := &authentity.User{ID: 2}
	stored := &entity.PostWithAuthor{
		Post:           entity.Post{ID: 10, Title: "t", Content: "c", UserID: 1},
		AuthorNickname: "テスト太郎",
	}

	t.Run("owner deletes own post", func(t *testing.T) {
		var gotPostID, gotUserID uint
		repo := &mockPostRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.PostWithAuthor, error) {
				return stored, nil
			},
			DeleteOwnedFunc: func(ctx context.Context, postID, userID uint) (int64, error) {
				gotPostID, gotUserID = postID, userID
				return 1, nil
			},
		}
		uc := NewPostUsecase(repo, &mockUserFinder{})

		err := uc.DeletePost(context.Background(), owner, 10)

		assert.NoError(t, err, "failed to delete post")
		assert.EqualValues(t, 10, gotPostID, "post ID does not match")
		assert.EqualValues(t, 1, gotUserID, "owner ID does not match")
	})

	t.Run("anonymous viewer is refused", func(t *testing.T) {
		uc := NewPostUsecase(&mockPostRepository{}, &mockUserFinder{})

		err := uc.DeletePost(context.Background(), nil, 10)

		assert.ErrorIs(t, err, ErrNotSignedIn)
	})

	t.Run("non-owner is refused and nothing is deleted", func(t *testing.T) {
		deleteCalled := false
		repo := &mockPostRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.PostWithAuthor, error) {
				return stored, nil
			},
			DeleteOwnedFunc: func(ctx context.Context, postID, userID uint) (int64, error) {
				deleteCalled = true
				return 1, nil
			},
		}
		uc := NewPostUsecase(repo, &mockUserFinder{})

		err := uc.DeletePost(context.Background(), other, 10)

		assert.ErrorIs(t, err, ErrNotPostOwner, "should return ErrNotPostOwner")
		assert.False(t, deleteCalled, "delete should not be attempted")
	})

	t.Run("missing post returns ErrPostNotFound", func(t *testing.T) {
		repo := &mockPostRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.PostWithAuthor, error) {
				return nil, ErrPostNotFound
			},
		}
		uc := NewPostUsecase(repo, &mockUserFinder{})

		err := uc.DeletePost(context.Background(), owner, 999)

		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("post vanished between check and delete", func(t *testing.T) {
		repo := &mockPostRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.PostWithAuthor, error) {
				return stored, nil
			},
			DeleteOwnedFunc: func(ctx context.Context, postID, userID uint) (int64, error) {
				return 0, nil
			},
		}
		uc := NewPostUsecase(repo, &mockUserFinder{})

		err := uc.DeletePost(context.Background(), owner, 10)

		assert.ErrorIs(t, err, ErrPostNotFound, "zero rows should map to ErrPostNotFound")
	})
}

func TestPostUsecase_GetProfile(t *testing.T) {
	t.Run("count always matches the returned posts", func(t *testing.T) {
		user := &authentity.User{ID: 1, Nickname: "テスト太郎"}
		posts := []entity.PostWithAuthor{
			{Post: entity.Post{ID: 2, UserID: 1}, AuthorNickname: "テスト太郎"},
			{Post: entity.Post{ID: 1, UserID: 1}, AuthorNickname: "テスト太郎"},
		}
		uc := NewPostUsecase(
			&mockPostRepository{
				ListByUserIDFunc: func(ctx context.Context, userID uint) ([]entity.PostWithAuthor, error) {
					return posts, nil
				},
			},
			&mockUserFinder{
				FindByIDFunc: func(ctx context.Context, id uint) (*authentity.User, error) {
					return user, nil
				},
			},
		)

		profile, err := uc.GetProfile(context.Background(), 1)

		assert.NoError(t, err, "failed to get profile")
		require.NotNil(t, profile, "profile is nil")
		assert.Equal(t, user, profile.User, "user does not match")
		assert.Len(t, profile.Posts, 2, "posts do not match")
		assert.Equal(t, len(profile.Posts), profile.Count, "count must equal len(posts)")
	})

	t.Run("zero posts yields count zero", func(t *testing.T) {
		uc := NewPostUsecase(
			&mockPostRepository{
				ListByUserIDFunc: func(ctx context.Context, userID uint) ([]entity.PostWithAuthor, error) {
					return nil, nil
				},
			},
			&mockUserFinder{
				FindByIDFunc: func(ctx context.Context, id uint) (*authentity.User, error) {
					return &authentity.User{ID: 1}, nil
				},
			},
		)

		profile, err := uc.GetProfile(context.Background(), 1)

		assert.NoError(t, err, "failed to get profile")
		assert.Zero(t, profile.Count, "count should be zero")
	})

	t.Run("unknown user error is propagated", func(t *testing.T) {
		userErr := errors.New("user not found")
		uc := NewPostUsecase(
			&mockPostRepository{},
			&mockUserFinder{
				FindByIDFunc: func(ctx context.Context, id uint) (*authentity.User, error) {
					return nil, userErr
				},
			},
		)

		profile, err := uc.GetProfile(context.Background(), 999)

		assert.ErrorIs(t, err, userErr)
		assert.Nil(t, profile, "profile should be nil")
	})
}
