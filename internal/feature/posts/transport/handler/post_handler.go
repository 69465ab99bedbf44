// Package handler はpostsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authentity "techlog_backend/internal/feature/auth/domain/entity"
	authusecase "techlog_backend/internal/feature/auth/usecase"
	"techlog_backend/internal/feature/posts/domain/entity"
	"techlog_backend/internal/feature/posts/transport/http/dto"
	"techlog_backend/internal/feature/posts/usecase"
	"techlog_backend/internal/platform/flash"
	"techlog_backend/internal/platform/session"
)

// 投稿操作のフラッシュメッセージ。
const (
	FlashPostCreated      = "投稿しました"
	FlashPostCreateFailed = "投稿に失敗しました"
	FlashPostDeleted      = "投稿が削除されました"
)

// PostUsecase は投稿操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type PostUsecase interface {
	CreatePost(ctx context.Context, viewer *authentity.User, in usecase.CreatePostInput) (*entity.Post, []usecase.FieldError, error)
	DeletePost(ctx context.Context, viewer *authentity.User, postID uint) error
	Feed(ctx context.Context) ([]entity.PostWithAuthor, error)
	GetPost(ctx context.Context, id uint) (*entity.PostWithAuthor, error)
	GetProfile(ctx context.Context, userID uint) (*usecase.Profile, error)
}

// PostMetrics は投稿操作のメトリクス記録を抽象化します。
type PostMetrics interface {
	RecordPostCreated()
	RecordPostDeleted()
}

// PostHandler は投稿の作成・削除・一覧・詳細・プロフィールのHTTPリクエストを処理します。
type PostHandler struct {
	uc      PostUsecase
	metrics PostMetrics
}

// NewPostHandler は新しいPostHandlerを作成します。metricsはnil可です。
func NewPostHandler(uc PostUsecase, metrics PostMetrics) *PostHandler {
	return &PostHandler{uc: uc, metrics: metrics}
}

// Home はトップページのフィードを返します。 GET /
// 認可ゲートはなく、匿名セッションにも全投稿を表示します。
func (h *PostHandler) Home(c *gin.Context) {
	h.renderFeed(c)
}

// List は投稿一覧を返します。 GET /posts
func (h *PostHandler) List(c *gin.Context) {
	h.renderFeed(c)
}

func (h *PostHandler) renderFeed(c *gin.Context) {
	posts, err := h.uc.Feed(c.Request.Context())
	if err != nil {
		slog.Error("feed failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	viewer := session.UserFrom(c)
	c.JSON(http.StatusOK, dto.FeedView{
		Flash:   flash.Pop(c),
		Posts:   dto.NewPostItems(posts),
		CanPost: usecase.CanCreatePost(viewer),
	})
}

// Show は投稿詳細を返します。 GET /posts/:id
// 削除ボタンの表示可否（can_delete）は削除ゲートと同じ認可関数から導出します。
func (h *PostHandler) Show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.uc.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		slog.Error("post detail failed", "error", err, "post_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	viewer := session.UserFrom(c)
	c.JSON(http.StatusOK, dto.PostDetailView{
		Flash:     flash.Pop(c),
		Post:      dto.NewPostItem(*post),
		CanDelete: usecase.CanDeletePost(viewer, &post.Post),
	})
}

// NewForm は投稿フォームのビューモデルを返します。 GET /posts/new
// ルータ側でLoginRequiredが適用されます。
func (h *PostHandler) NewForm(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PostFormView{
		Flash:  flash.Pop(c),
		Errors: []usecase.FieldError{},
	})
}

// Create は新規投稿を処理します。 POST /posts
// ルータのLoginRequiredに加えてユースケース側でも必ずゲートされるため、
// フォームを迂回した直接リクエストでも未ログインなら1件も書き込まれません。
func (h *PostHandler) Create(c *gin.Context) {
	var form dto.CreatePostForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Warn("post bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	viewer := session.UserFrom(c)
	post, fieldErrs, err := h.uc.CreatePost(c.Request.Context(), viewer, usecase.CreatePostInput{
		Title:   form.Title,
		Content: form.Content,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrNotSignedIn) {
			flash.Set(c, session.MsgLoginRequired)
			c.Redirect(http.StatusSeeOther, session.SignInPath)
			return
		}
		slog.Error("post create failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if len(fieldErrs) > 0 {
		// 入力値を保持したままフォームを再描画できるようにする
		c.JSON(http.StatusUnprocessableEntity, dto.PostFormView{
			Flash:   FlashPostCreateFailed,
			Errors:  fieldErrs,
			Title:   form.Title,
			Content: form.Content,
		})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPostCreated()
	}
	slog.Info("post created", "post_id", post.ID, "user_id", post.UserID)
	flash.Set(c, FlashPostCreated)
	c.Redirect(http.StatusSeeOther, "/posts")
}

// Delete は投稿の削除を処理します。 DELETE /posts/:id
// 所有者以外（匿名含む）の削除要求は行を変更せず、未処理の障害にもしません。
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	viewer := session.UserFrom(c)
	if err := h.uc.DeletePost(c.Request.Context(), viewer, id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotSignedIn):
			flash.Set(c, session.MsgLoginRequired)
			c.Redirect(http.StatusSeeOther, session.SignInPath)
		case errors.Is(err, usecase.ErrNotPostOwner):
			slog.Warn("post delete refused", "post_id", id, "remote_addr", c.ClientIP())
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		case errors.Is(err, usecase.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		default:
			slog.Error("post delete failed", "error", err, "post_id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPostDeleted()
	}
	slog.Info("post deleted", "post_id", id, "user_id", viewer.ID)
	flash.Set(c, FlashPostDeleted)
	c.Redirect(http.StatusSeeOther, "/posts")
}

// Profile はユーザーページを返します。 GET /users/:id
// 投稿数は同じ呼び出しで取得した一覧から算出されるため、表示上の件数と
// 一覧が食い違うことはありません。
func (h *PostHandler) Profile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	profile, err := h.uc.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, authusecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.Error("profile failed", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.ProfileView{
		Flash: flash.Pop(c),
		User: dto.ProfileUser{
			ID:       profile.User.ID,
			Nickname: profile.User.Nickname,
		},
		Posts:      dto.NewPostItems(profile.Posts),
		Count:      profile.Count,
		CountLabel: dto.CountLabel(profile.Count),
	})
}

// parseID は:idパスパラメータを解釈します。数値でない場合は404を返します。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}
