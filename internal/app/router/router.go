package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	authhandler "techlog_backend/internal/feature/auth/transport/handler"
	posthandler "techlog_backend/internal/feature/posts/transport/handler"
	"techlog_backend/internal/platform/http/handler"
	"techlog_backend/internal/platform/metrics"
	"techlog_backend/internal/platform/middleware"
	"techlog_backend/internal/platform/ratelimit"
	"techlog_backend/internal/platform/session"
)

// Deps はルータが必要とするハンドラーとミドルウェアの依存一式です。
type Deps struct {
	Auth  *authhandler.AuthHandler
	Posts *posthandler.PostHandler

	// SessionMW はCookieから現在のユーザーを解決するミドルウェアです。
	SessionMW gin.HandlerFunc

	// LoginLimiter はサインイン試行のIP別レート制限です。nil可。
	LoginLimiter *ratelimit.Limiter

	// Metrics はリクエストメトリクスのコレクターです。nil可。
	Metrics *metrics.Collector

	// Registry は/metricsで公開するPrometheusレジストリです。nil可。
	Registry *prometheus.Registry
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	// 全ルートで現在のユーザーを解決する（匿名は素通し）
	r.Use(deps.SessionMW)

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(deps.Registry)))
	}

	// フィードと閲覧系は匿名でも見られる
	r.GET("/", deps.Posts.Home)
	r.GET("/posts", deps.Posts.List)
	r.GET("/posts/:id", deps.Posts.Show)
	r.GET("/users/:id", deps.Posts.Profile)

	// ユーザー登録とログイン
	r.GET("/users/sign_up", deps.Auth.NewUser)
	r.POST("/users", deps.Auth.CreateUser)
	r.GET("/users/sign_in", deps.Auth.NewSession)
	if deps.LoginLimiter != nil {
		r.POST("/users/sign_in", deps.LoginLimiter.Middleware(), deps.Auth.CreateSession)
	} else {
		r.POST("/users/sign_in", deps.Auth.CreateSession)
	}

	// 認証必須のルート
	// 未ログインはサインインページへ303し、フラッシュで案内する
	auth := r.Group("/")
	auth.Use(session.LoginRequired())
	{
		auth.GET("/posts/new", deps.Posts.NewForm)
		auth.POST("/posts", deps.Posts.Create)
		auth.DELETE("/posts/:id", deps.Posts.Delete)
		auth.DELETE("/users/sign_out", deps.Auth.DestroySession)
		// フォームからのログアウトボタン用
		auth.POST("/users/sign_out", deps.Auth.DestroySession)
	}

	return r
}
