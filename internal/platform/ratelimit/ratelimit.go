// Package ratelimit はサインイン試行のIP別レート制限を提供する。
// パスワード総当たりを遅らせるためのもので、認可ゲートの代替ではない。
package ratelimit

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Config はレート制限の設定を保持する。
type Config struct {
	Rate            rate.Limit    // 1秒あたりの許可リクエスト数
	Burst           int           // バーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultConfig はサインイン用のデフォルト設定を返す。10 req/min/IP。
func DefaultConfig() Config {
	return Config{
		Rate:            rate.Limit(10.0 / 60.0),
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
	}
}

// ipLimiter はIPごとのレートリミッターとアクセス時刻を保持する。
type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter はIPごとのレート制限を管理する。
type Limiter struct {
	config Config

	mu       sync.Mutex
	limiters map[string]*ipLimiter

	stopCh chan struct{}
}

// NewLimiter は新しいLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewLimiter(config Config) *Limiter {
	l := &Limiter{
		config:   config,
		limiters: make(map[string]*ipLimiter),
		stopCh:   make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (l *Limiter) Stop() {
	close(l.stopCh)
}

// Middleware はIP別レート制限のginミドルウェアを返す。
// 上限を超えたリクエストには429を返す。
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.allow(ip) {
			slog.Warn("rate limit exceeded", "remote_addr", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
			})
			return
		}
		c.Next()
	}
}

// allow は指定IPのリクエストを許可するかを判定する。
func (l *Limiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	il, ok := l.limiters[ip]
	if !ok {
		il = &ipLimiter{
			limiter: rate.NewLimiter(l.config.Rate, l.config.Burst),
		}
		l.limiters[ip] = il
	}
	il.lastAccess = time.Now()
	return il.limiter.Allow()
}

// LimiterCount は現在管理されているリミッターのエントリ数を返す。
// テスト用。
func (l *Limiter) LimiterCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (l *Limiter) cleanup() {
	ttl := l.config.CleanupInterval * 2
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, il := range l.limiters {
		if now.Sub(il.lastAccess) > ttl {
			delete(l.limiters, ip)
		}
	}
}
