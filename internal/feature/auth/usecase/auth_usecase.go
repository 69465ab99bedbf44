// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"techlog_backend/internal/feature/auth/domain/entity"
)

const (
	// sessionTTL はブラウザセッションの有効期間を定義します。
	sessionTTL = 14 * 24 * time.Hour

	// maxSessionsPerUser は1ユーザーが同時に保持できるセッション数の上限です。
	// 上限に達した場合、最も古いセッションを破棄します。
	maxSessionsPerUser = 5
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// TokenGenerator はセッションCookieに格納する署名付きトークンの生成を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/sessiontoken）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	// GenerateSessionToken は指定されたセッションの署名済みトークンを生成します。
	GenerateSessionToken(sessionID string, userID uint) (string, error)
}

// AuthUsecase は登録・ログイン・セッション管理のビジネスロジックを実装します。
type AuthUsecase struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenGenerator
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens TokenGenerator) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// Register は登録フォームの入力を検証し、全ルールを通過した場合のみユーザーを永続化します。
// フィールドエラーがある場合は1件も書き込まず、違反したルールすべてのエラーを返します。
// メールアドレスの一意性はここでの事前チェックに加えて、ストアのユニーク制約でも
// 強制されます。同時登録の競合に敗れた側は同じフィールドエラーに落とします。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, []FieldError, error) {
	fieldErrs := validateRegister(in)

	if in.Email != "" {
		if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
			fieldErrs = append(fieldErrs, FieldError{Field: "email", Message: MsgEmailTaken})
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, nil, err
		}
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Nickname: in.Nickname,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			// ユニーク制約による競合。事前チェックをすり抜けた場合もフォームエラーとして扱う。
			return nil, []FieldError{{Field: "email", Message: MsgEmailTaken}}, nil
		}
		return nil, nil, err
	}
	return user, nil, nil
}

// Login はユーザーを認証し、成功時にユーザーを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// StartSession は指定されたユーザーの新しいセッションを発行し、
// Cookieに格納する署名済みトークンを返します。
// ユーザーあたりのセッション数上限を超える場合、最も古いセッションを破棄します。
func (u *AuthUsecase) StartSession(ctx context.Context, user *entity.User, userAgent, ipAddress string) (string, error) {
	count, err := u.sessions.CountByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to count sessions: %w", err)
	}
	if count >= maxSessionsPerUser {
		if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
			return "", fmt.Errorf("failed to evict oldest session: %w", err)
		}
	}

	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	now := time.Now()
	session := &entity.Session{
		ID:        id,
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.tokens.GenerateSessionToken(session.ID, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return token, nil
}

// EndSession は指定されたセッションを失効させます。
// 既に失効・削除済みのセッションに対しては何もしません（ログアウトは冪等）。
func (u *AuthUsecase) EndSession(ctx context.Context, sessionID string) error {
	if err := u.sessions.Revoke(ctx, sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// newSessionID は暗号学的乱数による64文字の16進セッションIDを生成します。
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
