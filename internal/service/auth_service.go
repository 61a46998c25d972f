package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mobigrad/teleshop/internal/cache"
	"github.com/mobigrad/teleshop/internal/config"
)

// AuthService вход администратора по PIN. Успешный вход выдает JWT;
// токен дополнительно регистрируется в Redis, выход отзывает его.
type AuthService struct {
	cache *cache.Cache
	cfg   *config.Config
}

func NewAuthService(c *cache.Cache, cfg *config.Config) *AuthService {
	return &AuthService{cache: c, cfg: cfg}
}

// Token результат входа.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func tokenKey(jti string) string {
	return "admin:token:" + jti
}

// Login сверяет PIN с настроенным bcrypt-хэшем и выдает токен.
func (s *AuthService) Login(ctx context.Context, pin string) (*Token, error) {
	if s.cfg.Admin.PinHash == "" {
		return nil, fmt.Errorf("admin pin is not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PinHash), []byte(pin)); err != nil {
		return nil, ErrInvalidPin
	}

	expire := s.cfg.JWT.AccessTokenExpire
	if expire <= 0 {
		expire = time.Hour
	}
	now := nowFunc()
	jti := uuid.New().String()
	claims := jwt.RegisteredClaims{
		ID:        jti,
		Issuer:    s.cfg.JWT.Issuer,
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.cache.PutJSON(ctx, tokenKey(jti), now.Unix(), expire)
	return &Token{AccessToken: signed, ExpiresIn: int64(expire.Seconds())}, nil
}

// Validate проверяет подпись и, при настроенном Redis, что токен не отозван.
func (s *AuthService) Validate(ctx context.Context, tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("invalid token")
	}
	if s.cache.Enabled() && !s.cache.Exists(ctx, tokenKey(claims.ID)) {
		return fmt.Errorf("token revoked")
	}
	return nil
}

// SessionState состояние админ-сессии.
type SessionState struct {
	Authenticated bool  `json:"authenticated"`
	ExpiresAt     int64 `json:"expires_at,omitempty"`
}

// State сообщает, действителен ли переданный токен, не возвращая ошибку.
func (s *AuthService) State(ctx context.Context, tokenString string) *SessionState {
	if tokenString == "" {
		return &SessionState{}
	}
	if err := s.Validate(ctx, tokenString); err != nil {
		return &SessionState{}
	}
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	}); err != nil {
		return &SessionState{}
	}
	st := &SessionState{Authenticated: true}
	if claims.ExpiresAt != nil {
		st.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return st
}

// Logout отзывает токен.
func (s *AuthService) Logout(ctx context.Context, tokenString string) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return
	}
	s.cache.Del(ctx, tokenKey(claims.ID))
}
