// Package session keeps the one piece of client state that survives a
// request: who is logged in and the backend token acting for them.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/infra/backend"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpired      = errors.New("session expired")
)

// Record is what a Store persists. The backend token is sealed.
type Record struct {
	ID          string       `json:"id"`
	User        booking.User `json:"user"`
	SealedToken string       `json:"sealed_token"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

type Store interface {
	Save(ctx context.Context, rec Record) error
	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}

// Authenticator is the backend side of a login.
type Authenticator interface {
	Login(ctx context.Context, creds backend.Credentials) (string, error)
	Me(ctx context.Context) (shape.Record, error)
}

// Current is the authenticated caller of a request.
type Current struct {
	SessionID    string
	User         booking.User
	BackendToken string
	ExpiresAt    time.Time
}

// Context returns ctx carrying the backend token of the session.
func (c Current) Context(ctx context.Context) context.Context {
	return backend.WithToken(ctx, c.BackendToken)
}

// Issued is the result of a login.
type Issued struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      booking.User `json:"user"`
}

type Manager struct {
	store     Store
	auth      Authenticator
	sealer    *Sealer
	jwtSecret []byte
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

type Options struct {
	JWTSecret string
	SealKey   string
	TTL       time.Duration
	Logger    *zap.Logger
}

func NewManager(store Store, auth Authenticator, opts Options) (*Manager, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("session: jwt secret is required")
	}
	sealKey := opts.SealKey
	if sealKey == "" {
		sealKey = opts.JWTSecret
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		store:     store,
		auth:      auth,
		sealer:    NewSealer(sealKey),
		jwtSecret: []byte(opts.JWTSecret),
		ttl:       ttl,
		logger:    logging.OrNop(opts.Logger),
		now:       time.Now,
	}, nil
}

// Login authenticates against the backend, loads the profile and opens a session.
func (m *Manager) Login(ctx context.Context, creds backend.Credentials) (Issued, error) {
	token, err := m.auth.Login(ctx, creds)
	if err != nil {
		return Issued{}, err
	}

	profile, err := m.auth.Me(backend.WithToken(ctx, token))
	if err != nil {
		return Issued{}, fmt.Errorf("load profile: %w", err)
	}
	user := booking.DecodeUser(profile)

	sealed, err := m.sealer.Seal(token)
	if err != nil {
		return Issued{}, err
	}

	now := m.now()
	rec := Record{
		ID:          uuid.NewString(),
		User:        user,
		SealedToken: sealed,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return Issued{}, fmt.Errorf("save session: %w", err)
	}

	signed, err := m.sign(rec)
	if err != nil {
		return Issued{}, err
	}

	m.logger.Info("session opened", zap.String("session_id", rec.ID), zap.Uint("user_id", user.ID))
	return Issued{Token: signed, ExpiresAt: rec.ExpiresAt, User: user}, nil
}

// Authenticate restores the session behind a signed token.
func (m *Manager) Authenticate(ctx context.Context, tokenString string) (Current, error) {
	id, err := m.parse(tokenString)
	if err != nil {
		return Current{}, err
	}

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return Current{}, err
	}
	if !rec.ExpiresAt.IsZero() && m.now().After(rec.ExpiresAt) {
		_ = m.store.Delete(ctx, id)
		return Current{}, ErrExpired
	}

	token, err := m.sealer.Open(rec.SealedToken)
	if err != nil {
		return Current{}, err
	}
	return Current{
		SessionID:    rec.ID,
		User:         rec.User,
		BackendToken: token,
		ExpiresAt:    rec.ExpiresAt,
	}, nil
}

func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	m.logger.Info("session closed", zap.String("session_id", sessionID))
	return nil
}

// ===============================
// JWT
// ===============================

func (m *Manager) sign(rec Record) (string, error) {
	claims := jwt.MapClaims{
		"sub": rec.ID,
		"uid": rec.User.ID,
		"exp": rec.ExpiresAt.Unix(),
		"iat": rec.CreatedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.jwtSecret)
}

func (m *Manager) parse(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return m.jwtSecret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
