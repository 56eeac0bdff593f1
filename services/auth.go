package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/errs"
)

const DefaultTokenTTL = 12 * time.Hour

// AdminClaims are carried by admin tokens
type AdminClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 admin tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer. An empty secret gets a random per-process
// one, so tokens stop verifying after a restart.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if secret == "" {
		log.Warn().Msg("ADMIN_TOKEN_SECRET not set, using a random secret for this process")
		secret = uuid.NewString() + uuid.NewString()
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for username and its expiry
func (i *TokenIssuer) Issue(username string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := AdminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, errs.NewInternalErrorWithCause("failed to sign admin token", err)
	}
	return signed, expiresAt, nil
}

// Verify parses token and checks signature, expiry and the admin claim
func (i *TokenIssuer) Verify(token string) (*AdminClaims, error) {
	if token == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}
	if !claims.Admin {
		return nil, errs.NewInvalidTokenError()
	}
	return claims, nil
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Success   bool      `json:"success"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService checks the admin credential pair.
type AuthService struct {
	users        *database.UserRepo
	tokens       *TokenIssuer
	logger       zerolog.Logger
	storeTimeout time.Duration
}

func NewAuthService(db database.Database, tokens *TokenIssuer, storeTimeout time.Duration) *AuthService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &AuthService{
		users:        db.UserRepo(),
		tokens:       tokens,
		logger:       log.With().Str("component", "authService").Logger(),
		storeTimeout: storeTimeout,
	}
}

// Authenticate compares password with the stored value by direct equality.
// Passwords are stored in plaintext; an unknown user and a wrong password
// both report false.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errs.NewDatabaseError("find", "user", err)
	}
	return user.Password == password, nil
}

// Login authenticates and issues an admin token. Failures carry one generic
// message whatever the cause.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn().Msg("failed login attempt")
		return nil, errs.NewAuthError()
	}

	token, expiresAt, err := s.tokens.Issue(username)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("admin logged in")
	return &LoginResult{
		Success:   true,
		Username:  username,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks an admin bearer token
func (s *AuthService) Verify(token string) (*AdminClaims, error) {
	return s.tokens.Verify(token)
}
