package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/layer-3/facegate/core"
	"github.com/layer-3/facegate/ports"
)

var (
	// ErrDuplicateAccount is returned when the username or email is taken
	ErrDuplicateAccount = errors.New("username or email already registered")

	// ErrBadCredentials is returned when the password check fails
	ErrBadCredentials = errors.New("invalid credentials")

	// ErrFaceUnreadable is returned when the face attachment cannot be decoded
	ErrFaceUnreadable = errors.New("cannot decode face image")

	// ErrFaceMismatch is returned when the face does not match the enrolled one
	ErrFaceMismatch = errors.New("face verification failed")

	// ErrTokenExpired is returned when a presented token is past its expiry
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid is returned when a presented token fails validation
	ErrTokenInvalid = errors.New("could not validate credentials")

	// ErrTokenRevoked is returned when a presented token has been logged out
	ErrTokenRevoked = errors.New("token has been revoked")
)

// DefaultTokenTTL matches the verification service's access token expiry.
const DefaultTokenTTL = 30 * time.Minute

// account is one enrolled user. The face bytes stand in for the
// embedding the real matcher would store.
type account struct {
	username     string
	email        string
	passwordHash []byte
	face         []byte
}

// Verifier is the in-process verification service used for development
// and wire-contract tests. It speaks the same contract as the production
// matcher (multipart signup/signin returning an HS256 bearer token),
// with the actual face matching reduced to a sample-presence check.
type Verifier struct {
	secret      []byte
	tokenTTL    time.Duration
	revocations ports.RevocationList
	events      ports.EventPublisher

	mu       sync.RWMutex
	accounts map[string]*account
}

// NewVerifier creates a verifier signing tokens with secret.
func NewVerifier(secret []byte, revocations ports.RevocationList, events ports.EventPublisher) *Verifier {
	return &Verifier{
		secret:      secret,
		tokenTTL:    DefaultTokenTTL,
		revocations: revocations,
		events:      events,
		accounts:    make(map[string]*account),
	}
}

// tokenClaims is the bearer token payload: subject, email, jti, expiry.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Signup enrolls a new account and issues its first token.
func (v *Verifier) Signup(ctx context.Context, username, email, password string, face core.Sample) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if len(face.Data) == 0 {
		return "", ErrFaceUnreadable
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	for _, acct := range v.accounts {
		if acct.username == username || acct.email == email {
			return "", ErrDuplicateAccount
		}
	}

	v.accounts[username] = &account{
		username:     username,
		email:        email,
		passwordHash: hash,
		face:         face.Data,
	}

	return v.issueToken(username, email)
}

// Signin authenticates an enrolled account and issues a fresh token.
func (v *Verifier) Signin(ctx context.Context, username, password string, face core.Sample) (string, error) {
	v.mu.RLock()
	acct, ok := v.accounts[strings.TrimSpace(username)]
	v.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) != nil {
		return "", ErrBadCredentials
	}

	if len(face.Data) == 0 {
		return "", ErrFaceUnreadable
	}

	// The production matcher compares embeddings here; the stub only
	// requires that a sample was enrolled and one was presented.
	if len(acct.face) == 0 {
		return "", ErrFaceMismatch
	}

	return v.issueToken(acct.username, acct.email)
}

// Validate checks a bearer token and returns the identity it carries.
func (v *Verifier) Validate(ctx context.Context, tokenStr string) (username, email string, err error) {
	claims, err := v.parse(tokenStr)
	if err != nil {
		return "", "", err
	}

	if v.revocations != nil {
		revoked, err := v.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", "", fmt.Errorf("failed to check revocation: %w", err)
		}
		if revoked {
			return "", "", ErrTokenRevoked
		}
	}

	if claims.Subject == "" || claims.Email == "" {
		return "", "", ErrTokenInvalid
	}

	return claims.Subject, claims.Email, nil
}

// Logout revokes the presented token for its remaining lifetime. An
// unparseable or absent token is tolerated; logout is best effort.
func (v *Verifier) Logout(ctx context.Context, tokenStr string) error {
	claims, err := v.parse(tokenStr)
	if err != nil {
		return nil
	}

	if v.revocations != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := v.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
				return fmt.Errorf("failed to revoke token: %w", err)
			}
		}
	}

	if v.events != nil {
		_ = v.events.SessionEnded(ctx, "logout")
	}

	return nil
}

// VerifyCaptcha checks a captcha response token. The stub accepts any
// non-empty token.
func (v *Verifier) VerifyCaptcha(captchaToken string) bool {
	return strings.TrimSpace(captchaToken) != ""
}

func (v *Verifier) issueToken(username, email string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return token, nil
}

func (v *Verifier) parse(tokenStr string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
