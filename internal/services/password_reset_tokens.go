package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	passwordResetPurpose    = "password_reset"
	defaultPasswordResetTTL = 30 * time.Minute
)

var (
	ErrResetTokenMissing = errors.New("missing reset token")
	ErrResetTokenInvalid = errors.New("invalid reset token")
	ErrResetTokenExpired = errors.New("expired reset token")
	ErrResetTokenUsed    = errors.New("reset token already used")
)

type PasswordResetClaims struct {
	UserID        uint   `json:"uid"`
	Purpose       string `json:"purpose"`
	PasswordState string `json:"pws"`
	jwt.RegisteredClaims
}

// PasswordResetTokens issues short-lived HS256 tokens bound to the password hash that
// was current at issue time, so a token stops working once the password changes.
type PasswordResetTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewPasswordResetTokens(secret []byte, ttl time.Duration) *PasswordResetTokens {
	if ttl <= 0 {
		ttl = defaultPasswordResetTTL
	}
	return &PasswordResetTokens{secret: secret, ttl: ttl}
}

func (tokens *PasswordResetTokens) Issue(userID uint, passwordHash string, now time.Time) (string, error) {
	state := passwordFingerprint(passwordHash)
	if state == "" || userID == 0 {
		return "", ErrResetTokenInvalid
	}

	claims := PasswordResetClaims{
		UserID:        userID,
		Purpose:       passwordResetPurpose,
		PasswordState: state,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokens.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokens.secret)
}

// Verify checks signature, purpose and expiry. Binding to the current password is
// checked separately with MatchesPassword once the user is loaded.
func (tokens *PasswordResetTokens) Verify(raw string, now time.Time) (*PasswordResetClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrResetTokenMissing
	}

	claims := &PasswordResetClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return tokens.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrResetTokenExpired
	}
	if err != nil {
		return nil, ErrResetTokenInvalid
	}
	if claims.Purpose != passwordResetPurpose || claims.UserID == 0 || claims.ExpiresAt == nil {
		return nil, ErrResetTokenInvalid
	}
	return claims, nil
}

func (claims *PasswordResetClaims) MatchesPassword(passwordHash string) bool {
	actual := passwordFingerprint(passwordHash)
	if actual == "" || claims.PasswordState == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(claims.PasswordState), []byte(actual)) == 1
}

func passwordFingerprint(passwordHash string) string {
	normalized := strings.TrimSpace(passwordHash)
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte("mediplan.reset.password-state.v1:" + normalized))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
