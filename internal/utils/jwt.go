package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA-256 hashing for stored refresh tokens
	"encoding/hex"  // hex encoding for digests
	"errors"        // sentinel error values
	"strconv"       // subject claim conversion
	"time"          // expiry calculation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
	"github.com/google/uuid"       // unique jti per issued token
)

// Verification failures are split so that callers can distinguish "prompt a
// re-login" (expired) from "reject outright" (garbage, tampered, or signed
// with the wrong kind's secret).
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and presented on every protected request,
// either as a cookie or in the Authorization header.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken is the long-lived counterpart used solely to mint new access
// tokens. The raw JWT goes back to the client; only its SHA-256 digest is
// persisted on the account record, so a stolen database row cannot be used
// to refresh a session.
type RefreshToken struct {
	Token string    // raw token string returned to the client
	Exp   time.Time // UTC expiration time
}

// AccessClaims is the decoded payload of a verified access token. It carries
// enough identity for authorization context without a database round trip.
type AccessClaims struct {
	UserID   uint64
	Email    string
	Username string
	FullName string
}

// NewAccessToken builds and signs an HS256 JWT for an account. Claims: the
// subject (sub) is the account id, plus email, username and full_name so the
// verifying side can build authorization context, exp, iat and a random jti.
func NewAccessToken(secret string, userID uint64, email, username, fullName string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":       strconv.FormatUint(userID, 10),
		"email":     email,
		"username":  username,
		"full_name": fullName,
		"exp":       exp.Unix(),
		"iat":       now.Unix(),
		"jti":       uuid.NewString(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 JWT carrying only the account id.
// Refresh tokens live for days rather than minutes and are signed with a
// secret distinct from the access secret, so one kind can never verify as
// the other. The jti makes every issued token unique even within the same
// second; rotation relies on a fresh token never equalling the old one.
func NewRefreshToken(secret string, userID uint64, ttlDays int) (RefreshToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(userID, 10),
		"exp": exp.Unix(),
		"iat": now.Unix(),
		"jti": uuid.NewString(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken checks signature and expiry of a raw access token and
// returns its claims. Expired tokens fail with ErrTokenExpired; every other
// failure maps to ErrTokenInvalid. Verification is all-or-nothing: a token
// that fails any check never yields partial claims.
func VerifyAccessToken(secret, raw string) (AccessClaims, error) {
	claims, err := parseHS256(secret, raw)
	if err != nil {
		return AccessClaims{}, err
	}
	id, err := subjectID(claims)
	if err != nil {
		return AccessClaims{}, ErrTokenInvalid
	}
	ac := AccessClaims{UserID: id}
	if v, ok := claims["email"].(string); ok {
		ac.Email = v
	}
	if v, ok := claims["username"].(string); ok {
		ac.Username = v
	}
	if v, ok := claims["full_name"].(string); ok {
		ac.FullName = v
	}
	return ac, nil
}

// VerifyRefreshToken checks signature and expiry of a raw refresh token and
// returns the account id it was issued for.
func VerifyRefreshToken(secret, raw string) (uint64, error) {
	claims, err := parseHS256(secret, raw)
	if err != nil {
		return 0, err
	}
	id, err := subjectID(claims)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// HashToken returns the SHA-256 hex digest of a raw token. The digest, not
// the raw value, is what the users table stores in refresh_token_hash.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// parseHS256 parses a raw JWT, enforcing the HMAC signing method, and maps
// library errors onto the two sentinel values above.
func parseHS256(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// subjectID extracts the numeric account id from the sub claim. Tokens are
// issued with a string subject, but float64 is accepted as well since that
// is how JSON numbers decode.
func subjectID(claims jwt.MapClaims) (uint64, error) {
	switch v := claims["sub"].(type) {
	case string:
		return strconv.ParseUint(v, 10, 64)
	case float64:
		return uint64(v), nil
	default:
		return 0, ErrTokenInvalid
	}
}
