package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the name of the HTTP-only cookie carrying the session JWT.
const TokenCookie = "token"

// SessionToken represents a signed JWT session credential along with its
// expiry. The Token field contains the serialized JWT that is transported
// to the client inside an HTTP-only cookie. ID is the jti claim, used by
// the logout denylist to revoke the token before Exp.
type SessionToken struct {
	Token string    // the serialized JWT string
	ID    string    // the jti claim (random hex)
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is what a verified session token resolves to.
type SessionClaims struct {
	UserID uint64    // subject of the token
	ID     string    // jti claim
	Exp    time.Time // expiration time
}

// ErrNoSecret is returned when token operations are attempted without a
// configured signing secret. Callers must fail closed.
var ErrNoSecret = errors.New("jwt secret is not configured")

// NewSessionToken builds and signs an HS256 JWT for a user. The JWT
// includes standard claims: subject (sub), expiration (exp), issued at
// (iat) and a random token id (jti).
func NewSessionToken(secret string, userID uint64, ttlMin int) (SessionToken, error) {
	if secret == "" {
		return SessionToken{}, ErrNoSecret
	}
	jti, err := randomHex(16)
	if err != nil {
		return SessionToken{}, err
	}
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(userID, 10),
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
		"jti": jti,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, ID: jti, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of a session token
// and extracts its claims. Only HMAC-signed tokens are accepted; any
// parse, signature or expiry failure is returned as an error.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	if secret == "" {
		return SessionClaims{}, ErrNoSecret
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return SessionClaims{}, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, errors.New("invalid claims")
	}

	var sc SessionClaims
	switch sub := claims["sub"].(type) {
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return SessionClaims{}, errors.New("invalid subject claim")
		}
		sc.UserID = n
	case float64:
		// Numeric subjects appear when tokens were minted with a raw number.
		sc.UserID = uint64(sub)
	default:
		return SessionClaims{}, errors.New("missing subject claim")
	}
	if jti, ok := claims["jti"].(string); ok {
		sc.ID = jti
	}
	if exp, ok := claims["exp"].(float64); ok {
		sc.Exp = time.Unix(int64(exp), 0).UTC()
	}
	return sc, nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
