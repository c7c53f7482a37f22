package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	maxSessionIDLen = 128
	tokenTTL        = 24 * time.Hour
)

// Identities issues and recognises caller session IDs. With a secret, the
// value handed to callers is an HS256 token wrapping the ID; without one it
// is the bare ID.
type Identities struct {
	secret []byte
	now    func() time.Time
}

func NewIdentities(secret string) *Identities {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &Identities{secret: key, now: time.Now}
}

// Issue mints a new session ID and the token the caller should echo back.
func (i *Identities) Issue() (id, token string, err error) {
	id = uuid.NewString()
	if i.secret == nil {
		return id, id, nil
	}

	claims := jwt.MapClaims{
		"sid": id,
		"iat": i.now().Unix(),
		"exp": i.now().Add(tokenTTL).Unix(),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", err
	}
	return id, token, nil
}

// Resolve returns the session ID carried by token, or false when the token is
// empty, malformed, expired or signed with another secret.
func (i *Identities) Resolve(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" || (i.secret == nil && len(token) > maxSessionIDLen) {
		return "", false
	}
	if i.secret == nil {
		return token, true
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return "", false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, _ := claims["sid"].(string)
	if _, err := uuid.Parse(sid); err != nil {
		return "", false
	}
	return sid, true
}
