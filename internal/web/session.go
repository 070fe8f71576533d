package web

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionCookie = "roomswap_session"

type sessionClaims struct {
	Participant string `json:"participant"`
	jwt.RegisteredClaims
}

// sessionManager signs and verifies the cookie that remembers which
// housemate a browser claimed. There is no password behind it; the cookie
// only keeps people from having to re-pick their name on every request.
type sessionManager struct {
	secret []byte
	ttl    time.Duration
}

func newSessionManager(secret string) *sessionManager {
	if secret == "" {
		// Sessions do not outlive the process, so a random per-boot
		// secret works when none is configured.
		secret = generateRandomString(32)
	}
	return &sessionManager{secret: []byte(secret), ttl: 24 * time.Hour}
}

func (m *sessionManager) issue(participant string) (string, error) {
	claims := &sessionClaims{
		Participant: participant,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *sessionManager) parse(tokenString string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.Participant, nil
}

func (m *sessionManager) setCookie(w http.ResponseWriter, participant string) error {
	token, err := m.issue(participant)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// participant extracts the claimed name from the request cookie, if any.
func (m *sessionManager) participant(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	name, err := m.parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return name, true
}

func generateRandomString(length int) string {
	// base64 encoding increases size by ~4/3, so we need fewer input bytes
	byteLength := (length * 3) / 4
	if byteLength < length {
		byteLength = length
	}

	b := make([]byte, byteLength)
	rand.Read(b)
	encoded := base64.URLEncoding.EncodeToString(b)
	if len(encoded) > length {
		return encoded[:length]
	}
	return encoded
}
