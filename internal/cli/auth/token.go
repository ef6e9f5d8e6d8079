package auth

import (
	"errors"
	"time"

	"ConnKeeper/internal/cli/repo"
	"ConnKeeper/internal/middleware"
)

// IssueToken выпускает bearer-токен для subject на общем с сервером секрете
// и сохраняет его в store.
func IssueToken(store repo.TokenStore, subject, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty auth secret")
	}
	if ttl <= 0 {
		ttl = middleware.TokenTTL
	}
	token, err := middleware.NewToken(subject, secret, ttl)
	if err != nil {
		return "", err
	}
	if err := store.Save(token); err != nil {
		return "", err
	}
	return token, nil
}
