package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ConnKeeper/internal/cli/api"
	crepo "ConnKeeper/internal/cli/repo"
	fsrepo "ConnKeeper/internal/cli/repo/fs"
	"ConnKeeper/internal/config"
)

// PushResult соответствует ответу сервера /api/catalog/import.
type PushResult struct {
	SourceID      string `json:"source_id" yaml:"source_id"`
	SchemaVersion string `json:"schema_version" yaml:"schema_version"`
	Created       bool   `json:"created" yaml:"created"`
	Entries       int    `json:"entries" yaml:"entries"`
	PushedAt      string `json:"pushed_at" yaml:"pushed_at"`
}

// Push отправляет документ в серверный каталог. Сервер расшифровывает
// документ сам, поэтому вместе с ним уходит cfg.Passphrase.
func Push(ctx context.Context, cfg *config.Config, tokens crepo.TokenStore, data []byte) (PushResult, error) {
	if cfg == nil {
		return PushResult{}, errors.New("nil config")
	}
	token, err := tokens.Load()
	if err != nil {
		return PushResult{}, fmt.Errorf("нет токена авторизации: выполните token <subject>: %w", err)
	}
	resp, body, err := api.PostDocument(ctx, cfg.ServerURL+"/api/catalog/import", data, token, cfg.Passphrase)
	if err != nil {
		return PushResult{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized:
		return PushResult{}, fmt.Errorf("unauthorized: token rejected by server")
	case http.StatusRequestEntityTooLarge:
		return PushResult{}, fmt.Errorf("document too large for server")
	default:
		return PushResult{}, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	var res PushResult
	if err := json.Unmarshal(body, &res); err != nil {
		return PushResult{}, err
	}
	res.PushedAt = time.Now().UTC().Format(time.RFC3339)
	if err := fsrepo.SaveLastPushAt(cfg.Profile, res.PushedAt); err != nil {
		// отправка уже прошла, отметка не критична
		return res, fmt.Errorf("save last push time: %w", err)
	}
	return res, nil
}

// ServerStatus — ответ /api/status.
type ServerStatus struct {
	Status        string `json:"status" yaml:"status"`
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Subject       string `json:"subject" yaml:"subject"`
}

// FetchStatus запрашивает состояние сервера; токен необязателен.
func FetchStatus(ctx context.Context, cfg *config.Config, tokens crepo.TokenStore) (ServerStatus, error) {
	if cfg == nil {
		return ServerStatus{}, errors.New("nil config")
	}
	token, _ := tokens.Load()
	resp, body, err := api.GetJSON(ctx, cfg.ServerURL+"/api/status", token)
	if err != nil {
		return ServerStatus{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return ServerStatus{}, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	var st ServerStatus
	if err := json.Unmarshal(body, &st); err != nil {
		return ServerStatus{}, err
	}
	return st, nil
}
