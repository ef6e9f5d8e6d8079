package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"
)

// PassphraseHeader — заголовок с паролем документа (совпадает с серверным).
const PassphraseHeader = "X-Connections-Passphrase"

func setAuth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, bytes.TrimSpace(body), nil
}

// PostDocument отправляет документ подключений, сжатый gzip. Пустой token
// не добавляет Authorization, пустой passphrase — заголовок пароля.
func PostDocument(ctx context.Context, url string, doc []byte, token, passphrase string) (*http.Response, []byte, error) {
	if len(doc) == 0 {
		return nil, nil, errors.New("empty document")
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(doc); err != nil {
		return nil, nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("Content-Encoding", "gzip")
	if passphrase != "" {
		req.Header.Set(PassphraseHeader, passphrase)
	}
	setAuth(req, token)
	return do(req)
}

// GetJSON выполняет GET и возвращает тело ответа.
func GetJSON(ctx context.Context, url, token string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	setAuth(req, token)
	return do(req)
}
