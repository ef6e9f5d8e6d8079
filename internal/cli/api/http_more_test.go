package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Доп.кейс: без токена и пароля заголовки не устанавливаются
func TestPostDocument_NoToken_NoHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := r.Header.Get("Authorization"); c != "" {
			t.Fatalf("Authorization must be empty when token not provided, got: %q", c)
		}
		if _, ok := r.Header[PassphraseHeader]; ok {
			t.Fatalf("passphrase header must be absent")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	resp, _, err := PostDocument(context.Background(), ts.URL, []byte("x"), "", "")
	if err != nil {
		t.Fatalf("PostDocument err: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

// Доп.кейс: сетевая ошибка (недостижимый адрес)
func TestPostDocument_NetworkError(t *testing.T) {
	if _, _, err := PostDocument(context.Background(), "http://127.0.0.1:1", []byte("x"), "", ""); err == nil {
		t.Fatalf("expected network error for unreachable URL")
	}
	if _, _, err := GetJSON(context.Background(), "http://127.0.0.1:1", ""); err == nil {
		t.Fatalf("expected network error for unreachable URL")
	}
}

// Доп.кейс: ошибка при создании запроса (невалидный URL)
func TestInvalidURL_NewRequestError(t *testing.T) {
	if _, _, err := PostDocument(context.Background(), "http://[::1", []byte("x"), "", ""); err == nil {
		t.Fatalf("expected new request error for invalid URL")
	}
	if _, _, err := GetJSON(context.Background(), "http://[::1", ""); err == nil {
		t.Fatalf("expected new request error for invalid URL")
	}
}
