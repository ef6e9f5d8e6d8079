package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ConnKeeper/internal/connfile"
	"ConnKeeper/internal/connfile/connfiletest"
	"ConnKeeper/internal/handlers"
	"ConnKeeper/internal/middleware"
	"ConnKeeper/internal/model"
	"ConnKeeper/internal/schema"
	"ConnKeeper/internal/service"
)

func sampleDoc(t *testing.T, passphrase string) []byte {
	t.Helper()
	data, err := connfiletest.SampleDocument(passphrase)
	require.NoError(t, err)
	return data
}

func TestHandlers_Decode(t *testing.T) {
	router, _ := newHandlersTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/decode", bytes.NewReader(sampleDoc(t, "")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var view connfile.DocumentView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "2.6", view.Version)
	assert.Equal(t, "Connections", view.Name)
	require.Len(t, view.Root.Children, 2)
	web := view.Root.Children[0].Children[0]
	assert.Equal(t, "Prod/web", web.Path)
	assert.Equal(t, "ops", web.Info.Username)
	// секреты в ответ не попадают
	assert.NotContains(t, rr.Body.String(), "prod-pw")
	assert.NotContains(t, rr.Body.String(), "db-pw")
}

func TestHandlers_DecodePassphraseHeader(t *testing.T) {
	router, _ := newHandlersTestRouter(t)
	data := sampleDoc(t, "hunter2")

	tests := []struct {
		name       string
		passphrase string
		want       int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusUnauthorized},
		{"right", "hunter2", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/decode", bytes.NewReader(data))
			if tt.passphrase != "" {
				req.Header.Set(handlers.PassphraseHeader, tt.passphrase)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestHandlers_DecodeErrors(t *testing.T) {
	router, _ := newHandlersTestRouter(t)

	tooNew := `<?xml version="1.0"?><Connections Name="Connections" ConfVersion="2.9"></Connections>`
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty", "", http.StatusBadRequest},
		{"malformed", "<Connections", http.StatusBadRequest},
		{"unsupported version", tooNew, http.StatusUnprocessableEntity},
		{"too large", "<" + strings.Repeat("x", 1<<20+1), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/decode", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestHandlers_CatalogRequiresAuth(t *testing.T) {
	router, _ := newHandlersTestRouter(t)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/catalog/import", bytes.NewReader(sampleDoc(t, ""))),
		httptest.NewRequest(http.MethodGet, "/api/catalog", nil),
		httptest.NewRequest(http.MethodGet, "/api/catalog/n-web", nil),
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, req.URL.Path)
	}
}

func TestHandlers_ImportListGet(t *testing.T) {
	router, cfg := newHandlersTestRouter(t)
	data := sampleDoc(t, "")

	doImport := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/catalog/import", bytes.NewReader(data))
		addAuth(t, req, "alice", cfg.AuthSecret)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	rr := doImport()
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var res service.ImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Entries)
	assert.True(t, res.Created)

	// тот же документ второй раз — источник уже есть
	rr = doImport()
	require.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	token, err := middleware.NewToken("alice", cfg.AuthSecret, time.Minute)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []model.CatalogEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	// сортировка по пути: "Prod/web" < "db"
	assert.Equal(t, "Prod/web", entries[0].Path)
	assert.Equal(t, int64(2), entries[0].Version)
	assert.Equal(t, "ops", entries[0].Info.Username)
	assert.Equal(t, "db", entries[1].Path)

	req = httptest.NewRequest(http.MethodGet, "/api/catalog/n-db", nil)
	addAuth(t, req, "alice", cfg.AuthSecret)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var e model.CatalogEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	assert.Equal(t, "db.example.org", e.Hostname)

	// чужой каталог пуст
	req = httptest.NewRequest(http.MethodGet, "/api/catalog/n-db", nil)
	addAuth(t, req, "bob", cfg.AuthSecret)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlers_Status(t *testing.T) {
	router, cfg := newHandlersTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	addAuth(t, req, "alice", cfg.AuthSecret)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Equal(t, "ok", m["status"])
	assert.Equal(t, true, m["authenticated"])
	assert.Equal(t, "alice", m["subject"])
}

func TestStatusForError(t *testing.T) {
	wrap := func(kind error) error {
		return fmt.Errorf("decode: %w", &connfile.DecodeError{Kind: kind, Version: schema.V(2, 8)})
	}
	assert.Equal(t, http.StatusBadRequest, handlers.StatusForError(wrap(connfile.ErrMalformedDocument)))
	assert.Equal(t, http.StatusUnauthorized, handlers.StatusForError(wrap(connfile.ErrAuthenticationFailed)))
	assert.Equal(t, http.StatusUnprocessableEntity, handlers.StatusForError(wrap(connfile.ErrUnsupportedVersion)))
	assert.Equal(t, http.StatusUnprocessableEntity, handlers.StatusForError(wrap(connfile.ErrDecryptionFailed)))
	assert.Equal(t, http.StatusBadRequest, handlers.StatusForError(service.ErrEmptyDocument))
	assert.Equal(t, http.StatusInternalServerError, handlers.StatusForError(errors.New("db down")))
}
