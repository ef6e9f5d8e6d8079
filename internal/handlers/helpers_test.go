package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ConnKeeper/internal/config"
	"ConnKeeper/internal/connfile"
	"ConnKeeper/internal/handlers"
	"ConnKeeper/internal/middleware"
	"ConnKeeper/internal/repo"
	"ConnKeeper/internal/service"
)

func newHandlersTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", MaxDocumentMB: 1}
	logger := zap.NewNop().Sugar()

	db, err := repo.InitDB(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)

	svc := service.NewCatalogService(repo.NewCatalogRepository(db), repo.NewSourceRepository(db), connfile.Settings{}, logger)
	h := handlers.NewHandler(svc, logger, cfg)
	return h.Router, cfg
}

func addAuth(t *testing.T, req *http.Request, subject, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, middleware.SetLoginCookie(rr, subject, secret))
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}
