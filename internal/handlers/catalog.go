package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ConnKeeper/internal/config"
	"ConnKeeper/internal/connfile"
	"ConnKeeper/internal/middleware"
	"ConnKeeper/internal/repo"
	"ConnKeeper/internal/service"
)

// PassphraseHeader — заголовок с паролем документа.
const PassphraseHeader = "X-Connections-Passphrase"

// CatalogHandler обрабатывает декодирование документов и каталог.
type CatalogHandler struct {
	CatalogService *service.CatalogService
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

// NewCatalogHandler создаёт хендлер каталога
func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.SugaredLogger, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{CatalogService: catalogService, Logger: logger, Config: cfg}
}

// Status отвечает, что сервер жив, и кто вызывающий.
func (h *CatalogHandler) Status(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"authenticated": ok,
		"subject":       subject,
	})
}

// Decode декодирует документ из тела запроса и возвращает дерево без секретов.
func (h *CatalogHandler) Decode(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readDocument(w, r)
	if !ok {
		return
	}
	doc, err := h.CatalogService.Decode(r.Context(), data, r.Header.Get(PassphraseHeader))
	if err != nil {
		h.writeDecodeError(w, "Decode", err)
		return
	}
	writeJSON(w, http.StatusOK, doc.View(false))
}

// Import декодирует документ и сохраняет его подключения в каталог вызывающего.
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	data, ok := h.readDocument(w, r)
	if !ok {
		return
	}
	res, err := h.CatalogService.Import(r.Context(), subject, data, r.Header.Get(PassphraseHeader))
	if err != nil {
		h.writeDecodeError(w, "Import", err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// List возвращает каталог вызывающего.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	entries, err := h.CatalogService.List(r.Context(), subject)
	if err != nil {
		h.Logger.Errorw("List: service error", "subject", subject, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Get возвращает одну запись каталога по ID узла.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubjectFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	e, err := h.CatalogService.Get(r.Context(), subject, nodeID)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Errorw("Get: service error", "subject", subject, "node_id", nodeID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// readDocument читает тело с лимитом размера; при ошибке ответ уже записан.
func (h *CatalogHandler) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limit := h.Config.MaxDocumentBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Logger.Warnw("document too large", "limit", limit)
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		h.Logger.Warnw("failed to read document", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return nil, false
	}
	if len(data) == 0 {
		http.Error(w, "empty document", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

// writeDecodeError переводит категорию ошибки декодирования в HTTP-статус.
func (h *CatalogHandler) writeDecodeError(w http.ResponseWriter, op string, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		h.Logger.Errorw(op+": service error", "error", err)
		http.Error(w, "internal error", status)
		return
	}
	h.Logger.Warnw(op+": document rejected", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// StatusForError: 400 — битый документ, 401 — неверный пароль,
// 422 — неподдерживаемая версия или сбой расшифровки.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, connfile.ErrMalformedDocument), errors.Is(err, service.ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, connfile.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, connfile.ErrUnsupportedVersion), errors.Is(err, connfile.ErrDecryptionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
