package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/sikabut/internal/apperr"
)

const detailUnreachable = "upstream unreachable"

// Lookuper fetches the raw records for a file number.
type Lookuper interface {
	Lookup(ctx context.Context, fileNumber string) ([]json.RawMessage, error)
}

// Handler holds the relay route handlers.
type Handler struct {
	relay Lookuper
}

// NewHandler creates a new Handler.
func NewHandler(relay Lookuper) *Handler {
	return &Handler{relay: relay}
}

// Proxy handles GET /api/proxy?nomor_berkas=.
//
//	@Summary		Look up a land-registry file
//	@Tags			relay
//	@Produce		json
//	@Param			nomor_berkas	query		string	true	"File number"
//	@Success		200				{array}		object
//	@Failure		400				{object}	errResponse
//	@Failure		502				{object}	errResponse
//	@Router			/proxy [get]
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, "nomor_berkas")
}

// GetData handles GET /api/getData?nomor=, the legacy alias of Proxy.
//
//	@Summary		Look up a land-registry file (legacy)
//	@Tags			relay
//	@Produce		json
//	@Param			nomor	query		string	true	"File number"
//	@Success		200		{array}		object
//	@Failure		400		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Router			/getData [get]
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, "nomor")
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, param string) {
	fileNumber := strings.TrimSpace(r.URL.Query().Get(param))
	if fileNumber == "" {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("parameter '%s' is required", param)))
		return
	}

	records, err := h.relay.Lookup(r.Context(), fileNumber)
	if err != nil {
		var upErr *apperr.UpstreamError
		switch {
		case errors.Is(err, apperr.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("parameter '%s' is required", param)))
		case errors.As(err, &upErr):
			slog.Error("upstream lookup failed",
				slog.String("file_number", fileNumber),
				slog.Int("upstream_status", upErr.StatusCode),
				slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, errResponse{
				Error:  "failed to fetch data from upstream",
				Detail: upstreamDetail(upErr),
			})
		default:
			slog.Error("lookup failed", slog.String("file_number", fileNumber), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, records)
}

// upstreamDetail returns only what the upstream itself said. Transport
// errors carry the upstream address and stay in the log.
func upstreamDetail(e *apperr.UpstreamError) string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.StatusCode == 0:
		return detailUnreachable
	default:
		return http.StatusText(e.StatusCode)
	}
}
