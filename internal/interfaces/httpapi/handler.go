package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
	"github.com/riskibarqy/fpl-xvalue/internal/usecase"
)

// SnapshotSource returns the current ranking without waiting for a refresh.
type SnapshotSource interface {
	Current(ctx context.Context) usecase.Snapshot
}

type Handler struct {
	snapshots SnapshotSource
	static    *staticFiles
	logger    *logging.Logger
}

func NewHandler(snapshots SnapshotSource, staticDir string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		snapshots: snapshots,
		static:    newStaticFiles(staticDir),
		logger:    logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetFPLData answers 202 until the first ranking is published, then always
// serves the cached table, stale or not.
func (h *Handler) GetFPLData(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFPLData")
	defer span.End()

	snapshot := h.snapshots.Current(ctx)
	if !snapshot.Ready {
		writeJSON(ctx, w, http.StatusAccepted, loadingResponse{
			Loading:    true,
			Message:    loadingMessage,
			IsUpdating: true,
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, toFPLDataResponse(snapshot))
}

func (h *Handler) GetIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetIndex")
	defer span.End()

	h.serveStatic(ctx, w, r, "index.html")
}

func (h *Handler) GetStaticFile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStaticFile")
	defer span.End()

	h.serveStatic(ctx, w, r, r.URL.Path)
}

func (h *Handler) serveStatic(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) {
	file, err := h.static.Read(name)
	if err != nil {
		h.logger.DebugContext(ctx, "static file not served", "path", r.URL.Path, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(file.Body)
	}
}
