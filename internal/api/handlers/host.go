package handlers

import (
	"net/http"

	"github.com/toneforge/toneforge-api/internal/config"
	"github.com/toneforge/toneforge-api/internal/host"
	"github.com/toneforge/toneforge-api/internal/metrics"
	"github.com/toneforge/toneforge-api/internal/storage"
	"github.com/toneforge/toneforge-api/internal/tone"
	"github.com/toneforge/toneforge-api/internal/undoredo"
	"github.com/gin-gonic/gin"
)

// HostHandler proxies internal/host against the live DAW instance and
// records every applied mapping run in internal/undoredo and (when a
// repository is configured) internal/storage, per SPEC_FULL.md §4.2-4.4.
type HostHandler struct {
	client     *host.Client
	undo       *undoredo.Manager
	repository *storage.Repository
	metrics    *metrics.Client // nil-safe, disabled outside production
}

func NewHostHandler(
	cfg *config.Config, client *host.Client, undo *undoredo.Manager, repository *storage.Repository, metricsClient *metrics.Client,
) *HostHandler {
	return &HostHandler{client: client, undo: undo, repository: repository, metrics: metricsClient}
}

type snapshotRequest struct {
	Track int `json:"track"`
}

// Snapshot proxies list_tracks/get_parameters into a tone.HostSnapshot.
// POST /api/v1/host/snapshot
func (h *HostHandler) Snapshot(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.client.Snapshot(c.Request.Context(), req.Track)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type applyRequest struct {
	Track  int          `json:"track"`
	Result tone.MappingResult `json:"result" binding:"required"`
}

// Apply executes a MappingResult's actions in order against the host,
// recording an undo transaction and (when configured) a MappingRun. If the
// result requires a re-snapshot (spec.md §6), the caller is expected to
// snapshot again and re-invoke /tone/map with plugin loading disabled,
// then call /host/apply a second time — this handler performs exactly one
// apply pass per call, as spec.md §6 describes.
// POST /api/v1/host/apply
func (h *HostHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changes, err := host.Apply(c.Request.Context(), h.client, req.Result.Actions)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "partial_changes": changes})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordMappingRun(len(changes), req.Result.RequiresResnapshot)
	}

	txn := h.undo.Commit(req.Track, req.Result.Summary, changes)

	var undoTransactionID string
	if txn != nil {
		undoTransactionID = txn.ID
	}

	if h.repository != nil {
		userID, _ := c.Get("user_id")
		if uid, ok := userID.(uint); ok && uid != 0 {
			_, _ = h.repository.SaveMappingRun(uid, req.Track, req.Result.Actions, req.Result.RequiresResnapshot, undoTransactionID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"applied_changes":     changes,
		"requires_resnapshot": req.Result.RequiresResnapshot,
		"undo_transaction_id": undoTransactionID,
	})
}

type trackRequest struct {
	Track int `json:"track"`
}

// Undo replays the inverse of the most recent transaction for a track.
// POST /api/v1/host/undo
func (h *HostHandler) Undo(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.undo.Undo(c.Request.Context(), h.client, req.Track)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// Redo replays the most recently undone transaction for a track.
// POST /api/v1/host/redo
func (h *HostHandler) Redo(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.undo.Redo(c.Request.Context(), h.client, req.Track)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}
