package handlers

import (
	"net/http"
	"time"

	"github.com/toneforge/toneforge-api/internal/config"
	"github.com/toneforge/toneforge-api/internal/llm"
	"github.com/toneforge/toneforge-api/internal/metrics"
	"github.com/toneforge/toneforge-api/internal/observability"
	"github.com/toneforge/toneforge-api/internal/storage"
	"github.com/toneforge/toneforge-api/internal/tone"
	"github.com/gin-gonic/gin"
)

const defaultToneModel = "gpt-5-mini"

// ToneHandler exposes the pure tone.Mapper core and the LLM-backed tone
// engineer as direct HTTP endpoints, per SPEC_FULL.md §5.
type ToneHandler struct {
	cfg        *config.Config
	providers  *llm.ProviderFactory
	repository *storage.Repository // nil when AuthMode != "local"
	metrics    *metrics.Client      // nil-safe, disabled outside production
}

func NewToneHandler(
	cfg *config.Config, providers *llm.ProviderFactory, repository *storage.Repository, metricsClient *metrics.Client,
) *ToneHandler {
	return &ToneHandler{cfg: cfg, providers: providers, repository: repository, metrics: metricsClient}
}

type engineerRequest struct {
	Description string `json:"description" binding:"required"`
	Model       string `json:"model"`
}

// Engineer turns a free-text tone description into a ToneSpec via the
// act-observe-retry loop in internal/llm.
// POST /api/v1/tone/engineer
func (h *ToneHandler) Engineer(c *gin.Context) {
	var req engineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := req.Model
	if model == "" {
		model = defaultToneModel
	}

	provider, err := h.providers.GetProvider(c.Request.Context(), model)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	trace := observability.GetClient().StartTrace(c.Request.Context(), "tone.engineer", map[string]interface{}{
		"model": model,
	})
	defer trace.Finish()

	started := time.Now()
	engineer := llm.NewToneEngineer(provider, model)
	result, err := engineer.Engineer(c.Request.Context(), req.Description)
	duration := time.Since(started)
	if h.metrics != nil {
		h.metrics.RecordGenerationDuration(duration, err == nil)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	gen := trace.Generation("engineer", map[string]interface{}{"attempts": result.Attempts})
	gen.Input(req.Description)
	gen.Output(result.RawOutput)
	gen.Finish()

	if h.repository != nil {
		userID, _ := c.Get("user_id")
		if uid, ok := userID.(uint); ok && uid != 0 {
			_, _ = h.repository.SaveToneHistory(uid, req.Description, result.Sanitized, "")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"tone":     result.Sanitized,
		"attempts": result.Attempts,
	})
}

// Sanitize canonicalizes a raw tone spec without calling an LLM.
// POST /api/v1/tone/sanitize
func (h *ToneHandler) Sanitize(c *gin.Context) {
	var raw tone.RawTone
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tone.Sanitize(raw))
}

type mapRequest struct {
	Tone     tone.ToneSpec      `json:"tone" binding:"required"`
	Snapshot tone.HostSnapshot  `json:"snapshot" binding:"required"`
	Config   *tone.MapperConfig `json:"config"`
}

// Map is the pure deterministic core exposed directly, for testability per
// spec.md §5/§9 — no I/O, no LLM.
// POST /api/v1/tone/map
func (h *ToneHandler) Map(c *gin.Context) {
	var req mapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mapperConfig := tone.MapperConfig{
		AllowLoadPlugins: h.cfg.AllowLoadPlugins,
		MaxEQPoints:      h.cfg.MaxEQPoints,
	}
	if req.Config != nil {
		mapperConfig = *req.Config
	}

	mapper := tone.NewMapper(mapperConfig)
	result := mapper.Map(req.Tone, req.Snapshot)
	c.JSON(http.StatusOK, result)
}

// History returns the authenticated user's recent tone-engineer results.
// GET /api/v1/tone/history
func (h *ToneHandler) History(c *gin.Context) {
	if h.repository == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "tone history requires AUTH_MODE=local"})
		return
	}

	userID, _ := c.Get("user_id")
	uid, ok := userID.(uint)
	if !ok || uid == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	entries, err := h.repository.RecentToneHistory(uid, maxHistoryPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}
