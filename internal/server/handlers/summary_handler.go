package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seydifall/dindetrack/internal/cache"
	"github.com/seydifall/dindetrack/internal/domain/models"
	"github.com/seydifall/dindetrack/internal/repository/mongodb"
	"github.com/seydifall/dindetrack/internal/service/rollup"
)

// SummaryHandler adapts the rollup service to HTTP. It never surfaces a
// record store failure to the caller: the summary payload is best-effort
// and the status is 200 whenever the scope itself is well-formed.
type SummaryHandler struct {
	svc     *rollup.Service
	cache   *cache.SummaryCache
	archive mongodb.Repository
	logger  *zap.Logger
}

// NewSummaryHandler constructs the HTTP handler adapter. archive may be
// nil when snapshot archival is disabled.
func NewSummaryHandler(svc *rollup.Service, summaryCache *cache.SummaryCache, archive mongodb.Repository, logger *zap.Logger) *SummaryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryHandler{svc: svc, cache: summaryCache, archive: archive, logger: logger}
}

// Get serves GET /api/farms/:farmId/lots/:lot/weeks/:semaine/summary.
func (h *SummaryHandler) Get(c *gin.Context) {
	farmID := c.Param("farmId")
	lot := c.Param("lot")
	semaine := c.Param("semaine")
	if farmID == "" || lot == "" || semaine == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "farmId, lot and semaine are required"})
		return
	}

	batiments := parseBatiments(c.Query("batiments"))

	key := cache.Key(farmID, lot, semaine, batiments)
	if cached := h.cache.Get(c.Request.Context(), key); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	summary := h.svc.ComputeWeeklySummary(c.Request.Context(), farmID, lot, semaine, batiments)
	h.cache.Set(c.Request.Context(), key, summary)

	c.JSON(http.StatusOK, summary)
}

// InvalidateCache serves DELETE .../summary/cache, the hook the
// record-writing application calls after any write touching the scope.
func (h *SummaryHandler) InvalidateCache(c *gin.Context) {
	farmID := c.Param("farmId")
	lot := c.Param("lot")
	semaine := c.Param("semaine")
	if farmID == "" || lot == "" || semaine == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "farmId, lot and semaine are required"})
		return
	}

	dropped := h.cache.InvalidateScope(c.Request.Context(), farmID, lot, semaine)
	h.logger.Debug("summary cache invalidated",
		zap.String("farm_id", farmID),
		zap.String("lot", lot),
		zap.String("semaine", semaine),
		zap.Int("dropped", dropped))

	c.JSON(http.StatusOK, gin.H{"dropped": dropped})
}

// GetArchived serves GET .../summary/archive: the last snapshot the
// scheduler persisted for the scope, for comparing against a live
// recompute after retroactive edits.
func (h *SummaryHandler) GetArchived(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot archival is disabled"})
		return
	}

	snapshot, err := h.archive.LatestSnapshot(c.Request.Context(), c.Param("farmId"), c.Param("lot"), c.Param("semaine"))
	if err != nil {
		h.logger.Error("failed loading archived snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load snapshot"})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for this scope"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// parseBatiments turns the comma-separated query value into a building
// list, falling back to the default building order.
func parseBatiments(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return models.DefaultBatiments
	}

	var batiments []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			batiments = append(batiments, trimmed)
		}
	}
	if len(batiments) == 0 {
		return models.DefaultBatiments
	}
	return batiments
}
