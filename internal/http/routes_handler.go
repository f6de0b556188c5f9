package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cantonlink/route-engine/internal/adapters/persistence"
	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/engine"
	"github.com/cantonlink/route-engine/internal/http/httputil"
	"github.com/cantonlink/route-engine/internal/routing"
	"github.com/cantonlink/route-engine/internal/status"
)

type RoutesHandler struct {
	engineSvc  *engine.Service
	trackerSvc *status.TrackerService
}

func NewRoutesHandler(engineSvc *engine.Service, trackerSvc *status.TrackerService) *RoutesHandler {
	return &RoutesHandler{engineSvc: engineSvc, trackerSvc: trackerSvc}
}

func (h *RoutesHandler) Root() string {
	return "/routes"
}

func (h *RoutesHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.trackRoute)
	pub.GET("/:routeId", h.getRoute)
	pub.GET("", h.listRoutes)
}

type trackRouteRequest struct {
	RouteID    string             `json:"routeId" binding:"required"`
	Provider   string             `json:"provider"`
	Tool       string             `json:"tool"`
	FromChain  string             `json:"fromChain" binding:"required"`
	ToChain    string             `json:"toChain" binding:"required"`
	FromTxHash string             `json:"fromTxHash"`
	Steps      []domain.RouteStep `json:"steps"`
}

// @Summary Track a route
// @Description Persists a resolved route and, when the source transaction hash is
// @Description present, starts polling the bridge until the transfer reaches a
// @Description terminal state. Re-posting the same routeId with a hash restarts the
// @Description poll, so an interrupted tracker can be resumed.
// @Tags routes
// @Accept json
// @Produce json
// @Param request body trackRouteRequest true "Route to track"
// @Success 200 {object} httputil.Response{data=domain.PersistedRoute}
// @Failure 400 {object} httputil.Response
// @Failure 500 {object} httputil.Response
// @Router /api/v1/routes [post]
func (h *RoutesHandler) trackRoute(c *gin.Context) {
	var req trackRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	now := time.Now().UnixMilli()
	record := &domain.PersistedRoute{
		RouteID:    req.RouteID,
		Provider:   req.Provider,
		Tool:       req.Tool,
		Status:     domain.StateIdle,
		FromChain:  req.FromChain,
		ToChain:    req.ToChain,
		FromTxHash: req.FromTxHash,
		Steps:      req.Steps,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if existing, err := h.trackerSvc.Get(req.RouteID); err == nil {
		record.CreatedAt = existing.CreatedAt
		record.Status = existing.Status
	}
	if req.FromTxHash != "" && !domain.IsTerminalState(record.Status) {
		record.Status = domain.StateBridging
	}

	fetch := h.engineSvc.StatusFetch(routing.StatusQuery{
		TxHash:    req.FromTxHash,
		FromChain: req.FromChain,
		ToChain:   req.ToChain,
		Tool:      req.Tool,
	})
	if err := h.trackerSvc.Track(record, fetch); err != nil {
		httputil.InternalError(c, "failed to persist route: "+err.Error())
		return
	}

	httputil.Success(c, record)
}

// @Summary Get a tracked route
// @Tags routes
// @Produce json
// @Param routeId path string true "Route id"
// @Success 200 {object} httputil.Response{data=domain.PersistedRoute}
// @Failure 404 {object} httputil.Response
// @Router /api/v1/routes/{routeId} [get]
func (h *RoutesHandler) getRoute(c *gin.Context) {
	record, err := h.trackerSvc.Get(c.Param("routeId"))
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			httputil.NotFound(c, "route not found")
			return
		}
		httputil.InternalError(c, err.Error())
		return
	}
	httputil.Success(c, record)
}

// @Summary List tracked routes
// @Tags routes
// @Produce json
// @Success 200 {object} httputil.Response{data=[]domain.PersistedRoute}
// @Router /api/v1/routes [get]
func (h *RoutesHandler) listRoutes(c *gin.Context) {
	records, err := h.trackerSvc.List()
	if err != nil {
		httputil.InternalError(c, err.Error())
		return
	}
	httputil.Success(c, records)
}
