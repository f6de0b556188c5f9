package http

import (
	gohttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/cantonlink/route-engine/internal/engine"
	"github.com/cantonlink/route-engine/internal/http/httputil"
	"github.com/cantonlink/route-engine/internal/routing"
)

type StatusHandler struct {
	engineSvc *engine.Service
}

func NewStatusHandler(engineSvc *engine.Service) *StatusHandler {
	return &StatusHandler{engineSvc: engineSvc}
}

func (h *StatusHandler) Root() string {
	return "/status"
}

func (h *StatusHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getStatus)
}

type statusQueryRequest struct {
	TxHash    string `form:"txHash" binding:"required"`
	FromChain string `form:"fromChain"`
	ToChain   string `form:"toChain"`
	Bridge    string `form:"bridge"`
}

// @Summary Get bridge transaction status
// @Description Looks up the current state of a bridge transfer by its source chain tx
// @Description hash. The bridge hint selects the transport when present; otherwise the
// @Description chain pair does. States are canonical: unknown provider vocabulary maps
// @Description to BRIDGING rather than failing the lookup.
// @Tags status
// @Produce json
// @Param txHash query string true "Source chain transaction hash"
// @Param fromChain query string false "Source chain id"
// @Param toChain query string false "Destination chain id"
// @Param bridge query string false "Bridge tool hint, e.g. stargate"
// @Success 200 {object} httputil.Response{data=domain.BridgeStatus}
// @Failure 400 {object} httputil.Response
// @Failure 502 {object} httputil.Response "Bridge status API unreachable"
// @Router /api/v1/status [get]
func (h *StatusHandler) getStatus(c *gin.Context) {
	var req statusQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	bridgeStatus, err := h.engineSvc.BridgeStatus(c.Request.Context(), routing.StatusQuery{
		TxHash:    req.TxHash,
		FromChain: req.FromChain,
		ToChain:   req.ToChain,
		Tool:      req.Bridge,
	})
	if err != nil {
		httputil.Error(c, gohttp.StatusBadGateway, err.Error())
		return
	}

	httputil.Success(c, bridgeStatus)
}
