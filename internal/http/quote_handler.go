package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/engine"
	"github.com/cantonlink/route-engine/internal/http/httputil"
)

type QuoteHandler struct {
	engineSvc *engine.Service
}

func NewQuoteHandler(engineSvc *engine.Service) *QuoteHandler {
	return &QuoteHandler{engineSvc: engineSvc}
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.postQuote)
}

// @Summary Resolve a transfer into an executable route
// @Description Takes a transfer request (source and destination chain, token pair, amount)
// @Description and resolves it into a single executable route: a same-chain swap, a bridge,
// @Description or a bridge with a destination swap. The route carries ordered steps with
// @Description transaction data where the provider supplies it, disclosed fees, and
// @Description slippage-adjusted minimum output.
// @Description
// @Description **Modes:**
// @Description - AUTO: same-chain resolves to a swap, cross-chain to a bridge
// @Description - SWAP_ONLY: rejects cross-chain requests (MODE_SWAP_CROSS_CHAIN)
// @Description - BRIDGE_ONLY: rejects same-chain requests (MODE_BRIDGE_SAME_CHAIN)
// @Description
// @Description Amounts are in smallest token units.
// @Tags quote
// @Accept json
// @Produce json
// @Param request body domain.TransferRequest true "Transfer request"
// @Success 200 {object} httputil.Response{data=domain.Route} "Resolved route"
// @Failure 400 {object} httputil.Response "Validation or routing error with canonical code"
// @Failure 404 {object} httputil.Response "No route found for the pair"
// @Failure 502 {object} httputil.Response "Upstream provider unreachable"
// @Router /api/v1/quote [post]
func (h *QuoteHandler) postQuote(c *gin.Context) {
	var req domain.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	route, rerr := h.engineSvc.Resolve(c.Request.Context(), &req)
	if rerr != nil {
		httputil.RoutingError(c, rerr)
		return
	}

	httputil.Success(c, route)
}
