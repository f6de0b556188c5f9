package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cantonlink/route-engine/internal/engine"
	"github.com/cantonlink/route-engine/internal/http/httputil"
)

type TokensHandler struct {
	engineSvc *engine.Service
}

func NewTokensHandler(engineSvc *engine.Service) *TokensHandler {
	return &TokensHandler{engineSvc: engineSvc}
}

func (h *TokensHandler) Root() string {
	return "/tokens"
}

func (h *TokensHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.searchTokens)
}

type tokensQueryRequest struct {
	ChainID string `form:"chainId" binding:"required"`
	Query   string `form:"query"`
}

// @Summary Search curated tokens
// @Description Lists the curated tokens for a chain, optionally filtered by a
// @Description symbol or name substring.
// @Tags tokens
// @Produce json
// @Param chainId query string true "Chain id"
// @Param query query string false "Symbol or name substring"
// @Success 200 {object} httputil.Response{data=[]tokens.Token}
// @Failure 400 {object} httputil.Response
// @Router /api/v1/tokens [get]
func (h *TokensHandler) searchTokens(c *gin.Context) {
	var req tokensQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	registry := h.engineSvc.Tokens()
	if req.Query == "" {
		httputil.Success(c, registry.List(req.ChainID))
		return
	}
	httputil.Success(c, registry.Search(req.ChainID, req.Query))
}
