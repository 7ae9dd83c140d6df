package http

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	handler "tokengallery/internal/adapter/handler/http"
)

// RegisterRoutes sets up the routes for the token handler and common health checks.
func RegisterRoutes(r *router.Router, h *handler.TokenHandler, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.GET("/contracts/{address:0x[0-9a-fA-F]+}", h.GetContract)
	r.GET("/contracts/{address:0x[0-9a-fA-F]+}/tokens/{tokenId}", h.GetToken)
	r.GET("/gateways", h.GetGateways)

	logger.Info("Setting up health check route...")
	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})

	logger.Info("All routes registered.")
}
