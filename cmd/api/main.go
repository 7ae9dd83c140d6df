package main

import (
	"log"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	delivery "tokengallery/internal/adapter/delivery/http"
	handler "tokengallery/internal/adapter/handler/http"
	"tokengallery/internal/adapter/repository"
	"tokengallery/internal/config"
	"tokengallery/internal/logger"
	"tokengallery/internal/usecase"
)

func main() {
	// --- Configuration ---
	cfgPath := "configs"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	zapLogger, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer zapLogger.Sync() // Ensure logs are flushed before exiting
	zapLogger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	// --- Dependency Injection (Manual) ---
	zapLogger.Info("Initializing dependencies...")

	// Repositories & Checker
	contractReader := repository.NewStarknetRepo(cfg.Gateway, zapLogger)
	metadataCache := repository.NewGoCacheRepo(cfg.Cache, zapLogger)
	gatewayChecker := repository.NewGatewayChecker(zapLogger)

	// Use Cases
	tokenUseCase := usecase.NewTokenUseCase(contractReader, metadataCache, gatewayChecker, zapLogger, *cfg)

	// Handlers
	tokenHandler := handler.NewTokenHandler(tokenUseCase, zapLogger)

	// --- HTTP Router & Server ---
	zapLogger.Info("Setting up HTTP router...")
	r := router.New()
	delivery.RegisterRoutes(r, tokenHandler, zapLogger)

	// Middleware (example: logging)
	loggingMiddleware := func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			zapLogger.Info("Request received",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("uri", ctx.RequestURI()))
			next(ctx)
		}
	}

	serverAddr := ":" + cfg.Server.Port
	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr))

	if err := fasthttp.ListenAndServe(serverAddr, loggingMiddleware(r.Handler)); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
