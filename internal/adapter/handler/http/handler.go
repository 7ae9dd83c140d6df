package http

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"tokengallery/internal/pkg/apperrors"
	"tokengallery/internal/usecase"
)

type TokenHandler struct {
	useCase usecase.TokenUseCase
	logger  *zap.Logger
}

func NewTokenHandler(uc usecase.TokenUseCase, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		useCase: uc,
		logger:  logger.Named("TokenHandler"),
	}
}

// GetContract handles requests for a contract overview.
func (h *TokenHandler) GetContract(ctx *fasthttp.RequestCtx) {
	address, ok := ctx.UserValue("address").(string)
	if !ok || address == "" {
		ctx.Error("Bad Request: Invalid contract address", fasthttp.StatusBadRequest)
		return
	}

	contract, err := h.useCase.GetContract(ctx, address)
	if err != nil {
		h.writeError(ctx, err, "Failed to get contract", zap.String("address", address))
		return
	}

	h.writeJSON(ctx, contract)
}

// GetToken handles requests for the decoded metadata of a single token.
func (h *TokenHandler) GetToken(ctx *fasthttp.RequestCtx) {
	address, ok := ctx.UserValue("address").(string)
	if !ok || address == "" {
		ctx.Error("Bad Request: Invalid contract address", fasthttp.StatusBadRequest)
		return
	}

	tokenIDStr, ok := ctx.UserValue("tokenId").(string)
	if !ok {
		ctx.Error("Bad Request: Invalid tokenId", fasthttp.StatusBadRequest)
		return
	}
	tokenID, ok := parseTokenID(tokenIDStr)
	if !ok {
		h.logger.Debug("Failed to parse tokenId", zap.String("tokenIdStr", tokenIDStr))
		ctx.Error("Bad Request: Invalid tokenId", fasthttp.StatusBadRequest)
		return
	}

	md, err := h.useCase.GetTokenMetadata(ctx, address, tokenID)
	if err != nil {
		h.writeError(ctx, err, "Failed to get token metadata",
			zap.String("address", address), zap.String("tokenId", tokenID.String()))
		return
	}

	h.writeJSON(ctx, md)
}

// GetGateways handles requests for gateway health.
func (h *TokenHandler) GetGateways(ctx *fasthttp.RequestCtx) {
	statuses, err := h.useCase.GetGatewayStatuses(ctx)
	if err != nil {
		h.writeError(ctx, err, "Failed to get gateway statuses")
		return
	}
	h.writeJSON(ctx, statuses)
}

// parseTokenID accepts decimal and 0x-hex token ids of any width; ids
// routinely exceed 64 bits, so they stay big integers end to end.
func parseTokenID(s string) (*big.Int, bool) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		id, ok := new(big.Int).SetString(rest, 16)
		return id, ok
	}
	id, ok := new(big.Int).SetString(s, 10)
	return id, ok
}

func (h *TokenHandler) writeJSON(ctx *fasthttp.RequestCtx, v any) {
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		// Response already started, can't set error code
	}
}

func (h *TokenHandler) writeError(ctx *fasthttp.RequestCtx, err error, msg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		h.logger.Warn(msg, append(fields, zap.Error(err))...)
		ctx.Error("Not Found", fasthttp.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidInput):
		h.logger.Warn(msg, append(fields, zap.Error(err))...)
		ctx.Error("Bad Request", fasthttp.StatusBadRequest)
	case errors.Is(err, apperrors.ErrTimeout):
		h.logger.Error(msg, append(fields, zap.Error(err))...)
		ctx.Error("Gateway Timeout", fasthttp.StatusGatewayTimeout)
	default:
		h.logger.Error(msg, append(fields, zap.Error(err))...)
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
	}
}
