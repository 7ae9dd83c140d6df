package usecase

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"tokengallery/internal/codec"
	"tokengallery/internal/config"
	"tokengallery/internal/entity"
	"tokengallery/internal/pkg/apperrors"
)

// Compile-time check to ensure tokenUseCase implements TokenUseCase
var _ TokenUseCase = (*tokenUseCase)(nil)

type tokenUseCase struct {
	reader  ContractReader
	cache   MetadataCache
	checker GatewayChecker
	codec   *codec.Codec
	logger  *zap.Logger
	cfg     config.Config
}

func NewTokenUseCase(
	reader ContractReader,
	cache MetadataCache,
	checker GatewayChecker,
	logger *zap.Logger,
	cfg config.Config,
) TokenUseCase {
	uc := &tokenUseCase{
		reader:  reader,
		cache:   cache,
		checker: checker,
		codec:   codec.New(logger),
		logger:  logger.Named("TokenUseCase"),
		cfg:     cfg,
	}
	// Start background gateway re-checks
	go uc.startBackgroundChecker()
	return uc
}

// uint256Calldata splits a token id into the low/high felt pair the
// entrypoint ABI expects.
func uint256Calldata(id *big.Int) []string {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	low := new(big.Int).And(id, mask)
	high := new(big.Int).Rsh(id, 128)
	return []string{"0x" + low.Text(16), "0x" + high.Text(16)}
}

func (uc *tokenUseCase) GetContract(ctx context.Context, address string) (*entity.Contract, error) {
	if cached, err := uc.cache.GetContract(ctx, address); err == nil && cached != nil {
		uc.logger.Debug("Cache hit for contract", zap.String("address", address))
		return cached, nil
	}

	contract := &entity.Contract{Address: address, Kind: entity.ContractUnknown}
	probed := false

	if v, ok, err := uc.callAndDecode(ctx, address, nil, "name"); err != nil {
		return nil, err
	} else if ok {
		probed = true
		contract.Name, _ = v.AsText()
	}

	if v, ok, err := uc.callAndDecode(ctx, address, nil, "symbol"); err != nil {
		return nil, err
	} else if ok {
		probed = true
		contract.Symbol, _ = v.AsText()
	}

	if n, ok, err := uc.callNumeric(ctx, address, nil, "decimals"); err != nil {
		return nil, err
	} else if ok && n.IsInt64() {
		probed = true
		contract.Decimals = int(n.Int64())
		contract.Kind = entity.ContractPoints
	}

	if n, ok, err := uc.callNumeric(ctx, address, nil, "total_supply", "totalSupply"); err != nil {
		return nil, err
	} else if ok {
		probed = true
		// Decimal text: supplies do not fit a float-safe integer.
		contract.TotalSupply = n.String()
	}

	if v, ok, err := uc.callAndDecode(ctx, address, nil, "contract_uri", "contractURI"); err != nil {
		return nil, err
	} else if ok && !v.IsNull() {
		probed = true
		contract.Metadata = &v
	}

	if !probed {
		uc.logger.Warn("No known entrypoint answered", zap.String("address", address))
		return nil, apperrors.ErrNotFound
	}
	if contract.Kind == entity.ContractUnknown && (contract.Name != "" || contract.Symbol != "" || contract.Metadata != nil) {
		contract.Kind = entity.ContractCollectible
	}

	if err := uc.cache.SetContract(ctx, contract, uc.cfg.Cache.GetTTL()); err != nil {
		uc.logger.Error("Failed to cache contract", zap.String("address", address), zap.Error(err))
	}
	return contract, nil
}

func (uc *tokenUseCase) GetTokenMetadata(ctx context.Context, address string, tokenID *big.Int) (*entity.TokenMetadata, error) {
	if tokenID == nil || tokenID.Sign() < 0 {
		return nil, apperrors.ErrInvalidInput
	}
	idText := tokenID.String()

	if cached, err := uc.cache.GetTokenMetadata(ctx, address, idText); err == nil && cached != nil {
		uc.logger.Debug("Cache hit for token metadata",
			zap.String("address", address), zap.String("tokenId", idText))
		return cached, nil
	}

	calldata := uint256Calldata(tokenID)
	v, ok, err := uc.callAndDecode(ctx, address, calldata, "token_uri", "tokenURI")
	if err != nil {
		return nil, err
	}
	if !ok {
		uc.logger.Warn("Token metadata entrypoints reverted",
			zap.String("address", address), zap.String("tokenId", idText))
		return nil, apperrors.ErrNotFound
	}

	md := entity.MetadataFromValue(idText, v)
	if err := uc.cache.SetTokenMetadata(ctx, address, &md, uc.cfg.Cache.GetTTL()); err != nil {
		uc.logger.Error("Failed to cache token metadata",
			zap.String("address", address), zap.String("tokenId", idText), zap.Error(err))
	}
	return &md, nil
}

func (uc *tokenUseCase) GetGatewayStatuses(ctx context.Context) ([]entity.GatewayStatus, error) {
	if cached, err := uc.cache.GetGatewayStatuses(ctx); err == nil && len(cached) > 0 {
		uc.logger.Debug("Cache hit for gateway statuses")
		return cached, nil
	}
	return uc.checkAndCacheGateways(ctx)
}

// callAndDecode calls the first entrypoint spelling that answers and runs
// the result through the metadata codec. ok is false when every spelling
// reverted; transport failures propagate.
func (uc *tokenUseCase) callAndDecode(
	ctx context.Context,
	address string,
	calldata []string,
	entrypoints ...string,
) (entity.Value, bool, error) {
	felts, ok, err := uc.callFirst(ctx, address, calldata, entrypoints...)
	if err != nil || !ok {
		return entity.Value{}, false, err
	}
	return uc.codec.Decode(codec.ParseCallResult(felts)), true, nil
}

// callNumeric is callAndDecode for entrypoints returning a single felt that
// consumers treat as a number rather than metadata.
func (uc *tokenUseCase) callNumeric(
	ctx context.Context,
	address string,
	calldata []string,
	entrypoints ...string,
) (*big.Int, bool, error) {
	felts, ok, err := uc.callFirst(ctx, address, calldata, entrypoints...)
	if err != nil || !ok {
		return nil, false, err
	}
	if len(felts) == 0 {
		return nil, false, nil
	}
	n, err := codec.ParseFelt(felts[0])
	if err != nil {
		uc.logger.Debug("Numeric entrypoint returned a non-numeric felt",
			zap.String("address", address), zap.Strings("result", felts))
		return nil, false, nil
	}
	return n, true, nil
}

func (uc *tokenUseCase) callFirst(
	ctx context.Context,
	address string,
	calldata []string,
	entrypoints ...string,
) ([]string, bool, error) {
	for _, ep := range entrypoints {
		felts, err := uc.reader.Call(ctx, address, ep, calldata)
		if err == nil {
			return felts, true, nil
		}
		if errors.Is(err, apperrors.ErrCallReverted) {
			uc.logger.Debug("Entrypoint reverted",
				zap.String("address", address), zap.String("entrypoint", ep))
			continue
		}
		uc.logger.Error("Contract call failed",
			zap.String("address", address), zap.String("entrypoint", ep), zap.Error(err))
		return nil, false, err
	}
	return nil, false, nil
}

// checkAndCacheGateways probes every configured gateway in parallel and
// caches the result.
func (uc *tokenUseCase) checkAndCacheGateways(ctx context.Context) ([]entity.GatewayStatus, error) {
	urls := uc.cfg.Gateway.URLs
	statuses := make([]entity.GatewayStatus, len(urls))
	timeout := uc.cfg.Gateway.GetCheckTimeout()

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(index int, gatewayURL string) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			working, latency, err := uc.checker.CheckGateway(checkCtx, gatewayURL)
			if err != nil {
				uc.logger.Debug("Gateway check failed", zap.String("url", gatewayURL), zap.Error(err))
			}
			statuses[index] = entity.GatewayStatus{
				URL:       gatewayURL,
				Protocol:  gatewayProtocol(gatewayURL),
				IsWorking: working,
				LatencyMs: latency.Milliseconds(),
			}
		}(i, url)
	}
	wg.Wait()

	uc.logger.Info("Finished checking gateways", zap.Int("total", len(statuses)))

	if err := uc.cache.SetGatewayStatuses(ctx, statuses, uc.cfg.Cache.GetTTL()); err != nil {
		uc.logger.Error("Failed to cache gateway statuses", zap.Error(err))
	}
	return statuses, nil
}

func gatewayProtocol(url string) string {
	switch {
	case strings.HasPrefix(url, "wss://"), strings.HasPrefix(url, "ws://"):
		return "ws"
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		return "http"
	}
	return "unknown"
}

// startBackgroundChecker periodically re-checks the configured gateways.
func (uc *tokenUseCase) startBackgroundChecker() {
	interval := uc.cfg.Gateway.GetCheckInterval()
	if interval <= 0 {
		uc.logger.Info("Background gateway checker disabled (interval <= 0)")
		return
	}

	uc.logger.Info("Starting background gateway checker", zap.Duration("interval", interval))

	if uc.cfg.Gateway.RunOnStartup {
		if _, err := uc.checkAndCacheGateways(context.Background()); err != nil {
			uc.logger.Error("Error during startup gateway check", zap.Error(err))
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		uc.logger.Info("Background gateway checker running...")
		if _, err := uc.checkAndCacheGateways(context.Background()); err != nil {
			uc.logger.Error("Error during background gateway check", zap.Error(err))
		}
	}
}
