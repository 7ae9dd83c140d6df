package repository

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"tokengallery/internal/config"
	"tokengallery/internal/entity"
	"tokengallery/internal/usecase"
)

// Compile-time check
var _ usecase.MetadataCache = (*goCacheRepo)(nil)

const (
	// Cache keys
	contractKeyPrefix = "contract_"
	tokenKeyPrefix    = "token_"
	gatewaysKey       = "gateway_statuses"
)

type goCacheRepo struct {
	cache  *cache.Cache
	logger *zap.Logger
	cfg    config.CacheConfig
}

func NewGoCacheRepo(cfg config.CacheConfig, logger *zap.Logger) usecase.MetadataCache {
	defaultTTL := cfg.GetTTL()
	cleanupInterval := cfg.GetCleanupInterval()

	c := cache.New(defaultTTL, cleanupInterval)
	logger.Info("Initialized go-cache",
		zap.Duration("defaultTTL", defaultTTL),
		zap.Duration("cleanupInterval", cleanupInterval))

	return &goCacheRepo{
		cache:  c,
		logger: logger.Named("GoCacheRepo"),
		cfg:    cfg,
	}
}

func (r *goCacheRepo) GetContract(ctx context.Context, address string) (*entity.Contract, error) {
	key := contractKeyPrefix + address
	if x, found := r.cache.Get(key); found {
		if contract, ok := x.(*entity.Contract); ok {
			r.logger.Debug("Cache hit", zap.String("key", key))
			return contract, nil
		}
		r.logger.Warn("Cache data type mismatch for key", zap.String("key", key), zap.Any("type", fmt.Sprintf("%T", x)))
		// Treat type mismatch as cache miss
	}
	r.logger.Debug("Cache miss", zap.String("key", key))
	return nil, nil
}

func (r *goCacheRepo) SetContract(ctx context.Context, contract *entity.Contract, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.cfg.GetTTL()
	}
	key := contractKeyPrefix + contract.Address
	r.cache.Set(key, contract, ttl)
	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *goCacheRepo) GetTokenMetadata(ctx context.Context, address, tokenID string) (*entity.TokenMetadata, error) {
	key := tokenKey(address, tokenID)
	if x, found := r.cache.Get(key); found {
		if md, ok := x.(*entity.TokenMetadata); ok {
			r.logger.Debug("Cache hit", zap.String("key", key))
			return md, nil
		}
		r.logger.Warn("Cache data type mismatch for key", zap.String("key", key), zap.Any("type", fmt.Sprintf("%T", x)))
	}
	r.logger.Debug("Cache miss", zap.String("key", key))
	return nil, nil
}

func (r *goCacheRepo) SetTokenMetadata(ctx context.Context, address string, md *entity.TokenMetadata, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.cfg.GetTTL()
	}
	key := tokenKey(address, md.TokenID)
	r.cache.Set(key, md, ttl)
	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *goCacheRepo) GetGatewayStatuses(ctx context.Context) ([]entity.GatewayStatus, error) {
	if x, found := r.cache.Get(gatewaysKey); found {
		if statuses, ok := x.([]entity.GatewayStatus); ok {
			r.logger.Debug("Cache hit", zap.String("key", gatewaysKey))
			return statuses, nil
		}
		r.logger.Warn("Cache data type mismatch for key", zap.String("key", gatewaysKey), zap.Any("type", fmt.Sprintf("%T", x)))
	}
	r.logger.Debug("Cache miss", zap.String("key", gatewaysKey))
	return nil, nil
}

func (r *goCacheRepo) SetGatewayStatuses(ctx context.Context, statuses []entity.GatewayStatus, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.cfg.GetTTL()
	}
	r.cache.Set(gatewaysKey, statuses, ttl)
	r.logger.Debug("Cache set", zap.String("key", gatewaysKey), zap.Duration("ttl", ttl))
	return nil
}

// Helper to generate consistent cache keys
func tokenKey(address, tokenID string) string {
	return tokenKeyPrefix + address + "_" + tokenID
}
