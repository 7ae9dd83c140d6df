package usecase

import (
	"context"
	"math/big"
	"time"

	"tokengallery/internal/entity"
)

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks . ContractReader,MetadataCache,GatewayChecker

// ContractReader defines the interface for read-only contract calls against
// a JSON-RPC gateway. Results are the ordered felt span of the call.
type ContractReader interface {
	Call(ctx context.Context, contractAddress, entrypoint string, calldata []string) ([]string, error)
}

// MetadataCache defines the interface for caching decoded contract data.
type MetadataCache interface {
	GetContract(ctx context.Context, address string) (*entity.Contract, error)
	SetContract(ctx context.Context, contract *entity.Contract, ttl time.Duration) error
	GetTokenMetadata(ctx context.Context, address, tokenID string) (*entity.TokenMetadata, error)
	SetTokenMetadata(ctx context.Context, address string, md *entity.TokenMetadata, ttl time.Duration) error
	GetGatewayStatuses(ctx context.Context) ([]entity.GatewayStatus, error)
	SetGatewayStatuses(ctx context.Context, statuses []entity.GatewayStatus, ttl time.Duration) error
}

// GatewayChecker defines the interface for checking gateway endpoint status.
type GatewayChecker interface {
	CheckGateway(ctx context.Context, gatewayURL string) (bool, time.Duration, error)
}

// TokenUseCase defines the interface for contract and token related use cases.
type TokenUseCase interface {
	GetContract(ctx context.Context, address string) (*entity.Contract, error)
	GetTokenMetadata(ctx context.Context, address string, tokenID *big.Int) (*entity.TokenMetadata, error)
	GetGatewayStatuses(ctx context.Context) ([]entity.GatewayStatus, error)
}
