package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"tokengallery/internal/codec"
	"tokengallery/internal/config"
	"tokengallery/internal/pkg/apperrors"
	"tokengallery/internal/usecase"
)

// Compile-time check
var _ usecase.ContractReader = (*starknetRepo)(nil)

// JSON-RPC error codes the gateway returns for per-call failures.
const (
	rpcCodeContractNotFound = 20
	rpcCodeContractError    = 40
	rpcCodeEntrypointError  = 21
)

type starknetRepo struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewStarknetRepo creates a ContractReader speaking starknet_call against
// the first configured gateway URL.
func NewStarknetRepo(cfg config.GatewayConfig, logger *zap.Logger) usecase.ContractReader {
	url := ""
	if len(cfg.URLs) > 0 {
		url = cfg.URLs[0]
	}
	return &starknetRepo{
		client:  &fasthttp.Client{ReadTimeout: cfg.GetCallTimeout()},
		url:     url,
		timeout: cfg.GetCallTimeout(),
		logger:  logger.Named("StarknetRepo"),
	}
}

type callRequest struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

type callParams struct {
	Request callRequest `json:"request"`
	BlockID string      `json:"block_id"`
}

type jsonRPCRequest struct {
	Jsonrpc string     `json:"jsonrpc"`
	Method  string     `json:"method"`
	Params  callParams `json:"params"`
	ID      int        `json:"id"`
}

// JSONRPCResponse defines the basic structure for a JSON-RPC response.
type JSONRPCResponse struct {
	ID      interface{}     `json:"id"`
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError defines the structure for a JSON-RPC error.
type JSONRPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (r *starknetRepo) Call(ctx context.Context, contractAddress, entrypoint string, calldata []string) ([]string, error) {
	if calldata == nil {
		calldata = []string{}
	}
	payload, err := json.Marshal(jsonRPCRequest{
		Jsonrpc: "2.0",
		Method:  "starknet_call",
		Params: callParams{
			Request: callRequest{
				ContractAddress:    contractAddress,
				EntryPointSelector: codec.SelectorHex(entrypoint),
				Calldata:           calldata,
			},
			BlockID: "latest",
		},
		ID: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal call request: %v", apperrors.ErrInternal, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	r.logger.Debug("Calling contract",
		zap.String("address", contractAddress),
		zap.String("entrypoint", entrypoint),
		zap.Int("calldataLen", len(calldata)))

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until > 0 && (timeout <= 0 || until < timeout) {
			timeout = until
		}
	}

	if timeout > 0 {
		err = r.client.DoTimeout(req, resp, timeout)
	} else {
		err = r.client.Do(req, resp)
	}
	if err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return nil, fmt.Errorf("%w: gateway call timed out after %v", apperrors.ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("%w: gateway request failed: %v", apperrors.ErrExternalServiceFailure, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		r.logger.Error("Gateway returned non-OK status",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("body", resp.Body()))
		return nil, fmt.Errorf("%w: gateway returned status %d", apperrors.ErrExternalServiceFailure, resp.StatusCode())
	}

	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON-RPC response: %v", apperrors.ErrExternalServiceFailure, err)
	}

	if rpcResp.Error != nil {
		switch rpcResp.Error.Code {
		case rpcCodeContractNotFound:
			return nil, fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, contractAddress)
		case rpcCodeContractError, rpcCodeEntrypointError:
			return nil, fmt.Errorf("%w: %s on %s: %s",
				apperrors.ErrCallReverted, entrypoint, contractAddress, rpcResp.Error.Message)
		default:
			return nil, fmt.Errorf("%w: json-rpc error %d: %s",
				apperrors.ErrExternalServiceFailure, rpcResp.Error.Code, rpcResp.Error.Message)
		}
	}

	var felts []string
	if err := json.Unmarshal(rpcResp.Result, &felts); err != nil {
		return nil, fmt.Errorf("%w: unexpected call result shape: %v", apperrors.ErrExternalServiceFailure, err)
	}

	r.logger.Debug("Contract call succeeded",
		zap.String("address", contractAddress),
		zap.String("entrypoint", entrypoint),
		zap.Int("resultLen", len(felts)))
	return felts, nil
}
