package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"tokengallery/internal/pkg/apperrors"
	"tokengallery/internal/usecase"
)

// Compile-time check
var _ usecase.GatewayChecker = (*gatewayChecker)(nil)

type gatewayChecker struct {
	client *fasthttp.Client
	logger *zap.Logger
}

// NewGatewayChecker creates a checker probing gateway health over http(s)
// and ws(s).
func NewGatewayChecker(logger *zap.Logger) usecase.GatewayChecker {
	return &gatewayChecker{
		client: &fasthttp.Client{
			ReadTimeout: 10 * time.Second,
		},
		logger: logger.Named("GatewayChecker"),
	}
}

// checkPayload is the standard JSON-RPC request to check gateway health.
var checkPayload = []byte(`{"jsonrpc":"2.0","method":"starknet_blockNumber","params":[],"id":1}`)

// CheckGateway determines the protocol and runs the matching probe.
func (c *gatewayChecker) CheckGateway(
	ctx context.Context,
	gatewayURL string,
) (isWorking bool, latency time.Duration, err error) {
	startTime := time.Now()

	if strings.HasPrefix(gatewayURL, "wss://") || strings.HasPrefix(gatewayURL, "ws://") {
		return c.checkWS(ctx, gatewayURL, startTime)
	}

	if strings.HasPrefix(gatewayURL, "http://") || strings.HasPrefix(gatewayURL, "https://") {
		return c.checkHTTP(ctx, gatewayURL, startTime)
	}

	c.logger.Warn("Skipping check for unsupported protocol", zap.String("url", gatewayURL))
	return false, 0, fmt.Errorf("%w: unsupported protocol in URL %s", apperrors.ErrInvalidInput, gatewayURL)
}

// checkHTTP performs the JSON-RPC check over HTTP/HTTPS.
func (c *gatewayChecker) checkHTTP(ctx context.Context, gatewayURL string, startTime time.Time) (bool, time.Duration, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(gatewayURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(checkPayload)

	timeout := c.client.ReadTimeout
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		requestTimeout := time.Until(deadline)
		if requestTimeout > 0 && (timeout <= 0 || requestTimeout < timeout) {
			timeout = requestTimeout
		}
	}

	var requestErr error
	if timeout <= 0 {
		requestErr = c.client.Do(req, resp)
	} else {
		requestErr = c.client.DoTimeout(req, resp, timeout)
	}

	latency := time.Since(startTime)

	if requestErr != nil {
		if errors.Is(requestErr, fasthttp.ErrTimeout) {
			c.logger.Debug("HTTP gateway check timed out",
				zap.String("url", gatewayURL), zap.Duration("timeout", timeout))
			return false, latency, fmt.Errorf("%w: http request to %s timed out after %v: %v",
				apperrors.ErrTimeout, gatewayURL, timeout, requestErr)
		}
		c.logger.Debug("HTTP gateway check request failed", zap.String("url", gatewayURL), zap.Error(requestErr))
		return false, latency, fmt.Errorf("%w: http request to %s failed: %v",
			apperrors.ErrExternalServiceFailure, gatewayURL, requestErr)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Debug("HTTP gateway check returned non-OK status",
			zap.String("url", gatewayURL), zap.Int("statusCode", resp.StatusCode()))
		return false, latency, fmt.Errorf("%w: gateway %s returned non-OK http status: %d",
			apperrors.ErrExternalServiceFailure, gatewayURL, resp.StatusCode())
	}

	isValid, jsonErr := c.validateJSONRPCResponse(gatewayURL, resp.Body())
	return isValid, latency, jsonErr
}

// checkWS performs the JSON-RPC check over WSS/WS.
func (c *gatewayChecker) checkWS(ctx context.Context, gatewayURL string, startTime time.Time) (bool, time.Duration, error) {
	handshakeTimeout := c.client.ReadTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, gatewayURL, nil)
	if err != nil {
		latency := time.Since(startTime)
		c.logger.Debug("WS dial failed", zap.String("url", gatewayURL), zap.Error(err))
		if errors.Is(context.Cause(ctx), context.DeadlineExceeded) {
			return false, latency, fmt.Errorf("%w: ws dial to %s timed out: %v",
				apperrors.ErrTimeout, gatewayURL, err)
		}
		return false, latency, fmt.Errorf("%w: ws dial to %s failed: %v",
			apperrors.ErrExternalServiceFailure, gatewayURL, err)
	}
	defer conn.Close()

	operationTimeout := c.client.ReadTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until > 0 && until < operationTimeout {
			operationTimeout = until
		}
	}
	if operationTimeout <= 0 {
		operationTimeout = 2 * time.Second
	}

	_ = conn.SetWriteDeadline(time.Now().Add(operationTimeout))
	_ = conn.SetReadDeadline(time.Now().Add(operationTimeout))

	if wErr := conn.WriteMessage(websocket.TextMessage, checkPayload); wErr != nil {
		c.logger.Debug("WS write failed", zap.String("url", gatewayURL), zap.Error(wErr))
		return false, time.Since(startTime), fmt.Errorf("%w: ws write to %s failed: %v",
			apperrors.ErrExternalServiceFailure, gatewayURL, wErr)
	}

	_, message, rErr := conn.ReadMessage()
	latency := time.Since(startTime)
	if rErr != nil {
		c.logger.Debug("WS read failed", zap.String("url", gatewayURL), zap.Error(rErr))
		if errors.Is(context.Cause(ctx), context.DeadlineExceeded) {
			return false, latency, fmt.Errorf("%w: ws read from %s timed out: %v",
				apperrors.ErrTimeout, gatewayURL, rErr)
		}
		return false, latency, fmt.Errorf("%w: ws read from %s failed: %v",
			apperrors.ErrExternalServiceFailure, gatewayURL, rErr)
	}

	isValid, jsonErr := c.validateJSONRPCResponse(gatewayURL, message)
	return isValid, latency, jsonErr
}

// validateJSONRPCResponse checks if the response body is a valid, successful JSON-RPC response.
func (c *gatewayChecker) validateJSONRPCResponse(gatewayURL string, body []byte) (bool, error) {
	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		c.logger.Debug("Gateway check returned invalid JSON",
			zap.String("url", gatewayURL), zap.ByteString("body", body), zap.Error(err))
		return false, fmt.Errorf("%w: gateway %s returned invalid JSON response: %v",
			apperrors.ErrExternalServiceFailure, gatewayURL, err)
	}

	if rpcResp.Error != nil {
		c.logger.Debug("Gateway check returned JSON-RPC error",
			zap.String("url", gatewayURL),
			zap.Int("errorCode", rpcResp.Error.Code),
			zap.String("errorMessage", rpcResp.Error.Message))
		return false, fmt.Errorf("%w: gateway %s returned json-rpc error: %d %s",
			apperrors.ErrExternalServiceFailure, gatewayURL, rpcResp.Error.Code, rpcResp.Error.Message)
	}

	if rpcResp.Jsonrpc != "2.0" || rpcResp.Result == nil {
		c.logger.Debug("Gateway check returned invalid JSON-RPC structure",
			zap.String("url", gatewayURL), zap.ByteString("body", body))
		return false, fmt.Errorf("%w: gateway %s returned invalid JSON-RPC structure",
			apperrors.ErrExternalServiceFailure, gatewayURL)
	}

	return true, nil
}
