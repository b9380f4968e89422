package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/ulogger"
)

// Daemon status sentinels. Every daemon response carries one of these (or a
// free-form failure string) in its status field.
const (
	StatusOK   = "OK"
	StatusBusy = "BUSY"
)

// InterpretResponse derives the unified error text from a call outcome and
// the daemon's status string. A failed call always maps to the lost
// connection message regardless of status; a busy daemon maps to the busy
// message; any other non-OK status is passed through verbatim. Empty means
// success.
func InterpretResponse(ok bool, status string) string {
	if !ok {
		return "possible lost connection to daemon"
	}

	if status == StatusBusy {
		return "daemon is busy, try later"
	}

	if status != StatusOK {
		return status
	}

	return ""
}

type Client struct {
	logger     ulogger.Logger
	url        string
	httpClient *http.Client
}

var _ ClientI = (*Client)(nil)

func NewClient(logger ulogger.Logger, tSettings *settings.Settings) *Client {
	initPrometheusMetrics()

	scheme := "http"
	if tSettings.Daemon.UseSSL {
		scheme = "https"
	}

	return &Client{
		logger: logger,
		url:    fmt.Sprintf("%s://%s:%d/json_rpc", scheme, tSettings.Daemon.Host, tSettings.Daemon.Port),
		httpClient: &http.Client{
			Timeout: tSettings.Daemon.RPCTimeout,
		},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := json.Marshal(&rpcRequest{
		JSONRPC: "2.0",
		ID:      "0",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.NewProcessingError("cannot marshal %s request", method, err)
	}

	prometheusRPCCalls.WithLabelValues(method).Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.NewProcessingError("cannot build %s request", method, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		prometheusRPCErrors.WithLabelValues(method).Inc()
		return errors.NewConnectionError("%s call to %s failed", method, c.url, err)
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		prometheusRPCErrors.WithLabelValues(method).Inc()
		return errors.NewConnectionError("cannot read %s response", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		prometheusRPCErrors.WithLabelValues(method).Inc()
		return errors.NewConnectionError("%s returned HTTP %d", method, resp.StatusCode)
	}

	var envelope rpcResponse
	if err = json.Unmarshal(raw, &envelope); err != nil {
		return errors.NewProcessingError("cannot decode %s response", method, err)
	}

	if envelope.Error != nil {
		return errors.NewProcessingError("%s returned error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}

	if err = json.Unmarshal(envelope.Result, result); err != nil {
		return errors.NewProcessingError("cannot decode %s result", method, err)
	}

	return nil
}

func (c *Client) GetBlockTemplate(ctx context.Context, req *GetBlockTemplateRequest) (*GetBlockTemplateResponse, error) {
	resp := &GetBlockTemplateResponse{}
	if err := c.call(ctx, "getblocktemplate", req, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) SubmitBlock(ctx context.Context, blockBlobHex string) (*StatusResponse, error) {
	resp := &StatusResponse{}
	if err := c.call(ctx, "submitblock", []string{blockBlobHex}, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) GetInfo(ctx context.Context) (*GetInfoResponse, error) {
	resp := &GetInfoResponse{}
	if err := c.call(ctx, "get_info", nil, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) GetConnections(ctx context.Context) (*GetConnectionsResponse, error) {
	resp := &GetConnectionsResponse{}
	if err := c.call(ctx, "get_connections", nil, resp); err != nil {
		return nil, err
	}

	return resp, nil
}
