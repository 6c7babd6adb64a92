// Package blockchain provides the HTTP adapter to the external token
// service that mints and transfers certificate NFTs.
package blockchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brandcert/backend/internal/domain/certificate"
	infraconfig "github.com/brandcert/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	mintTokenPath     = "/tokens"
	transferTokenPath = "/tokens/%s/transfer"
	getTokenPath      = "/tokens/%s"
)

// Ensure Client implements certificate.BlockchainClient
var _ certificate.BlockchainClient = (*Client)(nil)

// Client talks JSON over HTTP to the token service. It is deliberately
// thin: retries and state transitions are the application layer's job,
// the client only maps transport and HTTP failures onto the domain's
// gateway errors.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option is a functional option for configuring the Client
type Option func(*Client)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a blockchain client from configuration
func NewClient(cfg *infraconfig.BlockchainConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("blockchain: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("blockchain: API key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: zap.L().Named("blockchain"),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// mintRequest is the wire format for POST /tokens
type mintRequest struct {
	SerialNumber string         `json:"serial_number"`
	ProductName  string         `json:"product_name"`
	ProductSKU   string         `json:"product_sku,omitempty"`
	BrandCode    string         `json:"brand_code,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// transferRequest is the wire format for POST /tokens/{id}/transfer
type transferRequest struct {
	ToAddress string `json:"to_address"`
}

// tokenResponse is the wire format the token service answers with
type tokenResponse struct {
	TokenID         string `json:"token_id"`
	ContractAddress string `json:"contract_address"`
	TxHash          string `json:"tx_hash"`
	OwnerAddress    string `json:"owner_address"`
	Status          string `json:"status,omitempty"`
}

// errorResponse is the wire format of a token service error
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MintToken creates a token for the certificate
func (c *Client) MintToken(ctx context.Context, req certificate.MintTokenRequest) (*certificate.MintTokenResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(mintRequest{
		SerialNumber: req.SerialNumber,
		ProductName:  req.ProductName,
		ProductSKU:   req.ProductSKU,
		BrandCode:    req.BrandCode,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("blockchain: failed to marshal mint request: %w", err)
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, mintTokenPath, body)
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse mint response: %v", certificate.ErrBlockchainRejected, err)
	}
	if resp.TokenID == "" || resp.TxHash == "" {
		return nil, fmt.Errorf("%w: mint response missing token ID or transaction hash", certificate.ErrBlockchainRejected)
	}

	c.logger.Info("token minted",
		zap.String("serial_number", req.SerialNumber),
		zap.String("token_id", resp.TokenID),
		zap.String("tx_hash", resp.TxHash))

	return &certificate.MintTokenResult{
		TokenID:         resp.TokenID,
		ContractAddress: resp.ContractAddress,
		TxHash:          resp.TxHash,
		OwnerAddress:    resp.OwnerAddress,
	}, nil
}

// TransferToken moves token ownership to another address
func (c *Client) TransferToken(ctx context.Context, tokenID, toAddress string) (*certificate.TransferTokenResult, error) {
	if tokenID == "" {
		return nil, fmt.Errorf("blockchain: token ID is required")
	}
	if toAddress == "" {
		return nil, fmt.Errorf("blockchain: target address is required")
	}

	body, err := json.Marshal(transferRequest{ToAddress: toAddress})
	if err != nil {
		return nil, fmt.Errorf("blockchain: failed to marshal transfer request: %w", err)
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf(transferTokenPath, tokenID), body)
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse transfer response: %v", certificate.ErrBlockchainRejected, err)
	}
	if resp.TxHash == "" {
		return nil, fmt.Errorf("%w: transfer response missing transaction hash", certificate.ErrBlockchainRejected)
	}

	c.logger.Info("token transferred",
		zap.String("token_id", tokenID),
		zap.String("to_address", toAddress),
		zap.String("tx_hash", resp.TxHash))

	return &certificate.TransferTokenResult{
		TxHash:       resp.TxHash,
		OwnerAddress: resp.OwnerAddress,
	}, nil
}

// GetToken fetches the current on-chain state of a token
func (c *Client) GetToken(ctx context.Context, tokenID string) (*certificate.TokenInfo, error) {
	if tokenID == "" {
		return nil, fmt.Errorf("blockchain: token ID is required")
	}

	respBody, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf(getTokenPath, tokenID), nil)
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse token response: %v", certificate.ErrBlockchainRejected, err)
	}

	return &certificate.TokenInfo{
		TokenID:         resp.TokenID,
		ContractAddress: resp.ContractAddress,
		OwnerAddress:    resp.OwnerAddress,
		TxHash:          resp.TxHash,
		Status:          resp.Status,
	}, nil
}

// doRequest performs an HTTP request against the token service and maps
// failures: transport errors and 5xx become BLOCKCHAIN_UNAVAILABLE
// (retryable), 4xx becomes BLOCKCHAIN_REJECTED (not retryable).
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("blockchain: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("token service unreachable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", certificate.ErrBlockchainUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", certificate.ErrBlockchainUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Warn("token service error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path))
		return nil, fmt.Errorf("%w: HTTP %d", certificate.ErrBlockchainUnavailable, resp.StatusCode)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Code != "" {
			return nil, fmt.Errorf("%w: %s - %s", certificate.ErrBlockchainRejected, errResp.Code, errResp.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", certificate.ErrBlockchainRejected, resp.StatusCode)
	}

	return respBody, nil
}
