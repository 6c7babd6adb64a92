package blockchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandcert/backend/internal/domain/certificate"
	infraconfig "github.com/brandcert/backend/internal/infrastructure/config"
)

func testConfig(baseURL string) *infraconfig.BlockchainConfig {
	return &infraconfig.BlockchainConfig{
		BaseURL: baseURL,
		APIKey:  "test-api-key",
		Timeout: 5 * time.Second,
	}
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(testConfig(serverURL), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *infraconfig.BlockchainConfig
		wantErr string
	}{
		{
			name: "valid config",
			cfg:  testConfig("https://tokens.example.com"),
		},
		{
			name: "missing base URL",
			cfg: &infraconfig.BlockchainConfig{
				APIKey: "key",
			},
			wantErr: "base URL is required",
		},
		{
			name: "missing API key",
			cfg: &infraconfig.BlockchainConfig{
				BaseURL: "https://tokens.example.com",
			},
			wantErr: "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient(testConfig("https://tokens.example.com/"))
	require.NoError(t, err)
	assert.Equal(t, "https://tokens.example.com", client.baseURL)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	cfg := testConfig("https://tokens.example.com")
	cfg.Timeout = 0

	client, err := NewClient(cfg)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_MintToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tokens", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req mintRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "BC-2024-00a1b2c3d4", req.SerialNumber)
		assert.Equal(t, "Leather Handbag", req.ProductName)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tokenResponse{
			TokenID:         "4211",
			ContractAddress: "0x1b3cB81E51011b549d78bf720b0d924ac763A7C5",
			TxHash:          "0xabc123",
			OwnerAddress:    "0x52908400098527886E0F7030069857D2E4169EE7",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.MintToken(context.Background(), certificate.MintTokenRequest{
		SerialNumber: "BC-2024-00a1b2c3d4",
		ProductName:  "Leather Handbag",
		ProductSKU:   "SKU-001",
		BrandCode:    "acme",
	})

	require.NoError(t, err)
	assert.Equal(t, "4211", result.TokenID)
	assert.Equal(t, "0x1b3cB81E51011b549d78bf720b0d924ac763A7C5", result.ContractAddress)
	assert.Equal(t, "0xabc123", result.TxHash)
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", result.OwnerAddress)
}

func TestClient_MintToken_InvalidRequest(t *testing.T) {
	client := newTestClient(t, "https://tokens.example.com")

	_, err := client.MintToken(context.Background(), certificate.MintTokenRequest{
		ProductName: "Leather Handbag",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Serial number is required")
}

func TestClient_MintToken_ServiceRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errorResponse{
			Code:    "DUPLICATE_SERIAL",
			Message: "serial number already minted",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.MintToken(context.Background(), certificate.MintTokenRequest{
		SerialNumber: "BC-2024-00a1b2c3d4",
		ProductName:  "Leather Handbag",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, certificate.ErrBlockchainRejected)
	assert.Contains(t, err.Error(), "DUPLICATE_SERIAL")
	assert.Contains(t, err.Error(), "serial number already minted")
}

func TestClient_MintToken_ServiceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.MintToken(context.Background(), certificate.MintTokenRequest{
		SerialNumber: "BC-2024-00a1b2c3d4",
		ProductName:  "Leather Handbag",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, certificate.ErrBlockchainUnavailable)
}

func TestClient_MintToken_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.MintToken(context.Background(), certificate.MintTokenRequest{
		SerialNumber: "BC-2024-00a1b2c3d4",
		ProductName:  "Leather Handbag",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, certificate.ErrBlockchainUnavailable)
}

func TestClient_MintToken_IncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tokenResponse{
			ContractAddress: "0x1b3cB81E51011b549d78bf720b0d924ac763A7C5",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.MintToken(context.Background(), certificate.MintTokenRequest{
		SerialNumber: "BC-2024-00a1b2c3d4",
		ProductName:  "Leather Handbag",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, certificate.ErrBlockchainRejected)
	assert.Contains(t, err.Error(), "missing token ID")
}

func TestClient_TransferToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tokens/4211/transfer", r.URL.Path)

		var req transferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "0x8617E340B3D01FA5F11F306F4090FD50E238070D", req.ToAddress)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tokenResponse{
			TokenID:      "4211",
			TxHash:       "0xdef456",
			OwnerAddress: "0x8617E340B3D01FA5F11F306F4090FD50E238070D",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.TransferToken(context.Background(), "4211", "0x8617E340B3D01FA5F11F306F4090FD50E238070D")

	require.NoError(t, err)
	assert.Equal(t, "0xdef456", result.TxHash)
	assert.Equal(t, "0x8617E340B3D01FA5F11F306F4090FD50E238070D", result.OwnerAddress)
}

func TestClient_TransferToken_Validation(t *testing.T) {
	client := newTestClient(t, "https://tokens.example.com")

	_, err := client.TransferToken(context.Background(), "", "0x8617E340B3D01FA5F11F306F4090FD50E238070D")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token ID is required")

	_, err = client.TransferToken(context.Background(), "4211", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target address is required")
}

func TestClient_GetToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/tokens/4211", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tokenResponse{
			TokenID:         "4211",
			ContractAddress: "0x1b3cB81E51011b549d78bf720b0d924ac763A7C5",
			OwnerAddress:    "0x52908400098527886E0F7030069857D2E4169EE7",
			TxHash:          "0xabc123",
			Status:          "confirmed",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	info, err := client.GetToken(context.Background(), "4211")

	require.NoError(t, err)
	assert.Equal(t, "4211", info.TokenID)
	assert.Equal(t, "confirmed", info.Status)
}

func TestClient_GetToken_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errorResponse{
			Code:    "TOKEN_NOT_FOUND",
			Message: "no such token",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetToken(context.Background(), "9999")

	require.Error(t, err)
	assert.ErrorIs(t, err, certificate.ErrBlockchainRejected)
	assert.Contains(t, err.Error(), "TOKEN_NOT_FOUND")
}

func TestClient_InterfaceCompliance(t *testing.T) {
	var _ certificate.BlockchainClient = (*Client)(nil)
}
