package blockchain

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"

	"github.com/brandcert/backend/internal/domain/certificate"
	"go.uber.org/zap"
)

const (
	stubContractAddress = "0x00000000000000000000000000000000000000ff"
	stubOwnerAddress    = "0x0000000000000000000000000000000000000001"
)

// StubClient is a placeholder implementation of certificate.BlockchainClient.
// It fabricates token IDs and transaction hashes so the certificate flows can
// run in development without a token service. Minted tokens are kept in
// memory so GetToken and TransferToken stay consistent within a process.
type StubClient struct {
	logger *zap.Logger

	mu     sync.Mutex
	nextID int
	tokens map[string]*certificate.TokenInfo
}

// Ensure StubClient implements certificate.BlockchainClient
var _ certificate.BlockchainClient = (*StubClient)(nil)

// NewStubClient creates a new StubClient
func NewStubClient(logger *zap.Logger) *StubClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubClient{
		logger: logger.Named("blockchain-stub"),
		tokens: make(map[string]*certificate.TokenInfo),
	}
}

// MintToken fabricates a minted token for the certificate
func (s *StubClient) MintToken(ctx context.Context, req certificate.MintTokenRequest) (*certificate.MintTokenResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txHash, err := stubTxHash()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.nextID++
	tokenID := strconv.Itoa(s.nextID)
	s.tokens[tokenID] = &certificate.TokenInfo{
		TokenID:         tokenID,
		ContractAddress: stubContractAddress,
		OwnerAddress:    stubOwnerAddress,
		TxHash:          txHash,
		Status:          "minted",
	}
	s.mu.Unlock()

	s.logger.Info("stub token minted",
		zap.String("serial_number", req.SerialNumber),
		zap.String("token_id", tokenID))

	return &certificate.MintTokenResult{
		TokenID:         tokenID,
		ContractAddress: stubContractAddress,
		TxHash:          txHash,
		OwnerAddress:    stubOwnerAddress,
	}, nil
}

// TransferToken records a fabricated ownership change
func (s *StubClient) TransferToken(ctx context.Context, tokenID, toAddress string) (*certificate.TransferTokenResult, error) {
	if tokenID == "" {
		return nil, fmt.Errorf("blockchain: token ID is required")
	}
	if toAddress == "" {
		return nil, fmt.Errorf("blockchain: target address is required")
	}

	txHash, err := stubTxHash()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.tokens[tokenID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token %s", certificate.ErrBlockchainRejected, tokenID)
	}
	info.OwnerAddress = toAddress
	info.TxHash = txHash
	info.Status = "transferred"

	s.logger.Info("stub token transferred",
		zap.String("token_id", tokenID),
		zap.String("to_address", toAddress))

	return &certificate.TransferTokenResult{
		TxHash:       txHash,
		OwnerAddress: toAddress,
	}, nil
}

// GetToken returns the remembered state of a stub-minted token
func (s *StubClient) GetToken(ctx context.Context, tokenID string) (*certificate.TokenInfo, error) {
	if tokenID == "" {
		return nil, fmt.Errorf("blockchain: token ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.tokens[tokenID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token %s", certificate.ErrBlockchainRejected, tokenID)
	}
	copied := *info
	return &copied, nil
}

func stubTxHash() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("blockchain: failed to generate transaction hash: %w", err)
	}
	return "0x" + hex.EncodeToString(buf), nil
}
