package certificate

import (
	"context"

	"github.com/brandcert/backend/internal/domain/shared"
)

// Blockchain gateway errors. UNAVAILABLE covers transport failures and
// 5xx responses and is worth retrying; REJECTED covers 4xx responses and
// is not.
var (
	ErrBlockchainUnavailable = shared.NewDomainError("BLOCKCHAIN_UNAVAILABLE", "Blockchain service is temporarily unavailable")
	ErrBlockchainRejected    = shared.NewDomainError("BLOCKCHAIN_REJECTED", "Blockchain service rejected the request")
)

// MintTokenRequest carries the certificate facts that go on chain
type MintTokenRequest struct {
	SerialNumber string
	ProductName  string
	ProductSKU   string
	BrandCode    string
	Metadata     map[string]any
}

// Validate checks the request before it is sent to the chain service
func (r MintTokenRequest) Validate() error {
	if r.SerialNumber == "" {
		return shared.NewDomainError("INVALID_SERIAL", "Serial number is required for minting")
	}
	if r.ProductName == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name is required for minting")
	}
	return nil
}

// MintTokenResult reports a successful mint
type MintTokenResult struct {
	TokenID         string
	ContractAddress string
	TxHash          string
	OwnerAddress    string
}

// TransferTokenResult reports a confirmed ownership transfer
type TransferTokenResult struct {
	TxHash       string
	OwnerAddress string
}

// TokenInfo mirrors the current on-chain state of a token
type TokenInfo struct {
	TokenID         string
	ContractAddress string
	OwnerAddress    string
	TxHash          string
	Status          string
}

// BlockchainClient is the port to the external token service. The
// application layer drives the mint/transfer state machine through it;
// implementations live in the infrastructure layer.
type BlockchainClient interface {
	// MintToken creates a token for the certificate
	MintToken(ctx context.Context, req MintTokenRequest) (*MintTokenResult, error)

	// TransferToken moves token ownership to another address
	TransferToken(ctx context.Context, tokenID, toAddress string) (*TransferTokenResult, error)

	// GetToken fetches the current on-chain state of a token
	GetToken(ctx context.Context, tokenID string) (*TokenInfo, error)
}
