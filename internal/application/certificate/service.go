package certificate

import (
	"context"
	"errors"
	"fmt"
	"time"

	mediaapp "github.com/brandcert/backend/internal/application/media"
	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/certificate"
	"github.com/brandcert/backend/internal/domain/media"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/cache"
	"github.com/brandcert/backend/internal/infrastructure/qrcode"
	"github.com/brandcert/backend/internal/infrastructure/render"
	"github.com/brandcert/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	verifyCachePrefix = "verify:serial:"
	verifyCacheTTL    = time.Minute

	defaultMintRetryBackoff = 2 * time.Second
	serialAllocationTries   = 3
)

// eventCarrier is the slice of an aggregate the service needs for
// publishing its pending domain events
type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// ServiceConfig carries tunables for the certificate service
type ServiceConfig struct {
	// MintRetryBackoff is the pause between inline mint attempts.
	// Defaults to 2 seconds.
	MintRetryBackoff time.Duration
	// MaxMintAttempts bounds minting tries per certificate.
	// Defaults to certificate.DefaultMaxMintAttempts.
	MaxMintAttempts int
}

// Service drives the certificate lifecycle: issuing, minting on chain,
// transfers, revocation, QR codes, printable sheets, and the public
// verification lookup. The aggregate enforces the state machine; this
// service orchestrates persistence, the blockchain gateway, and media.
type Service struct {
	certRepo     certificate.Repository
	brandRepo    brand.Repository
	mediaService *mediaapp.Service
	blockchain   certificate.BlockchainClient
	qr           *qrcode.Generator
	sheet        *render.SheetTemplate
	pdf          render.PDFRenderer
	cache        cache.Cache
	metrics      *telemetry.BusinessMetrics
	eventBus     shared.EventPublisher
	config       ServiceConfig
	logger       *zap.Logger
}

// NewService creates a new certificate service
func NewService(
	certRepo certificate.Repository,
	brandRepo brand.Repository,
	mediaService *mediaapp.Service,
	blockchain certificate.BlockchainClient,
	qr *qrcode.Generator,
	sheet *render.SheetTemplate,
	pdf render.PDFRenderer,
	cacheClient cache.Cache,
	metrics *telemetry.BusinessMetrics,
	eventBus shared.EventPublisher,
	config ServiceConfig,
	logger *zap.Logger,
) *Service {
	if config.MintRetryBackoff <= 0 {
		config.MintRetryBackoff = defaultMintRetryBackoff
	}
	if config.MaxMintAttempts < 1 {
		config.MaxMintAttempts = certificate.DefaultMaxMintAttempts
	}
	return &Service{
		certRepo:     certRepo,
		brandRepo:    brandRepo,
		mediaService: mediaService,
		blockchain:   blockchain,
		qr:           qr,
		sheet:        sheet,
		pdf:          pdf,
		cache:        cacheClient,
		metrics:      metrics,
		eventBus:     eventBus,
		config:       config,
		logger:       logger,
	}
}

// Issue creates a certificate and, unless a draft was requested, submits
// it for minting right away. Mint failures do not fail the call; the
// returned status and last error tell the story.
func (s *Service) Issue(ctx context.Context, brandID uuid.UUID, input IssueCertificateInput) (*CertificateDTO, error) {
	s.logger.Info("Issuing certificate",
		zap.String("brand_id", brandID.String()),
		zap.String("product_name", input.ProductName),
		zap.Bool("draft", input.Draft))

	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if b.IsSuspended() {
		return nil, shared.NewDomainError("BRAND_SUSPENDED", "Brand account is suspended")
	}
	if !b.IsOperational() {
		return nil, shared.NewDomainError("BRAND_INACTIVE", "Brand account is not active")
	}

	count, err := s.certRepo.CountByBrand(ctx, brandID)
	if err != nil {
		s.logger.Error("Failed to count certificates", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check certificate quota")
	}
	if !b.CanIssueCertificate(int(count)) {
		s.logger.Warn("Certificate quota reached",
			zap.String("brand_id", brandID.String()),
			zap.Int64("count", count))
		return nil, shared.NewDomainError("QUOTA_EXCEEDED", "Certificate limit for the current plan has been reached")
	}

	serial, err := s.allocateSerial(ctx)
	if err != nil {
		return nil, err
	}

	cert, err := certificate.NewCertificate(brandID, serial, input.ProductName, input.ProductSKU)
	if err != nil {
		return nil, err
	}
	if err := cert.UpdateDetails(input.ProductName, input.ProductSKU, input.Description, input.BatchNumber); err != nil {
		return nil, err
	}
	if input.ManufacturerID != nil {
		if err := cert.SetManufacturer(input.ManufacturerID); err != nil {
			return nil, err
		}
	}
	if input.Metadata != nil {
		if err := cert.SetMetadata(input.Metadata); err != nil {
			return nil, err
		}
	}
	if input.MediaID != nil {
		if err := cert.SetPrimaryMedia(*input.MediaID); err != nil {
			return nil, err
		}
	}

	if err := s.certRepo.Create(ctx, cert); err != nil {
		s.logger.Error("Failed to create certificate", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create certificate")
	}

	s.metrics.RecordCertificateIssued(ctx, brandID)
	s.publishEvents(ctx, cert)

	if !input.Draft {
		if err := cert.Submit(); err != nil {
			return nil, err
		}
		if err := s.persist(ctx, cert); err != nil {
			return nil, err
		}
		if err := s.runMint(ctx, b, cert); err != nil {
			return nil, err
		}
	}

	dto := toCertificateDTO(cert)
	return &dto, nil
}

// Mint submits a draft (or re-drives a pending) certificate through the
// mint loop. The returned status reports the outcome; only state and
// persistence problems surface as errors.
func (s *Service) Mint(ctx context.Context, brandID, certID uuid.UUID) (*CertificateDTO, error) {
	cert, err := s.loadCertificate(ctx, brandID, certID)
	if err != nil {
		return nil, err
	}

	if cert.IsDraft() {
		if err := cert.Submit(); err != nil {
			return nil, err
		}
		if err := s.persist(ctx, cert); err != nil {
			return nil, err
		}
	}

	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if err := s.runMint(ctx, b, cert); err != nil {
		return nil, err
	}

	dto := toCertificateDTO(cert)
	return &dto, nil
}

// RetryMint re-queues a failed certificate for minting. force resets the
// attempt counter first and is reserved for platform admins.
func (s *Service) RetryMint(ctx context.Context, brandID, certID uuid.UUID, force bool) (*CertificateDTO, error) {
	cert, err := s.loadCertificate(ctx, brandID, certID)
	if err != nil {
		return nil, err
	}

	if force {
		if err := cert.ResetMintAttempts(); err != nil {
			return nil, err
		}
	}
	if err := cert.PrepareRetry(s.config.MaxMintAttempts); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cert); err != nil {
		return nil, err
	}

	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if err := s.runMint(ctx, b, cert); err != nil {
		return nil, err
	}

	dto := toCertificateDTO(cert)
	return &dto, nil
}

// Transfer moves token ownership to another address. Unlike minting this
// is synchronous: the caller learns immediately whether the transfer
// confirmed, and failures roll the certificate back to minted.
func (s *Service) Transfer(ctx context.Context, brandID, certID uuid.UUID, input TransferInput) (*CertificateDTO, error) {
	cert, err := s.loadCertificate(ctx, brandID, certID)
	if err != nil {
		return nil, err
	}

	if err := cert.BeginTransfer(input.ToAddress); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cert); err != nil {
		return nil, err
	}

	result, transferErr := s.blockchain.TransferToken(ctx, cert.TokenID, input.ToAddress)
	if transferErr != nil {
		s.logger.Warn("Token transfer failed",
			zap.String("serial_number", cert.SerialNumber),
			zap.Error(transferErr))
		if err := cert.FailTransfer(transferErr.Error()); err != nil {
			return nil, err
		}
		if err := s.persist(ctx, cert); err != nil {
			return nil, err
		}
		return nil, mapBlockchainError(transferErr)
	}

	if err := cert.CompleteTransfer(input.ToAddress, result.TxHash); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cert); err != nil {
		return nil, err
	}

	s.metrics.RecordCertificateTransferred(ctx, brandID)
	s.invalidateVerify(ctx, cert.SerialNumber)

	s.logger.Info("Certificate transferred",
		zap.String("serial_number", cert.SerialNumber),
		zap.String("new_owner", input.ToAddress))

	dto := toCertificateDTO(cert)
	return &dto, nil
}

// Revoke permanently invalidates a certificate
func (s *Service) Revoke(ctx context.Context, brandID, certID uuid.UUID, reason string) (*CertificateDTO, error) {
	cert, err := s.loadCertificate(ctx, brandID, certID)
	if err != nil {
		return nil, err
	}

	if err := cert.Revoke(reason); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cert); err != nil {
		return nil, err
	}

	s.invalidateVerify(ctx, cert.SerialNumber)

	s.logger.Info("Certificate revoked",
		zap.String("serial_number", cert.SerialNumber),
		zap.String("reason", reason))

	dto := toCertificateDTO(cert)
	return &dto, nil
}

// Get returns a brand's certificate by ID
func (s *Service) Get(ctx context.Context, brandID, certID uuid.UUID) (*CertificateDTO, error) {
	cert, err := s.loadCertificate(ctx, brandID, certID)
	if err != nil {
		return nil, err
	}
	dto := toCertificateDTO(cert)
	return &dto, nil
}

// List returns a brand's certificates, filtered and paginated
func (s *Service) List(ctx context.Context, brandID uuid.UUID, input ListCertificatesInput) (*CertificateListResult, error) {
	filter := certificate.NewFilter().
		WithPagination(input.Page, input.PageSize).
		WithSorting(input.SortBy, input.SortDir)
	if input.Keyword != "" {
		filter = filter.WithKeyword(input.Keyword)
	}
	if input.Status != "" {
		filter = filter.WithStatus(certificate.Status(input.Status))
	}
	if input.ManufacturerID != nil {
		filter = filter.WithManufacturer(*input.ManufacturerID)
	}
	if input.BatchNumber != "" {
		filter = filter.WithBatchNumber(input.BatchNumber)
	}

	certs, total, err := s.certRepo.FindAll(ctx, brandID, filter)
	if err != nil {
		s.logger.Error("Failed to list certificates", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list certificates")
	}

	dtos := make([]CertificateDTO, len(certs))
	for i, c := range certs {
		dtos[i] = toCertificateDTO(c)
	}

	totalPages := int(total) / filter.Limit()
	if int(total)%filter.Limit() > 0 {
		totalPages++
	}

	return &CertificateListResult{
		Certificates: dtos,
		Total:        total,
		Page:         filter.Page,
		PageSize:     filter.Limit(),
		TotalPages:   totalPages,
	}, nil
}

// Update edits a draft certificate
func (s *Service) Update(ctx context.Context, brandID, certID uuid.UUID, input UpdateCertificateInput) (*CertificateDTO, error) {
	cert, err := s.loadCertificate(ctx, brandID, certID)
	if err != nil {
		return nil, err
	}

	if err := cert.UpdateDetails(input.ProductName, input.ProductSKU, input.Description, input.BatchNumber); err != nil {
		return nil, err
	}
	if err := cert.SetManufacturer(input.ManufacturerID); err != nil {
		return nil, err
	}
	if input.Metadata != nil {
		if err := cert.SetMetadata(input.Metadata); err != nil {
			return nil, err
		}
	}
	if input.MediaID != nil {
		if err := cert.SetPrimaryMedia(*input.MediaID); err != nil {
			return nil, err
		}
	}

	if err := s.persist(ctx, cert); err != nil {
		return nil, err
	}

	dto := toCertificateDTO(cert)
	return &dto, nil
}

// Delete soft-deletes a certificate. The aggregate refuses once a token
// is on chain; those can only be revoked.
func (s *Service) Delete(ctx context.Context, brandID, certID uuid.UUID) error {
	cert, err := s.loadCertificate(ctx, brandID, certID)
	if err != nil {
		return err
	}

	if err := cert.MarkDeleted(); err != nil {
		return err
	}
	if err := s.persist(ctx, cert); err != nil {
		return err
	}

	s.invalidateVerify(ctx, cert.SerialNumber)

	s.logger.Info("Certificate deleted",
		zap.String("brand_id", brandID.String()),
		zap.String("serial_number", cert.SerialNumber))

	return nil
}

// Stats summarizes a brand's certificates by status
func (s *Service) Stats(ctx context.Context, brandID uuid.UUID) (*CertificateStatsDTO, error) {
	counts, err := s.certRepo.CountByStatus(ctx, brandID)
	if err != nil {
		s.logger.Error("Failed to count certificates by status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load certificate stats")
	}

	stats := &CertificateStatsDTO{
		Draft:           counts[certificate.StatusDraft],
		Pending:         counts[certificate.StatusPending],
		Minting:         counts[certificate.StatusMinting],
		Minted:          counts[certificate.StatusMinted],
		TransferPending: counts[certificate.StatusTransferPending],
		Transferred:     counts[certificate.StatusTransferred],
		Failed:          counts[certificate.StatusFailed],
		Revoked:         counts[certificate.StatusRevoked],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// PublicVerify answers a serial number scan. It is unauthenticated and
// heavily cached; every lookup is counted whether or not it hits.
func (s *Service) PublicVerify(ctx context.Context, serialNumber string) (*VerifyResult, error) {
	key := verifyCachePrefix + serialNumber

	var cached VerifyResult
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("Verify cache read failed", zap.Error(err))
	} else if found {
		s.metrics.RecordVerifyScan(ctx, true)
		return &cached, nil
	}

	cert, err := s.certRepo.FindBySerialNumber(ctx, serialNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.metrics.RecordVerifyScan(ctx, false)
			return nil, shared.NewDomainError("CERTIFICATE_NOT_FOUND", "No certificate with this serial number")
		}
		s.logger.Error("Failed to look up serial number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify certificate")
	}

	// A vanished or non-operational brand invalidates its certificates
	// without touching the chain
	brandName := ""
	brandOperational := false
	if b, err := s.brandRepo.FindByID(ctx, cert.BrandID); err == nil {
		brandName = b.Name
		brandOperational = b.IsOperational()
	}

	onChain := cert.Status == certificate.StatusMinted || cert.Status == certificate.StatusTransferred
	result := VerifyResult{
		Valid:           onChain && brandOperational && !cert.IsRevoked(),
		SerialNumber:    cert.SerialNumber,
		ProductName:     cert.ProductName,
		BrandName:       brandName,
		Status:          string(cert.Status),
		TokenID:         cert.TokenID,
		ContractAddress: cert.ContractAddress,
		TxHash:          cert.TxHash,
		MintedAt:        cert.MintedAt,
		RevokedAt:       cert.RevokedAt,
		RevokeReason:    cert.RevokeReason,
		CheckedAt:       time.Now(),
	}

	s.metrics.RecordVerifyScan(ctx, true)

	if err := s.cache.Set(ctx, key, result, verifyCacheTTL); err != nil {
		s.logger.Warn("Verify cache write failed", zap.Error(err))
	}

	return &result, nil
}

// EnsureQRCode generates and stores the certificate's QR code image if it
// does not exist yet. The operation is idempotent.
func (s *Service) EnsureQRCode(ctx context.Context, brandID, certID uuid.UUID) (*CertificateDTO, error) {
	cert, err := s.loadCertificate(ctx, brandID, certID)
	if err != nil {
		return nil, err
	}

	if cert.QRMediaID != nil {
		dto := toCertificateDTO(cert)
		return &dto, nil
	}

	png, err := s.qr.GeneratePNG(cert.SerialNumber)
	if err != nil {
		s.logger.Error("Failed to generate QR code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate QR code")
	}

	stored, err := s.mediaService.StoreGenerated(ctx, mediaapp.StoreGeneratedInput{
		BrandID:     brandID,
		FileName:    fmt.Sprintf("%s-qr.png", cert.SerialNumber),
		ContentType: "image/png",
		Data:        png,
		Kind:        media.KindQRCode,
	})
	if err != nil {
		return nil, err
	}

	if err := cert.LinkQRMedia(stored.ID); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cert); err != nil {
		return nil, err
	}

	s.logger.Info("QR code generated",
		zap.String("serial_number", cert.SerialNumber),
		zap.String("media_id", stored.ID.String()))

	dto := toCertificateDTO(cert)
	return &dto, nil
}

// RenderPDF renders the printable certificate sheet
func (s *Service) RenderPDF(ctx context.Context, brandID, certID uuid.UUID) (*PDFResult, error) {
	cert, err := s.loadCertificate(ctx, brandID, certID)
	if err != nil {
		return nil, err
	}
	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	png, err := s.qr.GeneratePNG(cert.SerialNumber)
	if err != nil {
		s.logger.Error("Failed to generate QR code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate QR code")
	}

	html, err := s.sheet.Render(render.CertificateSheetData{
		BrandName:       b.Name,
		ProductName:     cert.ProductName,
		ProductSKU:      cert.ProductSKU,
		SerialNumber:    cert.SerialNumber,
		BatchNumber:     cert.BatchNumber,
		Description:     cert.Description,
		TokenID:         cert.TokenID,
		ContractAddress: cert.ContractAddress,
		TxHash:          cert.TxHash,
		OwnerAddress:    cert.OwnerAddress,
		IssuedAt:        cert.CreatedAt,
		MintedAt:        cert.MintedAt,
		VerifyURL:       s.qr.VerifyURL(cert.SerialNumber),
		QRCodePNG:       png,
	})
	if err != nil {
		s.logger.Error("Failed to render certificate sheet", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to render certificate sheet")
	}

	result, err := s.pdf.Render(ctx, &render.RenderRequest{
		HTML:  html,
		Title: "Certificate " + cert.SerialNumber,
	})
	if err != nil {
		s.logger.Error("Failed to render PDF", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to render certificate PDF")
	}

	return &PDFResult{
		FileName:  cert.SerialNumber + ".pdf",
		Data:      result.PDFData,
		PageCount: result.PageCount,
	}, nil
}

// runMint drives the mint loop for a pending certificate: mark minting,
// call the chain, record the outcome, and back off between attempts.
// Rejections stop the loop immediately; they will not succeed on retry.
// Blockchain failures never surface as errors, the certificate's status
// carries the outcome.
func (s *Service) runMint(ctx context.Context, b *brand.Brand, cert *certificate.Certificate) error {
	for cert.Status == certificate.StatusPending && cert.MintAttempts < s.config.MaxMintAttempts {
		if err := cert.BeginMint(s.config.MaxMintAttempts); err != nil {
			return err
		}
		if err := s.persist(ctx, cert); err != nil {
			return err
		}

		result, mintErr := s.blockchain.MintToken(ctx, certificate.MintTokenRequest{
			SerialNumber: cert.SerialNumber,
			ProductName:  cert.ProductName,
			ProductSKU:   cert.ProductSKU,
			BrandCode:    b.Code,
			Metadata:     cert.Metadata,
		})
		if mintErr == nil {
			if err := cert.CompleteMint(result.TokenID, result.ContractAddress, result.TxHash, result.OwnerAddress); err != nil {
				return err
			}
			if err := s.persist(ctx, cert); err != nil {
				return err
			}
			s.metrics.RecordMintAttempt(ctx, cert.BrandID, telemetry.MintOutcomeSuccess)
			s.logger.Info("Certificate minted",
				zap.String("serial_number", cert.SerialNumber),
				zap.String("token_id", cert.TokenID),
				zap.String("tx_hash", cert.TxHash))
			return nil
		}

		exhausted, err := cert.FailMint(mintErr.Error(), s.config.MaxMintAttempts)
		if err != nil {
			return err
		}
		if err := s.persist(ctx, cert); err != nil {
			return err
		}

		if errors.Is(mintErr, certificate.ErrBlockchainRejected) {
			s.metrics.RecordMintAttempt(ctx, cert.BrandID, telemetry.MintOutcomeRejected)
			s.logger.Warn("Blockchain rejected mint",
				zap.String("serial_number", cert.SerialNumber),
				zap.Error(mintErr))
			return nil
		}

		s.metrics.RecordMintAttempt(ctx, cert.BrandID, telemetry.MintOutcomeFailed)
		s.logger.Warn("Mint attempt failed",
			zap.String("serial_number", cert.SerialNumber),
			zap.Int("attempts", cert.MintAttempts),
			zap.Error(mintErr))

		if exhausted {
			return nil
		}

		select {
		case <-ctx.Done():
			s.logger.Warn("Mint loop interrupted",
				zap.String("serial_number", cert.SerialNumber))
			return nil
		case <-time.After(s.config.MintRetryBackoff):
		}
	}
	return nil
}

// allocateSerial generates a serial number that is not already taken.
// The unique index on the column remains the last line of defense.
func (s *Service) allocateSerial(ctx context.Context) (string, error) {
	for i := 0; i < serialAllocationTries; i++ {
		serial, err := certificate.NewSerialNumber(time.Now())
		if err != nil {
			return "", err
		}
		taken, err := s.certRepo.ExistsBySerialNumber(ctx, serial)
		if err != nil {
			s.logger.Error("Failed to check serial number", zap.Error(err))
			return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to allocate serial number")
		}
		if !taken {
			return serial, nil
		}
	}
	return "", shared.NewDomainError("INTERNAL_ERROR", "Could not allocate a unique serial number")
}

func (s *Service) loadCertificate(ctx context.Context, brandID, certID uuid.UUID) (*certificate.Certificate, error) {
	cert, err := s.certRepo.FindByID(ctx, brandID, certID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CERTIFICATE_NOT_FOUND", "Certificate not found")
		}
		s.logger.Error("Failed to load certificate", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load certificate")
	}
	return cert, nil
}

func (s *Service) loadBrand(ctx context.Context, brandID uuid.UUID) (*brand.Brand, error) {
	b, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("BRAND_NOT_FOUND", "Brand not found")
		}
		s.logger.Error("Failed to load brand", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load brand")
	}
	return b, nil
}

func (s *Service) persist(ctx context.Context, cert *certificate.Certificate) error {
	if err := s.certRepo.Update(ctx, cert); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return err
		}
		s.logger.Error("Failed to update certificate", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update certificate")
	}
	s.publishEvents(ctx, cert)
	return nil
}

// invalidateVerify drops the cached public verification answer after the
// certificate's validity changed
func (s *Service) invalidateVerify(ctx context.Context, serialNumber string) {
	if err := s.cache.Delete(ctx, verifyCachePrefix+serialNumber); err != nil {
		s.logger.Warn("Failed to invalidate verify cache", zap.Error(err))
	}
}

// mapBlockchainError surfaces the gateway sentinels so HTTP can answer
// 503 for outages and 422 for rejections
func mapBlockchainError(err error) error {
	if errors.Is(err, certificate.ErrBlockchainRejected) {
		return certificate.ErrBlockchainRejected
	}
	if errors.Is(err, certificate.ErrBlockchainUnavailable) {
		return certificate.ErrBlockchainUnavailable
	}
	return shared.NewDomainError("INTERNAL_ERROR", "Token transfer failed")
}

func (s *Service) publishEvents(ctx context.Context, carriers ...eventCarrier) {
	for _, carrier := range carriers {
		events := carrier.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish domain events", zap.Error(err))
		}
		carrier.ClearDomainEvents()
	}
}
