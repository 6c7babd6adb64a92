package notification

import (
	"context"
	"fmt"

	"github.com/brandcert/backend/internal/domain/certificate"
	"github.com/brandcert/backend/internal/domain/manufacturer"
	"github.com/brandcert/backend/internal/domain/notification"
	"github.com/brandcert/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CertificateEventHandler turns certificate lifecycle events into
// notifications for the user who issued the certificate.
type CertificateEventHandler struct {
	notifier *Service
	certRepo certificate.Repository
	logger   *zap.Logger
}

// NewCertificateEventHandler creates a handler for certificate events
func NewCertificateEventHandler(notifier *Service, certRepo certificate.Repository, logger *zap.Logger) *CertificateEventHandler {
	return &CertificateEventHandler{
		notifier: notifier,
		certRepo: certRepo,
		logger:   logger,
	}
}

// EventTypes returns the certificate events this handler subscribes to
func (h *CertificateEventHandler) EventTypes() []string {
	return []string{
		certificate.EventTypeCertificateMinted,
		certificate.EventTypeCertificateMintFailed,
		certificate.EventTypeCertificateTransferred,
	}
}

// Handle notifies the certificate creator about the lifecycle change
func (h *CertificateEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		notificationType notification.Type
		title            string
		body             string
	)

	switch e := event.(type) {
	case *certificate.CertificateMintedEvent:
		notificationType = notification.TypeCertificateMinted
		title = fmt.Sprintf("Certificate %s minted", e.SerialNumber)
		body = fmt.Sprintf("The certificate for %q is now on chain as token %s.", e.ProductName, e.TokenID)
	case *certificate.CertificateMintFailedEvent:
		notificationType = notification.TypeCertificateFailed
		title = fmt.Sprintf("Certificate %s failed to mint", e.SerialNumber)
		body = fmt.Sprintf("Minting the certificate for %q failed after %d attempts: %s", e.ProductName, e.Attempts, e.LastError)
	case *certificate.CertificateTransferredEvent:
		notificationType = notification.TypeCertificateTransferred
		title = fmt.Sprintf("Certificate %s transferred", e.SerialNumber)
		body = fmt.Sprintf("Ownership of token %s moved to %s.", e.TokenID, e.NewOwner)
	default:
		return nil
	}

	cert, err := h.certRepo.FindByID(ctx, event.BrandID(), event.AggregateID())
	if err != nil {
		h.logger.Warn("Certificate lookup failed for notification",
			zap.String("certificate_id", event.AggregateID().String()),
			zap.Error(err))
		return err
	}
	if cert.CreatedBy == nil {
		return nil
	}

	_, err = h.notifier.Notify(ctx, NotifyInput{
		BrandID:           event.BrandID(),
		RecipientUserID:   *cert.CreatedBy,
		Type:              notificationType,
		Title:             title,
		Body:              body,
		RelatedEntityType: "certificate",
		RelatedEntityID:   cert.ID,
		SendEmail:         true,
	})
	return err
}

// PartnershipEventHandler turns partnership events into notifications:
// requests fan out to the brand's admins, acceptances go back to the
// user who made the request.
type PartnershipEventHandler struct {
	notifier         *Service
	partnershipRepo  manufacturer.PartnershipRepository
	manufacturerRepo manufacturer.Repository
	logger           *zap.Logger
}

// NewPartnershipEventHandler creates a handler for partnership events
func NewPartnershipEventHandler(
	notifier *Service,
	partnershipRepo manufacturer.PartnershipRepository,
	manufacturerRepo manufacturer.Repository,
	logger *zap.Logger,
) *PartnershipEventHandler {
	return &PartnershipEventHandler{
		notifier:         notifier,
		partnershipRepo:  partnershipRepo,
		manufacturerRepo: manufacturerRepo,
		logger:           logger,
	}
}

// EventTypes returns the partnership events this handler subscribes to
func (h *PartnershipEventHandler) EventTypes() []string {
	return []string{
		manufacturer.EventTypePartnershipRequested,
		manufacturer.EventTypePartnershipAccepted,
	}
}

// Handle routes a partnership event to the right recipients
func (h *PartnershipEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *manufacturer.PartnershipRequestedEvent:
		name := h.manufacturerName(ctx, e)
		_, err := h.notifier.NotifyBrandAdmins(ctx, event.BrandID(),
			notification.TypePartnershipRequest,
			fmt.Sprintf("Partnership with %s requested", name),
			fmt.Sprintf("A partnership with manufacturer %s has been requested and is awaiting acceptance.", name),
			"partnership", event.AggregateID())
		return err

	case *manufacturer.PartnershipAcceptedEvent:
		partnership, err := h.partnershipRepo.FindByID(ctx, event.BrandID(), event.AggregateID())
		if err != nil {
			h.logger.Warn("Partnership lookup failed for notification",
				zap.String("partnership_id", event.AggregateID().String()),
				zap.Error(err))
			return err
		}

		name := "the manufacturer"
		if m, err := h.manufacturerRepo.FindByID(ctx, e.ManufacturerID); err == nil {
			name = m.Name
		}

		_, err = h.notifier.Notify(ctx, NotifyInput{
			BrandID:           event.BrandID(),
			RecipientUserID:   partnership.RequestedBy,
			Type:              notification.TypePartnershipAccepted,
			Title:             fmt.Sprintf("Partnership with %s is active", name),
			Body:              fmt.Sprintf("Your partnership request to %s has been accepted.", name),
			RelatedEntityType: "partnership",
			RelatedEntityID:   partnership.ID,
			SendEmail:         true,
		})
		return err
	}

	return nil
}

func (h *PartnershipEventHandler) manufacturerName(ctx context.Context, e *manufacturer.PartnershipRequestedEvent) string {
	m, err := h.manufacturerRepo.FindByID(ctx, e.ManufacturerID)
	if err != nil {
		h.logger.Warn("Manufacturer lookup failed for notification",
			zap.String("manufacturer_id", e.ManufacturerID.String()),
			zap.Error(err))
		return "a manufacturer"
	}
	return m.Name
}

// Compile-time checks that the handlers satisfy shared.EventHandler
var (
	_ shared.EventHandler = (*CertificateEventHandler)(nil)
	_ shared.EventHandler = (*PartnershipEventHandler)(nil)
)
