// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides product-certification metrics: issuing and
// minting activity, public verification traffic, login outcomes, and
// per-brand storage use.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	certificateIssuedTotal      *Counter
	mintAttemptTotal            *Counter
	certificateTransferredTotal *Counter
	verifyScanTotal             *Counter
	loginTotal                  *Counter

	// Gauge metrics (point-in-time values)
	certificatesByStatus *Gauge
	mediaStorageBytes    *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	certificateProvider CertificateMetricsProvider
	mediaProvider       MediaMetricsProvider
}

// CertificateMetricsProvider provides certificate data for periodic metrics
// collection. The interface lets the telemetry layer query certificate state
// without depending on the certificate domain directly.
type CertificateMetricsProvider interface {
	// GetCertificateCountsByStatus returns certificate counts grouped by status for a brand
	GetCertificateCountsByStatus(ctx context.Context, brandID uuid.UUID) (map[string]int64, error)
}

// MediaMetricsProvider provides media storage data for periodic metrics collection.
type MediaMetricsProvider interface {
	// GetStorageBytes returns the total stored bytes for a brand
	GetStorageBytes(ctx context.Context, brandID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter               metric.Meter
	Logger              *zap.Logger
	CollectInterval     time.Duration // Default: 5 minutes
	CertificateProvider CertificateMetricsProvider
	MediaProvider       MediaMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:               cfg.Meter,
		logger:              logger,
		stopChan:            make(chan struct{}),
		certificateProvider: cfg.CertificateProvider,
		mediaProvider:       cfg.MediaProvider,
	}

	var err error

	// Certificate lifecycle metrics
	bm.certificateIssuedTotal, err = NewCounter(
		cfg.Meter,
		"brandcert_certificate_issued_total",
		"Total number of certificates issued",
		"{certificates}",
	)
	if err != nil {
		return nil, err
	}

	bm.mintAttemptTotal, err = NewCounter(
		cfg.Meter,
		"brandcert_mint_attempt_total",
		"Total number of blockchain mint attempts",
		"{attempts}",
	)
	if err != nil {
		return nil, err
	}

	bm.certificateTransferredTotal, err = NewCounter(
		cfg.Meter,
		"brandcert_certificate_transferred_total",
		"Total number of completed ownership transfers",
		"{transfers}",
	)
	if err != nil {
		return nil, err
	}

	// Public verification traffic
	bm.verifyScanTotal, err = NewCounter(
		cfg.Meter,
		"brandcert_verify_scan_total",
		"Total number of public verification lookups",
		"{scans}",
	)
	if err != nil {
		return nil, err
	}

	// Authentication outcomes
	bm.loginTotal, err = NewCounter(
		cfg.Meter,
		"brandcert_login_total",
		"Total number of login attempts",
		"{logins}",
	)
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	bm.certificatesByStatus, err = NewGauge(
		cfg.Meter,
		"brandcert_certificates_by_status",
		"Current certificate count per status",
		"{certificates}",
	)
	if err != nil {
		return nil, err
	}

	bm.mediaStorageBytes, err = NewGauge(
		cfg.Meter,
		"brandcert_media_storage_bytes",
		"Current stored media bytes per brand",
		"By",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Certificate Metrics
// =============================================================================

// MintOutcome labels a mint attempt result for metrics.
type MintOutcome string

const (
	MintOutcomeSuccess  MintOutcome = "success"
	MintOutcomeFailed   MintOutcome = "failed"
	MintOutcomeRejected MintOutcome = "rejected"
)

// RecordCertificateIssued records a certificate creation event.
// All record methods are safe on a nil receiver so callers can run
// without a meter configured.
func (bm *BusinessMetrics) RecordCertificateIssued(ctx context.Context, brandID uuid.UUID) {
	if bm == nil {
		return
	}
	bm.certificateIssuedTotal.Inc(ctx,
		AttrBrandID.String(brandID.String()),
	)
}

// RecordMintAttempt records one blockchain mint attempt and its outcome.
func (bm *BusinessMetrics) RecordMintAttempt(ctx context.Context, brandID uuid.UUID, outcome MintOutcome) {
	if bm == nil {
		return
	}
	bm.mintAttemptTotal.Inc(ctx,
		AttrBrandID.String(brandID.String()),
		AttrMintOutcome.String(string(outcome)),
	)
}

// RecordCertificateTransferred records a completed ownership transfer.
func (bm *BusinessMetrics) RecordCertificateTransferred(ctx context.Context, brandID uuid.UUID) {
	if bm == nil {
		return
	}
	bm.certificateTransferredTotal.Inc(ctx,
		AttrBrandID.String(brandID.String()),
	)
}

// RecordVerifyScan records a public verification lookup.
func (bm *BusinessMetrics) RecordVerifyScan(ctx context.Context, found bool) {
	if bm == nil {
		return
	}
	result := "found"
	if !found {
		result = "not_found"
	}
	bm.verifyScanTotal.Inc(ctx,
		AttrVerifyResult.String(result),
	)
}

// =============================================================================
// Authentication Metrics
// =============================================================================

// LoginOutcome labels a login attempt result for metrics.
type LoginOutcome string

const (
	LoginOutcomeSuccess LoginOutcome = "success"
	LoginOutcomeFailed  LoginOutcome = "failed"
	LoginOutcomeBlocked LoginOutcome = "blocked"
)

// RecordLogin records a login attempt and its outcome.
func (bm *BusinessMetrics) RecordLogin(ctx context.Context, outcome LoginOutcome) {
	if bm == nil {
		return
	}
	bm.loginTotal.Inc(ctx,
		AttrLoginOutcome.String(string(outcome)),
	)
}

// =============================================================================
// Gauge Metrics
// =============================================================================

// RecordCertificateStatusCount records the current certificate count for one status.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordCertificateStatusCount(ctx context.Context, brandID uuid.UUID, status string, count int64) {
	if bm == nil {
		return
	}
	bm.certificatesByStatus.Record(ctx, count,
		AttrBrandID.String(brandID.String()),
		AttrCertificateStatus.String(status),
	)
}

// RecordStorageBytes records the current stored media bytes for a brand.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordStorageBytes(ctx context.Context, brandID uuid.UUID, bytes int64) {
	if bm == nil {
		return
	}
	bm.mediaStorageBytes.Record(ctx, bytes,
		AttrBrandID.String(brandID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// BrandProvider provides brand IDs for periodic metrics collection.
type BrandProvider interface {
	GetActiveBrandIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects certificate and storage metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, brandProvider BrandProvider, interval time.Duration) {
	if bm == nil {
		return
	}
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, brandProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, brandProvider BrandProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectBrandMetrics(ctx, brandProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectBrandMetrics(ctx, brandProvider)
		}
	}
}

// collectBrandMetrics collects gauge metrics for all active brands.
func (bm *BusinessMetrics) collectBrandMetrics(ctx context.Context, brandProvider BrandProvider) {
	if bm.certificateProvider == nil && bm.mediaProvider == nil {
		bm.logger.Debug("No metric providers configured, skipping gauge collection")
		return
	}

	brandIDs, err := brandProvider.GetActiveBrandIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get brand IDs for metrics collection", zap.Error(err))
		return
	}

	for _, brandID := range brandIDs {
		bm.collectOneBrand(ctx, brandID)
	}
}

// collectOneBrand collects gauge metrics for a single brand.
func (bm *BusinessMetrics) collectOneBrand(ctx context.Context, brandID uuid.UUID) {
	if bm.certificateProvider != nil {
		counts, err := bm.certificateProvider.GetCertificateCountsByStatus(ctx, brandID)
		if err != nil {
			bm.logger.Warn("Failed to get certificate counts for brand",
				zap.String("brand_id", brandID.String()),
				zap.Error(err),
			)
		} else {
			for status, count := range counts {
				bm.RecordCertificateStatusCount(ctx, brandID, status, count)
			}
		}
	}

	if bm.mediaProvider != nil {
		bytes, err := bm.mediaProvider.GetStorageBytes(ctx, brandID)
		if err != nil {
			bm.logger.Warn("Failed to get storage bytes for brand",
				zap.String("brand_id", brandID.String()),
				zap.Error(err),
			)
		} else {
			bm.RecordStorageBytes(ctx, brandID, bytes)
		}
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	if bm == nil {
		return
	}
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
