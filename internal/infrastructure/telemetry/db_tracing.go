package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled          bool          // Enable database tracing
	LogFullSQL       bool          // Include full SQL statements in spans (dev only, security risk in prod)
	SlowQueryThresh  time.Duration // Threshold for marking queries as slow (default: 200ms)
	DBSystem         string        // Database system name (default: "postgresql")
	WithoutVariables bool          // Exclude query variables from SQL statement (for security)
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// gormOperation names one GORM callback processor and the hook point
// callbacks attach to.
type gormOperation struct {
	name string
	hook string
}

var gormOperations = []gormOperation{
	{"create", "gorm:create"},
	{"query", "gorm:query"},
	{"update", "gorm:update"},
	{"delete", "gorm:delete"},
	{"row", "gorm:row"},
	{"raw", "gorm:raw"},
}

// registerBefore attaches fn before each GORM operation under the given prefix.
func registerBefore(db *gorm.DB, prefix string, fn func(*gorm.DB)) error {
	for _, op := range gormOperations {
		var err error
		switch op.name {
		case "create":
			err = db.Callback().Create().Before(op.hook).Register(prefix+":before_"+op.name, fn)
		case "query":
			err = db.Callback().Query().Before(op.hook).Register(prefix+":before_"+op.name, fn)
		case "update":
			err = db.Callback().Update().Before(op.hook).Register(prefix+":before_"+op.name, fn)
		case "delete":
			err = db.Callback().Delete().Before(op.hook).Register(prefix+":before_"+op.name, fn)
		case "row":
			err = db.Callback().Row().Before(op.hook).Register(prefix+":before_"+op.name, fn)
		case "raw":
			err = db.Callback().Raw().Before(op.hook).Register(prefix+":before_"+op.name, fn)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// registerAfter attaches fn after each GORM operation under the given prefix.
func registerAfter(db *gorm.DB, prefix string, fn func(*gorm.DB)) error {
	for _, op := range gormOperations {
		var err error
		switch op.name {
		case "create":
			err = db.Callback().Create().After(op.hook).Register(prefix+":after_"+op.name, fn)
		case "query":
			err = db.Callback().Query().After(op.hook).Register(prefix+":after_"+op.name, fn)
		case "update":
			err = db.Callback().Update().After(op.hook).Register(prefix+":after_"+op.name, fn)
		case "delete":
			err = db.Callback().Delete().After(op.hook).Register(prefix+":after_"+op.name, fn)
		case "row":
			err = db.Callback().Row().After(op.hook).Register(prefix+":after_"+op.name, fn)
		case "raw":
			err = db.Callback().Raw().After(op.hook).Register(prefix+":after_"+op.name, fn)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DBTracingPlugin wraps otelgorm with slow query detection and error
// marking on the active span.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin with the given configuration.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm registers the otelgorm plugin plus timing callbacks
// on the given GORM DB instance. A no-op when tracing is disabled.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}

	if !p.config.LogFullSQL {
		// Keep query parameters out of spans
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	startTimer := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
		}
	}
	if err := registerBefore(db, "otel_timing", startTimer); err != nil {
		return err
	}

	if err := registerAfter(db, "otel_slow_query", p.slowQueryCallback); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

// slowQueryCallback runs after each database operation and annotates
// the active span with row counts, errors, and slow query events.
func (p *DBTracingPlugin) slowQueryCallback(db *gorm.DB) {
	annotateSpan(db, p.config.SlowQueryThresh)
}

// annotateSpan adds query outcome attributes to the span in the
// statement context. Record-not-found is expected and never marks the
// span as failed.
func annotateSpan(db *gorm.DB, slowThresh time.Duration) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > slowThresh {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
			span.SetAttributes(attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()))
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", slowThresh.Milliseconds()),
			))
		}
	}
}

// queryStartTimeKey is the context key for storing query start time.
type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime returns a context with the query start time set.
// This is used by the slow query callback to calculate elapsed time.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

// DBTracingCallback provides standalone GORM callbacks that track query
// timing without the otelgorm plugin.
type DBTracingCallback struct {
	slowQueryThresh time.Duration
}

// NewDBTracingCallback creates a new callback for tracking query timing.
func NewDBTracingCallback(slowQueryThresh time.Duration) *DBTracingCallback {
	return &DBTracingCallback{
		slowQueryThresh: slowQueryThresh,
	}
}

// BeforeCallback sets the query start time in context.
func (c *DBTracingCallback) BeforeCallback(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// AfterCallback checks for slow queries and adds attributes to the span.
func (c *DBTracingCallback) AfterCallback(db *gorm.DB) {
	annotateSpan(db, c.slowQueryThresh)
}

// RegisterCallbacks registers the before and after callbacks on the GORM DB instance.
func (c *DBTracingCallback) RegisterCallbacks(db *gorm.DB) error {
	if err := registerBefore(db, "otel_timing", c.BeforeCallback); err != nil {
		return err
	}
	return registerAfter(db, "otel_timing", c.AfterCallback)
}
