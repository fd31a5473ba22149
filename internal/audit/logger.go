package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Sink persists one audit event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Logger writes events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	log := models.AuditLog{
		UserID:    ev.UserID,
		SessionID: ev.SessionID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metadataJSON(ev.Metadata),
	}

	return l.db.WithContext(ctx).Create(&log).Error
}

// ZapSink writes events as structured log lines. Used when no database is configured.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logging.OrNop(logger).Named("audit")}
}

func (s *ZapSink) Log(_ context.Context, ev Event) error {
	fields := []zap.Field{
		zap.String("action", ev.Action),
		zap.String("entity", ev.Entity),
	}
	if ev.UserID != nil {
		fields = append(fields, zap.Uint("user_id", *ev.UserID))
	}
	if ev.EntityID != nil {
		fields = append(fields, zap.Uint("entity_id", *ev.EntityID))
	}
	if ev.SessionID != "" {
		fields = append(fields, zap.String("session_id", ev.SessionID))
	}
	if meta := metadataJSON(ev.Metadata); meta != "" {
		fields = append(fields, zap.String("metadata", meta))
	}
	s.logger.Info("audit", fields...)
	return nil
}

func metadataJSON(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
