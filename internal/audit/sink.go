package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

// Sink receives finished records
type Sink interface {
	Emit(ctx context.Context, rec Record) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(ctx context.Context, rec Record) error

func (f SinkFunc) Emit(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// LogSink writes records to a slog logger. Server errors log at Error,
// client errors at Warn and everything else at Info.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink writing to logger, or the default logger if nil
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("component", "audit")}
}

func (s *LogSink) Emit(ctx context.Context, rec Record) error {
	level := slog.LevelInfo
	switch {
	case rec.StatusCode >= http.StatusInternalServerError:
		level = slog.LevelError
	case rec.StatusCode >= http.StatusBadRequest:
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("request_id", rec.RequestID),
		slog.String("details", rec.Details),
		slog.String("method", rec.MethodType),
		slog.Int("status_code", rec.StatusCode),
		slog.String("user", rec.User),
		slog.String("role", rec.Role),
		slog.Bool("success", rec.Success),
		slog.Bool("failed", rec.Failed),
	}
	if rec.ErrorMessage != "" {
		attrs = append(attrs, slog.String("error_message", rec.ErrorMessage))
	}
	s.logger.LogAttrs(ctx, level, "request completed", attrs...)
	return nil
}

// StoreSink persists records as audit log rows
type StoreSink struct {
	repo repository.Repository[domain.AuditLog]
}

// NewStoreSink creates a sink persisting through repo
func NewStoreSink(repo repository.Repository[domain.AuditLog]) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Emit(ctx context.Context, rec Record) error {
	_, err := s.repo.Create(ctx, domain.AuditLog{
		RequestID:    rec.RequestID,
		Details:      rec.Details,
		MethodType:   rec.MethodType,
		StatusCode:   rec.StatusCode,
		UserName:     rec.User,
		Role:         rec.Role,
		Success:      rec.Success,
		ErrorMessage: rec.ErrorMessage,
		CreatedAt:    rec.Timestamp.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to persist audit record: %w", err)
	}
	return nil
}

// Multi fans a record out to every sink. All sinks run even if one fails.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
