package events

import (
	"go.uber.org/zap"
)

// LogSink writes every event through a zap logger.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wraps logger. A nil logger discards output.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Emit implements Sink.
func (s *LogSink) Emit(ev Event) {
	fields := []zap.Field{
		zap.String("event_id", ev.ID.String()),
		zap.Uint64("production_id", ev.ProductionID),
	}
	if !ev.Actor.IsZero() {
		fields = append(fields, zap.Stringer("actor", ev.Actor))
	}
	if !ev.Counterparty.IsZero() {
		fields = append(fields, zap.Stringer("counterparty", ev.Counterparty))
	}
	if ev.Shares > 0 {
		fields = append(fields, zap.Uint64("shares", ev.Shares))
	}
	if ev.Amount != nil {
		fields = append(fields, zap.String("amount", ev.Amount.String()))
	}
	if ev.Fee != nil {
		fields = append(fields, zap.String("fee", ev.Fee.String()))
	}
	if ev.PerkID > 0 {
		fields = append(fields, zap.Uint32("perk_id", ev.PerkID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	s.logger.Info(string(ev.Kind), fields...)
}
