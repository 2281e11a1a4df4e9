package logging

import (
	"context"
	"log/slog"

	"gazecap/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized structured logging key for capture session identifiers.
	FieldSessionID = "session_id"
	// FieldGroupID is the standardized structured logging key for capture group identifiers.
	FieldGroupID = "group_id"
	// FieldState is the standardized structured logging key for sequencer states.
	FieldState = "state"
	// FieldPointIndex is the standardized structured logging key for the zero-based stimulus point index.
	FieldPointIndex = "point_index"
	// FieldCameraRole is the standardized structured logging key for camera roles (main/secondary).
	FieldCameraRole = "camera_role"
	// FieldEventType tags records for machine filtering (e.g. "state_transition").
	FieldEventType = "event_type"
	// FieldErrorHint carries operator guidance alongside error records.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-visible consequence of a failure.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.SessionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if state, ok := services.StateFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldState, state))
	}
	if idx, ok := services.PointIndexFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldPointIndex, idx))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
