package services

import "context"

type contextKey string

const (
	sessionIDKey  contextKey = "session_id"
	stateKey      contextKey = "state"
	pointIndexKey contextKey = "point_index"
)

// WithSessionID annotates context with the capture session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithState annotates context with the current sequencer state name.
func WithState(ctx context.Context, state string) context.Context {
	if state == "" {
		return ctx
	}
	return context.WithValue(ctx, stateKey, state)
}

// StateFromContext returns the sequencer state name if present.
func StateFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stateKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPointIndex annotates context with the zero-based stimulus point index.
func WithPointIndex(ctx context.Context, index int) context.Context {
	if index < 0 {
		return ctx
	}
	return context.WithValue(ctx, pointIndexKey, index)
}

// PointIndexFromContext extracts the stimulus point index if present.
func PointIndexFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(pointIndexKey).(int); ok {
		return v, true
	}
	return 0, false
}
