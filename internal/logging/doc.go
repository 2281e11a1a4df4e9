// Package logging builds slog loggers with console and JSON handlers,
// standardized field keys, and context-derived attributes so every subsystem
// logs session, state, and point identifiers consistently.
package logging
