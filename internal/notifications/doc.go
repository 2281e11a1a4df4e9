// Package notifications delivers session events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Session and error categories can be toggled independently so a
// lab machine can alert on failures without narrating every run.
//
// Extend this package if you need alternative transports; daemon code depends
// only on the simple Service interface.
package notifications
