// Package config loads, normalizes, and validates gazecap's TOML
// configuration. Defaults cover every key so a missing config file yields a
// usable setup; paths are tilde-expanded and made absolute during load.
package config
