// Package config loads, normalizes, and validates mediabatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIABATCH_LOG_DIR. The Config type centralizes every knob the combine and
// stitch workflows need, so file filters, encoder parameters, and log
// destinations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
