// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskeasy/taskeasy.toml or OS-specific config directory)
// 3. Project config file (taskeasy.toml or .taskeasy.toml in the project root)
// 4. A .env file in the project root
// 5. Environment variables (TASKEASY_*)
// 6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// Variables already present in the process environment win over the
// same names in .env.
//
// User-level config locations:
// - ~/.taskeasy/taskeasy.toml (preferred)
// - Windows: %APPDATA%\taskeasy\taskeasy.toml
// - macOS: ~/Library/Application Support/taskeasy/taskeasy.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskeasy/taskeasy.toml or ~/.config/taskeasy/taskeasy.toml
//
// The merged result is checked with go-playground/validator before use.
package config
