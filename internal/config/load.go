package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.taskeasy/taskeasy.toml or OS-specific config dir)
// 3. Project config file (taskeasy.toml or .taskeasy.toml in current directory)
// 4. .env file in current directory
// 5. Environment variables
// 6. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. User config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, cws.Sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	// 3. Project config file (overrides user config)
	if path := findProjectConfigFile(wd); path != "" {
		if err := loadConfigFile(cfg, path, cws.Sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	// 4 and 5. Environment, falling back to .env for unset variables
	dotenv, err := readDotEnv(filepath.Join(wd, ".env"))
	if err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := loadFromEnv(cfg, dotenv, cws.Sources); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	// 6. CLI flags override everything
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg, wd); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cws, nil
}

// loadConfigFile decodes the TOML file at path over cfg and records the
// keys it defines.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// readDotEnv returns the variables in a .env file. A missing file yields
// no variables.
func readDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return vars, nil
}

// finalizeConfig normalizes values, resolves paths against root and
// validates the result.
func finalizeConfig(cfg *Config, root string) error {
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.SQLiteKey = strings.TrimSpace(cfg.SQLiteKey)

	cfg.ProjectRoot = root
	cfg.BoardFile = resolvePath(root, cfg.BoardFile)
	cfg.SQLiteFile = resolvePath(root, cfg.SQLiteFile)

	return cfg.Validate()
}

// resolvePath expands environment variables and a leading ~ in p and
// makes the result absolute relative to root.
func resolvePath(root, p string) string {
	p = os.ExpandEnv(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
