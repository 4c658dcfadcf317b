package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "READYCHECK_"

// Load reads configuration using a 3-layer hierarchy (highest precedence
// last):
//
//  1. Programmatic defaults
//  2. The YAML config file at path
//  3. Environment variables (READYCHECK_ prefix)
//
// Environment variable mapping uses key matching against loaded config
// keys to resolve ambiguity between nesting separators and field-internal
// underscores:
//
//	READYCHECK_LOG_LEVEL              -> log.level
//	READYCHECK_RUN_CONCURRENCY        -> run.concurrency
//	READYCHECK_SERVER_READ_TIMEOUT    -> server.read_timeout
//
// Any failure here is a configuration error: the caller reports it and
// exits before probing begins.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults.
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Layer 2: the config file.
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	// Layer 3: environment variables with READYCHECK_ prefix.
	// Build a reverse lookup from known koanf keys so that env vars like
	// READYCHECK_SERVER_READ_TIMEOUT correctly resolve to
	// "server.read_timeout" instead of being split as "server.read.timeout".
	envLookup := buildEnvLookup(k.Keys())

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			key = strings.ToLower(key)

			if koanfKey, ok := envLookup[key]; ok {
				return koanfKey, value
			}

			// Fallback: simple underscore-to-dot replacement.
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return &cfg, nil
}

// buildEnvLookup creates a reverse mapping from env-style keys to koanf
// dotted keys. For each koanf key like "server.read_timeout", the env form
// "server_read_timeout" is computed by replacing dots with underscores.
func buildEnvLookup(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		envKey := strings.ReplaceAll(key, ".", "_")
		lookup[envKey] = key
	}
	return lookup
}
