package config

import (
	"fmt"
	"strings"

	"github.com/campusdesk/campusdesk/internal/flagx"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// parseSources overlays the YAML file named by -c/-config (if any) and then
// CAMPUSDESK_* environment variables onto config. Keys absent from both
// sources leave the corresponding fields untouched.
//
// Environment variables map to keys by dropping the prefix and lowercasing:
//
//	CAMPUSDESK_UPSTREAM_TIMEOUT=3s -> upstream_timeout
func parseSources(config *Config) error {
	return loadSources(config, flagx.ConfigFileFlag(), EnvPrefix)
}

func loadSources(config *Config, path, prefix string) error {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	transform := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, prefix))
	}
	if err := k.Load(env.Provider(prefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", config); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return nil
}
