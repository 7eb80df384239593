package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces the environment overrides.
const EnvPrefix = "CMDCON_"

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error; the defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := unmarshal(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// unmarshal decodes by file extension.
func unmarshal(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	return nil
}

// applyEnv overlays CMDCON_* variables onto the config. Unparseable
// values are ignored rather than fatal.
func applyEnv(cfg *Config) {
	envInt(&cfg.Completion.DebounceMS, "COMPLETION_DEBOUNCE_MS")
	envInt(&cfg.Completion.SourceTimeoutMS, "COMPLETION_SOURCE_TIMEOUT_MS")
	envInt(&cfg.Completion.MaxItems, "COMPLETION_MAX_ITEMS")
	envInt(&cfg.Completion.CacheSize, "COMPLETION_CACHE_SIZE")
	envInt(&cfg.Completion.CacheTTLMS, "COMPLETION_CACHE_TTL_MS")
	envBool(&cfg.Completion.Fuzzy, "COMPLETION_FUZZY")
	envInt(&cfg.Undo.Capacity, "UNDO_CAPACITY")
	envInt(&cfg.Undo.GroupWindowMS, "UNDO_GROUP_WINDOW_MS")
	envInt(&cfg.History.MaxEntries, "HISTORY_MAX_ENTRIES")
	envString(&cfg.History.Path, "HISTORY_PATH")
	envInt(&cfg.Expression.TimeoutMS, "EXPRESSION_TIMEOUT_MS")
}

func envInt(dst *int, name string) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}

func envBool(dst *bool, name string) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return
	}
	*dst = b
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		*dst = v
	}
}
