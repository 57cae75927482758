package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "sketchlink.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "sketchlink.yml"

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "SKETCHLINK_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// flagKeys maps CLI flag names to config keys where they differ from the
// snake_case form of the flag.
var flagKeys = map[string]string{
	"function":             "selection.function",
	"threshold-arch":       "selection.threshold_architecture",
	"threshold-code":       "selection.threshold_code",
	"match-threshold":      "selection.match_threshold",
	"match-delta":          "selection.match_delta",
	"min-weight":           "similarity.min_weight",
	"epsilon":              "matching.epsilon",
	"max-iterations":       "matching.max_iterations",
	"text-threshold":       "matching.text_similarity_threshold",
	"formula":              "matching.formula",
	"similarity-threshold": "filter.similarity_threshold",
	"skip-selection":       "selection.skip",
	"skip-matching":        "matching.skip",
	"skip-filter":          "filter.skip",
	"skip-rules":           "rules.skip",
	"skip-refine":          "refine.skip",
	"disable":              "rules.disabled",
}

// Loaded is a loaded configuration and the file it came from.
type Loaded struct {
	*Config
	// File is the config file used, empty when none was found.
	File string
}

// Load loads configuration from defaults, file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Loaded, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	used := cfgFile
	if used == "" {
		if cwd, err := os.Getwd(); err == nil {
			used = FindConfigFile(cwd)
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Load environment variables (SKETCHLINK_ prefix)
	// Transform: SKETCHLINK_MATCHING__MAX_ITERATIONS -> matching.max_iterations
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Loaded{Config: &cfg, File: used}, nil
}

// FindConfigFile searches upward from startDir for a sketchlink config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func FindConfigFile(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}
