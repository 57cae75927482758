// Package config provides configuration management for sketchlink.
//
// Values are layered with koanf: built-in defaults, then sketchlink.yaml,
// then SKETCHLINK_ environment variables, then explicitly set CLI flags.
package config

// Config holds every sketchlink option.
type Config struct {
	Selection  SelectionConfig  `koanf:"selection"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Matching   MatchingConfig   `koanf:"matching"`
	Filter     FilterConfig     `koanf:"filter"`
	Rules      RulesConfig      `koanf:"rules"`
	Refine     RefineConfig     `koanf:"refine"`
	Verbose    bool             `koanf:"verbose"`
	Output     string           `koanf:"output"`
}

// SelectionConfig configures the model selector.
type SelectionConfig struct {
	Skip                  bool    `koanf:"skip"`
	ThresholdArchitecture float64 `koanf:"threshold_architecture"`
	ThresholdCode         float64 `koanf:"threshold_code"`
	Function              string  `koanf:"function"`
	MatchThreshold        float64 `koanf:"match_threshold"`
	MatchDelta            float64 `koanf:"match_delta"`
}

// SimilarityConfig configures the weighted word similarity.
type SimilarityConfig struct {
	MinWeight float64 `koanf:"min_weight"`
}

// MatchingConfig configures similarity flooding.
type MatchingConfig struct {
	Skip                    bool    `koanf:"skip"`
	Epsilon                 float64 `koanf:"epsilon"`
	MaxIterations           int     `koanf:"max_iterations"`
	TextSimilarityThreshold float64 `koanf:"text_similarity_threshold"`
	Formula                 string  `koanf:"formula"`
}

// FilterConfig configures the ordered matching filter.
type FilterConfig struct {
	Skip                bool    `koanf:"skip"`
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
}

// RulesConfig configures the consistency rules.
type RulesConfig struct {
	Skip     bool                      `koanf:"skip"`
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Options  map[string]map[string]any `koanf:"options"`
}

// RefineConfig configures inconsistency refinement.
type RefineConfig struct {
	Skip bool `koanf:"skip"`
}
