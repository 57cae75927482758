package config

// Default configuration values.
const (
	DefaultThresholdArchitecture   = 0.6
	DefaultThresholdCode           = 0.8
	DefaultFunction                = "levenshtein"
	DefaultMatchThreshold          = 0.05
	DefaultMatchDelta              = 0.05
	DefaultMinWeight               = 0.2
	DefaultEpsilon                 = 1.0
	DefaultMaxIterations           = 100
	DefaultTextSimilarityThreshold = 0.68
	DefaultFormula                 = "c"
	DefaultSimilarityThreshold     = 0.06
	DefaultOutput                  = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Defaults returns the default values keyed by their koanf path.
func Defaults() map[string]any {
	return map[string]any{
		"selection.skip":                     false,
		"selection.threshold_architecture":   DefaultThresholdArchitecture,
		"selection.threshold_code":           DefaultThresholdCode,
		"selection.function":                 DefaultFunction,
		"selection.match_threshold":          DefaultMatchThreshold,
		"selection.match_delta":              DefaultMatchDelta,
		"similarity.min_weight":              DefaultMinWeight,
		"matching.skip":                      false,
		"matching.epsilon":                   DefaultEpsilon,
		"matching.max_iterations":            DefaultMaxIterations,
		"matching.text_similarity_threshold": DefaultTextSimilarityThreshold,
		"matching.formula":                   DefaultFormula,
		"filter.skip":                        false,
		"filter.similarity_threshold":        DefaultSimilarityThreshold,
		"rules.skip":                         false,
		"refine.skip":                        false,
		"verbose":                            false,
		"output":                             DefaultOutput,
	}
}

// Default returns a Config holding the default values.
func Default() *Config {
	return &Config{
		Selection: SelectionConfig{
			ThresholdArchitecture: DefaultThresholdArchitecture,
			ThresholdCode:         DefaultThresholdCode,
			Function:              DefaultFunction,
			MatchThreshold:        DefaultMatchThreshold,
			MatchDelta:            DefaultMatchDelta,
		},
		Similarity: SimilarityConfig{MinWeight: DefaultMinWeight},
		Matching: MatchingConfig{
			Epsilon:                 DefaultEpsilon,
			MaxIterations:           DefaultMaxIterations,
			TextSimilarityThreshold: DefaultTextSimilarityThreshold,
			Formula:                 DefaultFormula,
		},
		Filter: FilterConfig{SimilarityThreshold: DefaultSimilarityThreshold},
		Output: DefaultOutput,
	}
}
