package config

import "github.com/hyperjump/niteru/internal/catalog"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CORSAllowedOrigins == nil {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 600
	}
	if cfg.Server.RequestTimeoutSeconds <= 0 {
		cfg.Server.RequestTimeoutSeconds = 30
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = catalog.BuiltinSource
	}
	if cfg.Catalog.DebounceMS <= 0 {
		cfg.Catalog.DebounceMS = 400
	}
	if cfg.Engine.NGramMax <= 0 {
		cfg.Engine.NGramMax = 2
	}
	if cfg.Engine.MaxFeatures == 0 {
		cfg.Engine.MaxFeatures = 5000
	}
	if cfg.Engine.MinTokenLength <= 0 {
		cfg.Engine.MinTokenLength = 2
	}
	if cfg.Engine.ScorePrecision == nil {
		p := 3
		cfg.Engine.ScorePrecision = &p
	}
	if cfg.Query.DefaultTopN <= 0 {
		cfg.Query.DefaultTopN = 5
	}
	if cfg.Query.MaxTopN <= 0 {
		cfg.Query.MaxTopN = 50
	}
	if cfg.Query.DefaultTopN > cfg.Query.MaxTopN {
		cfg.Query.DefaultTopN = cfg.Query.MaxTopN
	}
	if cfg.Query.SearchLimit <= 0 {
		cfg.Query.SearchLimit = 10
	}
	if cfg.Query.Fuzziness <= 0 {
		cfg.Query.Fuzziness = 1
	}
	if cfg.Query.Fuzziness > 2 {
		cfg.Query.Fuzziness = 2
	}
}

// Default returns a config with every default applied, for running without a config file.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
