package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	domainConfig "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/chunking"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/embedding"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// PipelineFile is the TOML representation of the pipeline settings. Every field is optional.
type PipelineFile struct {
	Mode              string   `toml:"mode"`
	TopK              int      `toml:"top_k"`
	SuggestionCount   int      `toml:"suggestion_count"`
	FallbackQuestions []string `toml:"fallback_questions"`
	MinExtractedChars int      `toml:"min_extracted_chars"`

	Processing RetryFile     `toml:"processing"`
	Link       LinkFile      `toml:"link"`
	Chunking   ChunkingFile  `toml:"chunking"`
	Embedding  EmbeddingFile `toml:"embedding"`
}

// RetryFile uses Go duration strings such as "2s"
type RetryFile struct {
	Interval    string `toml:"interval"`
	MaxAttempts int    `toml:"max_attempts"`
}

type LinkFile struct {
	Delay       string `toml:"delay"`
	Interval    string `toml:"interval"`
	MaxAttempts int    `toml:"max_attempts"`
}

type ChunkingFile struct {
	Strategy string `toml:"strategy"`
	chunking.Config
}

type EmbeddingFile struct {
	BatchSize   int `toml:"batch_size"`
	Concurrency int `toml:"concurrency"`
}

// PipelineSettings is the resolved pipeline configuration
type PipelineSettings struct {
	Pipeline         *domainConfig.PipelineConfig
	ChunkStrategy    string
	Chunking         chunking.Config
	EmbeddingOptions []embedding.Option
}

// LoadPipelineFile reads a pipeline TOML file
func LoadPipelineFile(path string) (*PipelineFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read pipeline config", goerr.V(ConfigPathKey, path))
	}

	var file PipelineFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}
	return &file, nil
}

func parseDuration(field, s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, goerr.Wrap(ErrInvalidDuration, "invalid duration", goerr.V(FieldKey, field), goerr.V("value", s))
	}
	return d, nil
}

func positive(field string, v, fallback int) (int, error) {
	switch {
	case v == 0:
		return fallback, nil
	case v < 0:
		return 0, goerr.Wrap(ErrInvalidConfig, "value must be positive", goerr.V(FieldKey, field), goerr.V("value", v))
	default:
		return v, nil
	}
}

// ToSettings validates the file and merges it over the defaults
func (f *PipelineFile) ToSettings() (*PipelineSettings, error) {
	cfg := domainConfig.DefaultPipelineConfig()
	var err error

	if cfg.Mode, err = types.ParsePipelineMode(f.Mode); err != nil {
		return nil, goerr.Wrap(ErrInvalidMode, err.Error(), goerr.V(FieldKey, "mode"))
	}

	if cfg.Processing.Interval, err = parseDuration("processing.interval", f.Processing.Interval, cfg.Processing.Interval); err != nil {
		return nil, err
	}
	if cfg.Processing.MaxAttempts, err = positive("processing.max_attempts", f.Processing.MaxAttempts, cfg.Processing.MaxAttempts); err != nil {
		return nil, err
	}
	if cfg.LinkDelay, err = parseDuration("link.delay", f.Link.Delay, cfg.LinkDelay); err != nil {
		return nil, err
	}
	if cfg.LinkRetry.Interval, err = parseDuration("link.interval", f.Link.Interval, cfg.LinkRetry.Interval); err != nil {
		return nil, err
	}
	if cfg.LinkRetry.MaxAttempts, err = positive("link.max_attempts", f.Link.MaxAttempts, cfg.LinkRetry.MaxAttempts); err != nil {
		return nil, err
	}
	if cfg.TopK, err = positive("top_k", f.TopK, cfg.TopK); err != nil {
		return nil, err
	}
	if cfg.SuggestionCount, err = positive("suggestion_count", f.SuggestionCount, cfg.SuggestionCount); err != nil {
		return nil, err
	}
	if cfg.MinExtractedChars, err = positive("min_extracted_chars", f.MinExtractedChars, cfg.MinExtractedChars); err != nil {
		return nil, err
	}

	for i, q := range f.FallbackQuestions {
		if q == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "fallback question is empty", goerr.V(FieldKey, "fallback_questions"), goerr.V("index", i))
		}
	}
	if len(f.FallbackQuestions) > 0 {
		cfg.FallbackQuestions = append([]string(nil), f.FallbackQuestions...)
	}

	chunkCfg := chunking.DefaultConfig()
	if f.Chunking.MaxChars > 0 {
		chunkCfg = f.Chunking.Config
		if chunkCfg.MinChars > chunkCfg.MaxChars || chunkCfg.Overlap >= chunkCfg.MaxChars || chunkCfg.MaxChunks < 0 {
			return nil, goerr.Wrap(ErrInvalidConfig, "chunk bounds are inconsistent",
				goerr.V(FieldKey, "chunking"),
				goerr.V("max_chars", chunkCfg.MaxChars),
				goerr.V("min_chars", chunkCfg.MinChars),
				goerr.V("overlap", chunkCfg.Overlap),
				goerr.V("max_chunks", chunkCfg.MaxChunks))
		}
	}
	// Validates the strategy name
	if _, err := chunking.New(f.Chunking.Strategy, chunkCfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid chunking strategy", goerr.V(FieldKey, "chunking.strategy"), goerr.V("cause", err.Error()))
	}

	var embedOpts []embedding.Option
	if f.Embedding.BatchSize > 0 {
		embedOpts = append(embedOpts, embedding.WithBatchSize(f.Embedding.BatchSize))
	}
	if f.Embedding.Concurrency > 0 {
		embedOpts = append(embedOpts, embedding.WithConcurrency(f.Embedding.Concurrency))
	}

	return &PipelineSettings{
		Pipeline:         cfg,
		ChunkStrategy:    f.Chunking.Strategy,
		Chunking:         chunkCfg,
		EmbeddingOptions: embedOpts,
	}, nil
}

// Pipeline holds CLI flags for pipeline settings
type Pipeline struct {
	path string
	mode string
}

func (x *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "pipeline-config",
			Usage:       "Path of the pipeline TOML file (retry policy, chunking, retrieval)",
			Category:    "Pipeline",
			Sources:     cli.EnvVars("FILESEARCH_PIPELINE_CONFIG"),
			Destination: &x.path,
		},
		&cli.StringFlag{
			Name:        "mode",
			Usage:       "Pipeline mode for new stores (remote, local). Overrides the file",
			Category:    "Pipeline",
			Sources:     cli.EnvVars("FILESEARCH_MODE"),
			Destination: &x.mode,
		},
	}
}

func (x Pipeline) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.String("mode", x.mode),
	)
}

// Configure loads the pipeline file when given and applies the mode flag.
// A configured path that does not exist is an error.
func (x *Pipeline) Configure() (*PipelineSettings, error) {
	file := &PipelineFile{}
	if x.path != "" {
		loaded, err := LoadPipelineFile(x.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, goerr.Wrap(ErrInvalidConfig, "pipeline config not found", goerr.V(ConfigPathKey, x.path))
			}
			return nil, err
		}
		file = loaded
	}
	if x.mode != "" {
		file.Mode = x.mode
	}

	settings, err := file.ToSettings()
	if err != nil {
		return nil, goerr.Wrap(err, "pipeline config validation failed", goerr.V(ConfigPathKey, x.path))
	}
	return settings, nil
}
