package config

import (
	"context"
	"log/slog"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	domainConfig "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	geminisvc "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/gemini"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini holds configuration for the File Search provider and the local-mode LLM client
type Gemini struct {
	model     string
	baseURL   string
	projectID string
	location  string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Model used for grounded answers",
			Category:    "Gemini",
			Value:       geminisvc.DefaultModel,
			Sources:     cli.EnvVars("FILESEARCH_GEMINI_MODEL"),
			Destination: &g.model,
		},
		&cli.StringFlag{
			Name:        "gemini-base-url",
			Usage:       "Override the Gemini API endpoint",
			Category:    "Gemini",
			Sources:     cli.EnvVars("FILESEARCH_GEMINI_BASE_URL"),
			Destination: &g.baseURL,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for the local pipeline (embeddings and answers)",
			Category:    "Gemini",
			Sources:     cli.EnvVars("FILESEARCH_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for the local pipeline",
			Category:    "Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("FILESEARCH_GEMINI_LOCATION"),
			Destination: &g.location,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("model", g.model),
		slog.String("base_url", g.baseURL),
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
	}
}

// ConfigureProvider creates the File Search client. The import polling follows the pipeline's processing policy.
func (g *Gemini) ConfigureProvider(ctx context.Context, apiKey Credential, pipeline *domainConfig.PipelineConfig) (interfaces.DocumentProvider, error) {
	opts := []geminisvc.Option{
		geminisvc.WithOperationPolling(pipeline.Processing.Interval, pipeline.Processing.MaxAttempts),
	}
	if g.model != "" {
		opts = append(opts, geminisvc.WithModel(g.model))
	}
	if g.baseURL != "" {
		opts = append(opts, geminisvc.WithBaseURL(g.baseURL))
	}

	client, err := geminisvc.New(ctx, string(apiKey), opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create File Search client")
	}
	return client, nil
}

// ConfigureLLM creates the LLM client used by the local pipeline.
// Returns nil if projectID is not configured (local mode will be unavailable).
func (g *Gemini) ConfigureLLM(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		return nil, nil
	}

	client, err := gemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	return client, nil
}
