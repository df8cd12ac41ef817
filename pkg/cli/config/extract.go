package config

import (
	"log/slog"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/extract"
	"github.com/urfave/cli/v3"
)

// Extract configures text extraction for the local pipeline
type Extract struct {
	unstructuredURL string
	unstructuredKey string
	maxCharacters   int
}

func (x *Extract) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "unstructured-url",
			Usage:       "Unstructured API endpoint used to extract text from PDF and office documents",
			Category:    "Pipeline",
			Sources:     cli.EnvVars("FILESEARCH_UNSTRUCTURED_URL"),
			Destination: &x.unstructuredURL,
		},
		&cli.StringFlag{
			Name:        "unstructured-api-key",
			Category:    "Pipeline",
			Sources:     cli.EnvVars("FILESEARCH_UNSTRUCTURED_API_KEY"),
			Destination: &x.unstructuredKey,
		},
		&cli.IntFlag{
			Name:        "max-extracted-chars",
			Usage:       "Truncate text returned by Unstructured to this many characters (default 5000)",
			Category:    "Pipeline",
			Sources:     cli.EnvVars("FILESEARCH_MAX_EXTRACTED_CHARS"),
			Destination: &x.maxCharacters,
		},
	}
}

func (x Extract) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("unstructured-url", x.unstructuredURL),
		slog.Int("unstructured-api-key.len", len(x.unstructuredKey)),
	)
}

// Configure returns an extractor that handles plain text only unless an Unstructured endpoint is set
func (x *Extract) Configure() *extract.Service {
	if x.unstructuredURL == "" {
		return extract.New()
	}

	var opts []extract.UnstructuredOption
	if x.unstructuredKey != "" {
		opts = append(opts, extract.WithAPIKey(x.unstructuredKey))
	}
	if x.maxCharacters > 0 {
		opts = append(opts, extract.WithMaxCharacters(x.maxCharacters))
	}
	return extract.New(extract.WithUnstructured(extract.NewUnstructured(x.unstructuredURL, opts...)))
}
