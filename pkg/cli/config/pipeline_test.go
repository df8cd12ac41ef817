package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/cli/config"
	domainConfig "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestPipeline_Configure(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		settings, err := config.NewPipelineForTest("", "").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, settings.Pipeline).Equal(domainConfig.DefaultPipelineConfig())
		gt.Value(t, settings.Chunking.MaxChars).Equal(1200)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeFile(t, `
mode = "local"
top_k = 8
suggestion_count = 3
fallback_questions = ["What is this?"]

[processing]
interval = "500ms"
max_attempts = 10

[link]
delay = "0s"
max_attempts = 5

[chunking]
strategy = "recursive"
max_chars = 800
min_chars = 200
overlap = 100
max_chunks = 20

[embedding]
batch_size = 8
concurrency = 2
`)
		settings, err := config.NewPipelineForTest(path, "").Configure()
		gt.NoError(t, err).Required()

		p := settings.Pipeline
		gt.Value(t, p.Mode).Equal(types.PipelineModeLocal)
		gt.Value(t, p.TopK).Equal(8)
		gt.Value(t, p.SuggestionCount).Equal(3)
		gt.Value(t, p.FallbackQuestions).Equal([]string{"What is this?"})
		gt.Value(t, p.Processing.Interval).Equal(500 * time.Millisecond)
		gt.Value(t, p.Processing.MaxAttempts).Equal(10)
		gt.Value(t, p.LinkDelay).Equal(time.Duration(0))
		gt.Value(t, p.LinkRetry.MaxAttempts).Equal(5)
		gt.Value(t, p.LinkRetry.Interval).Equal(domainConfig.DefaultLinkDelay)
		gt.Value(t, settings.ChunkStrategy).Equal("recursive")
		gt.Value(t, settings.Chunking.MaxChars).Equal(800)
		gt.Array(t, settings.EmbeddingOptions).Length(2)
	})

	t.Run("mode flag overrides the file", func(t *testing.T) {
		path := writeFile(t, `mode = "local"`)
		settings, err := config.NewPipelineForTest(path, "remote").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, settings.Pipeline.Mode).Equal(types.PipelineModeRemote)
	})

	testCases := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "unknown mode", content: `mode = "hybrid"`, wantErr: config.ErrInvalidMode},
		{name: "bad duration", content: "[processing]\ninterval = \"soon\"", wantErr: config.ErrInvalidDuration},
		{name: "negative attempts", content: "[link]\nmax_attempts = -1", wantErr: config.ErrInvalidConfig},
		{name: "empty fallback question", content: `fallback_questions = ["ok", ""]`, wantErr: config.ErrInvalidConfig},
		{name: "overlap larger than chunk", content: "[chunking]\nmax_chars = 100\noverlap = 100", wantErr: config.ErrInvalidConfig},
		{name: "unknown chunking strategy", content: "[chunking]\nstrategy = \"sentences\"", wantErr: config.ErrInvalidConfig},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.NewPipelineForTest(writeFile(t, tc.content), "").Configure()
			gt.Error(t, err).Is(tc.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := config.NewPipelineForTest(filepath.Join(t.TempDir(), "none.toml"), "").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("malformed TOML", func(t *testing.T) {
		_, err := config.NewPipelineForTest(writeFile(t, "top_k = ["), "").Configure()
		gt.Error(t, err)
	})
}
