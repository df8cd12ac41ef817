package config_test

import (
	"testing"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/cli/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	domainConfig "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/m-mizutani/gt"
)

func TestGemini_ConfigureLLM(t *testing.T) {
	t.Run("returns nil client when project ID is empty", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "", "us-central1")
		client, err := cfg.ConfigureLLM(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("returns flags", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "", "")
		gt.Array(t, cfg.Flags()).Length(4)
	})
}

func TestGemini_ConfigureProvider(t *testing.T) {
	t.Run("empty credential is rejected before any request", func(t *testing.T) {
		cfg := config.NewGeminiForTest("gemini-2.5-flash", "", "")
		_, err := cfg.ConfigureProvider(t.Context(), "", domainConfig.DefaultPipelineConfig())
		gt.Error(t, err).Is(model.ErrMissingCredential)
	})
}
