package config

import (
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
)

// RetryPolicy bounds a polling loop. A zero Interval polls without waiting.
type RetryPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultRetryPolicy polls every 2 seconds, at most 30 times
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Interval:    2 * time.Second,
		MaxAttempts: 30,
	}
}

// Default values of PipelineConfig
const (
	DefaultLinkDelay         = 2 * time.Second
	DefaultLinkAttempts      = 3
	DefaultTopK              = 5
	DefaultSuggestionCount   = 4
	DefaultMinExtractedChars = 10
)

// DefaultFallbackQuestions is returned by question suggestion when the model output cannot be used
var DefaultFallbackQuestions = []string{
	"What are these documents about?",
	"What is the main summary?",
	"What are the key points?",
	"What are the conclusions?",
}

// PipelineConfig holds ingestion, linking and retrieval settings
type PipelineConfig struct {
	// Mode is used for stores created by this process
	Mode types.PipelineMode

	// Processing polls the uploaded file until it leaves the pending state
	Processing RetryPolicy

	// LinkDelay is waited before the first link attempt
	LinkDelay time.Duration
	// LinkRetry applies to link attempts answered with "not found"
	LinkRetry RetryPolicy

	TopK              int
	SuggestionCount   int
	FallbackQuestions []string
	MinExtractedChars int
}

func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Mode:       types.PipelineModeRemote,
		Processing: DefaultRetryPolicy(),
		LinkDelay:  DefaultLinkDelay,
		LinkRetry: RetryPolicy{
			Interval:    DefaultLinkDelay,
			MaxAttempts: DefaultLinkAttempts,
		},
		TopK:              DefaultTopK,
		SuggestionCount:   DefaultSuggestionCount,
		FallbackQuestions: append([]string(nil), DefaultFallbackQuestions...),
		MinExtractedChars: DefaultMinExtractedChars,
	}
}
