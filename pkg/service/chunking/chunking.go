package chunking

import (
	"strings"
	"unicode"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tmc/langchaingo/textsplitter"
)

// Strategy names accepted by New
const (
	StrategyWindow    = "window"
	StrategyRecursive = "recursive"
)

var (
	ErrUnknownStrategy = goerr.New("unknown chunking strategy")
	// ErrTooManyChunks is returned instead of truncating a document beyond MaxChunks
	ErrTooManyChunks = goerr.New("document exceeds chunk limit")
)

// Config bounds chunk sizes in runes. MaxChunks of zero means no limit.
type Config struct {
	MaxChars  int `toml:"max_chars"`
	MinChars  int `toml:"min_chars"`
	Overlap   int `toml:"overlap"`
	MaxChunks int `toml:"max_chunks"`
}

func DefaultConfig() Config {
	return Config{
		MaxChars:  1200,
		MinChars:  400,
		Overlap:   200,
		MaxChunks: 0,
	}
}

// New returns the chunker of the named strategy. An empty name selects the window chunker.
func New(strategy string, cfg Config) (interfaces.Chunker, error) {
	if cfg.MaxChars <= 0 {
		cfg = DefaultConfig()
	}

	switch strategy {
	case "", StrategyWindow:
		return &Window{cfg: cfg}, nil
	case StrategyRecursive:
		return NewRecursive(cfg), nil
	default:
		return nil, goerr.Wrap(ErrUnknownStrategy, "cannot create chunker", goerr.V("strategy", strategy))
	}
}

// Window cuts text into overlapping rune windows, preferring to break on whitespace
type Window struct {
	cfg Config
}

func (w *Window) Split(text string) ([]string, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil, nil
	}

	runes := []rune(clean)
	if len(runes) <= w.cfg.MaxChars {
		return []string{clean}, nil
	}

	var chunks []string
	for start := 0; start < len(runes); {
		if w.cfg.MaxChunks > 0 && len(chunks) >= w.cfg.MaxChunks {
			return nil, goerr.Wrap(ErrTooManyChunks, "document does not fit the chunk limit",
				goerr.V("max_chunks", w.cfg.MaxChunks),
				goerr.V("remaining_chars", len(runes)-start))
		}

		end := min(start+w.cfg.MaxChars, len(runes))
		if end < len(runes) {
			end = w.breakPoint(runes, start, end)
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}

		next := end
		if w.cfg.Overlap > 0 && end-start > w.cfg.Overlap {
			next = end - w.cfg.Overlap
		}
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}

// breakPoint moves end back to the last whitespace after start+MinChars
func (w *Window) breakPoint(runes []rune, start, end int) int {
	floor := start + w.cfg.MinChars
	if floor > end {
		floor = start
	}
	for i := end; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

// Recursive splits on paragraph, line, sentence and word boundaries in that order
type Recursive struct {
	splitter  textsplitter.RecursiveCharacter
	maxChunks int
}

func NewRecursive(cfg Config) *Recursive {
	return &Recursive{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.MaxChars),
			textsplitter.WithChunkOverlap(cfg.Overlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " ", ""}),
		),
		maxChunks: cfg.MaxChunks,
	}
}

func (r *Recursive) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	parts, err := r.splitter.SplitText(text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to split text")
	}

	chunks := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			chunks = append(chunks, p)
		}
	}
	if r.maxChunks > 0 && len(chunks) > r.maxChunks {
		return nil, goerr.Wrap(ErrTooManyChunks, "document does not fit the chunk limit",
			goerr.V("max_chunks", r.maxChunks),
			goerr.V("chunks", len(chunks)))
	}
	return chunks, nil
}
