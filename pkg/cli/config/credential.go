package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Credential is an API key. Values of this type are redacted by the logger.
type Credential string

// credentialEnvVars are consulted in order after the flag and the session file
var credentialEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// Session is the per-user state persisted by the CLI between invocations
type Session struct {
	APIKey  Credential `toml:"api_key,omitempty"`
	StoreID string     `toml:"store_id,omitempty"`
}

// DefaultSessionPath returns ~/.config/filesearch/credentials.toml
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "filesearch", "credentials.toml")
}

// Auth resolves the API credential and holds the session file location
type Auth struct {
	apiKey      string
	sessionPath string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "Gemini API key. Falls back to the session file, then GEMINI_API_KEY / GOOGLE_API_KEY",
			Category:    "Auth",
			Destination: &x.apiKey,
		},
		&cli.StringFlag{
			Name:        "session-file",
			Usage:       "Path of the session file written by `login`",
			Category:    "Auth",
			Value:       DefaultSessionPath(),
			Sources:     cli.EnvVars("FILESEARCH_SESSION_FILE"),
			Destination: &x.sessionPath,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-key.len", len(x.apiKey)),
		slog.String("session-file", x.sessionPath),
	)
}

// FlagKey returns the key given by --api-key, if any
func (x *Auth) FlagKey() Credential {
	return Credential(x.apiKey)
}

func (x *Auth) SessionPath() string {
	if x.sessionPath == "" {
		return DefaultSessionPath()
	}
	return x.sessionPath
}

// Resolve returns the credential from the flag, the session file or the environment, in that order.
// ErrMissingCredential is returned when none is set.
func (x *Auth) Resolve() (Credential, error) {
	if x.apiKey != "" {
		return Credential(x.apiKey), nil
	}

	session, err := LoadSession(x.SessionPath())
	if err != nil {
		return "", err
	}
	if session.APIKey != "" {
		return session.APIKey, nil
	}

	for _, name := range credentialEnvVars {
		if v := os.Getenv(name); v != "" {
			return Credential(v), nil
		}
	}

	return "", goerr.Wrap(model.ErrMissingCredential, "no API key configured",
		goerr.V("hint", "run `filesearch login`, pass --api-key or set GEMINI_API_KEY"))
}

// LoadSession reads the session file. A missing file yields an empty session.
func LoadSession(path string) (*Session, error) {
	// #nosec G304 - path is provided by CLI argument
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read session file", goerr.V(ConfigPathKey, path))
	}

	var session Session
	if err := toml.Unmarshal(data, &session); err != nil {
		return nil, goerr.Wrap(err, "failed to parse session file", goerr.V(ConfigPathKey, path))
	}
	return &session, nil
}

// SaveSession writes the session file readable by the owner only
func SaveSession(path string, session *Session) error {
	data, err := toml.Marshal(session)
	if err != nil {
		return goerr.Wrap(err, "failed to encode session")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return goerr.Wrap(err, "failed to create session directory", goerr.V(ConfigPathKey, path))
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write session file", goerr.V(ConfigPathKey, path))
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, 0600); err != nil {
		return goerr.Wrap(err, "failed to restrict session file", goerr.V(ConfigPathKey, path))
	}
	return nil
}
