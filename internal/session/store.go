// Package session persists the single session credential issued by the
// backend at login. Presence of the session file is the only signal used to
// decide whether the user is authenticated; no expiry is recorded.
//
// The store has no locking: two logins must not run at the same time.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultSessionFile is the default name of the session file
const DefaultSessionFile = "session.yaml"

// DefaultCookieName is the cookie the backend uses to carry the session token.
const DefaultCookieName = "session"

// FormatVersion is written into every record. Records are readable when
// their version satisfies supportedVersions.
const FormatVersion = "1.0.0"

var supportedVersions = mustConstraint("^1.0.0")

var (
	// ErrNotAuthenticated is returned by Read when no credential is persisted.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUnsupportedVersion is returned when the record was written by an
	// incompatible client version.
	ErrUnsupportedVersion = errors.New("unsupported session file version")
)

// Credential is the persisted session record.
type Credential struct {
	Version    string    `yaml:"version"`
	Token      string    `yaml:"token"`
	CookieName string    `yaml:"cookie_name"`
	SavedAt    time.Time `yaml:"saved_at"`
}

// Store is durable single-slot storage for one Credential.
type Store struct {
	path string
}

// GetDefaultSessionPath returns the default session file location under the
// OS-specific config directory.
func GetDefaultSessionPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "monmarche", DefaultSessionFile), nil
}

// Open prepares a store backed by path, creating its directory. An empty
// path selects the default location.
func Open(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = GetDefaultSessionPath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("unable to create session directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Has reports whether a credential has been persisted.
func (s *Store) Has() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the persisted credential.
func (s *Store) Read() (Credential, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credential{}, ErrNotAuthenticated
		}
		return Credential{}, fmt.Errorf("unable to read session file: %w", err)
	}

	var c Credential
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Credential{}, fmt.Errorf("unable to parse session file: %w", err)
	}
	v, err := semver.NewVersion(c.Version)
	if err != nil || !supportedVersions.Check(v) {
		return Credential{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, c.Version)
	}
	if strings.TrimSpace(c.Token) == "" {
		return Credential{}, ErrNotAuthenticated
	}
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
	return c, nil
}

// Write replaces any persisted credential with c. The file is written to a
// temporary sibling and renamed, so readers never observe a partial record.
func (s *Store) Write(c Credential) error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("session token cannot be empty")
	}
	c.Version = FormatVersion
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now().UTC()
	}

	out, err := yaml.Marshal(&c)
	if err != nil {
		return fmt.Errorf("unable to encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("unable to write session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write session file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("unable to write session file: %w", err)
	}
	return nil
}

// Clear removes the persisted credential. Clearing an empty store is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to remove session file: %w", err)
	}
	return nil
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}
