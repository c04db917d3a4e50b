package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// errInvalid marks a config file that exists but does not parse.
var errInvalid = errors.New("config: invalid file")

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load warnings.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithEnv sets the lookup used to fill an empty API key. See APIKeyFromEnv.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(s *Store) { s.lookup = lookup }
}

// Store is the process-wide configuration holder. It is safe for concurrent
// use.
type Store struct {
	path   string
	log    *slog.Logger
	lookup func(string) (string, bool)

	mu        sync.Mutex
	cfg       AppConfig
	listeners []func(AppConfig)
}

// Load reads path and merges it over Defaults. A missing file yields the
// defaults. A file that cannot be parsed is logged and also yields the
// defaults; the next Update overwrites it.
func Load(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path: path,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:  Defaults(),
	}
	for _, o := range opts {
		o(s)
	}

	cfg, err := s.read()
	switch {
	case errors.Is(err, errInvalid):
		s.log.Warn("config file is not valid JSON, using defaults", "path", path, "error", err)
	case err != nil:
		return nil, err
	default:
		s.cfg = cfg
	}

	return s, nil
}

// Path returns the file the store persists to.
func (s *Store) Path() string { return s.path }

// Get returns a snapshot of the effective configuration, with the API key
// filled from the environment when the persisted one is empty.
func (s *Store) Get() AppConfig {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	if s.lookup != nil {
		cfg = APIKeyFromEnv(cfg, s.lookup)
	}

	return cfg
}

// Raw returns the configuration as persisted, without environment
// substitution. Editors start from Raw so that keys from the environment are
// never written to disk.
func (s *Store) Raw() AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg
}

// Update applies fn to a copy of the persisted configuration and writes the
// whole document. The in-memory state only changes when the write succeeds.
func (s *Store) Update(fn func(*AppConfig)) error {
	s.mu.Lock()
	next := s.cfg
	fn(&next)
	next = Normalize(next, s.log)

	if err := Save(s.path, next); err != nil {
		s.mu.Unlock()
		return err
	}

	changed := next != s.cfg
	s.cfg = next
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	s.log.Debug("config saved", "path", s.path, "provider", next.AIProvider.Name, "hasAPIKey", next.AIProvider.HasAPIKey())

	if changed {
		s.notify(listeners)
	}

	return nil
}

// ToggleTheme flips between light and dark. ThemeSystem is first resolved
// with systemDark, so the toggle always produces a visible change.
func (s *Store) ToggleTheme(systemDark bool) error {
	return s.Update(func(c *AppConfig) {
		if c.EffectiveTheme(systemDark) == ThemeDark {
			c.Theme = ThemeLight
		} else {
			c.Theme = ThemeDark
		}
	})
}

// Reload re-reads the file and notifies listeners when the content changed.
// A file that does not parse, for example one caught halfway through a
// write, leaves the current configuration in place.
func (s *Store) Reload() error {
	cfg, err := s.read()
	if errors.Is(err, errInvalid) {
		s.log.Debug("config reload skipped", "path", s.path, "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	changed := cfg != s.cfg
	s.cfg = cfg
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if changed {
		s.log.Info("config reloaded", "path", s.path)
		s.notify(listeners)
	}

	return nil
}

// OnChange registers fn to be called with the effective configuration after
// every change. Callbacks run on the goroutine that made the change.
func (s *Store) OnChange(fn func(AppConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(listeners []func(AppConfig)) {
	cfg := s.Get()
	for _, fn := range listeners {
		fn(cfg)
	}
}

func (s *Store) read() (AppConfig, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // path is caller-provided configuration, not user input
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return AppConfig{}, fmt.Errorf("config: load: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return AppConfig{}, fmt.Errorf("%w: %w", errInvalid, err)
	}

	return Normalize(cfg, s.log), nil
}

// Save writes cfg to path, creating parent directories. The file is only
// readable by the owner because it holds the API key.
func Save(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: create parent dir: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}

	return nil
}
