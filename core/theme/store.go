// Package theme implements the ThemeStore interface.
// Seven stylesheets are compiled into the binary. A theme directory, when
// configured, can override any of them and add new ones: every <name>.css
// in it becomes a theme called <name>.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gaurav-prasanna/pagepress/core"
)

//go:embed themes/*.css
var embedded embed.FS

// DefaultTheme is used when no other default is configured.
const DefaultTheme = "mocha-minimalist"

// Builtin lists the compiled-in themes in display order.
var Builtin = []string{
	"mocha-minimalist",
	"neon-brutalist",
	"glassmorphism-pro",
	"sunset-gradient",
	"dark-sage",
	"corporate-blue",
	"retro-tech",
}

// Store resolves theme names to CSS.
type Store struct {
	dir   string
	def   string
	names []string
}

// Option configures a Store.
type Option func(*Store)

// WithDir adds a directory of <name>.css overrides.
func WithDir(dir string) Option {
	return func(s *Store) { s.dir = dir }
}

// WithDefault sets the theme used for unknown names.
func WithDefault(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.def = name
		}
	}
}

// New builds a Store. It fails if the theme directory cannot be read or the
// default theme does not exist.
func New(opts ...Option) (*Store, error) {
	s := &Store{def: DefaultTheme, names: slices.Clone(Builtin)}
	for _, o := range opts {
		o(s)
	}

	if s.dir != "" {
		extra, err := scanDir(s.dir)
		if err != nil {
			return nil, err
		}
		for _, name := range extra {
			if !slices.Contains(s.names, name) {
				s.names = append(s.names, name)
			}
		}
	}

	if !s.Has(s.def) {
		return nil, fmt.Errorf("default theme %q: %w", s.def, core.ErrUnknownTheme)
	}
	return s, nil
}

// Names returns the available theme names.
func (s *Store) Names() []string {
	return slices.Clone(s.names)
}

// Has reports whether name is an available theme.
func (s *Store) Has(name string) bool {
	return slices.Contains(s.names, name)
}

// Default returns the fallback theme name.
func (s *Store) Default() string {
	return s.def
}

// CSS returns the stylesheet for name. Unknown names resolve to the
// default theme.
func (s *Store) CSS(name string) (string, error) {
	if !s.Has(name) {
		name = s.def
	}

	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, name+".css"))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading theme %s: %w", name, err)
		}
	}

	data, err := embedded.ReadFile("themes/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("reading theme %s: %w", name, err)
	}
	return string(data), nil
}

// scanDir lists the theme names defined in dir.
func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading theme directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".css" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	return names, nil
}
