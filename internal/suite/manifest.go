package suite

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Expectation is the verdict a case must produce.
type Expectation string

const (
	// ExpectPass means every selected file parses without syntax errors.
	ExpectPass Expectation = "pass"
	// ExpectFail means at least one selected file has syntax errors.
	ExpectFail Expectation = "fail"
)

// Case is one entry of a suite manifest. Path may name a file or a directory.
type Case struct {
	Name   string      `toml:"name"`
	Path   string      `toml:"path"`
	Expect Expectation `toml:"expect"`
	Note   string      `toml:"note"`
}

// Label is the case name, falling back to its path.
func (c Case) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Path
}

type suiteInfo struct {
	Name string `toml:"name"`
	// Root is resolved against the manifest directory.
	Root   string `toml:"root"`
	Suffix string `toml:"suffix"`
}

// Manifest is a decoded suite file.
type Manifest struct {
	// Path is the manifest file itself.
	Path  string    `toml:"-"`
	Suite suiteInfo `toml:"suite"`
	Cases []Case    `toml:"case"`
}

// Load decodes and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	m.Path = path
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Cases) == 0 {
		return fmt.Errorf("no [[case]] entries")
	}
	seen := make(map[string]int, len(m.Cases))
	for i := range m.Cases {
		c := &m.Cases[i]
		c.Path = strings.TrimSpace(c.Path)
		if c.Path == "" {
			return fmt.Errorf("case %d: missing path", i+1)
		}
		switch Expectation(strings.ToLower(string(c.Expect))) {
		case "", ExpectPass:
			c.Expect = ExpectPass
		case ExpectFail:
			c.Expect = ExpectFail
		default:
			return fmt.Errorf("case %d (%s): invalid expect %q (expected pass|fail)", i+1, c.Path, c.Expect)
		}
		if prev, dup := seen[c.Label()]; dup {
			return fmt.Errorf("case %d duplicates case %d (%s)", i+1, prev, c.Label())
		}
		seen[c.Label()] = i + 1
	}
	return nil
}

// Name is the suite name, defaulting to the manifest file name.
func (m *Manifest) Name() string {
	if m.Suite.Name != "" {
		return m.Suite.Name
	}
	return strings.TrimSuffix(filepath.Base(m.Path), filepath.Ext(m.Path))
}

// Root is the directory case paths are relative to.
func (m *Manifest) Root() string {
	dir := filepath.Dir(m.Path)
	if m.Suite.Root == "" {
		return dir
	}
	if filepath.IsAbs(m.Suite.Root) {
		return m.Suite.Root
	}
	return filepath.Join(dir, filepath.FromSlash(m.Suite.Root))
}

// Resolve returns the filesystem path of c.
func (m *Manifest) Resolve(c Case) string {
	if filepath.IsAbs(c.Path) {
		return c.Path
	}
	return filepath.Join(m.Root(), filepath.FromSlash(c.Path))
}
