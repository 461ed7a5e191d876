package champion

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var embeddedRegistry []byte

// builtin is decoded once from the embedded document and never written again.
var builtin = mustLoad(embeddedRegistry) //nolint:gochecknoglobals // read-only registry shared by all builds

// Resolver maps a champion name to its static profile. Implementations
// must be total: unknown names resolve to a default rather than failing.
type Resolver interface {
	Resolve(name string) Profile
}

// Registry is an immutable name -> profile lookup table.
type Registry struct {
	profiles map[string]Profile
}

// Builtin returns the registry compiled into the binary.
func Builtin() *Registry { return builtin }

// Resolve returns the profile for name, or Default() when name is unknown.
// Lookups ignore case, spaces and punctuation.
func (r *Registry) Resolve(name string) Profile {
	if r == nil {
		return Default()
	}
	if p, ok := r.profiles[normalize(name)]; ok {
		return p.clone()
	}
	return Default()
}

// Known reports whether name has an explicit entry.
func (r *Registry) Known(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.profiles[normalize(name)]
	return ok
}

// Len returns the number of registered champions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.profiles)
}

// Resolve looks name up in the builtin registry.
func Resolve(name string) Profile { return builtin.Resolve(name) }

type registryDoc struct {
	Champions map[string]profileDoc `yaml:"champions"`
}

type profileDoc struct {
	Role       string   `yaml:"role"`
	Range      string   `yaml:"range"`
	Resource   string   `yaml:"resource"`
	Damage     string   `yaml:"damage"`
	Complexity int      `yaml:"complexity"`
	Tags       []string `yaml:"tags"`
	Pattern    string   `yaml:"pattern"`
}

// LoadRegistry decodes a YAML registry document.
func LoadRegistry(r io.Reader) (*Registry, error) {
	var doc registryDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegistry, err)
	}
	reg := &Registry{profiles: make(map[string]Profile, len(doc.Champions))}
	for name, d := range doc.Champions {
		p, err := d.profile()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRegistry, name, err)
		}
		key := normalize(name)
		if key == "" {
			return nil, fmt.Errorf("%w: empty champion name", ErrInvalidRegistry)
		}
		reg.profiles[key] = p
	}
	return reg, nil
}

// LoadRegistryFile decodes the YAML registry stored at path.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadRegistry(f)
}

func mustLoad(b []byte) *Registry {
	reg, err := LoadRegistry(strings.NewReader(string(b)))
	if err != nil {
		panic(err)
	}
	return reg
}

func (d profileDoc) profile() (Profile, error) {
	p := Profile{
		Role:        Role(d.Role),
		Range:       Range(d.Range),
		Resource:    Resource(d.Resource),
		DamageType:  DamageType(d.Damage),
		Complexity:  d.Complexity,
		Tags:        slices.Clone(d.Tags),
		PlayPattern: PlayPattern(d.Pattern),
	}
	switch {
	case !slices.Contains(Roles, p.Role):
		return Profile{}, fmt.Errorf("unknown role %q", d.Role)
	case p.Range != RangeMelee && p.Range != RangeRanged:
		return Profile{}, fmt.Errorf("unknown range %q", d.Range)
	case !slices.Contains(Resources, p.Resource):
		return Profile{}, fmt.Errorf("unknown resource %q", d.Resource)
	case !slices.Contains(DamageTypes, p.DamageType):
		return Profile{}, fmt.Errorf("unknown damage type %q", d.Damage)
	case !slices.Contains(PlayPatterns, p.PlayPattern):
		return Profile{}, fmt.Errorf("unknown play pattern %q", d.Pattern)
	case p.Complexity < MinComplexity || p.Complexity > MaxComplexity:
		return Profile{}, fmt.Errorf("complexity %d out of range", d.Complexity)
	}
	return p, nil
}

// normalize folds a display name to a lookup key: lowercase letters and digits only.
func normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
