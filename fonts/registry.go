package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Face pairs the regular and bold variants of a family.
type Face struct {
	Regular *Font
	Bold    *Font
}

// Registry resolves design font names to fonts. Registered TrueType faces win
// over the standard-14 fallback.
type Registry struct {
	mu    sync.RWMutex
	fonts map[string]*Font
}

func NewRegistry() *Registry {
	return &Registry{fonts: map[string]*Font{}}
}

func key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// Register parses data and stores it under name. Names ending in "-Bold" or
// " Bold" register the bold variant of the family.
func (r *Registry) Register(name string, data []byte) error {
	f, err := LoadTrueType(name, data)
	if err != nil {
		return fmt.Errorf("register font %q: %w", name, err)
	}
	r.mu.Lock()
	r.fonts[key(name)] = f
	r.mu.Unlock()
	return nil
}

// LoadDir registers every .ttf/.otf file in dir, named after the file stem.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read font dir: %w", err)
	}
	n := 0
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return n, err
		}
		if err := r.Register(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), data); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Names lists the registered font names (normalized).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.fonts))
	for k := range r.fonts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Face resolves a family. A nil registry resolves only standard fonts.
func (r *Registry) Face(family string) Face {
	regular := r.lookup(family)
	if regular == nil {
		return Face{Regular: StandardFamily(family, false), Bold: StandardFamily(family, true)}
	}
	bold := r.lookup(family + "-bold")
	if bold == nil {
		bold = r.lookup(family + "bold")
	}
	if bold == nil {
		bold = regular
	}
	return Face{Regular: regular, Bold: bold}
}

func (r *Registry) lookup(name string) *Font {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fonts[key(name)]
}
