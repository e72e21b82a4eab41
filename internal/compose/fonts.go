package compose

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// FallbackFamily is used whenever a requested family is not registered.
const FallbackFamily = "Go Bold"

var builtinFonts = []struct {
	family string
	ttf    []byte
}{
	{"Go", goregular.TTF},
	{"Go Bold", gobold.TTF},
	{"Go Italic", goitalic.TTF},
	{"Go Bold Italic", gobolditalic.TTF},
	{"Go Medium", gomedium.TTF},
	{"Go Mono", gomono.TTF},
	{"Go Mono Bold", gomonobold.TTF},
	{"Go Smallcaps", gosmallcaps.TTF},
}

type faceKey struct {
	family string
	size   int
}

// Registry maps font family names to parsed TrueType fonts and caches faces
// per size.
type Registry struct {
	mu     sync.Mutex
	fonts  map[string]*truetype.Font
	names  map[string]string
	order  []string
	faces  map[faceKey]font.Face
	warned map[string]bool
}

// NewRegistry returns a registry holding the embedded Go font families.
func NewRegistry() *Registry {
	r := &Registry{
		fonts:  make(map[string]*truetype.Font),
		names:  make(map[string]string),
		faces:  make(map[faceKey]font.Face),
		warned: make(map[string]bool),
	}
	for _, b := range builtinFonts {
		if err := r.Add(b.family, b.ttf); err != nil {
			log.Fatalf("parse font %s: %v", b.family, err)
		}
	}
	return r
}

// Add registers ttf under family, replacing any previous font of that name.
func (r *Registry) Add(family string, ttf []byte) error {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	key := strings.ToLower(strings.TrimSpace(family))
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fonts[key]; !ok {
		r.order = append(r.order, family)
	}
	r.fonts[key] = f
	r.names[key] = family
	for k := range r.faces {
		if k.family == key {
			delete(r.faces, k)
		}
	}
	return nil
}

// LoadDir registers every .ttf file in dir under the family name stored in
// the font, or the file name when the font carries none.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".ttf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return n, err
		}
		family := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if f, err := truetype.Parse(data); err == nil {
			if name := strings.TrimSpace(f.Name(truetype.NameIDFontFamily)); name != "" {
				family = name
			}
		}
		if err := r.Add(family, data); err != nil {
			log.Printf("font %s: %v", e.Name(), err)
			continue
		}
		n++
	}
	return n, nil
}

// Families lists the registered family names, built-in families first.
func (r *Registry) Families() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	custom := out[len(builtinFonts):]
	sort.Strings(custom)
	return out
}

// Resolve returns the registered family name used for family.
func (r *Registry) Resolve(family string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names[r.resolveLocked(family)]
}

func (r *Registry) resolveLocked(family string) string {
	key := strings.ToLower(strings.TrimSpace(family))
	if _, ok := r.fonts[key]; ok {
		return key
	}
	if !r.warned[key] {
		r.warned[key] = true
		log.Printf("font %q not available, using %s", family, FallbackFamily)
	}
	return strings.ToLower(FallbackFamily)
}

// Face returns a face for family at size pixels. Faces are rendered at 72 DPI
// so that points equal pixels.
func (r *Registry) Face(family string, size int) font.Face {
	if size < 1 {
		size = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := faceKey{family: r.resolveLocked(family), size: size}
	if f, ok := r.faces[k]; ok {
		return f
	}
	face := truetype.NewFace(r.fonts[k.family], &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	r.faces[k] = face
	return face
}
