package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogRawData []byte

// catalogFile is the top-level structure of a catalog YAML document.
type catalogFile struct {
	Entries []Entry `yaml:"entries"`
}

// Compile-time interface guards.
var (
	_ Source = (*Catalog)(nil)
	_ Source = (*FileSource)(nil)
)

// Catalog provides lazy-loaded access to the embedded service catalog.
type Catalog struct {
	once    sync.Once
	entries []Entry
	skipped int
	err     error
}

// NewCatalog creates a new Catalog that will parse the embedded YAML on first access.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Entries returns a copy of all valid catalog entries.
func (c *Catalog) Entries(_ context.Context) ([]Entry, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]Entry, len(c.entries))
	copy(cp, c.entries)
	return cp, nil
}

// Skipped returns how many malformed entries were dropped at load.
func (c *Catalog) Skipped() int {
	c.once.Do(c.load)
	return c.skipped
}

// load parses the embedded YAML catalog data.
func (c *Catalog) load() {
	c.entries, c.skipped, c.err = Parse(catalogRawData)
}

// Parse decodes a catalog YAML document and drops malformed entries.
func Parse(data []byte) ([]Entry, int, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, 0, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	entries, skipped := Sanitize(f.Entries)
	if len(entries) == 0 {
		return nil, skipped, ErrNoEntries
	}
	return entries, skipped, nil
}

// Marshal encodes entries in the catalog YAML format.
func Marshal(entries []Entry) ([]byte, error) {
	out, err := yaml.Marshal(catalogFile{Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("catalog: encode yaml: %w", err)
	}
	return out, nil
}

// FileSource reads a catalog YAML file from disk on every call.
type FileSource struct {
	path string
}

// NewFileSource returns a Source backed by the YAML file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Entries reads and parses the file.
func (s *FileSource) Entries(_ context.Context) ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", s.path, err)
	}
	entries, _, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %q: %w", s.path, err)
	}
	return entries, nil
}
