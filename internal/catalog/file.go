package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
)

// Document is the on-disk catalog layout.
type Document struct {
	Items []models.CatalogItem `json:"items" yaml:"items"`
}

// FileSource reads a YAML or JSON catalog document. The file is read on every
// snapshot so edits are picked up without a restart.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path. Files ending in .json are decoded
// as JSON; everything else as YAML.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Snapshot reads and validates the file.
func (f *FileSource) Snapshot(_ context.Context) (Snapshot, error) {
	items, err := ReadFile(f.path)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(items)
}

// ReadFile decodes the catalog document at path without validating it.
func ReadFile(path string) ([]models.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	items, err := Decode(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}
	return items, nil
}

// Decode parses a catalog document.
func Decode(data []byte, isJSON bool) ([]models.CatalogItem, error) {
	var doc Document
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Items, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}
