// Package output serializes export results: JSON fixtures, a text listing and SQLite.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
)

// Fixture file names written by WriteFixtures.
const (
	TreeFile     = "tree.json"
	ProductsFile = "products.json"
	ScoresFile   = "scores.json"
)

// ToJSON encodes v without HTML escaping, so "&" in labels stays readable.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFixtures writes tree.json, products.json and scores.json into dir
// and returns the written paths.
func WriteFixtures(dir string, cat *models.Catalog, pretty bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	files := []struct {
		name string
		v    any
	}{
		{TreeFile, cat.Tree},
		{ProductsFile, cat.Products},
		{ScoresFile, cat.Scores},
	}

	var paths []string
	for _, file := range files {
		data, err := ToJSON(file.v, pretty)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", file.name, err)
		}
		path := filepath.Join(dir, file.name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReadTree loads a tree.json fixture.
func ReadTree(path string) (models.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Tree{}, err
	}
	var tree models.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return models.Tree{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return tree, nil
}

// Summary returns the one-line export summary.
func Summary(cat *models.Catalog) string {
	return fmt.Sprintf("products: %d | subcriteria (template): %d | score rows: %d | warnings: %d",
		len(cat.Products), len(cat.Tree.SubcriterionIDs()), len(cat.Scores), len(cat.Warnings))
}
