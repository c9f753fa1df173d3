package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Vorlage", cfg.TemplateSheet)
	assert.Len(t, cfg.Domains, 3)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kriterion.yaml")
	data := `template_sheet: Template
domains:
  - label: Security
    id: sec
    name: Security
excluded_sheets: [Index]
desc_limit: 80
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Template", cfg.TemplateSheet)
	assert.Equal(t, []parser.DomainRef{{Label: "Security", ID: "sec", Name: "Security"}}, cfg.Domains)
	assert.Equal(t, []string{"Index"}, cfg.ExcludedSheets)
	assert.Equal(t, 80, cfg.DescLimit)
	// untouched sections keep their defaults
	assert.Equal(t, DefaultConfig().Columns, cfg.Columns)
	assert.Equal(t, "Quelle", cfg.Evidence.LabelPrefix)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domains: {not: [a list"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvTemplateSheet, " Template ")
	t.Setenv(EnvExcludedSheets, "Index, Stammdaten,,")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Template", cfg.TemplateSheet)
	assert.Equal(t, []string{"Index", "Stammdaten"}, cfg.ExcludedSheets)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty template", func(c *Config) { c.TemplateSheet = " " }, "template_sheet"},
		{"no domains", func(c *Config) { c.Domains = nil }, "no domains"},
		{"domain without id", func(c *Config) { c.Domains[0].ID = "" }, "needs label and id"},
		{"conflicting names", func(c *Config) {
			c.Domains = append(c.Domains, parser.DomainRef{Label: "Other", ID: "d1", Name: "Other"})
		}, `domain id "d1"`},
		{"no header tokens", func(c *Config) { c.Header.KeyTokens = nil }, "header needs"},
		{"no score column", func(c *Config) {
			var cols []parser.ColumnRule
			for _, r := range c.Columns {
				if r.Column != parser.ColScore {
					cols = append(cols, r)
				}
			}
			c.Columns = cols
		}, `"score"`},
	}

	require.NoError(t, DefaultConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kriterion.yaml")
	cfg := DefaultConfig()
	cfg.TemplateSheet = "Template"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("Load(Save()) mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Header.MaxRows = 10

	l := cfg.Layout()
	assert.Equal(t, 10, l.Bounds.MaxRows)
	assert.Equal(t, 80, l.Bounds.MaxCols)
	assert.Equal(t, []string{"d1", "d2", "d3"}, l.Domains.Order())

	// the layout does not share slices with the config
	l.Columns[0].Column = "changed"
	assert.Equal(t, parser.ColChapter, cfg.Columns[0].Column)
}

func TestEvidenceParser(t *testing.T) {
	p := DefaultConfig().EvidenceParser()
	assert.Equal(t, "Quelle", p.LabelPrefix)

	cfg := DefaultConfig()
	cfg.Evidence = EvidenceConfig{}
	assert.Equal(t, parser.DefaultEvidenceParser(), cfg.EvidenceParser())
}
