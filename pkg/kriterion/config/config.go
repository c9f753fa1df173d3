// Package config holds the catalog layout configuration: domain labels,
// excluded sheets, header detection and column matching rules.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

// Environment overrides.
const (
	EnvTemplateSheet  = "KRITERION_TEMPLATE_SHEET"
	EnvExcludedSheets = "KRITERION_EXCLUDED_SHEETS" // comma separated, replaces the list
)

// Config describes how a catalog workbook is laid out.
type Config struct {
	// TemplateSheet is the sheet defining the canonical catalog structure.
	TemplateSheet string `yaml:"template_sheet"`

	// ExcludedSheets are structural sheets that are not products.
	ExcludedSheets []string `yaml:"excluded_sheets"`

	// Domains maps column-A marker labels to domain ids; the list order is the output order.
	Domains []parser.DomainRef `yaml:"domains"`

	Header HeaderConfig `yaml:"header"`

	// Columns is an ordered list of logical columns and their header substrings.
	// Rules listed first claim their column first.
	Columns []parser.ColumnRule `yaml:"columns"`

	Evidence EvidenceConfig `yaml:"evidence"`

	// DescLimit is the rune limit of short descriptions.
	DescLimit int `yaml:"desc_limit"`
}

// HeaderConfig configures the header row scan.
type HeaderConfig struct {
	MaxRows            int      `yaml:"max_rows"`
	MaxCols            int      `yaml:"max_cols"`
	KeyTokens          []string `yaml:"key_tokens"`
	ChapterTokens      []string `yaml:"chapter_tokens"`
	SubcriterionTokens []string `yaml:"subcriterion_tokens"`
}

// EvidenceConfig configures evidence link labels.
type EvidenceConfig struct {
	LabelPrefix   string `yaml:"label_prefix"`
	TypeSeparator string `yaml:"type_separator"`
}

// DefaultConfig returns the layout of the password manager criteria catalog.
func DefaultConfig() *Config {
	return &Config{
		TemplateSheet: "Vorlage",
		ExcludedSheets: []string{
			"Kriterienkatalog",
			"Security & Compliance",
			"Datenhoheit, Lieferkette & Gove",
			"Produkt, Betrieb & Adoption_x0009_",
			"Produkt, Betrieb & Adoption\t",
			"Vorlage",
			"Stammdaten",
			"Mastersheet",
		},
		Domains: []parser.DomainRef{
			{Label: "Security & Compliance", ID: "d1", Name: "Sicherheit & Compliance"},
			{Label: "Datenhoheit, Lieferkette & Governance", ID: "d2", Name: "Datenhoheit, Lieferkette & Governance"},
			{Label: "Produkt, Betrieb & Adoption", ID: "d3", Name: "Produkt, Betrieb & Adoption"},
		},
		Header: HeaderConfig{
			MaxRows:            120,
			MaxCols:            80,
			KeyTokens:          []string{"id"},
			ChapterTokens:      []string{"kapitel", "chapter"},
			SubcriterionTokens: []string{"unterkriterium", "sub-criterion", "subcriterion"},
		},
		Columns: []parser.ColumnRule{
			{Column: parser.ColChapter, Needles: []string{"kapitel", "chapter"}},
			{Column: parser.ColSubcriterion, Needles: []string{"unterkriterium", "sub-criterion", "subcriterion"}},
			{Column: parser.ColCriterion, Needles: []string{"kriterium", "criterion"}},
			{Column: parser.ColDescription, Needles: []string{"prüfverfahren", "pruefverfahren", "zusammenfassung", "description", "summary"}},
			{Column: parser.ColScore, Needles: []string{"scoring", "score", "bewertung"}},
			{Column: parser.ColComment, Needles: []string{"kommentar", "kurzbefund", "comment"}},
			{Column: parser.ColEvidenceType, Needles: []string{"evidenz-typ", "evidenz typ", "evidenztyp", "evidence typ", "evidence-type", "evidence type"}},
			{Column: parser.ColEvidence, Needles: []string{"evidenz", "evidence", "quelle", "source", "link"}},
		},
		Evidence: EvidenceConfig{
			LabelPrefix:   "Quelle",
			TypeSeparator: " – ",
		},
		DescLimit: parser.DefaultDescLimit,
	}
}

// Load reads a YAML configuration on top of the defaults. A missing file yields
// the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvTemplateSheet)); v != "" {
		c.TemplateSheet = v
	}
	if v := os.Getenv(EnvExcludedSheets); strings.TrimSpace(v) != "" {
		var sheets []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sheets = append(sheets, s)
			}
		}
		c.ExcludedSheets = sheets
	}
}

// Validate checks that the configuration can drive an export.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TemplateSheet) == "" {
		return fmt.Errorf("config: template_sheet is empty")
	}
	if len(c.Domains) == 0 {
		return fmt.Errorf("config: no domains configured")
	}
	idNames := make(map[string]string)
	for i, d := range c.Domains {
		if strings.TrimSpace(d.Label) == "" || strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("config: domain %d needs label and id", i+1)
		}
		if name, ok := idNames[d.ID]; ok && name != d.Name {
			return fmt.Errorf("config: domain id %q used with names %q and %q", d.ID, name, d.Name)
		}
		idNames[d.ID] = d.Name
	}
	if len(c.Header.KeyTokens) == 0 || len(c.Header.ChapterTokens) == 0 || len(c.Header.SubcriterionTokens) == 0 {
		return fmt.Errorf("config: header needs key, chapter and subcriterion tokens")
	}
	for _, col := range []parser.Column{parser.ColSubcriterion, parser.ColScore} {
		if !c.hasColumn(col) {
			return fmt.Errorf("config: no needles for required column %q", col)
		}
	}
	return nil
}

func (c *Config) hasColumn(col parser.Column) bool {
	for _, r := range c.Columns {
		if r.Column == col && len(r.Needles) > 0 {
			return true
		}
	}
	return false
}

// Layout converts the configuration into the parser layout.
func (c *Config) Layout() parser.Layout {
	b := parser.DefaultBounds()
	if c.Header.MaxRows > 0 {
		b.MaxRows = c.Header.MaxRows
	}
	if c.Header.MaxCols > 0 {
		b.MaxCols = c.Header.MaxCols
	}
	cols := make([]parser.ColumnRule, len(c.Columns))
	copy(cols, c.Columns)
	return parser.Layout{
		Bounds: b,
		Header: parser.HeaderRules{
			KeyTokens:          append([]string(nil), c.Header.KeyTokens...),
			ChapterTokens:      append([]string(nil), c.Header.ChapterTokens...),
			SubcriterionTokens: append([]string(nil), c.Header.SubcriterionTokens...),
		},
		Columns:   cols,
		Domains:   parser.NewDomainTable(c.Domains...),
		DescLimit: c.DescLimit,
	}
}

// EvidenceParser returns the configured evidence parser.
func (c *Config) EvidenceParser() parser.EvidenceParser {
	p := parser.DefaultEvidenceParser()
	if c.Evidence.LabelPrefix != "" {
		p.LabelPrefix = c.Evidence.LabelPrefix
	}
	if c.Evidence.TypeSeparator != "" {
		p.TypeSeparator = c.Evidence.TypeSeparator
	}
	return p
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
