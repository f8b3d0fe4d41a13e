// Package settings loads and saves the timetable settings document. Only the
// four rule flags feed the analysis engine; the rest of the document (term
// calendar, pair layout, buildings) is carried for round-tripping and display.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"schedlint/internal/analysis"
	"schedlint/internal/diag"
)

const (
	DefaultWeeks         = 16
	DefaultPairsPerDay   = 3
	DefaultPairDuration  = 90
	DefaultBreakDuration = 10
)

// FileNames are searched by Find, in order, in every directory.
var FileNames = []string{"schedlint.json", "schedlint.toml", "schedlint.yaml", "schedlint.yml", "settings.json"}

// Break is the pause after pair PairIndex, in minutes.
type Break struct {
	PairIndex     int `json:"PairIndex" toml:"pair_index" yaml:"pair_index"`
	BreakDuration int `json:"BreakDuration" toml:"break_duration" yaml:"break_duration"`
}

// Building is a campus building sessions can be placed in.
type Building struct {
	Name string `json:"Name" toml:"name" yaml:"name"`
}

// Document is the settings file. Dates are kept as written.
// A nil flag means "not set" and reads as true.
type Document struct {
	SemesterStart      string     `json:"SemesterStart,omitempty" toml:"semester_start,omitempty" yaml:"semester_start,omitempty"`
	Weeks              int        `json:"Weeks" toml:"weeks" yaml:"weeks"`
	Holidays           []string   `json:"Holidays" toml:"holidays" yaml:"holidays"`
	PairsPerDay        int        `json:"PairsPerDay" toml:"pairs_per_day" yaml:"pairs_per_day"`
	PairDuration       int        `json:"PairDuration" toml:"pair_duration" yaml:"pair_duration"`
	BreaksBetweenPairs []Break    `json:"BreaksBetweenPairs" toml:"breaks_between_pairs" yaml:"breaks_between_pairs"`
	IsSixDayWeek       bool       `json:"IsSixDayWeek" toml:"is_six_day_week" yaml:"is_six_day_week"`
	Buildings          []Building `json:"Buildings" toml:"buildings" yaml:"buildings"`

	ShowWindows             *bool `json:"ShowWindows,omitempty" toml:"show_windows,omitempty" yaml:"show_windows,omitempty"`
	HighlightEveningClasses *bool `json:"HighlightEveningClasses,omitempty" toml:"highlight_evening_classes,omitempty" yaml:"highlight_evening_classes,omitempty"`
	FlagOver4Pairs          *bool `json:"FlagOver4Pairs,omitempty" toml:"flag_over_4_pairs,omitempty" yaml:"flag_over_4_pairs,omitempty"`
	FlagOver6Pairs          *bool `json:"FlagOver6Pairs,omitempty" toml:"flag_over_6_pairs,omitempty" yaml:"flag_over_6_pairs,omitempty"`
}

func flag(b *bool) bool {
	return b == nil || *b
}

func boolPtr(b bool) *bool { return &b }

// Default returns the document a fresh installation starts with.
func Default() *Document {
	doc := &Document{
		Weeks:                   DefaultWeeks,
		Holidays:                []string{},
		PairsPerDay:             DefaultPairsPerDay,
		PairDuration:            DefaultPairDuration,
		Buildings:               []Building{},
		ShowWindows:             boolPtr(true),
		HighlightEveningClasses: boolPtr(true),
		FlagOver4Pairs:          boolPtr(true),
		FlagOver6Pairs:          boolPtr(true),
	}
	doc.NormalizeBreaks()
	return doc
}

// Config extracts the rule flags.
func (d *Document) Config() analysis.Config {
	if d == nil {
		return analysis.DefaultConfig()
	}
	return analysis.Config{
		ShowWindows:             flag(d.ShowWindows),
		HighlightEveningClasses: flag(d.HighlightEveningClasses),
		FlagOver4Pairs:          flag(d.FlagOver4Pairs),
		FlagOver6Pairs:          flag(d.FlagOver6Pairs),
	}
}

// SetConfig stores cfg as explicit flags.
func (d *Document) SetConfig(cfg analysis.Config) {
	d.ShowWindows = boolPtr(cfg.ShowWindows)
	d.HighlightEveningClasses = boolPtr(cfg.HighlightEveningClasses)
	d.FlagOver4Pairs = boolPtr(cfg.FlagOver4Pairs)
	d.FlagOver6Pairs = boolPtr(cfg.FlagOver6Pairs)
}

// NormalizeBreaks keeps one break after each pair but the last, indexed from
// 1. Durations of existing breaks with the same index are kept; new ones get
// DefaultBreakDuration. A PairsPerDay below 1 leaves the list untouched.
func (d *Document) NormalizeBreaks() {
	if d.PairsPerDay < 1 {
		return
	}
	breaks := make([]Break, 0, d.PairsPerDay-1)
	for i := 1; i <= d.PairsPerDay-1; i++ {
		b := Break{PairIndex: i, BreakDuration: DefaultBreakDuration}
		for _, old := range d.BreaksBetweenPairs {
			if old.PairIndex == i {
				b.BreakDuration = old.BreakDuration
				break
			}
		}
		breaks = append(breaks, b)
	}
	d.BreaksBetweenPairs = breaks
}

type format uint8

const (
	formatJSON format = iota
	formatTOML
	formatYAML
)

func formatFor(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJSON
}

// Read parses the document at path; the format follows the extension
// (.toml, .yaml/.yml, anything else is JSON).
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	empty := false
	switch formatFor(path) {
	case formatTOML:
		md, err := toml.Decode(string(data), doc)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		empty = len(md.Keys()) == 0
	case formatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
		empty = isEmptyYAML(&node)
		if !empty {
			if err := node.Decode(doc); err != nil {
				return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
			}
		}
	default:
		trimmed := bytes.TrimSpace(data)
		empty = len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
		if !empty {
			if err := json.Unmarshal(data, doc); err != nil {
				return nil, fmt.Errorf("%s: failed to parse JSON: %w", path, err)
			}
		}
	}
	// пустой документ считаем повреждённым в любом формате
	if empty {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}
	return doc, nil
}

// ErrEmptyDocument is returned by Read for a file with no settings in it:
// blank, comments only, or a JSON/YAML null.
var ErrEmptyDocument = errors.New("empty settings document")

func isEmptyYAML(node *yaml.Node) bool {
	if node.Kind == 0 {
		return true
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return true
		}
		node = node.Content[0]
	}
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

// Load returns the rule configuration stored at path together with the full
// document. It never fails: a missing file (or empty path) yields the
// defaults silently, and an unreadable or malformed file yields the defaults
// plus one CfgError diagnostic.
func Load(path string, r diag.Reporter) (analysis.Config, *Document) {
	if strings.TrimSpace(path) == "" {
		return analysis.DefaultConfig(), Default()
	}
	doc, err := Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return analysis.DefaultConfig(), Default()
		}
		if r != nil {
			diag.ReportError(r, diag.CfgError, diag.Location{}, "settings load error: "+err.Error()).Emit()
		}
		return analysis.DefaultConfig(), Default()
	}
	return doc.Config(), doc
}

// Encode renders doc in the format implied by path.
func Encode(path string, doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	switch formatFor(path) {
	case formatTOML:
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, err
		}
	case formatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Save writes doc to path, creating parent directories.
func Save(path string, doc *Document) error {
	data, err := Encode(path, doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Find walks from startDir up to the filesystem root and returns the first
// settings file it meets.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
