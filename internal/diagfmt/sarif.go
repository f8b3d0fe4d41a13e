package diagfmt

import (
	"encoding/json"
	"io"

	"schedlint/internal/diag"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRule struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ShortDescription sarifText `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID     string            `json:"ruleId"`
	RuleIndex  int               `json:"ruleIndex"`
	Level      string            `json:"level"`
	Message    sarifText         `json:"message"`
	Locations  []sarifLocation   `json:"locations,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysical `json:"physicalLocation,omitempty"`
	LogicalLocations []sarifLogical `json:"logicalLocations,omitempty"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifLogical struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func sarifLevel(d diag.Diagnostic, cat diag.Category) string {
	switch {
	case cat == diag.CategoryConflict:
		return "error"
	case d.Severity == diag.SevInfo:
		return "note"
	}
	return "warning"
}

// Sarif форматирует отчёт в SARIF (v2.1.0). Rule ids are diagnostic codes;
// results keep engine order.
func Sarif(w io.Writer, r Report, meta SarifRunMeta) error {
	conflict := make(map[int]bool, len(r.Conflicts))
	// Categorize сохраняет порядок, поэтому сопоставляем по ходу
	ci := 0
	for i, d := range r.Diagnostics {
		if ci < len(r.Conflicts) && sameDiagnostic(r.Conflicts[ci], d) {
			conflict[i] = true
			ci++
		}
	}

	rules := make([]sarifRule, 0)
	ruleIndex := make(map[diag.Code]int)
	results := make([]sarifResult, 0, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		idx, ok := ruleIndex[d.Code]
		if !ok {
			idx = len(rules)
			ruleIndex[d.Code] = idx
			rules = append(rules, sarifRule{
				ID:               d.Code.ID(),
				Name:             d.Code.Title(),
				ShortDescription: sarifText{Text: d.Code.Title()},
			})
		}
		cat := diag.CategoryWarning
		if conflict[i] {
			cat = diag.CategoryConflict
		}
		res := sarifResult{
			RuleID:     d.Code.ID(),
			RuleIndex:  idx,
			Level:      sarifLevel(d, cat),
			Message:    sarifText{Text: d.Message},
			Properties: map[string]string{"category": cat.String()},
		}
		var loc sarifLocation
		if r.Source != "" {
			loc.PhysicalLocation = &sarifPhysical{ArtifactLocation: sarifArtifact{URI: r.Source}}
		}
		if !d.Location.IsZero() {
			loc.LogicalLocations = []sarifLogical{{Name: d.Location.String(), Kind: "resource"}}
		}
		if loc.PhysicalLocation != nil || loc.LogicalLocations != nil {
			res.Locations = []sarifLocation{loc}
		}
		results = append(results, res)
	}

	name := meta.ToolName
	if name == "" {
		name = "schedlint"
	}
	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: name, Version: meta.ToolVersion, Rules: rules}},
			Results: results,
		}},
	}
	if len(meta.InvocationArgs) > 0 {
		log.Runs[0].Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func sameDiagnostic(a, b diag.Diagnostic) bool {
	return a.Code == b.Code && a.Severity == b.Severity && a.Message == b.Message && a.Location == b.Location
}
