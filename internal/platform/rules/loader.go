// Package rules loads triage rule tables from a JSON file and hot reloads
// them when the file changes. When no file is configured or the file fails
// to parse, the built-in tables stay active.
package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/caresense/caresense/internal/domain/triage"
)

// File is the on-disk schema. It mirrors the compiled lexicon with regex
// patterns carried as source strings.
type File struct {
	Version  string        `json:"version"`
	Entities []EntityEntry `json:"entities"`
	Codes    []CodeEntry   `json:"codes"`

	Predicates    []PredicateEntry `json:"predicates"`
	SystolicBands []BandEntry      `json:"systolic_bands"`
	DiastolicBand []BandEntry      `json:"diastolic_bands"`
	HeartRateBand []BandEntry      `json:"heart_rate_bands"`
	TempBands     []BandEntry      `json:"temperature_bands"`

	HardOverrideTerms    []string `json:"hard_override_terms"`
	HardOverrideEntities []string `json:"hard_override_entities"`

	Routing        map[string]string `json:"routing"`
	RoutingDefault string            `json:"routing_default"`

	EmergencyTerms []string          `json:"emergency_terms"`
	DemoTriggers   map[string]string `json:"demo_triggers"`
	SymptomTerms   []string          `json:"symptom_terms"`
	GreetingTerms  []string          `json:"greeting_terms"`
}

type EntityEntry struct {
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	ColorTag string   `json:"color_tag"`
	Terms    []string `json:"terms"`
	Pattern  string   `json:"pattern,omitempty"`
}

type CodeEntry struct {
	System      string   `json:"system"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Confidence  int      `json:"confidence"`
	Rationale   string   `json:"rationale"`
	RequireAll  []string `json:"require_all,omitempty"`
	RequireAny  []string `json:"require_any,omitempty"`
	ExcludeAny  []string `json:"exclude_any,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

type PredicateEntry struct {
	Name     string   `json:"name"`
	Weight   int      `json:"weight"`
	Detail   string   `json:"detail"`
	Terms    []string `json:"terms,omitempty"`
	Entities []string `json:"entities,omitempty"`
	History  []string `json:"history,omitempty"`
}

type BandEntry struct {
	Name   string  `json:"name"`
	Weight int     `json:"weight"`
	Detail string  `json:"detail"`
	Min    float64 `json:"min"`
}

// Compile turns a parsed rule file into an immutable lexicon. Regex patterns
// and demo tier names are validated here so a bad file is rejected before it
// can replace a working table set.
func Compile(f *File) (*triage.Lexicon, error) {
	lex := &triage.Lexicon{
		Version:              f.Version,
		HardOverrideTerms:    f.HardOverrideTerms,
		HardOverrideEntities: f.HardOverrideEntities,
		Routing:              f.Routing,
		RoutingDefault:       f.RoutingDefault,
		EmergencyTerms:       f.EmergencyTerms,
		SymptomTerms:         f.SymptomTerms,
		GreetingTerms:        f.GreetingTerms,
	}
	if lex.RoutingDefault == "" {
		lex.RoutingDefault = "Internal Medicine"
	}

	for _, e := range f.Entities {
		if e.Label == "" {
			return nil, fmt.Errorf("entity with empty label")
		}
		p := triage.EntityPattern{
			Label:    e.Label,
			Icon:     e.Icon,
			ColorTag: e.ColorTag,
			Terms:    e.Terms,
		}
		if e.Pattern != "" {
			re, err := regexp.Compile(e.Pattern)
			if err != nil {
				return nil, fmt.Errorf("entity %q: bad pattern: %w", e.Label, err)
			}
			p.Pattern = re
		}
		lex.Entities = append(lex.Entities, p)
	}

	for _, c := range f.Codes {
		if c.Code == "" || c.System == "" {
			return nil, fmt.Errorf("code rule missing system or code")
		}
		if c.Confidence < 0 || c.Confidence > 100 {
			return nil, fmt.Errorf("code %s: confidence %d out of range", c.Code, c.Confidence)
		}
		lex.Codes = append(lex.Codes, triage.CodeRule{
			System:      c.System,
			Code:        c.Code,
			Description: c.Description,
			Confidence:  c.Confidence,
			Rationale:   c.Rationale,
			RequireAll:  c.RequireAll,
			RequireAny:  c.RequireAny,
			ExcludeAny:  c.ExcludeAny,
			Specialties: c.Specialties,
			Keywords:    c.Keywords,
		})
	}

	for _, p := range f.Predicates {
		if p.Name == "" {
			return nil, fmt.Errorf("risk predicate with empty name")
		}
		lex.Predicates = append(lex.Predicates, triage.RiskPredicate{
			Name:     p.Name,
			Weight:   p.Weight,
			Detail:   p.Detail,
			Terms:    p.Terms,
			Entities: p.Entities,
			History:  p.History,
		})
	}

	lex.SystolicBands = compileBands(f.SystolicBands)
	lex.DiastolicBand = compileBands(f.DiastolicBand)
	lex.HeartRateBand = compileBands(f.HeartRateBand)
	lex.TempBands = compileBands(f.TempBands)

	if len(f.DemoTriggers) > 0 {
		lex.DemoTriggers = make(map[string]triage.RiskTier, len(f.DemoTriggers))
		for trigger, tier := range f.DemoTriggers {
			t, err := parseTier(tier)
			if err != nil {
				return nil, fmt.Errorf("demo trigger %q: %w", trigger, err)
			}
			lex.DemoTriggers[trigger] = t
		}
	}

	return lex, nil
}

func compileBands(entries []BandEntry) []triage.VitalBand {
	bands := make([]triage.VitalBand, 0, len(entries))
	for _, b := range entries {
		bands = append(bands, triage.VitalBand{
			Name:   b.Name,
			Weight: b.Weight,
			Detail: b.Detail,
			Min:    b.Min,
		})
	}
	return bands
}

func parseTier(s string) (triage.RiskTier, error) {
	switch s {
	case "LOW":
		return triage.TierLow, nil
	case "MEDIUM":
		return triage.TierMedium, nil
	case "HIGH":
		return triage.TierHigh, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Loader serves the active lexicon and swaps it atomically on reload.
// Current() is safe for concurrent callers and never returns nil.
type Loader struct {
	path    string
	current atomic.Pointer[triage.Lexicon]
	logger  zerolog.Logger
}

// NewLoader builds a loader pinned to the built-in tables. If path is empty
// the loader never touches the filesystem.
func NewLoader(path string, logger zerolog.Logger) *Loader {
	l := &Loader{
		path:   path,
		logger: logger.With().Str("component", "rules").Logger(),
	}
	l.current.Store(triage.DefaultLexicon())
	return l
}

// Current returns the active lexicon.
func (l *Loader) Current() *triage.Lexicon {
	return l.current.Load()
}

// Load reads and compiles the configured file and swaps it in. The previous
// tables stay active on any error.
func (l *Loader) Load() error {
	if l.path == "" {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse rules file: %w", err)
	}
	lex, err := Compile(&f)
	if err != nil {
		return fmt.Errorf("compile rules file: %w", err)
	}
	l.current.Store(lex)
	l.logger.Info().Str("path", l.path).Str("version", lex.Version).
		Int("entities", len(lex.Entities)).Int("codes", len(lex.Codes)).
		Msg("rule tables loaded")
	return nil
}

// Watch reloads the rule file whenever it is written. Editors that replace
// the file (rename over it) are handled by watching the parent directory.
// Blocks until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context) error {
	if l.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(l.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(l.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := l.Load(); err != nil {
				l.logger.Warn().Err(err).Msg("rule reload failed, previous tables stay active")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn().Err(err).Msg("rules watcher error")
		}
	}
}
