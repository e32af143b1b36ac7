package prompts

import (
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"stockbrief/model"

	"gopkg.in/yaml.v3"
)

// placeholderPattern matches {var} references in template strings.
// Allows alphanumeric characters, hyphens, and underscores.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_-]+)\}`)

// ExchangeContext supplies the per-market template variables. Empty fields
// fall back to the _default entry at render time.
type ExchangeContext struct {
	DataSource    string `yaml:"data_source"`
	Currency      string `yaml:"currency"`
	LegalFocus    string `yaml:"legal_focus"`
	ExtraAnalysis string `yaml:"extra_analysis"`
}

type sectionTemplate struct {
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

type document struct {
	Global struct {
		SystemRole  string `yaml:"system_role"`
		FormatRules string `yaml:"format_rules"`
	} `yaml:"global"`
	Sections        map[string]sectionTemplate `yaml:"sections"`
	ExchangeContext map[string]ExchangeContext `yaml:"exchange_context"`
}

// Rendered is a ready-to-send prompt for one section.
type Rendered struct {
	SectionName string
	SystemRole  string
	Prompt      string
}

// Manager loads prompts.yaml and renders section prompts. The file is
// re-read when its mtime changes, so prompt edits apply without a restart.
type Manager struct {
	path string

	mu      sync.RWMutex
	doc     *document
	modTime time.Time
}

// NewManager loads the template file and validates that every section the
// system knows is defined.
func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	info, err := os.Stat(m.path)
	if err != nil {
		return fmt.Errorf("prompts file: %w", err)
	}

	raw, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("prompts file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", m.path, err)
	}

	for _, section := range model.AllSections() {
		tpl, ok := doc.Sections[section.String()]
		if !ok || tpl.Prompt == "" {
			return fmt.Errorf("prompts file missing section %q", section)
		}
	}
	if _, ok := doc.ExchangeContext["_default"]; !ok {
		return fmt.Errorf("prompts file missing exchange_context._default")
	}

	m.mu.Lock()
	m.doc = &doc
	m.modTime = info.ModTime()
	m.mu.Unlock()
	return nil
}

// checkReload re-loads the file when its mtime moved. A reload failure keeps
// the previous document active.
func (m *Manager) checkReload() {
	info, err := os.Stat(m.path)
	if err != nil {
		return
	}
	m.mu.RLock()
	stale := info.ModTime().After(m.modTime)
	m.mu.RUnlock()
	if stale {
		_ = m.load()
	}
}

// SectionNames lists {key, name} pairs in display order for the UI.
func (m *Manager) SectionNames() []model.SectionName {
	m.checkReload()
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]model.SectionName, 0, len(model.AllSections()))
	for _, s := range model.AllSections() {
		names = append(names, model.SectionName{
			Key:  s.String(),
			Name: m.doc.Sections[s.String()].Name,
		})
	}
	return names
}

// Render builds the full prompt for a section. vars are the per-request
// values (ticker, company_name, ...); the exchange context for the given
// exchange is merged over _default and exposed as template variables too.
func (m *Manager) Render(section model.Section, exchange string, vars map[string]string) (*Rendered, error) {
	m.checkReload()
	m.mu.RLock()
	defer m.mu.RUnlock()

	tpl, ok := m.doc.Sections[section.String()]
	if !ok {
		return nil, fmt.Errorf("unknown section %q", section)
	}

	ectx := m.exchangeContext(exchange)
	merged := make(map[string]string, len(vars)+4)
	for k, v := range vars {
		merged[k] = v
	}
	merged["data_source"] = ectx.DataSource
	merged["currency"] = ectx.Currency
	merged["legal_focus"] = ectx.LegalFocus
	merged["extra_analysis"] = ectx.ExtraAnalysis

	body := substitute(tpl.Prompt, merged)
	if m.doc.Global.FormatRules != "" {
		body = body + "\n\n" + substitute(m.doc.Global.FormatRules, merged)
	}

	return &Rendered{
		SectionName: tpl.Name,
		SystemRole:  substitute(m.doc.Global.SystemRole, merged),
		Prompt:      body,
	}, nil
}

// exchangeContext merges the named exchange entry over _default; callers
// hold at least the read lock.
func (m *Manager) exchangeContext(exchange string) ExchangeContext {
	base := m.doc.ExchangeContext["_default"]
	over, ok := m.doc.ExchangeContext[exchange]
	if !ok {
		return base
	}
	if over.DataSource != "" {
		base.DataSource = over.DataSource
	}
	if over.Currency != "" {
		base.Currency = over.Currency
	}
	if over.LegalFocus != "" {
		base.LegalFocus = over.LegalFocus
	}
	if over.ExtraAnalysis != "" {
		base.ExtraAnalysis = over.ExtraAnalysis
	}
	return base
}

// substitute replaces {var} references from vars, leaving unknown references
// unchanged so template mistakes stay visible in the output.
func substitute(input string, vars map[string]string) string {
	if input == "" {
		return input
	}
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[1 : len(match)-1]
		if value, exists := vars[name]; exists {
			return value
		}
		return match
	})
}
