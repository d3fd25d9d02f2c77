// Package prompts loads the provider prompt templates from an embedded
// YAML file and renders them for the generation and refinement workflows.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed config/prompts.yaml
var configFiles embed.FS

// promptConfig mirrors the YAML layout.
type promptConfig struct {
	Generation struct {
		System string `yaml:"system"`
		Page   string `yaml:"page"`
	} `yaml:"generation"`
	Refinement struct {
		System string `yaml:"system"`
		User   string `yaml:"user"`
	} `yaml:"refinement"`
	Regeneration struct {
		User string `yaml:"user"`
	} `yaml:"regeneration"`
	Headings struct {
		Single string `yaml:"single"`
		First  string `yaml:"first"`
		Middle string `yaml:"middle"`
		Last   string `yaml:"last"`
	} `yaml:"headings"`
}

// PageData is the rendering context for one generated page.
type PageData struct {
	Topic   string
	Theme   string
	Heading string
	Page    int // 1-based page number
	Pages   int
}

// RefineData is the rendering context for a refinement instruction.
type RefineData struct {
	Prompt string
	Text   string
}

// Registry holds the parsed prompt templates.
type Registry struct {
	config         promptConfig
	pageTmpl       *template.Template
	refineTmpl     *template.Template
	regenTmpl      *template.Template
	midHeadingTmpl *template.Template
}

// NewRegistry loads and parses the embedded prompt file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/prompts.yaml")
	if err != nil {
		return nil, fmt.Errorf("read prompts config: %w", err)
	}

	r := &Registry{}
	if err := yaml.Unmarshal(data, &r.config); err != nil {
		return nil, fmt.Errorf("unmarshal prompts config: %w", err)
	}

	if r.pageTmpl, err = template.New("page").Parse(r.config.Generation.Page); err != nil {
		return nil, fmt.Errorf("parse generation.page template: %w", err)
	}
	if r.refineTmpl, err = template.New("refine").Parse(r.config.Refinement.User); err != nil {
		return nil, fmt.Errorf("parse refinement.user template: %w", err)
	}
	if r.regenTmpl, err = template.New("regen").Parse(r.config.Regeneration.User); err != nil {
		return nil, fmt.Errorf("parse regeneration.user template: %w", err)
	}
	if r.midHeadingTmpl, err = template.New("heading").Parse(r.config.Headings.Middle); err != nil {
		return nil, fmt.Errorf("parse headings.middle template: %w", err)
	}

	return r, nil
}

// GenerationSystem returns the system prompt for page generation.
func (r *Registry) GenerationSystem() string {
	return r.config.Generation.System
}

// RefinementSystem returns the system prompt for refinement calls.
func (r *Registry) RefinementSystem() string {
	return r.config.Refinement.System
}

// RenderPage renders the per-page generation instruction.
func (r *Registry) RenderPage(data PageData) (string, error) {
	return render(r.pageTmpl, data)
}

// RenderRefine renders the refinement instruction around the client's
// prompt and current text.
func (r *Registry) RenderRefine(data RefineData) (string, error) {
	return render(r.refineTmpl, data)
}

// RenderRegenerate renders the implicit fresh-content instruction.
func (r *Registry) RenderRegenerate(data PageData) (string, error) {
	return render(r.regenTmpl, data)
}

// Heading derives a section heading from the page index. Single-page
// documents get one overview heading; multi-page documents open with an
// introduction, close with a conclusion once there are at least three
// pages, and number everything in between.
func (r *Registry) Heading(index, total int) string {
	switch {
	case total <= 1:
		return r.config.Headings.Single
	case index == 0:
		return r.config.Headings.First
	case index == total-1 && total >= 3:
		return r.config.Headings.Last
	default:
		h, err := render(r.midHeadingTmpl, PageData{Page: index + 1})
		if err != nil {
			return fmt.Sprintf("Part %d", index+1)
		}
		return h
	}
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(b.String()), nil
}
