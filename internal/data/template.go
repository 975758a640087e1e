package data

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/thn"
	"gopkg.in/yaml.v3"
)

// HardpointEntry is a named attachment point. Orient holds the rows of a
// 3x3 rotation and may be omitted.
type HardpointEntry struct {
	Name   string       `yaml:"name"`
	Pos    [3]float64   `yaml:"pos"`
	Orient [][3]float64 `yaml:"orient"`
}

type AnimationEntry struct {
	Name   string  `yaml:"name"`
	Length float64 `yaml:"length"`
	Loop   bool    `yaml:"loop"`
}

// ModelEntry defines one solar, ship or prop model.
type ModelEntry struct {
	Name       string           `yaml:"name"`
	Radius     float64          `yaml:"radius"`
	Hardpoints []HardpointEntry `yaml:"hardpoints"`
	Parts      []HardpointEntry `yaml:"parts"`
	Animations []AnimationEntry `yaml:"animations"`
}

// EffectEntry defines one particle effect. Zero duration plays forever.
type EffectEntry struct {
	Name     string  `yaml:"name"`
	Duration float64 `yaml:"duration"`
	Loop     bool    `yaml:"loop"`
}

type catalogFile struct {
	Solars  []ModelEntry  `yaml:"solars"`
	Ships   []ModelEntry  `yaml:"ships"`
	Props   []ModelEntry  `yaml:"props"`
	Effects []EffectEntry `yaml:"effects"`
}

// TemplateCatalog resolves the model and effect templates Thn entities
// name. Lookups ignore case.
type TemplateCatalog struct {
	models  map[string]map[string]*thn.ModelTemplate
	effects map[string]*thn.EffectTemplate
}

// LoadTemplateCatalog loads templates.yaml.
func LoadTemplateCatalog(path string) (*TemplateCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}

	c := &TemplateCatalog{
		models:  make(map[string]map[string]*thn.ModelTemplate, 3),
		effects: make(map[string]*thn.EffectTemplate, len(f.Effects)),
	}
	for _, group := range []struct {
		category string
		entries  []ModelEntry
	}{
		{thn.CategorySolar, f.Solars},
		{thn.CategorySpaceship, f.Ships},
		{thn.CategoryProp, f.Props},
	} {
		byName := make(map[string]*thn.ModelTemplate, len(group.entries))
		for i := range group.entries {
			m, err := buildModel(group.category, &group.entries[i])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			key := strings.ToLower(m.Name)
			if _, dup := byName[key]; dup {
				return nil, fmt.Errorf("%s: duplicate %s %q", path, group.category, m.Name)
			}
			byName[key] = m
		}
		c.models[group.category] = byName
	}
	for i := range f.Effects {
		e := &f.Effects[i]
		if e.Name == "" {
			return nil, fmt.Errorf("%s: effect %d has no name", path, i)
		}
		key := strings.ToLower(e.Name)
		if _, dup := c.effects[key]; dup {
			return nil, fmt.Errorf("%s: duplicate effect %q", path, e.Name)
		}
		c.effects[key] = &thn.EffectTemplate{Name: e.Name, Duration: e.Duration, Loop: e.Loop}
	}
	return c, nil
}

func buildModel(category string, e *ModelEntry) (*thn.ModelTemplate, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("%s without a name", category)
	}
	m := &thn.ModelTemplate{
		Name:       e.Name,
		Category:   category,
		Radius:     e.Radius,
		Hardpoints: make(map[string]thn.Hardpoint, len(e.Hardpoints)),
		Parts:      make(map[string]thn.Hardpoint, len(e.Parts)),
		Clips:      make(map[string]thn.Clip, len(e.Animations)),
	}
	for _, hp := range e.Hardpoints {
		h, err := buildHardpoint(hp)
		if err != nil {
			return nil, fmt.Errorf("%s %q: hardpoint: %w", category, e.Name, err)
		}
		m.Hardpoints[strings.ToLower(h.Name)] = h
	}
	for _, p := range e.Parts {
		h, err := buildHardpoint(p)
		if err != nil {
			return nil, fmt.Errorf("%s %q: part: %w", category, e.Name, err)
		}
		m.Parts[strings.ToLower(h.Name)] = h
	}
	for _, a := range e.Animations {
		if a.Name == "" {
			return nil, fmt.Errorf("%s %q: animation without a name", category, e.Name)
		}
		m.Clips[strings.ToLower(a.Name)] = thn.Clip{Name: a.Name, Length: a.Length, Loop: a.Loop}
	}
	return m, nil
}

func buildHardpoint(e HardpointEntry) (thn.Hardpoint, error) {
	if e.Name == "" {
		return thn.Hardpoint{}, fmt.Errorf("missing name")
	}
	rot := mgl64.Ident4()
	switch len(e.Orient) {
	case 0:
	case 3:
		r := e.Orient
		rot = mgl64.Mat3FromRows(r[0], r[1], r[2]).Mat4()
	default:
		return thn.Hardpoint{}, fmt.Errorf("%s: orient needs 3 rows, got %d", e.Name, len(e.Orient))
	}
	pos := mgl64.Translate3D(e.Pos[0], e.Pos[1], e.Pos[2])
	return thn.Hardpoint{Name: e.Name, Transform: pos.Mul4(rot)}, nil
}

// Model returns the template of the given mesh category and name.
func (c *TemplateCatalog) Model(category, name string) (*thn.ModelTemplate, bool) {
	m, ok := c.models[strings.ToLower(category)][strings.ToLower(name)]
	return m, ok
}

// Effect returns the particle effect template with the given name.
func (c *TemplateCatalog) Effect(name string) (*thn.EffectTemplate, bool) {
	e, ok := c.effects[strings.ToLower(name)]
	return e, ok
}

// Count returns the total number of templates loaded.
func (c *TemplateCatalog) Count() int {
	n := len(c.effects)
	for _, byName := range c.models {
		n += len(byName)
	}
	return n
}

var _ thn.TemplateSource = (*TemplateCatalog)(nil)
