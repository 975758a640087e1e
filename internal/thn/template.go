package thn

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh categories a compound entity may name.
const (
	CategorySolar     = "solar"
	CategorySpaceship = "spaceship"
	CategoryProp      = "prop"
)

// Hardpoint is a named attachment point, relative to its model's root.
type Hardpoint struct {
	Name      string
	Transform mgl64.Mat4
}

// Clip is a named animation clip of a model.
type Clip struct {
	Name   string
	Length float64
	Loop   bool
}

// ModelTemplate is the resolved renderable a compound entity refers to.
// Map keys are lower case.
type ModelTemplate struct {
	Name       string
	Category   string
	Radius     float64
	Hardpoints map[string]Hardpoint
	Parts      map[string]Hardpoint
	Clips      map[string]Clip
}

func (t *ModelTemplate) Hardpoint(name string) (Hardpoint, bool) {
	if t == nil {
		return Hardpoint{}, false
	}
	hp, ok := t.Hardpoints[lowerKey(name)]
	return hp, ok
}

func (t *ModelTemplate) Part(name string) (Hardpoint, bool) {
	if t == nil {
		return Hardpoint{}, false
	}
	hp, ok := t.Parts[lowerKey(name)]
	return hp, ok
}

// EffectTemplate is the resolved particle effect a PSys entity refers to.
// A zero Duration plays until the cutscene ends.
type EffectTemplate struct {
	Name     string
	Duration float64
	Loop     bool
}

func lowerKey(s string) string { return strings.ToLower(s) }

// TemplateSource resolves template names for entity construction.
type TemplateSource interface {
	Model(category, name string) (*ModelTemplate, bool)
	Effect(name string) (*EffectTemplate, bool)
}
