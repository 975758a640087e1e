package thn

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeTemplates struct {
	models  map[string]*ModelTemplate
	effects map[string]*EffectTemplate
}

func (f *fakeTemplates) Model(category, name string) (*ModelTemplate, bool) {
	m, ok := f.models[category+"/"+lowerKey(name)]
	return m, ok
}

func (f *fakeTemplates) Effect(name string) (*EffectTemplate, bool) {
	e, ok := f.effects[lowerKey(name)]
	return e, ok
}

func testTemplates() *fakeTemplates {
	return &fakeTemplates{
		models: map[string]*ModelTemplate{
			"spaceship/li_elite": {
				Name:     "li_elite",
				Category: CategorySpaceship,
				Hardpoints: map[string]Hardpoint{
					"hpmount": {Name: "HpMount", Transform: mgl64.Translate3D(0, 2, 0)},
				},
				Parts: map[string]Hardpoint{
					"engine": {Name: "Engine", Transform: mgl64.Translate3D(0, 0, -5)},
				},
				Clips: map[string]Clip{
					"sc_open": {Name: "Sc_Open", Length: 2},
				},
			},
			"solar/planet_earth": {Name: "planet_earth", Category: CategorySolar},
			"solar/starsphere_a": {Name: "starsphere_a", Category: CategorySolar},
			"solar/starsphere_b": {Name: "starsphere_b", Category: CategorySolar},
			"prop/crate":         {Name: "crate", Category: CategoryProp},
		},
		effects: map[string]*EffectTemplate{
			"gf_explosion": {Name: "gf_explosion", Duration: 3},
		},
	}
}

func vec(x, y, z float64) *mgl64.Vec3 {
	v := mgl64.Vec3{x, y, z}
	return &v
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearVec(a, b mgl64.Vec3) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

// baseEntities is a small scene: a ship, a crate, a camera, a particle
// effect and a straight motion path along +X.
func baseEntities() []EntityDef {
	return []EntityDef{
		{Name: "Scene", Type: EntityScene, Ambient: vec(255, 0, 0)},
		{Name: "Ship", Type: EntityCompound, MeshCategory: CategorySpaceship, Template: "li_elite", Position: vec(0, 0, 100)},
		{Name: "Crate", Type: EntityCompound, MeshCategory: CategoryProp, Template: "crate"},
		{Name: "Camera_1", Type: EntityCamera, Position: vec(0, 10, 0)},
		{Name: "Boom", Type: EntityPSys, Template: "gf_explosion"},
		{Name: "Path_1", Type: EntityMotionPath, Position: vec(0, 0, 5), Path: &PathProps{
			Kind:   PathLinear,
			Points: []mgl64.Vec3{{0, 0, 0}, {10, 0, 0}},
		}},
	}
}

func newTestCutscene(t *testing.T, events ...Event) *Cutscene {
	t.Helper()
	for i := range events {
		events[i].Kind = ParseEventKind(events[i].Type)
	}
	c, err := New(&Script{Name: "test", Duration: 10, Entities: baseEntities(), Events: events}, testTemplates(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}
