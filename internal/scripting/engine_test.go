package scripting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/thnplay/thnplay/internal/thn"
)

const introScript = `
duration = 12.5
entities = {
	{
		entity_name = "Scene_Intro",
		type = SCENE,
		ambient = {40, 40, 60},
	},
	{
		entity_name = "Ship_Player",
		type = COMPOUND,
		template_name = "li_elite",
		lt_grp = 1,
		userprops = { category = "Spaceship" },
		spatialprops = {
			pos = {0, 0, -200},
			orient = {{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		},
	},
	{
		entity_name = "Stars",
		type = COMPOUND,
		template_name = "starsphere_a",
		usr_flg = 1,
		srt_grp = 3,
		userprops = { category = "solar" },
	},
	{
		entity_name = "Sun_Light",
		type = LIGHT,
		lightprops = {
			on = Y,
			type = L_DIRECT,
			diffuse = {1, 0.9, 0.8},
			direction = {0, 0, 1},
			range = 5000,
		},
	},
	{
		entity_name = "Camera_1",
		type = CAMERA,
		cameraprops = { fovh = 35, hvaspect = 1.6 },
		spatialprops = { pos = {0, 20, 0} },
	},
	{
		entity_name = "Flyby",
		type = MOTION_PATH,
		pathprops = {
			path_type = "CV_CrSpline",
			points = {{0, 0, 0}, {50, 10, 0}, {100, 0, 0}},
		},
	},
}
events = {
	{ 0, SET_CAMERA, { "Monitor", "Camera_1" } },
	{ 0, START_SOUND, { "music" } },
	{ 1.5, START_PATH_ANIMATION, { "Camera_1", "Flyby" }, {
		start_percent = 0,
		stop_percent = 1,
		flags = POSITION + LOOK_AT,
		duration = 4,
		param_curve = { CLSID = "FreeFormCurve", points = {{0, 0, 0, 1}, {1, 1, 1, 0}} },
	} },
	{ 2, START_FOG_PROP_ANIM, { "Scene_Intro" }, {
		fogprops = { fogon = Y, fogmode = F_EXP, fogcolor = {128, 128, 255} },
	} },
	{ 3, ATTACH_ENTITY, { "Camera_1", "Ship_Player" }, {
		target_type = HARDPOINT,
		target_part = "HpMount",
		flags = LOOK_AT,
		duration = 2,
	} },
}
`

func TestLoadIntroScript(t *testing.T) {
	s, err := NewEngine(nil).Load("intro", []byte(introScript))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "intro" || s.Duration != 12.5 {
		t.Fatalf("name = %q duration = %v", s.Name, s.Duration)
	}
	if len(s.Checksum) != 64 {
		t.Fatalf("checksum %q is not blake2b-256 hex", s.Checksum)
	}
	if len(s.Entities) != 6 || len(s.Events) != 5 {
		t.Fatalf("entities = %d events = %d", len(s.Entities), len(s.Events))
	}

	ship := s.Entities[1]
	if ship.Type != thn.EntityCompound || ship.MeshCategory != thn.CategorySpaceship || ship.LightGroup != 1 {
		t.Fatalf("ship = %+v", ship)
	}
	if ship.Position == nil || ship.Position.Z() != -200 || ship.Rotation == nil {
		t.Fatalf("ship spatial props not read")
	}
	if stars := s.Entities[2]; !stars.Starsphere() || stars.SortGroup != 3 {
		t.Fatalf("stars = %+v", stars)
	}
	if amb := s.Entities[0].Ambient; amb == nil || amb.Z() != 60 {
		t.Fatalf("ambient = %v", amb)
	}
	light := s.Entities[3].Light
	if light == nil || !light.On || light.Kind != thn.LightDirectional || light.Range != 5000 {
		t.Fatalf("light = %+v", light)
	}
	cam := s.Entities[4].Camera
	if cam == nil || cam.FovH == nil || *cam.FovH != 35 || cam.HVAspect == nil || *cam.HVAspect != 1.6 {
		t.Fatalf("camera props = %+v", cam)
	}
	path := s.Entities[5].Path
	if path == nil || path.Kind != thn.PathCatmullRom || len(path.Points) != 3 {
		t.Fatalf("path = %+v", path)
	}

	if s.Events[1].Kind != thn.EventUnknown || s.Events[1].Type != "START_SOUND" {
		t.Fatalf("passive event = %+v", s.Events[1])
	}
	pathEv := s.Events[2]
	if pathEv.Kind != thn.EventStartPathAnimation || pathEv.Duration != 4 {
		t.Fatalf("path event = %+v", pathEv)
	}
	if _, ok := pathEv.Props["duration"]; ok {
		t.Fatalf("duration left in props")
	}
	if pathEv.Curve == nil || pathEv.Curve.Kind != thn.CurveFreeForm || len(pathEv.Curve.Points) != 2 {
		t.Fatalf("curve = %+v", pathEv.Curve)
	}
	flags, err := pathEv.Props.Flags("flags", 0)
	if err != nil || flags != thn.AttachPosition|thn.AttachLookAt {
		t.Fatalf("flags = %v err = %v", flags, err)
	}
	fog, err := s.Events[3].Props.Table("fogprops")
	if err != nil {
		t.Fatalf("fogprops: %v", err)
	}
	if on, _, _ := fog.OptBool("fogon"); !on {
		t.Fatalf("fogon not true")
	}
	if _, ok, err := fog.OptVec3("fogcolor"); !ok || err != nil {
		t.Fatalf("fogcolor not a vector: %v", err)
	}
}

func TestLoadedScriptPlays(t *testing.T) {
	s, err := NewEngine(nil).Load("intro", []byte(introScript))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	templates := catalog{
		"spaceship/li_elite": {Name: "li_elite", Hardpoints: map[string]thn.Hardpoint{"hpmount": {Name: "HpMount"}}},
		"solar/starsphere_a": {Name: "starsphere_a"},
	}
	c, err := thn.New(s, templates, nil)
	if err != nil {
		t.Fatalf("thn.New: %v", err)
	}
	for i := 0; i < 20; i++ {
		c.Update(1e9)
	}
	if d := c.Diagnostics(); len(d) != 0 {
		t.Fatalf("diagnostics: %v", d)
	}
	if !c.Done() {
		t.Fatalf("not done after 20s")
	}
	if c.Lighting().FogMode != thn.FogExp {
		t.Fatalf("fog mode = %v", c.Lighting().FogMode)
	}
}

type catalog map[string]*thn.ModelTemplate

func (c catalog) Model(category, name string) (*thn.ModelTemplate, bool) {
	m, ok := c[category+"/"+name]
	return m, ok
}

func (c catalog) Effect(string) (*thn.EffectTemplate, bool) { return nil, false }

func TestLoadReturnedTable(t *testing.T) {
	src := `return {
		duration = 3,
		entities = { { entity_name = "M", type = MARKER } },
		events = { { 1, START_MOTION, { "M" }, { animation = "idle" } } },
	}`
	s, err := NewEngine(nil).Load("returned", []byte(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Duration != 3 || len(s.Entities) != 1 || len(s.Events) != 1 {
		t.Fatalf("script = %+v", s)
	}
	if name, _ := s.Events[0].Props.String("animation"); name != "idle" {
		t.Fatalf("animation = %q", name)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax", `entities = {`},
		{"runtime", `error("boom")`},
		{"no_entities", `duration = 1`},
		{"entity_without_name", `entities = { { type = MARKER } }`},
		{"bad_position", `entities = { { entity_name = "A", type = MARKER, spatialprops = { pos = {1, 2} } } }`},
		{"event_without_time", `entities = {} events = { { "x", SET_CAMERA } }`},
		{"unknown_curve", `entities = {} events = { { 0, START_FOG_PROP_ANIM, {}, { param_curve = { type = "bounce" } } } }`},
		{"no_os_library", `os.exit(1)`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEngine(nil).Load(tc.name, []byte(tc.src))
			if !errors.Is(err, ErrScript) {
				t.Fatalf("err = %v, want ErrScript", err)
			}
		})
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.thn", "a.lua", "notes.txt", "c.THN"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("entities = {}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.thn"), 0o755); err != nil {
		t.Fatal(err)
	}
	files, err := Files(dir)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{"a.lua", "b.thn", "c.THN"}
	if len(files) != len(want) {
		t.Fatalf("files = %v", files)
	}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Fatalf("files = %v, want %v", files, want)
		}
	}

	s, err := NewEngine(nil).LoadFile(files[1])
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if s.Name != "b" {
		t.Fatalf("name = %q, want b", s.Name)
	}
}
