package scripting

import (
	"github.com/thnplay/thnplay/internal/thn"
	lua "github.com/yuin/gopher-lua"
)

// Event types that appear in Freelancer scripts but have no engine
// behavior. They are defined so scripts naming them still load; the
// cutscene ignores them.
var passiveEventTypes = []string{
	"START_SOUND",
	"START_AUDIO_PROP_ANIM",
	"START_LIGHT_PROP_ANIM",
	"START_CAMERA_PROP_ANIM",
	"START_SPATIAL_PROP_ANIM",
	"START_PSYS_PROP_ANIM",
	"START_REVERB_PROP_ANIM",
	"START_FLR_HEIGHT_ANIM",
	"START_IK",
	"CONNECT_HARDPOINTS",
	"SUBTITLE",
}

func registerConstants(vm *lua.LState) {
	for _, t := range []thn.EntityType{
		thn.EntityCompound, thn.EntityPSys, thn.EntityScene, thn.EntityLight,
		thn.EntityCamera, thn.EntityMarker, thn.EntityMotionPath,
	} {
		vm.SetGlobal(string(t), lua.LString(t))
	}
	for _, name := range thn.EventKindNames() {
		vm.SetGlobal(name, lua.LString(name))
	}
	for _, name := range passiveEventTypes {
		vm.SetGlobal(name, lua.LString(name))
	}

	numbers := map[string]float64{
		"POSITION":             float64(thn.AttachPosition),
		"ORIENTATION":          float64(thn.AttachOrientation),
		"LOOK_AT":              float64(thn.AttachLookAt),
		"ENTITY_RELATIVE":      float64(thn.AttachEntityRelative),
		"ORIENTATION_RELATIVE": float64(thn.AttachOrientationRelative),
		"PARENT_CHILD":         float64(thn.AttachParentChild),

		"ROOT":      float64(thn.TargetRoot),
		"HARDPOINT": float64(thn.TargetHardpoint),
		"PART":      float64(thn.TargetPart),

		"F_NONE":   float64(thn.FogNone),
		"F_EXP":    float64(thn.FogExp),
		"F_EXP2":   float64(thn.FogExp2),
		"F_LINEAR": float64(thn.FogLinear),

		"L_DIRECT": float64(thn.LightDirectional),
		"L_POINT":  float64(thn.LightPoint),
	}
	for name, v := range numbers {
		vm.SetGlobal(name, lua.LNumber(v))
	}

	vm.SetGlobal("Y", lua.LTrue)
	vm.SetGlobal("N", lua.LFalse)
}
