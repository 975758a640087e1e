package scripting

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/thn"
	lua "github.com/yuin/gopher-lua"
)

func convertEntity(t *lua.LTable) (thn.EntityDef, error) {
	var def thn.EntityDef
	name, ok := t.RawGetString("entity_name").(lua.LString)
	if !ok || name == "" {
		return def, fmt.Errorf("missing entity_name")
	}
	def.Name = string(name)
	typ, ok := t.RawGetString("type").(lua.LString)
	if !ok {
		return def, fmt.Errorf("%s: missing type", def.Name)
	}
	def.Type = thn.EntityType(strings.ToUpper(string(typ)))
	def.Template = luaString(t.RawGetString("template_name"))
	def.LightGroup = int(luaNumber(t.RawGetString("lt_grp")))
	def.SortGroup = int(luaNumber(t.RawGetString("srt_grp")))
	def.UserFlag = int(luaNumber(t.RawGetString("usr_flg")))

	if up, ok := t.RawGetString("userprops").(*lua.LTable); ok {
		def.MeshCategory = strings.ToLower(luaString(up.RawGetString("category")))
	}

	if sp, ok := t.RawGetString("spatialprops").(*lua.LTable); ok {
		if v := sp.RawGetString("pos"); v != lua.LNil {
			pos, err := toVec3(v)
			if err != nil {
				return def, fmt.Errorf("%s: pos: %v", def.Name, err)
			}
			def.Position = &pos
		}
		if v := sp.RawGetString("orient"); v != lua.LNil {
			rot, err := toRotation(v)
			if err != nil {
				return def, fmt.Errorf("%s: orient: %v", def.Name, err)
			}
			def.Rotation = &rot
		}
	}

	if v := t.RawGetString("ambient"); v != lua.LNil {
		amb, err := toVec3(v)
		if err != nil {
			return def, fmt.Errorf("%s: ambient: %v", def.Name, err)
		}
		def.Ambient = &amb
	}

	if lp, ok := t.RawGetString("lightprops").(*lua.LTable); ok {
		light, err := convertLight(lp)
		if err != nil {
			return def, fmt.Errorf("%s: lightprops: %v", def.Name, err)
		}
		def.Light = light
	}

	if cp, ok := t.RawGetString("cameraprops").(*lua.LTable); ok {
		def.Camera = &thn.CameraProps{}
		if v, ok := cp.RawGetString("fovh").(lua.LNumber); ok {
			f := float64(v)
			def.Camera.FovH = &f
		}
		if v, ok := cp.RawGetString("hvaspect").(lua.LNumber); ok {
			a := float64(v)
			def.Camera.HVAspect = &a
		}
	}

	if pp, ok := t.RawGetString("pathprops").(*lua.LTable); ok {
		path := &thn.PathProps{
			Kind:   thn.ParsePathKind(luaString(pp.RawGetString("path_type"))),
			Closed: lua.LVAsBool(pp.RawGetString("closed")),
		}
		if pts, ok := pp.RawGetString("points").(*lua.LTable); ok {
			for i := 1; i <= pts.MaxN(); i++ {
				p, err := toVec3(pts.RawGetInt(i))
				if err != nil {
					return def, fmt.Errorf("%s: path point %d: %v", def.Name, i, err)
				}
				path.Points = append(path.Points, p)
			}
		}
		def.Path = path
	}
	return def, nil
}

func convertLight(t *lua.LTable) (*thn.LightProps, error) {
	lp := &thn.LightProps{
		On:   lua.LVAsBool(t.RawGetString("on")),
		Kind: thn.LightKind(int(luaNumber(t.RawGetString("type")))),
	}
	for key, dst := range map[string]*mgl64.Vec3{
		"diffuse":     &lp.Color,
		"direction":   &lp.Direction,
		"attenuation": &lp.Attenuation,
	} {
		v := t.RawGetString(key)
		if v == lua.LNil {
			continue
		}
		vec, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", key, err)
		}
		*dst = vec
	}
	lp.Range = luaNumber(t.RawGetString("range"))
	return lp, nil
}

// convertEvent reads an event tuple {time, TYPE, {targets}, {props}}.
func convertEvent(t *lua.LTable) (thn.Event, error) {
	var ev thn.Event
	tm, ok := t.RawGetInt(1).(lua.LNumber)
	if !ok {
		return ev, fmt.Errorf("missing time")
	}
	ev.Time = float64(tm)
	typ, ok := t.RawGetInt(2).(lua.LString)
	if !ok {
		return ev, fmt.Errorf("missing event type")
	}
	ev.Type = string(typ)
	ev.Kind = thn.ParseEventKind(ev.Type)

	if targets, ok := t.RawGetInt(3).(*lua.LTable); ok {
		for i := 1; i <= targets.MaxN(); i++ {
			ev.Targets = append(ev.Targets, luaString(targets.RawGetInt(i)))
		}
	}

	ev.Props = thn.Props{}
	if props, ok := t.RawGetInt(4).(*lua.LTable); ok {
		if p, ok := toGo(props).(thn.Props); ok {
			ev.Props = p
		}
		if curve, ok := props.RawGetString("param_curve").(*lua.LTable); ok {
			c, err := convertCurve(curve)
			if err != nil {
				return ev, fmt.Errorf("%s: param_curve: %v", ev.Type, err)
			}
			ev.Curve = c
			delete(ev.Props, "param_curve")
		}
	}
	if d, ok := ev.Props["duration"].(float64); ok {
		ev.Duration = d
		delete(ev.Props, "duration")
	}
	return ev, nil
}

// convertCurve reads {type = "...", points = {{x, y, in, out}, ...},
// period = n}. A FreeFormCurve CLSID selects the free-form kind.
func convertCurve(t *lua.LTable) (*thn.Curve, error) {
	kindName := luaString(t.RawGetString("type"))
	if clsid := luaString(t.RawGetString("CLSID")); clsid != "" {
		kindName = clsid
	}
	kindName = strings.ToLower(kindName)

	var points []thn.CurvePoint
	if pts, ok := t.RawGetString("points").(*lua.LTable); ok {
		for i := 1; i <= pts.MaxN(); i++ {
			p, ok := pts.RawGetInt(i).(*lua.LTable)
			if !ok {
				return nil, fmt.Errorf("point %d is not a table", i)
			}
			points = append(points, thn.CurvePoint{
				X:   luaNumber(p.RawGetInt(1)),
				Y:   luaNumber(p.RawGetInt(2)),
				In:  luaNumber(p.RawGetInt(3)),
				Out: luaNumber(p.RawGetInt(4)),
			})
		}
	}

	var c *thn.Curve
	switch {
	case kindName == "freeformcurve" || (kindName == "" && len(points) > 0):
		c = thn.NewFreeFormCurve(points...)
	case kindName == "":
		c = &thn.Curve{Kind: thn.CurveLinear}
	default:
		kind, ok := thn.ParseCurveKind(kindName)
		if !ok {
			return nil, fmt.Errorf("unknown curve type %q", kindName)
		}
		if kind == thn.CurveFreeForm {
			c = thn.NewFreeFormCurve(points...)
		} else {
			c = &thn.Curve{Kind: kind}
		}
	}
	c.Period = luaNumber(t.RawGetString("period"))
	return c, nil
}

// toGo converts a Lua value into the property bag representation: numbers
// become float64, sequences []any and keyed tables thn.Props.
func toGo(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case lua.LBool:
		return bool(v)
	case *lua.LTable:
		n := v.MaxN()
		keyed := false
		v.ForEach(func(k, _ lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				keyed = true
			}
		})
		if n > 0 && !keyed {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, toGo(v.RawGetInt(i)))
			}
			return out
		}
		out := thn.Props{}
		v.ForEach(func(k, val lua.LValue) {
			out[k.String()] = toGo(val)
		})
		return out
	}
	return nil
}

func toVec3(v lua.LValue) (mgl64.Vec3, error) {
	t, ok := v.(*lua.LTable)
	if !ok || t.MaxN() != 3 {
		return mgl64.Vec3{}, fmt.Errorf("want {x, y, z}")
	}
	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		n, ok := t.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			return mgl64.Vec3{}, fmt.Errorf("component %d is not a number", i+1)
		}
		out[i] = float64(n)
	}
	return out, nil
}

// toRotation reads a row-major 3x3 rotation {{...}, {...}, {...}}.
func toRotation(v lua.LValue) (mgl64.Mat4, error) {
	t, ok := v.(*lua.LTable)
	if !ok || t.MaxN() != 3 {
		return mgl64.Mat4{}, fmt.Errorf("want three rows")
	}
	var rows [3]mgl64.Vec3
	for i := range rows {
		r, err := toVec3(t.RawGetInt(i + 1))
		if err != nil {
			return mgl64.Mat4{}, fmt.Errorf("row %d: %v", i+1, err)
		}
		rows[i] = r
	}
	return mgl64.Mat3FromRows(rows[0], rows[1], rows[2]).Mat4(), nil
}

func luaString(v lua.LValue) string {
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

func luaNumber(v lua.LValue) float64 {
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}
