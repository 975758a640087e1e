package thn

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Props is the property bag of an event. Values are float64, bool, string,
// []any for array tables and Props for keyed tables.
type Props map[string]any

func malformed(ev *Event, format string, args ...any) error {
	return fmt.Errorf("%w: %s at %.3fs: %s", ErrMalformedEvent, ev.Type, ev.Time, fmt.Sprintf(format, args...))
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

// Number returns a required numeric property.
func (p Props) Number(key string) (float64, error) {
	v, ok, err := p.OptNumber(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("missing %q", key)
	}
	return v, nil
}

// OptNumber returns a numeric property if present.
func (p Props) OptNumber(key string) (float64, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	n, ok := toNumber(v)
	if !ok {
		return 0, false, fmt.Errorf("%q is %T, want number", key, v)
	}
	return n, true, nil
}

// OptBool returns a boolean property if present. Numbers are accepted with
// the usual non-zero meaning.
func (p Props) OptBool(key string) (bool, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return false, false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, true, nil
	default:
		if n, ok := toNumber(v); ok {
			return n != 0, true, nil
		}
	}
	return false, false, fmt.Errorf("%q is %T, want bool", key, v)
}

// String returns a required string property.
func (p Props) String(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q is %T, want string", key, v)
	}
	return s, nil
}

// OptVec3 returns a three component vector property if present.
func (p Props) OptVec3(key string) (mgl64.Vec3, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return mgl64.Vec3{}, false, nil
	}
	switch vec := v.(type) {
	case mgl64.Vec3:
		return vec, true, nil
	case []float64:
		if len(vec) == 3 {
			return mgl64.Vec3{vec[0], vec[1], vec[2]}, true, nil
		}
	case []any:
		if len(vec) == 3 {
			var out mgl64.Vec3
			for i, c := range vec {
				n, ok := toNumber(c)
				if !ok {
					return mgl64.Vec3{}, false, fmt.Errorf("%q[%d] is %T, want number", key, i, c)
				}
				out[i] = n
			}
			return out, true, nil
		}
	}
	return mgl64.Vec3{}, false, fmt.Errorf("%q is not a 3-vector", key)
}

// Table returns a required nested table property.
func (p Props) Table(key string) (Props, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("missing %q", key)
	}
	switch t := v.(type) {
	case Props:
		return t, nil
	case map[string]any:
		return Props(t), nil
	}
	return nil, fmt.Errorf("%q is %T, want table", key, v)
}

// Flags returns the attach flags property, or def when absent.
func (p Props) Flags(key string, def AttachFlags) (AttachFlags, error) {
	n, ok, err := p.OptNumber(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	if n < 0 {
		return 0, fmt.Errorf("%q is negative", key)
	}
	return AttachFlags(uint32(n)), nil
}

// TargetType returns the target_type property. Both the numeric constant and
// its name are accepted; absent means root.
func (p Props) TargetType(key string) (TargetType, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return TargetRoot, nil
	}
	if s, ok := v.(string); ok {
		tt, ok := targetTypeNames[strings.ToUpper(s)]
		if !ok {
			return 0, fmt.Errorf("%q has unknown value %q", key, s)
		}
		return tt, nil
	}
	n, ok := toNumber(v)
	if !ok {
		return 0, fmt.Errorf("%q is %T", key, v)
	}
	tt := TargetType(int(n))
	if tt < TargetRoot || tt > TargetPart {
		return 0, fmt.Errorf("%q has unknown value %v", key, n)
	}
	return tt, nil
}
