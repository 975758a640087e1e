package thn

import "testing"

func TestCurveEndpoints(t *testing.T) {
	kinds := []CurveKind{CurveLinear, CurveEaseIn, CurveEaseOut, CurveEaseInOut, CurveStep}
	for _, k := range kinds {
		c := &Curve{Kind: k}
		if got := c.Value(0, 4); got != 0 {
			t.Fatalf("kind %d: Value(0) = %v, want 0", k, got)
		}
		if got := c.Value(4, 4); !near(got, 1) {
			t.Fatalf("kind %d: Value(duration) = %v, want 1", k, got)
		}
		if got := c.Value(9, 4); !near(got, 1) {
			t.Fatalf("kind %d: Value past duration = %v, want 1", k, got)
		}
	}
}

func TestCurveShapes(t *testing.T) {
	cases := []struct {
		name  string
		curve *Curve
		x     float64
		want  float64
	}{
		{"nil_is_linear", nil, 0.25, 0.25},
		{"linear", &Curve{Kind: CurveLinear}, 0.5, 0.5},
		{"ease_in", &Curve{Kind: CurveEaseIn}, 0.5, 0.125},
		{"ease_out", &Curve{Kind: CurveEaseOut}, 0.5, 0.875},
		{"ease_in_out_low", &Curve{Kind: CurveEaseInOut}, 0.25, 0.0625},
		{"ease_in_out_mid", &Curve{Kind: CurveEaseInOut}, 0.5, 0.5},
		{"step_before_end", &Curve{Kind: CurveStep}, 0.99, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.curve.Value(tc.x, 1); !near(got, tc.want) {
				t.Fatalf("Value(%v) = %v, want %v", tc.x, got, tc.want)
			}
		})
	}
}

func TestCurveZeroDuration(t *testing.T) {
	if got := (&Curve{Kind: CurveEaseIn}).Value(0, 0); got != 1 {
		t.Fatalf("zero duration Value = %v, want 1", got)
	}
}

func TestFreeFormCurve(t *testing.T) {
	c := NewFreeFormCurve(
		CurvePoint{X: 1, Y: 10},
		CurvePoint{X: 0, Y: 0},
		CurvePoint{X: 0.5, Y: 2},
	)
	if c.Points[0].X != 0 || c.Points[2].X != 1 {
		t.Fatalf("points not sorted: %+v", c.Points)
	}
	for _, p := range c.Points {
		if got := c.Value(p.X, 1); !near(got, p.Y) {
			t.Fatalf("Value(%v) = %v, want key value %v", p.X, got, p.Y)
		}
	}
	mid := c.Value(0.75, 1)
	if mid <= 2 || mid >= 10 {
		t.Fatalf("Value(0.75) = %v, want between keys", mid)
	}
}

func TestCurvePeriod(t *testing.T) {
	c := &Curve{Kind: CurveLinear, Period: 1}
	if got := c.Value(2.25, 4); !near(got, 0.25) {
		t.Fatalf("periodic Value = %v, want 0.25", got)
	}
	if got := c.Value(4, 4); got != 1 {
		t.Fatalf("periodic Value at duration = %v, want 1", got)
	}
}

func TestParseCurveKind(t *testing.T) {
	if k, ok := ParseCurveKind("ease_in_out"); !ok || k != CurveEaseInOut {
		t.Fatalf("ease_in_out = %v %v", k, ok)
	}
	if _, ok := ParseCurveKind("bounce"); ok {
		t.Fatalf("unknown curve kind accepted")
	}
}
