package capture

import (
	"math"
	"testing"
)

func TestInferOrientation(t *testing.T) {
	testCases := []struct {
		name   string
		sample Sample
		want   Orientation
	}{
		{name: "x dominant negative", sample: Sample{X: -9.8, Y: 1.2}, want: TopLeft},
		{name: "x dominant positive", sample: Sample{X: 9.8, Y: -1.2}, want: BottomRight},
		{name: "x dominant zero y", sample: Sample{X: 0.5, Y: 0}, want: BottomRight},
		{name: "y dominant negative", sample: Sample{X: 2.0, Y: -9.8, Z: 0.1}, want: LeftBottom},
		{name: "y dominant positive", sample: Sample{X: -2.0, Y: 9.8}, want: RightTop},
		{name: "tie goes to y, negative", sample: Sample{X: 3, Y: -3}, want: LeftBottom},
		{name: "tie goes to y, positive", sample: Sample{X: -3, Y: 3}, want: RightTop},
		{name: "all zero", sample: Sample{}, want: RightTop},
		{name: "z is ignored", sample: Sample{X: -1, Y: 0.5, Z: -100}, want: TopLeft},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferOrientation(tc.sample); got != tc.want {
				t.Fatalf("InferOrientation(%+v) = %d, want %d", tc.sample, got, tc.want)
			}
		})
	}
}

// Sweep a grid of samples and check every quadrant rule holds.
func TestInferOrientation_Grid(t *testing.T) {
	for x := -10.0; x <= 10.0; x += 0.5 {
		for y := -10.0; y <= 10.0; y += 0.5 {
			got := InferOrientation(Sample{X: x, Y: y})
			var want Orientation
			switch {
			case math.Abs(x) > math.Abs(y) && x < 0:
				want = TopLeft
			case math.Abs(x) > math.Abs(y):
				want = BottomRight
			case y < 0:
				want = LeftBottom
			default:
				want = RightTop
			}
			if got != want {
				t.Fatalf("InferOrientation(%v, %v) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestOrientationDegrees(t *testing.T) {
	want := map[Orientation]int{TopLeft: 0, BottomRight: 180, RightTop: 90, LeftBottom: 270}
	for o, d := range want {
		if got := o.Degrees(); got != d {
			t.Errorf("%d.Degrees() = %d, want %d", o, got, d)
		}
	}
	if TopLeft.String() != "1" {
		t.Errorf("TopLeft.String() = %q", TopLeft.String())
	}
}

func TestSampleRoll(t *testing.T) {
	testCases := []struct {
		sample Sample
		want   float64
	}{
		{Sample{X: -9.8}, 0},
		{Sample{Y: 9.8}, 90},
		{Sample{Y: -9.8}, -90},
		{Sample{X: 9.8}, 180},
		{Sample{X: -1, Y: 1}, 45},
	}
	for _, tc := range testCases {
		if got := tc.sample.Roll(); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%+v.Roll() = %v, want %v", tc.sample, got, tc.want)
		}
	}
}
