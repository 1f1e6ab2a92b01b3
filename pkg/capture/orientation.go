// Package capture derives photo orientation and capture time from sensor samples and paths.
package capture

import (
	"math"
	"strconv"
)

// Orientation is an EXIF orientation code. Only pure rotations are produced.
type Orientation int

const (
	TopLeft     Orientation = 1
	BottomRight Orientation = 3
	RightTop    Orientation = 6
	LeftBottom  Orientation = 8
)

func (o Orientation) String() string {
	return strconv.Itoa(int(o))
}

// Degrees returns the clockwise rotation a viewer must apply to display the image upright.
func (o Orientation) Degrees() int {
	switch o {
	case BottomRight:
		return 180
	case RightTop:
		return 90
	case LeftBottom:
		return 270
	default:
		return 0
	}
}

// Sample is a single accelerometer reading.
type Sample struct {
	X float64
	Y float64
	Z float64
}

// InferOrientation picks the axis closest to vertical and maps its sign to an orientation.
// A zero sample resolves to RightTop.
func InferOrientation(s Sample) Orientation {
	if math.Abs(s.X) > math.Abs(s.Y) {
		if s.X < 0 {
			return TopLeft
		}
		return BottomRight
	}
	if s.Y < 0 {
		return LeftBottom
	}
	return RightTop
}

// Roll returns the camera roll in degrees, in [-180, 180], measured from the upright (negative X) position.
func (s Sample) Roll() float64 {
	return math.Atan2(s.Y, -s.X) * 180 / math.Pi
}
