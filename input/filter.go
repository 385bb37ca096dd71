package input

import "math"

// StickDeadzone repositions the current raw stick value around 128 using the
// first value reported by the input source as the resting center.
func StickDeadzone(current, first uint8) uint8 {
	if current > first {
		diff := current - first
		if diff > math.MaxUint8-128 {
			return math.MaxUint8
		}
		return 128 + diff
	}
	diff := first - current
	if diff > 128 {
		return 0
	}
	return 128 - diff
}

// StickFilter converts recentered raw stick values to [-1, 1] floats,
// clamping to the octagonal gate radius of 80 units and zeroing values
// inside the 0.28 deadzone.
func StickFilter(inStickX, inStickY uint8) (float64, float64) {
	rawStickX := float64(inStickX) - 128.0
	rawStickY := float64(inStickY) - 128.0
	angle := math.Atan2(rawStickY, rawStickX)

	maxX := math.Trunc(math.Cos(angle) * 80.0)
	maxY := math.Trunc(math.Sin(angle) * 80.0)

	var stickX float64
	if inStickX == 128 {
		// keep rawStickX = 0 out of the atan2 driven clamp
		stickX = 0.0
	} else {
		stickX = absMin(rawStickX, maxX) / 80.0
	}
	stickY := absMin(rawStickY, maxY) / 80.0

	const deadzone = 0.28
	if math.Abs(stickX) < deadzone {
		stickX = 0.0
	}
	if math.Abs(stickY) < deadzone {
		stickY = 0.0
	}
	return stickX, stickY
}

// TriggerFilter converts a raw trigger value to [0, 1].
func TriggerFilter(trigger uint8) float64 {
	value := float64(trigger) / 140.0
	if value > 1.0 {
		return 1.0
	}
	return value
}

func absMin(a, b float64) float64 {
	if (a >= 0.0 && a > b) || (a <= 0.0 && a < b) {
		return b
	}
	return a
}
