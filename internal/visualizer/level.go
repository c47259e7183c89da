package visualizer

import "math"

// SilenceEpsilon is the total history energy at or below which the decay
// loop stops.
const SilenceEpsilon = 0.000001

// Energy converts a decibel reading into the normalized value used to scale
// bar heights. It is not clamped: readings above 0 dB yield values above 1.
func Energy(decibels float64) float64 {
	return math.Pow(10, decibels/20)
}

func totalEnergy(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}
