package scoring

// epsilon keeps min-max denominators (and growth-rate divisors) away from
// zero so a degenerate batch still yields finite scores.
const epsilon = 1e-9

// Normalize rescales one signal column to the 0-100 range using batch-relative
// min-max normalization. A column where every value is equal maps to all
// zeros rather than NaN. The input slice is not modified.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(values))
	span := max - min + epsilon
	for i, v := range values {
		out[i] = (v - min) / span * 100
	}
	return out
}
