package core

import "math"

const defaultEpsilon = 1e-12

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite reports whether every value in xs is finite.
func AllFinite(xs ...float64) bool {
	for _, x := range xs {
		if !IsFinite(x) {
			return false
		}
	}

	return true
}

// NearlyEqual reports whether a and b are equal within eps, using a relative
// comparison once the magnitudes exceed 1.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// Octaves returns the distance from lowHz to highHz in octaves.
func Octaves(lowHz, highHz float64) float64 {
	return math.Log2(highHz / lowHz)
}
