package detector

import "math"

// Detection windows, in milliseconds. Indicators compare the short window
// against the mid window, or the mid window against the tail of the long one.
const (
	shortWindowMs = 30_000
	midWindowMs   = 120_000
	longWindowMs  = 300_000
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance is the population variance.
func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

// coefficientOfVariation is stddev/mean; zero-mean samples yield 0.
func coefficientOfVariation(xs []float64) float64 {
	m := mean(xs)
	if m == 0 {
		return 0
	}
	return math.Sqrt(variance(xs)) / m
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
