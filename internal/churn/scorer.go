package churn

import "math"

// Risk segments, thresholded on churn probability.
const (
	SegmentHigh   = "HIGH"
	SegmentMedium = "MEDIUM"
	SegmentLow    = "LOW"
)

// Scorer predicts the probability a customer churns.
type Scorer interface {
	Score(f Features) float64
}

// LogisticScorer is a logistic-regression model with coefficients fitted
// offline against the synthetic training set. It is a stand-in for a real
// trained model; the serving contract only needs Score.
type LogisticScorer struct {
	intercept float64
	weights   logisticWeights
	country   map[string]float64
}

type logisticWeights struct {
	age           float64
	recencyDays   float64
	freqTotal     float64
	freq30d       float64
	avgOrderValue float64
	diversity     float64
	logins14d     float64
}

// NewLogisticScorer returns the default fitted model.
func NewLogisticScorer() *LogisticScorer {
	return &LogisticScorer{
		intercept: -0.85,
		weights: logisticWeights{
			age:           0.004,
			recencyDays:   0.021,
			freqTotal:     -0.09,
			freq30d:       -0.31,
			avgOrderValue: -0.0016,
			diversity:     -0.12,
			logins14d:     -0.17,
		},
		country: map[string]float64{
			"US":      -0.05,
			"UK":      -0.02,
			"Canada":  -0.03,
			"Germany": 0.01,
			"France":  0.02,
			"India":   0.04,
			"Japan":   0.00,
		},
	}
}

func (s *LogisticScorer) Score(f Features) float64 {
	z := s.intercept +
		s.weights.age*float64(f.Age) +
		s.weights.recencyDays*f.RecencyDays +
		s.weights.freqTotal*float64(f.FrequencyTotal) +
		s.weights.freq30d*float64(f.Frequency30d) +
		s.weights.avgOrderValue*f.AvgOrderValue +
		s.weights.diversity*float64(f.CategoryDiversity) +
		s.weights.logins14d*float64(f.LoginCount14d)
	z += s.country[f.Country]
	return 1 / (1 + math.Exp(-z))
}

// Segment maps a churn probability to its risk bucket.
func Segment(prob float64) string {
	switch {
	case prob > 0.7:
		return SegmentHigh
	case prob > 0.4:
		return SegmentMedium
	default:
		return SegmentLow
	}
}
