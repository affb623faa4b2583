// Package predictor holds the capability interfaces behind a Young's modulus
// prediction and the placeholder implementations used until real feature
// extraction and a trained model are available.
package predictor

import (
	"github.com/kartoza/mof-predictor/internal/models"
)

// FeatureNames lists the structural descriptors in vector order
var FeatureNames = []string{
	"PLD (Å)", // Pore Limiting Diameter
	"LCD (Å)", // Largest Cavity Diameter
	"Void Fraction",
	"Density (g/cm³)",
	"Metal Electronegativity",
}

// FeatureExtractor computes the descriptor vector for a stored structure file
type FeatureExtractor interface {
	Extract(path string, miller models.MillerIndices) ([]float64, error)
}

// AttributionEstimator assigns a contribution score to each feature
type AttributionEstimator interface {
	Estimate(features []float64) ([]float64, error)
}

// Predictor maps a feature vector to a Young's modulus in GPa
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// seedModulus bounds every derived seed to [0, seedModulus)
const seedModulus = 10000

// floorMod returns a mod n with the sign of n
func floorMod(a, n int64) int64 {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
