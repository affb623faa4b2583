package predictor

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gonum/floats"
	"github.com/kartoza/mof-predictor/internal/models"
	"github.com/kartoza/mof-predictor/internal/rng"
)

// featureRange is the uniform interval a mock descriptor is drawn from
type featureRange struct {
	Min float64
	Max float64
}

// mockFeatureRanges follows the order of FeatureNames
var mockFeatureRanges = []featureRange{
	{5, 15},    // Å
	{10, 25},   // Å
	{0.3, 0.8}, // fraction
	{0.5, 2.0}, // g/cm³
	{1.5, 2.5}, // Pauling
}

// FeatureSeed derives the generator seed for a file of the given size and
// orientation. The result is always in [0, 10000).
func FeatureSeed(fileSize int64, miller models.MillerIndices) uint32 {
	raw := fileSize + int64(miller.H)*1000 + int64(miller.K)*100 + int64(miller.L)*10
	return uint32(floorMod(raw, seedModulus))
}

// AttributionSeed derives the generator seed for a feature vector
func AttributionSeed(features []float64) uint32 {
	return uint32(floorMod(int64(floats.Sum(features)*100), seedModulus))
}

// MockExtractor produces consistent placeholder descriptors from the file
// size and Miller indices. The file content is never read.
type MockExtractor struct{}

// NewMockExtractor creates a placeholder feature extractor
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns the descriptor vector for the file at path
func (e *MockExtractor) Extract(path string, miller models.MillerIndices) ([]float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat structure file: %w", err)
	}

	gen := rng.New(FeatureSeed(info.Size(), miller))
	features := make([]float64, len(mockFeatureRanges))
	for i, r := range mockFeatureRanges {
		features[i] = gen.Uniform(r.Min, r.Max)
	}
	return features, nil
}

// MockEstimator produces placeholder attributions seeded from the features.
// Even positions are always non-negative and odd positions non-positive,
// independent of the drawn magnitudes.
type MockEstimator struct{}

// NewMockEstimator creates a placeholder attribution estimator
func NewMockEstimator() *MockEstimator {
	return &MockEstimator{}
}

// Estimate returns one attribution per feature
func (e *MockEstimator) Estimate(features []float64) ([]float64, error) {
	gen := rng.New(AttributionSeed(features))

	values := gen.Normals(len(features))
	floats.Scale(2, values)

	for i, v := range values {
		if i%2 == 0 {
			values[i] = math.Abs(v)
		} else {
			values[i] = -math.Abs(v)
		}
	}
	return values, nil
}

// MockPredictor returns a base modulus plus a uniform perturbation. It keeps
// its own generator, so repeated calls with the same features differ.
type MockPredictor struct {
	base float64
	gen  *rng.MT19937
	mu   sync.Mutex
}

// DefaultBaseModulus is the centre of the mock prediction in GPa
const DefaultBaseModulus = 15.0

// NewMockPredictor creates a placeholder predictor. A zero seed selects a
// clock-derived one.
func NewMockPredictor(seed uint32) *MockPredictor {
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}
	return &MockPredictor{
		base: DefaultBaseModulus,
		gen:  rng.New(seed),
	}
}

// Predict returns the mock modulus. The features are ignored.
func (p *MockPredictor) Predict(_ []float64) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.base + p.gen.Uniform(-5, 5), nil
}
