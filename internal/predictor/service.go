package predictor

import (
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/kartoza/mof-predictor/internal/models"
	"github.com/kartoza/mof-predictor/internal/upload"
)

// InvalidExtensionMessage is reported for uploads whose name does not end in .cif
const InvalidExtensionMessage = "File must be a .cif file"

// StructureExtension is the required, case-sensitive filename suffix
const StructureExtension = ".cif"

// Recorder stores completed predictions
type Recorder interface {
	Record(filename string, fileSize int64, resp *models.PredictResponse) error
}

// Result is either a successful response or a failure with an HTTP status
type Result struct {
	Status   int
	Response *models.PredictResponse
	Message  string
}

// Success wraps a prediction payload
func Success(resp *models.PredictResponse) Result {
	return Result{Status: http.StatusOK, Response: resp}
}

// Failure reports an error with the status it should be served with
func Failure(status int, message string) Result {
	return Result{Status: status, Message: message}
}

// OK reports whether the result carries a prediction
func (r Result) OK() bool {
	return r.Response != nil
}

// Service runs the full prediction pipeline for one uploaded structure
type Service struct {
	uploads   *upload.Store
	extractor FeatureExtractor
	estimator AttributionEstimator
	predictor Predictor
	recorder  Recorder
}

// NewService wires the pipeline. recorder may be nil.
func NewService(
	uploads *upload.Store,
	extractor FeatureExtractor,
	estimator AttributionEstimator,
	predictor Predictor,
	recorder Recorder,
) *Service {
	return &Service{
		uploads:   uploads,
		extractor: extractor,
		estimator: estimator,
		predictor: predictor,
		recorder:  recorder,
	}
}

// NewMockService wires the placeholder implementations
func NewMockService(uploads *upload.Store, recorder Recorder) *Service {
	return NewService(uploads, NewMockExtractor(), NewMockEstimator(), NewMockPredictor(0), recorder)
}

// Predict validates the filename, stores the body in a temporary file, runs
// the extractor, predictor and estimator, and removes the file again.
func (s *Service) Predict(filename string, body io.Reader, miller models.MillerIndices) Result {
	if !strings.HasSuffix(filename, StructureExtension) {
		return Failure(http.StatusBadRequest, InvalidExtensionMessage)
	}

	path, size, err := s.uploads.Save(body)
	if path != "" {
		defer func() {
			if err := s.uploads.Remove(path); err != nil {
				log.Printf("Warning: could not remove temporary file %s: %v", path, err)
			}
		}()
	}
	if err != nil {
		return Failure(http.StatusInternalServerError, fmt.Sprintf("Prediction failed: %v", err))
	}

	resp, err := s.run(path, miller)
	if err != nil {
		return Failure(http.StatusInternalServerError, fmt.Sprintf("Prediction failed: %v", err))
	}

	if s.recorder != nil {
		if err := s.recorder.Record(filename, size, resp); err != nil {
			log.Printf("Warning: could not record prediction: %v", err)
		}
	}

	return Success(resp)
}

func (s *Service) run(path string, miller models.MillerIndices) (*models.PredictResponse, error) {
	features, err := s.extractor.Extract(path, miller)
	if err != nil {
		return nil, err
	}

	prediction, err := s.predictor.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("prediction: %w", err)
	}

	importances, err := s.estimator.Estimate(features)
	if err != nil {
		return nil, fmt.Errorf("attribution: %w", err)
	}

	shap, err := Rank(FeatureNames, features, importances)
	if err != nil {
		return nil, err
	}

	return &models.PredictResponse{
		YoungsModulus: roundTo(prediction, 2),
		ShapValues:    shap,
		MillerIndices: miller,
	}, nil
}

// Rank pairs names, values and importances and orders them by descending
// absolute importance. Equal magnitudes keep their input order.
func Rank(names []string, values, importances []float64) ([]models.ShapValue, error) {
	if len(values) != len(names) || len(importances) != len(names) {
		return nil, fmt.Errorf("length mismatch: %d names, %d values, %d importances",
			len(names), len(values), len(importances))
	}

	out := make([]models.ShapValue, len(names))
	for i := range names {
		out[i] = models.ShapValue{
			Feature:    names[i],
			Value:      values[i],
			Importance: importances[i],
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Importance) > math.Abs(out[j].Importance)
	})
	return out, nil
}

// roundTo rounds the exact decimal value of v with ties to even, so 2.675
// gives 2.67 and 0.125 gives 0.12.
func roundTo(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
