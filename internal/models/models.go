package models

// MillerIndices echoes the (h, k, l) plane orientation of a request
type MillerIndices struct {
	H int `json:"h"`
	K int `json:"k"`
	L int `json:"l"`
}

// ShapValue is one feature's contribution to a prediction
type ShapValue struct {
	Feature    string  `json:"feature"`
	Value      float64 `json:"value"`
	Importance float64 `json:"importance"`
}

// PredictResponse is the body returned by a successful prediction
type PredictResponse struct {
	YoungsModulus float64       `json:"youngs_modulus"`
	ShapValues    []ShapValue   `json:"shap_values"`
	MillerIndices MillerIndices `json:"miller_indices"`
}

// ErrorResponse is the body returned for any failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the liveness payload
type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// PredictionRecord is a stored prediction as listed by the history endpoints
type PredictionRecord struct {
	ID            string        `json:"id"`
	Filename      string        `json:"filename"`
	FileSize      int64         `json:"file_size"`
	MillerIndices MillerIndices `json:"miller_indices"`
	YoungsModulus float64       `json:"youngs_modulus"`
	ShapValues    []ShapValue   `json:"shap_values"`
	CreatedAt     string        `json:"created_at"`
}
