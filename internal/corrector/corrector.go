package corrector

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"restaurant-viability/internal/features"
	"restaurant-viability/internal/observability"
)

// Corrector produces a scalar additive correction from the combined feature
// vector. The regression itself is trained elsewhere; only this contract
// matters here.
type Corrector interface {
	Predict(vector []float64) (float64, error)
}

// ErrVectorWidth is returned when the supplied vector does not match the
// contracted layout width.
var ErrVectorWidth = errors.New("feature vector width mismatch")

// LinearModel is a residual corrector backed by exported regression weights.
type LinearModel struct {
	weights   []float64
	intercept float64
}

type modelFile struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// NewLinearModel loads regression weights from the provided JSON file.
func NewLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corrector weights: %w", err)
	}
	var raw modelFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal corrector weights: %w", err)
	}
	model := &LinearModel{weights: raw.Weights, intercept: raw.Intercept}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// Validate ensures the weight vector matches the contracted layout width.
func (m *LinearModel) Validate() error {
	if m == nil {
		return errors.New("corrector model is nil")
	}
	if len(m.weights) != features.TotalLen {
		return fmt.Errorf("%w: have %d weights, layout expects %d",
			ErrVectorWidth, len(m.weights), features.TotalLen)
	}
	return nil
}

// Predict returns the additive correction for the supplied vector.
func (m *LinearModel) Predict(vector []float64) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if len(vector) != len(m.weights) {
		return 0, fmt.Errorf("%w: have %d values, expected %d",
			ErrVectorWidth, len(vector), len(m.weights))
	}
	out := m.intercept
	for i, w := range m.weights {
		out += w * vector[i]
	}
	return out, nil
}

// Adjust composes the raw predicted score with the learned correction. Any
// failure (missing corrector, wrong vector width, collaborator error) falls
// back to the uncorrected score; the boolean reports whether a correction was
// applied.
func Adjust(c Corrector, predicted float64, vector []float64) (float64, bool) {
	if c == nil {
		return predicted, false
	}
	if len(vector) != features.TotalLen {
		logrus.WithFields(logrus.Fields{
			"have":     len(vector),
			"expected": features.TotalLen,
		}).Warn("residual correction skipped: vector width mismatch")
		observability.CorrectionFallbacks.Inc()
		return predicted, false
	}
	correction, err := c.Predict(vector)
	if err != nil {
		logrus.WithError(err).Warn("residual correction failed, returning uncorrected score")
		observability.CorrectionFallbacks.Inc()
		return predicted, false
	}
	return predicted + correction, true
}
