package scoring

import (
	"context"
	"fmt"
	"math"
	"os"

	json "github.com/goccy/go-json"

	"github.com/okian/jelajah/internal/domain/region"
)

const modelInputs = 4

// Activation names accepted in persisted weights.
const (
	ActivationReLU    = "relu"
	ActivationSigmoid = "sigmoid"
	ActivationLinear  = "linear"
)

// Layer is one dense layer. Weights are indexed [input][output].
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

// Weights is the persisted form of a model.
type Weights struct {
	Categories map[string]int `json:"categories,omitempty"`
	Regions    map[string]int `json:"regions,omitempty"`
	Layers     []Layer        `json:"layers"`
}

// Index positions used when the weights file does not carry its own.
var (
	defaultCategoryIndex = map[string]int{ //nolint:gochecknoglobals // static configuration data
		"Bahari": 0, "Budaya": 1, "Cagar Alam": 2, "Pusat Perbelanjaan": 3, "Taman Hiburan": 4, "Tempat Ibadah": 5,
	}
	defaultRegionIndex = map[string]int{ //nolint:gochecknoglobals // static configuration data
		"Aceh": 0, "Sumatera Utara": 1, "Sumatera Barat": 2, "Riau": 3, "Jambi": 4,
		"Sumatera Selatan": 5, "Bengkulu": 6, "Lampung": 7, "Kepulauan Bangka Belitung": 8,
		"Kepulauan Riau": 9, "DKI Jakarta": 10, "Jawa Barat": 11, "Jawa Tengah": 12,
		"DI Yogyakarta": 13, "Jawa Timur": 14, "Banten": 15, "Bali": 16,
		"Nusa Tenggara Barat": 17, "Nusa Tenggara Timur": 18, "Kalimantan Barat": 19,
		"Kalimantan Tengah": 20, "Kalimantan Selatan": 21, "Kalimantan Timur": 22,
		"Kalimantan Utara": 23, "Sulawesi Utara": 24, "Sulawesi Tengah": 25,
		"Sulawesi Selatan": 26, "Sulawesi Tenggara": 27, "Gorontalo": 28,
		"Sulawesi Barat": 29, "Maluku": 30, "Maluku Utara": 31, "Papua Barat": 32, "Papua": 33,
	}
)

// ModelProvider evaluates a small dense network loaded from disk.
// It is immutable after construction.
type ModelProvider struct {
	categories map[string]int
	regions    map[string]int
	layers     []Layer
}

// LoadModel reads JSON weights from path.
func LoadModel(path string) (*ModelProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}
	var w Weights
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrModelLoad, path, err)
	}
	return NewModelProvider(w)
}

// NewModelProvider validates layer shapes and builds a provider.
func NewModelProvider(w Weights) (*ModelProvider, error) {
	if len(w.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidModel)
	}
	in := modelInputs
	for i, l := range w.Layers {
		if len(l.Weights) != in {
			return nil, fmt.Errorf("%w: layer %d expects %d inputs, has %d", ErrInvalidModel, i, in, len(l.Weights))
		}
		out := len(l.Bias)
		if out == 0 {
			return nil, fmt.Errorf("%w: layer %d has no units", ErrInvalidModel, i)
		}
		for r, row := range l.Weights {
			if len(row) != out {
				return nil, fmt.Errorf("%w: layer %d row %d has %d columns, want %d", ErrInvalidModel, i, r, len(row), out)
			}
		}
		switch l.Activation {
		case ActivationReLU, ActivationSigmoid, ActivationLinear, "":
		default:
			return nil, fmt.Errorf("%w: layer %d activation %q", ErrInvalidModel, i, l.Activation)
		}
		in = out
	}
	if in != 1 {
		return nil, fmt.Errorf("%w: output layer has %d units, want 1", ErrInvalidModel, in)
	}

	categories, regions := w.Categories, w.Regions
	if len(categories) == 0 {
		categories = defaultCategoryIndex
	}
	if len(regions) == 0 {
		regions = defaultRegionIndex
	}
	return &ModelProvider{
		categories: foldKeys(categories),
		regions:    foldKeys(regions),
		layers:     w.Layers,
	}, nil
}

// Name implements Provider.
func (*ModelProvider) Name() string { return "model" }

// Predict runs the network on the encoded (category, region) pair and clamps
// the output into [0,1].
func (m *ModelProvider) Predict(ctx context.Context, category, reg string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out := m.forward(m.features(category, reg))
	if math.IsNaN(out) {
		return 0, fmt.Errorf("%w: non-numeric output for %s/%s", ErrPrediction, category, reg)
	}
	return clamp01(out), nil
}

// features uses index positions when both values are known and hash
// encodings otherwise.
func (m *ModelProvider) features(category, reg string) []float64 {
	ci, okC := m.categories[region.Fold(category)]
	ri, okR := m.regions[region.Fold(reg)]
	if okC && okR {
		return []float64{float64(ci), float64(ri), 0, 0}
	}
	if reg == "" {
		reg = "unknown"
	}
	if category == "" {
		category = "general"
	}
	return []float64{encode(reg), encode(category), 0, 0}
}

func (m *ModelProvider) forward(x []float64) float64 {
	for _, l := range m.layers {
		next := make([]float64, len(l.Bias))
		copy(next, l.Bias)
		for i, xi := range x {
			for j, w := range l.Weights[i] {
				next[j] += xi * w
			}
		}
		for j := range next {
			next[j] = activate(l.Activation, next[j])
		}
		x = next
	}
	return x[0]
}

func activate(name string, v float64) float64 {
	switch name {
	case ActivationReLU:
		return math.Max(0, v)
	case ActivationSigmoid:
		return 1 / (1 + math.Exp(-v))
	default:
		return v
	}
}

func foldKeys(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[region.Fold(k)] = v
	}
	return out
}
