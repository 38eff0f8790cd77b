package commands

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/tensor"
)

// operandFlags are shared by run and gradcheck.
type operandFlags struct {
	op    string
	name  string
	m     int
	k     int
	n     int
	seed  int64
	dtype string
	attrs []string
}

func (f *operandFlags) register(fs *pflag.FlagSet, defaultDType string) {
	fs.StringVar(&f.op, "op", "UserTimesFunction", "operator name")
	fs.StringVar(&f.name, "name", "cli", "function instance name")
	fs.IntVar(&f.m, "m", 4, "rows of the left operand")
	fs.IntVar(&f.k, "k", 8, "shared dimension")
	fs.IntVar(&f.n, "n", 3, "columns of the right operand")
	fs.Int64Var(&f.seed, "seed", 1, "random seed for operand values")
	fs.StringVar(&f.dtype, "dtype", defaultDType, "operand dtype (float32, float64)")
	fs.StringArrayVar(&f.attrs, "attr", nil, "attribute as key=value; values are parsed as YAML scalars")
}

// operands builds the weight parameter [m, k] and the activation input [k, n].
func (f *operandFlags) operands() ([]*graph.Variable, error) {
	dtype, ok := tensor.ParseDataType(f.dtype)
	if !ok {
		return nil, fmt.Errorf("unknown dtype %q", f.dtype)
	}
	if f.m <= 0 || f.k <= 0 || f.n <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got m=%d k=%d n=%d", f.m, f.k, f.n)
	}
	return []*graph.Variable{
		graph.NewParameter("W", tensor.Shape{f.m, f.k}, dtype),
		graph.NewInput("x", tensor.Shape{f.k, f.n}, dtype, true),
	}, nil
}

// values draws uniform values in [-1.5, 1.5] for every operand.
func (f *operandFlags) values(vars []*graph.Variable, device tensor.Device) ([]*tensor.RawTensor, error) {
	rng := rand.New(rand.NewSource(f.seed))
	out := make([]*tensor.RawTensor, len(vars))
	for i, v := range vars {
		t, err := tensor.Uniform(v.Shape(), -1.5, 1.5, v.DType(), device, rng)
		if err != nil {
			return nil, fmt.Errorf("operand %s: %w", v.Name(), err)
		}
		out[i] = t
	}
	return out, nil
}

// parseAttrs turns key=value pairs into a Dictionary. "true" becomes a bool,
// "2" an int, "0.5" a float and anything else a string.
func parseAttrs(pairs []string) (graph.Dictionary, error) {
	dict := graph.Dictionary{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("attribute %q: want key=value", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("attribute %s: %w", key, err)
		}
		if value == nil {
			value = raw
		}
		dict[key] = value
	}
	return dict, nil
}

func sumOf(t *tensor.RawTensor) float64 {
	var s float64
	for _, v := range t.Float64s() {
		s += v
	}
	return s
}

func l2Norm(t *tensor.RawTensor) float64 {
	var s float64
	for _, v := range t.Float64s() {
		s += v * v
	}
	return math.Sqrt(s)
}

// writeMetrics dumps the app's counters in the Prometheus text format.
func writeMetrics(w io.Writer) error {
	if appCtx.Gatherer == nil {
		return nil
	}
	families, err := appCtx.Gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
