package userfunc

import "github.com/born-ml/born-ext/internal/graph"

// Exported entry point names. A plugin built from cmd/extlib exposes functions
// under exactly these symbols.
const (
	BinGemm2A1BSymbol = "CreateBinGemm2A1B"
	UserTimesSymbol   = "CreateUserTimesFunction"
)

// CreateBinGemm2A1B constructs a BinMul2A1B from operands[0] (weights) and
// operands[1] (activations). Constructor errors are returned unchanged.
func CreateBinGemm2A1B(operands []*graph.Variable, attributes graph.Dictionary, name string) (graph.Function, error) {
	fn, err := NewBinMul2A1B(operands, attributes, name)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// CreateUserTimesFunction constructs a UserTimes from operands[0] and operands[1].
func CreateUserTimesFunction(operands []*graph.Variable, attributes graph.Dictionary, name string) (graph.Function, error) {
	fn, err := NewUserTimes(operands, attributes, name)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// Compile-time checks that the entry points match the factory signature.
var (
	_ graph.Factory = CreateBinGemm2A1B
	_ graph.Factory = CreateUserTimesFunction
)

// Entry describes one exported factory.
type Entry struct {
	OpName  string
	Symbol  string
	Factory graph.Factory
}

// Entries lists the factories of this package in a stable order.
func Entries() []Entry {
	return []Entry{
		{OpName: BinMul2A1BOpName, Symbol: BinGemm2A1BSymbol, Factory: CreateBinGemm2A1B},
		{OpName: UserTimesOpName, Symbol: UserTimesSymbol, Factory: CreateUserTimesFunction},
	}
}
