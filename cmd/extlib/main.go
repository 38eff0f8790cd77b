// Command extlib is built as a Go plugin exporting the native user function
// factories:
//
//	go build -buildmode=plugin -o extlib.so ./cmd/extlib
//
// Hosts resolve CreateBinGemm2A1B and CreateUserTimesFunction by name, for
// example through a plugins entry in the born-ext config.
package main

import (
	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/userfunc"
)

// CreateBinGemm2A1B constructs a BinMul2A1B operator.
func CreateBinGemm2A1B(operands []*graph.Variable, attributes graph.Dictionary, name string) (graph.Function, error) {
	return userfunc.CreateBinGemm2A1B(operands, attributes, name)
}

// CreateUserTimesFunction constructs a UserTimes operator.
func CreateUserTimesFunction(operands []*graph.Variable, attributes graph.Dictionary, name string) (graph.Function, error) {
	return userfunc.CreateUserTimesFunction(operands, attributes, name)
}

func main() {}
