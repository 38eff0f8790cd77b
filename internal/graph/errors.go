package graph

import "errors"

// Construction and evaluation errors returned by user function constructors.
// Callers match them with errors.Is; messages carry the details.
var (
	ErrOperandCount     = errors.New("wrong number of operands")
	ErrNilOperand       = errors.New("nil operand")
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrDTypeMismatch    = errors.New("dtype mismatch")
	ErrAttributeType    = errors.New("attribute has wrong type")
	ErrInvalidAttribute = errors.New("invalid attribute value")
	ErrUnboundInput     = errors.New("input has no bound value")
)
