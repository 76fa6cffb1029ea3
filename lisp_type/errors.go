package lisptype

import "github.com/joomcode/errorx"

// every failure the core can report lives in this namespace,
// so a host can switch on the type instead of parsing messages
var Errors = errorx.NewNamespace("flisp")

var (
	UnboundName    = Errors.NewType("unbound_name")     // a symbol has no binding anywhere in the chain
	TypeMismatch   = Errors.NewType("type_mismatch")    // a value of the wrong type was used
	ArityMismatch  = Errors.NewType("arity_mismatch")   // wrong number of operands for a call or form
	DivisionByZero = Errors.NewType("division_by_zero") // a divisor evaluated to zero
	RangeError     = Errors.NewType("range_error")      // an immediate or slot does not fit its encoding
	IOError        = Errors.NewType("io_error")         // a sink or source failed
	SyntaxError    = Errors.NewType("syntax_error")     // the reader could not build a tree
)

// properties carry the structured detail of an error
var (
	PropertyName     = errorx.RegisterProperty("name")     // offending symbol or form name
	PropertyValue    = errorx.RegisterProperty("value")    // offending value
	PropertyExpected = errorx.RegisterProperty("expected") // operand count wanted
	PropertyGot      = errorx.RegisterProperty("got")      // operand count supplied
	PropertyOffset   = errorx.RegisterProperty("offset")   // byte offset into source or bytecode
)

// NewUnbound reports a lookup or assignment of a name nothing defines.
func NewUnbound(name string) error {
	return UnboundName.New("no binding found for symbol '%s'", name).
		WithProperty(PropertyName, name)
}

// NewArity reports that name was given got operands but wants expected.
func NewArity(name string, expected, got int) error {
	return ArityMismatch.New("%s expects %d argument(s), got %d", name, expected, got).
		WithProperty(PropertyName, name).
		WithProperty(PropertyExpected, expected).
		WithProperty(PropertyGot, got)
}
