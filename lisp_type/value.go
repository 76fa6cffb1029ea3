package lisptype

import "fmt"

// this is the type enum for values
type ValueType int

// these are all the valid types for a value
const (
	Unit     ValueType = iota // the empty value, e.g. an if with no else branch
	Integer                   // an int64
	Float64                   // a float64
	Boolean                   // true or false
	String                    // a string of characters
	Function                  // a callable, the only reference typed value
)

// Callable is anything that can sit at the head of a call.
// closures made by fun and the arithmetic builtins both satisfy it.
type Callable interface {
	Name() string                     // name used in diagnostics
	Arity() int                       // number of parameters, -1 for variadic
	Call(args []Value) (Value, error) // arguments are already evaluated
}

// this is a value struct.
// the payload in Value always matches Type: int64, float64,
// bool, string or Callable. Unit carries nothing.
type Value struct {
	Type  ValueType // the type of this value
	Value any       // the value (if any)
}

func UnitValue() Value             { return Value{Type: Unit} }
func NewInt(v int64) Value         { return Value{Type: Integer, Value: v} }
func NewFloat(v float64) Value     { return Value{Type: Float64, Value: v} }
func NewBool(v bool) Value         { return Value{Type: Boolean, Value: v} }
func NewStr(v string) Value        { return Value{Type: String, Value: v} }
func NewFunction(c Callable) Value { return Value{Type: Function, Value: c} }

func (v Value) Int() int64             { return v.Value.(int64) }
func (v Value) Float() float64         { return v.Value.(float64) }
func (v Value) Bool() bool             { return v.Value.(bool) }
func (v Value) Str() string            { return v.Value.(string) }
func (v Value) Callable() Callable     { return v.Value.(Callable) }
func (v Value) IsNumeric() bool        { return v.Type == Integer || v.Type == Float64 }
func (v Value) Equal(other Value) bool { return v.Type == other.Type && v.Value == other.Value }

// AsFloat widens a numeric value, used when ints and floats are mixed.
func (v Value) AsFloat() float64 {
	if v.Type == Integer {
		return float64(v.Int())
	}
	return v.Float()
}

// TypeName is the tag debug prints in front of a value.
func (v Value) TypeName() string {
	return v.Type.String()
}

func (t ValueType) String() string {
	switch t {
	case Unit:
		return "unit"
	case Integer:
		return "int"
	case Float64:
		return "float"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Function:
		return "function"
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}
