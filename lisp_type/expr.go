package lisptype

// this is the type enum for expressions
type ExprType int

// these are all the node kinds the reader produces
const (
	SymbolExpr  ExprType = iota // an identifier reference
	IntegerExpr                 // an int64 literal
	FloatExpr                   // a float64 literal
	BooleanExpr                 // #t or #f
	StringExpr                  // a double quoted literal
	ListExpr                    // the only compound form
)

func (t ExprType) String() string {
	switch t {
	case SymbolExpr:
		return "symbol"
	case IntegerExpr:
		return "integer"
	case FloatExpr:
		return "float"
	case BooleanExpr:
		return "boolean"
	case StringExpr:
		return "string"
	case ListExpr:
		return "list"
	}
	return "unknown"
}

// an expression is a node in the syntax tree.
// atoms keep their payload in Value, lists keep their elements in Children.
// nothing mutates a node once it has been built, so subtrees
// can be shared with closures that outlive the walk that made them.
type Expr struct {
	Type     ExprType // the kind of node
	Value    any      // symbol name or literal payload, nil for lists
	Children []Expr   // list elements, nil for atoms
}

func Sym(name string) Expr { return Expr{Type: SymbolExpr, Value: name} }
func Int(v int64) Expr     { return Expr{Type: IntegerExpr, Value: v} }
func Float(v float64) Expr { return Expr{Type: FloatExpr, Value: v} }
func Bool(v bool) Expr     { return Expr{Type: BooleanExpr, Value: v} }
func Str(v string) Expr    { return Expr{Type: StringExpr, Value: v} }
func List(xs ...Expr) Expr { return Expr{Type: ListExpr, Children: xs} }

func (e Expr) Name() string        { return e.Value.(string) }
func (e Expr) IntValue() int64     { return e.Value.(int64) }
func (e Expr) FloatValue() float64 { return e.Value.(float64) }
func (e Expr) BoolValue() bool     { return e.Value.(bool) }
func (e Expr) StrValue() string    { return e.Value.(string) }

// Head returns the symbol naming a list form, if the list starts with one.
func (e Expr) Head() (string, bool) {
	if e.Type != ListExpr || len(e.Children) == 0 || e.Children[0].Type != SymbolExpr {
		return "", false
	}
	return e.Children[0].Name(), true
}
