package lisp

import (
	"strconv"
	"strings"

	lisptype "github.com/ian-bird/flisp/lisp_type"
)

// escapes special characters in string
func stringify(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}

// floats always show a decimal point so they never read back as ints
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func formatBool(b bool) string {
	if b {
		return "#t"
	}
	return "#f"
}

// converts a value to the text the reader would accept back,
// functions print as an opaque tag
func Print(v lisptype.Value) string {
	switch v.Type {
	case lisptype.Unit:
		return "()"
	case lisptype.Integer:
		return strconv.FormatInt(v.Int(), 10)
	case lisptype.Float64:
		return formatFloat(v.Float())
	case lisptype.Boolean:
		return formatBool(v.Bool())
	case lisptype.String:
		return "\"" + stringify(v.Str()) + "\""
	case lisptype.Function:
		return "#<function " + v.Callable().Name() + ">"
	}
	return "#<unknown>"
}

// DebugString is the type tagged line the debug form prints.
// strings print raw here, not quoted.
func DebugString(v lisptype.Value) string {
	switch v.Type {
	case lisptype.Boolean:
		return "boolean: " + strconv.FormatBool(v.Bool())
	case lisptype.String:
		return "string: " + v.Str()
	case lisptype.Function:
		return "function: " + v.Callable().Name()
	}
	return v.TypeName() + ": " + Print(v)
}

// converts an expression back to source text recursively,
// representing lists by wrapping them with parenthesis
func PrintExpr(e lisptype.Expr) string {
	switch e.Type {
	case lisptype.SymbolExpr:
		return e.Name()
	case lisptype.IntegerExpr:
		return strconv.FormatInt(e.IntValue(), 10)
	case lisptype.FloatExpr:
		return formatFloat(e.FloatValue())
	case lisptype.BooleanExpr:
		return formatBool(e.BoolValue())
	case lisptype.StringExpr:
		return "\"" + stringify(e.StrValue()) + "\""
	case lisptype.ListExpr:
		parts := make([]string, 0, len(e.Children))
		for _, child := range e.Children {
			parts = append(parts, PrintExpr(child))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "#<unknown>"
}
