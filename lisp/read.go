package lisp

import (
	"strconv"
	"strings"

	"github.com/joomcode/errorx"

	lisptype "github.com/ian-bird/flisp/lisp_type"
)

// set on syntax errors caused by running out of input,
// the repl uses it to ask for another line instead of failing
var propertyIncomplete = errorx.RegisterProperty("incomplete")

type reader struct {
	src string
	pos int
}

// Read parses every top-level form in src and wraps them in a single list,
// which is the shape EvalProgram and CompileProgram expect.
func Read(src string) (lisptype.Expr, error) {
	r := &reader{src: src}
	forms := make([]lisptype.Expr, 0)
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return lisptype.List(forms...), nil
		}
		if r.src[r.pos] == ')' {
			return lisptype.Expr{}, r.errorf("unexpected ')'")
		}
		form, err := r.read()
		if err != nil {
			return lisptype.Expr{}, err
		}
		forms = append(forms, form)
	}
}

// ReadOne parses exactly one form, trailing input other than
// whitespace and comments is an error.
func ReadOne(src string) (lisptype.Expr, error) {
	program, err := Read(src)
	if err != nil {
		return lisptype.Expr{}, err
	}
	if len(program.Children) != 1 {
		return lisptype.Expr{}, lisptype.SyntaxError.New("expected one form, found %d", len(program.Children)).
			WithProperty(lisptype.PropertyGot, len(program.Children))
	}
	return program.Children[0], nil
}

// IsIncomplete reports whether err came from input that ended
// inside a list or a string.
func IsIncomplete(err error) bool {
	v, ok := errorx.ExtractProperty(err, propertyIncomplete)
	return ok && v == true
}

func (r *reader) errorf(format string, args ...any) *errorx.Error {
	return lisptype.SyntaxError.New(format, args...).WithProperty(lisptype.PropertyOffset, r.pos)
}

// skips whitespace and ; comments
func (r *reader) skipSpace() {
	for r.pos < len(r.src) {
		switch c := r.src[r.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			r.pos++
		case c == ';':
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
		default:
			return
		}
	}
}

// reads the form starting at the current position
func (r *reader) read() (lisptype.Expr, error) {
	switch r.src[r.pos] {
	// lists start with open paren
	case '(':
		return r.readList()
	// strings start with quotes
	case '"':
		return r.readString()
	}
	return r.readAtom()
}

// read list will call read repeatedly as it traverses
// its contents, until it hits a closing parens.
func (r *reader) readList() (lisptype.Expr, error) {
	start := r.pos
	r.pos++
	children := make([]lisptype.Expr, 0)
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return lisptype.Expr{}, lisptype.SyntaxError.New("could not find matching closing parens").
				WithProperty(lisptype.PropertyOffset, start).
				WithProperty(propertyIncomplete, true)
		}
		if r.src[r.pos] == ')' {
			r.pos++
			return lisptype.List(children...), nil
		}
		child, err := r.read()
		if err != nil {
			return lisptype.Expr{}, err
		}
		children = append(children, child)
	}
}

// read a string in and create a new literal for it
func (r *reader) readString() (lisptype.Expr, error) {
	start := r.pos
	r.pos++
	var b strings.Builder
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		r.pos++
		switch c {
		case '"':
			return lisptype.Str(b.String()), nil
		case '\\':
			if r.pos >= len(r.src) {
				break
			}
			esc := r.src[r.pos]
			r.pos++
			switch esc {
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			default:
				r.pos--
				return lisptype.Expr{}, r.errorf("unknown escape '\\%c'", esc)
			}
		default:
			b.WriteByte(c)
		}
	}
	return lisptype.Expr{}, lisptype.SyntaxError.New("could not find matching closing double quote").
		WithProperty(lisptype.PropertyOffset, start).
		WithProperty(propertyIncomplete, true)
}

// reads a number, boolean or symbol, whichever the token spells
func (r *reader) readAtom() (lisptype.Expr, error) {
	start := r.pos
	for r.pos < len(r.src) && !isDelimiter(r.src[r.pos]) {
		r.pos++
	}
	token := r.src[start:r.pos]

	switch {
	case token == "#t":
		return lisptype.Bool(true), nil
	case token == "#f":
		return lisptype.Bool(false), nil
	case token[0] == '#':
		r.pos = start
		return lisptype.Expr{}, r.errorf("unknown literal '%s'", token)
	case looksNumeric(token):
		if strings.ContainsAny(token, ".eE") {
			f, err := strconv.ParseFloat(token, 64)
			if err != nil {
				r.pos = start
				return lisptype.Expr{}, r.errorf("malformed number '%s'", token)
			}
			return lisptype.Float(f), nil
		}
		i, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			r.pos = start
			return lisptype.Expr{}, r.errorf("malformed integer '%s'", token)
		}
		return lisptype.Int(i), nil
	}
	// of none of these matched, then its a symbol
	return lisptype.Sym(token), nil
}

func isDelimiter(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')' || c == '"' || c == ';'
}

// numbers start with a digit, or a minus sign followed by one
func looksNumeric(token string) bool {
	if token[0] >= '0' && token[0] <= '9' {
		return true
	}
	return len(token) >= 2 && (token[0] == '-' || token[0] == '+' || token[0] == '.') &&
		token[1] >= '0' && token[1] <= '9'
}
