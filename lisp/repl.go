package lisp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	lisptype "github.com/ian-bird/flisp/lisp_type"
)

const (
	historyFile = ".flisp_history"
	promptMain  = "flisp> "
	promptCont  = "  ...> "
)

// LoadFile reads a source file and evaluates its forms in order
// against frame. Evaluation stops at the first failing form.
func LoadFile(fileName string, frame *lisptype.Frame, debug io.Writer) (lisptype.Value, error) {
	bytes, err := os.ReadFile(fileName)
	if err != nil {
		return lisptype.UnitValue(), lisptype.IOError.Wrap(err, "load %s", fileName)
	}
	program, err := Read(string(bytes))
	if err != nil {
		return lisptype.UnitValue(), err
	}
	return NewInterpreter(debug).EvalProgram(program, frame)
}

// Repl runs an interactive session against frame until end of input
// or :quit. Each entry is evaluated on its own, an error is printed and
// the session keeps going with whatever bindings were made before it.
func Repl(frame *lisptype.Frame) error {
	fmt.Println("Lisp interactive session\nCtrl+D exits. Type :quit to exit, :env to list bindings.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	in := NewInterpreter(os.Stdout)
	for {
		code, ok, err := readEntry(ln)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println()
			return nil
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if quit := runEntry(in, frame, code, os.Stdout); quit {
			return nil
		}
	}
}

// reads lines until they form a complete entry. ok is false at end of input.
func readEntry(ln *liner.State) (string, bool, error) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true, nil
		}
		if err != nil {
			return "", false, lisptype.IOError.Wrap(err, "read input")
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if _, err := Read(b.String()); err != nil && IsIncomplete(err) {
			continue
		}
		return b.String(), true, nil
	}
}

// evaluates one repl entry and prints its value or error to out.
// quit is true when the entry asks to end the session.
func runEntry(in *Interpreter, frame *lisptype.Frame, code string, out io.Writer) (quit bool) {
	switch strings.TrimSpace(code) {
	case ":quit":
		return true
	case ":env":
		for _, name := range frame.Names() {
			v, _ := frame.Lookup(name)
			fmt.Fprintf(out, "%v => %v\n", name, Print(v))
		}
		return false
	}

	program, err := Read(code)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return false
	}
	output, err := in.EvalProgram(program, frame)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "%v\n", Print(output))
	return false
}
