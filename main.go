package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	lisp "github.com/ian-bird/flisp/lisp"
	lisptype "github.com/ian-bird/flisp/lisp_type"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("flisp", flag.ContinueOnError)
	source := fs.String("c", "", "evaluate a source file")
	emit := fs.String("emit", "", "compile the arithmetic program in the source file given as argument into this container file")
	trace := fs.Bool("trace", false, "print the compiled opcodes")
	container := fs.String("run", "", "execute a container file in the vm")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	switch {
	case *source != "":
		frame := lisp.NewTopLevelFrame()
		if _, err := lisp.LoadFile(*source, frame, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	case *emit != "":
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: flisp -emit out.bin [-trace] file.lisp")
			return 2
		}
		if err := compileFile(fs.Arg(0), *emit, *trace); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	case *container != "":
		if err := runContainer(*container, *trace); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		frame := lisp.NewTopLevelFrame()
		if err := lisp.Repl(frame); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}
	return 0
}

func compileFile(sourcePath, outPath string, trace bool) error {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return lisptype.IOError.Wrap(err, "read %s", sourcePath)
	}
	program, err := lisp.Read(string(src))
	if err != nil {
		return err
	}
	emitter, err := lisp.CompileProgram(program)
	if err != nil {
		return err
	}
	if trace {
		fmt.Print(emitter.Trace())
	}

	var buf bytes.Buffer
	if err := emitter.Serialize(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return lisptype.IOError.Wrap(err, "write %s", outPath)
	}
	return nil
}

func runContainer(path string, trace bool) error {
	f, err := os.Open(path)
	if err != nil {
		return lisptype.IOError.Wrap(err, "open %s", path)
	}
	defer f.Close()

	c, err := lisp.ReadContainer(f)
	if err != nil {
		return err
	}
	if trace {
		fmt.Print(lisp.Disassemble(c.Code))
	}
	result, err := lisp.Exec(c.Code)
	if err != nil {
		return err
	}
	if result.HasValue {
		fmt.Println(result.Value)
	}
	return nil
}
