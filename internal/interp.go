package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/labstack/gommon/color"
)

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
	Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error)
	Fprintln(w io.Writer, a ...interface{}) (n int, err error)
}

// Exit codes, BSD sysexits style.
const (
	ExitOK           = 0
	ExitUsage        = 64
	ExitDataErr      = 65
	ExitSoftware     = 70
	ExitFileNotFound = 74
)

const replLineMax = 1024

// RunSourceWithPrinter runs source code on a fresh interpreter
// instance and reports whether it finished without diagnostics.
// Used by tests; the driver goes through RunFile and RunPrompt.
func RunSourceWithPrinter(source string, p IPrinter) bool {
	return runSource(source, p) == ExitOK
}

func runSource(source string, p IPrinter) int {
	state := newInterpreterState(source, p)

	lx := &lexer{state: state, line: 1, column: 1}
	lx.scan()
	log.WithField("tokens", len(state.tokens)).Debug("scan complete")
	if state.PrintErrors() {
		return ExitDataErr
	}

	ps := &parser{state: state}
	ps.parse()
	log.WithField("statements", len(state.stmts)).Debug("parse complete")
	if state.PrintErrors() {
		return ExitDataErr
	}

	rs := newResolver(state)
	rs.resolve()
	if state.PrintErrors() {
		return ExitDataErr
	}

	ex := newExec(state)
	ex.interpret()
	if state.PrintErrors() {
		if err := state.Err(); err != nil {
			log.WithError(err).Debug("run aborted")
		}
		return ExitSoftware
	}
	return ExitOK
}

// RunFile executes a script and returns the process exit code.
func RunFile(path string, p IPrinter) int {
	data, err := os.ReadFile(path)
	if err != nil {
		p.Fprintln(os.Stderr, fmt.Sprintf("Could not open file %q.", path))
		return ExitFileNotFound
	}
	return runSource(string(data), p)
}

// RunFileVM executes a script on the bytecode back end.
func RunFileVM(path string, p IPrinter) int {
	data, err := os.ReadFile(path)
	if err != nil {
		p.Fprintln(os.Stderr, fmt.Sprintf("Could not open file %q.", path))
		return ExitFileNotFound
	}
	machine := newVM(p)
	switch machine.interpretSource(string(data)) {
	case interpretCompileError:
		return ExitDataErr
	case interpretRuntimeError:
		return ExitSoftware
	}
	return ExitOK
}

// RunPrompt reads lines, tries each as an expression first with
// errors silenced, and falls back to a statement sequence. The
// environment persists across lines; error flags do not.
func RunPrompt(in io.Reader, p IPrinter) {
	reader := bufio.NewScanner(in)
	reader.Buffer(make([]byte, replLineMax), replLineMax)

	state := newInterpreterState("", p)
	ex := newExec(state)

	for {
		p.Fprintf(os.Stdout, "%s", color.Cyan("> "))
		if !reader.Scan() {
			p.Fprintf(os.Stdout, "\n")
			break
		}
		runLine(state, ex, reader.Text())
	}
}

func runLine(state *interpreterState, ex *exec, line string) {
	p := state.printer

	// Expression attempt, errors silenced.
	state.reset(line)
	lx := &lexer{state: state, line: 1, column: 1}
	lx.scan()
	if !state.hadError {
		ps := &parser{state: state}
		if expression := ps.parseExpression(); expression != nil && !state.hadError {
			rs := newResolver(state)
			rs.resolveExpr(expression)
			if state.PrintErrors() {
				return
			}
			value := ex.evaluate(expression)
			if !state.PrintErrors() {
				p.Println(stringify(value))
			}
			return
		}
	}

	// Statement fallback.
	state.reset(line)
	lx = &lexer{state: state, line: 1, column: 1}
	lx.scan()
	if state.PrintErrors() {
		return
	}
	ps := &parser{state: state}
	ps.parse()
	if state.PrintErrors() {
		return
	}
	rs := newResolver(state)
	rs.resolve()
	if state.PrintErrors() {
		return
	}
	ex.loopControl = loopNone
	ex.interpret()
	state.PrintErrors()
}
