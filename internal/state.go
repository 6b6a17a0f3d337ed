package internal

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/labstack/gommon/color"
)

type parseError struct {
	kind string
	err  error
	line int
	col  int
}

func (p parseError) String() string {
	if p.line != 0 && p.col != 0 {
		return fmt.Sprintf("[%d:%d] %s: %s", p.line, p.col, p.kind, p.err.Error())
	}
	return fmt.Sprintf("%s: %s", p.kind, p.err.Error())
}

// interpreterState carries everything one run of the pipeline
// produces: source text, token list, statement list, the resolver's
// depth map, and the diagnostics recorded along the way.
type interpreterState struct {
	source string
	tokens []token
	stmts  []stmt
	locals map[expr]int

	errors          []parseError
	hadError        bool
	hadRuntimeError bool

	printer IPrinter
}

func newInterpreterState(source string, p IPrinter) *interpreterState {
	return &interpreterState{
		source:  source,
		locals:  make(map[expr]int),
		printer: p,
	}
}

// reset prepares the state for another source fragment. The REPL
// calls this between lines; the depth map is kept because it is
// keyed by node identity and nodes never repeat.
func (s *interpreterState) reset(source string) {
	s.source = source
	s.tokens = nil
	s.stmts = nil
	s.errors = nil
	s.hadError = false
	s.hadRuntimeError = false
}

func (s *interpreterState) lexError(err error, line, col int, detail string) {
	if detail != "" {
		err = fmt.Errorf("%s: %s", err.Error(), detail)
	}
	s.errors = append(s.errors, parseError{kind: "", err: err, line: line, col: col})
	s.hadError = true
}

func (s *interpreterState) errorAt(line, col int, err error) {
	s.errors = append(s.errors, parseError{kind: "", err: err, line: line, col: col})
	s.hadError = true
}

// fatalError records a syntax error and aborts the current
// statement; the parser recovers and synchronizes.
func (s *interpreterState) fatalError(err error, line, col int) {
	s.errorAt(line, col, err)
	panic(err)
}

func (s *interpreterState) semanticErr(tk *token, err error) {
	s.errors = append(s.errors, parseError{kind: "SemanticError", err: err, line: tk.line, col: tk.column})
	s.hadError = true
}

// runtimeErr records a runtime diagnostic and hands back the
// in-language error value that propagates through evaluation.
func (s *interpreterState) runtimeErr(err error, tk *token) loxError {
	line, col := 0, 0
	if tk != nil {
		line, col = tk.line, tk.column
	}
	s.errors = append(s.errors, parseError{kind: "RuntimeError", err: err, line: line, col: col})
	s.hadRuntimeError = true
	return loxError{message: err.Error()}
}

func (s *interpreterState) valid() bool {
	return len(s.errors) == 0
}

// PrintErrors reports every recorded diagnostic and returns
// whether there was anything to report.
func (s *interpreterState) PrintErrors() bool {
	for _, e := range s.errors {
		msg := e.String()
		if e.kind == "RuntimeError" {
			msg = color.Red(msg)
		} else {
			msg = color.Yellow(msg)
		}
		s.printer.Fprintln(os.Stderr, msg)
	}
	return len(s.errors) != 0
}

// Err folds every recorded diagnostic into a single error.
func (s *interpreterState) Err() error {
	var result *multierror.Error
	for _, e := range s.errors {
		result = multierror.Append(result, errors.New(e.String()))
	}
	return result.ErrorOrNil()
}

// Lexer errors
var errUnexpectedChar = errors.New("Unexpected character")
var errUnterminatedString = errors.New("Unterminated string.")
var errUnterminatedComment = errors.New("Unterminated multi-line comment.")
var errUnknownEscape = errors.New("Unknown escape")
var errMalformedNumber = errors.New("Malformed number: exponent has no digits.")

// Parser errors
var errExpectExpression = errors.New("Expect expression.")
var errUnclosedParen = errors.New("Expect ')' after expression.")
var errExpectedSemicolon = errors.New("Expect ';' after statement.")
var errExpectedClassName = errors.New("Expect class name.")
var errExpectedSuperclassName = errors.New("Expect superclass name.")
var errExpectedVariableName = errors.New("Expect variable name.")
var errExpectedParameterName = errors.New("Expect parameter name.")
var errExpectedPropertyName = errors.New("Expect property name after '.'.")
var errExpectedMethodName = errors.New("Expect method name after 'super.'.")
var errUnclosedBlock = errors.New("Expect '}' after block.")
var errMaxArguments = errors.New("Can't have more than 255 arguments.")
var errMaxParameters = errors.New("Can't have more than 255 parameters.")
var errInvalidAssignTarget = errors.New("Invalid assignment target.")

// Runtime errors
var errUndefinedVar = errors.New("Undefined variable")
var errOnlyCallable = errors.New("Can only call functions and classes.")
var errOnlyInstancesHaveProps = errors.New("Only instances and classes have properties.")
var errOnlyInstancesHaveFields = errors.New("Only instances and classes have fields.")
var errUndefinedProp = errors.New("Undefined property")
var errSuperclassNotClass = errors.New("Superclass must be a class.")
var errOnlyMethodsOnClass = errors.New("Only methods can be set on a class.")
var errDivisionByZero = errors.New("Division by zero.")
var errBreakOutsideLoop = errors.New("Break statement not within a loop.")
var errUninitialized = errors.New("Uninitialized variable.")
