package internal

import (
	"fmt"
	"os"
	"strings"
)

type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precComma
	precTernary
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseFn func(c *compiler)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// rules is built lazily: the entries reference compiler methods
// that themselves call getRule.
var rules map[tokenType]parseRule

func getRule(tt tokenType) parseRule {
	if rules == nil {
		rules = map[tokenType]parseRule{
			tkLeftParen:    {(*compiler).grouping, nil, precNone},
			tkMinus:        {(*compiler).unary, (*compiler).binary, precTerm},
			tkPlus:         {nil, (*compiler).binary, precTerm},
			tkSlash:        {nil, (*compiler).binary, precFactor},
			tkStar:         {nil, (*compiler).binary, precFactor},
			tkBang:         {(*compiler).unary, nil, precNone},
			tkQuestion:     {nil, (*compiler).ternary, precTernary},
			tkBangEqual:    {nil, (*compiler).equality, precEquality},
			tkEqualEqual:   {nil, (*compiler).equality, precEquality},
			tkGreater:      {nil, (*compiler).binary, precComparison},
			tkGreaterEqual: {nil, (*compiler).binary, precComparison},
			tkLess:         {nil, (*compiler).binary, precComparison},
			tkLessEqual:    {nil, (*compiler).binary, precComparison},
			tkNumber:       {(*compiler).number, nil, precNone},
			tkString:       {(*compiler).stringLiteral, nil, precNone},
			tkFalse:        {(*compiler).literal, nil, precNone},
			tkTrue:         {(*compiler).literal, nil, precNone},
			tkNil:          {(*compiler).literal, nil, precNone},
		}
	}
	return rules[tt]
}

// compiler lowers a token stream straight to bytecode with the
// same precedence climbing the AST parser performs. On error it
// keeps scanning to surface more diagnostics but refuses to hand
// over a runnable chunk.
type compiler struct {
	tokens    []token
	scanIndex int
	previous  token
	current   token

	chunk   *chunk
	printer IPrinter

	hadError  bool
	panicMode bool
}

func compileSource(source string, p IPrinter) (*chunk, bool) {
	state := newInterpreterState(source, p)
	lx := &lexer{state: state, line: 1, column: 1}
	lx.scan()

	c := &compiler{
		tokens:  state.tokens,
		chunk:   &chunk{},
		printer: p,
	}
	if state.PrintErrors() {
		c.hadError = true
	}

	c.advance()
	c.expression()
	c.consume(tkEOF, "Expect end of expression.")
	c.endCompiler()
	return c.chunk, !c.hadError
}

func (c *compiler) advance() {
	c.previous = c.current
	if c.scanIndex < len(c.tokens) {
		c.current = c.tokens[c.scanIndex]
		c.scanIndex++
	}
}

func (c *compiler) consume(tt tokenType, message string) {
	if c.current.token == tt {
		if c.current.token != tkEOF {
			c.advance()
		}
		return
	}
	c.errorAt(c.current, message)
}

func (c *compiler) error(message string) {
	c.errorAt(c.previous, message)
}

func (c *compiler) errorAt(tk token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	var where string
	if tk.token == tkEOF {
		where = " at end"
	} else {
		where = fmt.Sprintf(" at '%s'", tk.lexeme)
	}
	c.printer.Fprintf(os.Stderr, "[%d:%d] Error%s: %s\n", tk.line, tk.column, where, message)
	c.hadError = true
}

func (c *compiler) emitByte(b byte) {
	c.chunk.write(b, c.previous.line, c.previous.column)
}

func (c *compiler) emitBytes(bytes ...byte) {
	for _, b := range bytes {
		c.emitByte(b)
	}
}

func (c *compiler) emitConstant(value R) {
	index := c.chunk.addConstant(value)
	if index <= 0xFF {
		c.emitBytes(opConstant, byte(index))
	} else if index <= 0xFFFFFF {
		c.emitBytes(opConstantLong,
			byte((index>>16)&0xFF),
			byte((index>>8)&0xFF),
			byte(index&0xFF))
	} else {
		c.error("Too many constants in one chunk.")
	}
}

func (c *compiler) endCompiler() {
	c.emitByte(opReturn)
	if debugTraceExecution && !c.hadError {
		var out strings.Builder
		c.chunk.disassemble(&out, "code")
		log.Debug("\n" + out.String())
	}
}

func (c *compiler) expression() {
	c.parsePrecedence(precAssignment)
}

// parsePrecedence applies the current token's prefix rule, then
// loops infix rules while the lookahead binds at least this
// tightly.
func (c *compiler) parsePrecedence(prec precedence) {
	c.advance()

	prefix := getRule(c.previous.token).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}
	prefix(c)

	for prec <= getRule(c.current.token).precedence {
		c.advance()
		infix := getRule(c.previous.token).infix
		infix(c)
	}
}

func (c *compiler) number() {
	value, err := parseNumber(c.previous.lexeme)
	if err != nil {
		c.error(err.Error())
		return
	}
	c.emitConstant(value)
}

func (c *compiler) stringLiteral() {
	c.emitConstant(loxString(c.previous.lexeme))
}

func (c *compiler) literal() {
	switch c.previous.token {
	case tkFalse:
		c.emitByte(opFalse)
	case tkTrue:
		c.emitByte(opTrue)
	case tkNil:
		c.emitByte(opNil)
	default:
		c.error("Unknown literal.")
	}
}

func (c *compiler) grouping() {
	c.expression()
	c.consume(tkRightParen, "Expect ')' after expression.")
}

func (c *compiler) unary() {
	operator := c.previous.token
	c.parsePrecedence(precUnary)
	switch operator {
	case tkMinus:
		c.emitByte(opNegate)
	case tkBang:
		c.emitByte(opNot)
	default:
		c.error("Unknown unary operator.")
	}
}

func (c *compiler) binary() {
	operator := c.previous.token
	rule := getRule(operator)
	c.parsePrecedence(rule.precedence + 1)

	switch operator {
	case tkPlus:
		c.emitByte(opAdd)
	case tkMinus:
		c.emitByte(opSubtract)
	case tkStar:
		c.emitByte(opMultiply)
	case tkSlash:
		c.emitByte(opDivide)
	case tkGreater:
		c.emitByte(opGreater)
	case tkGreaterEqual:
		c.emitBytes(opLess, opNot)
	case tkLess:
		c.emitByte(opLess)
	case tkLessEqual:
		c.emitBytes(opGreater, opNot)
	}
}

func (c *compiler) equality() {
	operator := c.previous.token
	rule := getRule(operator)
	c.parsePrecedence(rule.precedence + 1)

	switch operator {
	case tkEqualEqual:
		c.emitByte(opEqual)
	case tkBangEqual:
		c.emitBytes(opEqual, opNot)
	}
}

// ternary parses both branches for precedence correctness; with no
// jump opcodes in the instruction set there is no selection to
// emit, so only the tree walker gives '?:' its runtime meaning.
func (c *compiler) ternary() {
	rule := getRule(c.previous.token)
	c.parsePrecedence(rule.precedence)
	c.consume(tkColon, "Expect ':' in ternary operator.")
	c.parsePrecedence(rule.precedence)
}
