package internal

import (
	"errors"
	"fmt"
)

const maxCallArguments = 255

// parser builds the statement list on the interpreter state. On a
// syntax error it records the diagnostic, unwinds to the statement
// boundary and synchronizes.
type parser struct {
	current int
	state   *interpreterState
}

func (p *parser) parse() {
	for !p.isAtEnd() {
		if st := p.parseStmt(); st != nil {
			p.state.stmts = append(p.state.stmts, st)
		}
	}
}

func (p *parser) parseStmt() (result stmt) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			p.synchronize()
		}
	}()
	return p.declaration()
}

// parseExpression is the REPL entry point: a single expression
// consuming the whole input, or nil.
func (p *parser) parseExpression() (result expr) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
		}
	}()
	e := p.expression()
	if !p.isAtEnd() {
		return nil
	}
	return e
}

func (p *parser) declaration() stmt {
	if p.match(tkVar) {
		return p.varDeclaration()
	}
	if p.check(tkFun) && p.checkNext(tkIdentifier) {
		p.advance()
		return p.function("function")
	}
	if p.match(tkClass) {
		return p.classDeclaration()
	}
	return p.statement()
}

func (p *parser) varDeclaration() stmt {
	name := p.consume(tkIdentifier, errExpectedVariableName)
	var initializer expr
	if p.match(tkEqual) {
		initializer = p.expression()
	}
	p.consume(tkSemicolon, errExpectedSemicolon)
	return &varStmt{
		name:        name,
		initializer: initializer,
	}
}

func (p *parser) function(kind string) *fnStmt {
	name := p.consume(tkIdentifier, fmt.Errorf("Expect %s name.", kind))
	p.consume(tkLeftParen, fmt.Errorf("Expect '(' after %s name.", kind))
	params := p.parameters()
	p.consume(tkLeftBrace, fmt.Errorf("Expect '{' before %s body.", kind))
	return &fnStmt{
		name:   name,
		params: params,
		body:   p.block(),
	}
}

// parameters parses the list between parens, including the closing
// paren. Overflowing the cap is reported without abandoning the
// declaration.
func (p *parser) parameters() []*token {
	var params []*token
	if !p.check(tkRightParen) {
		for {
			if len(params) >= maxCallArguments {
				overflow := p.peek()
				p.state.errorAt(overflow.line, overflow.column, errMaxParameters)
			}
			params = append(params, p.consume(tkIdentifier, errExpectedParameterName))
			if !p.match(tkComma) {
				break
			}
		}
	}
	p.consume(tkRightParen, errors.New("Expect ')' after parameters."))
	return params
}

func (p *parser) classDeclaration() stmt {
	name := p.consume(tkIdentifier, errExpectedClassName)

	var superclass *variableExpr
	if p.match(tkLess) {
		superclass = &variableExpr{
			name: p.consume(tkIdentifier, errExpectedSuperclassName),
		}
	}

	p.consume(tkLeftBrace, errors.New("Expect '{' before class body."))

	st := &classStmt{
		name:       name,
		superclass: superclass,
	}
	for !p.check(tkRightBrace) && !p.isAtEnd() {
		if p.match(tkClass) {
			st.classMethods = append(st.classMethods, p.function("method"))
		} else if p.check(tkIdentifier) && p.checkNext(tkLeftBrace) {
			getterName := p.advance()
			p.advance() // opening brace
			st.getters = append(st.getters, &getterStmt{
				name: getterName,
				body: p.block(),
			})
		} else {
			st.methods = append(st.methods, p.function("method"))
		}
	}

	p.consume(tkRightBrace, errors.New("Expect '}' after class body."))
	return st
}

func (p *parser) statement() stmt {
	if p.match(tkPrint) {
		return p.printStatement()
	}
	if p.match(tkLeftBrace) {
		return &blockStmt{stmts: p.block()}
	}
	if p.match(tkIf) {
		return p.ifStatement()
	}
	if p.match(tkReturn) {
		return p.returnStatement()
	}
	if p.match(tkWhile) {
		return p.whileStatement()
	}
	if p.match(tkFor) {
		return p.forStatement()
	}
	if p.match(tkBreak) {
		return p.breakStatement()
	}
	return p.expressionStatement()
}

func (p *parser) printStatement() stmt {
	expression := p.expression()
	p.consume(tkSemicolon, errExpectedSemicolon)
	return &printStmt{expression: expression}
}

func (p *parser) block() []stmt {
	var stmts []stmt
	for !p.check(tkRightBrace) && !p.isAtEnd() {
		if st := p.declaration(); st != nil {
			stmts = append(stmts, st)
		}
	}
	p.consume(tkRightBrace, errUnclosedBlock)
	return stmts
}

// ifStatement parses no explicit parens: the usual parenthesized
// condition arrives as a grouping expression.
func (p *parser) ifStatement() stmt {
	condition := p.expression()
	thenBranch := p.declaration()
	var elseBranch stmt
	if p.match(tkElse) {
		elseBranch = p.declaration()
	}
	return &ifStmt{
		condition:  condition,
		thenBranch: thenBranch,
		elseBranch: elseBranch,
	}
}

func (p *parser) returnStatement() stmt {
	keyword := p.previous()
	var value expr
	if !p.check(tkSemicolon) {
		value = p.expression()
	}
	p.consume(tkSemicolon, errExpectedSemicolon)
	return &returnStmt{
		keyword: keyword,
		value:   value,
	}
}

func (p *parser) whileStatement() stmt {
	keyword := p.previous()
	condition := p.expression()
	body := p.statement()
	return &whileStmt{
		keyword:   keyword,
		condition: condition,
		body:      body,
	}
}

// forStatement desugars into blocks and a while:
//
//	{ init; while (cond) { body; inc; } }
func (p *parser) forStatement() stmt {
	keyword := p.previous()
	p.consume(tkLeftParen, errors.New("Expect '(' after 'for'."))

	var initializer stmt
	if p.match(tkSemicolon) {
		initializer = nil
	} else if p.match(tkVar) {
		initializer = p.varDeclaration()
	} else {
		initializer = p.expressionStatement()
	}

	var condition expr
	if !p.check(tkSemicolon) {
		condition = p.expression()
	}
	p.consume(tkSemicolon, errors.New("Expect ';' after loop condition."))

	var increment expr
	if !p.check(tkRightParen) {
		increment = p.expression()
	}
	p.consume(tkRightParen, errors.New("Expect ')' after for clauses."))

	body := p.statement()

	if increment != nil {
		body = &blockStmt{stmts: []stmt{
			body,
			&exprStmt{expression: increment},
		}}
	}

	if condition == nil {
		condition = &literalExpr{value: &token{
			token:  tkTrue,
			lexeme: "true",
			line:   keyword.line,
			column: keyword.column,
		}}
	}

	var loop stmt = &whileStmt{
		keyword:   keyword,
		condition: condition,
		body:      body,
	}

	if initializer != nil {
		loop = &blockStmt{stmts: []stmt{initializer, loop}}
	}

	return loop
}

func (p *parser) breakStatement() stmt {
	keyword := p.previous()
	p.consume(tkSemicolon, errExpectedSemicolon)
	return &breakStmt{keyword: keyword}
}

func (p *parser) expressionStatement() stmt {
	expression := p.expression()
	p.consume(tkSemicolon, errExpectedSemicolon)
	return &exprStmt{expression: expression}
}

func (p *parser) expression() expr {
	return p.assignment()
}

// assignment rewrites the parsed target: a variable becomes an
// assign node, a property get becomes a set.
func (p *parser) assignment() expr {
	expression := p.or()
	if p.match(tkEqual) {
		equals := p.previous()
		value := p.assignment()

		if variable, isVar := expression.(*variableExpr); isVar {
			return &assignExpr{
				name:  variable.name,
				value: value,
			}
		}
		if get, isGet := expression.(*getExpr); isGet {
			return &setExpr{
				object: get.object,
				name:   get.name,
				value:  value,
			}
		}

		p.state.errorAt(equals.line, equals.column, errInvalidAssignTarget)
		return nil
	}
	return expression
}

func (p *parser) or() expr {
	expression := p.and()
	for p.match(tkOr) {
		operator := p.previous()
		right := p.and()
		expression = &logicalExpr{
			left:     expression,
			operator: operator,
			right:    right,
		}
	}
	return expression
}

func (p *parser) and() expr {
	expression := p.comma()
	for p.match(tkAnd) {
		operator := p.previous()
		right := p.comma()
		expression = &logicalExpr{
			left:     expression,
			operator: operator,
			right:    right,
		}
	}
	return expression
}

func (p *parser) comma() expr {
	expression := p.ternary()
	for p.match(tkComma) {
		operator := p.previous()
		right := p.ternary()
		expression = &binaryExpr{
			left:     expression,
			operator: operator,
			right:    right,
		}
	}
	return expression
}

func (p *parser) ternary() expr {
	if p.match(tkQuestion) {
		p.error(p.previous(), errors.New("Expect expression before '?'."))
	}

	expression := p.equality()

	if p.match(tkQuestion) {
		opLeft := p.previous()
		middle := p.or()
		p.consume(tkColon, errors.New("Expect ':' in ternary operator."))
		opRight := p.previous()
		right := p.ternary()
		expression = &ternaryExpr{
			left:    expression,
			opLeft:  opLeft,
			middle:  middle,
			opRight: opRight,
			right:   right,
		}
	}

	return expression
}

func (p *parser) equality() expr {
	if p.match(tkBangEqual, tkEqualEqual) {
		p.error(p.previous(), errors.New("Expect expression before equality operator."))
	}

	expression := p.comparison()
	for p.match(tkBangEqual, tkEqualEqual) {
		operator := p.previous()
		right := p.comparison()
		expression = &binaryExpr{
			left:     expression,
			operator: operator,
			right:    right,
		}
	}
	return expression
}

func (p *parser) comparison() expr {
	if p.match(tkGreater, tkGreaterEqual, tkLess, tkLessEqual) {
		p.error(p.previous(), errors.New("Expect expression before comparison operator."))
	}

	expression := p.term()
	for p.match(tkGreater, tkGreaterEqual, tkLess, tkLessEqual) {
		operator := p.previous()
		right := p.term()
		expression = &binaryExpr{
			left:     expression,
			operator: operator,
			right:    right,
		}
	}
	return expression
}

func (p *parser) term() expr {
	expression := p.factor()
	for p.match(tkMinus, tkPlus) {
		operator := p.previous()
		right := p.factor()
		expression = &binaryExpr{
			left:     expression,
			operator: operator,
			right:    right,
		}
	}
	return expression
}

func (p *parser) factor() expr {
	if p.match(tkSlash, tkStar) {
		p.error(p.previous(), errors.New("Expect expression before factor operator."))
	}

	expression := p.unary()
	for p.match(tkSlash, tkStar) {
		operator := p.previous()
		right := p.unary()
		expression = &binaryExpr{
			left:     expression,
			operator: operator,
			right:    right,
		}
	}
	return expression
}

func (p *parser) unary() expr {
	if p.match(tkBang, tkMinus) {
		operator := p.previous()
		right := p.unary()
		return &unaryExpr{
			operator: operator,
			right:    right,
		}
	}
	return p.call()
}

func (p *parser) call() expr {
	expression := p.primary()
	for {
		if p.match(tkLeftParen) {
			expression = p.finishCall(expression)
		} else if p.match(tkDot) {
			name := p.consume(tkIdentifier, errExpectedPropertyName)
			expression = &getExpr{
				object: expression,
				name:   name,
			}
		} else {
			break
		}
	}
	return expression
}

func (p *parser) finishCall(callee expr) expr {
	var arguments []expr
	if !p.check(tkRightParen) {
		arguments = p.finishArguments(p.expression())
		if len(arguments) > maxCallArguments {
			overflow := p.peek()
			p.state.errorAt(overflow.line, overflow.column, errMaxArguments)
		}
	}
	paren := p.consume(tkRightParen, errors.New("Expect ')' after arguments."))
	return &callExpr{
		callee:    callee,
		paren:     paren,
		arguments: arguments,
	}
}

// finishArguments flattens a top-level comma chain into the
// argument sequence, so commas at call level are separators, not
// the comma operator.
func (p *parser) finishArguments(expression expr) []expr {
	if binary, isBinary := expression.(*binaryExpr); isBinary && binary.operator.token == tkComma {
		return append(p.finishArguments(binary.left), p.finishArguments(binary.right)...)
	}
	return []expr{expression}
}

func (p *parser) primary() expr {
	if p.match(tkFalse, tkTrue, tkNil, tkNumber, tkString) {
		return &literalExpr{value: p.previous()}
	}
	if p.match(tkThis) {
		return &thisExpr{keyword: p.previous()}
	}
	if p.match(tkSuper) {
		keyword := p.previous()
		p.consume(tkDot, errors.New("Expect '.' after 'super'."))
		method := p.consume(tkIdentifier, errExpectedMethodName)
		return &superExpr{
			keyword: keyword,
			method:  method,
		}
	}
	if p.match(tkIdentifier) {
		return &variableExpr{name: p.previous()}
	}
	if p.match(tkLeftParen) {
		expression := p.expression()
		p.consume(tkRightParen, errUnclosedParen)
		return &groupingExpr{expression: expression}
	}
	if p.match(tkFun) {
		keyword := p.previous()
		p.consume(tkLeftParen, errors.New("Expect '(' after 'fun'."))
		params := p.parameters()
		p.consume(tkLeftBrace, errors.New("Expect '{' before function body."))
		return &lambdaExpr{
			keyword: keyword,
			params:  params,
			body:    p.block(),
		}
	}

	p.error(p.peek(), errExpectExpression)
	return nil
}

// error records a located syntax error and unwinds to the nearest
// statement boundary.
func (p *parser) error(tk *token, err error) {
	located := err
	if tk.token == tkEOF {
		located = fmt.Errorf("at end: %s", err.Error())
	} else {
		located = fmt.Errorf("at '%s': %s", tk.lexeme, err.Error())
	}
	p.state.fatalError(located, tk.line, tk.column)
}

func (p *parser) consume(tt tokenType, err error) *token {
	if p.check(tt) {
		return p.advance()
	}
	p.error(p.peek(), err)
	return &token{}
}

func (p *parser) advance() *token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(types ...tokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.current++
			return true
		}
	}
	return false
}

func (p *parser) check(tt tokenType) bool {
	return p.peek().token == tt
}

func (p *parser) checkNext(tt tokenType) bool {
	if p.isAtEnd() || p.current+1 >= len(p.state.tokens) {
		return false
	}
	return p.state.tokens[p.current+1].token == tt
}

func (p *parser) peek() *token {
	return &p.state.tokens[p.current]
}

func (p *parser) previous() *token {
	if p.current == 0 {
		return &p.state.tokens[0]
	}
	return &p.state.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().token == tkEOF
}

func (p *parser) synchronize() {
	if !p.isAtEnd() {
		p.advance()
	}
	for !p.isAtEnd() {
		if p.previous().token == tkSemicolon {
			return
		}
		switch p.peek().token {
		case tkClass, tkFun, tkVar, tkFor, tkIf, tkWhile, tkPrint, tkReturn, tkBreak:
			return
		}
		p.advance()
	}
}
