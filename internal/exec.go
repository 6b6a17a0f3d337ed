package internal

import "fmt"

type loopControlKind int

const (
	loopNone loopControlKind = iota
	loopBreak
)

// exec walks the AST. Runtime failures become loxError values that
// propagate through expressions; statement dispatch short-circuits
// once the state records a runtime error, a break is pending, or
// the enclosing function has returned.
type exec struct {
	state *interpreterState

	globals *env
	env     *env

	loopControl loopControlKind
}

func newExec(state *interpreterState) *exec {
	e := &exec{
		state:   state,
		globals: newEnv(state, nil),
	}
	e.env = e.globals
	defineGlobals(e.globals)
	return e
}

func (e *exec) interpret() bool {
	for _, st := range e.state.stmts {
		e.execute(st)
		if e.state.hadRuntimeError {
			return false
		}
	}
	return true
}

// evaluate is the expression entry point used by the REPL.
func (e *exec) evaluate(ex expr) R {
	if ex == nil {
		return nil
	}
	return ex.accept(e)
}

func (e *exec) execute(st stmt) {
	if st == nil || e.halted() {
		return
	}
	st.accept(e)
}

// halted reports whether statement execution should stop here:
// a recorded runtime error, a pending break, or a return value on
// the way out of the current function.
func (e *exec) halted() bool {
	return e.state.hadRuntimeError ||
		e.loopControl != loopNone ||
		e.env.hasReturnValue()
}

func (e *exec) executeBlock(stmts []stmt, blockEnv *env) {
	previous := e.env
	defer func() {
		e.env = previous
	}()
	e.env = blockEnv
	for _, st := range stmts {
		if e.halted() {
			break
		}
		e.execute(st)
	}
}

// --- statements ---

func (e *exec) visitExprStmt(st *exprStmt) R {
	e.evaluate(st.expression)
	return nil
}

func (e *exec) visitPrintStmt(st *printStmt) R {
	value := e.evaluate(st.expression)
	e.state.printer.Println(stringify(value))
	return nil
}

func (e *exec) visitVarStmt(st *varStmt) R {
	if st.initializer != nil {
		e.env.defineVar(st.name, e.evaluate(st.initializer))
	} else {
		e.env.defineVar(st.name, loxError{message: errUninitialized.Error()})
	}
	return nil
}

func (e *exec) visitBlockStmt(st *blockStmt) R {
	e.executeBlock(st.stmts, newEnv(e.state, e.env))
	return nil
}

func (e *exec) visitIfStmt(st *ifStmt) R {
	if truthy(e.evaluate(st.condition)) {
		e.execute(st.thenBranch)
	} else {
		e.execute(st.elseBranch)
	}
	return nil
}

func (e *exec) visitWhileStmt(st *whileStmt) R {
	enclosing := e.env.getCurrentWhile()
	for truthy(e.evaluate(st.condition)) {
		if e.state.hadRuntimeError || e.env.hasReturnValue() {
			break
		}
		e.env.setCurrentWhile(st)
		e.execute(st.body)
		if e.loopControl == loopBreak {
			e.loopControl = loopNone
			break
		}
	}
	e.env.setCurrentWhile(enclosing)
	return nil
}

func (e *exec) visitBreakStmt(st *breakStmt) R {
	if e.env.getCurrentWhile() == nil {
		return e.state.runtimeErr(errBreakOutsideLoop, st.keyword)
	}
	e.loopControl = loopBreak
	return nil
}

func (e *exec) visitFnStmt(st *fnStmt) R {
	e.env.defineVar(st.name, &function{
		declaration: st,
		closure:     e.env,
	})
	return nil
}

func (e *exec) visitGetterStmt(st *getterStmt) R {
	// Getters only occur inside a class body; the class statement
	// builds their values directly.
	return nil
}

func (e *exec) visitReturnStmt(st *returnStmt) R {
	var value R
	if st.value != nil {
		value = e.evaluate(st.value)
	}
	e.env.setReturnValue(value)
	return nil
}

func (e *exec) visitClassStmt(st *classStmt) R {
	e.env.defineVar(st.name, nil)

	var superclass *loxClass
	classEnv := e.env
	if st.superclass != nil {
		superValue := e.evaluate(st.superclass)
		sc, isClass := superValue.(*loxClass)
		if !isClass {
			return e.state.runtimeErr(errSuperclassNotClass, st.superclass.name)
		}
		superclass = sc
		classEnv = newEnv(e.state, e.env)
		classEnv.define("super", sc)
	}

	cls := &loxClass{
		name:         st.name.lexeme,
		superclass:   superclass,
		methods:      make(map[string]*function),
		getters:      make(map[string]*getter),
		classMethods: make(map[string]*function),
	}
	for _, method := range st.methods {
		cls.methods[method.name.lexeme] = &function{
			declaration:   method,
			closure:       classEnv,
			isInitializer: method.name.lexeme == "init",
		}
	}
	for _, g := range st.getters {
		cls.getters[g.name.lexeme] = &getter{
			declaration: g,
			closure:     classEnv,
		}
	}
	for _, method := range st.classMethods {
		cls.classMethods[method.name.lexeme] = &function{
			declaration: method,
			closure:     classEnv,
		}
	}

	e.env.assign(st.name, cls)
	return nil
}

// --- expressions ---

func (e *exec) visitLiteralExpr(ex *literalExpr) R {
	return literalValue(e.state, ex.value)
}

func (e *exec) visitGroupingExpr(ex *groupingExpr) R {
	return e.evaluate(ex.expression)
}

func (e *exec) visitUnaryExpr(ex *unaryExpr) R {
	right := e.evaluate(ex.right)
	if err, isErr := right.(loxError); isErr {
		return err
	}
	switch ex.operator.token {
	case tkBang:
		return loxBool(!truthy(right))
	case tkMinus:
		value, err := negateValue(right)
		if err != nil {
			return e.state.runtimeErr(err, ex.operator)
		}
		return value
	}
	return e.state.runtimeErr(fmt.Errorf("Unknown unary operator."), ex.operator)
}

func (e *exec) visitBinaryExpr(ex *binaryExpr) R {
	left := e.evaluate(ex.left)
	right := e.evaluate(ex.right)

	if ex.operator.token == tkComma {
		return right
	}

	if err, isErr := left.(loxError); isErr {
		return err
	}
	if err, isErr := right.(loxError); isErr {
		return err
	}

	var value R
	var err error
	switch ex.operator.token {
	case tkPlus:
		value, err = addValues(left, right)
	case tkMinus:
		value, err = subtractValues(left, right)
	case tkStar:
		value, err = multiplyValues(left, right)
	case tkSlash:
		value, err = divideValues(left, right)
	case tkGreater, tkGreaterEqual, tkLess, tkLessEqual:
		value, err = compareValues(ex.operator.token, left, right)
	case tkEqualEqual:
		return loxBool(equalValues(left, right))
	case tkBangEqual:
		return loxBool(!equalValues(left, right))
	default:
		err = fmt.Errorf("Unknown binary operator.")
	}
	if err != nil {
		return e.state.runtimeErr(err, ex.operator)
	}
	return value
}

func (e *exec) visitLogicalExpr(ex *logicalExpr) R {
	left := e.evaluate(ex.left)
	if ex.operator.token == tkOr {
		if truthy(left) {
			return left
		}
	} else {
		if !truthy(left) {
			return left
		}
	}
	return e.evaluate(ex.right)
}

func (e *exec) visitTernaryExpr(ex *ternaryExpr) R {
	condition := e.evaluate(ex.left)
	if err, isErr := condition.(loxError); isErr {
		return err
	}
	if truthy(condition) {
		return e.evaluate(ex.middle)
	}
	return e.evaluate(ex.right)
}

func (e *exec) visitVariableExpr(ex *variableExpr) R {
	return e.lookUpVariable(ex.name, ex)
}

func (e *exec) lookUpVariable(name *token, ex expr) R {
	if distance, ok := e.state.locals[ex]; ok {
		return e.env.getAt(distance, name)
	}
	return e.globals.get(name)
}

func (e *exec) visitAssignExpr(ex *assignExpr) R {
	value := e.evaluate(ex.value)
	if distance, ok := e.state.locals[ex]; ok {
		return e.env.assignAt(distance, ex.name, value)
	}
	return e.globals.assign(ex.name, value)
}

func (e *exec) visitCallExpr(ex *callExpr) R {
	callee := e.evaluate(ex.callee)
	if err, isErr := callee.(loxError); isErr {
		return err
	}

	arguments := make([]R, len(ex.arguments))
	for i := range ex.arguments {
		arguments[i] = e.evaluate(ex.arguments[i])
	}

	fn, isCallable := callee.(callable)
	if !isCallable {
		return e.state.runtimeErr(errOnlyCallable, ex.paren)
	}
	if len(arguments) != fn.arity() {
		return e.state.runtimeErr(
			fmt.Errorf("Argument count mismatch, expected %d but got %d.", fn.arity(), len(arguments)),
			ex.paren)
	}
	return fn.call(e, arguments)
}

func (e *exec) visitLambdaExpr(ex *lambdaExpr) R {
	return &lambda{
		declaration: ex,
		closure:     e.env,
	}
}

func (e *exec) visitGetExpr(ex *getExpr) R {
	object := e.evaluate(ex.object)
	if err, isErr := object.(loxError); isErr {
		return err
	}
	switch o := object.(type) {
	case *loxInstance:
		return o.get(e, ex.name)
	case *loxClass:
		return o.get(e, ex.name)
	}
	return e.state.runtimeErr(errOnlyInstancesHaveProps, ex.name)
}

func (e *exec) visitSetExpr(ex *setExpr) R {
	object := e.evaluate(ex.object)
	if err, isErr := object.(loxError); isErr {
		return err
	}
	value := e.evaluate(ex.value)
	if err, isErr := value.(loxError); isErr {
		return err
	}
	switch o := object.(type) {
	case *loxInstance:
		return o.set(ex.name, value)
	case *loxClass:
		return o.set(e, ex.name, value)
	}
	return e.state.runtimeErr(errOnlyInstancesHaveFields, ex.name)
}

func (e *exec) visitThisExpr(ex *thisExpr) R {
	return e.lookUpVariable(ex.keyword, ex)
}

func (e *exec) visitSuperExpr(ex *superExpr) R {
	distance, ok := e.state.locals[ex]
	if !ok {
		return e.state.runtimeErr(
			fmt.Errorf("'super' used outside of a subclass."), ex.keyword)
	}

	superValue := e.env.getAt(distance, ex.keyword)
	superclass, isClass := superValue.(*loxClass)
	if !isClass {
		return e.state.runtimeErr(errSuperclassNotClass, ex.keyword)
	}

	instanceValue := e.env.getAt(distance-1, &token{
		token:  tkThis,
		lexeme: "this",
		line:   ex.keyword.line,
		column: ex.keyword.column,
	})
	instance, isInstance := instanceValue.(*loxInstance)
	if !isInstance {
		return e.state.runtimeErr(
			fmt.Errorf("'super' requires a bound instance."), ex.keyword)
	}

	method := superclass.findMethod(ex.method.lexeme)
	if method == nil {
		return e.state.runtimeErr(
			fmt.Errorf("%s '%s'.", errUndefinedProp.Error(), ex.method.lexeme), ex.method)
	}
	return method.bind(instance)
}

// literalValue turns a literal token into a runtime value. Number
// tokens become ints unless the lexeme carries a fractional or
// exponent marker.
func literalValue(state *interpreterState, tk *token) R {
	switch tk.token {
	case tkTrue:
		return loxBool(true)
	case tkFalse:
		return loxBool(false)
	case tkNil:
		return nil
	case tkString:
		return loxString(tk.lexeme)
	case tkNumber:
		return numberValue(state, tk)
	}
	return state.runtimeErr(fmt.Errorf("Unexpected literal type."), tk)
}
