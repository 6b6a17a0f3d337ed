package internal

import "fmt"

type callable interface {
	arity() int
	call(exec *exec, arguments []R) R
}

// function is a named user function. Methods reuse the same
// declaration with a closure extended by 'this'.
type function struct {
	declaration   *fnStmt
	closure       *env
	isInitializer bool
}

func (f *function) arity() int {
	return len(f.declaration.params)
}

func (f *function) call(exec *exec, arguments []R) R {
	fnEnv := newFunctionEnv(exec.state, f.closure)
	for i := range f.declaration.params {
		fnEnv.define(f.declaration.params[i].lexeme, arguments[i])
	}

	exec.executeBlock(f.declaration.body, fnEnv)

	if f.isInitializer {
		return f.closure.getAt(0, &token{
			token:  tkThis,
			lexeme: "this",
			line:   f.declaration.name.line,
			column: f.declaration.name.column,
		})
	}
	if fnEnv.hasReturn {
		return fnEnv.returnValue
	}
	return nil
}

// bind wraps the function in a fresh environment that defines
// 'this' as the given instance.
func (f *function) bind(instance *loxInstance) *function {
	boundEnv := newEnv(f.closure.state, f.closure)
	boundEnv.define("this", instance)
	return &function{
		declaration:   f.declaration,
		closure:       boundEnv,
		isInitializer: f.isInitializer,
	}
}

func (f *function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.name.lexeme)
}

// lambda is an anonymous function expression value.
type lambda struct {
	declaration *lambdaExpr
	closure     *env
}

func (f *lambda) arity() int {
	return len(f.declaration.params)
}

func (f *lambda) call(exec *exec, arguments []R) R {
	fnEnv := newFunctionEnv(exec.state, f.closure)
	for i := range f.declaration.params {
		fnEnv.define(f.declaration.params[i].lexeme, arguments[i])
	}

	exec.executeBlock(f.declaration.body, fnEnv)

	if fnEnv.hasReturn {
		return fnEnv.returnValue
	}
	return nil
}

func (f *lambda) String() string {
	return fmt.Sprintf("<lambda> location: %d:%d", f.declaration.keyword.line, f.declaration.keyword.column)
}

// getter is a zero-argument member invoked by property access.
type getter struct {
	declaration *getterStmt
	closure     *env
}

func (g *getter) arity() int {
	return 0
}

func (g *getter) call(exec *exec, arguments []R) R {
	fnEnv := newFunctionEnv(exec.state, g.closure)
	exec.executeBlock(g.declaration.body, fnEnv)
	if fnEnv.hasReturn {
		return fnEnv.returnValue
	}
	return nil
}

func (g *getter) bind(instance *loxInstance) *getter {
	boundEnv := newEnv(g.closure.state, g.closure)
	boundEnv.define("this", instance)
	return &getter{
		declaration: g.declaration,
		closure:     boundEnv,
	}
}

func (g *getter) String() string {
	return fmt.Sprintf("<getter %s>", g.declaration.name.lexeme)
}

type nativeFn struct {
	arityValue int
	callFn     func(exec *exec, arguments []R) R
}

func (n *nativeFn) arity() int {
	return n.arityValue
}

func (n *nativeFn) call(exec *exec, arguments []R) R {
	return n.callFn(exec, arguments)
}

func (n *nativeFn) String() string {
	return "<native fn>"
}
