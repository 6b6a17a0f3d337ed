package internal

import "fmt"

// loxClass owns its method, getter and class-method tables and an
// optional superclass. Calling the class constructs an instance.
type loxClass struct {
	name         string
	superclass   *loxClass
	methods      map[string]*function
	getters      map[string]*getter
	classMethods map[string]*function
}

func (c *loxClass) findMethod(name string) *function {
	if method, ok := c.methods[name]; ok {
		return method
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

func (c *loxClass) findGetter(name string) *getter {
	if g, ok := c.getters[name]; ok {
		return g
	}
	if c.superclass != nil {
		return c.superclass.findGetter(name)
	}
	return nil
}

func (c *loxClass) findClassMethod(name string) *function {
	if method, ok := c.classMethods[name]; ok {
		return method
	}
	if c.superclass != nil {
		return c.superclass.findClassMethod(name)
	}
	return nil
}

// arity mirrors init's arity, or zero without one.
func (c *loxClass) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

func (c *loxClass) call(exec *exec, arguments []R) R {
	instance := &loxInstance{class: c, fields: make(map[string]R)}
	if init := c.findMethod("init"); init != nil {
		init.bind(instance).call(exec, arguments)
	}
	return instance
}

func (c *loxClass) get(exec *exec, name *token) R {
	if method := c.findClassMethod(name.lexeme); method != nil {
		return method
	}
	return exec.state.runtimeErr(
		fmt.Errorf("%s '%s'.", errUndefinedProp.Error(), name.lexeme), name)
}

func (c *loxClass) set(exec *exec, name *token, value R) R {
	method, ok := value.(*function)
	if !ok {
		return exec.state.runtimeErr(errOnlyMethodsOnClass, name)
	}
	c.methods[name.lexeme] = method
	return value
}

func (c *loxClass) String() string {
	return fmt.Sprintf("<class %s>", c.name)
}

// loxInstance carries a field map and a strong class reference.
type loxInstance struct {
	class  *loxClass
	fields map[string]R
}

// get resolves a property: fields first, then getters (invoked
// with this bound), then methods bound to this.
func (o *loxInstance) get(exec *exec, name *token) R {
	if value, ok := o.fields[name.lexeme]; ok {
		return value
	}
	if g := o.class.findGetter(name.lexeme); g != nil {
		return g.bind(o).call(exec, nil)
	}
	if method := o.class.findMethod(name.lexeme); method != nil {
		return method.bind(o)
	}
	return exec.state.runtimeErr(
		fmt.Errorf("%s '%s'.", errUndefinedProp.Error(), name.lexeme), name)
}

func (o *loxInstance) set(name *token, value R) R {
	o.fields[name.lexeme] = value
	return value
}

func (o *loxInstance) String() string {
	return fmt.Sprintf("<instance of %s>", o.class.name)
}
