package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/labstack/gommon/color"
)

type interpretResult int

const (
	interpretOK interpretResult = iota
	interpretCompileError
	interpretRuntimeError
)

const stackInitial = 256

// vm executes one chunk against a growable value stack. The stack
// doubles when full and shrinks back (never below its initial
// capacity) once usage drops to a quarter.
type vm struct {
	chunk *chunk
	ip    int
	stack []R

	printer IPrinter
}

func newVM(p IPrinter) *vm {
	return &vm{
		stack:   make([]R, 0, stackInitial),
		printer: p,
	}
}

func (v *vm) resetStack() {
	v.stack = make([]R, 0, stackInitial)
}

func (v *vm) push(value R) {
	if len(v.stack) == cap(v.stack) {
		grown := make([]R, len(v.stack), cap(v.stack)*2)
		copy(grown, v.stack)
		v.stack = grown
	}
	v.stack = append(v.stack, value)
}

func (v *vm) pop() R {
	value := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]

	if cap(v.stack) > stackInitial && len(v.stack) <= cap(v.stack)/4 {
		shrunkCap := cap(v.stack) / 2
		if shrunkCap < stackInitial {
			shrunkCap = stackInitial
		}
		shrunk := make([]R, len(v.stack), shrunkCap)
		copy(shrunk, v.stack)
		v.stack = shrunk
	}

	return value
}

func (v *vm) readByte() byte {
	b := v.chunk.code[v.ip]
	v.ip++
	return b
}

// runtimeError reports at the offending instruction's source
// location, then resets the stack.
func (v *vm) runtimeError(offset int, err error) {
	v.printer.Fprintln(os.Stderr, color.Red(fmt.Sprintf(
		"[%d:%d] RuntimeError: %s",
		v.chunk.getLine(offset), v.chunk.getColumn(offset), err.Error())))
	v.resetStack()
}

func (v *vm) run() interpretResult {
	for v.ip < len(v.chunk.code) {
		if debugTraceExecution {
			var trace strings.Builder
			v.chunk.disassembleInstruction(&trace, v.ip)
			log.Debug(strings.TrimRight(trace.String(), "\n"))
		}

		opOffset := v.ip
		switch op := v.readByte(); op {
		case opConstant:
			v.push(v.chunk.constants[v.readByte()])

		case opConstantLong:
			index := int(v.readByte())<<16 | int(v.readByte())<<8 | int(v.readByte())
			v.push(v.chunk.constants[index])

		case opNil:
			v.push(nil)

		case opTrue:
			v.push(loxBool(true))

		case opFalse:
			v.push(loxBool(false))

		case opNegate:
			if len(v.stack) < 1 {
				v.runtimeError(opOffset, errStackUnderflow)
				return interpretRuntimeError
			}
			negated, err := negateValue(v.pop())
			if err != nil {
				v.runtimeError(opOffset, err)
				return interpretRuntimeError
			}
			v.push(negated)

		case opNot:
			if len(v.stack) < 1 {
				v.runtimeError(opOffset, errStackUnderflow)
				return interpretRuntimeError
			}
			v.push(loxBool(!truthy(v.pop())))

		case opAdd, opSubtract, opMultiply, opDivide, opGreater, opLess:
			if len(v.stack) < 2 {
				v.runtimeError(opOffset, errStackUnderflow)
				return interpretRuntimeError
			}
			right := v.pop()
			left := v.pop()
			if !isNumber(left) || !isNumber(right) {
				v.runtimeError(opOffset, errors.New("Operands must be numbers."))
				return interpretRuntimeError
			}
			value, err := v.binaryOp(op, left, right)
			if err != nil {
				v.runtimeError(opOffset, err)
				return interpretRuntimeError
			}
			v.push(value)

		case opEqual:
			if len(v.stack) < 2 {
				v.runtimeError(opOffset, errStackUnderflow)
				return interpretRuntimeError
			}
			right := v.pop()
			left := v.pop()
			v.push(loxBool(equalValues(left, right)))

		case opReturn:
			if len(v.stack) < 1 {
				v.runtimeError(opOffset, errStackUnderflow)
				return interpretRuntimeError
			}
			value := v.pop()
			v.printer.Println(stringify(value))
			return interpretOK

		default:
			v.runtimeError(opOffset, fmt.Errorf("Unknown opcode %d.", op))
			return interpretRuntimeError
		}
	}
	return interpretRuntimeError
}

func (v *vm) binaryOp(op byte, left, right R) (R, error) {
	switch op {
	case opAdd:
		return addValues(left, right)
	case opSubtract:
		return subtractValues(left, right)
	case opMultiply:
		return multiplyValues(left, right)
	case opDivide:
		return divideValues(left, right)
	case opGreater:
		return compareValues(tkGreater, left, right)
	case opLess:
		return compareValues(tkLess, left, right)
	}
	return nil, fmt.Errorf("Unknown binary operation %d.", op)
}

// interpret runs an existing chunk from its first instruction.
func (v *vm) interpret(c *chunk) interpretResult {
	v.chunk = c
	v.ip = 0
	return v.run()
}

// interpretSource compiles into a fresh chunk and runs it.
func (v *vm) interpretSource(source string) interpretResult {
	compiled, ok := compileSource(source, v.printer)
	if !ok {
		return interpretCompileError
	}
	return v.interpret(compiled)
}

var errStackUnderflow = errors.New("Stack underflow.")
