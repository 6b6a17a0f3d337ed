package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// R generic visitor result: every runtime value is an R
type R interface{}

type loxInt int64

type loxFloat float64

type loxBool bool

type loxString string

// loxError is the in-language error value. It is falsy, never
// equal to anything, and propagates through every operator.
type loxError struct {
	message string
}

// truthy: only nil, false and error values are falsy.
func truthy(value R) bool {
	switch v := value.(type) {
	case nil:
		return false
	case loxBool:
		return bool(v)
	case loxError:
		return false
	}
	return true
}

func isNumber(value R) bool {
	switch value.(type) {
	case loxInt, loxFloat:
		return true
	}
	return false
}

func asFloat(value R) float64 {
	switch v := value.(type) {
	case loxInt:
		return float64(v)
	case loxFloat:
		return float64(v)
	}
	return 0
}

// equalValues compares ints and floats numerically; every other
// pairing requires matching tags. Callables, classes and instances
// never compare equal.
func equalValues(left, right R) bool {
	if isNumber(left) && isNumber(right) {
		return asFloat(left) == asFloat(right)
	}
	switch l := left.(type) {
	case nil:
		return right == nil
	case loxBool:
		r, ok := right.(loxBool)
		return ok && l == r
	case loxString:
		r, ok := right.(loxString)
		return ok && l == r
	}
	return false
}

// addValues implements '+': numeric addition with int/float
// widening, or string concatenation.
func addValues(left, right R) (R, error) {
	if l, ok := left.(loxString); ok {
		if r, ok := right.(loxString); ok {
			return l + r, nil
		}
	}
	if isNumber(left) && isNumber(right) {
		if l, ok := left.(loxInt); ok {
			if r, ok := right.(loxInt); ok {
				return l + r, nil
			}
		}
		return loxFloat(asFloat(left) + asFloat(right)), nil
	}
	return nil, fmt.Errorf("Operands must be two numbers or two strings for '+'.")
}

func subtractValues(left, right R) (R, error) {
	if !isNumber(left) || !isNumber(right) {
		return nil, fmt.Errorf("Operands must be numbers for subtraction.")
	}
	if l, ok := left.(loxInt); ok {
		if r, ok := right.(loxInt); ok {
			return l - r, nil
		}
	}
	return loxFloat(asFloat(left) - asFloat(right)), nil
}

func multiplyValues(left, right R) (R, error) {
	if !isNumber(left) || !isNumber(right) {
		return nil, fmt.Errorf("Operands must be numbers for multiplication.")
	}
	if l, ok := left.(loxInt); ok {
		if r, ok := right.(loxInt); ok {
			return l * r, nil
		}
	}
	return loxFloat(asFloat(left) * asFloat(right)), nil
}

// divideValues truncates for int/int and rejects a zero divisor
// for both numeric kinds.
func divideValues(left, right R) (R, error) {
	if !isNumber(left) || !isNumber(right) {
		return nil, fmt.Errorf("Operands must be numbers for division.")
	}
	if asFloat(right) == 0 {
		return nil, errDivisionByZero
	}
	if l, ok := left.(loxInt); ok {
		if r, ok := right.(loxInt); ok {
			return l / r, nil
		}
	}
	return loxFloat(asFloat(left) / asFloat(right)), nil
}

func compareValues(op tokenType, left, right R) (R, error) {
	if !isNumber(left) || !isNumber(right) {
		return nil, fmt.Errorf("Operands must be numbers for comparison.")
	}
	l, r := asFloat(left), asFloat(right)
	switch op {
	case tkGreater:
		return loxBool(l > r), nil
	case tkGreaterEqual:
		return loxBool(l >= r), nil
	case tkLess:
		return loxBool(l < r), nil
	case tkLessEqual:
		return loxBool(l <= r), nil
	}
	return nil, fmt.Errorf("Unknown comparison operator.")
}

func negateValue(value R) (R, error) {
	switch v := value.(type) {
	case loxInt:
		return -v, nil
	case loxFloat:
		return -v, nil
	}
	return nil, fmt.Errorf("Operand must be a number for unary minus.")
}

// parseNumber keeps a lexeme without '.' or an exponent marker an
// int; everything else widens to float.
func parseNumber(lexeme string) (R, error) {
	if strings.ContainsAny(lexeme, ".eE") {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, fmt.Errorf("Malformed number '%s'.", lexeme)
		}
		return loxFloat(f), nil
	}
	i, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("Malformed number '%s'.", lexeme)
	}
	return loxInt(i), nil
}

func numberValue(state *interpreterState, tk *token) R {
	value, err := parseNumber(tk.lexeme)
	if err != nil {
		return state.runtimeErr(err, tk)
	}
	return value
}

func stringify(value R) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case loxInt:
		return strconv.FormatInt(int64(v), 10)
	case loxFloat:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case loxBool:
		if v {
			return "true"
		}
		return "false"
	case loxString:
		return string(v)
	case loxError:
		return v.message
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}
