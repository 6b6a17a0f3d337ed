package internal

import "time"

// defineGlobals installs the native functions into the globals
// environment.
func defineGlobals(globals *env) {
	globals.define("clock", &nativeFn{
		arityValue: 0,
		callFn: func(exec *exec, arguments []R) R {
			return loxFloat(float64(time.Now().UnixNano()) / 1e9)
		},
	})
}
