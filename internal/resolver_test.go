package internal

import (
	"strings"
	"testing"
)

func resolveSource(t *testing.T, source string) *interpreterState {
	t.Helper()
	state := parseSource(t, source)
	if !state.valid() {
		t.Fatalf("parse errors for %q: %v", source, state.errors)
	}
	newResolver(state).resolve()
	return state
}

func checkSemanticErr(t *testing.T, source string, fragment string) {
	t.Helper()
	state := resolveSource(t, source)
	var found bool
	for _, e := range state.errors {
		if e.kind == "SemanticError" && strings.Contains(e.err.Error(), fragment) {
			found = true
		}
	}
	if !found {
		t.Errorf("for %q expected semantic error containing %q, got %v", source, fragment, state.errors)
	}
}

func TestResolverDiagnostics(t *testing.T) {
	checkSemanticErr(t, "{ var a = 1; var a = 2; }", "Variable 'a' already defined in this scope.")
	checkSemanticErr(t, "{ var a = a; }", "Cannot read local variable 'a' in its own initializer.")
	checkSemanticErr(t, "return 1;", "'return' statement not within a function.")
	checkSemanticErr(t, "class C { init() { return 1; } }", "Cannot return a value from an initializer.")
	checkSemanticErr(t, "break;", "'break' statement not within a loop.")
	checkSemanticErr(t, "print this;", "'this' cannot be used outside of a class.")
	checkSemanticErr(t, "class C { class m() { return this; } }", "'this' cannot be used in a class method.")
	checkSemanticErr(t, "class C { m() { super.m(); } }", "'super' used outside of a subclass.")
	checkSemanticErr(t, "print super.m;", "'super' used outside of a subclass.")
	checkSemanticErr(t, "class C < C {}", "Class cannot inherit from itself.")

	// Loop context does not leak out of the body.
	checkSemanticErr(t, "while (true) {} break;", "'break' statement not within a loop.")
	// Nor does it leak into nested functions.
	checkSemanticErr(t, "while (true) { fun f() { break; } }", "'break' statement not within a loop.")
	// Return inside an initializer with no value is legal.
	if state := resolveSource(t, "class C { init() { return; } }"); !state.valid() {
		t.Errorf("bare return in init should resolve, got %v", state.errors)
	}
	// break inside a loop inside a function is legal.
	if state := resolveSource(t, "fun f() { while (true) break; }"); !state.valid() {
		t.Errorf("break in loop should resolve, got %v", state.errors)
	}
}

// depthsOf collects the recorded depth for each named variable use.
func depthsOf(state *interpreterState) map[string][]int {
	depths := make(map[string][]int)
	for ex, depth := range state.locals {
		switch node := ex.(type) {
		case *variableExpr:
			depths[node.name.lexeme] = append(depths[node.name.lexeme], depth)
		case *assignExpr:
			depths[node.name.lexeme] = append(depths[node.name.lexeme], depth)
		case *thisExpr:
			depths["this"] = append(depths["this"], depth)
		case *superExpr:
			depths["super"] = append(depths["super"], depth)
		}
	}
	return depths
}

func TestResolverDepths(t *testing.T) {
	// Globals never land in the map.
	state := resolveSource(t, "var a = 1; print a;")
	if len(state.locals) != 0 {
		t.Errorf("globals should not be resolved, got %v", depthsOf(state))
	}

	// A block-local use resolves at depth 0.
	state = resolveSource(t, "{ var a = 1; print a; }")
	depths := depthsOf(state)
	if len(depths["a"]) != 1 || depths["a"][0] != 0 {
		t.Errorf("expected a at depth 0, got %v", depths)
	}

	// A closure capture hops the function scope.
	state = resolveSource(t, `
fun outer(x) {
  fun inner(y) { return x + y; }
  return inner;
}`)
	depths = depthsOf(state)
	if len(depths["x"]) != 1 || depths["x"][0] != 1 {
		t.Errorf("expected x at depth 1, got %v", depths)
	}
	if len(depths["y"]) != 1 || depths["y"][0] != 0 {
		t.Errorf("expected y at depth 0, got %v", depths)
	}

	// this sits one scope out from the method body; super one
	// further.
	state = resolveSource(t, `
class A { m() { return 1; } }
class B < A {
  m() { return super.m() + this.v; }
}`)
	depths = depthsOf(state)
	if len(depths["this"]) != 1 || depths["this"][0] != 1 {
		t.Errorf("expected this at depth 1, got %v", depths)
	}
	if len(depths["super"]) != 1 || depths["super"][0] != 2 {
		t.Errorf("expected super at depth 2, got %v", depths)
	}
}

// Depth never reaches the number of open scopes.
func TestResolverDepthBound(t *testing.T) {
	state := resolveSource(t, `
{
  var a = 1;
  {
    var b = a;
    {
      var c = a + b;
      print c;
    }
  }
}`)
	for ex, depth := range state.locals {
		if depth < 0 || depth > 2 {
			t.Errorf("depth %d out of range for %T", depth, ex)
		}
	}
}

// Resolving the same AST twice produces the same map and repeats
// the same diagnostics in the same order.
func TestResolverIdempotence(t *testing.T) {
	state := parseSource(t, `
{
  var a = 1;
  fun f(x) { return a + x; }
  break;
}`)
	newResolver(state).resolve()

	firstLocals := make(map[expr]int, len(state.locals))
	for k, v := range state.locals {
		firstLocals[k] = v
	}
	firstErrors := len(state.errors)

	newResolver(state).resolve()

	if len(state.locals) != len(firstLocals) {
		t.Fatalf("locals changed on second resolve: %d vs %d", len(state.locals), len(firstLocals))
	}
	for k, v := range firstLocals {
		if state.locals[k] != v {
			t.Errorf("depth for %T changed: %d vs %d", k, v, state.locals[k])
		}
	}

	if len(state.errors) != 2*firstErrors {
		t.Fatalf("expected doubled diagnostics, got %d then %d", firstErrors, len(state.errors))
	}
	for i := 0; i < firstErrors; i++ {
		if state.errors[i].String() != state.errors[firstErrors+i].String() {
			t.Errorf("diagnostic %d differs between passes: %q vs %q",
				i, state.errors[i].String(), state.errors[firstErrors+i].String())
		}
	}
}
