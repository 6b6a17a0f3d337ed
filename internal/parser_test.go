package internal

import (
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func parseSource(t *testing.T, source string) *interpreterState {
	t.Helper()
	state := scanSource(source)
	if !state.valid() {
		t.Fatalf("scan errors for %q: %v", source, state.errors)
	}
	ps := &parser{state: state}
	ps.parse()
	return state
}

func checkTree(t *testing.T, source string, expected string) {
	t.Helper()
	state := parseSource(t, source)
	if !state.valid() {
		t.Errorf("parse errors for %q: %v", source, state.errors)
		return
	}
	tree := strings.TrimRight(state.printTree(), "\n")
	if tree != expected {
		t.Errorf("on %q\nexpected: %s\ngot:      %s", source, expected, tree)
	}
}

func TestParsePrecedence(t *testing.T) {
	checkTree(t, "1 + 2 * 3;", "(+ 1 (* 2 3))")
	checkTree(t, "1 * 2 + 3;", "(+ (* 1 2) 3)")
	checkTree(t, "1 + 2 - 3;", "(- (+ 1 2) 3)")
	checkTree(t, "-1 * 2;", "(* (- 1) 2)")
	checkTree(t, "!true == false;", "(== (! true) false)")
	checkTree(t, "1 < 2 == true;", "(== (< 1 2) true)")
	checkTree(t, "(1 + 2) * 3;", "(* (group (+ 1 2)) 3)")
	checkTree(t, "1 == 2 != 3;", "(!= (== 1 2) 3)")
	checkTree(t, "a or b and c;", "(or a (and b c))")
	checkTree(t, "--1;", "(- (- 1))")
}

func TestParseTernaryAndComma(t *testing.T) {
	checkTree(t, "a ? b : c;", "(?: a b c)")
	// Right-associative.
	checkTree(t, "a ? b : c ? d : e;", "(?: a b (?: c d e))")
	checkTree(t, "1, 2, 3;", "(, (, 1 2) 3)")
	// Comma binds looser than ternary.
	checkTree(t, "1, a ? b : c;", "(, 1 (?: a b c))")
}

func TestParseAssignment(t *testing.T) {
	checkTree(t, "a = 1;", "(assign a 1)")
	checkTree(t, "a = b = 2;", "(assign a (assign b 2))")
	checkTree(t, "a.b = 3;", "(set a b 3)")
	checkTree(t, "a.b.c = 4;", "(set (get a b) c 4)")
}

func TestParseCallsAndProperties(t *testing.T) {
	checkTree(t, "f();", "(call f)")
	checkTree(t, "f(1, 2);", "(call f 1 2)")
	checkTree(t, "f(1)(2);", "(call (call f 1) 2)")
	checkTree(t, "a.b.c;", "(get (get a b) c)")
	checkTree(t, "a.m(1).n;", "(get (call (get a m) 1) n)")

	// Call arguments flatten top-level commas into the list.
	checkTree(t, "f((1, 2), 3);", "(call f (group (, 1 2)) 3)")
}

func TestParseStatements(t *testing.T) {
	checkTree(t, "print 1;", "(print 1)")
	checkTree(t, "var a;", "(var a)")
	checkTree(t, "var a = 1;", "(var a 1)")
	checkTree(t, "{ var a = 1; print a; }", "(scope (var a 1) (print a))")
	checkTree(t, "if (a) print 1; else print 2;", "(if (group a) (print 1) (print 2))")
	checkTree(t, "while (a) print 1;", "(while (group a) (print 1))")
	checkTree(t, "fun f(a, b) { return a; }", "(fun f (a, b) (return a))")
	checkTree(t, "var f = fun (x) { return x; };", "(var f (lambda (x) (return x)))")
	checkTree(t, "return;", "(return)")
}

func TestParseClass(t *testing.T) {
	checkTree(t, "class C {}", "(class C)")
	checkTree(t, "class B < A {}", "(class B < A)")
	checkTree(t, "class C { m() { return 1; } }", "(class C (fun m () (return 1)))")
	checkTree(t, "class C { g { return 1; } }", "(class C (getter g (return 1)))")
	checkTree(t, "class C { class m() { return 1; } }", "(class C (static (fun m () (return 1))))")
	checkTree(t, "super.m();", "(call (super m))")
	checkTree(t, "this.x;", "(get this x)")
}

// for desugars into while plus blocks; later passes never see it.
func TestParseForDesugaring(t *testing.T) {
	checkTree(t, "for (var i = 0; i < 3; i = i + 1) print i;",
		"(scope (var i 0) (while (< i 3) (scope (print i) (assign i (+ i 1)))))")
	checkTree(t, "for (; a; ) print 1;",
		"(while a (print 1))")
	checkTree(t, "for (;;) print 1;",
		"(while true (print 1))")
	checkTree(t, "for (i = 0; ; i = i + 1) print 1;",
		"(scope (assign i 0) (while true (scope (print 1) (assign i (+ i 1)))))")
}

// The same source parses to a structurally identical tree.
func TestParseDeterminism(t *testing.T) {
	source := `
class Shape {
  init(n) { this.n = n; }
  area { return this.n * this.n; }
}
fun twice(f, x) { return f(f(x)); }
for (var i = 0; i < 10; i = i + 1) {
  print i ? twice(fun (n) { return n + 1; }, i) : 0;
}
`
	first := parseSource(t, source).printTree()
	second := parseSource(t, source).printTree()
	if first != second {
		t.Errorf("parse is not deterministic:\n%v", pretty.Diff(first, second))
	}
}

func TestParseErrors(t *testing.T) {
	check := func(source, fragment string) {
		t.Helper()
		state := scanSource(source)
		ps := &parser{state: state}
		ps.parse()
		if state.valid() {
			t.Errorf("expected parse error for %q", source)
			return
		}
		var found bool
		for _, e := range state.errors {
			if strings.Contains(e.err.Error(), fragment) {
				found = true
			}
		}
		if !found {
			t.Errorf("for %q expected error containing %q, got %v", source, fragment, state.errors)
		}
	}

	check("print ;", "Expect expression.")
	check("(1;", "Expect ')' after expression.")
	check("1 = 2;", "Invalid assignment target.")
	check("a.;", "Expect property name after '.'.")
	check("super;", "Expect '.' after 'super'.")
	check("super.;", "Expect method name after 'super.'.")
	check("class {}", "Expect class name.")
	check("fun f( { }", "Expect parameter name.")
	check("a ? b;", "Expect ':' in ternary operator.")
	check("== 2;", "Expect expression before equality operator.")
	check("* 2;", "Expect expression before factor operator.")
	check("< 2;", "Expect expression before comparison operator.")
}

// After an error the parser synchronizes at the next statement
// boundary and keeps going.
func TestParseSynchronization(t *testing.T) {
	state := scanSource("var = 1;\nprint 2;\nvar ok = 3;")
	ps := &parser{state: state}
	ps.parse()
	if state.valid() {
		t.Fatal("expected a parse error")
	}
	if len(state.stmts) != 2 {
		t.Errorf("expected 2 recovered statements, got %d", len(state.stmts))
	}
}
