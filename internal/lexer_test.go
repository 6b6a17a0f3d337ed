package internal

import (
	"strings"
	"testing"
)

func scanSource(source string) *interpreterState {
	state := newInterpreterState(source, &testPrinter{})
	lx := &lexer{state: state, line: 1, column: 1}
	lx.scan()
	return state
}

func checkTokens(t *testing.T, source string, expected []tokenType) {
	t.Helper()
	state := scanSource(source)
	if !state.valid() {
		t.Errorf("unexpected scan errors for %q: %v", source, state.errors)
		return
	}
	if len(state.tokens) != len(expected)+1 {
		t.Fatalf("on %q expected %d tokens + EOF, got %d", source, len(expected), len(state.tokens))
	}
	for i, tt := range expected {
		if state.tokens[i].token != tt {
			t.Errorf("on %q token %d: expected kind %d, got %d (%q)",
				source, i, tt, state.tokens[i].token, state.tokens[i].lexeme)
		}
	}
	if last := state.tokens[len(state.tokens)-1]; last.token != tkEOF {
		t.Errorf("on %q expected trailing EOF, got %d", source, last.token)
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	checkTokens(t, "(){},.-+;/ *?:", []tokenType{
		tkLeftParen, tkRightParen, tkLeftBrace, tkRightBrace, tkComma, tkDot,
		tkMinus, tkPlus, tkSemicolon, tkSlash, tkStar, tkQuestion, tkColon,
	})
	checkTokens(t, "! != = == > >= < <=", []tokenType{
		tkBang, tkBangEqual, tkEqual, tkEqualEqual,
		tkGreater, tkGreaterEqual, tkLess, tkLessEqual,
	})
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	checkTokens(t,
		"and class else false fun for if nil or print return super this true var while break",
		[]tokenType{
			tkAnd, tkClass, tkElse, tkFalse, tkFun, tkFor, tkIf, tkNil, tkOr,
			tkPrint, tkReturn, tkSuper, tkThis, tkTrue, tkVar, tkWhile, tkBreak,
		})
	checkTokens(t, "foo _bar baz2 whileLoop", []tokenType{
		tkIdentifier, tkIdentifier, tkIdentifier, tkIdentifier,
	})
}

func TestScanNumbers(t *testing.T) {
	checkTokens(t, "1 12.5 .5 1e3 1.5E-2 2e+10", []tokenType{
		tkNumber, tkNumber, tkNumber, tkNumber, tkNumber, tkNumber,
	})

	state := scanSource("12.5")
	if state.tokens[0].lexeme != "12.5" {
		t.Errorf("expected lexeme 12.5, got %q", state.tokens[0].lexeme)
	}
}

func TestScanStrings(t *testing.T) {
	state := scanSource(`"hello"`)
	if state.tokens[0].token != tkString || state.tokens[0].lexeme != "hello" {
		t.Errorf("expected decoded string token, got %q", state.tokens[0].lexeme)
	}

	// Escapes decode into the lexeme.
	state = scanSource(`"a\nb\tc\"d\\e"`)
	if state.tokens[0].lexeme != "a\nb\tc\"d\\e" {
		t.Errorf("bad escape decoding: %q", state.tokens[0].lexeme)
	}

	state = scanSource(`"a\qb"`)
	if state.valid() {
		t.Error("expected unknown escape error")
	}

	state = scanSource(`"unterminated`)
	if state.valid() {
		t.Error("expected unterminated string error")
	}
}

func TestScanComments(t *testing.T) {
	checkTokens(t, "1 // comment to end\n2", []tokenType{tkNumber, tkNumber})
	checkTokens(t, "1 /* inline */ 2", []tokenType{tkNumber, tkNumber})

	// Nesting.
	checkTokens(t, "1 /* a /* nested */ still comment */ 2", []tokenType{tkNumber, tkNumber})

	state := scanSource("1 /* unterminated /* deep */")
	if state.valid() {
		t.Error("expected unterminated comment error")
	}
}

func TestScanPositions(t *testing.T) {
	state := scanSource("var a = 5;\nprint a;")
	expected := []struct {
		lexeme string
		line   int
		column int
	}{
		{"var", 1, 1},
		{"a", 1, 5},
		{"=", 1, 7},
		{"5", 1, 9},
		{";", 1, 10},
		{"print", 2, 1},
		{"a", 2, 7},
		{";", 2, 8},
	}
	for i, want := range expected {
		tok := state.tokens[i]
		if tok.lexeme != want.lexeme || tok.line != want.line || tok.column != want.column {
			t.Errorf("token %d: expected %q at %d:%d, got %q at %d:%d",
				i, want.lexeme, want.line, want.column, tok.lexeme, tok.line, tok.column)
		}
	}
}

// Positions never move backwards through the token stream.
func TestScanPositionMonotonicity(t *testing.T) {
	source := `
class Adder {
  init(base) { this.base = base; }
  add(n) { return this.base + n; }
}
var a = Adder(10);
for (var i = 0; i < 3; i = i + 1) {
  print a.add(i) ? "big" : "small";
}
`
	state := scanSource(source)
	for i := 1; i < len(state.tokens); i++ {
		prev, cur := state.tokens[i-1], state.tokens[i]
		if cur.line < prev.line || (cur.line == prev.line && cur.column < prev.column) {
			t.Errorf("token %d (%q at %d:%d) precedes token %d (%q at %d:%d)",
				i, cur.lexeme, cur.line, cur.column, i-1, prev.lexeme, prev.line, prev.column)
		}
	}
}

// Concatenating lexemes in order reproduces the source minus the
// skipped whitespace. Holds whenever no string escapes re-encode.
func TestScanTokenCoverage(t *testing.T) {
	source := "var a=5;\nwhile(a>0){a=a-1;}\nprint a;"
	state := scanSource(source)

	var rebuilt strings.Builder
	for _, tok := range state.tokens {
		rebuilt.WriteString(tok.lexeme)
	}
	squash := func(s string) string {
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "\n", "")
		s = strings.ReplaceAll(s, "\t", "")
		return s
	}
	if rebuilt.String() != squash(source) {
		t.Errorf("token lexemes do not cover the source:\n%q\nvs\n%q",
			rebuilt.String(), squash(source))
	}
}

func TestScanErrorRecovery(t *testing.T) {
	// The offending character is skipped; scanning continues.
	state := scanSource("1 @ 2 # 3")
	if state.valid() {
		t.Fatal("expected unexpected-character errors")
	}
	if len(state.errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(state.errors))
	}
	numbers := 0
	for _, tok := range state.tokens {
		if tok.token == tkNumber {
			numbers++
		}
	}
	if numbers != 3 {
		t.Errorf("expected 3 number tokens after recovery, got %d", numbers)
	}
}
