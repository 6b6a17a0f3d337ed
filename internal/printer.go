package internal

import (
	"fmt"
	"strings"
)

// printTree renders the parsed statements as s-expressions, one
// per line. Debug surface; also pins the AST shape in tests.
func (s *interpreterState) printTree() string {
	var out strings.Builder
	for _, st := range s.stmts {
		out.WriteString(st.accept(stringVisitor{}).(string) + "\n")
	}
	return out.String()
}

type stringVisitor struct{}

func (v stringVisitor) printExpr(ex expr) string {
	if ex == nil {
		return "<nil>"
	}
	return ex.accept(v).(string)
}

func (v stringVisitor) printStmt(st stmt) string {
	if st == nil {
		return "<nil>"
	}
	return st.accept(v).(string)
}

func (v stringVisitor) printBody(body []stmt) string {
	var out strings.Builder
	for _, st := range body {
		out.WriteString(" " + v.printStmt(st))
	}
	return out.String()
}

func (v stringVisitor) printParams(params []*token) string {
	names := make([]string, len(params))
	for i, param := range params {
		names[i] = param.lexeme
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func (v stringVisitor) visitExprStmt(st *exprStmt) R {
	return v.printExpr(st.expression)
}

func (v stringVisitor) visitPrintStmt(st *printStmt) R {
	return fmt.Sprintf("(print %s)", v.printExpr(st.expression))
}

func (v stringVisitor) visitVarStmt(st *varStmt) R {
	if st.initializer == nil {
		return fmt.Sprintf("(var %s)", st.name.lexeme)
	}
	return fmt.Sprintf("(var %s %s)", st.name.lexeme, v.printExpr(st.initializer))
}

func (v stringVisitor) visitBlockStmt(st *blockStmt) R {
	return "(scope" + v.printBody(st.stmts) + ")"
}

func (v stringVisitor) visitIfStmt(st *ifStmt) R {
	out := fmt.Sprintf("(if %s %s", v.printExpr(st.condition), v.printStmt(st.thenBranch))
	if st.elseBranch != nil {
		out += " " + v.printStmt(st.elseBranch)
	}
	return out + ")"
}

func (v stringVisitor) visitWhileStmt(st *whileStmt) R {
	return fmt.Sprintf("(while %s %s)", v.printExpr(st.condition), v.printStmt(st.body))
}

func (v stringVisitor) visitBreakStmt(st *breakStmt) R {
	return "(break)"
}

func (v stringVisitor) visitFnStmt(st *fnStmt) R {
	return fmt.Sprintf("(fun %s %s%s)", st.name.lexeme, v.printParams(st.params), v.printBody(st.body))
}

func (v stringVisitor) visitGetterStmt(st *getterStmt) R {
	return fmt.Sprintf("(getter %s%s)", st.name.lexeme, v.printBody(st.body))
}

func (v stringVisitor) visitReturnStmt(st *returnStmt) R {
	if st.value == nil {
		return "(return)"
	}
	return fmt.Sprintf("(return %s)", v.printExpr(st.value))
}

func (v stringVisitor) visitClassStmt(st *classStmt) R {
	out := "(class " + st.name.lexeme
	if st.superclass != nil {
		out += " < " + st.superclass.name.lexeme
	}
	for _, method := range st.methods {
		out += " " + v.printStmt(method)
	}
	for _, g := range st.getters {
		out += " " + v.printStmt(g)
	}
	for _, method := range st.classMethods {
		out += " (static " + v.printStmt(method) + ")"
	}
	return out + ")"
}

func (v stringVisitor) visitLiteralExpr(ex *literalExpr) R {
	if ex.value.token == tkString {
		return "\"" + ex.value.lexeme + "\""
	}
	return ex.value.lexeme
}

func (v stringVisitor) visitGroupingExpr(ex *groupingExpr) R {
	return fmt.Sprintf("(group %s)", v.printExpr(ex.expression))
}

func (v stringVisitor) visitUnaryExpr(ex *unaryExpr) R {
	return fmt.Sprintf("(%s %s)", ex.operator.lexeme, v.printExpr(ex.right))
}

func (v stringVisitor) visitBinaryExpr(ex *binaryExpr) R {
	return fmt.Sprintf("(%s %s %s)", ex.operator.lexeme, v.printExpr(ex.left), v.printExpr(ex.right))
}

func (v stringVisitor) visitLogicalExpr(ex *logicalExpr) R {
	return fmt.Sprintf("(%s %s %s)", ex.operator.lexeme, v.printExpr(ex.left), v.printExpr(ex.right))
}

func (v stringVisitor) visitTernaryExpr(ex *ternaryExpr) R {
	return fmt.Sprintf("(?: %s %s %s)",
		v.printExpr(ex.left), v.printExpr(ex.middle), v.printExpr(ex.right))
}

func (v stringVisitor) visitVariableExpr(ex *variableExpr) R {
	return ex.name.lexeme
}

func (v stringVisitor) visitAssignExpr(ex *assignExpr) R {
	return fmt.Sprintf("(assign %s %s)", ex.name.lexeme, v.printExpr(ex.value))
}

func (v stringVisitor) visitCallExpr(ex *callExpr) R {
	out := "(call " + v.printExpr(ex.callee)
	for _, argument := range ex.arguments {
		out += " " + v.printExpr(argument)
	}
	return out + ")"
}

func (v stringVisitor) visitLambdaExpr(ex *lambdaExpr) R {
	return fmt.Sprintf("(lambda %s%s)", v.printParams(ex.params), v.printBody(ex.body))
}

func (v stringVisitor) visitGetExpr(ex *getExpr) R {
	return fmt.Sprintf("(get %s %s)", v.printExpr(ex.object), ex.name.lexeme)
}

func (v stringVisitor) visitSetExpr(ex *setExpr) R {
	return fmt.Sprintf("(set %s %s %s)", v.printExpr(ex.object), ex.name.lexeme, v.printExpr(ex.value))
}

func (v stringVisitor) visitThisExpr(ex *thisExpr) R {
	return "this"
}

func (v stringVisitor) visitSuperExpr(ex *superExpr) R {
	return fmt.Sprintf("(super %s)", ex.method.lexeme)
}
