package internal

type expr interface {
	accept(exprVisitor) R
}

type exprVisitor interface {
	visitLiteralExpr(expr *literalExpr) R
	visitGroupingExpr(expr *groupingExpr) R
	visitUnaryExpr(expr *unaryExpr) R
	visitBinaryExpr(expr *binaryExpr) R
	visitLogicalExpr(expr *logicalExpr) R
	visitTernaryExpr(expr *ternaryExpr) R
	visitVariableExpr(expr *variableExpr) R
	visitAssignExpr(expr *assignExpr) R
	visitCallExpr(expr *callExpr) R
	visitLambdaExpr(expr *lambdaExpr) R
	visitGetExpr(expr *getExpr) R
	visitSetExpr(expr *setExpr) R
	visitThisExpr(expr *thisExpr) R
	visitSuperExpr(expr *superExpr) R
}

type literalExpr struct {
	value *token
}

func (s *literalExpr) accept(visitor exprVisitor) R {
	return visitor.visitLiteralExpr(s)
}

type groupingExpr struct {
	expression expr
}

func (s *groupingExpr) accept(visitor exprVisitor) R {
	return visitor.visitGroupingExpr(s)
}

type unaryExpr struct {
	operator *token
	right    expr
}

func (s *unaryExpr) accept(visitor exprVisitor) R {
	return visitor.visitUnaryExpr(s)
}

type binaryExpr struct {
	left     expr
	operator *token
	right    expr
}

func (s *binaryExpr) accept(visitor exprVisitor) R {
	return visitor.visitBinaryExpr(s)
}

type logicalExpr struct {
	left     expr
	operator *token
	right    expr
}

func (s *logicalExpr) accept(visitor exprVisitor) R {
	return visitor.visitLogicalExpr(s)
}

type ternaryExpr struct {
	left    expr
	opLeft  *token
	middle  expr
	opRight *token
	right   expr
}

func (s *ternaryExpr) accept(visitor exprVisitor) R {
	return visitor.visitTernaryExpr(s)
}

type variableExpr struct {
	name *token
}

func (s *variableExpr) accept(visitor exprVisitor) R {
	return visitor.visitVariableExpr(s)
}

type assignExpr struct {
	name  *token
	value expr
}

func (s *assignExpr) accept(visitor exprVisitor) R {
	return visitor.visitAssignExpr(s)
}

type callExpr struct {
	callee    expr
	paren     *token
	arguments []expr
}

func (s *callExpr) accept(visitor exprVisitor) R {
	return visitor.visitCallExpr(s)
}

type lambdaExpr struct {
	keyword *token
	params  []*token
	body    []stmt
}

func (s *lambdaExpr) accept(visitor exprVisitor) R {
	return visitor.visitLambdaExpr(s)
}

type getExpr struct {
	object expr
	name   *token
}

func (s *getExpr) accept(visitor exprVisitor) R {
	return visitor.visitGetExpr(s)
}

type setExpr struct {
	object expr
	name   *token
	value  expr
}

func (s *setExpr) accept(visitor exprVisitor) R {
	return visitor.visitSetExpr(s)
}

type thisExpr struct {
	keyword *token
}

func (s *thisExpr) accept(visitor exprVisitor) R {
	return visitor.visitThisExpr(s)
}

type superExpr struct {
	keyword *token
	method  *token
}

func (s *superExpr) accept(visitor exprVisitor) R {
	return visitor.visitSuperExpr(s)
}
