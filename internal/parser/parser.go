package parser

import (
	"github.com/lhaig/coffeemaker/internal/ast"
	"github.com/lhaig/coffeemaker/internal/diagnostic"
	"github.com/lhaig/coffeemaker/internal/lexer"
)

// New creates a new parser
func New(source string) *Parser {
	l := lexer.New(source)
	tokens := l.Tokenize()
	return &Parser{
		tokens: tokens,
		pos:    0,
		diags:  diagnostic.New(),
	}
}

// Diagnostics returns the parser's diagnostics
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// Parse parses the token stream into a Program. Syntax errors are recorded
// in Diagnostics and parsing resumes at the next statement.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}
	for !p.check(lexer.EOF) {
		startPos := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if p.pos == startPos {
			p.advance() // ensure forward progress to avoid infinite loop
		}
	}
	return prog
}

// parseStatement parses a statement. Simple statements may end in an
// optional semicolon.
func (p *Parser) parseStatement() ast.Statement {
	tok := p.current()
	switch {
	case tok.Type == lexer.SEMICOLON:
		p.advance()
		return nil
	case lexer.IsTypeKeyword(tok.Type):
		return p.terminated(p.parseVarDecl())
	case tok.Type == lexer.FUNCTION:
		return p.parseFunctionDecl()
	case tok.Type == lexer.CLASS:
		return p.parseClassDecl()
	case tok.Type == lexer.IF:
		return p.parseIfStmt()
	case tok.Type == lexer.WHILE:
		return p.parseWhileStmt()
	case tok.Type == lexer.PRINT:
		return p.terminated(p.parsePrintStmt())
	case tok.Type == lexer.RETURN:
		return p.terminated(p.parseReturnStmt())
	case tok.Type == lexer.IDENT, tok.Type == lexer.SELF:
		return p.terminated(p.parseIdentStmt())
	}

	p.diags.Errorf(tok.Line, tok.Column, "unexpected %s at start of statement", describe(tok))
	p.synchronize()
	return nil
}

func (p *Parser) terminated(stmt ast.Statement) ast.Statement {
	p.match(lexer.SEMICOLON)
	return stmt
}

// parseVarDecl parses: <type> <name> = <expr>
func (p *Parser) parseVarDecl() *ast.VarDecl {
	varType := p.parseTypeRef()
	name := p.expect(lexer.IDENT)
	p.expect(lexer.ASSIGN)
	value := p.parseExpression()

	return &ast.VarDecl{
		Type:   varType,
		Name:   name.Literal,
		Value:  value,
		Line:   varType.Line,
		Column: varType.Column,
	}
}

// parseFunctionDecl parses: cup <type> <name> -> (<params>) { ... }
func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	tok := p.expect(lexer.FUNCTION)
	retType := p.parseTypeRef()
	name := p.expect(lexer.IDENT)
	p.match(lexer.ARROW)
	p.expect(lexer.LPAREN)
	params := p.parseParamList()
	p.expect(lexer.RPAREN)
	body := p.parseBlock()

	return &ast.FunctionDecl{
		Name:       name.Literal,
		ReturnType: retType,
		Params:     params,
		Body:       body,
		Line:       tok.Line,
		Column:     tok.Column,
	}
}

// parseClassDecl parses: keurig <name> { create(self, ...) { ... } <methods> }
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	tok := p.expect(lexer.CLASS)
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LBRACE)

	class := &ast.ClassDecl{
		Name:   name.Literal,
		Line:   tok.Line,
		Column: tok.Column,
	}

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		cur := p.current()
		switch cur.Type {
		case lexer.CONSTRUCTOR:
			ctor := p.parseConstructorDecl()
			if class.Constructor != nil {
				p.diags.Errorf(cur.Line, cur.Column, "class %s already has a constructor", class.Name)
			} else {
				class.Constructor = ctor
			}
		case lexer.FUNCTION:
			class.Methods = append(class.Methods, p.parseMethodDecl())
		default:
			p.diags.Errorf(cur.Line, cur.Column, "unexpected %s in class body", describe(cur))
			startPos := p.pos
			p.synchronize()
			if p.pos == startPos && !p.check(lexer.RBRACE) {
				p.advance()
			}
		}
	}
	end := p.expect(lexer.RBRACE)

	if class.Constructor == nil {
		p.diags.ErrorWithHint(end.Line, end.Column,
			"class "+class.Name+" has no constructor",
			"declare one with create(self, ...) { this.field = value }")
	}
	return class
}

// parseConstructorDecl parses: create(self, <params>) { this.<field> = <expr> ... }
func (p *Parser) parseConstructorDecl() *ast.ConstructorDecl {
	tok := p.expect(lexer.CONSTRUCTOR)
	p.expect(lexer.LPAREN)
	params := p.parseReceiverParams()
	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)

	ctor := &ast.ConstructorDecl{
		Params: params,
		Line:   tok.Line,
		Column: tok.Column,
	}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		if p.match(lexer.SEMICOLON) {
			continue
		}
		if !p.check(lexer.THIS) {
			cur := p.current()
			p.diags.ErrorWithHint(cur.Line, cur.Column,
				"unexpected "+describe(cur)+" in constructor body",
				"constructors may only assign fields with this.<field> = <value>")
			startPos := p.pos
			p.synchronize()
			if p.pos == startPos && !p.check(lexer.RBRACE) {
				p.advance()
			}
			continue
		}
		ctor.Fields = append(ctor.Fields, p.parseFieldAssign())
		p.match(lexer.SEMICOLON)
	}
	p.expect(lexer.RBRACE)
	return ctor
}

// parseFieldAssign parses: this.<field> = <expr>
func (p *Parser) parseFieldAssign() *ast.FieldAssign {
	tok := p.expect(lexer.THIS)
	p.expect(lexer.DOT)
	field := p.expect(lexer.IDENT)
	p.expect(lexer.ASSIGN)
	value := p.parseExpression()
	return &ast.FieldAssign{
		Field:  field.Literal,
		Value:  value,
		Line:   tok.Line,
		Column: tok.Column,
	}
}

// parseMethodDecl parses: cup <type> <name> -> (self, <params>) { ... }
func (p *Parser) parseMethodDecl() *ast.MethodDecl {
	tok := p.expect(lexer.FUNCTION)
	retType := p.parseTypeRef()
	name := p.expect(lexer.IDENT)
	p.match(lexer.ARROW)
	p.expect(lexer.LPAREN)
	params := p.parseReceiverParams()
	p.expect(lexer.RPAREN)
	body := p.parseBlock()

	return &ast.MethodDecl{
		Name:       name.Literal,
		ReturnType: retType,
		Params:     params,
		Body:       body,
		Line:       tok.Line,
		Column:     tok.Column,
	}
}

// parseReceiverParams parses: self [, <param>]*
func (p *Parser) parseReceiverParams() []*ast.Param {
	p.expect(lexer.SELF)
	var params []*ast.Param
	for p.match(lexer.COMMA) {
		params = append(params, p.parseParam())
	}
	return params
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.check(lexer.RPAREN) {
		return params
	}
	params = append(params, p.parseParam())
	for p.match(lexer.COMMA) {
		params = append(params, p.parseParam())
	}
	return params
}

// parseParam parses: [<type>] <name>
func (p *Parser) parseParam() *ast.Param {
	tok := p.current()
	var paramType *ast.TypeRef
	if lexer.IsTypeKeyword(tok.Type) {
		paramType = p.parseTypeRef()
	}
	name := p.expect(lexer.IDENT)
	return &ast.Param{
		Name:   name.Literal,
		Type:   paramType,
		Line:   tok.Line,
		Column: tok.Column,
	}
}

func (p *Parser) parseTypeRef() *ast.TypeRef {
	tok := p.current()
	if !lexer.IsTypeKeyword(tok.Type) {
		p.diags.ErrorWithHint(tok.Line, tok.Column,
			"expected a type, got "+describe(tok),
			"types are regular, decaf, put, boolean or void")
		return &ast.TypeRef{Kind: lexer.ILLEGAL, Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	}
	p.advance()
	return &ast.TypeRef{Kind: tok.Type, Name: tok.Literal, Line: tok.Line, Column: tok.Column}
}

// parseBlock parses: { <statements> }
func (p *Parser) parseBlock() *ast.Block {
	tok := p.expect(lexer.LBRACE)
	block := &ast.Block{
		Line:   tok.Line,
		Column: tok.Column,
	}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		startPos := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.pos == startPos && !p.check(lexer.RBRACE) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE)
	return block
}

// parseIfStmt parses: sugar <expr> { ... } followed by any number of
// else-if clauses (salt, cream sugar, else if) and an optional else
// clause (cream, no sugar, else).
func (p *Parser) parseIfStmt() *ast.IfStmt {
	return p.parseIfTail(p.expect(lexer.IF))
}

func (p *Parser) parseIfTail(tok lexer.Token) *ast.IfStmt {
	condition := p.parseExpression()
	then := p.parseBlock()

	var elseStmt ast.Statement
	switch {
	case p.check(lexer.ELIF):
		elseStmt = p.parseIfTail(p.advance())
	case p.check(lexer.ELSE) && p.peek().Type == lexer.IF:
		elseTok := p.advance()
		p.advance()
		elseStmt = p.parseIfTail(elseTok)
	case p.check(lexer.ELSE):
		p.advance()
		elseStmt = p.parseBlock()
	case p.check(lexer.NO):
		p.advance()
		p.expect(lexer.IF)
		elseStmt = p.parseBlock()
	}

	return &ast.IfStmt{
		Condition: condition,
		Then:      then,
		Else:      elseStmt,
		Line:      tok.Line,
		Column:    tok.Column,
	}
}

// parseWhileStmt parses: while <expr> { ... }
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	tok := p.expect(lexer.WHILE)
	condition := p.parseExpression()
	body := p.parseBlock()

	return &ast.WhileStmt{
		Condition: condition,
		Body:      body,
		Line:      tok.Line,
		Column:    tok.Column,
	}
}

// parsePrintStmt parses: brew <expr>
func (p *Parser) parsePrintStmt() *ast.PrintStmt {
	tok := p.expect(lexer.PRINT)
	value := p.parseExpression()
	return &ast.PrintStmt{
		Value:  value,
		Line:   tok.Line,
		Column: tok.Column,
	}
}

// parseReturnStmt parses: complete [expr]. The value is omitted only when
// the statement is directly followed by ';', '}' or the end of input.
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	tok := p.expect(lexer.RETURN)
	var value ast.Expression
	if !p.check(lexer.SEMICOLON) && !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		value = p.parseExpression()
	}

	return &ast.ReturnStmt{
		Value:  value,
		Line:   tok.Line,
		Column: tok.Column,
	}
}

// parseIdentStmt parses the statements that start with a name:
// assignment, increment, decrement and call statements.
func (p *Parser) parseIdentStmt() ast.Statement {
	tok := p.current()
	switch p.peek().Type {
	case lexer.ASSIGN:
		p.advance()
		p.advance()
		value := p.parseExpression()
		return &ast.AssignStmt{
			Name:   tok.Literal,
			Value:  value,
			Line:   tok.Line,
			Column: tok.Column,
		}
	case lexer.INC, lexer.DEC:
		p.advance()
		op := p.advance()
		return &ast.IncDecStmt{
			Name:   tok.Literal,
			Op:     op.Type,
			Line:   tok.Line,
			Column: tok.Column,
		}
	case lexer.LPAREN:
		call := p.parseCall()
		return &ast.ExprStmt{
			Expr:   call,
			Line:   tok.Line,
			Column: tok.Column,
		}
	}

	next := p.peek()
	p.diags.Errorf(next.Line, next.Column, "expected '=', '++', '--' or '(' after %s, got %s",
		tok.Literal, describe(next))
	p.advance()
	p.synchronize()
	return nil
}

// Expression parsing - precedence climbing

// Precedence levels (lowest to highest):
// 1. ?:           (right-associative, handled by parseExpression)
// 2. ||           (left-associative)
// 3. &&           (left-associative)
// 4. == !=        (left-associative)
// 5. < > <= >=    (left-associative)
// 6. + -          (left-associative)
// 7. * / %        (left-associative)
// 8. unary (- !)
// 9. **           (right-associative, binds tighter than a unary on its left)
// 10. primary: literals, names, calls, parentheses

const (
	precNone       = 0
	precOr         = 2
	precAnd        = 3
	precEquality   = 4
	precComparison = 5
	precAdditive   = 6
	precMulti      = 7
)

func tokenPrecedence(tt lexer.TokenType) int {
	switch tt {
	case lexer.OR:
		return precOr
	case lexer.AND:
		return precAnd
	case lexer.EQ, lexer.NEQ:
		return precEquality
	case lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		return precComparison
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return precMulti
	default:
		return precNone
	}
}

// parseExpression parses a full expression including the ternary form
func (p *Parser) parseExpression() ast.Expression {
	cond := p.parsePrecedence(precOr)
	if !p.check(lexer.QUESTION) {
		return cond
	}
	p.advance()
	then := p.parseExpression()
	p.expect(lexer.COLON)
	otherwise := p.parseExpression()

	line, col := cond.Pos()
	return &ast.ConditionalExpr{
		Condition: cond,
		Then:      then,
		Else:      otherwise,
		Line:      line,
		Column:    col,
	}
}

func (p *Parser) parsePrecedence(minPrec int) ast.Expression {
	left := p.parseUnary()

	for {
		prec := tokenPrecedence(p.current().Type)
		if prec == precNone || prec < minPrec {
			break
		}

		op := p.advance()
		right := p.parsePrecedence(prec + 1)
		left = &ast.BinaryExpr{
			Left:   left,
			Op:     op.Type,
			Right:  right,
			Line:   op.Line,
			Column: op.Column,
		}
	}

	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.check(lexer.MINUS) || p.check(lexer.NOT) {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			Op:      op.Type,
			Operand: operand,
			Line:    op.Line,
			Column:  op.Column,
		}
	}
	return p.parsePower()
}

func (p *Parser) parsePower() ast.Expression {
	base := p.parsePrimary()
	if !p.check(lexer.POW) {
		return base
	}
	op := p.advance()
	exponent := p.parseUnary()
	return &ast.BinaryExpr{
		Left:   base,
		Op:     op.Type,
		Right:  exponent,
		Line:   op.Line,
		Column: op.Column,
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()

	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		return &ast.IntLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.FLOAT_LIT:
		p.advance()
		return &ast.FloatLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.STRING_LIT:
		p.advance()
		return &ast.StringLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Line: tok.Line, Column: tok.Column}
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Line: tok.Line, Column: tok.Column}
	case lexer.SELF:
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.IDENT:
		if p.peek().Type == lexer.LPAREN {
			return p.parseCall()
		}
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(lexer.RPAREN)
		return expr
	default:
		p.diags.Errorf(tok.Line, tok.Column, "unexpected %s in expression", describe(tok))
		if !p.check(lexer.EOF) {
			p.advance()
		}
		return &ast.Identifier{Name: "<error>", Line: tok.Line, Column: tok.Column}
	}
}

// parseCall parses: <name>(<args>)
func (p *Parser) parseCall() *ast.CallExpr {
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LPAREN)
	args := p.parseArgList()
	p.expect(lexer.RPAREN)
	return &ast.CallExpr{
		Function: name.Literal,
		Args:     args,
		Line:     name.Line,
		Column:   name.Column,
	}
}

func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	if p.check(lexer.RPAREN) {
		return args
	}
	args = append(args, p.parseExpression())
	for p.match(lexer.COMMA) {
		args = append(args, p.parseExpression())
	}
	return args
}
