package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT      // x, total, π
	INT_LIT    // 123
	FLOAT_LIT  // 123.45, 6e-2
	STRING_LIT // "hello"

	// Keywords
	FUNCTION    // cup, function
	CLASS       // keurig, class
	CONSTRUCTOR // create, constructor
	IF          // sugar, if
	ELIF        // salt
	ELSE        // cream, else
	NO          // no (as in "no sugar")
	WHILE
	PRINT  // brew, print
	RETURN // complete, return
	SELF
	THIS
	TRUE
	FALSE

	// Type keywords
	INT_TYPE    // regular, int
	FLOAT_TYPE  // decaf, float
	STRING_TYPE // put, string
	BOOL_TYPE   // boolean, bool
	VOID_TYPE   // void

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	POW      // **
	EQ       // ==
	NEQ      // !=
	LT       // <
	GT       // >
	LEQ      // <=
	GEQ      // >=
	AND      // &&
	OR       // ||
	NOT      // !
	INC      // ++
	DEC      // --
	ASSIGN   // =
	ARROW    // ->
	QUESTION // ?
	COLON    // :

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	SEMICOLON // ;
	DOT       // .
)

// Token represents a lexical token. For STRING_LIT the literal holds the
// decoded contents without the surrounding quotes.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

var tokenNames = map[TokenType]string{
	ILLEGAL:     "ILLEGAL",
	EOF:         "EOF",
	IDENT:       "IDENT",
	INT_LIT:     "INT_LIT",
	FLOAT_LIT:   "FLOAT_LIT",
	STRING_LIT:  "STRING_LIT",
	FUNCTION:    "FUNCTION",
	CLASS:       "CLASS",
	CONSTRUCTOR: "CONSTRUCTOR",
	IF:          "IF",
	ELIF:        "ELIF",
	ELSE:        "ELSE",
	NO:          "NO",
	WHILE:       "WHILE",
	PRINT:       "PRINT",
	RETURN:      "RETURN",
	SELF:        "SELF",
	THIS:        "THIS",
	TRUE:        "TRUE",
	FALSE:       "FALSE",
	INT_TYPE:    "INT_TYPE",
	FLOAT_TYPE:  "FLOAT_TYPE",
	STRING_TYPE: "STRING_TYPE",
	BOOL_TYPE:   "BOOL_TYPE",
	VOID_TYPE:   "VOID_TYPE",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	STAR:        "STAR",
	SLASH:       "SLASH",
	PERCENT:     "PERCENT",
	POW:         "POW",
	EQ:          "EQ",
	NEQ:         "NEQ",
	LT:          "LT",
	GT:          "GT",
	LEQ:         "LEQ",
	GEQ:         "GEQ",
	AND:         "AND",
	OR:          "OR",
	NOT:         "NOT",
	INC:         "INC",
	DEC:         "DEC",
	ASSIGN:      "ASSIGN",
	ARROW:       "ARROW",
	QUESTION:    "QUESTION",
	COLON:       "COLON",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	LBRACE:      "LBRACE",
	RBRACE:      "RBRACE",
	COMMA:       "COMMA",
	SEMICOLON:   "SEMICOLON",
	DOT:         "DOT",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var operatorSymbols = map[TokenType]string{
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	POW:     "**",
	EQ:      "==",
	NEQ:     "!=",
	LT:      "<",
	GT:      ">",
	LEQ:     "<=",
	GEQ:     ">=",
	AND:     "&&",
	OR:      "||",
	NOT:     "!",
	INC:     "++",
	DEC:     "--",
}

// Symbol returns the source spelling of an operator token type, or the
// type name for anything else.
func (t TokenType) Symbol() string {
	if sym, ok := operatorSymbols[t]; ok {
		return sym
	}
	return t.String()
}

// keywords maps keyword spellings to their token types. Each construct has
// a CoffeeMaker spelling and a conventional alias.
var keywords = map[string]TokenType{
	"cup":         FUNCTION,
	"function":    FUNCTION,
	"keurig":      CLASS,
	"class":       CLASS,
	"create":      CONSTRUCTOR,
	"constructor": CONSTRUCTOR,
	"sugar":       IF,
	"if":          IF,
	"salt":        ELIF,
	"cream":       ELSE,
	"else":        ELSE,
	"no":          NO,
	"while":       WHILE,
	"brew":        PRINT,
	"print":       PRINT,
	"complete":    RETURN,
	"return":      RETURN,
	"self":        SELF,
	"this":        THIS,
	"true":        TRUE,
	"false":       FALSE,
	"regular":     INT_TYPE,
	"int":         INT_TYPE,
	"decaf":       FLOAT_TYPE,
	"float":       FLOAT_TYPE,
	"put":         STRING_TYPE,
	"string":      STRING_TYPE,
	"boolean":     BOOL_TYPE,
	"bool":        BOOL_TYPE,
	"void":        VOID_TYPE,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsTypeKeyword reports whether t names a primitive type.
func IsTypeKeyword(t TokenType) bool {
	switch t {
	case INT_TYPE, FLOAT_TYPE, STRING_TYPE, BOOL_TYPE, VOID_TYPE:
		return true
	}
	return false
}
