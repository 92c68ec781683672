package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer scans CoffeeMaker source code and produces tokens
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number, counted in runes
}

// New creates a new Lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	width := 1
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch, width = utf8.DecodeRuneInString(l.input[l.readPosition:])
	}
	l.position = l.readPosition
	l.readPosition += width
	l.column++
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

// skipLineComment skips a # or // comment up to the end of the line
func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipMultiLineComment skips a multi-line comment (/* */)
func (l *Lexer) skipMultiLineComment() {
	// Already read '/*', now skip until '*/'
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // consume '*'
			l.readChar() // consume '/'
			break
		}
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a numeric literal. A fraction or an exponent makes it a float.
func (l *Lexer) readNumber() (string, TokenType) {
	position := l.position
	tokenType := INT_LIT

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		tokenType = FLOAT_LIT
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			save := *l
			l.readChar() // consume 'e'
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			if !isDigit(l.ch) {
				// "2e+" is the number 2 followed by an identifier
				*l = save
				return l.input[position:l.position], tokenType
			}
			tokenType = FLOAT_LIT
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[position:l.position], tokenType
}

// readString reads a string literal and returns its decoded contents
func (l *Lexer) readString() (string, bool) {
	// Already positioned on the opening quote
	var result strings.Builder

	for {
		l.readChar()
		if l.ch == 0 || l.ch == '\n' {
			return "", false
		}
		if l.ch == '"' {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			case 'r':
				result.WriteByte('\r')
			case '0':
				result.WriteByte(0)
			case '\\':
				result.WriteByte('\\')
			case '"':
				result.WriteByte('"')
			case 0, '\n':
				return "", false
			default:
				// Unknown escapes keep the backslash
				result.WriteByte('\\')
				result.WriteRune(l.ch)
			}
		} else {
			result.WriteRune(l.ch)
		}
	}

	return result.String(), true
}

// twoChar consumes a second character and builds a two-character token.
func (l *Lexer) twoChar(tt TokenType, line, col int) Token {
	first := l.ch
	l.readChar()
	return Token{Type: tt, Literal: string(first) + string(l.ch), Line: line, Column: col}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	line, col := l.line, l.column
	single := func(tt TokenType) Token {
		return Token{Type: tt, Literal: string(l.ch), Line: line, Column: col}
	}

	var tok Token
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoChar(EQ, line, col)
		} else {
			tok = single(ASSIGN)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoChar(NEQ, line, col)
		} else {
			tok = single(NOT)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoChar(LEQ, line, col)
		} else {
			tok = single(LT)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoChar(GEQ, line, col)
		} else {
			tok = single(GT)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoChar(AND, line, col)
		} else {
			tok = single(ILLEGAL)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoChar(OR, line, col)
		} else {
			tok = single(ILLEGAL)
		}
	case '+':
		if l.peekChar() == '+' {
			tok = l.twoChar(INC, line, col)
		} else {
			tok = single(PLUS)
		}
	case '-':
		switch l.peekChar() {
		case '-':
			tok = l.twoChar(DEC, line, col)
		case '>':
			tok = l.twoChar(ARROW, line, col)
		default:
			tok = single(MINUS)
		}
	case '*':
		if l.peekChar() == '*' {
			tok = l.twoChar(POW, line, col)
		} else {
			tok = single(STAR)
		}
	case '/':
		if l.peekChar() == '/' {
			l.skipLineComment()
			return l.NextToken()
		} else if l.peekChar() == '*' {
			l.readChar() // consume '/'
			l.readChar() // consume '*'
			l.skipMultiLineComment()
			return l.NextToken()
		}
		tok = single(SLASH)
	case '#':
		l.skipLineComment()
		return l.NextToken()
	case '%':
		tok = single(PERCENT)
	case '(':
		tok = single(LPAREN)
	case ')':
		tok = single(RPAREN)
	case '{':
		tok = single(LBRACE)
	case '}':
		tok = single(RBRACE)
	case ',':
		tok = single(COMMA)
	case ':':
		tok = single(COLON)
	case ';':
		tok = single(SEMICOLON)
	case '.':
		tok = single(DOT)
	case '?':
		tok = single(QUESTION)
	case '"':
		str, ok := l.readString()
		if !ok {
			tok = Token{Type: ILLEGAL, Literal: "unterminated string", Line: line, Column: col}
		} else {
			tok = Token{Type: STRING_LIT, Literal: str, Line: line, Column: col}
		}
	case 0:
		return Token{Type: EOF, Literal: "", Line: line, Column: col}
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return Token{Type: LookupIdent(ident), Literal: ident, Line: line, Column: col}
		} else if isDigit(l.ch) {
			literal, tokenType := l.readNumber()
			return Token{Type: tokenType, Literal: literal, Line: line, Column: col}
		}
		tok = single(ILLEGAL)
	}

	l.readChar()
	return tok
}

// Tokenize returns all tokens from the input
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens
}

// Helper functions

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
