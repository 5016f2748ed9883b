package lexer

import (
	"fmt"
	"strings"
)

type TokenType int

const (
	// Special
	ILLEGAL TokenType = iota
	EOF
	WS // Whitespace

	// Literals
	IDENTIFIER // column_name, "Column 1"
	STRING     // 'value'
	NUMBER     // 123, 1.23

	// Keywords
	AND
	OR
	NOT
	ASC
	DESC
	NULLS
	FIRST
	LAST

	// Operators & Punctuation
	PLUS          // +
	MINUS         // -
	ASTERISK      // *
	SLASH         // /
	COMMA         // ,
	PAREN_OPEN    // (
	PAREN_CLOSE   // )
	EQUALS        // =
	NOT_EQUAL     // != or <>
	LESS_THAN     // <
	LESS_EQUAL    // <=
	GREATER_THAN  // >
	GREATER_EQUAL // >=
	SEMICOLON     // ;
)

var keywords = map[string]TokenType{
	"AND":   AND,
	"OR":    OR,
	"NOT":   NOT,
	"ASC":   ASC,
	"DESC":  DESC,
	"NULLS": NULLS,
	"FIRST": FIRST,
	"LAST":  LAST,
}

var names = map[TokenType]string{
	ILLEGAL:       "ILLEGAL",
	EOF:           "EOF",
	WS:            "WS",
	IDENTIFIER:    "IDENTIFIER",
	STRING:        "STRING",
	NUMBER:        "NUMBER",
	AND:           "AND",
	OR:            "OR",
	NOT:           "NOT",
	ASC:           "ASC",
	DESC:          "DESC",
	NULLS:         "NULLS",
	FIRST:         "FIRST",
	LAST:          "LAST",
	PLUS:          "+",
	MINUS:         "-",
	ASTERISK:      "*",
	SLASH:         "/",
	COMMA:         ",",
	PAREN_OPEN:    "(",
	PAREN_CLOSE:   ")",
	EQUALS:        "=",
	NOT_EQUAL:     "!=",
	LESS_THAN:     "<",
	LESS_EQUAL:    "<=",
	GREATER_THAN:  ">",
	GREATER_EQUAL: ">=",
	SEMICOLON:     ";",
}

func (t TokenType) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q)", t.Type, t.Literal)
}

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '+':
		tok = newToken(PLUS, l.ch, l.line, l.column)
	case '-':
		tok = newToken(MINUS, l.ch, l.line, l.column)
	case '*':
		tok = newToken(ASTERISK, l.ch, l.line, l.column)
	case '/':
		tok = newToken(SLASH, l.ch, l.line, l.column)
	case ',':
		tok = newToken(COMMA, l.ch, l.line, l.column)
	case '(':
		tok = newToken(PAREN_OPEN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(PAREN_CLOSE, l.ch, l.line, l.column)
	case '=':
		tok = newToken(EQUALS, l.ch, l.line, l.column)
	case ';':
		tok = newToken(SEMICOLON, l.ch, l.line, l.column)
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(NOT_EQUAL)
		} else {
			tok = newToken(ILLEGAL, l.ch, l.line, l.column)
		}
	case '<':
		switch l.peekChar() {
		case '=':
			tok = l.twoCharToken(LESS_EQUAL)
		case '>':
			tok = l.twoCharToken(NOT_EQUAL)
		default:
			tok = newToken(LESS_THAN, l.ch, l.line, l.column)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(GREATER_EQUAL)
		} else {
			tok = newToken(GREATER_THAN, l.ch, l.line, l.column)
		}
	case '\'':
		tok.Type = STRING
		tok.Literal = l.readQuoted('\'')
		return tok
	case '"':
		tok.Type = IDENTIFIER
		tok.Literal = l.readQuoted('"')
		return tok
	case 0:
		tok.Literal = ""
		tok.Type = EOF
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
			tok.Type = NUMBER
			tok.Literal = l.readNumber()
			return tok
		} else {
			tok = newToken(ILLEGAL, l.ch, l.line, l.column)
		}
	}

	l.readChar()
	return tok
}

// twoCharToken consumes the current char; the caller's readChar consumes the second
func (l *Lexer) twoCharToken(t TokenType) Token {
	tok := Token{Type: t, Line: l.line, Column: l.column}
	first := l.ch
	l.readChar()
	tok.Literal = string([]byte{first, l.ch})
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '-' || l.peekChar() == '+') {
		l.readChar()
		if l.ch == '-' || l.ch == '+' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

// readQuoted reads up to the closing quote; a doubled quote is an escaped quote
func (l *Lexer) readQuoted(quote byte) string {
	var sb strings.Builder
	for {
		l.readChar()
		if l.ch == 0 {
			break
		}
		if l.ch == quote {
			if l.peekChar() != quote {
				break
			}
			l.readChar()
		}
		sb.WriteByte(l.ch)
	}

	// Consume the closing quote
	if l.ch == quote {
		l.readChar()
	}

	return sb.String()
}

func newToken(tokenType TokenType, ch byte, line, col int) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: line, Column: col}
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENTIFIER
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize the entire string at once. The EOF token is not included.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		if tok.Type == ILLEGAL {
			return nil, fmt.Errorf("illegal token at line %d, col %d: %s", tok.Line, tok.Column, tok.Literal)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
