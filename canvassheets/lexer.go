package canvassheets

import "strings"

const (
	charLParen   = '('
	charRParen   = ')'
	charLBracket = '['
	charRBracket = ']'
	charComma    = ','
	charColon    = ':'
	charDot      = '.'
	charPlus     = '+'
	charMinus    = '-'
	charAsterisk = '*'
	charSlash    = '/'
	charCaret    = '^'
	charDollar   = '$'
)

type tokenType uint8

const (
	tokenNumber tokenType = iota
	tokenCell
	tokenIdent
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
	tokenColon
	tokenDot
	tokenPlus
	tokenMinus
	tokenAsterisk
	tokenSlash
	tokenCaret
	tokenEOF
)

func (t tokenType) String() string {
	switch t {
	case tokenNumber:
		return "number"
	case tokenCell:
		return "cell"
	case tokenIdent:
		return "identifier"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	case tokenComma:
		return "','"
	case tokenColon:
		return "':'"
	case tokenDot:
		return "'.'"
	case tokenPlus:
		return "'+'"
	case tokenMinus:
		return "'-'"
	case tokenAsterisk:
		return "'*'"
	case tokenSlash:
		return "'/'"
	case tokenCaret:
		return "'^'"
	case tokenEOF:
		return "end of formula"
	}
	return "unknown"
}

// token is one lexical unit of formula text. pos is the rune offset.
type token struct {
	typ  tokenType
	text string
	pos  int
}

type lexer struct {
	input []rune
	pos   int
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func (l *lexer) current() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
			break
		}
		l.pos++
	}
}

// scanNumber scans a decimal literal with an optional fraction and an
// optional scientific exponent. An exponent without digits is not consumed;
// the scan backs up so "1e" lexes as the number 1 followed by an identifier.
func (l *lexer) scanNumber() token {
	start := l.pos
	for isDigit(l.current()) {
		l.pos++
	}
	if l.current() == charDot && isDigit(l.peek()) {
		l.pos++
		for isDigit(l.current()) {
			l.pos++
		}
	}
	if l.current() == 'e' || l.current() == 'E' {
		saved := l.pos
		l.pos++
		if l.current() == charPlus || l.current() == charMinus {
			l.pos++
		}
		if isDigit(l.current()) {
			for isDigit(l.current()) {
				l.pos++
			}
		} else {
			l.pos = saved
		}
	}
	return token{typ: tokenNumber, text: string(l.input[start:l.pos]), pos: start}
}

// scanCellOrIdent gathers a maximal run of letters, digits, underscores,
// and $ markers, then classifies it. Cell-shaped text is a cell token
// unless a '(' follows immediately, which makes it a function name. Text
// containing $ must be cell-shaped.
func (l *lexer) scanCellOrIdent() (token, error) {
	start := l.pos
	for {
		ch := l.current()
		if isAlpha(ch) || isDigit(ch) || ch == '_' || ch == charDollar {
			l.pos++
			continue
		}
		break
	}
	text := string(l.input[start:l.pos])
	if strings.ContainsRune(text, charDollar) {
		if !cellShape(text) {
			return token{}, newError(CodeInvalidCellReference, "invalid cell reference %q at position %d", text, start)
		}
		return token{typ: tokenCell, text: text, pos: start}, nil
	}
	if cellShape(text) && l.current() != charLParen {
		return token{typ: tokenCell, text: text, pos: start}, nil
	}
	return token{typ: tokenIdent, text: text, pos: start}, nil
}

// cellShape reports whether text matches a cell token: an optional $, one
// or more letters, an optional $, one or more digits.
func cellShape(text string) bool {
	i := 0
	if i < len(text) && text[i] == charDollar {
		i++
	}
	lettersStart := i
	for i < len(text) && isASCIILetter(text[i]) {
		i++
	}
	if i == lettersStart {
		return false
	}
	if i < len(text) && text[i] == charDollar {
		i++
	}
	digitsStart := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	return i > digitsStart && i == len(text)
}

// tokenize scans formula text into tokens, ending with an EOF token.
func tokenize(input string) ([]token, error) {
	l := &lexer{input: []rune(input)}
	var tokens []token
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			tokens = append(tokens, token{typ: tokenEOF, text: "", pos: l.pos})
			return tokens, nil
		}
		ch := l.current()
		switch {
		case isDigit(ch):
			tokens = append(tokens, l.scanNumber())
		case isAlpha(ch) || ch == charDollar:
			tok, err := l.scanCellOrIdent()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			var typ tokenType
			switch ch {
			case charLParen:
				typ = tokenLParen
			case charRParen:
				typ = tokenRParen
			case charLBracket:
				typ = tokenLBracket
			case charRBracket:
				typ = tokenRBracket
			case charComma:
				typ = tokenComma
			case charColon:
				typ = tokenColon
			case charDot:
				typ = tokenDot
			case charPlus:
				typ = tokenPlus
			case charMinus:
				typ = tokenMinus
			case charAsterisk:
				typ = tokenAsterisk
			case charSlash:
				typ = tokenSlash
			case charCaret:
				typ = tokenCaret
			default:
				return nil, newError(CodeUnexpectedCharacter, "unexpected character %q at position %d", string(ch), l.pos)
			}
			tokens = append(tokens, token{typ: typ, text: string(ch), pos: l.pos})
			l.pos++
		}
	}
}
