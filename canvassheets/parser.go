package canvassheets

import (
	"strconv"
	"strings"
)

// astNode is one parsed formula expression. eval runs it against a single
// target cell's context; pos is the rune offset in the formula text.
type astNode interface {
	eval(ctx *evalContext) (value, error)
	pos() int
}

// cellCoord is one endpoint of a parsed reference. Abs flags pin an axis
// against anchor shifting.
type cellCoord struct {
	row    int
	col    int
	rowAbs bool
	colAbs bool
}

type numberNode struct {
	val float64
	at  int
}

type boolNode struct {
	val bool
	at  int
}

type unaryNode struct {
	op      tokenType
	operand astNode
	at      int
}

type binaryNode struct {
	op    tokenType
	left  astNode
	right astNode
	at    int
}

type functionNode struct {
	name string
	args []astNode
	at   int
}

// cellNode is a single-cell reference. An empty table names the home table.
type cellNode struct {
	table  string
	region string
	coord  cellCoord
	at     int
}

type rangeNode struct {
	table  string
	region string
	start  cellCoord
	end    cellCoord
	at     int
}

// columnNode reads a whole body column of its table.
type columnNode struct {
	table string
	col   int
	at    int
}

// rowNode reads a whole body row of its table.
type rowNode struct {
	table string
	row   int
	at    int
}

func (n *numberNode) pos() int   { return n.at }
func (n *boolNode) pos() int     { return n.at }
func (n *unaryNode) pos() int    { return n.at }
func (n *binaryNode) pos() int   { return n.at }
func (n *functionNode) pos() int { return n.at }
func (n *cellNode) pos() int     { return n.at }
func (n *rangeNode) pos() int    { return n.at }
func (n *columnNode) pos() int   { return n.at }
func (n *rowNode) pos() int      { return n.at }

// decodeCellToken splits a cell token into its coordinate, recording $
// pins: one before the letters pins the column, one before the digits pins
// the row.
func decodeCellToken(text string, at int) (cellCoord, error) {
	var c cellCoord
	s := text
	if strings.HasPrefix(s, "$") {
		c.colAbs = true
		s = s[1:]
	}
	i := 0
	for i < len(s) && isASCIILetter(s[i]) {
		i++
	}
	letters, rest := s[:i], s[i:]
	if strings.HasPrefix(rest, "$") {
		c.rowAbs = true
		rest = rest[1:]
	}
	if letters == "" || rest == "" {
		return c, newError(CodeInvalidCellReference, "invalid cell reference %q at position %d", text, at)
	}
	row, err := strconv.Atoi(rest)
	if err != nil || row < 0 {
		return c, newError(CodeInvalidCellReference, "invalid cell reference %q at position %d", text, at)
	}
	col, colErr := ColumnIndex(letters)
	if colErr != nil {
		return c, newError(CodeInvalidCellReference, "invalid cell reference %q at position %d", text, at)
	}
	c.row, c.col = row, col
	return c, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) current() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.typ != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ tokenType) (token, error) {
	tok := p.current()
	if tok.typ != typ {
		return token{}, newError(CodeUnexpectedToken, "expected %s, got %s at position %d", typ, tok.typ, tok.pos)
	}
	return p.advance(), nil
}

// parseFormula lexes and parses formula text into an AST. A single leading
// '=' is stripped; text after a complete expression is an error.
func parseFormula(text string) (astNode, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "=")
	tokens, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.typ != tokenEOF {
		return nil, newError(CodeUnexpectedToken, "unexpected %s after expression at position %d", tok.typ, tok.pos)
	}
	return node, nil
}

func (p *parser) parseExpression() (astNode, error) {
	return p.parseAddition()
}

func (p *parser) parseAddition() (astNode, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok.typ != tokenPlus && tok.typ != tokenMinus {
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.typ, left: left, right: right, at: tok.pos}
	}
}

func (p *parser) parseMultiplication() (astNode, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok.typ != tokenAsterisk && tok.typ != tokenSlash {
			return left, nil
		}
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.typ, left: left, right: right, at: tok.pos}
	}
}

// parsePower is right-associative: 2^3^2 is 2^(3^2).
func (p *parser) parsePower() (astNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	tok := p.current()
	if tok.typ != tokenCaret {
		return left, nil
	}
	p.advance()
	right, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: tokenCaret, left: left, right: right, at: tok.pos}, nil
}

func (p *parser) parseUnary() (astNode, error) {
	tok := p.current()
	if tok.typ == tokenPlus || tok.typ == tokenMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tok.typ, operand: operand, at: tok.pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (astNode, error) {
	tok := p.current()
	switch tok.typ {
	case tokenNumber:
		p.advance()
		val, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, newError(CodeUnexpectedToken, "invalid number %q at position %d", tok.text, tok.pos)
		}
		return &numberNode{val: val, at: tok.pos}, nil
	case tokenLParen:
		p.advance()
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return node, nil
	case tokenCell:
		p.advance()
		if p.current().typ == tokenDot {
			// Cell-shaped text before a dot is a table id, such as table1.
			if strings.ContainsRune(tok.text, charDollar) {
				return nil, newError(CodeUnexpectedToken, "unexpected '.' after cell reference at position %d", p.current().pos)
			}
			p.advance()
			return p.parseQualified(tok.text, tok.pos)
		}
		return p.parseCellOrRange("", regionBody, tok)
	case tokenIdent:
		return p.parseIdent()
	default:
		return nil, newError(CodeUnexpectedToken, "unexpected %s at position %d", tok.typ, tok.pos)
	}
}

func (p *parser) parseIdent() (astNode, error) {
	tok := p.advance()
	if strings.EqualFold(tok.text, "TRUE") {
		return &boolNode{val: true, at: tok.pos}, nil
	}
	if strings.EqualFold(tok.text, "FALSE") {
		return &boolNode{val: false, at: tok.pos}, nil
	}
	switch p.current().typ {
	case tokenLParen:
		if strings.EqualFold(tok.text, "COL") || strings.EqualFold(tok.text, "ROW") {
			return p.parseAxisRef(tok)
		}
		return p.parseFunctionCall(tok)
	case tokenLBracket:
		return p.parseRegionRef("", tok)
	case tokenDot:
		p.advance()
		return p.parseQualified(tok.text, tok.pos)
	default:
		return nil, newError(CodeUnexpectedToken, "unexpected identifier %q at position %d", tok.text, tok.pos)
	}
}

func (p *parser) parseFunctionCall(name token) (astNode, error) {
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	var args []astNode
	if p.current().typ == tokenRParen {
		p.advance()
		return &functionNode{name: name.text, args: args, at: name.pos}, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		tok := p.current()
		if tok.typ == tokenComma {
			p.advance()
			continue
		}
		if tok.typ == tokenRParen {
			p.advance()
			return &functionNode{name: name.text, args: args, at: name.pos}, nil
		}
		return nil, newError(CodeUnexpectedToken, "expected ',' or ')' in %s call at position %d", name.text, tok.pos)
	}
}

// parseAxisRef parses COL(x) and ROW(x) on the home table. COL takes a cell
// token or bare column letters; ROW takes a cell token or a bare
// non-negative integer.
func (p *parser) parseAxisRef(name token) (astNode, error) {
	isCol := strings.EqualFold(name.text, "COL")
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	tok := p.advance()
	var node astNode
	switch {
	case tok.typ == tokenCell:
		coord, err := decodeCellToken(tok.text, tok.pos)
		if err != nil {
			return nil, err
		}
		if isCol {
			node = &columnNode{col: coord.col, at: name.pos}
		} else {
			node = &rowNode{row: coord.row, at: name.pos}
		}
	case isCol && tok.typ == tokenIdent:
		col, err := ColumnIndex(tok.text)
		if err != nil {
			return nil, newError(CodeUnexpectedToken, "expected column letters in COL at position %d", tok.pos)
		}
		node = &columnNode{col: col, at: name.pos}
	case !isCol && tok.typ == tokenNumber:
		row, err := strconv.Atoi(tok.text)
		if err != nil || row < 0 {
			return nil, newError(CodeUnexpectedToken, "expected row number in ROW at position %d", tok.pos)
		}
		node = &rowNode{row: row, at: name.pos}
	default:
		return nil, newError(CodeUnexpectedToken, "unexpected %s in %s at position %d", tok.typ, strings.ToUpper(name.text), tok.pos)
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return node, nil
}

// parseRegionRef parses region[cell] and region[start:end] references,
// optionally qualified by a table id.
func (p *parser) parseRegionRef(table string, region token) (astNode, error) {
	if _, err := p.expect(tokenLBracket); err != nil {
		return nil, err
	}
	startTok, err := p.expect(tokenCell)
	if err != nil {
		return nil, err
	}
	start, err := decodeCellToken(startTok.text, startTok.pos)
	if err != nil {
		return nil, err
	}
	if p.current().typ == tokenColon {
		p.advance()
		endTok, err := p.expect(tokenCell)
		if err != nil {
			return nil, err
		}
		end, err := decodeCellToken(endTok.text, endTok.pos)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRBracket); err != nil {
			return nil, err
		}
		return &rangeNode{table: table, region: region.text, start: start, end: end, at: region.pos}, nil
	}
	if _, err := p.expect(tokenRBracket); err != nil {
		return nil, err
	}
	return &cellNode{table: table, region: region.text, coord: start, at: region.pos}, nil
}

// parseCellOrRange builds a cell or range node from a scanned cell token,
// consuming a second ':'-separated endpoint when present.
func (p *parser) parseCellOrRange(table, region string, cellTok token) (astNode, error) {
	start, err := decodeCellToken(cellTok.text, cellTok.pos)
	if err != nil {
		return nil, err
	}
	if p.current().typ == tokenColon {
		p.advance()
		endTok, err := p.expect(tokenCell)
		if err != nil {
			return nil, err
		}
		end, err := decodeCellToken(endTok.text, endTok.pos)
		if err != nil {
			return nil, err
		}
		return &rangeNode{table: table, region: region, start: start, end: end, at: cellTok.pos}, nil
	}
	return &cellNode{table: table, region: region, coord: start, at: cellTok.pos}, nil
}

// parseQualified parses the reference after a table qualifier dot: a cell
// or range token, a region-scoped reference, bare column letters, or a bare
// row number.
func (p *parser) parseQualified(table string, at int) (astNode, error) {
	tok := p.current()
	switch tok.typ {
	case tokenCell:
		p.advance()
		return p.parseCellOrRange(table, regionBody, tok)
	case tokenIdent:
		p.advance()
		if p.current().typ == tokenLBracket {
			return p.parseRegionRef(table, tok)
		}
		col, err := ColumnIndex(tok.text)
		if err != nil {
			return nil, newError(CodeUnexpectedToken, "expected reference after %q at position %d", table, tok.pos)
		}
		return &columnNode{table: table, col: col, at: at}, nil
	case tokenNumber:
		p.advance()
		row, err := strconv.Atoi(tok.text)
		if err != nil || row < 0 {
			return nil, newError(CodeUnexpectedToken, "expected row number after %q at position %d", table, tok.pos)
		}
		return &rowNode{table: table, row: row, at: at}, nil
	default:
		return nil, newError(CodeUnexpectedToken, "unexpected %s after %q at position %d", tok.typ, table, tok.pos)
	}
}
