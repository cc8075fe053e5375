package query

import (
	"fmt"

	"github.com/dhippley/semigraph/pkg/value"
)

// Parser is a recursive-descent parser for a bit-exact query-string subset:
//
//	MATCH (v:Label)  ( (-[var:TYPE]->) (v2:Label) )?
//	[ WHERE cond (AND|OR cond)* | NOT cond | (cond) ]
//	RETURN item (, item)*
//
// with comparison operators {=, !=, <>, >, >=, <, <=}, AND/OR/NOT,
// parentheses, single- or double-quoted strings, and integer/float
// literals. Anything outside that subset (CREATE/MERGE/SET/DELETE/WITH,
// variable-length hops, ORDER BY/SKIP/LIMIT in the string form,
// aggregations) produces a ParseError rather than silently succeeding.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a Parser ready to Parse query strings.
func NewParser() *Parser { return &Parser{} }

// Parse tokenizes and parses src into a Query AST.
func (p *Parser) Parse(src string) (*Query, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p.tokens = tokens
	p.pos = 0

	q := &Query{}

	if !p.atKeyword("MATCH") {
		return nil, p.errorf("expected MATCH")
	}
	p.advance()
	pattern, err := p.parseMatchPattern()
	if err != nil {
		return nil, err
	}
	q.MatchPatterns = append(q.MatchPatterns, pattern)

	if p.atKeyword("WHERE") {
		p.advance()
		cond, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		q.WhereConditions = append(q.WhereConditions, cond)
	}

	if !p.atKeyword("RETURN") {
		return nil, p.errorf("expected RETURN")
	}
	p.advance()
	items, err := p.parseReturnItems()
	if err != nil {
		return nil, err
	}
	q.ReturnItems = items

	if p.current().Kind != TokEOF {
		return nil, p.errorf("unsupported trailing input %q", p.current().Text)
	}

	return q, nil
}

func (p *Parser) current() Token { return p.tokens[p.pos] }

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) atKeyword(kw string) bool {
	t := p.current()
	return t.Kind == TokKeyword && t.Text == kw
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	if p.current().Kind != kind {
		return Token{}, p.errorf("expected %s, got %q", what, p.current().Text)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Position: p.current().Pos, Message: fmt.Sprintf(format, args...)}
}

// parseMatchPattern parses "(v:Label)" optionally followed by one
// "-[var:TYPE]->" "(v2:Label)" hop, per the grammar's single-hop subset.
func (p *Parser) parseMatchPattern() (MatchPattern, error) {
	var pattern MatchPattern

	first, err := p.parseNodePattern()
	if err != nil {
		return pattern, err
	}
	pattern.Nodes = append(pattern.Nodes, first)

	if p.current().Kind == TokDash || p.current().Kind == TokArrowIn {
		edge, err := p.parseEdgePattern()
		if err != nil {
			return pattern, err
		}
		pattern.Edges = append(pattern.Edges, edge)

		second, err := p.parseNodePattern()
		if err != nil {
			return pattern, err
		}
		pattern.Nodes = append(pattern.Nodes, second)
	}

	return pattern, nil
}

// parseNodePattern parses "(" [ident] [":" Label [":" Label ...]] ")".
func (p *Parser) parseNodePattern() (NodePattern, error) {
	var np NodePattern

	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return np, err
	}

	if p.current().Kind == TokIdent {
		np.Var = p.advance().Text
	}

	for p.current().Kind == TokColon {
		p.advance()
		label, err := p.expect(TokIdent, "label")
		if err != nil {
			return np, err
		}
		np.Labels = append(np.Labels, label.Text)
	}

	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return np, err
	}
	return np, nil
}

// parseEdgePattern parses one of:
//
//	-[var:TYPE]->   (outgoing)
//	<-[var:TYPE]-   (incoming)
//	-[var:TYPE]-    (undirected)
func (p *Parser) parseEdgePattern() (EdgePattern, error) {
	var ep EdgePattern

	leadingIncoming := false
	if p.current().Kind == TokArrowIn {
		leadingIncoming = true
		p.advance()
	} else if _, err := p.expect(TokDash, "'-'"); err != nil {
		return ep, err
	}

	if _, err := p.expect(TokLBracket, "'['"); err != nil {
		return ep, err
	}
	if p.current().Kind == TokIdent {
		ep.Var = p.advance().Text
	}
	if p.current().Kind == TokColon {
		p.advance()
		relType, err := p.expect(TokIdent, "relationship type")
		if err != nil {
			return ep, err
		}
		ep.RelType = relType.Text
	}
	if _, err := p.expect(TokRBracket, "']'"); err != nil {
		return ep, err
	}

	switch p.current().Kind {
	case TokArrowOut:
		p.advance()
		ep.Direction = DirOutgoing
	case TokDash:
		p.advance()
		ep.Direction = DirUndirected
	default:
		return ep, p.errorf("expected '-' or '->' to close relationship pattern")
	}

	if leadingIncoming {
		ep.Direction = DirIncoming
	}
	return ep, nil
}

// parseOrExpr handles the lowest-precedence OR chain.
func (p *Parser) parseOrExpr() (*Condition, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("OR") {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = Logical(LogicalOr, left, right)
	}
	return left, nil
}

func (p *Parser) parseAndExpr() (*Condition, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("AND") {
		p.advance()
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = Logical(LogicalAnd, left, right)
	}
	return left, nil
}

func (p *Parser) parseNotExpr() (*Condition, error) {
	if p.atKeyword("NOT") {
		p.advance()
		inner, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return Logical(LogicalNot, inner), nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (*Condition, error) {
	if p.current().Kind == TokLParen {
		p.advance()
		cond, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
		return cond, nil
	}
	return p.parseComparison()
}

// parseComparison parses "operand OP operand", where each operand is a ref
// ("var" or "var.key") or a literal.
func (p *Parser) parseComparison() (*Condition, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	op, err := p.parseCompareOp()
	if err != nil {
		return nil, err
	}

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	return Comparison(left, op, right), nil
}

func (p *Parser) parseOperand() (Operand, error) {
	tok := p.current()
	switch tok.Kind {
	case TokIdent:
		p.advance()
		variable := tok.Text
		if p.current().Kind == TokDot {
			p.advance()
			key, err := p.expect(TokIdent, "property name")
			if err != nil {
				return Operand{}, err
			}
			return RefOperand(variable, key.Text), nil
		}
		return RefOperand(variable, ""), nil
	case TokNumber:
		p.advance()
		f, isFloat, err := parseNumberToken(tok)
		if err != nil {
			return Operand{}, err
		}
		if isFloat {
			return LitOperand(value.Float(f)), nil
		}
		return LitOperand(value.Int(int64(f))), nil
	case TokString:
		p.advance()
		return LitOperand(value.String(tok.Text)), nil
	default:
		return Operand{}, p.errorf("expected identifier, number, or string literal, got %q", tok.Text)
	}
}

func (p *Parser) parseCompareOp() (CompareOp, error) {
	tok := p.current()
	switch tok.Kind {
	case TokEq:
		p.advance()
		return OpEq, nil
	case TokNeq:
		p.advance()
		return OpNeq, nil
	case TokNeq2:
		p.advance()
		return OpNeq, nil
	case TokGT:
		p.advance()
		return OpGt, nil
	case TokGte:
		p.advance()
		return OpGte, nil
	case TokLT:
		p.advance()
		return OpLt, nil
	case TokLte:
		p.advance()
		return OpLte, nil
	default:
		return 0, p.errorf("expected comparison operator, got %q", tok.Text)
	}
}

// parseReturnItems parses "item (, item)*" where item is "var" or
// "var.key". ORDER BY/SKIP/LIMIT are not accepted in the string surface —
// their AST fields exist for the builder form only (see builder.go).
func (p *Parser) parseReturnItems() ([]ReturnItem, error) {
	var items []ReturnItem

	for {
		varTok, err := p.expect(TokIdent, "return variable")
		if err != nil {
			return nil, err
		}
		item := ReturnItem{Kind: ReturnVariable, Var: varTok.Text}
		if p.current().Kind == TokDot {
			p.advance()
			key, err := p.expect(TokIdent, "property name")
			if err != nil {
				return nil, err
			}
			item.Kind = ReturnProperty
			item.Key = key.Text
		}
		items = append(items, item)

		if p.current().Kind != TokComma {
			break
		}
		p.advance()
	}

	return items, nil
}
