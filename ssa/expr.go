package ssa

import (
	"fmt"
	"math"
	"strconv"
)

// expr is a compiled rate expression evaluated against species amounts.
type expr interface {
	eval(x []float64) float64
}

type numExpr float64

func (n numExpr) eval([]float64) float64 { return float64(n) }

// speciesExpr reads the amount of the species at the given index.
type speciesExpr int

func (s speciesExpr) eval(x []float64) float64 { return x[s] }

type negExpr struct{ e expr }

func (n negExpr) eval(x []float64) float64 { return -n.e.eval(x) }

type binaryExpr struct {
	op   byte
	l, r expr
}

func (b binaryExpr) eval(x []float64) float64 {
	l, r := b.l.eval(x), b.r.eval(x)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	case '^':
		return math.Pow(l, r)
	}
	panic("ssa: bad operator " + string(b.op))
}

// resolver maps an identifier to an expression node.
type resolver func(name string) (expr, error)

type exprParser struct {
	src     string
	pos     int
	resolve resolver
}

// compileExpr parses src and resolves every identifier through resolve.
// Subtrees made only of constants are folded.
func compileExpr(src string, resolve resolver) (expr, error) {
	p := &exprParser{src: src, resolve: resolve}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.src[p.pos], p.pos)
	}
	return e, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) parseSum() (expr, error) {
	l, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return l, nil
		}
		p.pos++
		r, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		l = fold(op, l, r)
	}
}

func (p *exprParser) parseProduct() (expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return l, nil
		}
		// "**" is a power operator, handled in parsePower.
		if op == '*' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*' {
			return l, nil
		}
		p.pos++
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = fold(op, l, r)
	}
}

func (p *exprParser) parseUnary() (expr, error) {
	switch p.peek() {
	case '-':
		p.pos++
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if n, ok := e.(numExpr); ok {
			return -n, nil
		}
		return negExpr{e}, nil
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch p.peek() {
	case '^':
		p.pos++
	case '*':
		if p.pos+1 < len(p.src) && p.src[p.pos+1] == '*' {
			p.pos += 2
		} else {
			return base, nil
		}
	default:
		return base, nil
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return fold('^', base, exp), nil
}

func (p *exprParser) parsePrimary() (expr, error) {
	c := p.peek()
	switch {
	case c == 0:
		return nil, fmt.Errorf("unexpected end of expression")
	case c == '(':
		p.pos++
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing ')' at offset %d", p.pos)
		}
		p.pos++
		return e, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		start := p.pos
		for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
			p.pos++
		}
		return p.resolve(p.src[start:p.pos])
	}
	return nil, fmt.Errorf("unexpected %q at offset %d", c, p.pos)
}

func (p *exprParser) parseNumber() (expr, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		if (c == 'e' || c == 'E') && p.pos+1 < len(p.src) {
			next := p.src[p.pos+1]
			if next == '+' || next == '-' {
				p.pos += 2
				continue
			}
			if next >= '0' && next <= '9' {
				p.pos++
				continue
			}
		}
		break
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q", p.src[start:p.pos])
	}
	return numExpr(v), nil
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func fold(op byte, l, r expr) expr {
	e := binaryExpr{op: op, l: l, r: r}
	_, lc := l.(numExpr)
	_, rc := r.(numExpr)
	if lc && rc {
		return numExpr(e.eval(nil))
	}
	return e
}
