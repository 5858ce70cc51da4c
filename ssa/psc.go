package ssa

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadModel reads and compiles a PySCeS (.psc) model file.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseModel(f, path)
}

type rawReaction struct {
	name       string
	stoichLine int
	stoich     string
	rateLine   int
	rate       string
}

type rawAssignment struct {
	line  int
	name  string
	value float64
}

type pscParser struct {
	file string

	reactions   []rawReaction
	assignments []rawAssignment
	values      map[string]float64
	fixed       []string
	modelName   string
	description string
}

// ParseModel compiles a model from PySCeS input. name is used in error
// messages and recorded as the model's file.
//
// The supported subset covers irreversible reactions ("A + {2}B > C"), the
// $pool boundary species, FIX: declarations, numeric assignments for initial
// amounts and parameters, and Modelname:/Description: headers.
func ParseModel(r io.Reader, name string) (*Model, error) {
	p := &pscParser{file: name, values: map[string]float64{}}
	if err := p.scan(r); err != nil {
		return nil, err
	}
	return p.build()
}

func (p *pscParser) errorf(line int, format string, args ...any) error {
	return &ParseError{File: p.file, Line: line, Err: fmt.Errorf(format, args...)}
}

func (p *pscParser) wrap(line int, err error) error {
	return &ParseError{File: p.file, Line: line, Err: err}
}

func (p *pscParser) scan(r io.Reader) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	var cur *rawReaction

	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Inside a reaction block the next two lines are stoichiometry and rate.
		if cur != nil {
			if cur.stoich == "" {
				cur.stoich, cur.stoichLine = line, lineNo
				continue
			}
			cur.rate, cur.rateLine = line, lineNo
			p.reactions = append(p.reactions, *cur)
			cur = nil
			continue
		}

		if key, val, ok := strings.Cut(line, ":"); ok {
			key, val = strings.TrimSpace(key), strings.TrimSpace(val)
			switch {
			case key == "FIX":
				p.fixed = append(p.fixed, strings.Fields(val)...)
			case key == "Modelname":
				p.modelName = val
			case key == "Description":
				p.description = val
			case key == "Output_In_Conc" || key == "Species_In_Conc":
				if err := p.keyword(lineNo, key, val); err != nil {
					return err
				}
			case val == "" && isIdent(key):
				cur = &rawReaction{name: key}
			default:
				return p.errorf(lineNo, "unsupported declaration %q", key)
			}
			continue
		}

		if lhs, rhs, ok := strings.Cut(line, "="); ok {
			if err := p.assign(lineNo, strings.TrimSpace(lhs), strings.TrimSpace(rhs)); err != nil {
				return err
			}
			continue
		}

		return p.errorf(lineNo, "unexpected line %q", line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read model file: %w", err)
	}
	if cur != nil {
		return p.errorf(lineNo, "reaction %s is incomplete", cur.name)
	}
	return nil
}

// keyword checks a StochPy header keyword. Amounts are always molecule
// counts, so only False is accepted.
func (p *pscParser) keyword(line int, key, val string) error {
	switch val {
	case "False", "false", "0":
		return nil
	case "True", "true", "1":
		return p.errorf(line, "%s: concentrations are not supported, amounts must be molecule counts", key)
	default:
		return p.errorf(line, "%s: invalid value %q", key, val)
	}
}

// assign evaluates a numeric assignment. The right-hand side may reference
// names assigned earlier in the file.
func (p *pscParser) assign(line int, name, src string) error {
	if !isIdent(name) {
		return p.errorf(line, "invalid name %q", name)
	}
	e, err := compileExpr(src, func(ref string) (expr, error) {
		v, ok := p.values[ref]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownSymbol, ref)
		}
		return numExpr(v), nil
	})
	if err != nil {
		return p.wrap(line, err)
	}
	n, ok := e.(numExpr)
	if !ok {
		return p.errorf(line, "assignment to %s is not constant", name)
	}
	p.values[name] = float64(n)
	p.assignments = append(p.assignments, rawAssignment{line: line, name: name, value: float64(n)})
	return nil
}

func (p *pscParser) build() (*Model, error) {
	m := &Model{
		Name:        p.modelName,
		Description: p.description,
		File:        p.file,
		Parameters:  map[string]float64{},
		index:       map[string]int{},
	}

	addSpecies := func(name string) int {
		if i, ok := m.index[name]; ok {
			return i
		}
		m.index[name] = len(m.Species)
		m.Species = append(m.Species, Species{Name: name})
		return len(m.Species) - 1
	}

	for _, rr := range p.reactions {
		reactants, products, err := p.parseStoich(rr, addSpecies)
		if err != nil {
			return nil, err
		}
		m.Reactions = append(m.Reactions, Reaction{
			Name:      rr.name,
			Reactants: reactants,
			Products:  products,
			Rate:      rr.rate,
		})
	}
	for _, name := range p.fixed {
		m.Species[addSpecies(name)].Fixed = true
	}

	for i := range m.Species {
		v, ok := p.values[m.Species[i].Name]
		if !ok {
			return nil, p.errorf(0, "no initial amount for species %s", m.Species[i].Name)
		}
		m.Species[i].Initial = v
	}
	for _, a := range p.assignments {
		if _, ok := m.index[a.name]; !ok {
			m.Parameters[a.name] = a.value
		}
	}

	for j, rr := range p.reactions {
		r := &m.Reactions[j]
		reads := map[int]bool{}
		e, err := compileExpr(rr.rate, func(ref string) (expr, error) {
			if i, ok := m.index[ref]; ok {
				if !reads[i] {
					reads[i] = true
					r.reads = append(r.reads, i)
				}
				return speciesExpr(i), nil
			}
			if v, ok := m.Parameters[ref]; ok {
				return numExpr(v), nil
			}
			return nil, fmt.Errorf("%w %q", ErrUnknownSymbol, ref)
		})
		if err != nil {
			return nil, p.wrap(rr.rateLine, err)
		}
		r.rate = e
	}

	m.link()
	return m, nil
}

func (p *pscParser) parseStoich(rr rawReaction, addSpecies func(string) int) ([]Term, []Term, error) {
	lhs, rhs, ok := strings.Cut(rr.stoich, ">")
	if !ok {
		if strings.Contains(rr.stoich, "=") {
			return nil, nil, p.errorf(rr.stoichLine, "reversible reaction %s is not supported", rr.name)
		}
		return nil, nil, p.errorf(rr.stoichLine, "reaction %s has no '>'", rr.name)
	}
	if strings.ContainsAny(lhs, "=<") || strings.Contains(rhs, ">") {
		return nil, nil, p.errorf(rr.stoichLine, "malformed stoichiometry %q", rr.stoich)
	}
	reactants, err := p.parseSide(rr.stoichLine, lhs, addSpecies)
	if err != nil {
		return nil, nil, err
	}
	products, err := p.parseSide(rr.stoichLine, rhs, addSpecies)
	if err != nil {
		return nil, nil, err
	}
	return reactants, products, nil
}

// parseSide parses "{2}A + B" into terms. $-prefixed boundary species are
// dropped.
func (p *pscParser) parseSide(line int, side string, addSpecies func(string) int) ([]Term, error) {
	var terms []Term
	for _, raw := range strings.Split(side, "+") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		coef := 1
		if strings.HasPrefix(tok, "{") {
			end := strings.IndexByte(tok, '}')
			if end < 0 {
				return nil, p.errorf(line, "unterminated coefficient in %q", tok)
			}
			c, err := strconv.Atoi(strings.TrimSpace(tok[1:end]))
			if err != nil || c < 1 {
				return nil, p.errorf(line, "bad coefficient in %q", tok)
			}
			coef = c
			tok = strings.TrimSpace(tok[end+1:])
		}
		if strings.HasPrefix(tok, "$") {
			continue
		}
		if !isIdent(tok) {
			return nil, p.errorf(line, "invalid species name %q", tok)
		}
		terms = append(terms, Term{Species: addSpecies(tok), Coef: coef})
	}
	return terms, nil
}

func isIdent(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}

// IsParseError reports whether err came from model parsing.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
