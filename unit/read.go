// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package unit

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
)

// ReadList reads an already-clausified unit list, one unit per line:
//
//	<type>[/<color>] <name>: <lit> | <lit> | ...
//
// where <type> is axiom, conjecture, or negated_conjecture, <color> is
// left, right, or transparent (default), and literals are of the form
// p(t,...), ~p(t,...), s = t, or s != t.  Identifiers starting with an
// upper-case letter are variables.  Lines starting with % and blank lines
// are skipped.
func ReadList(r io.Reader, b *term.Bank) ([]U, error) {
	var units []U
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		u, err := parseUnit(line, b)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", ln)
		}
		units = append(units, u)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading unit list")
	}
	return units, nil
}

func parseUnit(line string, b *term.Bank) (U, error) {
	head, body, ok := strings.Cut(line, ":")
	if !ok {
		return U{}, errors.New("missing ':' after unit header")
	}
	fields := strings.Fields(head)
	if len(fields) != 2 {
		return U{}, errors.Errorf("bad unit header %q", head)
	}
	var u U
	kind, color, _ := strings.Cut(fields[0], "/")
	switch kind {
	case "axiom":
		u.Input = clause.Axiom
	case "conjecture":
		u.Input = clause.Conjecture
	case "negated_conjecture":
		u.Input = clause.NegatedConjecture
	default:
		return U{}, errors.Errorf("unknown input type %q", kind)
	}
	switch color {
	case "", "transparent":
		u.Color = clause.Transparent
	case "left":
		u.Color = clause.Left
	case "right":
		u.Color = clause.Right
	default:
		return U{}, errors.Errorf("unknown color %q", color)
	}
	u.Name = fields[1]

	body = strings.TrimSpace(body)
	if body == "$false" || body == "" {
		return u, nil
	}
	p := &parser{s: body, b: b, vars: make(map[string]term.Ref)}
	for {
		l, err := p.literal()
		if err != nil {
			return U{}, err
		}
		u.Lits = append(u.Lits, l)
		p.skipSpace()
		if p.eof() {
			return u, nil
		}
		if !p.eat('|') {
			return U{}, errors.Errorf("expected '|' at %q", p.rest())
		}
	}
}

type parser struct {
	s    string
	i    int
	b    *term.Bank
	vars map[string]term.Ref
	nv   uint32
}

func (p *parser) eof() bool { return p.i >= len(p.s) }

func (p *parser) rest() string { return p.s[p.i:] }

func (p *parser) skipSpace() {
	for !p.eof() && p.s[p.i] == ' ' {
		p.i++
	}
}

func (p *parser) eat(c byte) bool {
	p.skipSpace()
	if !p.eof() && p.s[p.i] == c {
		p.i++
		return true
	}
	return false
}

func (p *parser) ident() (string, error) {
	p.skipSpace()
	j := p.i
	for j < len(p.s) {
		c := rune(p.s[j])
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			j++
			continue
		}
		break
	}
	if j == p.i {
		return "", errors.Errorf("expected identifier at %q", p.rest())
	}
	id := p.s[p.i:j]
	p.i = j
	return id, nil
}

// literal parses p(args), ~p(args), s = t, or s != t.
func (p *parser) literal() (term.Lit, error) {
	p.skipSpace()
	neg := p.eat('~')
	t, name, args, err := p.termOrAtom()
	if err != nil {
		return term.LitNull, err
	}
	p.skipSpace()
	if !p.eof() && (p.s[p.i] == '=' || p.s[p.i] == '!') {
		if neg {
			return term.LitNull, errors.New("'~' cannot negate an equality; use !=")
		}
		pos := true
		if p.s[p.i] == '!' {
			if p.i+1 >= len(p.s) || p.s[p.i+1] != '=' {
				return term.LitNull, errors.Errorf("expected '!=' at %q", p.rest())
			}
			pos = false
			p.i += 2
		} else {
			p.i++
		}
		lhs, err := p.atomAsTerm(t, name, args)
		if err != nil {
			return term.LitNull, err
		}
		rt, rn, ra, err := p.termOrAtom()
		if err != nil {
			return term.LitNull, err
		}
		rhs, err := p.atomAsTerm(rt, rn, ra)
		if err != nil {
			return term.LitNull, err
		}
		return p.b.Eq(pos, lhs, rhs, sym.SortIota), nil
	}
	if t != term.RefNull {
		return term.LitNull, errors.New("a variable is not a literal")
	}
	pr := p.b.Sig.Pred(name, len(args))
	return p.b.Lit(pr, !neg, args...), nil
}

// termOrAtom parses an identifier with optional arguments.  For variables
// it returns the term directly; otherwise it defers symbol interning until
// the caller knows whether it is a predicate or a function.
func (p *parser) termOrAtom() (term.Ref, string, []term.Ref, error) {
	name, err := p.ident()
	if err != nil {
		return term.RefNull, "", nil, err
	}
	if unicode.IsUpper(rune(name[0])) {
		v, ok := p.vars[name]
		if !ok {
			v = p.b.Var(p.nv)
			p.nv++
			p.vars[name] = v
		}
		return v, "", nil, nil
	}
	var args []term.Ref
	if p.eat('(') {
		for {
			a, err := p.term()
			if err != nil {
				return term.RefNull, "", nil, err
			}
			args = append(args, a)
			if p.eat(',') {
				continue
			}
			if p.eat(')') {
				break
			}
			return term.RefNull, "", nil, errors.Errorf("expected ',' or ')' at %q", p.rest())
		}
	}
	return term.RefNull, name, args, nil
}

func (p *parser) term() (term.Ref, error) {
	t, name, args, err := p.termOrAtom()
	if err != nil {
		return term.RefNull, err
	}
	return p.atomAsTerm(t, name, args)
}

func (p *parser) atomAsTerm(t term.Ref, name string, args []term.Ref) (term.Ref, error) {
	if t != term.RefNull {
		return t, nil
	}
	f := p.b.Sig.Fun(name, len(args))
	return p.b.App(f, args...), nil
}
