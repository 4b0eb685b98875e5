// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package term

import (
	"fmt"
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/quill-prover/quill/sym"
)

// ArgOrder is the cached comparison of the two sides of an equality literal.
type ArgOrder uint8

const (
	ArgUnknown ArgOrder = iota
	ArgLess
	ArgGreater
	ArgIncomparable
)

type node struct {
	fun    sym.Fun
	off    uint32 // offset into Bank.args
	arity  uint16
	ground bool
	size   uint32 // number of symbol and variable occurrences
	hash   uint64
}

type litNode struct {
	pred   sym.Pred
	off    uint32
	arity  uint16
	pos    bool
	ground bool
	size   uint32
	sort   sym.Sort // argument sort, recorded for equality literals
	hash   uint64
	neg    Lit      // cached opposite-polarity form, LitNull until interned
	order  ArgOrder // cached argument order tag for equality literals
}

// Bank is the shared term store.  It interns every constructed term and
// literal: structurally equal terms are one node.  Banks are append-only;
// nodes live for the whole run.
type Bank struct {
	Sig *sym.Table

	nodes []node
	lits  []litNode
	args  []Ref

	byHash    map[uint64][]uint32
	byLitHash map[uint64][]uint32
}

// NewBank creates an empty Bank over the signature sig.
func NewBank(sig *sym.Table) *Bank {
	b := &Bank{
		Sig:       sig,
		byHash:    make(map[uint64][]uint32),
		byLitHash: make(map[uint64][]uint32),
	}
	// slot 0 of both tables is a dummy so that the zero handle stays null
	b.nodes = append(b.nodes, node{})
	b.lits = append(b.lits, litNode{})
	return b
}

// Var returns the Ref of variable i.  Variables are carried inline and not
// interned.
func (b *Bank) Var(i uint32) Ref { return MkVar(i) }

func shapeHash(tag uint32, args []Ref) uint64 {
	h := murmur3.New64()
	var buf [4]byte
	put := func(x uint32) {
		buf[0] = byte(x)
		buf[1] = byte(x >> 8)
		buf[2] = byte(x >> 16)
		buf[3] = byte(x >> 24)
		h.Write(buf[:])
	}
	put(tag)
	for _, a := range args {
		put(uint32(a))
	}
	return h.Sum64()
}

// App interns the application f(args...) and returns its handle.  Interning
// the same shape twice returns the same handle.
func (b *Bank) App(f sym.Fun, args ...Ref) Ref {
	if b.Sig.FunArity(f) != len(args) {
		panic(fmt.Sprintf("term: arity mismatch for %s: %d args", b.Sig.FunName(f), len(args)))
	}
	h := shapeHash(uint32(f)<<1, args)
	for _, i := range b.byHash[h] {
		n := &b.nodes[i]
		if n.fun != f || int(n.arity) != len(args) {
			continue
		}
		if b.sameArgs(n, args) {
			return mkNode(i)
		}
	}
	ground := true
	size := uint32(1)
	for _, a := range args {
		if a.IsVar() {
			ground = false
			size++
			continue
		}
		an := &b.nodes[a.node()]
		if !an.ground {
			ground = false
		}
		size += an.size
	}
	off := uint32(len(b.args))
	b.args = append(b.args, args...)
	i := uint32(len(b.nodes))
	b.nodes = append(b.nodes, node{
		fun: f, off: off, arity: uint16(len(args)),
		ground: ground, size: size, hash: h,
	})
	b.byHash[h] = append(b.byHash[h], i)
	return mkNode(i)
}

// Const is shorthand for App with no arguments.
func (b *Bank) Const(f sym.Fun) Ref { return b.App(f) }

func (b *Bank) sameArgs(n *node, args []Ref) bool {
	na := b.args[n.off : n.off+uint32(n.arity)]
	for i, a := range na {
		if a != args[i] {
			return false
		}
	}
	return true
}

// Fun returns the root function symbol of a non-variable term.
func (b *Bank) Fun(t Ref) sym.Fun { return b.nodes[t.node()].fun }

// Args returns the argument slice of a non-variable term.  The slice aliases
// bank storage and must not be modified.
func (b *Bank) Args(t Ref) []Ref {
	n := &b.nodes[t.node()]
	return b.args[n.off : n.off+uint32(n.arity)]
}

// Ground reports whether t contains no variables.
func (b *Bank) Ground(t Ref) bool {
	if t.IsVar() {
		return false
	}
	return b.nodes[t.node()].ground
}

// Size returns the number of symbol and variable occurrences in t.
func (b *Bank) Size(t Ref) int {
	if t.IsVar() {
		return 1
	}
	return int(b.nodes[t.node()].size)
}

// Lit interns the literal p(args...) with the given polarity.
func (b *Bank) Lit(p sym.Pred, pos bool, args ...Ref) Lit {
	return b.lit(p, pos, sym.SortIota, args)
}

// Eq interns an equality literal between l and r of sort srt.
func (b *Bank) Eq(pos bool, l, r Ref, srt sym.Sort) Lit {
	return b.lit(sym.PredEq, pos, srt, []Ref{l, r})
}

func (b *Bank) lit(p sym.Pred, pos bool, srt sym.Sort, args []Ref) Lit {
	if b.Sig.PredArity(p) != len(args) {
		panic(fmt.Sprintf("term: arity mismatch for %s: %d args", b.Sig.PredName(p), len(args)))
	}
	tag := uint32(p)<<2 | 2
	if pos {
		tag |= 1
	}
	h := shapeHash(tag, args) ^ uint64(srt)
	for _, i := range b.byLitHash[h] {
		ln := &b.lits[i]
		if ln.pred != p || ln.pos != pos || int(ln.arity) != len(args) || ln.sort != srt {
			continue
		}
		if b.sameLitArgs(ln, args) {
			return Lit(i)
		}
	}
	ground := true
	size := uint32(1)
	for _, a := range args {
		if !b.Ground(a) {
			ground = false
		}
		size += uint32(b.Size(a))
	}
	off := uint32(len(b.args))
	b.args = append(b.args, args...)
	i := uint32(len(b.lits))
	b.lits = append(b.lits, litNode{
		pred: p, off: off, arity: uint16(len(args)), pos: pos,
		ground: ground, size: size, sort: srt, hash: h,
	})
	b.byLitHash[h] = append(b.byLitHash[h], i)
	return Lit(i)
}

func (b *Bank) sameLitArgs(n *litNode, args []Ref) bool {
	na := b.args[n.off : n.off+uint32(n.arity)]
	for i, a := range na {
		if a != args[i] {
			return false
		}
	}
	return true
}

// Neg returns the opposite-polarity form of l.
func (b *Bank) Neg(l Lit) Lit {
	ln := &b.lits[l]
	if ln.neg != LitNull {
		return ln.neg
	}
	args := b.LitArgs(l)
	as := make([]Ref, len(args))
	copy(as, args)
	n := b.lit(ln.pred, !ln.pos, ln.sort, as)
	b.lits[l].neg = n
	b.lits[n].neg = l
	return n
}

// LitPred returns the predicate symbol of l.
func (b *Bank) LitPred(l Lit) sym.Pred { return b.lits[l].pred }

// LitPos reports the polarity of l.
func (b *Bank) LitPos(l Lit) bool { return b.lits[l].pos }

// LitArgs returns the argument slice of l.  It aliases bank storage.
func (b *Bank) LitArgs(l Lit) []Ref {
	n := &b.lits[l]
	return b.args[n.off : n.off+uint32(n.arity)]
}

// LitGround reports whether l contains no variables.
func (b *Bank) LitGround(l Lit) bool { return b.lits[l].ground }

// LitSize returns the number of symbol and variable occurrences in l.
func (b *Bank) LitSize(l Lit) int { return int(b.lits[l].size) }

// IsEq reports whether l is an equality literal.
func (b *Bank) IsEq(l Lit) bool { return b.lits[l].pred == sym.PredEq }

// EqSort returns the argument sort recorded for an equality literal.
func (b *Bank) EqSort(l Lit) sym.Sort { return b.lits[l].sort }

// ArgOrderTag returns the cached argument order of an equality literal.
func (b *Bank) ArgOrderTag(l Lit) ArgOrder { return b.lits[l].order }

// SetArgOrderTag caches the argument order of an equality literal.
func (b *Bank) SetArgOrderTag(l Lit, o ArgOrder) { b.lits[l].order = o }

// Replace returns t with every occurrence of sub replaced by by.  The result
// shares all unchanged subtrees with t.
func (b *Bank) Replace(t, sub, by Ref) Ref {
	if t == sub {
		return by
	}
	if t.IsVar() {
		return t
	}
	args := b.Args(t)
	var changed bool
	nargs := make([]Ref, len(args))
	for i, a := range args {
		na := b.Replace(a, sub, by)
		nargs[i] = na
		if na != a {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return b.App(b.Fun(t), nargs...)
}

// LitReplace returns l with every occurrence of sub replaced by by.
func (b *Bank) LitReplace(l Lit, sub, by Ref) Lit {
	ln := &b.lits[l]
	args := b.LitArgs(l)
	var changed bool
	nargs := make([]Ref, len(args))
	for i, a := range args {
		na := b.Replace(a, sub, by)
		nargs[i] = na
		if na != a {
			changed = true
		}
	}
	if !changed {
		return l
	}
	return b.lit(ln.pred, ln.pos, ln.sort, nargs)
}

// IsEqTautology reports whether l is a positive equality t = t.
func (b *Bank) IsEqTautology(l Lit) bool {
	if !b.IsEq(l) || !b.LitPos(l) {
		return false
	}
	args := b.LitArgs(l)
	return args[0] == args[1]
}

// Contains reports whether sub occurs in t.
func (b *Bank) Contains(t, sub Ref) bool {
	if t == sub {
		return true
	}
	if t.IsVar() {
		return false
	}
	for _, a := range b.Args(t) {
		if b.Contains(a, sub) {
			return true
		}
	}
	return false
}

// VarSet appends the variables of t to dst, with multiplicity.
func (b *Bank) VarSet(t Ref, dst []Ref) []Ref {
	if t.IsVar() {
		return append(dst, t)
	}
	for _, a := range b.Args(t) {
		dst = b.VarSet(a, dst)
	}
	return dst
}

// String renders t using signature names.  Variables print as Xn.
func (b *Bank) String(t Ref) string {
	var sb strings.Builder
	b.write(&sb, t)
	return sb.String()
}

func (b *Bank) write(sb *strings.Builder, t Ref) {
	if t.IsVar() {
		fmt.Fprintf(sb, "X%d", t.VarIndex())
		return
	}
	sb.WriteString(b.Sig.FunName(b.Fun(t)))
	args := b.Args(t)
	if len(args) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		b.write(sb, a)
	}
	sb.WriteByte(')')
}

// LitString renders l using signature names.
func (b *Bank) LitString(l Lit) string {
	var sb strings.Builder
	ln := &b.lits[l]
	args := b.LitArgs(l)
	if ln.pred == sym.PredEq {
		if !ln.pos {
			b.write(&sb, args[0])
			sb.WriteString(" != ")
		} else {
			b.write(&sb, args[0])
			sb.WriteString(" = ")
		}
		b.write(&sb, args[1])
		return sb.String()
	}
	if !ln.pos {
		sb.WriteByte('~')
	}
	sb.WriteString(b.Sig.PredName(ln.pred))
	if len(args) > 0 {
		sb.WriteByte('(')
		for i, a := range args {
			if i > 0 {
				sb.WriteByte(',')
			}
			b.write(&sb, a)
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// NumTerms returns the number of interned application nodes.
func (b *Bank) NumTerms() int { return len(b.nodes) - 1 }

// NumLits returns the number of interned literals.
func (b *Bank) NumLits() int { return len(b.lits) - 1 }
