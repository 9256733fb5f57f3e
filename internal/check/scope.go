package check

import "github.com/bpc-lang/bpc/internal/types"

// localVar is a resolved binding inside a function body: a parameter or a
// let-bound local, always at a fixed slot in the enclosing bodyCtx.
type localVar struct {
	Slot int
	Typ  *types.Type
	Mut  bool
}

// scope is one lexical block's bindings; scopes nest via bodyCtx.scopes.
type scope struct {
	vars map[string]*localVar
}

// loopCtx tracks a single enclosing loop/while for break/continue checking
// and break-value type unification (§4.4).
type loopCtx struct {
	isWhile        bool
	breakType      *types.Type // nil until the first value-carrying break is seen
	breakTypeIsSet bool
}

// bodyCtx is the per-function state threaded through pass 2's body walk:
// the local-slot table (shared across nested scopes, since Wasm functions
// declare all locals up front — §4.6), the scope stack, and the loop stack.
type bodyCtx struct {
	c          *Checker
	fn         *funcSig
	localTypes []*types.Type
	scopes     []*scope
	loops      []*loopCtx
}

func newBodyCtx(c *Checker, fn *funcSig) *bodyCtx {
	return &bodyCtx{c: c, fn: fn}
}

func (b *bodyCtx) pushScope() {
	b.scopes = append(b.scopes, &scope{vars: map[string]*localVar{}})
}

func (b *bodyCtx) popScope() {
	b.scopes = b.scopes[:len(b.scopes)-1]
}

// declare allocates a fresh local slot in the current (innermost) scope.
func (b *bodyCtx) declare(name string, typ *types.Type, mut bool) *localVar {
	slot := len(b.localTypes)
	b.localTypes = append(b.localTypes, typ)
	lv := &localVar{Slot: slot, Typ: typ, Mut: mut}
	b.scopes[len(b.scopes)-1].vars[name] = lv
	return lv
}

// lookup resolves name against the scope stack, innermost first.
func (b *bodyCtx) lookup(name string) (*localVar, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if lv, ok := b.scopes[i].vars[name]; ok {
			return lv, true
		}
	}
	return nil, false
}

func (b *bodyCtx) pushLoop(isWhile bool) *loopCtx {
	lc := &loopCtx{isWhile: isWhile}
	b.loops = append(b.loops, lc)
	return lc
}

func (b *bodyCtx) popLoop() {
	b.loops = b.loops[:len(b.loops)-1]
}

func (b *bodyCtx) currentLoop() *loopCtx {
	if len(b.loops) == 0 {
		return nil
	}
	return b.loops[len(b.loops)-1]
}
