// Package check is BP's resolver and type checker (§4.4): a two-pass walk
// that expands type aliases, assigns a concrete type to every expression,
// enforces the language's no-implicit-coercion rules, and lowers the
// untyped AST to the typed HIR consumed by internal/simplify and
// internal/wasm.
//
// Grounded on the teacher's internal/bytecode/compiler_core.go (the
// scope/local-slot/global bookkeeping that "names become indices" is
// modeled on) and internal/semantic's two-pass signature-then-body
// structure, generalized from DWScript's dynamically-flavoured type system
// to BP's closed, non-coercing one.
package check

import (
	"github.com/bpc-lang/bpc/internal/ast"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

// funcSig is a resolved function signature, for both user functions and the
// pre-declared memory intrinsics (§4.4, §6).
type funcSig struct {
	Name      string
	Params    []*types.Type
	Ret       *types.Type
	Intrinsic string // "" for user functions; else the intrinsic's name ("load_u8", "store_i32", "len", ...)
	Index     int    // declaration order among user functions; -1 for intrinsics
}

// constVal is an evaluated constant's literal value (§4.4 "inlined as its
// literal value"), typed by exactly one of the fields below.
type constVal struct {
	Typ      *types.Type
	IntVal   uint64
	FloatVal float64
	BoolVal  bool
}

// Checker holds the process-wide tables built in pass 1 (§4.4) and consumed
// throughout pass 2.
type Checker struct {
	prog            *ast.Program
	aliases         map[string]ast.TypeExpr
	resolvedAliases map[string]*types.Type
	consts          map[string]*constVal
	constExprs      map[string]*ast.ConstItem
	funcs           map[string]*funcSig
	funcOrder       []*ast.FunctionItem
	mainIndex       int
}

// Check type-checks prog and lowers it to an HIR program, or returns the
// first diagnostic encountered (§4.4, §7 "first error aborts").
func Check(prog *ast.Program) (*hir.Program, *diag.Diagnostic) {
	c := &Checker{
		prog:            prog,
		aliases:         map[string]ast.TypeExpr{},
		resolvedAliases: map[string]*types.Type{},
		consts:          map[string]*constVal{},
		constExprs:      map[string]*ast.ConstItem{},
		funcs:           map[string]*funcSig{},
		mainIndex:       -1,
	}
	if err := c.collect(); err != nil {
		return nil, err
	}
	return c.checkBodies()
}

// collect implements pass 1: register type aliases, constants, functions,
// and intrinsics, then resolve every alias.
func (c *Checker) collect() *diag.Diagnostic {
	seen := map[string]bool{}

	c.registerIntrinsics(seen)

	for _, item := range c.prog.Items {
		switch it := item.(type) {
		case *ast.TypeAliasItem:
			if _, dup := c.aliases[it.Name]; dup {
				return diag.New(diag.TypeError, it.Span_, "duplicate type alias %q", it.Name)
			}
			c.aliases[it.Name] = it.Type
		}
	}

	for _, item := range c.prog.Items {
		if ta, ok := item.(*ast.TypeAliasItem); ok {
			if _, err := c.resolveNamed(ta.Name, ta.Span_, map[string]bool{}); err != nil {
				return err
			}
		}
	}

	for _, item := range c.prog.Items {
		switch it := item.(type) {
		case *ast.ConstItem:
			if seen[it.Name] {
				return diag.New(diag.TypeError, it.Span_, "duplicate name %q", it.Name)
			}
			seen[it.Name] = true
			c.constExprs[it.Name] = it
		case *ast.FunctionItem:
			if seen[it.Name] {
				return diag.New(diag.TypeError, it.Span_, "duplicate name %q", it.Name)
			}
			seen[it.Name] = true

			var params []*types.Type
			for _, p := range it.Params {
				pt, err := c.resolveTypeExpr(p.Type)
				if err != nil {
					return err
				}
				params = append(params, pt)
			}
			ret := types.UnitType
			if it.Ret != nil {
				rt, err := c.resolveTypeExpr(it.Ret)
				if err != nil {
					return err
				}
				ret = rt
			}
			idx := len(c.funcOrder)
			if it.Name == "main" {
				c.mainIndex = idx
			}
			c.funcOrder = append(c.funcOrder, it)
			c.funcs[it.Name] = &funcSig{Name: it.Name, Params: params, Ret: ret, Index: idx}
		}
	}

	// Evaluate constants in declaration order; forward references to later
	// constants are not supported (only functions may be used before their
	// declaration, per §4.4).
	for _, item := range c.prog.Items {
		ci, ok := item.(*ast.ConstItem)
		if !ok {
			continue
		}
		if _, done := c.consts[ci.Name]; done {
			continue
		}
		val, err := c.evalConst(ci.Value, c.declaredConstType(ci))
		if err != nil {
			return err
		}
		c.consts[ci.Name] = val
	}

	if err := c.checkMain(); err != nil {
		return err
	}
	return nil
}

func (c *Checker) declaredConstType(ci *ast.ConstItem) *types.Type {
	if ci.Type == nil {
		return nil
	}
	t, err := c.resolveTypeExpr(ci.Type)
	if err != nil {
		return nil
	}
	return t
}

func (c *Checker) registerIntrinsics(seen map[string]bool) {
	loadStoreTypes := []struct {
		suffix string
		typ    *types.Type
	}{
		{"u8", types.I32Type}, {"u16", types.I32Type}, {"i32", types.I32Type},
		{"i64", types.I64Type}, {"f32", types.F32Type}, {"f64", types.F64Type},
	}
	for _, lt := range loadStoreTypes {
		loadName := "load_" + lt.suffix
		storeName := "store_" + lt.suffix
		seen[loadName] = true
		seen[storeName] = true
		c.funcs[loadName] = &funcSig{
			Name: loadName, Params: []*types.Type{types.I32Type}, Ret: lt.typ,
			Intrinsic: loadName, Index: -1,
		}
		c.funcs[storeName] = &funcSig{
			Name: storeName, Params: []*types.Type{types.I32Type, lt.typ}, Ret: types.UnitType,
			Intrinsic: storeName, Index: -1,
		}
	}
	seen["len"] = true
	c.funcs["len"] = &funcSig{Name: "len", Intrinsic: "len", Index: -1}
}

func (c *Checker) checkMain() *diag.Diagnostic {
	if c.mainIndex < 0 {
		return diag.NewNoSpan(diag.TypeError, "no function named main defined")
	}
	fn := c.funcOrder[c.mainIndex]
	sig := c.funcs["main"]
	if len(sig.Params) != 0 {
		return diag.New(diag.TypeError, fn.Span_, "main must take no parameters")
	}
	if sig.Ret.Kind != types.I32 {
		return diag.New(diag.TypeError, fn.Span_, "main must return i32, found %s", sig.Ret)
	}
	return nil
}

// checkBodies implements pass 2: type-check every function body and build
// the HIR program.
func (c *Checker) checkBodies() (*hir.Program, *diag.Diagnostic) {
	funcs := make([]*hir.Function, len(c.funcOrder))
	for i, fn := range c.funcOrder {
		hfn, err := c.checkFunction(fn)
		if err != nil {
			return nil, err
		}
		funcs[i] = hfn
	}
	return &hir.Program{Functions: funcs, MainIndex: c.mainIndex}, nil
}
