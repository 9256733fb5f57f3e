package check

import (
	"github.com/bpc-lang/bpc/internal/ast"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/span"
	"github.com/bpc-lang/bpc/internal/types"
)

// resolveTypeExpr expands an AST type expression to a concrete types.Type,
// following named aliases through c.aliases with cycle detection (§4.4
// "resolve type aliases... a self-reference or cycle is an error").
func (c *Checker) resolveTypeExpr(te ast.TypeExpr) (*types.Type, *diag.Diagnostic) {
	switch t := te.(type) {
	case *ast.NamedType:
		return c.resolveNamed(t.Name, t.Span_, map[string]bool{})
	case *ast.ArrayType:
		elem, err := c.resolveTypeExpr(t.Elem)
		if err != nil {
			return nil, err
		}
		return types.ArrayOf(elem, uint32(t.Len.Value)), nil
	default:
		return nil, diag.New(diag.TypeError, te.Pos(), "unresolvable type expression")
	}
}

// resolveNamed resolves a bare type name: a primitive, a cached alias
// expansion, or an alias raw expression walked with cycle detection.
func (c *Checker) resolveNamed(name string, sp span.Span, visiting map[string]bool) (*types.Type, *diag.Diagnostic) {
	if prim, ok := types.Primitives[name]; ok {
		return prim, nil
	}
	if resolved, ok := c.resolvedAliases[name]; ok {
		return resolved, nil
	}
	raw, ok := c.aliases[name]
	if !ok {
		return nil, diag.New(diag.TypeError, sp, "unknown type %q", name)
	}
	if visiting[name] {
		return nil, diag.New(diag.TypeError, sp, "cyclic type alias %q", name)
	}
	visiting[name] = true

	var resolved *types.Type
	var err *diag.Diagnostic
	switch t := raw.(type) {
	case *ast.NamedType:
		resolved, err = c.resolveNamed(t.Name, t.Span_, visiting)
	case *ast.ArrayType:
		// Nested array layers share this walk's visiting set, so a cycle
		// through an element type (`type A = [A; 2];`) is reported too.
		var lens []uint32
		var inner ast.TypeExpr = t
		for at, ok := inner.(*ast.ArrayType); ok; at, ok = inner.(*ast.ArrayType) {
			lens = append(lens, uint32(at.Len.Value))
			inner = at.Elem
		}
		if nt, ok := inner.(*ast.NamedType); ok {
			resolved, err = c.resolveNamed(nt.Name, nt.Span_, visiting)
		} else {
			resolved, err = c.resolveTypeExpr(inner)
		}
		for i := len(lens) - 1; err == nil && i >= 0; i-- {
			resolved = types.ArrayOf(resolved, lens[i])
		}
	default:
		err = diag.New(diag.TypeError, sp, "unresolvable type alias %q", name)
	}
	if err != nil {
		return nil, err
	}
	c.resolvedAliases[name] = resolved
	return resolved, nil
}
