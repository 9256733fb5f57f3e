// Package diag implements the compiler's four-kind error taxonomy (§4.1, §7
// of the specification) and the source-context rendering used to show a
// single diagnostic to a user. Grounded on the teacher's
// internal/errors.CompilerError, generalized from DWScript's single implicit
// error kind to BP's explicit LexError/ParseError/TypeError/EmitError split.
package diag

import (
	"fmt"
	"strings"

	"github.com/bpc-lang/bpc/internal/span"
)

// Kind identifies which stage raised a Diagnostic.
type Kind int

const (
	LexError Kind = iota
	ParseError
	TypeError
	EmitError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case TypeError:
		return "type error"
	case EmitError:
		return "internal emit error"
	default:
		return "error"
	}
}

// Diagnostic is the only error value observable outside a compiler stage.
// Span is nil for program-level TypeErrors (e.g. "no main defined") and is
// always present for LexError/ParseError; EmitError indicates a compiler bug
// rather than a user error and carries a span only when one is available.
type Diagnostic struct {
	Kind    Kind
	Message string
	Span    *span.Span
}

// New builds a Diagnostic with a span.
func New(kind Kind, sp span.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Span: &sp}
}

// NewNoSpan builds a Diagnostic with no span, for program-level conditions.
func NewNoSpan(kind Kind, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface with an uncolored, single-line-aware
// rendering; callers that have the original source buffer should prefer
// Format for a richer, caret-pointing rendering.
func (d *Diagnostic) Error() string {
	return d.Message
}

// Format renders the diagnostic with source context and a caret pointing at
// the offending span, mirroring the teacher's CompilerError.Format.
func Format(d *Diagnostic, source []byte, file string, color bool) string {
	var sb strings.Builder

	if d.Span == nil {
		if file != "" {
			sb.WriteString(fmt.Sprintf("%s: %s: %s\n", file, d.Kind, d.Message))
		} else {
			sb.WriteString(fmt.Sprintf("%s: %s\n", d.Kind, d.Message))
		}
		return sb.String()
	}

	pos := span.PositionAt(source, d.Span.Start)
	if file != "" {
		sb.WriteString(fmt.Sprintf("%s:%d:%d: %s\n", file, pos.Line, pos.Column, d.Kind))
	} else {
		sb.WriteString(fmt.Sprintf("%d:%d: %s\n", pos.Line, pos.Column, d.Kind))
	}

	line := sourceLine(source, pos.Line)
	if line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func sourceLine(source []byte, lineNum int) string {
	lines := strings.Split(string(source), "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
