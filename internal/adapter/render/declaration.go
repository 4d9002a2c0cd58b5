package render

import (
	"fmt"
	"strings"

	"stubconv/internal/adapter/analyzer"
	"stubconv/internal/domain"
	"stubconv/internal/errs"
)

// Renderer writes stubs of one file as a class declaration block.
type Renderer struct {
	indent   string
	restType string
}

// NewRenderer creates a renderer indenting members by indent spaces.
// Rest parameters are typed as restType.
func NewRenderer(indent int, restType string) *Renderer {
	if indent < 0 {
		indent = 0
	}
	if restType == "" {
		restType = "string[]"
	}
	return &Renderer{
		indent:   strings.Repeat(" ", indent),
		restType: restType,
	}
}

// Render renders the ordered stubs of one file. stubs[0] must be the class;
// variable stubs are emitted verbatim after the class body is closed.
func (r *Renderer) Render(file string, stubs []*domain.Stub) (string, error) {
	if len(stubs) == 0 {
		return "", errs.NewFormatError(errs.ErrMissingClass, file, 0, "")
	}
	class := stubs[0]
	if !class.IsClass() {
		return "", errs.NewFormatError(errs.ErrMissingClass, file, class.Line, strings.Join(class.CodeLines, "\n"))
	}

	var b strings.Builder
	if len(class.DocLines) > 0 {
		b.WriteString(strings.Join(class.DocLines, "\n"))
		b.WriteString("\n")
	}
	b.WriteString(r.ClassSignature(class))
	b.WriteString("\n")

	closed := false
	for _, st := range stubs[1:] {
		switch st.Kind {
		case domain.KindClass:
			return "", errs.WithHintf(
				errs.NewFormatError(errs.ErrDuplicateClass, file, st.Line, strings.Join(st.CodeLines, "\n")),
				"%s already declares class %s", file, class.ClassName)

		case domain.KindMethod:
			if len(st.DocLines) > 0 {
				b.WriteString(r.indent)
				b.WriteString(strings.Join(st.DocLines, "\n"+r.indent))
				b.WriteString("\n")
			}
			b.WriteString(r.indent)
			b.WriteString(st.MethodName)
			b.WriteString(r.Signature(st))
			b.WriteString(";\n\n")

		case domain.KindVariable:
			if !closed {
				b.WriteString("}\n")
				closed = true
			}
			b.WriteString("\n")
			b.WriteString(strings.Join(st.CodeLines, "\n"))
			b.WriteString("\n")

		default:
			return "", errs.NewFormatError(errs.ErrOrphanDoc, file, st.Line, strings.Join(st.DocLines, "\n"))
		}
	}

	if !closed {
		b.WriteString("}\n")
	}
	b.WriteString("\n")
	return b.String(), nil
}

// ClassSignature renders the opening line of a class declaration.
func (r *Renderer) ClassSignature(class *domain.Stub) string {
	if class.ExtendsFrom != "" {
		return fmt.Sprintf("declare class %s extends %s {", class.ClassName, class.ExtendsFrom)
	}
	return fmt.Sprintf("declare class %s {", class.ClassName)
}

// Signature renders "(params): returnType" for a method stub. Every
// parameter is optional; undocumented ones stay untyped.
func (r *Renderer) Signature(st *domain.Stub) string {
	params := make([]string, 0, len(st.Params))
	for _, p := range st.Params {
		if name, ok := analyzer.RestParamName(p); ok {
			params = append(params, fmt.Sprintf("...%s: %s", name, r.restType))
			continue
		}
		if typ, ok := st.ParamTypes[p]; ok {
			params = append(params, fmt.Sprintf("%s?: %s", p, typ))
			continue
		}
		params = append(params, p+"?")
	}

	ret := st.ReturnType
	if ret == "" {
		ret = domain.VoidType
	}
	return fmt.Sprintf("(%s): %s", strings.Join(params, ", "), ret)
}

// Summarize counts the declarations of an ordered stub list.
func Summarize(file string, stubs []*domain.Stub) domain.FileSummary {
	sum := domain.FileSummary{Path: file}
	for _, st := range stubs {
		switch st.Kind {
		case domain.KindClass:
			if sum.ClassName == "" {
				sum.ClassName = st.ClassName
				sum.Extends = st.ExtendsFrom
			}
		case domain.KindMethod:
			sum.Methods++
		case domain.KindVariable:
			sum.Variables++
		}
	}
	return sum
}
