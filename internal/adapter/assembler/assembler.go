package assembler

import (
	"strings"
	"unicode"

	"stubconv/internal/adapter/analyzer"
	"stubconv/internal/domain"
	"stubconv/internal/errs"
)

type scanState int

const (
	stateIdle scanState = iota
	stateInDoc
	stateInCode
)

func (s scanState) String() string {
	switch s {
	case stateInDoc:
		return "doc block"
	case stateInCode:
		return "code block"
	default:
		return "idle"
	}
}

// Assembler turns stub file contents into ordered, annotated stubs.
type Assembler struct {
	mapper *analyzer.TypeMapper
}

// NewAssembler creates an assembler using the given type mapper.
func NewAssembler(mapper *analyzer.TypeMapper) *Assembler {
	if mapper == nil {
		mapper = analyzer.NewTypeMapper(nil)
	}
	return &Assembler{mapper: mapper}
}

// Assemble scans a file, moves variables behind the other declarations and
// resolves doc types of every stub.
func (a *Assembler) Assemble(file domain.SourceFile) ([]*domain.Stub, error) {
	stubs, err := Scan(file.Path, file.Content)
	if err != nil {
		return nil, err
	}
	stubs = Reorder(stubs)
	a.Annotate(stubs)
	return stubs, nil
}

// Annotate fills ParamTypes and ReturnType from each stub's doc block.
func (a *Assembler) Annotate(stubs []*domain.Stub) {
	for _, st := range stubs {
		types := a.mapper.ParseDocTypes(st.DocLines)
		st.ParamTypes = types.Params
		st.ReturnType = types.Returns
	}
}

// Reorder keeps the class stub first, then all non-variable stubs, then all
// variable stubs. Relative order within each group is preserved.
func Reorder(stubs []*domain.Stub) []*domain.Stub {
	if len(stubs) < 2 {
		return stubs
	}
	ordered := make([]*domain.Stub, 0, len(stubs))
	ordered = append(ordered, stubs[0])
	var vars []*domain.Stub
	for _, st := range stubs[1:] {
		if st.IsVariable() {
			vars = append(vars, st)
			continue
		}
		ordered = append(ordered, st)
	}
	return append(ordered, vars...)
}

type scanner struct {
	file     string
	state    scanState
	stubs    []*domain.Stub
	current  *domain.Stub
	openLine int
}

// Scan splits a stub file into stubs in source order. The first stub is the
// class declaration.
func Scan(file, content string) ([]*domain.Stub, error) {
	s := &scanner{file: file}
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		if err := s.step(i+1, line); err != nil {
			return nil, err
		}
	}
	return s.finish()
}

func (s *scanner) step(n int, line string) error {
	if analyzer.IsTrash(line) {
		return nil
	}

	switch s.state {
	case stateInDoc:
		s.current.DocLines = append(s.current.DocLines, line)
		if analyzer.IsDocEnd(line) {
			s.state = stateIdle
		}
		return nil
	case stateInCode:
		s.current.CodeLines = append(s.current.CodeLines, line)
		if analyzer.IsCodeEnd(line) {
			s.state = stateIdle
		}
		return nil
	}

	m := analyzer.Classify(line)
	switch m.Shape {
	case analyzer.ShapeDocStart:
		st := s.open(n)
		st.DocLines = append(st.DocLines, line)
		if !isOneLineDoc(line) {
			s.enter(stateInDoc, n)
		}

	case analyzer.ShapeCodeStart:
		st := s.declaration(n)
		st.Kind = domain.KindVariable
		st.CodeLines = append(st.CodeLines, line)
		s.enter(stateInCode, n)

	case analyzer.ShapeExtends:
		if len(s.stubs) == 0 || !s.stubs[0].IsClass() {
			return errs.NewFormatError(errs.ErrExtendsBeforeClass, s.file, n, line)
		}
		s.stubs[0].ExtendsFrom = m.Name

	case analyzer.ShapeClass:
		st := s.declaration(n)
		st.Kind = domain.KindClass
		st.ClassName = m.Name
		st.CodeLines = append(st.CodeLines, line)

	case analyzer.ShapeMethod:
		st := s.declaration(n)
		st.Kind = domain.KindMethod
		st.MethodName = m.Name
		st.Params = analyzer.SplitParams(m.Params)
		st.CodeLines = append(st.CodeLines, line)

	case analyzer.ShapeVariable:
		st := s.declaration(n)
		st.Kind = domain.KindVariable
		st.CodeLines = append(st.CodeLines, line)

	default:
		return errs.WithHintf(
			errs.NewFormatError(errs.ErrUnrecognizedLine, s.file, n, line),
			"line looks like %s; only doc blocks, class, method, extension and variable statements are recognised", m.Shape)
	}
	return nil
}

func (s *scanner) enter(state scanState, n int) {
	s.state = state
	s.openLine = n
}

// open starts a new stub.
func (s *scanner) open(n int) *domain.Stub {
	st := &domain.Stub{Line: n}
	s.stubs = append(s.stubs, st)
	s.current = st
	return st
}

// declaration returns the stub a declaration line belongs to: the pending
// documented stub, or a fresh undocumented one.
func (s *scanner) declaration(n int) *domain.Stub {
	if s.current != nil && s.current.Kind == domain.KindUnknown {
		return s.current
	}
	return s.open(n)
}

func (s *scanner) finish() ([]*domain.Stub, error) {
	if s.state != stateIdle {
		return nil, errs.WithDetailf(
			errs.NewFormatError(errs.ErrUnterminatedBlock, s.file, s.openLine, ""),
			"%s opened here is never closed", s.state)
	}
	if len(s.stubs) == 0 {
		return nil, errs.NewFormatError(errs.ErrMissingClass, s.file, 0, "")
	}
	for _, st := range s.stubs {
		if st.Kind == domain.KindUnknown {
			return nil, errs.NewFormatError(errs.ErrOrphanDoc, s.file, st.Line, firstLine(st.DocLines))
		}
	}
	if first := s.stubs[0]; !first.IsClass() {
		return nil, errs.NewFormatError(errs.ErrMissingClass, s.file, first.Line, firstLine(first.CodeLines))
	}
	return s.stubs, nil
}

func isOneLineDoc(line string) bool {
	return len(line) > len("/**") && strings.HasSuffix(line, "*/")
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
