package port

import "stubconv/internal/domain"

// Assembler turns one source file into ordered, annotated stubs.
type Assembler interface {
	Assemble(file domain.SourceFile) ([]*domain.Stub, error)
}

// Renderer renders the stubs of one file as a declaration block.
type Renderer interface {
	Render(file string, stubs []*domain.Stub) (string, error)
}
