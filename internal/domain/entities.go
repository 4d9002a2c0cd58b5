package domain

// StubKind classifies a Stub. A stub starts out KindUnknown while its doc
// block is being read and must end up with exactly one concrete kind.
type StubKind int

const (
	KindUnknown StubKind = iota
	KindClass
	KindMethod
	KindVariable
)

func (k StubKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// VoidType is the return type of a method without a @return tag.
const VoidType = "void"

// Stub is one logical declaration of a stub file plus its doc block.
type Stub struct {
	DocLines  []string
	CodeLines []string
	Kind      StubKind
	Line      int // 1-based line where the stub starts

	// Class stubs
	ClassName   string
	ExtendsFrom string

	// Method stubs
	MethodName string
	Params     []string

	// Filled from the doc block before rendering.
	ParamTypes map[string]string
	ReturnType string
}

func (s *Stub) IsClass() bool    { return s.Kind == KindClass }
func (s *Stub) IsVariable() bool { return s.Kind == KindVariable }

// SourceFile is one stub file handed to the converter.
type SourceFile struct {
	Path    string
	Content string
}

// CachedBlock is the rendered declaration block of one source file.
type CachedBlock struct {
	Path        string `json:"path"`
	ContentHash string `json:"content_hash"`
	Block       string `json:"block"`
	ClassName   string `json:"class_name"`
	Extends     string `json:"extends,omitempty"`
	Methods     int    `json:"methods"`
	Variables   int    `json:"variables"`
}

// FileSummary describes what a converted file declared.
type FileSummary struct {
	Path      string
	RelPath   string
	ClassName string
	Extends   string
	Methods   int
	Variables int
}

// ConvertStats aggregates a conversion run.
type ConvertStats struct {
	FilesConverted int
	FilesCached    int
	FilesPruned    int
	Classes        int
	Methods        int
	Variables      int
	BytesWritten   int
}
