package port

// FileWalker lists the stub files below a root directory in the order their
// declarations are emitted.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

// FileInfo locates one stub file.
type FileInfo struct {
	Path    string // absolute
	RelPath string // slash separated, relative to the walk root
}

// FileReader loads the content of a stub file.
type FileReader interface {
	ReadFile(path string) (string, error)
}
