package fs

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// OutputFile is the declaration file. It is truncated when opened and
// appended to block by block.
type OutputFile struct {
	file    *os.File
	w       *bufio.Writer
	written int
}

// CreateOutputFile truncates (or creates) path and writes the optional
// header line.
func CreateOutputFile(path, header string) (*OutputFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	out := &OutputFile{file: f, w: bufio.NewWriter(f)}
	if header != "" {
		if !strings.HasSuffix(header, "\n") {
			header += "\n"
		}
		if err := out.Append(header); err != nil {
			f.Close()
			return nil, err
		}
	}
	return out, nil
}

func (o *OutputFile) Append(block string) error {
	n, err := o.w.WriteString(block)
	o.written += n
	if err != nil {
		return err
	}
	// flush per block so an aborted run keeps every completed file
	return o.w.Flush()
}

// Written returns the number of bytes appended so far.
func (o *OutputFile) Written() int { return o.written }

// Close flushes and closes the file. Calling it again is a no-op.
func (o *OutputFile) Close() error {
	if o.file == nil {
		return nil
	}
	defer func() { o.file = nil }()
	if err := o.w.Flush(); err != nil {
		o.file.Close()
		return err
	}
	return o.file.Close()
}

// BufferSink collects blocks in memory. It backs dry runs.
type BufferSink struct {
	b strings.Builder
}

func (s *BufferSink) Append(block string) error {
	s.b.WriteString(block)
	return nil
}

func (s *BufferSink) String() string { return s.b.String() }

func (s *BufferSink) Len() int { return s.b.Len() }
