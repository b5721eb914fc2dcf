package source

import (
	"path/filepath"
	"strings"
)

// File represents a unit of Coral source with its content and metadata.
type File struct {
	Name    string // Display name (e.g. "core.coral", "<repl>", "<eval>")
	Path    string // Full file path (empty for REPL/eval input)
	Content string // The source text
	lines   []string
}

// NewFile creates a source file with an explicit display name.
func NewFile(name, path, content string) *File {
	return &File{Name: name, Path: path, Content: content}
}

// NewEval creates a source file for eval-style input.
func NewEval(content string) *File {
	return &File{Name: "<eval>", Content: content}
}

// NewRepl creates a source file for a line of REPL input.
func NewRepl(content string) *File {
	return &File{Name: "<repl>", Content: content}
}

// FromFile creates a File from a file path and its content.
func FromFile(path, content string) *File {
	return &File{Name: filepath.Base(path), Path: path, Content: content}
}

// Lines returns the source split into lines (cached).
func (f *File) Lines() []string {
	if f.lines == nil {
		f.lines = strings.Split(f.Content, "\n")
	}
	return f.lines
}

// DisplayPath prefers the full path, falling back to the display name.
func (f *File) DisplayPath() string {
	if f.Path != "" {
		return f.Path
	}
	return f.Name
}

// IsFile reports whether this source came from an actual file.
func (f *File) IsFile() bool {
	return f.Path != ""
}
