package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Output receives a formatted HTTP exchange under a unique id.
type Output interface {
	Write(id string, contents string)
}

type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates `dir` if needed and writes every exchange into
// it as a separate file named after the exchange id. existing files in `dir`
// are left alone.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+".txt"), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

type prefixedOutput struct {
	prefix string
	inner  Output
}

func (o prefixedOutput) Write(id string, contents string) {
	o.inner.Write(o.prefix+"-"+id, contents)
}

// WithPrefix namespaces the ids written to `out` so several clients can share
// it. a nil output stays nil.
func WithPrefix(prefix string, out Output) Output {
	if out == nil {
		return nil
	}
	return prefixedOutput{prefix: prefix, inner: out}
}
