package interp

import (
	"io/fs"
	"path"
)

// ScriptSource resolves @ldscript file names to script text.
type ScriptSource interface {
	ReadScript(name string) (string, error)
}

// FSSource reads scripts from a file system. Names without an extension
// get ".txt".
type FSSource struct {
	FS fs.FS
}

func (s FSSource) ReadScript(name string) (string, error) {
	if path.Ext(name) == "" {
		name += ".txt"
	}
	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
