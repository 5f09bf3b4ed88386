// Package file reads pipeline inputs from the local disk.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one file path.
type Local struct{ path string }

func NewLocal(path string) *Local { return &Local{path: path} }

// Open returns the file for reading. A context that is already done wins
// over the filesystem; open errors keep the path and stay errors.Is-able
// (os.ErrNotExist, os.ErrPermission).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

func (l *Local) String() string { return l.path }
