// Package mapfile maps module files read-only into memory so the decoder can
// work on them without copying.
package mapfile

import (
	"os"

	"github.com/pkg/errors"
)

// File is a read-only view of a file's contents.
type File struct {
	data   []byte
	unmap  func([]byte) error
	closed bool
}

// Open maps the file at path. Empty files yield an empty view.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open module")
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat module")
	}
	if !st.Mode().IsRegular() {
		return nil, errors.Errorf("%s is not a regular file", path)
	}
	if st.Size() == 0 {
		return &File{}, nil
	}
	data, unmap, err := mapFile(f, st.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "map %s", path)
	}
	return &File{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped contents. The slice must not be written and is
// invalid after Close.
func (f *File) Bytes() []byte { return f.data }

// Close releases the mapping. Closing twice is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	data := f.data
	f.data = nil
	if f.unmap == nil {
		return nil
	}
	return f.unmap(data)
}
