package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// Descriptor is whatever a kernel stores behind a file descriptor number.
type Descriptor interface{}

// FileDesState is an opaque snapshot of a FileDes.
type FileDesState []Descriptor

// FileDes is a descriptor table indexed by fd number. Unused slots hold nil.
//
// Save does not copy: the returned state shares storage with the live table,
// so later Set calls are visible through it. Threads switching tables call
// Save on the outgoing one and Restore with the incoming one.
type FileDes struct {
	fds []Descriptor
}

func NewFileDes(size int) *FileDes {
	return &FileDes{fds: make([]Descriptor, size)}
}

func (f *FileDes) Len() int { return len(f.fds) }

func (f *FileDes) Get(fd int) (Descriptor, error) {
	if fd < 0 || fd >= len(f.fds) {
		return nil, errors.Errorf("fd %d out of range", fd)
	}
	return f.fds[fd], nil
}

func (f *FileDes) Set(fd int, d Descriptor) error {
	if fd < 0 || fd >= len(f.fds) {
		return errors.Errorf("fd %d out of range", fd)
	}
	f.fds[fd] = d
	return nil
}

// Each calls fn for every slot in order, stopping early if fn returns false.
func (f *FileDes) Each(fn func(fd int, d Descriptor) bool) {
	for i, d := range f.fds {
		if !fn(i, d) {
			return
		}
	}
}

func (f *FileDes) String() string {
	return fmt.Sprintf("%v", f.fds)
}

func (f *FileDes) Save() FileDesState {
	return FileDesState(f.fds)
}

func (f *FileDes) Restore(state FileDesState) {
	f.fds = []Descriptor(state)
}
