package models

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// FsMapper translates guest paths to host paths. Explicit mappings take
// priority over the rootfs prefix.
type FsMapper struct {
	Rootfs string

	mappings map[string]string
	// mapped guest prefixes, longest first
	order []string
}

func NewFsMapper(rootfs string, mappings map[string]string) *FsMapper {
	f := &FsMapper{Rootfs: rootfs}
	for guest, host := range mappings {
		f.Add(guest, host)
	}
	return f
}

// Add maps a guest path (and everything under it) onto a host path.
func (f *FsMapper) Add(guest, host string) {
	if f.mappings == nil {
		f.mappings = make(map[string]string)
	}
	guest = path.Clean("/" + guest)
	if _, ok := f.mappings[guest]; !ok {
		f.order = append(f.order, guest)
		sort.Slice(f.order, func(i, j int) bool { return len(f.order[i]) > len(f.order[j]) })
	}
	f.mappings[guest] = host
}

func (f *FsMapper) Mapped(guest string) (string, bool) {
	guest = path.Clean("/" + guest)
	for _, prefix := range f.order {
		if guest == prefix {
			return f.mappings[prefix], true
		}
		if prefix == "/" || strings.HasPrefix(guest, prefix+"/") {
			rest := strings.TrimPrefix(guest, prefix)
			return filepath.Join(f.mappings[prefix], filepath.FromSlash(rest)), true
		}
	}
	return "", false
}

// PrefixPath resolves a guest path to the host path that should be opened.
// Without force, rootfs-prefixed paths are only used if they exist.
func (f *FsMapper) PrefixPath(guest string, force bool) string {
	return f.prefixPath(guest, force, 0)
}

// symlinks followed before giving up on a loop
const maxLinkHops = 16

func (f *FsMapper) prefixPath(guest string, force bool, hops int) string {
	if host, ok := f.Mapped(guest); ok {
		return host
	}
	if f.Rootfs == "" || !filepath.IsAbs(guest) {
		return guest
	}
	return f.resolveSymlink(guest, filepath.Join(f.Rootfs, guest), force, hops)
}

func (f *FsMapper) resolveSymlink(guest, target string, force bool, hops int) string {
	link, err := os.Lstat(target)
	if err == nil && link.Mode()&os.ModeSymlink != 0 && hops < maxLinkHops {
		if linked, err := os.Readlink(target); err == nil {
			// absolute links point inside the guest filesystem
			if !filepath.IsAbs(linked) {
				linked = filepath.Join(filepath.Dir(guest), linked)
			}
			return f.prefixPath(linked, force, hops+1)
		}
	}
	if force || !os.IsNotExist(err) {
		return target
	}
	return guest
}
