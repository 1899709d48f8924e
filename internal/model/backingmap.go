package model

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// BackingMap is the optional memory-mapped backing file for an MLD's
// address space, created when a catalog entry's MLD template has Mmap set
// and the Switch has a Dir configured. Modeled on the fd-backed MAP_SHARED
// mmap in internal/hv/kvm.(*hypervisor).NewVirtualMachine's per-vCPU
// kvm_run mapping in the teacher: a file descriptor truncated to size and
// mapped MAP_SHARED so writes land on disk and reads see zero for
// never-written (sparse) regions.
type BackingMap struct {
	Path string
	file *os.File
	mem  []byte
}

// OpenBackingMap creates (or truncates) the file at path to size bytes and
// maps it read/write shared.
func OpenBackingMap(path string, size uint64) (*BackingMap, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open backing file %s: %w", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("truncate backing file %s: %w", path, err)
	}

	if size == 0 {
		// Nothing to map; degenerate MLDs with a zero memory_size still get
		// a valid (empty) backing handle so Port.MLD.Mem != nil iff the
		// file exists, per spec.md §8's non-null-together invariant.
		return &BackingMap{Path: path, file: f, mem: []byte{}}, nil
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap backing file %s: %w", path, err)
	}

	return &BackingMap{Path: path, file: f, mem: mem}, nil
}

// ReadAt copies len(p) bytes starting at offset off into p.
func (b *BackingMap) ReadAt(p []byte, off uint64) error {
	if off+uint64(len(p)) > uint64(len(b.mem)) {
		return fmt.Errorf("read [%d,%d) exceeds backing size %d", off, off+uint64(len(p)), len(b.mem))
	}
	copy(p, b.mem[off:])
	return nil
}

// WriteAt copies p into the backing map at offset off.
func (b *BackingMap) WriteAt(p []byte, off uint64) error {
	if off+uint64(len(p)) > uint64(len(b.mem)) {
		return fmt.Errorf("write [%d,%d) exceeds backing size %d", off, off+uint64(len(p)), len(b.mem))
	}
	copy(b.mem[off:], p)
	return nil
}

// Sync flushes dirty pages to the backing file. spec.md §9 leaves the
// flush/durability semantics of MPC_MEM writes as an open question; this
// implementation does an msync(MS_SYNC) only when Sync is called, which
// Disconnect does before closing the file. WriteAt itself does not sync
// (see DESIGN.md "MPC_MEM/backing-file durability").
func (b *BackingMap) Sync() error {
	if len(b.mem) == 0 {
		return nil
	}
	return unix.Msync(b.mem, unix.MS_SYNC)
}

// Close unmaps and closes the backing file. Disconnect calls this before
// freeing the owning MLD, per DESIGN NOTES §9's required ordering.
func (b *BackingMap) Close() error {
	var err error
	if len(b.mem) > 0 {
		err = unix.Munmap(b.mem)
	}
	if cerr := b.file.Close(); err == nil {
		err = cerr
	}
	return err
}
