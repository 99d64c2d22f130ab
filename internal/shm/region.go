// internal/shm/region.go
package shm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"unicode/utf8"

	"golang.org/x/sys/unix"
)

// ErrNotExist is returned by Open when the backing file is absent.
var ErrNotExist = errors.New("shm: region does not exist")

// ErrLayout is returned by Open when the backing file size does not match the layout.
var ErrLayout = errors.New("shm: region size does not match layout")

// Region is a fixed-size block of bytes shared between processes through a mapped file.
//
// Layout is packed little-endian with no padding. The region is the wire contract:
// readers and writers must agree on every offset.
//
// There is no locking. A reader may observe a torn multi-field update.
// All getters return copies; nothing returned aliases the mapping.
type Region struct {
	path   string
	data   []byte
	mapped bool
}

// Create opens the region at path, reusing it if the file already has the
// expected size, otherwise (re)initializing it to size zero bytes.
func Create(path string, size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shm: invalid size %d for %s", size, path)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("shm: create %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("shm: stat %s: %w", path, err)
	}

	if st.Size() != int64(size) {
		// incompatible or new: zero-initialize
		if err := f.Truncate(0); err != nil {
			return nil, fmt.Errorf("shm: truncate %s: %w", path, err)
		}
		if err := f.Truncate(int64(size)); err != nil {
			return nil, fmt.Errorf("shm: size %s: %w", path, err)
		}
	}

	return mapFile(f, path, size)
}

// Open attaches to an existing region without creating it.
func Open(path string, size int) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, fmt.Errorf("shm: open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("shm: stat %s: %w", path, err)
	}
	if st.Size() != int64(size) {
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrLayout, path, st.Size(), size)
	}

	return mapFile(f, path, size)
}

func mapFile(f *os.File, path string, size int) (*Region, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shm: mmap %s: %w", path, err)
	}
	return &Region{path: path, data: data, mapped: true}, nil
}

// NewMemRegion returns a process-local region. Used by tests and single-process tools.
func NewMemRegion(size int) *Region {
	return &Region{path: "mem", data: make([]byte, size)}
}

// Close unmaps the region. The backing file is left in place for other processes.
func (r *Region) Close() error {
	if r == nil || r.data == nil {
		return nil
	}
	var err error
	if r.mapped {
		err = unix.Munmap(r.data)
	}
	r.data = nil
	return err
}

func (r *Region) Path() string { return r.path }
func (r *Region) Size() int    { return len(r.data) }

// ---- scalar accessors ----

func (r *Region) U8(off int) uint8       { return r.data[off] }
func (r *Region) PutU8(off int, v uint8) { r.data[off] = v }

func (r *Region) U16(off int) uint16 { return binary.LittleEndian.Uint16(r.data[off : off+2]) }
func (r *Region) PutU16(off int, v uint16) {
	binary.LittleEndian.PutUint16(r.data[off:off+2], v)
}

func (r *Region) U32(off int) uint32 { return binary.LittleEndian.Uint32(r.data[off : off+4]) }
func (r *Region) PutU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(r.data[off:off+4], v)
}

func (r *Region) U64(off int) uint64 { return binary.LittleEndian.Uint64(r.data[off : off+8]) }
func (r *Region) PutU64(off int, v uint64) {
	binary.LittleEndian.PutUint64(r.data[off:off+8], v)
}

func (r *Region) I16(off int) int16       { return int16(r.U16(off)) }
func (r *Region) PutI16(off int, v int16) { r.PutU16(off, uint16(v)) }

func (r *Region) I64(off int) int64       { return int64(r.U64(off)) }
func (r *Region) PutI64(off int, v int64) { r.PutU64(off, uint64(v)) }

func (r *Region) F32(off int) float32 { return math.Float32frombits(r.U32(off)) }
func (r *Region) PutF32(off int, v float32) {
	r.PutU32(off, math.Float32bits(v))
}

func (r *Region) F64(off int) float64 { return math.Float64frombits(r.U64(off)) }
func (r *Region) PutF64(off int, v float64) {
	r.PutU64(off, math.Float64bits(v))
}

// ---- fixed-length strings ----

// UTF32 reads a fixed-length string of chars code points (4 bytes each),
// terminated early by the first zero code point.
func (r *Region) UTF32(off, chars int) string {
	buf := make([]byte, 0, chars)
	for i := 0; i < chars; i++ {
		c := r.U32(off + 4*i)
		if c == 0 {
			break
		}
		if c > utf8.MaxRune {
			c = utf8.RuneError
		}
		buf = utf8.AppendRune(buf, rune(c))
	}
	return string(buf)
}

// PutUTF32 writes s as up to chars code points, zero-padding the rest.
func (r *Region) PutUTF32(off, chars int, s string) {
	i := 0
	for _, c := range s {
		if i >= chars {
			break
		}
		r.PutU32(off+4*i, uint32(c))
		i++
	}
	for ; i < chars; i++ {
		r.PutU32(off+4*i, 0)
	}
}

// Zero clears n bytes starting at off.
func (r *Region) Zero(off, n int) {
	clear(r.data[off : off+n])
}
