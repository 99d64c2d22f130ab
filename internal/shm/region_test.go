// internal/shm/region_test.go
package shm

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestCreate_ZeroInitializesAndReuses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chan.mmf")

	r, err := Create(path, 64)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	for i := 0; i < 64; i++ {
		if r.U8(i) != 0 {
			t.Fatalf("expected zeroed byte at %d, got %d", i, r.U8(i))
		}
	}
	r.PutF32(10, 0.25)
	if err := r.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}

	// compatible size: reuse contents
	r2, err := Create(path, 64)
	if err != nil {
		t.Fatalf("Create (reuse) err=%v", err)
	}
	defer r2.Close()
	if got := r2.F32(10); got != 0.25 {
		t.Fatalf("expected reused value 0.25, got %v", got)
	}
}

func TestCreate_IncompatibleSizeReinitializes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chan.mmf")

	r, err := Create(path, 16)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	r.PutU16(0, 7)
	_ = r.Close()

	r2, err := Create(path, 32)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	defer r2.Close()
	if r2.Size() != 32 {
		t.Fatalf("expected size 32, got %d", r2.Size())
	}
	if r2.U16(0) != 0 {
		t.Fatalf("expected zeroed region after resize, got %d", r2.U16(0))
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.mmf"), 8)
	if !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestOpen_LayoutMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chan.mmf")
	r, err := Create(path, 8)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	_ = r.Close()

	if _, err := Open(path, 16); !errors.Is(err, ErrLayout) {
		t.Fatalf("expected ErrLayout, got %v", err)
	}
}

func TestOpen_SharesWritesWithCreator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chan.mmf")
	w, err := Create(path, 32)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	defer w.Close()

	rd, err := Open(path, 32)
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	defer rd.Close()

	w.PutI64(8, -123456789)
	if got := rd.I64(8); got != -123456789 {
		t.Fatalf("expected -123456789 through mapping, got %d", got)
	}
}

func TestAccessors_RoundTrip(t *testing.T) {
	r := NewMemRegion(64)

	r.PutU8(0, 0xAB)
	r.PutI16(1, -2)
	r.PutU32(3, 0xDEADBEEF)
	r.PutF32(7, -0.75)
	r.PutF64(11, 1234.5678)
	r.PutI64(19, -1)

	if r.U8(0) != 0xAB {
		t.Fatalf("u8 got %x", r.U8(0))
	}
	if r.I16(1) != -2 {
		t.Fatalf("i16 got %d", r.I16(1))
	}
	if r.U32(3) != 0xDEADBEEF {
		t.Fatalf("u32 got %x", r.U32(3))
	}
	if r.F32(7) != -0.75 {
		t.Fatalf("f32 got %v", r.F32(7))
	}
	if r.F64(11) != 1234.5678 {
		t.Fatalf("f64 got %v", r.F64(11))
	}
	if r.I64(19) != -1 {
		t.Fatalf("i64 got %d", r.I64(19))
	}
}

func TestAccessors_LittleEndian(t *testing.T) {
	r := NewMemRegion(4)
	r.PutU16(0, 0x0102)
	if r.U8(0) != 0x02 || r.U8(1) != 0x01 {
		t.Fatalf("expected little-endian bytes 02 01, got %02x %02x", r.U8(0), r.U8(1))
	}
}

func TestUTF32_TruncatesAndPads(t *testing.T) {
	r := NewMemRegion(4 * 4)

	r.PutUTF32(0, 4, "héllo")
	if got := r.UTF32(0, 4); got != "héll" {
		t.Fatalf("expected truncated %q, got %q", "héll", got)
	}

	r.PutUTF32(0, 4, "ab")
	if got := r.UTF32(0, 4); got != "ab" {
		t.Fatalf("expected %q, got %q", "ab", got)
	}
	if r.U32(8) != 0 || r.U32(12) != 0 {
		t.Fatalf("expected zero padding after short string")
	}
}
