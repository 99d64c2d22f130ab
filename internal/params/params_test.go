// internal/params/params_test.go
package params

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGet_InsertsDefault(t *testing.T) {
	s := New()

	if got := s.Float("motor.max", 0.4); got != 0.4 {
		t.Fatalf("expected 0.4, got %v", got)
	}
	if !s.Changed() {
		t.Fatalf("expected store marked changed")
	}
	s.Set("motor.max", 0.7)
	if got := s.Float("motor.max", 0.4); got != 0.7 {
		t.Fatalf("expected stored 0.7, got %v", got)
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if len(s.Keys()) != 0 {
		t.Fatalf("expected empty store, got %v", s.Keys())
	}
}

func TestSave_RoundTripAndOnlyWhenChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	s.Floats("motor.position.pid", []float64{0.002, 0, 0.00008})
	s.Bool("motor.position.pid.pom", false)
	s.String("name", "dangle")
	if err := s.Save(); err != nil {
		t.Fatalf("Save err=%v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat err=%v", err)
	}

	if s.Changed() {
		t.Fatalf("expected store clean after save")
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload err=%v", err)
	}
	pid := back.Floats("motor.position.pid", []float64{1, 1, 1})
	if pid[0] != 0.002 || pid[1] != 0 || pid[2] != 0.00008 {
		t.Fatalf("unexpected pid %v", pid)
	}
	if back.Bool("motor.position.pid.pom", true) {
		t.Fatalf("expected false")
	}
	if back.Changed() {
		t.Fatalf("expected reloaded store unchanged")
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty file")
	}
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"motor.position.dist.tolerance": 40, "motor.heading.pid": [0.015, 0.001, 0.0012]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if got := s.Float("motor.position.dist.tolerance", 0); got != 40 {
		t.Fatalf("expected 40, got %v", got)
	}
	if got := s.Floats("motor.heading.pid", []float64{0, 0, 0}); got[0] != 0.015 {
		t.Fatalf("unexpected %v", got)
	}
}

func TestGetter_WrongTypeKeepsDefault(t *testing.T) {
	s := New()
	s.Set("k", "not a number")

	if got := s.Float("k", 1.5); got != 1.5 {
		t.Fatalf("expected default 1.5, got %v", got)
	}
	if !errors.Is(s.Err(), ErrType) {
		t.Fatalf("expected ErrType, got %v", s.Err())
	}
}

func TestFloats_WrongLength(t *testing.T) {
	s := New()
	s.Set("pid", []any{1.0, 2.0})

	got := s.Floats("pid", []float64{0, 0, 0})
	if len(got) != 3 || !errors.Is(s.Err(), ErrType) {
		t.Fatalf("expected default and ErrType, got %v / %v", got, s.Err())
	}
}
