package wasmmem

import (
	"bytes"
	"context"
	"testing"
)

func TestRealloc(t *testing.T) {
	ctx := context.Background()
	m, err := New(ctx, 1, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer m.Close(ctx)

	a, err := m.Realloc(ctx, 0, 0, 1, 3)
	if err != nil {
		t.Fatalf("Realloc() error: %v", err)
	}
	if a == 0 {
		t.Fatal("allocation returned the null pointer")
	}
	b, err := m.Realloc(ctx, 0, 0, 8, 16)
	if err != nil {
		t.Fatalf("Realloc() error: %v", err)
	}
	if b%8 != 0 || b < a+3 {
		t.Errorf("aligned allocation at %d overlaps or is misaligned (previous at %d)", b, a)
	}

	if !m.Memory().Write(a, []byte("abc")) {
		t.Fatal("write failed")
	}
	c, err := m.Realloc(ctx, a, 3, 1, 6)
	if err != nil {
		t.Fatalf("Realloc() error: %v", err)
	}
	got, _ := m.Memory().Read(c, 3)
	if !bytes.Equal(got, []byte("abc")) {
		t.Errorf("grown block = %q, want the original contents", got)
	}

	m.Reset()
	if m.Used() != 0 {
		t.Errorf("Used() after Reset = %d", m.Used())
	}
}

func TestReallocGrowsMemory(t *testing.T) {
	ctx := context.Background()
	m, err := New(ctx, 1, 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer m.Close(ctx)

	ptr, err := m.Realloc(ctx, 0, 0, 1, 3*pageSize)
	if err != nil {
		t.Fatalf("Realloc() error: %v", err)
	}
	if size := m.Memory().Size(); uint64(size) < uint64(ptr)+3*pageSize {
		t.Errorf("memory size %d does not cover allocation at %d", size, ptr)
	}
}

func TestReallocRespectsMaximum(t *testing.T) {
	ctx := context.Background()
	m, err := New(ctx, 1, 1)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer m.Close(ctx)

	if _, err := m.Realloc(ctx, 0, 0, 1, 2*pageSize); err == nil {
		t.Fatal("expected growth past the maximum to fail")
	}
}
