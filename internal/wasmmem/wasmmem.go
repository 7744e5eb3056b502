// Package wasmmem provides boundary memory backed by a wazero linear memory
// and a bump allocator over it.
package wasmmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/partite-ai/idlbind/abi"
	"github.com/partite-ai/idlbind/wasm"
)

const (
	pageSize   = 65536
	memoryName = "memory"
	// firstOffset keeps 0 free so a null pointer never names a live block.
	firstOffset = 8
)

// Memory is a memory-only module instantiated in its own wazero runtime.
type Memory struct {
	runtime wazero.Runtime
	module  api.Module
	memory  api.Memory

	mu   sync.Mutex
	next uint32
}

// New instantiates a memory of the given initial size in pages. maxPages of
// zero leaves the memory unbounded.
func New(ctx context.Context, pages, maxPages uint32) (*Memory, error) {
	limits := wasm.Limits{Min: pages}
	if maxPages > 0 {
		limits.Max, limits.HasMax = maxPages, true
	}
	bin, err := wasm.MemoryModule(memoryName, limits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode memory module: %w", err)
	}

	r := wazero.NewRuntime(ctx)
	mod, err := r.Instantiate(ctx, bin)
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate memory module: %w", err)
	}
	mem := mod.ExportedMemory(memoryName)
	if mem == nil {
		r.Close(ctx)
		return nil, fmt.Errorf("memory module does not export %q", memoryName)
	}
	return &Memory{runtime: r, module: mod, memory: mem, next: firstOffset}, nil
}

// Memory is the underlying linear memory.
func (m *Memory) Memory() api.Memory { return m.memory }

// Boundary pairs the memory with its allocator.
func (m *Memory) Boundary() abi.Boundary {
	return abi.Boundary{Memory: m.memory, Realloc: m.Realloc}
}

// Realloc allocates newSize bytes aligned to alignment, copying the old
// block when originalPtr is set. Blocks are never reclaimed individually;
// Reset releases everything at once.
func (m *Memory) Realloc(ctx context.Context, originalPtr, originalSize, alignment, newSize uint32) (uint32, error) {
	if alignment == 0 || alignment&(alignment-1) != 0 {
		return 0, fmt.Errorf("invalid alignment %d", alignment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if originalPtr != 0 && newSize <= originalSize {
		return originalPtr, nil
	}

	ptr := (m.next + alignment - 1) &^ (alignment - 1)
	end := uint64(ptr) + uint64(newSize)
	if size := uint64(m.memory.Size()); end > size {
		pages := uint32((end - size + pageSize - 1) / pageSize)
		if _, ok := m.memory.Grow(pages); !ok {
			return 0, fmt.Errorf("failed to grow memory by %d pages", pages)
		}
	}
	if originalPtr != 0 && originalSize > 0 {
		old, ok := m.memory.Read(originalPtr, originalSize)
		if !ok {
			return 0, fmt.Errorf("failed to read %d bytes at ptr %d", originalSize, originalPtr)
		}
		if !m.memory.Write(ptr, old) {
			return 0, fmt.Errorf("failed to copy %d bytes to ptr %d", originalSize, ptr)
		}
	}
	m.next = uint32(end)
	return ptr, nil
}

// Used is the number of bytes handed out since the last Reset.
func (m *Memory) Used() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next - firstOffset
}

// Reset releases every allocation.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next = firstOffset
}

func (m *Memory) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}
