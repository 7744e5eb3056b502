// Package wasm encodes the small core modules the runtime instantiates to
// obtain boundary memory.
package wasm

import (
	"bytes"
	"fmt"
	"io"
)

const (
	sectionMemory = 5
	sectionExport = 7
)

// ExportKind is the kind byte of an export descriptor.
type ExportKind byte

const (
	ExportFunc   ExportKind = 0
	ExportTable  ExportKind = 1
	ExportMemory ExportKind = 2
	ExportGlobal ExportKind = 3
)

type Builder struct {
	sections []Section
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddSection(section Section) {
	b.sections = append(b.sections, section)
}

func (b *Builder) Build() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x61, 0x73, 0x6D}) // WASM Magic Number
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00}) // WASM Version 1
	for _, section := range b.sections {
		if err := section.writeSection(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

type Section interface {
	writeSection(w writer) error
}

type writer interface {
	io.Writer
	io.ByteWriter
}

// Limits are memory limits in 64KiB pages.
type Limits struct {
	Min, Max uint32
	HasMax   bool
}

func (l Limits) writeLimits(w writer) error {
	if !l.HasMax {
		if err := w.WriteByte(0); err != nil {
			return err
		}
		return writeLEB128(w, l.Min)
	}
	if l.Max < l.Min {
		return fmt.Errorf("memory maximum %d is less than minimum %d", l.Max, l.Min)
	}
	if err := w.WriteByte(1); err != nil {
		return err
	}
	if err := writeLEB128(w, l.Min); err != nil {
		return err
	}
	return writeLEB128(w, l.Max)
}

type MemorySection struct {
	Memories []Limits
}

func (ms *MemorySection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(ms.Memories))); err != nil {
		return err
	}
	for _, mem := range ms.Memories {
		if err := mem.writeLimits(&contents); err != nil {
			return err
		}
	}
	return writeSection(w, sectionMemory, contents.Bytes())
}

type Export struct {
	Name string
	Kind ExportKind
	Idx  uint32
}

type ExportSection struct {
	Exports []Export
}

func (es *ExportSection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(es.Exports))); err != nil {
		return err
	}
	for _, exp := range es.Exports {
		if err := writeLEB128(&contents, uint32(len(exp.Name))); err != nil {
			return err
		}
		if _, err := contents.WriteString(exp.Name); err != nil {
			return err
		}
		if err := contents.WriteByte(byte(exp.Kind)); err != nil {
			return err
		}
		if err := writeLEB128(&contents, exp.Idx); err != nil {
			return err
		}
	}
	return writeSection(w, sectionExport, contents.Bytes())
}

func writeSection(w writer, id byte, contents []byte) error {
	if err := w.WriteByte(id); err != nil {
		return err
	}
	if err := writeLEB128(w, uint32(len(contents))); err != nil {
		return err
	}
	_, err := w.Write(contents)
	return err
}

func writeLEB128(w writer, value uint32) error {
	for {
		b := byte(value & 0x7F)
		value >>= 7
		if value != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if value == 0 {
			break
		}
	}
	return nil
}

// MemoryModule encodes a module that defines one memory and exports it
// under name.
func MemoryModule(name string, limits Limits) ([]byte, error) {
	b := NewBuilder()
	b.AddSection(&MemorySection{Memories: []Limits{limits}})
	b.AddSection(&ExportSection{Exports: []Export{{Name: name, Kind: ExportMemory, Idx: 0}}})
	return b.Build()
}
