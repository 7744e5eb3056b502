package abi

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"
	"golang.org/x/text/encoding/unicode"

	"github.com/partite-ai/idlbind/model"
)

// Realloc allocates (or grows) a block of boundary memory and returns its
// offset.
type Realloc func(ctx context.Context, originalPtr, originalSize, alignment, newSize uint32) (uint32, error)

// Boundary is the linear memory values are lowered into and lifted from.
type Boundary struct {
	Memory  api.Memory
	Realloc Realloc
}

// FlatCount is the number of flat values t lowers to.
func FlatCount(t model.Type) int {
	switch t := t.(type) {
	case model.Primitive:
		if t == model.String || t == model.Timestamp || t == model.Duration {
			return 2
		}
		return 1
	case model.ObjectType, model.DelegateObjectType, model.CallbackInterfaceType:
		return 1
	}
	return 2
}

// Lower converts v to the flat values passed across the boundary. Scalars
// and handles lower directly; strings and every other type are written to
// boundary memory and passed as (pointer, length).
func (r *Runtime) Lower(ctx context.Context, b Boundary, t model.Type, v Value) ([]uint64, error) {
	switch t := t.(type) {
	case model.Primitive:
		switch t {
		case model.String:
			s, err := as[String](t, v)
			if err != nil {
				return nil, err
			}
			ptr, n, err := r.writeString(ctx, b, string(s))
			if err != nil {
				return nil, err
			}
			return []uint64{api.EncodeU32(ptr), api.EncodeU32(n)}, nil
		case model.Timestamp, model.Duration:
		default:
			flat, err := lowerScalar(t, v)
			if err != nil {
				return nil, err
			}
			return []uint64{flat}, nil
		}
	case model.ObjectType:
		h, err := as[Handle](t, v)
		if err != nil {
			return nil, err
		}
		return []uint64{uint64(h)}, nil
	case model.DelegateObjectType, model.CallbackInterfaceType:
		h, err := r.lowerForeign(t, v)
		if err != nil {
			return nil, err
		}
		return []uint64{h}, nil
	}

	buf := NewBuffer(64)
	if err := r.Write(buf, t, v); err != nil {
		return nil, err
	}
	ptr, err := allocate(ctx, b, 1, buf.Bytes())
	if err != nil {
		return nil, err
	}
	return []uint64{api.EncodeU32(ptr), api.EncodeU32(uint32(buf.Len()))}, nil
}

// Lift converts the flat values produced by Lower back into a value. Buffers
// must contain exactly one value.
func (r *Runtime) Lift(ctx context.Context, b Boundary, t model.Type, flat []uint64) (Value, error) {
	if len(flat) != FlatCount(t) {
		return nil, fmt.Errorf("%w: %s lifts from %d flat values, got %d", ErrInvalidValue, t, FlatCount(t), len(flat))
	}
	switch t := t.(type) {
	case model.Primitive:
		switch t {
		case model.String:
			s, err := r.readString(b, api.DecodeU32(flat[0]), api.DecodeU32(flat[1]))
			if err != nil {
				return nil, err
			}
			return String(s), nil
		case model.Timestamp, model.Duration:
		default:
			return liftScalar(t, flat[0])
		}
	case model.ObjectType:
		return Handle(flat[0]), nil
	case model.DelegateObjectType, model.CallbackInterfaceType:
		return r.liftForeign(t, flat[0])
	}

	ptr, n := api.DecodeU32(flat[0]), api.DecodeU32(flat[1])
	data, ok := b.Memory.Read(ptr, n)
	if !ok {
		return nil, fmt.Errorf("failed to read %d bytes at ptr %d", n, ptr)
	}
	c := NewCursor(data)
	v, err := r.Read(c, t)
	if err != nil {
		return nil, err
	}
	if err := c.Finish(); err != nil {
		return nil, err
	}
	return v, nil
}

func lowerScalar(p model.Primitive, v Value) (uint64, error) {
	switch x := v.(type) {
	case Bool:
		if p == model.Bool {
			if x {
				return 1, nil
			}
			return 0, nil
		}
	case U8:
		if p == model.UInt8 {
			return uint64(x), nil
		}
	case S8:
		if p == model.Int8 {
			return api.EncodeI32(int32(x)), nil
		}
	case U16:
		if p == model.UInt16 {
			return uint64(x), nil
		}
	case S16:
		if p == model.Int16 {
			return api.EncodeI32(int32(x)), nil
		}
	case U32:
		if p == model.UInt32 {
			return api.EncodeU32(uint32(x)), nil
		}
	case S32:
		if p == model.Int32 {
			return api.EncodeI32(int32(x)), nil
		}
	case U64:
		if p == model.UInt64 {
			return uint64(x), nil
		}
	case S64:
		if p == model.Int64 {
			return api.EncodeI64(int64(x)), nil
		}
	case F32:
		if p == model.Float32 {
			return api.EncodeF32(float32(x)), nil
		}
	case F64:
		if p == model.Float64 {
			return api.EncodeF64(float64(x)), nil
		}
	}
	return 0, fmt.Errorf("%w: %T is not a value of %s", ErrInvalidValue, v, p)
}

func liftScalar(p model.Primitive, flat uint64) (Value, error) {
	switch p {
	case model.Bool:
		return Bool(flat != 0), nil
	case model.UInt8:
		return U8(flat), nil
	case model.Int8:
		return S8(api.DecodeI32(flat)), nil
	case model.UInt16:
		return U16(flat), nil
	case model.Int16:
		return S16(api.DecodeI32(flat)), nil
	case model.UInt32:
		return U32(api.DecodeU32(flat)), nil
	case model.Int32:
		return S32(api.DecodeI32(flat)), nil
	case model.UInt64:
		return U64(flat), nil
	case model.Int64:
		return S64(flat), nil
	case model.Float32:
		return F32(api.DecodeF32(flat)), nil
	case model.Float64:
		return F64(api.DecodeF64(flat)), nil
	}
	return nil, fmt.Errorf("%w: %s is not a scalar", ErrInvalidValue, p)
}

func allocate(ctx context.Context, b Boundary, align uint32, data []byte) (uint32, error) {
	ptr, err := b.Realloc(ctx, 0, 0, align, uint32(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %d bytes: %w", len(data), err)
	}
	if !b.Memory.Write(ptr, data) {
		return 0, fmt.Errorf("failed to write %d bytes at ptr %d", len(data), ptr)
	}
	return ptr, nil
}

// writeString stores s in the runtime's encoding and returns its pointer
// and length in code units.
func (r *Runtime) writeString(ctx context.Context, b Boundary, s string) (uint32, uint32, error) {
	if !utf8.ValidString(s) {
		return 0, 0, fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidValue)
	}
	switch r.encoding {
	case UTF8:
		ptr, err := allocate(ctx, b, 1, []byte(s))
		if err != nil {
			return 0, 0, err
		}
		return ptr, uint32(len(s)), nil
	case UTF16:
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
		if err != nil {
			return 0, 0, fmt.Errorf("failed to encode utf16 string: %w", err)
		}
		ptr, err := allocate(ctx, b, 2, encoded)
		if err != nil {
			return 0, 0, err
		}
		return ptr, uint32(len(encoded) / 2), nil
	}
	return 0, 0, fmt.Errorf("unsupported string encoding: %s", r.encoding)
}

func (r *Runtime) readString(b Boundary, ptr, length uint32) (string, error) {
	switch r.encoding {
	case UTF8:
		data, ok := b.Memory.Read(ptr, length)
		if !ok {
			return "", fmt.Errorf("failed to read string bytes at ptr %d with length %d", ptr, length)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidValue)
		}
		return string(data), nil
	case UTF16:
		data, ok := b.Memory.Read(ptr, length*2)
		if !ok {
			return "", fmt.Errorf("failed to read string bytes at ptr %d with length %d", ptr, length*2)
		}
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode utf16 string: %w", err)
		}
		return string(decoded), nil
	}
	return "", fmt.Errorf("unsupported string encoding: %s", r.encoding)
}
