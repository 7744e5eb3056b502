package abi

import (
	"fmt"
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/partite-ai/idlbind/model"
)

func as[V Value](t model.Type, v Value) (V, error) {
	got, ok := v.(V)
	if !ok {
		return got, fmt.Errorf("%w: %T is not a value of %s", ErrInvalidValue, v, t)
	}
	return got, nil
}

// Write appends v, a value of t, to buf.
func (r *Runtime) Write(buf *Buffer, t model.Type, v Value) error {
	switch t := t.(type) {
	case model.Primitive:
		return writePrimitive(buf, t, v)
	case model.OptionalType:
		o, err := as[Optional](t, v)
		if err != nil {
			return err
		}
		if !o.IsSome() {
			buf.PutU8(0)
			return nil
		}
		buf.PutU8(1)
		return r.Write(buf, t.Inner, o.Value)
	case model.SequenceType:
		s, err := as[Sequence](t, v)
		if err != nil {
			return err
		}
		buf.PutU32(uint32(len(s)))
		for i, item := range s {
			if err := r.Write(buf, t.Inner, item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	case model.MapType:
		m, err := as[Map](t, v)
		if err != nil {
			return err
		}
		buf.PutU32(uint32(len(m)))
		for _, e := range m {
			if err := r.Write(buf, t.Key, e.Key); err != nil {
				return fmt.Errorf("map key: %w", err)
			}
			if err := r.Write(buf, t.Value, e.Value); err != nil {
				return fmt.Errorf("map value: %w", err)
			}
		}
		return nil
	case model.RecordType:
		rec, err := as[Record](t, v)
		if err != nil {
			return err
		}
		def := r.ci.GetRecordDefinition(t.Name)
		if def == nil {
			return fmt.Errorf("%w: unknown record %s", ErrInvalidValue, t.Name)
		}
		fields := def.Fields()
		if len(rec) != len(fields) {
			return fmt.Errorf("%w: record %s has %d fields, got %d", ErrInvalidValue, t.Name, len(fields), len(rec))
		}
		for i, f := range fields {
			if err := r.Write(buf, f.Type(), rec[i]); err != nil {
				return fmt.Errorf("field %s.%s: %w", t.Name, f.Name(), err)
			}
		}
		return nil
	case model.EnumType:
		e, err := as[Enum](t, v)
		if err != nil {
			return err
		}
		def := r.ci.GetEnumDefinition(t.Name)
		if def == nil {
			return fmt.Errorf("%w: unknown enum %s", ErrInvalidValue, t.Name)
		}
		idx, err := variantIndex(t.Name, def.Variants(), e.Variant)
		if err != nil {
			return err
		}
		buf.PutU32(idx)
		return nil
	case model.ErrorType:
		e, err := as[Error](t, v)
		if err != nil {
			return err
		}
		def := r.ci.GetErrorDefinition(t.Name)
		if def == nil {
			return fmt.Errorf("%w: unknown error %s", ErrInvalidValue, t.Name)
		}
		idx, err := variantIndex(t.Name, def.Variants(), e.Variant)
		if err != nil {
			return err
		}
		buf.PutU32(idx)
		return writeString(buf, e.Message)
	case model.ObjectType:
		h, err := as[Handle](t, v)
		if err != nil {
			return err
		}
		buf.PutU64(uint64(h))
		return nil
	case model.DelegateObjectType, model.CallbackInterfaceType:
		h, err := r.lowerForeign(t, v)
		if err != nil {
			return err
		}
		buf.PutU64(h)
		return nil
	}
	return fmt.Errorf("%w: unsupported type %s", ErrInvalidValue, t)
}

// variantIndex returns the 1-based wire index of variant.
func variantIndex(owner string, variants []string, variant string) (uint32, error) {
	idx := slices.Index(variants, variant)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q is not a variant of %s", ErrInvalidValue, variant, owner)
	}
	return uint32(idx + 1), nil
}

func variantAt(owner string, variants []string, idx uint32) (string, error) {
	if idx == 0 || int(idx) > len(variants) {
		return "", fmt.Errorf("%w: variant index %d out of range for %s", ErrInvalidValue, idx, owner)
	}
	return variants[idx-1], nil
}

func writeString(buf *Buffer, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidValue)
	}
	buf.PutBytes([]byte(s))
	return nil
}

func writePrimitive(buf *Buffer, p model.Primitive, v Value) error {
	switch p {
	case model.Bool:
		b, err := as[Bool](p, v)
		if err != nil {
			return err
		}
		if b {
			buf.PutU8(1)
		} else {
			buf.PutU8(0)
		}
	case model.UInt8:
		x, err := as[U8](p, v)
		if err != nil {
			return err
		}
		buf.PutU8(uint8(x))
	case model.Int8:
		x, err := as[S8](p, v)
		if err != nil {
			return err
		}
		buf.PutU8(uint8(x))
	case model.UInt16:
		x, err := as[U16](p, v)
		if err != nil {
			return err
		}
		buf.PutU16(uint16(x))
	case model.Int16:
		x, err := as[S16](p, v)
		if err != nil {
			return err
		}
		buf.PutU16(uint16(x))
	case model.UInt32:
		x, err := as[U32](p, v)
		if err != nil {
			return err
		}
		buf.PutU32(uint32(x))
	case model.Int32:
		x, err := as[S32](p, v)
		if err != nil {
			return err
		}
		buf.PutU32(uint32(x))
	case model.UInt64:
		x, err := as[U64](p, v)
		if err != nil {
			return err
		}
		buf.PutU64(uint64(x))
	case model.Int64:
		x, err := as[S64](p, v)
		if err != nil {
			return err
		}
		buf.PutU64(uint64(x))
	case model.Float32:
		x, err := as[F32](p, v)
		if err != nil {
			return err
		}
		buf.PutU32(math.Float32bits(float32(x)))
	case model.Float64:
		x, err := as[F64](p, v)
		if err != nil {
			return err
		}
		buf.PutU64(math.Float64bits(float64(x)))
	case model.String:
		s, err := as[String](p, v)
		if err != nil {
			return err
		}
		return writeString(buf, string(s))
	case model.Timestamp:
		ts, err := as[Timestamp](p, v)
		if err != nil {
			return err
		}
		if ts.Nanos >= uint32(time.Second) {
			return fmt.Errorf("%w: timestamp nanoseconds %d out of range", ErrInvalidValue, ts.Nanos)
		}
		buf.PutU64(uint64(ts.Seconds))
		buf.PutU32(ts.Nanos)
	case model.Duration:
		d, err := as[Duration](p, v)
		if err != nil {
			return err
		}
		if d < 0 {
			return fmt.Errorf("%w: negative duration %s", ErrInvalidValue, time.Duration(d))
		}
		buf.PutU64(uint64(time.Duration(d) / time.Second))
		buf.PutU32(uint32(time.Duration(d) % time.Second))
	default:
		return fmt.Errorf("%w: unsupported primitive %s", ErrInvalidValue, p)
	}
	return nil
}

// Read decodes one value of t from c, consuming exactly its bytes.
func (r *Runtime) Read(c *Cursor, t model.Type) (Value, error) {
	switch t := t.(type) {
	case model.Primitive:
		return readPrimitive(c, t)
	case model.OptionalType:
		tag, err := c.U8()
		if err != nil {
			return nil, err
		}
		switch tag {
		case 0:
			return None(), nil
		case 1:
			inner, err := r.Read(c, t.Inner)
			if err != nil {
				return nil, err
			}
			return Some(inner), nil
		}
		return nil, fmt.Errorf("%w: optional tag %d", ErrInvalidValue, tag)
	case model.SequenceType:
		n, err := c.U32()
		if err != nil {
			return nil, err
		}
		s := make(Sequence, 0, min(int(n), c.Remaining()))
		for i := range n {
			item, err := r.Read(c, t.Inner)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			s = append(s, item)
		}
		return s, nil
	case model.MapType:
		n, err := c.U32()
		if err != nil {
			return nil, err
		}
		m := make(Map, 0, min(int(n), c.Remaining()))
		for range n {
			k, err := r.Read(c, t.Key)
			if err != nil {
				return nil, fmt.Errorf("map key: %w", err)
			}
			v, err := r.Read(c, t.Value)
			if err != nil {
				return nil, fmt.Errorf("map value: %w", err)
			}
			m = append(m, MapEntry{Key: k, Value: v})
		}
		return m, nil
	case model.RecordType:
		def := r.ci.GetRecordDefinition(t.Name)
		if def == nil {
			return nil, fmt.Errorf("%w: unknown record %s", ErrInvalidValue, t.Name)
		}
		rec := make(Record, 0, len(def.Fields()))
		for _, f := range def.Fields() {
			v, err := r.Read(c, f.Type())
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", t.Name, f.Name(), err)
			}
			rec = append(rec, v)
		}
		return rec, nil
	case model.EnumType:
		def := r.ci.GetEnumDefinition(t.Name)
		if def == nil {
			return nil, fmt.Errorf("%w: unknown enum %s", ErrInvalidValue, t.Name)
		}
		idx, err := c.U32()
		if err != nil {
			return nil, err
		}
		variant, err := variantAt(t.Name, def.Variants(), idx)
		if err != nil {
			return nil, err
		}
		return Enum{Variant: variant}, nil
	case model.ErrorType:
		def := r.ci.GetErrorDefinition(t.Name)
		if def == nil {
			return nil, fmt.Errorf("%w: unknown error %s", ErrInvalidValue, t.Name)
		}
		idx, err := c.U32()
		if err != nil {
			return nil, err
		}
		variant, err := variantAt(t.Name, def.Variants(), idx)
		if err != nil {
			return nil, err
		}
		msg, err := readString(c)
		if err != nil {
			return nil, err
		}
		return Error{Variant: variant, Message: msg}, nil
	case model.ObjectType:
		h, err := c.U64()
		if err != nil {
			return nil, err
		}
		return Handle(h), nil
	case model.DelegateObjectType, model.CallbackInterfaceType:
		h, err := c.U64()
		if err != nil {
			return nil, err
		}
		return r.liftForeign(t, h)
	}
	return nil, fmt.Errorf("%w: unsupported type %s", ErrInvalidValue, t)
}

func readString(c *Cursor) (string, error) {
	p, err := c.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidValue)
	}
	return string(p), nil
}

func readPrimitive(c *Cursor, p model.Primitive) (Value, error) {
	switch p {
	case model.Bool:
		b, err := c.U8()
		if err != nil {
			return nil, err
		}
		switch b {
		case 0:
			return Bool(false), nil
		case 1:
			return Bool(true), nil
		}
		return nil, fmt.Errorf("%w: boolean byte %d", ErrInvalidValue, b)
	case model.UInt8, model.Int8:
		b, err := c.U8()
		if err != nil {
			return nil, err
		}
		if p == model.Int8 {
			return S8(b), nil
		}
		return U8(b), nil
	case model.UInt16, model.Int16:
		x, err := c.U16()
		if err != nil {
			return nil, err
		}
		if p == model.Int16 {
			return S16(x), nil
		}
		return U16(x), nil
	case model.UInt32, model.Int32, model.Float32:
		x, err := c.U32()
		if err != nil {
			return nil, err
		}
		switch p {
		case model.Int32:
			return S32(x), nil
		case model.Float32:
			return F32(math.Float32frombits(x)), nil
		}
		return U32(x), nil
	case model.UInt64, model.Int64, model.Float64:
		x, err := c.U64()
		if err != nil {
			return nil, err
		}
		switch p {
		case model.Int64:
			return S64(x), nil
		case model.Float64:
			return F64(math.Float64frombits(x)), nil
		}
		return U64(x), nil
	case model.String:
		s, err := readString(c)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case model.Timestamp:
		secs, err := c.U64()
		if err != nil {
			return nil, err
		}
		nanos, err := c.U32()
		if err != nil {
			return nil, err
		}
		if nanos >= uint32(time.Second) {
			return nil, fmt.Errorf("%w: timestamp nanoseconds %d out of range", ErrInvalidValue, nanos)
		}
		return Timestamp{Seconds: int64(secs), Nanos: nanos}, nil
	case model.Duration:
		secs, err := c.U64()
		if err != nil {
			return nil, err
		}
		nanos, err := c.U32()
		if err != nil {
			return nil, err
		}
		const maxSecs, maxNanos = math.MaxInt64 / int64(time.Second), math.MaxInt64 % int64(time.Second)
		if nanos >= uint32(time.Second) || secs > uint64(maxSecs) || (secs == uint64(maxSecs) && int64(nanos) > maxNanos) {
			return nil, fmt.Errorf("%w: duration %ds %dns out of range", ErrInvalidValue, secs, nanos)
		}
		return Duration(time.Duration(secs)*time.Second + time.Duration(nanos)), nil
	}
	return nil, fmt.Errorf("%w: unsupported primitive %s", ErrInvalidValue, p)
}
