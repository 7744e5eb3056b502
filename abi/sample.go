package abi

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/partite-ai/idlbind/model"
)

const (
	maxSampleDepth = 4
	// maxRecordDepth bounds record nesting. Only a record that contains
	// itself through required fields reaches it.
	maxRecordDepth = 64
)

// SampleValue returns a deterministic, non-trivial value of t, or nil when t
// has no finite value. Nested optionals and sequences bottom out in None and
// empty sequences so that self-referential records stay finite.
func SampleValue(ci *model.ComponentInterface, t model.Type) Value {
	return sampleValue(ci, t, 0)
}

func sampleValue(ci *model.ComponentInterface, t model.Type, depth int) Value {
	switch t := t.(type) {
	case model.Primitive:
		return samplePrimitive(t)
	case model.OptionalType:
		if depth >= maxSampleDepth {
			return None()
		}
		inner := sampleValue(ci, t.Inner, depth+1)
		if inner == nil {
			return None()
		}
		return Some(inner)
	case model.SequenceType:
		if depth >= maxSampleDepth {
			return Sequence{}
		}
		item := sampleValue(ci, t.Inner, depth+1)
		if item == nil {
			return Sequence{}
		}
		return Sequence{item, sampleValue(ci, t.Inner, depth+1)}
	case model.MapType:
		if depth >= maxSampleDepth {
			return Map{}
		}
		key, value := sampleValue(ci, t.Key, depth+1), sampleValue(ci, t.Value, depth+1)
		if key == nil || value == nil {
			return Map{}
		}
		return Map{{Key: key, Value: value}}
	case model.RecordType:
		def := ci.GetRecordDefinition(t.Name)
		if def == nil || depth >= maxRecordDepth {
			return nil
		}
		rec := make(Record, 0, len(def.Fields()))
		for _, f := range def.Fields() {
			v := sampleValue(ci, f.Type(), depth+1)
			if v == nil {
				return nil
			}
			rec = append(rec, v)
		}
		return rec
	case model.EnumType:
		def := ci.GetEnumDefinition(t.Name)
		if def == nil {
			return nil
		}
		variants := def.Variants()
		return Enum{Variant: variants[len(variants)-1]}
	case model.ErrorType:
		def := ci.GetErrorDefinition(t.Name)
		if def == nil {
			return nil
		}
		return Error{Variant: def.Variants()[0], Message: "sample " + t.Name}
	case model.ObjectType:
		return Handle(1)
	case model.DelegateObjectType, model.CallbackInterfaceType:
		return Foreign{Object: model.CanonicalName(t)}
	}
	return nil
}

func samplePrimitive(p model.Primitive) Value {
	switch p {
	case model.Bool:
		return Bool(true)
	case model.UInt8:
		return U8(200)
	case model.Int8:
		return S8(-100)
	case model.UInt16:
		return U16(60000)
	case model.Int16:
		return S16(-30000)
	case model.UInt32:
		return U32(4_000_000_000)
	case model.Int32:
		return S32(-2_000_000_000)
	case model.UInt64:
		return U64(1 << 63)
	case model.Int64:
		return S64(-1 << 62)
	case model.Float32:
		return F32(1.5)
	case model.Float64:
		return F64(-2.25)
	case model.String:
		return String("héllo, wörld ✓")
	case model.Timestamp:
		return Timestamp{Seconds: 1_700_000_000, Nanos: 123_456_789}
	case model.Duration:
		return Duration(90*time.Minute + 5*time.Nanosecond)
	}
	return nil
}

// RoundTrip lowers v into b and lifts it back.
func (r *Runtime) RoundTrip(ctx context.Context, b Boundary, t model.Type, v Value) (Value, error) {
	flat, err := r.Lower(ctx, b, t, v)
	if err != nil {
		return nil, fmt.Errorf("lower %s: %w", t, err)
	}
	got, err := r.Lift(ctx, b, t, flat)
	if err != nil {
		return nil, fmt.Errorf("lift %s: %w", t, err)
	}
	return got, nil
}

// SelfTest round-trips a sample value of every type of the component
// interface through b and reports the first mismatch.
func (r *Runtime) SelfTest(ctx context.Context, b Boundary) error {
	for _, t := range r.ci.Types() {
		want := SampleValue(r.ci, t)
		if want == nil {
			return fmt.Errorf("%w: %s has no finite sample value", ErrInvalidValue, t)
		}
		got, err := r.RoundTrip(ctx, b, t, want)
		if err != nil {
			return err
		}
		if !reflect.DeepEqual(got, want) {
			return fmt.Errorf("%s does not round-trip: got %#v, want %#v", t, got, want)
		}
	}
	return nil
}
