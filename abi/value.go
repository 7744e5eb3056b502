// Package abi executes the conversion contract on real values: it serializes
// values of model types into the buffer wire format, lowers and lifts them
// across a linear-memory boundary and keeps the handle tables behind delegate
// and callback-interface values.
package abi

import "time"

// Value is a runtime value of some model.Type.
type Value interface {
	isValue()
}

type Bool bool

func (Bool) isValue() {}

type U8 uint8

func (U8) isValue() {}

type U16 uint16

func (U16) isValue() {}

type U32 uint32

func (U32) isValue() {}

type U64 uint64

func (U64) isValue() {}

type S8 int8

func (S8) isValue() {}

type S16 int16

func (S16) isValue() {}

type S32 int32

func (S32) isValue() {}

type S64 int64

func (S64) isValue() {}

type F32 float32

func (F32) isValue() {}

type F64 float64

func (F64) isValue() {}

type String string

func (String) isValue() {}

// Timestamp is a point in time as seconds and nanoseconds since the Unix
// epoch. Nanos is always in [0, 1e9).
type Timestamp struct {
	Seconds int64
	Nanos   uint32
}

func (Timestamp) isValue() {}

// TimestampOf converts t.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: uint32(t.Nanosecond())}
}

// Time converts ts back to a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// Duration must not be negative to cross the boundary.
type Duration time.Duration

func (Duration) isValue() {}

// Optional holds either nothing or one value. The zero Optional is None.
type Optional struct {
	Value Value
}

func (Optional) isValue() {}

func Some(v Value) Optional { return Optional{Value: v} }

func None() Optional { return Optional{} }

// IsSome reports whether o holds a value.
func (o Optional) IsSome() bool { return o.Value != nil }

type Sequence []Value

func (Sequence) isValue() {}

type MapEntry struct {
	Key   Value
	Value Value
}

// Map keeps its entries in order so a round trip is exact.
type Map []MapEntry

func (Map) isValue() {}

// Record holds one value per field, in declaration order.
type Record []Value

func (Record) isValue() {}

// Enum is a variant of an enum, by name.
type Enum struct {
	Variant string
}

func (Enum) isValue() {}

// Error is a variant of an error enum with its message.
type Error struct {
	Variant string
	Message string
}

func (Error) isValue() {}

// Handle is an opaque reference to an object owned by the other side.
type Handle uint64

func (Handle) isValue() {}

// Foreign is a delegate or callback-interface implementation owned by this
// side. It crosses the boundary as a handle allocated by the type's
// HandleConverter.
type Foreign struct {
	Object any
}

func (Foreign) isValue() {}
