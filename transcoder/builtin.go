package transcoder

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// NewDefaultRegistry returns a Registry pre-populated with the
// UUID, decimal, and timestamp transcodings every deployment needs to
// round-trip DomainEvent state through the tagged-document wire form.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(UUIDTranscoding{})
	r.Register(DecimalTranscoding{})
	r.Register(TimestampTranscoding{})
	return r
}

// UUIDTranscoding encodes uuid.UUID as its canonical string form.
type UUIDTranscoding struct{}

func (UUIDTranscoding) Name() string             { return "uuid" }
func (UUIDTranscoding) Target() reflect.Type     { return reflect.TypeOf(uuid.UUID{}) }
func (UUIDTranscoding) Encode(value any) (any, error) {
	id, ok := value.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("uuid transcoding: expected uuid.UUID, got %T", value)
	}
	return id.String(), nil
}
func (UUIDTranscoding) Decode(data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("uuid transcoding: expected string, got %T", data)
	}
	return uuid.Parse(s)
}

// DecimalTranscoding encodes *big.Rat as a numerator/denominator pair
// so arbitrary-precision values survive round-tripping through JSON,
// which has no fixed-point or rational number type of its own.
type DecimalTranscoding struct{}

func (DecimalTranscoding) Name() string         { return "decimal" }
func (DecimalTranscoding) Target() reflect.Type { return reflect.TypeOf(&big.Rat{}) }
func (DecimalTranscoding) Encode(value any) (any, error) {
	r, ok := value.(*big.Rat)
	if !ok {
		return nil, fmt.Errorf("decimal transcoding: expected *big.Rat, got %T", value)
	}
	return r.RatString(), nil
}
func (DecimalTranscoding) Decode(data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("decimal transcoding: expected string, got %T", data)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("decimal transcoding: invalid decimal literal %q", s)
	}
	return r, nil
}

// TimestampTranscoding encodes time.Time with microsecond precision
// and its original timezone offset preserved via RFC3339Nano, so a
// timestamp read back in a different process still reports the
// instant it was recorded in.
type TimestampTranscoding struct{}

func (TimestampTranscoding) Name() string         { return "timestamp" }
func (TimestampTranscoding) Target() reflect.Type { return reflect.TypeOf(time.Time{}) }
func (TimestampTranscoding) Encode(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("timestamp transcoding: expected time.Time, got %T", value)
	}
	return t.Truncate(time.Microsecond).Format(time.RFC3339Nano), nil
}
func (TimestampTranscoding) Decode(data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("timestamp transcoding: expected string, got %T", data)
	}
	return time.Parse(time.RFC3339Nano, s)
}
