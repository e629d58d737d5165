package encoding

import (
	"math/bits"
	"time"

	"github.com/arloliu/tdms/endian"
)

// TimestampSize is the encoded width of a Timestamp.
const TimestampSize = 16

// unixEpochOffset is the number of seconds between 1904-01-01 and 1970-01-01 UTC.
const unixEpochOffset = 2082844800

// Timestamp is a LabVIEW timestamp: whole seconds since 1904-01-01 00:00:00 UTC
// plus a positive fraction of a second in units of 2^-64 s.
type Timestamp struct {
	Seconds   int64
	Fractions uint64
}

// Time converts the timestamp to a UTC time.Time, truncated to nanoseconds.
func (t Timestamp) Time() time.Time {
	nanos, _ := bits.Mul64(t.Fractions, uint64(time.Second))
	return time.Unix(t.Seconds-unixEpochOffset, int64(nanos)).UTC() //nolint:gosec
}

func (t Timestamp) String() string {
	return t.Time().Format(time.RFC3339Nano)
}

// TimestampFromTime converts tm into a Timestamp. Time() on the result
// returns tm again at nanosecond precision.
func TimestampFromTime(tm time.Time) Timestamp {
	nanos := uint64(tm.Nanosecond()) //nolint:gosec
	frac, rem := bits.Div64(nanos, 0, uint64(time.Second))
	if rem != 0 {
		frac++
	}

	return Timestamp{Seconds: tm.Unix() + unixEpochOffset, Fractions: frac}
}

// DecodeTimestamp decodes 16 bytes. Little-endian segments store the fraction
// first; big-endian segments store the seconds first.
func DecodeTimestamp(b []byte, engine endian.EndianEngine) Timestamp {
	if endian.IsBigEndian(engine) {
		return Timestamp{Seconds: int64(engine.Uint64(b[0:8])), Fractions: engine.Uint64(b[8:16])} //nolint:gosec
	}

	return Timestamp{Fractions: engine.Uint64(b[0:8]), Seconds: int64(engine.Uint64(b[8:16]))} //nolint:gosec
}

// ReadTimestamp reads a 16-byte timestamp at off.
func ReadTimestamp(b []byte, off int, engine endian.EndianEngine) (Timestamp, int, error) {
	return read(b, off, TimestampSize, engine, DecodeTimestamp)
}

// AppendTimestamp appends t in the layout DecodeTimestamp expects.
func AppendTimestamp(dst []byte, t Timestamp, engine endian.EndianEngine) []byte {
	if endian.IsBigEndian(engine) {
		dst = engine.AppendUint64(dst, uint64(t.Seconds)) //nolint:gosec
		return engine.AppendUint64(dst, t.Fractions)
	}

	dst = engine.AppendUint64(dst, t.Fractions)
	return engine.AppendUint64(dst, uint64(t.Seconds)) //nolint:gosec
}
