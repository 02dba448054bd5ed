// Package inter holds the primitive types shared by the genesis artifact and
// its generators.
package inter

import (
	"time"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
)

// Timestamp is a UTC time in nanoseconds since the Unix epoch.
type Timestamp uint64

// FromTime converts t, truncating anything before the epoch to zero.
func FromTime(t time.Time) Timestamp {
	if t.Before(time.Unix(0, 0)) {
		return 0
	}
	return Timestamp(t.UnixNano())
}

// FromUnix converts whole seconds since the epoch.
func FromUnix(sec int64) Timestamp {
	return Timestamp(sec) * Timestamp(time.Second)
}

// Unix returns whole seconds since the epoch.
func (t Timestamp) Unix() int64 {
	return int64(t) / int64(time.Second)
}

// Time converts back to time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

// Bytes is the big-endian form used in signing payloads.
func (t Timestamp) Bytes() []byte {
	return bigendian.Uint64ToBytes(uint64(t))
}

func (t Timestamp) String() string {
	return t.Time().Format(time.RFC3339)
}
