package audio

import (
	"fmt"
	"time"
)

type SampleRate uint32

func (r SampleRate) String() string {
	return fmt.Sprintf("%dHz", uint32(r))
}

// Samples returns the amount of samples (per channel) required to cover
// the given duration.
func (r SampleRate) Samples(d time.Duration) int {
	return int(uint64(r) * uint64(d) / uint64(time.Second))
}

type Channel uint16
