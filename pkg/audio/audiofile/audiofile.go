// Package audiofile loads audio files into mono waveforms and stores
// waveforms as PCM WAV files.
package audiofile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

type Container int

const (
	ContainerUndefined = Container(iota)
	ContainerWAV
	ContainerOggVorbis
)

func (c Container) String() string {
	switch c {
	case ContainerWAV:
		return "wav"
	case ContainerOggVorbis:
		return "ogg/vorbis"
	default:
		return fmt.Sprintf("unknown_container_%d", int(c))
	}
}

var (
	magicRIFF = []byte("RIFF")
	magicOgg  = []byte("OggS")
)

// DetectContainer looks at the first bytes of the stream and rewinds it.
func DetectContainer(r io.ReadSeeker) (Container, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return ContainerUndefined, fmt.Errorf("unable to read the header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return ContainerUndefined, fmt.Errorf("unable to rewind: %w", err)
	}
	switch {
	case bytes.Equal(hdr[:], magicRIFF):
		return ContainerWAV, nil
	case bytes.Equal(hdr[:], magicOgg):
		return ContainerOggVorbis, nil
	}
	return ContainerUndefined, fmt.Errorf("%w: header %q", ErrUnsupportedFormat, hdr[:])
}
