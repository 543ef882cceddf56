package audiofile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

const wavFormatExtensible = 0xFFFE

// subFormatSuffix is the tail shared by all the KSDATAFORMAT_SUBTYPE GUIDs;
// the first two bytes carry the plain format tag.
var subFormatSuffix = []byte{
	0x00, 0x00,
	0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
}

// wavSampleFormat returns the format tag of the samples, resolving
// WAVE_FORMAT_EXTENSIBLE through its SubFormat GUID. The reader is
// rewound afterwards.
func wavSampleFormat(r io.ReadSeeker) (_ret uint16, _err error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	defer func() {
		if _, err := r.Seek(0, io.SeekStart); err != nil && _err == nil {
			_err = err
		}
	}()

	parser := riff.New(r)
	id, _, err := parser.IDnSize()
	if err != nil {
		return 0, fmt.Errorf("unable to read the RIFF header: %w", err)
	}
	if id != riff.RiffID {
		return 0, fmt.Errorf("%w: not a RIFF file", ErrUnsupportedFormat)
	}
	var format [4]byte
	if _, err := io.ReadFull(r, format[:]); err != nil {
		return 0, fmt.Errorf("unable to read the RIFF format: %w", err)
	}
	if format != riff.WavFormatID {
		return 0, fmt.Errorf("%w: RIFF format '%s'", ErrUnsupportedFormat, format[:])
	}

	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("unable to find the 'fmt ' chunk: %w", err)
		}
		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}

		body := make([]byte, chunk.Size)
		if _, err := io.ReadFull(chunk, body); err != nil {
			return 0, fmt.Errorf("unable to read the 'fmt ' chunk: %w", err)
		}
		return parseWAVFormatChunk(body)
	}
}

// parseWAVFormatChunk expects the body of a 'fmt ' chunk.
func parseWAVFormatChunk(body []byte) (uint16, error) {
	if len(body) < 16 {
		return 0, fmt.Errorf("%w: the 'fmt ' chunk is too short: %d", ErrUnsupportedFormat, len(body))
	}
	tag := binary.LittleEndian.Uint16(body[0:2])
	if tag != wavFormatExtensible {
		return tag, nil
	}

	// cbSize(2) validBits(2) channelMask(4) SubFormat(16) follow the basic 16 bytes
	if len(body) < 40 {
		return 0, fmt.Errorf("%w: the extensible 'fmt ' chunk is too short: %d", ErrUnsupportedFormat, len(body))
	}
	guid := body[24:40]
	if !bytes.Equal(guid[2:], subFormatSuffix) {
		return 0, fmt.Errorf("%w: unknown WAV sub-format %X", ErrUnsupportedFormat, guid)
	}
	return binary.LittleEndian.Uint16(guid[0:2]), nil
}
