package audiofile

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

// extensibleWAV builds a mono WAVE_FORMAT_EXTENSIBLE file the way
// ffmpeg writes it for sample sizes above 16 bits.
func extensibleWAV(sampleRate uint32, bitDepth uint16, guid [16]byte, payload []byte) []byte {
	var buf bytes.Buffer
	w := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	blockAlign := bitDepth / 8

	buf.WriteString("RIFF")
	w(uint32(4 + 8 + 40 + 8 + len(payload)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	w(uint32(40))
	w(uint16(wavFormatExtensible))
	w(uint16(1))
	w(sampleRate)
	w(sampleRate * uint32(blockAlign))
	w(blockAlign)
	w(bitDepth)
	w(uint16(22))
	w(bitDepth)
	w(uint32(4)) // front center
	buf.Write(guid[:])

	buf.WriteString("data")
	w(uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

func subFormatGUID(tag uint16) [16]byte {
	var guid [16]byte
	binary.LittleEndian.PutUint16(guid[:2], tag)
	copy(guid[2:], subFormatSuffix)
	return guid
}

func TestLoadExtensibleFloatWAV(t *testing.T) {
	ctx := context.Background()
	values := []float32{0.5, -0.25, 0.1}
	payload := make([]byte, 4*len(values))
	for idx, v := range values {
		binary.LittleEndian.PutUint32(payload[idx*4:], math.Float32bits(v))
	}

	path := filepath.Join(t.TempDir(), "extensible_float.wav")
	require.NoError(t, os.WriteFile(path, extensibleWAV(44100, 32, subFormatGUID(wavFormatIEEEFloat), payload), 0644))

	w, err := Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, audio.SampleRate(44100), w.SampleRate)
	require.Equal(t, values, w.Samples)
}

func TestDecodeExtensiblePCMWAV(t *testing.T) {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint16(payload[0:], uint16(16384))
	binary.LittleEndian.PutUint16(payload[2:], uint16(0x10000-8192))

	decoded, err := Decode(context.Background(), bytes.NewReader(extensibleWAV(16000, 16, subFormatGUID(wavFormatPCM), payload)))
	require.NoError(t, err)
	require.Equal(t, audio.SampleRate(16000), decoded.SampleRate)
	require.Len(t, decoded.Samples, 2)
	require.InDelta(t, 0.5, decoded.Samples[0], 1e-6)
	require.InDelta(t, -0.25, decoded.Samples[1], 1e-6)
}

func TestDecodeUnknownWAVFormat(t *testing.T) {
	t.Run("unknown sub-format", func(t *testing.T) {
		guid := subFormatGUID(wavFormatIEEEFloat)
		guid[15] ^= 0xFF
		_, err := Decode(context.Background(), bytes.NewReader(extensibleWAV(16000, 32, guid, make([]byte, 8))))
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("a-law", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "alaw.wav")
		writeWAV(t, path, 8000, 16, 1, 6, []int{1, 2, 3, 4})
		_, err := Load(context.Background(), path)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestParseWAVFormatChunk(t *testing.T) {
	_, err := parseWAVFormatChunk(make([]byte, 10))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	body := make([]byte, 18)
	binary.LittleEndian.PutUint16(body, wavFormatExtensible)
	_, err = parseWAVFormatChunk(body)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	binary.LittleEndian.PutUint16(body, wavFormatIEEEFloat)
	tag, err := parseWAVFormatChunk(body)
	require.NoError(t, err)
	require.Equal(t, uint16(wavFormatIEEEFloat), tag)
}
