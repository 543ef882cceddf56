package audiofile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jfreymuth/oggvorbis"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/audio/resampler"
	"github.com/xaionaro-go/datacounter"
)

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// Decoded is an interleaved multi-channel signal as stored in a file.
type Decoded struct {
	Samples    []float32
	Channels   audio.Channel
	SampleRate audio.SampleRate
}

// Mono averages all the channels into a single one.
func (d Decoded) Mono() (audio.Waveform, error) {
	samples, err := resampler.Downmix(d.Samples, d.Channels)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to downmix %d channels: %w", d.Channels, err)
	}
	return audio.NewWaveform(samples, d.SampleRate), nil
}

// Load reads the file and collapses its channels into a mono waveform.
func Load(ctx context.Context, path string) (_ret audio.Waveform, _err error) {
	logger.Tracef(ctx, "Load(%q)", path)
	defer func() { logger.Tracef(ctx, "/Load(%q): %v %v", path, _ret, _err) }()

	f, err := os.Open(path)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	defer f.Close()

	counter := datacounter.NewReaderCounter(f)
	data, err := io.ReadAll(counter)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to read '%s': %w", path, err)
	}
	logger.Debugf(ctx, "read %d bytes from '%s'", counter.Count(), path)

	decoded, err := Decode(ctx, bytes.NewReader(data))
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to decode '%s': %w", path, err)
	}
	logger.Debugf(ctx, "decoded '%s': %d channels @ %v", path, decoded.Channels, decoded.SampleRate)

	return decoded.Mono()
}

func Decode(ctx context.Context, r io.ReadSeeker) (Decoded, error) {
	container, err := DetectContainer(r)
	if err != nil {
		return Decoded{}, err
	}
	logger.Tracef(ctx, "container: %v", container)

	switch container {
	case ContainerWAV:
		return decodeWAV(r)
	case ContainerOggVorbis:
		return decodeOggVorbis(r)
	}
	return Decoded{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, container)
}

func decodeWAV(r io.ReadSeeker) (Decoded, error) {
	sampleFormat, err := wavSampleFormat(r)
	if err != nil {
		return Decoded{}, err
	}

	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return Decoded{}, fmt.Errorf("%w: not a valid WAV file: %v", ErrUnsupportedFormat, decoder.Err())
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Decoded{}, fmt.Errorf("unable to read the PCM data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return Decoded{}, fmt.Errorf("the WAV file has no channels")
	}

	var samples []float32
	switch sampleFormat {
	case wavFormatIEEEFloat:
		if decoder.BitDepth != 32 {
			return Decoded{}, fmt.Errorf("%w: %d-bit float WAV", ErrUnsupportedFormat, decoder.BitDepth)
		}
		samples = float32FromBits(buf)
	case wavFormatPCM:
		samples, err = intToFloat32(buf, int(decoder.BitDepth))
		if err != nil {
			return Decoded{}, err
		}
	default:
		return Decoded{}, fmt.Errorf("%w: WAV format tag 0x%04X", ErrUnsupportedFormat, sampleFormat)
	}

	return Decoded{
		Samples:    samples,
		Channels:   audio.Channel(buf.Format.NumChannels),
		SampleRate: audio.SampleRate(buf.Format.SampleRate),
	}, nil
}

func float32FromBits(buf *goaudio.IntBuffer) []float32 {
	out := make([]float32, len(buf.Data))
	for idx, v := range buf.Data {
		out[idx] = math.Float32frombits(uint32(v))
	}
	return out
}

func intToFloat32(buf *goaudio.IntBuffer, bitDepth int) ([]float32, error) {
	out := make([]float32, len(buf.Data))
	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned
		for idx, v := range buf.Data {
			out[idx] = float32(v-128) / 128
		}
	case 16, 24, 32:
		scale := float64(int64(1) << (bitDepth - 1))
		for idx, v := range buf.Data {
			out[idx] = float32(float64(v) / scale)
		}
	default:
		return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedFormat, bitDepth)
	}
	return out, nil
}

func decodeOggVorbis(r io.Reader) (Decoded, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return Decoded{}, fmt.Errorf("unable to decode the vorbis stream: %w", err)
	}
	if format.Channels < 1 {
		return Decoded{}, fmt.Errorf("the vorbis stream has no channels")
	}
	return Decoded{
		Samples:    samples,
		Channels:   audio.Channel(format.Channels),
		SampleRate: audio.SampleRate(format.SampleRate),
	}, nil
}
