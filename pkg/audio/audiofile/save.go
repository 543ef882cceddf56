package audiofile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
)

const DefaultBitDepth = 16

func ValidateBitDepth(bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
		return nil
	}
	return fmt.Errorf("%w: %d-bit PCM output (expected 16, 24 or 32)", ErrUnsupportedFormat, bitDepth)
}

// Save writes the waveform as a mono PCM WAV file, whatever the extension of path is.
func Save(ctx context.Context, path string, w audio.Waveform, bitDepth int) (_err error) {
	logger.Tracef(ctx, "Save(%q, %v, %d)", path, w, bitDepth)
	defer func() { logger.Tracef(ctx, "/Save(%q): %v", path, _err) }()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create '%s': %w", path, err)
	}
	if err := Encode(f, w, bitDepth); err != nil {
		f.Close()
		return fmt.Errorf("unable to encode '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to close '%s': %w", path, err)
	}
	return nil
}

func Encode(out io.WriteSeeker, w audio.Waveform, bitDepth int) error {
	if err := ValidateBitDepth(bitDepth); err != nil {
		return err
	}
	if w.SampleRate == 0 {
		return fmt.Errorf("sample rate is mandatory")
	}

	encoder := wav.NewEncoder(out, int(w.SampleRate), bitDepth, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  int(w.SampleRate),
		},
		Data:           float32ToInt(w.Samples, bitDepth),
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("unable to write the samples: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("unable to finalize the WAV header: %w", err)
	}
	return nil
}

func float32ToInt(samples []float32, bitDepth int) []int {
	maxValue := float64(int64(1)<<(bitDepth-1) - 1)
	out := make([]int, len(samples))
	for idx, v := range samples {
		f := float64(v)
		if f > 1 {
			f = 1
		}
		if f < -1 {
			f = -1
		}
		out[idx] = int(f * maxValue)
	}
	return out
}
