package noisesuppression

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/noisesuppression"
)

// loudnessSuppressor reports the peak amplitude of a frame as its voice probability.
type loudnessSuppressor struct {
	noisesuppression.Dummy
	frameSize uint
}

func (s *loudnessSuppressor) ChunkSize() uint {
	return s.frameSize
}

func (s *loudnessSuppressor) SuppressNoise(ctx context.Context, input []float32, outputVoice []float32) (float64, error) {
	if _, err := s.Dummy.SuppressNoise(ctx, input, outputVoice); err != nil {
		return 0, err
	}
	var peak float64
	for _, v := range input {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	return peak, nil
}

func newLoudnessSuppressor() (noisesuppression.NoiseSuppression, error) {
	return &loudnessSuppressor{
		Dummy:     noisesuppression.Dummy{SampleRateValue: 16000},
		frameSize: 160,
	}, nil
}

// stickySuppressor keeps reporting voice once it heard anything loud,
// like a recurrent model whose state was not reset.
type stickySuppressor struct {
	loudnessSuppressor
	heard  bool
	closed *int
}

func (s *stickySuppressor) SuppressNoise(ctx context.Context, input []float32, outputVoice []float32) (float64, error) {
	peak, err := s.loudnessSuppressor.SuppressNoise(ctx, input, outputVoice)
	if err != nil {
		return 0, err
	}
	s.heard = s.heard || peak > 0.3
	if s.heard {
		return 1, nil
	}
	return peak, nil
}

func (s *stickySuppressor) Close() error {
	*s.closed++
	return nil
}

func TestVAD(t *testing.T) {
	ctx := context.Background()

	v, err := NewVAD(ctx, newLoudnessSuppressor, 20*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 320, v.ChunkSize)
	require.Equal(t, 20*time.Millisecond, v.ChunkDuration)

	t.Run("silence then voice", func(t *testing.T) {
		samples := make([]float32, 16000)
		for idx := 8000; idx < len(samples); idx++ {
			samples[idx] = 0.5
		}
		activity, err := v.DetectVoice(ctx, audio.NewWaveform(samples, 16000), 0.3)
		require.NoError(t, err)
		require.Equal(t, 500*time.Millisecond, activity.FirstVoice)
		require.Equal(t, 500*time.Millisecond, activity.Voice)
		require.Equal(t, time.Second, activity.Total)
		require.InDelta(t, 0.5, activity.MaxConfidence, 1e-6)
		require.InDelta(t, 0.5, activity.Ratio(), 1e-6)
	})

	t.Run("other sample rate", func(t *testing.T) {
		samples := make([]float32, 8000)
		for idx := range samples {
			samples[idx] = 0.5
		}
		activity, err := v.DetectVoice(ctx, audio.NewWaveform(samples, 8000), 0.3)
		require.NoError(t, err)
		require.Equal(t, time.Duration(0), activity.FirstVoice)
		require.Equal(t, time.Second, activity.Voice)
	})

	t.Run("silence", func(t *testing.T) {
		activity, err := v.DetectVoice(ctx, audio.NewWaveform(make([]float32, 1000), 16000), 0.3)
		require.NoError(t, err)
		require.Equal(t, time.Duration(-1), activity.FirstVoice)
		require.Zero(t, activity.Voice)
		require.Contains(t, activity.String(), "no voice")
	})
}

func TestVADFreshStatePerWaveform(t *testing.T) {
	ctx := context.Background()
	created, closed := 0, 0
	newSuppressor := func() (noisesuppression.NoiseSuppression, error) {
		created++
		return &stickySuppressor{
			loudnessSuppressor: loudnessSuppressor{
				Dummy:     noisesuppression.Dummy{SampleRateValue: 16000},
				frameSize: 160,
			},
			closed: &closed,
		}, nil
	}

	v, err := NewVAD(ctx, newSuppressor, 20*time.Millisecond)
	require.NoError(t, err)

	loud := make([]float32, 16000)
	for idx := range loud {
		loud[idx] = 0.5
	}
	activity, err := v.DetectVoice(ctx, audio.NewWaveform(loud, 16000), 0.3)
	require.NoError(t, err)
	require.Equal(t, time.Second, activity.Voice)

	activity, err = v.DetectVoice(ctx, audio.NewWaveform(make([]float32, 16000), 16000), 0.3)
	require.NoError(t, err)
	require.Equal(t, time.Duration(-1), activity.FirstVoice)
	require.Zero(t, activity.Voice)

	require.Equal(t, 3, created)
	require.Equal(t, created, closed)
}
