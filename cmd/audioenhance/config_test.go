package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/audioenhance/pkg/device"
	"github.com/xaionaro-go/audioenhance/pkg/enhancer"
)

func TestParseConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := parseConfig("audioenhance", []string{"--input", "sample.wav"}, io.Discard)
		require.NoError(t, err)
		require.Equal(t, "sample.wav", cfg.InputPath)
		require.Equal(t, "output_denoised.wav", cfg.OutputDenoisedPath)
		require.Equal(t, "output_enhanced.wav", cfg.OutputEnhancedPath)
		require.Equal(t, enhancer.Params{
			Solver: enhancer.SolverMidpoint,
			NFE:    64,
			Lambd:  0.1,
			Tau:    0.5,
		}, cfg.Params)
		require.Equal(t, device.SelectionAuto, cfg.Device)
		require.Equal(t, 16, cfg.BitDepth)
		require.Empty(t, cfg.Backend)
	})

	t.Run("solver casing", func(t *testing.T) {
		for _, solver := range []string{"Midpoint", "midpoint", "MIDPOINT"} {
			cfg, err := parseConfig("audioenhance", []string{"--input", "a.wav", "--solver", solver}, io.Discard)
			require.NoError(t, err, solver)
			require.Equal(t, enhancer.SolverMidpoint, cfg.Params.Solver)
		}
		cfg, err := parseConfig("audioenhance", []string{"--input", "a.wav", "--solver", "RK4"}, io.Discard)
		require.NoError(t, err)
		require.Equal(t, enhancer.SolverRK4, cfg.Params.Solver)
	})

	t.Run("denoising", func(t *testing.T) {
		cfg, err := parseConfig("audioenhance", []string{"--input", "a.wav", "--denoising", "--nfe", "32", "--tau", "0.7", "--device", "CPU"}, io.Discard)
		require.NoError(t, err)
		require.Equal(t, 0.9, cfg.Params.Lambd)
		require.Equal(t, 32, cfg.Params.NFE)
		require.Equal(t, 0.7, cfg.Params.Tau)
		require.Equal(t, device.SelectionCPU, cfg.Device)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, args := range [][]string{
			{},
			{"--input", "a.wav", "--solver", "heun"},
			{"--input", "a.wav", "--nfe", "many"},
			{"--input", "a.wav", "--nfe", "0"},
			{"--input", "a.wav", "--device", "tpu"},
			{"--input", "a.wav", "--bit-depth", "8"},
			{"--input", "a.wav", "--denoiser", "speex"},
		} {
			_, err := parseConfig("audioenhance", args, io.Discard)
			require.Error(t, err, args)
		}
	})
}

func TestParseConfigReportsOnce(t *testing.T) {
	t.Run("parse error", func(t *testing.T) {
		var out bytes.Buffer
		_, err := parseConfig("audioenhance", []string{"--input", "a.wav", "--solver", "heun"}, &out)
		require.Error(t, err)
		require.Equal(t, 1, strings.Count(out.String(), err.Error()), out.String())
		require.Equal(t, 1, strings.Count(out.String(), "Usage of audioenhance:"), out.String())
	})

	t.Run("missing input", func(t *testing.T) {
		var out bytes.Buffer
		_, err := parseConfig("audioenhance", nil, &out)
		require.Error(t, err)
		require.Equal(t, 1, strings.Count(out.String(), "--input is required"), out.String())
		require.Contains(t, out.String(), "Usage of audioenhance:")
		require.Contains(t, out.String(), "--output-denoised")
	})

	t.Run("help", func(t *testing.T) {
		var out bytes.Buffer
		_, err := parseConfig("audioenhance", []string{"--help"}, &out)
		require.ErrorIs(t, err, pflag.ErrHelp)
		require.Equal(t, 1, strings.Count(out.String(), "Usage of audioenhance:"), out.String())
	})
}
