// Package driver implements the straight-line process of the command:
// validate the input, load it, denoise, enhance and store both results.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/audioenhance/pkg/analysis"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/audio/audiofile"
	"github.com/xaionaro-go/audioenhance/pkg/device"
	"github.com/xaionaro-go/audioenhance/pkg/enhancer"
	"github.com/xaionaro-go/audioenhance/pkg/syncer"
	"github.com/xaionaro-go/audioenhance/pkg/vad"
)

const (
	DefaultOutputDenoised = "output_denoised.wav"
	DefaultOutputEnhanced = "output_enhanced.wav"
)

type Request struct {
	InputPath          string
	OutputDenoisedPath string
	OutputEnhancedPath string

	Params enhancer.Params
	Device device.Device

	// BitDepth of the output WAV files; zero means audiofile.DefaultBitDepth.
	BitDepth int

	// Report enables logging of signal statistics of the input and the outputs.
	Report bool
}

type Output struct {
	Path       string
	SampleRate audio.SampleRate
	Samples    int
}

type Result struct {
	// InputMissing is set when the input is not a regular file;
	// nothing was produced in that case.
	InputMissing bool

	Denoised Output
	Enhanced Output
}

type Driver struct {
	Enhancer enhancer.Enhancer

	// Stdout receives the user-facing report lines.
	Stdout io.Writer

	// Syncer and VAD are optional and only used for the report.
	Syncer syncer.Syncer
	VAD    vad.VAD
}

func New(e enhancer.Enhancer, stdout io.Writer) *Driver {
	if stdout == nil {
		stdout = io.Discard
	}
	return &Driver{
		Enhancer: e,
		Stdout:   stdout,
	}
}

func (d *Driver) Process(
	ctx context.Context,
	req Request,
) (_ret *Result, _err error) {
	logger.Debugf(ctx, "Process(%#+v)", req)
	defer func() { logger.Debugf(ctx, "/Process: %#+v %v", _ret, _err) }()

	if !isRegularFile(req.InputPath) {
		fmt.Fprintf(d.Stdout, "Input file %s does not exist.\n", req.InputPath)
		return &Result{InputMissing: true}, nil
	}

	if err := req.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid enhancement parameters: %w", err)
	}
	if !req.Params.TauInRange() {
		logger.Warnf(ctx, "the prior temperature %g is outside of the intended range [0, 1]", req.Params.Tau)
	}
	bitDepth := req.BitDepth
	if bitDepth == 0 {
		bitDepth = audiofile.DefaultBitDepth
	}
	if err := audiofile.ValidateBitDepth(bitDepth); err != nil {
		return nil, err
	}

	input, err := audiofile.Load(ctx, req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load the input: %w", err)
	}
	logger.Infof(ctx, "loaded '%s': %v", req.InputPath, input)

	logger.Infof(ctx, "denoising on %s", req.Device)
	denoised, err := d.Enhancer.Denoise(ctx, input, req.Device)
	if err != nil {
		return nil, fmt.Errorf("unable to denoise: %w", err)
	}

	logger.Infof(ctx, "enhancing on %s (%v)", req.Device, req.Params)
	enhanced, err := d.Enhancer.Enhance(ctx, input, req.Device, req.Params)
	if err != nil {
		return nil, fmt.Errorf("unable to enhance: %w", err)
	}

	if req.Report {
		d.report(ctx, input, denoised, enhanced)
	}

	if err := audiofile.Save(ctx, req.OutputDenoisedPath, denoised, bitDepth); err != nil {
		return nil, fmt.Errorf("unable to save the denoised audio: %w", err)
	}
	if err := audiofile.Save(ctx, req.OutputEnhancedPath, enhanced, bitDepth); err != nil {
		return nil, fmt.Errorf("unable to save the enhanced audio: %w", err)
	}
	fmt.Fprintf(d.Stdout, "Denoised audio saved to %s\n", req.OutputDenoisedPath)
	fmt.Fprintf(d.Stdout, "Enhanced audio saved to %s\n", req.OutputEnhancedPath)

	return &Result{
		Denoised: Output{
			Path:       req.OutputDenoisedPath,
			SampleRate: denoised.SampleRate,
			Samples:    denoised.Len(),
		},
		Enhanced: Output{
			Path:       req.OutputEnhancedPath,
			SampleRate: enhanced.SampleRate,
			Samples:    enhanced.Len(),
		},
	}, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func (d *Driver) report(
	ctx context.Context,
	input, denoised, enhanced audio.Waveform,
) {
	names := []string{"input", "denoised", "enhanced"}
	waveforms := []audio.Waveform{input, denoised, enhanced}
	for idx, w := range waveforms {
		stats, err := analysis.Analyze(w)
		if err != nil {
			logger.Warnf(ctx, "unable to analyze the %s audio: %v", names[idx], err)
			continue
		}
		logger.Infof(ctx, "%s: %v", names[idx], stats)
	}

	if d.Syncer != nil {
		shifts, err := d.Syncer.CalculateShiftBetween(ctx, input, denoised, enhanced)
		if err != nil {
			logger.Warnf(ctx, "unable to estimate the shift of the outputs: %v", err)
		} else {
			for idx, shift := range shifts {
				logger.Infof(ctx, "%s vs input: %v, %v", names[idx+1], shift, shift.Duration(input.SampleRate))
			}
		}
	}

	if d.VAD != nil {
		for idx, w := range waveforms {
			activity, err := d.VAD.DetectVoice(ctx, w, vad.DefaultConfidenceThreshold)
			if err != nil {
				logger.Warnf(ctx, "unable to detect voice in the %s audio: %v", names[idx], err)
				continue
			}
			logger.Infof(ctx, "%s: %v", names[idx], activity)
		}
	}
}
