// Package resembleenhance drives the `resemble-enhance` command line tool,
// which wraps the pretrained denoiser and the diffusion-based enhancer.
package resembleenhance

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/audioenhance/pkg/audio"
	"github.com/xaionaro-go/audioenhance/pkg/audio/audiofile"
	"github.com/xaionaro-go/audioenhance/pkg/device"
	"github.com/xaionaro-go/audioenhance/pkg/enhancer/types"
)

const (
	DefaultExecutable = "resemble-enhance"

	inputFileName = "input.wav"

	// the tool decodes with torchaudio, so 32-bit PCM keeps the precision
	// of the float samples
	intermediateBitDepth = 32
)

type ResembleEnhance struct {
	ExecutablePath string
	Output         io.Writer
}

var _ types.Enhancer = (*ResembleEnhance)(nil)

func New(cfg types.Config) *ResembleEnhance {
	e := &ResembleEnhance{
		ExecutablePath: cfg.ExecutablePath,
		Output:         cfg.Output,
	}
	if e.ExecutablePath == "" {
		e.ExecutablePath = DefaultExecutable
	}
	return e
}

func (e *ResembleEnhance) Close() error {
	return nil
}

func (e *ResembleEnhance) Ping(context.Context) error {
	if _, err := exec.LookPath(e.ExecutablePath); err != nil {
		return fmt.Errorf("'%s' not found in PATH: %w", e.ExecutablePath, err)
	}
	return nil
}

func (e *ResembleEnhance) Denoise(
	ctx context.Context,
	input audio.Waveform,
	dev device.Device,
) (_ret audio.Waveform, _err error) {
	logger.Debugf(ctx, "Denoise(%v, %v)", input, dev)
	defer func() { logger.Debugf(ctx, "/Denoise(%v, %v): %v %v", input, dev, _ret, _err) }()

	return e.run(ctx, input, dev, "--denoise_only")
}

func (e *ResembleEnhance) Enhance(
	ctx context.Context,
	input audio.Waveform,
	dev device.Device,
	params types.Params,
) (_ret audio.Waveform, _err error) {
	logger.Debugf(ctx, "Enhance(%v, %v, %v)", input, dev, params)
	defer func() { logger.Debugf(ctx, "/Enhance(%v, %v, %v): %v %v", input, dev, params, _ret, _err) }()

	if err := params.Validate(); err != nil {
		return audio.Waveform{}, err
	}
	return e.run(ctx, input, dev, paramsArgs(params)...)
}

func paramsArgs(params types.Params) []string {
	return []string{
		"--solver", string(params.Solver),
		"--nfe", strconv.Itoa(params.NFE),
		"--lambd", strconv.FormatFloat(params.Lambd, 'f', -1, 64),
		"--tau", strconv.FormatFloat(params.Tau, 'f', -1, 64),
	}
}

func (e *ResembleEnhance) run(
	ctx context.Context,
	input audio.Waveform,
	dev device.Device,
	extraArgs ...string,
) (audio.Waveform, error) {
	if err := input.Validate(); err != nil {
		return audio.Waveform{}, fmt.Errorf("invalid input: %w", err)
	}

	workDir, err := os.MkdirTemp("", "audioenhance-*")
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to create a temporary directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warnf(ctx, "unable to remove '%s': %v", workDir, err)
		}
	}()

	inDir := filepath.Join(workDir, "in")
	outDir := filepath.Join(workDir, "out")
	for _, dir := range []string{inDir, outDir} {
		if err := os.Mkdir(dir, 0755); err != nil {
			return audio.Waveform{}, fmt.Errorf("unable to create '%s': %w", dir, err)
		}
	}

	if err := audiofile.Save(ctx, filepath.Join(inDir, inputFileName), input, intermediateBitDepth); err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to store the input: %w", err)
	}

	args := append([]string{inDir, outDir, "--device", dev.String()}, extraArgs...)
	cmd := exec.CommandContext(ctx, e.ExecutablePath, args...)
	output := e.Output
	if output == nil {
		output = io.Discard
	}
	cmd.Stdout = output
	cmd.Stderr = output
	logger.Debugf(ctx, "running %s", cmd.String())
	if err := cmd.Run(); err != nil {
		return audio.Waveform{}, fmt.Errorf("'%s' failed: %w", cmd.String(), err)
	}

	resultPath, err := findResult(outDir)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to find the result: %w", err)
	}
	result, err := audiofile.Load(ctx, resultPath)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to load the result: %w", err)
	}
	return result, nil
}

// findResult returns the file the tool produced for our single input;
// the tool mirrors the input layout, but any single output file is accepted.
func findResult(outDir string) (string, error) {
	expected := filepath.Join(outDir, inputFileName)
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}

	var found []string
	err := filepath.WalkDir(outDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(found) != 1 {
		return "", fmt.Errorf("expected exactly one output file in '%s', found %d", outDir, len(found))
	}
	return found[0], nil
}
