package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/audioenhance/pkg/audio/audiofile"
	"github.com/xaionaro-go/audioenhance/pkg/device"
	"github.com/xaionaro-go/audioenhance/pkg/driver"
	"github.com/xaionaro-go/audioenhance/pkg/enhancer"
	"github.com/xaionaro-go/audioenhance/pkg/enhancer/types"
)

type config struct {
	InputPath          string
	OutputDenoisedPath string
	OutputEnhancedPath string

	Params   enhancer.Params
	Device   device.Selection
	BitDepth int
	Report   bool

	Backend            string
	Denoiser           string
	ResembleEnhanceBin string

	LoggerLevel  logger.Level
	NetPprofAddr string
}

func newFlagSet(name string) (*pflag.FlagSet, func() (config, error)) {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)

	cfg := config{
		LoggerLevel: logger.LevelInfo,
	}
	solver := types.DefaultSolver
	flags.Var(&cfg.LoggerLevel, "log-level", "Log level")
	flags.StringVar(&cfg.InputPath, "input", "", "path to the input audio file (WAV or OGG/Vorbis)")
	flags.StringVar(&cfg.OutputDenoisedPath, "output-denoised", driver.DefaultOutputDenoised, "path to the denoised output")
	flags.StringVar(&cfg.OutputEnhancedPath, "output-enhanced", driver.DefaultOutputEnhanced, "path to the enhanced output")
	flags.Var(&solver, "solver", "ODE solver: Midpoint, RK4 or Euler (case-insensitive)")
	nfe := flags.String("nfe", strconv.Itoa(types.DefaultNFE), "number of function evaluations")
	tau := flags.Float64("tau", types.DefaultTau, "prior temperature, intended range [0, 1]")
	denoising := flags.Bool("denoising", false, "denoise before enhancing (lambd 0.9 instead of 0.1)")
	dev := flags.String("device", string(device.SelectionAuto), "compute device: auto, cuda or cpu")
	flags.StringVar(&cfg.Backend, "backend", "", "enhancement backend name (empty picks automatically)")
	flags.StringVar(&cfg.Denoiser, "denoiser", "", "replace the denoising pass of the backend: '' or 'rnnoise'")
	flags.StringVar(&cfg.ResembleEnhanceBin, "resemble-enhance-bin", "resemble-enhance", "path to the resemble-enhance executable")
	flags.IntVar(&cfg.BitDepth, "bit-depth", audiofile.DefaultBitDepth, "bit depth of the output WAV files: 16, 24 or 32")
	flags.BoolVar(&cfg.Report, "report", false, "log signal statistics of the input and the outputs")
	flags.StringVar(&cfg.NetPprofAddr, "net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")

	return flags, func() (config, error) {
		if cfg.InputPath == "" {
			return config{}, fmt.Errorf("flag --input is required")
		}
		nfeValue, err := types.NFEFromString(*nfe)
		if err != nil {
			return config{}, err
		}
		cfg.Params, err = enhancer.NewParams(string(solver), nfeValue, *tau, *denoising)
		if err != nil {
			return config{}, err
		}
		cfg.Device, err = device.ParseSelection(*dev)
		if err != nil {
			return config{}, err
		}
		if err := audiofile.ValidateBitDepth(cfg.BitDepth); err != nil {
			return config{}, err
		}
		switch cfg.Denoiser {
		case "", denoiserRNNoise:
		default:
			return config{}, fmt.Errorf("unknown denoiser '%s', expected '' or '%s'", cfg.Denoiser, denoiserRNNoise)
		}
		return cfg, nil
	}
}

// parseConfig reports a problem together with the usage to output, once.
func parseConfig(name string, args []string, output io.Writer) (config, error) {
	flags, finalize := newFlagSet(name)
	flags.SetOutput(io.Discard)
	usage := func() {
		fmt.Fprintf(output, "Usage of %s:\n%s", name, flags.FlagUsages())
	}

	err := flags.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		usage()
		return config{}, err
	}
	var cfg config
	if err == nil {
		cfg, err = finalize()
	}
	if err != nil {
		fmt.Fprintf(output, "%v\n", err)
		usage()
		return config{}, err
	}
	return cfg, nil
}
