package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	noisesuppressiondenoiser "github.com/xaionaro-go/audioenhance/pkg/denoiser/implementations/noisesuppression"
	"github.com/xaionaro-go/audioenhance/pkg/device"
	"github.com/xaionaro-go/audioenhance/pkg/driver"
	"github.com/xaionaro-go/audioenhance/pkg/enhancer"
	_ "github.com/xaionaro-go/audioenhance/pkg/enhancer/implementations/resembleenhance"
	"github.com/xaionaro-go/audioenhance/pkg/noisesuppression"
	"github.com/xaionaro-go/audioenhance/pkg/noisesuppression/implementations/rnnoise"
	"github.com/xaionaro-go/audioenhance/pkg/syncer/implementations/gccphat"
	"github.com/xaionaro-go/audioenhance/pkg/vad"
	vadnoisesuppression "github.com/xaionaro-go/audioenhance/pkg/vad/implementations/noisesuppression"
	"github.com/xaionaro-go/observability"
)

const (
	denoiserRNNoise = rnnoise.Name
	vadGranularity  = 30 * time.Millisecond
)

func main() {
	cfg, err := parseConfig(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	l := logrus.Default().WithLevel(cfg.LoggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}

	if cfg.NetPprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(cfg.NetPprofAddr, nil)) })
	}

	err = run(ctx, cfg)
	if err != nil {
		logger.Error(ctx, err)
	}
	belt.Flush(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	dev := device.Select(ctx, cfg.Device, device.NvidiaSMI{})
	logger.Infof(ctx, "using device %s", dev)
	if !dev.IsAccelerator() {
		logger.Infof(ctx, "host: %s", device.DescribeHost(ctx))
	}

	backend, err := enhancer.New(ctx, cfg.Backend, enhancer.Config{
		ExecutablePath: cfg.ResembleEnhanceBin,
		Output:         os.Stderr,
	})
	if err != nil {
		return err
	}
	defer backend.Close()

	if cfg.Denoiser == denoiserRNNoise {
		suppressor, err := newRNNoise()
		if err != nil {
			return err
		}
		denoiser := noisesuppressiondenoiser.New(suppressor)
		defer denoiser.Close()
		backend = enhancer.WithDenoiser(backend, denoiser)
	}

	d := driver.New(backend, os.Stdout)
	if cfg.Report {
		d.Syncer = gccphat.NewSyncer()
		if v, err := newVAD(ctx); err != nil {
			logger.Debugf(ctx, "voice activity is not reported: %v", err)
		} else {
			defer v.Close()
			d.VAD = v
		}
	}

	_, err = d.Process(ctx, driver.Request{
		InputPath:          cfg.InputPath,
		OutputDenoisedPath: cfg.OutputDenoisedPath,
		OutputEnhancedPath: cfg.OutputEnhancedPath,
		Params:             cfg.Params,
		Device:             dev,
		BitDepth:           cfg.BitDepth,
		Report:             cfg.Report,
	})
	return err
}

func newVAD(ctx context.Context) (vad.VAD, error) {
	return vadnoisesuppression.NewVAD(ctx, newRNNoise, vadGranularity)
}

func newRNNoise() (noisesuppression.NoiseSuppression, error) {
	suppressor, err := rnnoise.New()
	if err != nil {
		return nil, fmt.Errorf("unable to initialize %s: %w", rnnoise.Name, err)
	}
	return suppressor, nil
}
