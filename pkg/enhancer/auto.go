package enhancer

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/audioenhance/pkg/enhancer/registry"
)

// New initializes the backend with the given name, or picks one
// automatically if the name is empty.
func New(
	ctx context.Context,
	name string,
	cfg Config,
) (Enhancer, error) {
	if name == "" {
		return NewAuto(ctx, cfg)
	}

	factory, err := registry.GetEnhancerFactory(name)
	if err != nil {
		return nil, err
	}
	e, err := factory.NewEnhancer(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize backend '%s': %w", name, err)
	}
	if err := e.Ping(ctx); err != nil {
		e.Close()
		return nil, fmt.Errorf("backend '%s' is not usable: %w", name, err)
	}
	return e, nil
}

// NewAuto returns the highest priority backend that initializes and pings.
func NewAuto(
	ctx context.Context,
	cfg Config,
) (Enhancer, error) {
	return newAuto(ctx, cfg, registry.EnhancerFactories())
}

func newAuto(
	ctx context.Context,
	cfg Config,
	factories []registry.EnhancerFactory,
) (Enhancer, error) {
	var mErr *multierror.Error
	for _, factory := range factories {
		e, err := factory.NewEnhancer(cfg)
		logger.Debugf(ctx, "initializing backend '%s' result is %v", factory.Name(), err)
		if err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to initialize '%s': %w", factory.Name(), err))
			continue
		}

		err = e.Ping(ctx)
		logger.Debugf(ctx, "pinging backend '%s' result is %v", factory.Name(), err)
		if err != nil {
			e.Close()
			mErr = multierror.Append(mErr, fmt.Errorf("unable to ping '%s': %w", factory.Name(), err))
			continue
		}

		return e, nil
	}

	if err := mErr.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("was unable to initialize any enhancement backend: %w", err)
	}
	return nil, fmt.Errorf("no enhancement backend is registered")
}
