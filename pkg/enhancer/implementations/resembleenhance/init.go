package resembleenhance

import (
	"github.com/xaionaro-go/audioenhance/pkg/enhancer/registry"
	"github.com/xaionaro-go/audioenhance/pkg/enhancer/types"
)

const (
	Name     = "resemble-enhance"
	Priority = 100
)

func init() {
	registry.RegisterEnhancerFactory(Priority, Factory{})
}

type Factory struct{}

func (Factory) Name() string {
	return Name
}

func (Factory) NewEnhancer(cfg types.Config) (types.Enhancer, error) {
	return New(cfg), nil
}
