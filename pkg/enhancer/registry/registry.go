package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/xaionaro-go/audioenhance/pkg/enhancer/types"
)

var ErrNotFound = errors.New("backend not found")

// PriorityManualOnly marks a factory that is never picked automatically,
// only when requested by name.
const PriorityManualOnly = -1

type EnhancerFactory interface {
	Name() string
	NewEnhancer(types.Config) (types.Enhancer, error)
}

type factoryWithPriority struct {
	Priority int
	EnhancerFactory
}

var (
	factoryRegistryLocker sync.Mutex
	factoryRegistry       = map[string]factoryWithPriority{}
)

func RegisterEnhancerFactory(
	priority int,
	factory EnhancerFactory,
) {
	factoryRegistryLocker.Lock()
	defer factoryRegistryLocker.Unlock()

	name := factory.Name()
	if _, ok := factoryRegistry[name]; ok {
		panic(fmt.Errorf("there is already registered a factory of Enhancer with name '%s'", name))
	}
	factoryRegistry[name] = factoryWithPriority{
		Priority:        priority,
		EnhancerFactory: factory,
	}
}

// EnhancerFactories returns the automatically selectable factories,
// the highest priority first.
func EnhancerFactories() []EnhancerFactory {
	factoryRegistryLocker.Lock()
	defer factoryRegistryLocker.Unlock()

	var factoriesWithPriorities []factoryWithPriority
	for _, factory := range factoryRegistry {
		if factory.Priority < 0 {
			continue
		}
		factoriesWithPriorities = append(factoriesWithPriorities, factory)
	}
	sort.Slice(factoriesWithPriorities, func(i, j int) bool {
		if factoriesWithPriorities[i].Priority != factoriesWithPriorities[j].Priority {
			return factoriesWithPriorities[i].Priority > factoriesWithPriorities[j].Priority
		}
		return factoriesWithPriorities[i].Name() < factoriesWithPriorities[j].Name()
	})

	var factories []EnhancerFactory
	for _, factory := range factoriesWithPriorities {
		factories = append(factories, factory.EnhancerFactory)
	}

	return factories
}

func GetEnhancerFactory(name string) (EnhancerFactory, error) {
	factoryRegistryLocker.Lock()
	defer factoryRegistryLocker.Unlock()

	factory, ok := factoryRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s' (known: %v)", ErrNotFound, name, namesLocked())
	}
	return factory.EnhancerFactory, nil
}

func Names() []string {
	factoryRegistryLocker.Lock()
	defer factoryRegistryLocker.Unlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(factoryRegistry))
	for name := range factoryRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
