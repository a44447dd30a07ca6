// Package notify lets other systems learn about finished syncs.
// Drivers register themselves from init() and are selected by name
// from the configuration.
package notify

import (
	"github.com/hashicorp/go-hclog"
)

var (
	log hclog.Logger

	initcallbacks []func()

	factories map[string]Factory
)

func init() {
	factories = make(map[string]Factory)
	log = hclog.L()
}

// SetLogger injects a logger into this package to allow setting up a
// logger tree.
func SetLogger(l hclog.Logger) {
	log = l.Named("notify")
}

// RegisterInitCallback allows a driver to defer registration until
// logging is configured.
func RegisterInitCallback(f func()) {
	initcallbacks = append(initcallbacks, f)
}

// DoCallbacks invokes all callbacks so that drivers add themselves
// to the map of factories.
func DoCallbacks() {
	for _, cb := range initcallbacks {
		cb()
	}
	initcallbacks = nil
}

// RegisterFactory stores the factory at the given name.  All drivers
// are compiled in, so a collision is a programming error and the
// later one is ignored.
func RegisterFactory(name string, f Factory) {
	if _, ok := factories[name]; ok {
		log.Warn("Notifier name collision", "notifier", name)
		return
	}
	factories[name] = f
	log.Debug("Registered notifier", "notifier", name)
}

// Construct initializes the named notifier for dest.
func Construct(name, dest string) (Notifier, error) {
	f, ok := factories[name]
	if !ok {
		log.Warn("Tried to initialize with bogus notifier name", "name", name)
		return nil, NewErrUnknownNotifier(name)
	}
	return f(log, dest)
}
