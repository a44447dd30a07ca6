package storage

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
)

var (
	log hclog.Logger

	initcallbacks []func()

	factories map[string]Factory
)

// A Factory opens a store.  Drivers read their own settings from the
// environment so that the registry stays agnostic of them.
type Factory func(hclog.Logger) (Storage, error)

// ErrUnknownStore is returned when a store is requested that no
// driver registered.
type ErrUnknownStore struct {
	attempted string
}

func (e ErrUnknownStore) Error() string {
	return "no store named " + e.attempted + " (have: " + strings.Join(Names(), ", ") + ")"
}

func init() {
	factories = make(map[string]Factory)
	log = hclog.L()
}

// SetLogger injects a logger into this package to allow setting up a
// logger tree.
func SetLogger(l hclog.Logger) {
	log = l.Named("storage")
}

// RegisterCallback lets a driver defer registering itself until
// logging is set up.  Drivers call this from init().
func RegisterCallback(f func()) {
	initcallbacks = append(initcallbacks, f)
}

// DoCallbacks runs every deferred registration.  Call it once after
// SetLogger and before Initialize.
func DoCallbacks() {
	for _, cb := range initcallbacks {
		cb()
	}
	initcallbacks = nil
}

// RegisterFactory makes a driver available under name.  The first
// registration of a name wins.
func RegisterFactory(name string, f Factory) {
	if _, exists := factories[name]; exists {
		log.Warn("Store name collision", "store", name)
		return
	}
	factories[name] = f
	log.Debug("Registered store", "store", name)
}

// Names lists the registered drivers.
func Names() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Initialize opens the named store.
func Initialize(name string) (Storage, error) {
	f, ok := factories[name]
	if !ok {
		log.Error("Non-existent store requested", "store", name)
		return nil, ErrUnknownStore{name}
	}
	return f(log)
}
