package provider

import "fmt"

// Factory creates a backup service instance from opaque config
// (service-specific).
type Factory func(any) (BackupService, error)

var registry = map[string]Factory{}

// Register binds a service name to its factory.
func Register(name string, f Factory) {
	registry[name] = f
}

// New returns a backup service instance by name.
func New(name string, cfg any) (BackupService, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("backup service not found: %s", name)
	}
	return f(cfg)
}
