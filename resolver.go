package embres

import "sync"

// Resolver supplies the modules searched by calls that do not name any modules.
type Resolver interface {
	Modules() []Module
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func() []Module

// Modules calls f.
func (f ResolverFunc) Modules() []Module {
	return f()
}

// Registry is a Resolver holding explicitly registered modules,
// followed by the attachments of the running executable if it carries any.
type Registry struct {
	mu      sync.RWMutex
	modules []Module

	exeOnce sync.Once
	exe     Module
	openExe func() (*Attachments, error)
}

// NewRegistry returns an empty registry that also searches the running executable's attachments.
func NewRegistry() *Registry {
	return &Registry{openExe: Open}
}

// Register appends a module to the registry.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns the registered modules in registration order,
// followed by the executable's attachments.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	modules := make([]Module, len(r.modules), len(r.modules)+1)
	copy(modules, r.modules)
	r.mu.RUnlock()

	if exe := r.executable(); exe != nil {
		modules = append(modules, exe)
	}
	return modules
}

// executable opens the executable's attachments once and keeps them open.
// Returns nil if the executable cannot be read or has no attachments.
func (r *Registry) executable() Module {
	r.exeOnce.Do(func() {
		if r.openExe == nil {
			return
		}
		att, err := r.openExe()
		if err != nil {
			return
		}
		if att.Count() == 0 {
			_ = att.Close()
			return
		}
		r.exe = att
	})
	return r.exe
}

var (
	defaultRegistry = NewRegistry()
	std             = &Lookup{Resolver: defaultRegistry}
)

// Register adds a module to the default module set, usually from an init function:
//
//	//go:embed assets
//	var assets embed.FS
//
//	func init() {
//		embres.Register(embres.NewFSModule("MyApp", assets))
//	}
func Register(m Module) {
	defaultRegistry.Register(m)
}

// Default returns the Lookup used by the package-level functions.
func Default() *Lookup {
	return std
}

// SetResolver replaces the resolver used by the package-level functions.
// Passing nil restores the default registry.
// SetResolver must not be called concurrently with lookups; call it during initialization.
func SetResolver(r Resolver) {
	if r == nil {
		r = defaultRegistry
	}
	std.Resolver = r
}
