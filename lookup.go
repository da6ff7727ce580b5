package embres

import (
	"io"
	"slices"
	"strings"

	"github.com/maja42/embres/internal"
)

// Lookup answers name and stream queries over a set of modules.
// Calls that pass no modules search Resolver's modules instead.
// Lookup holds no state besides the resolver; every query reads the modules' current contents.
type Lookup struct {
	Resolver Resolver
}

func (l *Lookup) modules(modules []Module) []Module {
	if len(modules) > 0 {
		return modules
	}
	if l.Resolver == nil {
		return nil
	}
	return l.Resolver.Modules()
}

// ListNames appends the names of all resources to out and returns the extended slice.
// Names are listed per module, in module order. Duplicates across modules are kept so callers can detect collisions.
// Blank names are skipped. If fullyQualified is false, each name is replaced by its unqualified form;
// names that cannot be unqualified are dropped.
func (l *Lookup) ListNames(out []string, fullyQualified bool, modules ...Module) []string {
	return listNames(out, fullyQualified, l.modules(modules))
}

func listNames(out []string, fullyQualified bool, modules []Module) []string {
	if out == nil {
		out = []string{}
	}
	for _, m := range modules {
		for _, name := range m.List() {
			if internal.IsBlankName(name) {
				continue
			}
			if !fullyQualified {
				short, ok := Unqualify(name)
				if !ok {
					continue
				}
				name = short
			}
			out = append(out, name)
		}
	}
	return out
}

// Count returns the number of fully qualified resource names, which bounds the indices accepted by StreamAt.
func (l *Lookup) Count(modules ...Module) int {
	return len(l.ListNames(nil, true, modules...))
}

// FullyQualifiedName returns the first fully qualified name whose unqualified form equals short.
func (l *Lookup) FullyQualifiedName(short string, modules ...Module) (string, bool) {
	return fullyQualifiedName(short, l.modules(modules))
}

func fullyQualifiedName(short string, modules []Module) (string, bool) {
	for _, name := range listNames(nil, true, modules) {
		if u, ok := Unqualify(name); ok && u == short {
			return name, true
		}
	}
	return "", false
}

// StreamAt opens the resource at the given position of the fully qualified listing.
// Returns an *IndexError if index does not address a listed resource.
// The caller must close the returned stream.
func (l *Lookup) StreamAt(index int, modules ...Module) (io.ReadCloser, error) {
	modules = l.modules(modules)
	names := listNames(nil, true, modules)
	if index < 0 || index >= len(names) {
		return nil, &IndexError{Index: index, Count: len(names)}
	}
	return fetch(names[index], modules)
}

// Stream opens the resource with the given unqualified name.
// Returns nil (and no error) if the name does not resolve to any resource.
// The caller must close the returned stream.
func (l *Lookup) Stream(name string, modules ...Module) (io.ReadCloser, error) {
	modules = l.modules(modules)
	fq, ok := fullyQualifiedName(name, modules)
	if !ok {
		return nil, nil
	}
	return fetch(fq, modules)
}

// fetch opens the resource with the exact name from the first module listing it.
func fetch(name string, modules []Module) (io.ReadCloser, error) {
	for _, m := range modules {
		if !slices.Contains(m.List(), name) {
			continue
		}
		return m.Open(name)
	}
	return nil, nil
}

// Unqualify returns the short name of a fully qualified resource name:
// the segment in front of the extension.
//
//	"App.Assets.Icon.png" -> "Icon"
//	"App.Readme.txt"      -> "Readme"
//	"Readme.txt"          -> not ok
//	"Readme"              -> "Readme"
//
// Blank names are not ok.
func Unqualify(name string) (string, bool) {
	if internal.IsBlankName(name) {
		return "", false
	}
	if !strings.Contains(name, ".") { // already unqualified
		return name, true
	}

	name = strings.TrimRight(name, ".")
	if internal.IsBlankName(name) {
		return "", false
	}
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return "", false
	}
	name = name[:idx] // extension

	if internal.IsBlankName(name) {
		return "", false
	}
	idx = strings.LastIndexByte(name, '.')
	if idx < 0 { // nothing left to strip
		return "", false
	}
	return name[idx+1:], true
}

// ListNames lists the resource names of the given modules, or of the default modules if none are given.
// See Lookup.ListNames.
func ListNames(out []string, fullyQualified bool, modules ...Module) []string {
	return std.ListNames(out, fullyQualified, modules...)
}

// Count returns the number of resources in the given or default modules.
func Count(modules ...Module) int {
	return std.Count(modules...)
}

// FullyQualifiedName resolves an unqualified name within the given or default modules.
// See Lookup.FullyQualifiedName.
func FullyQualifiedName(short string, modules ...Module) (string, bool) {
	return std.FullyQualifiedName(short, modules...)
}

// StreamAt opens a resource by index within the given or default modules.
// See Lookup.StreamAt.
func StreamAt(index int, modules ...Module) (io.ReadCloser, error) {
	return std.StreamAt(index, modules...)
}

// Stream opens a resource by unqualified name within the given or default modules.
// See Lookup.Stream.
func Stream(name string, modules ...Module) (io.ReadCloser, error) {
	return std.Stream(name, modules...)
}
