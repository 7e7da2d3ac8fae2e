//go:build linux || darwin

package dynamics

import (
	"fmt"
	"path/filepath"
	"plugin"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vle-sim/vle/simulator"
)

// SharedLibraryResolver implements the shared-library resolution mode of
//: compose a path under pkgsRoot, open it with the standard
// plugin package, check the version symbol, then look up a factory
// symbol. Opened handles are cached by absolute path so duplicate opens
// are deduplicated ; the cache is released wholesale at
// kernel teardown by discarding the resolver.
type SharedLibraryResolver struct {
	pkgsRoot string

	mu sync.Mutex
	plugins map[string]*plugin.Plugin
}

// NewSharedLibraryResolver constructs a resolver rooted at pkgsRoot, the
// `$HOME/pkgs` (or `$VLE_HOME/pkgs`) directory
func NewSharedLibraryResolver(pkgsRoot string) *SharedLibraryResolver {
	return &SharedLibraryResolver{pkgsRoot: pkgsRoot, plugins: make(map[string]*plugin.Plugin)}
}

// libraryPath composes the filesystem path for a (package, library,
// simulator|output) triple
func (r *SharedLibraryResolver) libraryPath(pkg, library, category string) string {
	return filepath.Join(r.pkgsRoot, pkg, "plugins", category, "lib"+library+".so")
}

func (r *SharedLibraryResolver) open(path string) (*plugin.Plugin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.plugins[path]; ok {
		return p, nil
	}
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileMissing, path, err)
	}
	r.plugins[path] = p
	return p, nil
}

func (r *SharedLibraryResolver) checkVersion(p *plugin.Plugin, path string) error {
	sym, err := p.Lookup("VleAPILevel")
	if err != nil {
		return fmt.Errorf("%w: %s", ErrVersionMissing, path)
	}
	levelFn, ok := sym.(func() (int, int, int))
	if !ok {
		return fmt.Errorf("%w: %s: VleAPILevel", ErrWrongFactoryShape, path)
	}
	major, minor, patch := levelFn()
	if major != ABI.Major || minor != ABI.Minor {
		return fmt.Errorf("%w: %s: plugin is v%d.%d.%d, kernel is v%d.%d.%d",
			ErrABIMismatch, path, major, minor, patch, ABI.Major, ABI.Minor, ABI.Patch)
	}
	if patch != ABI.Patch {
		logrus.Warnf("dynamics: %s: plugin patch level %d differs from kernel patch level %d", path, patch, ABI.Patch)
	}
	return nil
}

var dynamicsSymbols = []struct {
	name string
	kind Kind
}{
	{"VleMakeNewDynamics", KindDynamics},
	{"VleMakeNewExecutive", KindExecutive},
	{"VleMakeNewDynamicsWrapper", KindDynamicsWrapper},
}

// Resolve opens <pkgsRoot>/<package>/plugins/simulator/lib<library>.so,
// verifies its ABI level, then looks up whichever factory symbol is
// present first among VleMakeNewDynamics / …Executive / …DynamicsWrapper
// — the first one found wins and reclassifies the kind ,
// regardless of what ref.Kind requested.
func (r *SharedLibraryResolver) Resolve(ref Reference) (Factory, Kind, error) {
	path := r.libraryPath(ref.Package, ref.Library, "simulator")
	p, err := r.open(path)
	if err != nil {
		return nil, 0, err
	}
	if err := r.checkVersion(p, path); err != nil {
		return nil, 0, err
	}
	for _, candidate := range dynamicsSymbols {
		sym, err := p.Lookup(candidate.name)
		if err != nil {
			continue
		}
		f, ok := adaptFactorySymbol(sym)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s: %s", ErrWrongFactoryShape, path, candidate.name)
		}
		return f, candidate.kind, nil
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrFactoryMissing, path)
}

// ResolveOov opens <pkgsRoot>/<package>/plugins/output/lib<library>.so,
// verifies its ABI level, then looks up VleMakeNewOov.
func (r *SharedLibraryResolver) ResolveOov(ref Reference) (OovFactory, error) {
	path := r.libraryPath(ref.Package, ref.Library, "output")
	p, err := r.open(path)
	if err != nil {
		return nil, err
	}
	if err := r.checkVersion(p, path); err != nil {
		return nil, err
	}
	sym, err := p.Lookup("VleMakeNewOov")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: VleMakeNewOov", ErrFactoryMissing, path)
	}
	f, ok := sym.(func(string) interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s: VleMakeNewOov", ErrWrongFactoryShape, path)
	}
	return f, nil
}

func adaptFactorySymbol(sym plugin.Symbol) (Factory, bool) {
	f, ok := sym.(func(InitArgs) simulator.Dynamics)
	if !ok {
		return nil, false
	}
	return Factory(f), true
}
