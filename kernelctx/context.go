// Package kernelctx implements the single context object
// calls for: "a single context object carries log functor, settings map,
// prefix/home paths, loaded modules. No module-level singletons in the
// kernel; all state passes through the context." Grounded on the
// teacher's explicit-configuration-over-globals idiom (sim.NewSimulator
// and its siblings take every dependency as a constructor argument; the
// package has no package-level mutable state).
package kernelctx

import (
	"github.com/sirupsen/logrus"

	"github.com/vle-sim/vle/config"
	"github.com/vle-sim/vle/dynamics"
)

// Context bundles everything a kernel run needs instead of reaching for
// globals: the logger, the parsed vle.conf settings, resolved
// home/prefix paths, the dynamics resolver, and the monotonic simulator
// ID arena.
type Context struct {
	Log logrus.FieldLogger
	Settings config.Settings
	Home string
	Prefix string
	Resolver dynamics.Resolver

	nextID *uint64
}

// New constructs a Context. log defaults to logrus.StandardLogger() if
// nil; settings defaults to an empty map if nil.
func New(log logrus.FieldLogger, settings config.Settings, home, prefix string, resolver dynamics.Resolver) *Context {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if settings == nil {
		settings = make(config.Settings)
	}
	var id uint64
	return &Context{Log: log, Settings: settings, Home: home, Prefix: prefix, Resolver: resolver, nextID: &id}
}

// NextID returns the next integer in the simulator-ID arena, starting
// at 1 (0 is reserved as the zero-value sentinel for "no simulator").
// The arena is shared across any Context copies produced by WithFields.
func (c *Context) NextID() uint64 {
	*c.nextID++
	return *c.nextID
}

// WithFields returns a Context sharing every field except Log, which is
// replaced by c.Log.WithFields(fields) — the decorating-wrapper idiom of
// "debug tag is a decorating wrapper, not a subclass",
// applied to logging instead of atomic-model behaviour.
func (c *Context) WithFields(fields logrus.Fields) *Context {
	cp := *c
	cp.Log = c.Log.WithFields(fields)
	return &cp
}
