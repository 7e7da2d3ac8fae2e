package dynamics

// Resolver is satisfied by both StaticRegistry and SharedLibraryResolver,
// the two resolution modes
type Resolver interface {
	Resolve(ref Reference) (Factory, Kind, error)
	ResolveOov(ref Reference) (OovFactory, error)
}
