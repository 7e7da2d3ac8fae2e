package coordinator

import "github.com/vle-sim/vle/graph"

// routeTarget is one delivery destination resolved from a source
// (model, port): an atomic model's full path plus the input port on it.
type routeTarget struct {
	path string
	port string
}

type routeKey struct {
	path string
	port string
}

type routeCacheEntry struct {
	targets []routeTarget
	levels  []string // coupled-model paths traversed while computing this entry
}

// Route resolves the delivery set for an output produced by the atomic
// model at srcPath on srcPort, computing it lazily on first use and
// caching thereafter.
func (c *Coordinator) Route(srcPath, srcPort string) []routeTarget {
	key := routeKey{path: srcPath, port: srcPort}
	if entry, ok := c.routeCache[key]; ok {
		return entry.targets
	}
	entry, ok := c.byPath[srcPath]
	if !ok {
		return nil
	}
	var levels []string
	targets := c.routeFrom(entry.parent, entry.parentPath, entry.node.Name(), srcPort, &levels)
	c.routeCache[key] = routeCacheEntry{targets: targets, levels: levels}
	for _, lvl := range levels {
		set := c.levelIndex[lvl]
		if set == nil {
			set = make(map[routeKey]struct{})
			c.levelIndex[lvl] = set
		}
		set[key] = struct{}{}
	}
	return targets
}

// InvalidateLevel drops every cached route that passed through the
// coupled model at levelPath, used after an executive edit or a topology
// mutation changes that level's connection sets.
func (c *Coordinator) InvalidateLevel(levelPath string) {
	for key := range c.levelIndex[levelPath] {
		delete(c.routeCache, key)
	}
	delete(c.levelIndex, levelPath)
}

// routeFrom implements the message-routing step: at the coupled model
// `level` (whose own comma-path is levelPath), a
// child named childName just emitted on childPort. Internal connections
// route sideways (descending into coupled siblings); output connections
// route upward to level's own output port, continuing the same walk one
// level higher.
func (c *Coordinator) routeFrom(level *graph.CoupledModel, levelPath, childName, childPort string, levels *[]string) []routeTarget {
	*levels = append(*levels, levelPath)
	var out []routeTarget

	for _, dst := range level.InternalTargets(childName, childPort) {
		sibling, ok := level.FindModel(dst.Model)
		if !ok {
			continue
		}
		siblingPath := joinPath(levelPath, dst.Model)
		if sibling.IsAtomic() {
			out = append(out, routeTarget{path: siblingPath, port: dst.Port})
			continue
		}
		out = append(out, c.descendInto(sibling.(*graph.CoupledModel), siblingPath, dst.Port, levels)...)
	}

	for _, parentPort := range level.OutputTargets(childName, childPort) {
		parent := level.Parent()
		if parent == nil {
			continue // level is root; nowhere further to route this output.
		}
		parentPath := parentPathOf(levelPath)
		out = append(out, c.routeFrom(parent, parentPath, level.Name(), parentPort, levels)...)
	}

	return out
}

// descendInto implements the downward half: level is entered on its own
// input port inputPort; every child wired to that input port either
// receives the delivery directly (atomic) or is entered recursively on
// its own input port (coupled).
func (c *Coordinator) descendInto(level *graph.CoupledModel, levelPath, inputPort string, levels *[]string) []routeTarget {
	*levels = append(*levels, levelPath)
	var out []routeTarget
	for _, dst := range level.InputTargets(inputPort) {
		child, ok := level.FindModel(dst.Model)
		if !ok {
			continue
		}
		childPath := joinPath(levelPath, dst.Model)
		if child.IsAtomic() {
			out = append(out, routeTarget{path: childPath, port: dst.Port})
			continue
		}
		out = append(out, c.descendInto(child.(*graph.CoupledModel), childPath, dst.Port, levels)...)
	}
	return out
}

func joinPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + "," + name
}

// parentPathOf strips the last comma-segment off path, the inverse of
// joinPath, used while walking back up the hierarchy.
func parentPathOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == ',' {
			return path[:i]
		}
	}
	return ""
}
