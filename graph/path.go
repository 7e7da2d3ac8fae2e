package graph

import "strings"

// FindModelFromPath navigates the hierarchy using a comma-separated path
// of child names, e.g. "net,router,queue1".
func (m *CoupledModel) FindModelFromPath(path string) (Node, bool) {
	if path == "" {
		return m, true
	}
	segs := strings.Split(path, ",")
	var cur Node = m
	for _, seg := range segs {
		cm, ok := cur.(*CoupledModel)
		if !ok {
			return nil, false
		}
		next, ok := cm.FindModel(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
