package graph

import "testing"

func TestAddAtomicModel_DuplicateName_Fails(t *testing.T) {
	root := NewRoot("top")
	if _, err := root.AddAtomicModel("a"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := root.AddAtomicModel("a"); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestConnections_InvariantsEnforced(t *testing.T) {
	root := NewRoot("top")
	a, _ := root.AddAtomicModel("a")
	b, _ := root.AddAtomicModel("b")
	_ = a.AddOutputPort("out")
	_ = b.AddInputPort("in")

	if err := root.AddInternalConnection(a, "out", b, "in"); err != nil {
		t.Fatalf("AddInternalConnection: %v", err)
	}
	if err := root.AddInternalConnection(a, "out", b, "in"); err == nil {
		t.Fatal("expected duplicate edge error")
	}
	if err := root.AddInternalConnection(a, "out", a, "in"); err == nil {
		t.Fatal("expected self-loop rejection")
	}
	if err := root.AddInternalConnection(a, "missing", b, "in"); err == nil {
		t.Fatal("expected missing port rejection")
	}

	targets := root.InternalTargets("a", "out")
	if len(targets) != 1 || targets[0].Model != "b" || targets[0].Port != "in" {
		t.Fatalf("InternalTargets = %v", targets)
	}
}

func TestAddConnection_ThenDelConnection_LeavesGraphUnchanged(t *testing.T) {
	root := NewRoot("top")
	a, _ := root.AddAtomicModel("a")
	b, _ := root.AddAtomicModel("b")
	_ = a.AddOutputPort("out")
	_ = b.AddInputPort("in")

	if err := root.AddInternalConnection(a, "out", b, "in"); err != nil {
		t.Fatal(err)
	}
	if err := root.DelInternalConnection(a, "out", b, "in"); err != nil {
		t.Fatal(err)
	}
	if targets := root.InternalTargets("a", "out"); len(targets) != 0 {
		t.Fatalf("expected no targets after delete, got %v", targets)
	}
}

func TestDelInputPort_RemovesTouchingConnections(t *testing.T) {
	root := NewRoot("top")
	_ = root.AddInputPort("p_in")
	child, _ := root.AddAtomicModel("child")
	_ = child.AddInputPort("cin")

	if err := root.AddInputConnection("p_in", child, "cin"); err != nil {
		t.Fatal(err)
	}
	if err := child.DelInputPort("cin"); err != nil {
		t.Fatal(err)
	}
	if targets := root.InputTargets("p_in"); len(targets) != 0 {
		t.Fatalf("expected connection cascade-deleted, got %v", targets)
	}
}

func TestRename_Noop_WhenSameName(t *testing.T) {
	root := NewRoot("top")
	a, _ := root.AddAtomicModel("a")
	if err := root.Rename(a, "a"); err != nil {
		t.Fatalf("rename to same name should be a no-op: %v", err)
	}
}

func TestRename_ThenRenameBack_IsIdentity(t *testing.T) {
	root := NewRoot("top")
	a, _ := root.AddAtomicModel("a")
	b, _ := root.AddAtomicModel("b")
	_ = a.AddOutputPort("out")
	_ = b.AddInputPort("in")
	_ = root.AddInternalConnection(a, "out", b, "in")

	if err := root.Rename(a, "a2"); err != nil {
		t.Fatal(err)
	}
	if err := root.Rename(a, "a"); err != nil {
		t.Fatal(err)
	}

	targets := root.InternalTargets("a", "out")
	if len(targets) != 1 || targets[0].Model != "b" {
		t.Fatalf("rename round-trip broke connection: %v", targets)
	}
}

func TestFindModelFromPath_NavigatesHierarchy(t *testing.T) {
	root := NewRoot("top")
	mid, _ := root.AddCoupledModel("mid")
	leaf, _ := mid.AddAtomicModel("leaf")

	found, ok := root.FindModelFromPath("mid,leaf")
	if !ok || found != Node(leaf) {
		t.Fatalf("FindModelFromPath = %v, %v", found, ok)
	}
}

func TestDeleteModel_RemovesDescendantsAndConnections(t *testing.T) {
	root := NewRoot("top")
	mid, _ := root.AddCoupledModel("mid")
	if _, err := mid.AddAtomicModel("leaf"); err != nil {
		t.Fatal(err)
	}
	_ = mid.AddInputPort("i")
	x, _ := root.AddAtomicModel("x")
	_ = x.AddOutputPort("o")
	if err := root.AddInternalConnection(x, "o", mid, "i"); err != nil {
		t.Fatal(err)
	}
	if err := root.DeleteModel("mid"); err != nil {
		t.Fatal(err)
	}
	if _, ok := root.FindModel("mid"); ok {
		t.Fatal("expected mid to be gone")
	}
	if _, ok := root.FindModelFromPath("mid,leaf"); ok {
		t.Fatal("expected leaf to be unreachable after deleting mid")
	}
	if targets := root.InternalTargets("x", "o"); len(targets) != 0 {
		t.Fatalf("expected connection into mid dropped, got %v", targets)
	}
}

func TestDisplace_PreservesInternalConnectionsAmongMovedSet(t *testing.T) {
	root := NewRoot("top")
	a, _ := root.AddAtomicModel("a")
	b, _ := root.AddAtomicModel("b")
	_ = a.AddOutputPort("out")
	_ = b.AddInputPort("in")
	_ = root.AddInternalConnection(a, "out", b, "in")

	newParent := NewRoot("other")
	if err := root.Displace([]string{"a", "b"}, newParent); err != nil {
		t.Fatal(err)
	}

	if _, ok := root.FindModel("a"); ok {
		t.Fatal("a should have moved out of root")
	}
	if _, ok := newParent.FindModel("a"); !ok {
		t.Fatal("a should now be a child of newParent")
	}
	if targets := newParent.InternalTargets("a", "out"); len(targets) != 1 {
		t.Fatalf("expected preserved internal connection, got %v", targets)
	}
}

func TestDisplace_RebuildsCrossingInternalConnections_ThroughSynthesizedPorts(t *testing.T) {
	root := NewRoot("top")
	newParent, _ := root.AddCoupledModel("grp")

	d, _ := root.AddAtomicModel("d")
	_ = d.AddOutputPort("o")
	r, _ := root.AddAtomicModel("r")
	_ = r.AddInputPort("i")
	_ = root.AddInternalConnection(d, "o", r, "i")

	s, _ := root.AddAtomicModel("s")
	_ = s.AddOutputPort("o2")
	e, _ := root.AddAtomicModel("e")
	_ = e.AddInputPort("i2")
	_ = root.AddInternalConnection(s, "o2", e, "i2")

	if err := root.Displace([]string{"d", "e"}, newParent); err != nil {
		t.Fatal(err)
	}

	// d (displaced producer) -> r (sibling left behind): newParent gets a
	// synthesized output port forwarding d's output, root gets a matching
	// synthesized input port forwarding down to r.
	if targets := newParent.OutputTargets("d", "o"); len(targets) != 1 || targets[0] != "d_o" {
		t.Fatalf("newParent.OutputTargets(d,o) = %v, want [d_o]", targets)
	}
	if !root.HasInputPort("d_o") {
		t.Fatal("expected root to gain synthesized input port d_o")
	}
	if targets := root.InputTargets("d_o"); len(targets) != 1 || targets[0].Model != "r" || targets[0].Port != "i" {
		t.Fatalf("root.InputTargets(d_o) = %v, want [{r i}]", targets)
	}

	// s (sibling left behind) -> e (displaced consumer): root gets a
	// synthesized output port, newParent gets a matching synthesized input
	// port forwarding down to e.
	if targets := root.OutputTargets("s", "o2"); len(targets) != 1 || targets[0] != "e_i2" {
		t.Fatalf("root.OutputTargets(s,o2) = %v, want [e_i2]", targets)
	}
	if !newParent.HasInputPort("e_i2") {
		t.Fatal("expected newParent to gain synthesized input port e_i2")
	}
	if targets := newParent.InputTargets("e_i2"); len(targets) != 1 || targets[0].Model != "e" || targets[0].Port != "i2" {
		t.Fatalf("newParent.InputTargets(e_i2) = %v, want [{e i2}]", targets)
	}
}

func TestDisplace_RebuildsOwnBoundaryConnections_WhenNewParentIsChild(t *testing.T) {
	root := NewRoot("top")
	_ = root.AddInputPort("p_in")
	_ = root.AddOutputPort("p_out")
	newParent, _ := root.AddCoupledModel("grp")

	leafIn, _ := root.AddAtomicModel("leafIn")
	_ = leafIn.AddInputPort("cin")
	if err := root.AddInputConnection("p_in", leafIn, "cin"); err != nil {
		t.Fatal(err)
	}

	leafOut, _ := root.AddAtomicModel("leafOut")
	_ = leafOut.AddOutputPort("cout")
	if err := root.AddOutputConnection(leafOut, "cout", "p_out"); err != nil {
		t.Fatal(err)
	}

	if err := root.Displace([]string{"leafIn", "leafOut"}, newParent); err != nil {
		t.Fatal(err)
	}

	// root's boundary input connection is rechained through a synthesized
	// port on newParent rather than left pointing at a name no longer in
	// root.children.
	targets := root.InputTargets("p_in")
	if len(targets) != 1 || targets[0].Model != "grp" {
		t.Fatalf("root.InputTargets(p_in) = %v, want one target into grp", targets)
	}
	synthIn := targets[0].Port
	if newTargets := newParent.InputTargets(synthIn); len(newTargets) != 1 || newTargets[0].Model != "leafIn" || newTargets[0].Port != "cin" {
		t.Fatalf("newParent.InputTargets(%s) = %v, want [{leafIn cin}]", synthIn, newTargets)
	}

	// root's boundary output connection is rechained the same way.
	outTargets := root.OutputTargets("grp", mustSoleKey(t, newParent, "leafOut", "cout"))
	if len(outTargets) != 1 || outTargets[0] != "p_out" {
		t.Fatalf("root.OutputTargets(grp, synth) = %v, want [p_out]", outTargets)
	}
}

func mustSoleKey(t *testing.T, newParent *CoupledModel, childModel, childPort string) string {
	t.Helper()
	targets := newParent.OutputTargets(childModel, childPort)
	if len(targets) != 1 {
		t.Fatalf("newParent.OutputTargets(%s,%s) = %v, want exactly one synthesized port", childModel, childPort, targets)
	}
	return targets[0]
}

func TestDisplace_DropsOwnBoundaryConnections_WhenNewParentIsUnrelated(t *testing.T) {
	root := NewRoot("top")
	_ = root.AddInputPort("p_in")
	_ = root.AddOutputPort("p_out")

	leafIn, _ := root.AddAtomicModel("leafIn")
	_ = leafIn.AddInputPort("cin")
	if err := root.AddInputConnection("p_in", leafIn, "cin"); err != nil {
		t.Fatal(err)
	}

	leafOut, _ := root.AddAtomicModel("leafOut")
	_ = leafOut.AddOutputPort("cout")
	if err := root.AddOutputConnection(leafOut, "cout", "p_out"); err != nil {
		t.Fatal(err)
	}

	unrelated := NewRoot("elsewhere")
	if err := root.Displace([]string{"leafIn", "leafOut"}, unrelated); err != nil {
		t.Fatal(err)
	}

	if targets := root.InputTargets("p_in"); len(targets) != 0 {
		t.Fatalf("expected dangling input connection dropped, got %v", targets)
	}
	if targets := root.OutputTargets("leafOut", "cout"); len(targets) != 0 {
		t.Fatalf("expected dangling output connection dropped, got %v", targets)
	}
}
