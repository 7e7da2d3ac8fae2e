package kernelctx

import "testing"

func TestContext_NextID_Increments(t *testing.T) {
	c := New(nil, nil, "/home", "/usr/local", nil)
	if id := c.NextID(); id != 1 {
		t.Fatalf("first NextID() = %d, want 1", id)
	}
	if id := c.NextID(); id != 2 {
		t.Fatalf("second NextID() = %d, want 2", id)
	}
}

func TestContext_WithFields_SharesArenaWithParent(t *testing.T) {
	c := New(nil, nil, "/home", "/usr/local", nil)
	child := c.WithFields(map[string]interface{}{"component": "test"})
	c.NextID()
	if id := child.NextID(); id != 2 {
		t.Fatalf("child.NextID() = %d, want 2 (arena shared with parent)", id)
	}
}
