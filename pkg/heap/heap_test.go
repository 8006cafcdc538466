package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// leaf is a test Value with no outgoing references.
type leaf struct{ tag string }

func (leaf) References() []int { return nil }

// node is a test Value pointing at other slots, standing in for
// pkg/vm's Class/Array variants.
type node struct{ refs []int }

func (n node) References() []int { return n.refs }

func TestAllocReusesDeadSlots(t *testing.T) {
	h := New()
	a := h.Alloc(leaf{"a"})
	b := h.Alloc(leaf{"b"})
	require.Equal(t, 2, h.AllocatedItems())

	h.Collect([]int{b}) // a becomes unreachable
	require.Equal(t, 1, h.AllocatedItems())

	c := h.Alloc(leaf{"c"})
	require.Equal(t, a, c, "alloc should reuse the freed slot for a")
	require.Equal(t, 2, h.Len())
}

func TestCollectTransitiveReachability(t *testing.T) {
	h := New()
	leafRef := h.Alloc(leaf{"leaf"})
	nodeRef := h.Alloc(node{refs: []int{leafRef}})

	reclaimed := h.Collect([]int{nodeRef})
	require.Equal(t, 0, reclaimed)

	_, live := h.Fetch(leafRef)
	require.True(t, live, "leaf reachable only via node must survive GC")
}

func TestCollectReclaimsUnreachable(t *testing.T) {
	h := New()
	for i := 0; i < 16; i++ {
		h.Alloc(leaf{"garbage"})
	}
	require.Equal(t, 16, h.AllocatedItems())

	reclaimed := h.Collect(nil)
	require.Equal(t, 16, reclaimed)
	require.Equal(t, 0, h.AllocatedItems())
}

func TestCollectHandlesCycles(t *testing.T) {
	h := New()
	// Close the cycle by re-allocating a's slot contents through Fetch
	// is not possible (Fetch returns a copy for value types), so model
	// the cycle directly via slot indices known up front: on a fresh
	// heap a lands in slot 0 and b in slot 1.
	a := h.Alloc(node{refs: []int{1}})
	b := h.Alloc(node{refs: []int{a}})
	require.Equal(t, 1, b)
	h.Collect([]int{a})
	_, aLive := h.Fetch(a)
	_, bLive := h.Fetch(b)
	require.True(t, aLive)
	require.True(t, bLive)
}

func TestFetchDeadSlot(t *testing.T) {
	h := New()
	ref := h.Alloc(leaf{"x"})
	h.Collect(nil)
	_, live := h.Fetch(ref)
	require.False(t, live)
}
