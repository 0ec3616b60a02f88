// Package sparse provides the insertion-ordered state set used by the
// token NFA simulation.
//
// Membership, insertion and clearing are O(1); iteration visits values in
// the order they were inserted, which keeps simulation results
// deterministic from one scan to the next.
package sparse

// Set is a set of uint32 values drawn from [0, capacity).
type Set struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32 // members in insertion order
}

// New creates a set able to hold values below capacity.
func New(capacity int) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Capacity returns the exclusive upper bound on storable values.
func (s *Set) Capacity() int {
	return len(s.sparse)
}

// Resize grows the set to hold values below capacity and clears it.
// A smaller capacity keeps the existing storage.
func (s *Set) Resize(capacity int) {
	if capacity > len(s.sparse) {
		s.sparse = make([]uint32, capacity)
		s.dense = make([]uint32, 0, capacity)
		return
	}
	s.Clear()
}

// Insert adds v and reports whether it was absent.
// Values at or above the capacity panic.
func (s *Set) Insert(v uint32) bool {
	if s.Contains(v) {
		return false
	}
	//nolint:gosec // G115: len(dense) < len(sparse), which was sized from an int
	s.sparse[v] = uint32(len(s.dense))
	s.dense = append(s.dense, v)
	return true
}

// Contains reports whether v is a member.
func (s *Set) Contains(v uint32) bool {
	if int(v) >= len(s.sparse) {
		return false
	}
	i := s.sparse[v]
	return int(i) < len(s.dense) && s.dense[i] == v
}

// Clear empties the set without touching the sparse array.
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// Values returns the members in insertion order.
// The slice is only valid until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}
