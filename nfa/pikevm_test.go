package nfa

import "testing"

func TestPikeVM_LongSequence(t *testing.T) {
	nfa := compileForTest("a . b!")
	input := make([]byte, 10000)
	for i := range input {
		input[i] = 'a'
	}
	seq := charSeq(input)

	cache := NewCache(0)
	cache.Reset(nfa, seq)
	p := NewPikeVM(nfa)

	ends := make([]int, 1)
	p.Longest(cache, 0, ends)
	if ends[0] != 2 {
		t.Errorf("end = %d, want 2", ends[0])
	}

	p.Longest(cache, len(input)-1, ends)
	if ends[0] != -1 {
		t.Errorf("at last token: end = %d, want -1", ends[0])
	}
}

func TestPikeVM_StarLoopTerminates(t *testing.T) {
	nfa := compileForTest("a* b*")
	seq := charSeq("aabbc")
	cache := NewCache(1 << 10)
	cache.Reset(nfa, seq)

	ends := make([]int, 1)
	NewPikeVM(nfa).Longest(cache, 0, ends)
	if ends[0] != 4 {
		t.Errorf("end = %d, want 4", ends[0])
	}
}
