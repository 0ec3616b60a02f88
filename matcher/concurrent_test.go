package matcher

import (
	"fmt"
	"sync"
	"testing"

	"github.com/coregx/tokmatch/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentScan shares one Matcher and one PhraseMatcher across
// goroutines while another goroutine keeps re-registering keys. Run with
// -race.
func TestConcurrentScan(t *testing.T) {
	v := vocab.New()
	m := New(v)
	pm := NewPhraseMatcher(v)
	require.NoError(t, m.Add("AB", nil, Pattern{orth("a", "+"), orth("b", "")}))
	require.NoError(t, pm.AddText("AB", nil, []string{"a", "b"}))

	texts := []string{"a b", "a a a b", "b a", "x y z", "a b a b"}
	want := make([][]Match, len(texts))
	for i, s := range texts {
		var err error
		want[i], err = m.Scan(newDoc(v, s))
		require.NoError(t, err)
	}

	const numGoroutines = 32
	const numIterations = 50

	var wg sync.WaitGroup
	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				i := (g + j) % len(texts)
				doc := newDoc(v, texts[i])

				got, err := m.Scan(doc)
				assert.NoError(t, err)
				assert.Equal(t, want[i], got)

				_, err = pm.Scan(doc)
				assert.NoError(t, err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < numIterations; j++ {
			key := fmt.Sprintf("EXTRA%d", j%4)
			assert.NoError(t, m.Add(key, nil, Pattern{orth("zzz", "")}))
			assert.NoError(t, pm.AddText(key, nil, []string{"zzz"}))
			if j%2 == 1 {
				assert.NoError(t, m.Remove(key))
				assert.NoError(t, pm.Remove(key))
			}
		}
	}()

	wg.Wait()
	assert.Equal(t, uint64(numGoroutines*numIterations+len(texts)), m.Stats().Scans)
}
