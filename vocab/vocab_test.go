package vocab

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/tokmatch/attr"
)

type orthToken uint64

func (t orthToken) Attr(id attr.ID) (uint64, bool) {
	if id == attr.Orth {
		return uint64(t), true
	}
	return 0, false
}

func TestStringStore(t *testing.T) {
	ss := NewStringStore()

	h := ss.Add("apple")
	assert.NotZero(t, h)
	assert.Equal(t, h, Hash("apple"))
	assert.Equal(t, h, ss.Add("apple"))
	assert.Equal(t, 1, ss.Len())

	s, ok := ss.Lookup(h)
	require.True(t, ok)
	assert.Equal(t, "apple", s)

	_, ok = ss.Lookup(Hash("pear"))
	assert.False(t, ok)
	assert.False(t, ss.Contains("pear"))
	assert.True(t, ss.Contains("apple"))

	ss.Add("pear")
	assert.Equal(t, []string{"apple", "pear"}, ss.Strings())
}

func TestStringStoreEmpty(t *testing.T) {
	ss := NewStringStore()
	assert.Zero(t, ss.Add(""))
	s, ok := ss.Lookup(0)
	assert.True(t, ok)
	assert.Empty(t, s)
	assert.Zero(t, ss.Len())
}

func TestStringStoreConcurrentAdd(t *testing.T) {
	ss := NewStringStore()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				ss.Add(fmt.Sprintf("w%d", i))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, ss.Len())
}

func TestAddFlag(t *testing.T) {
	v := New()
	even := v.AddFlag(func(tok attr.Token) bool {
		o, _ := tok.Attr(attr.Orth)
		return o%2 == 0
	})
	odd := v.AddFlag(func(tok attr.Token) bool {
		o, _ := tok.Attr(attr.Orth)
		return o%2 == 1
	})

	assert.Equal(t, attr.FlagBase, even)
	assert.Equal(t, attr.FlagBase+1, odd)
	assert.Equal(t, 2, v.NumFlags())

	fn, ok := v.Flag(odd)
	require.True(t, ok)
	assert.True(t, fn(orthToken(3)))
	assert.False(t, fn(orthToken(4)))

	_, ok = v.Flag(attr.FlagBase + 2)
	assert.False(t, ok)
	_, ok = v.Flag(attr.Orth)
	assert.False(t, ok)
}
