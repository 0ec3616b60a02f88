package vocab

import (
	"sync"

	"github.com/coregx/tokmatch/attr"
)

// Vocab bundles the string store with the flag registry.
type Vocab struct {
	Strings *StringStore

	mu    sync.RWMutex
	flags []attr.FlagFunc
}

// New creates an empty vocabulary.
func New() *Vocab {
	return &Vocab{Strings: NewStringStore()}
}

// AddFlag registers fn as a new boolean attribute and returns its ID.
// The ID can be used in patterns by value or by its FLAG<n> name.
func (v *Vocab) AddFlag(fn attr.FlagFunc) attr.ID {
	if fn == nil {
		panic("vocab: AddFlag with nil function")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	id := attr.FlagBase + attr.ID(len(v.flags))
	v.flags = append(v.flags, fn)
	return id
}

// Flag returns the function registered under id.
func (v *Vocab) Flag(id attr.ID) (attr.FlagFunc, bool) {
	if !id.IsFlag() {
		return nil, false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	n := int(id - attr.FlagBase)
	if n >= len(v.flags) {
		return nil, false
	}
	return v.flags[n], true
}

// NumFlags returns the number of registered flags.
func (v *Vocab) NumFlags() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.flags)
}
