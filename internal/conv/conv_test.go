package conv

import (
	"math"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	if got := IntToUint32(42); got != 42 {
		t.Errorf("IntToUint32(42) = %d", got)
	}
	if got := IntToUint32(math.MaxUint32); got != math.MaxUint32 {
		t.Errorf("IntToUint32(MaxUint32) = %d", got)
	}
	mustPanic(t, func() { IntToUint32(-1) })
}

func TestIntToInt32(t *testing.T) {
	if got := IntToInt32(-7); got != -7 {
		t.Errorf("IntToInt32(-7) = %d", got)
	}
	mustPanic(t, func() { IntToInt32(math.MaxInt32 + 1) })
}

func mustPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	f()
}
