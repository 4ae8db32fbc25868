package safe

import (
	"math"
	"testing"
)

func TestMath(t *testing.T) {
	if got := Add(10, 20); got != 30 {
		t.Errorf("Add(10, 20) = %d; want 30", got)
	}
	if got := Add(math.MaxInt64-1, 1); got != math.MaxInt64 {
		t.Errorf("Add boundary = %d; want MaxInt64", got)
	}
	if got := Sub(30, 10); got != 20 {
		t.Errorf("Sub(30, 10) = %d; want 20", got)
	}
	if got := Mul(-5, 110); got != -550 {
		t.Errorf("Mul(-5, 110) = %d; want -550", got)
	}
	if got := Mul(0, math.MaxInt64); got != 0 {
		t.Errorf("Mul(0, MaxInt64) = %d; want 0", got)
	}
}

func TestMathPanic(t *testing.T) {
	t.Run("Add Overflow", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Should have panicked")
			}
		}()
		Add(math.MaxInt64, 1)
	})

	t.Run("Mul Overflow", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Should have panicked")
			}
		}()
		Mul(math.MaxInt64, 2)
	})
}
