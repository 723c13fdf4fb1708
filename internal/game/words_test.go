package game

import (
	"math/rand"
	"testing"
)

func TestWordBankDrawDistinct(t *testing.T) {
	bank := NewWordBank(nil, rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		words := bank.Draw(3)
		if len(words) != 3 {
			t.Fatalf("Draw(3) returned %d words", len(words))
		}
		seen := make(map[string]struct{})
		for _, word := range words {
			if _, dup := seen[word]; dup {
				t.Fatalf("Draw(3) returned duplicate %q", word)
			}
			seen[word] = struct{}{}
		}
	}
}

func TestWordBankDrawFromPool(t *testing.T) {
	pool := map[string]struct{}{}
	for _, word := range DefaultWords {
		pool[word] = struct{}{}
	}
	bank := NewWordBank(nil, rand.New(rand.NewSource(1)))
	for _, word := range bank.Draw(bank.Size()) {
		if _, ok := pool[word]; !ok {
			t.Fatalf("drew %q, not in the pool", word)
		}
	}
}

func TestWordBankDrawClampsToPool(t *testing.T) {
	bank := NewWordBank([]string{"kot", "pies"}, rand.New(rand.NewSource(1)))
	if got := len(bank.Draw(5)); got != 2 {
		t.Fatalf("Draw(5) from pool of 2 returned %d words", got)
	}
	if bank.Draw(0) != nil {
		t.Fatalf("Draw(0) should return nil")
	}
}
