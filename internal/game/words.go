package game

import "math/rand"

// DefaultWords is the shared pool of drawable things and animals.
var DefaultWords = []string{
	"słoń", "dom", "drzewo", "samochód", "kwiat", "książka",
	"pies", "kot", "mysz", "krzesło", "stół", "lampa",
}

// WordBank hands out random words from a fixed pool. The pool itself is never
// mutated; each Draw shuffles a copy so words within one draw are distinct.
type WordBank struct {
	words []string
	rng   *rand.Rand
}

func NewWordBank(words []string, rng *rand.Rand) *WordBank {
	if len(words) == 0 {
		words = DefaultWords
	}
	pool := make([]string, len(words))
	copy(pool, words)
	return &WordBank{words: pool, rng: rng}
}

// Draw returns n distinct words, or the whole pool when n exceeds it.
func (b *WordBank) Draw(n int) []string {
	if n > len(b.words) {
		n = len(b.words)
	}
	if n <= 0 {
		return nil
	}
	shuffled := make([]string, len(b.words))
	copy(shuffled, b.words)
	b.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// Size reports how many words the pool holds.
func (b *WordBank) Size() int {
	return len(b.words)
}
