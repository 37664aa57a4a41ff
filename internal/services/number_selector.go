package services

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/lottohaus/worldlotto-backend/internal/models"
)

// Number pool bounds of the game: 5 main numbers out of 1-50 and 2 world
// numbers out of 1-12.
const (
	MainNumberCount  = 5
	MainNumberMax    = 50
	WorldNumberCount = 2
	WorldNumberMax   = 12
)

// DrawMode selects between uniform random drawing and the
// frequency-minimizing "intelligent" drawing.
type DrawMode string

const (
	DrawModeRandom      DrawMode = "random"
	DrawModeIntelligent DrawMode = "intelligent"
)

// NumberSelection is a candidate draw: both slices sorted ascending.
type NumberSelection struct {
	MainNumbers  []int `json:"mainNumbers"`
	WorldNumbers []int `json:"worldNumbers"`
}

// NumberSelector generates candidate draws. It is stateless apart from
// its randomness source and never touches stored state. The mutex guards
// the rng: previews run outside the drawing lock and may race quicktipp
// purchases otherwise.
type NumberSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewNumberSelector creates a selector seeded from the given source.
func NewNumberSelector(seed int64) *NumberSelector {
	return &NumberSelector{rng: rand.New(rand.NewSource(seed))}
}

// Select produces a candidate draw. Intelligent mode favors numbers least
// picked by the pending tickets; with no pending tickets it degrades to
// random mode because there is no signal to minimize against.
func (s *NumberSelector) Select(mode DrawMode, pending []*models.Ticket) NumberSelection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == DrawModeIntelligent && len(pending) > 0 {
		return NumberSelection{
			MainNumbers:  s.pickLeastFrequent(MainNumberCount, MainNumberMax, MainFrequencies(pending)),
			WorldNumbers: s.pickLeastFrequent(WorldNumberCount, WorldNumberMax, WorldFrequencies(pending)),
		}
	}
	return NumberSelection{
		MainNumbers:  s.pickUniform(MainNumberCount, MainNumberMax),
		WorldNumbers: s.pickUniform(WorldNumberCount, WorldNumberMax),
	}
}

// pickUniform samples count distinct numbers from [1,max] without
// replacement and returns them sorted.
func (s *NumberSelector) pickUniform(count, max int) []int {
	perm := s.rng.Perm(max)
	picked := make([]int, count)
	for i := 0; i < count; i++ {
		picked[i] = perm[i] + 1
	}
	sort.Ints(picked)
	return picked
}

// pickLeastFrequent chooses count numbers from [1,max] ordered by ascending
// pick frequency. Zero-frequency numbers are always preferred; ties are
// broken randomly. The result is sorted ascending.
func (s *NumberSelector) pickLeastFrequent(count, max int, freq map[int]int) []int {
	candidates := make([]int, max)
	for i := range candidates {
		candidates[i] = i + 1
	}
	// Shuffle first so that the stable sort breaks frequency ties randomly.
	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return freq[candidates[i]] < freq[candidates[j]]
	})

	picked := append([]int(nil), candidates[:count]...)
	sort.Ints(picked)
	return picked
}

// MainFrequencies counts how often each main number appears across tickets.
func MainFrequencies(tickets []*models.Ticket) map[int]int {
	freq := make(map[int]int)
	for _, t := range tickets {
		for _, n := range t.MainNumbers {
			freq[n]++
		}
	}
	return freq
}

// WorldFrequencies counts how often each world number appears across tickets.
func WorldFrequencies(tickets []*models.Ticket) map[int]int {
	freq := make(map[int]int)
	for _, t := range tickets {
		for _, n := range t.WorldNumbers {
			freq[n]++
		}
	}
	return freq
}
