package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lottohaus/worldlotto-backend/internal/models"
)

func ticketWith(main, world []int) *models.Ticket {
	return &models.Ticket{MainNumbers: main, WorldNumbers: world}
}

func TestClassifyAllWinningCombinations(t *testing.T) {
	drawnMain := []int{1, 2, 3, 4, 5}
	drawnWorld := []int{1, 2}

	// Picks constructed to hit exact match counts: unmatched main numbers
	// come from 40+, unmatched world numbers from 10+.
	cases := []struct {
		name  string
		main  []int
		world []int
		class int
	}{
		{"5+2", []int{1, 2, 3, 4, 5}, []int{1, 2}, 1},
		{"5+1", []int{1, 2, 3, 4, 5}, []int{1, 11}, 2},
		{"5+0", []int{1, 2, 3, 4, 5}, []int{10, 11}, 3},
		{"4+2", []int{1, 2, 3, 4, 44}, []int{1, 2}, 4},
		{"4+1", []int{1, 2, 3, 4, 44}, []int{2, 12}, 5},
		{"3+2", []int{1, 2, 3, 43, 44}, []int{1, 2}, 6},
		{"4+0", []int{1, 2, 3, 4, 44}, []int{10, 11}, 7},
		{"2+2", []int{1, 2, 42, 43, 44}, []int{1, 2}, 8},
		{"3+1", []int{1, 2, 3, 43, 44}, []int{1, 11}, 9},
		{"3+0", []int{1, 2, 3, 43, 44}, []int{10, 11}, 10},
		{"1+2", []int{1, 41, 42, 43, 44}, []int{1, 2}, 11},
		{"2+1", []int{1, 2, 42, 43, 44}, []int{2, 10}, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(ticketWith(tc.main, tc.world), drawnMain, drawnWorld)
			assert.Equal(t, tc.class, got)
		})
	}
}

func TestClassifyNonWinningCombinations(t *testing.T) {
	drawnMain := []int{1, 2, 3, 4, 5}
	drawnWorld := []int{1, 2}

	cases := []struct {
		name  string
		main  []int
		world []int
	}{
		{"0+0", []int{40, 41, 42, 43, 44}, []int{10, 11}},
		{"0+2", []int{40, 41, 42, 43, 44}, []int{1, 2}},
		{"1+1", []int{1, 41, 42, 43, 44}, []int{1, 11}},
		{"2+0", []int{1, 2, 42, 43, 44}, []int{10, 11}},
		{"1+0", []int{1, 41, 42, 43, 44}, []int{10, 11}},
		{"0+1", []int{40, 41, 42, 43, 44}, []int{1, 11}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(ticketWith(tc.main, tc.world), drawnMain, drawnWorld)
			assert.Equal(t, 0, got, "expected no win")
		})
	}
}
