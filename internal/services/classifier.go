package services

import "github.com/lottohaus/worldlotto-backend/internal/models"

// payTable maps (main matches, world matches) to the prize class. Any
// combination absent from the table is not a win. This is the game's
// pay table; any deviation is a correctness bug.
var payTable = map[[2]int]int{
	{5, 2}: 1,
	{5, 1}: 2,
	{5, 0}: 3,
	{4, 2}: 4,
	{4, 1}: 5,
	{3, 2}: 6,
	{4, 0}: 7,
	{2, 2}: 8,
	{3, 1}: 9,
	{3, 0}: 10,
	{1, 2}: 11,
	{2, 1}: 12,
}

// Classify returns the prize class (1..12) of a ticket against the drawn
// numbers, or 0 for no win. Pure function.
func Classify(ticket *models.Ticket, drawnMain, drawnWorld []int) int {
	main := matchCount(ticket.MainNumbers, drawnMain)
	world := matchCount(ticket.WorldNumbers, drawnWorld)
	return payTable[[2]int{main, world}]
}

func matchCount(picked, drawn []int) int {
	count := 0
	for _, p := range picked {
		for _, d := range drawn {
			if p == d {
				count++
				break
			}
		}
	}
	return count
}
