package models

// PrizeClass defines the payout parameters of one of the 12 prize tiers.
// Percentage is the share of the non-reserve pool allocated to the class.
// Class 1 is special: its raw budget feeds the accumulating jackpot and
// it has no cap.
type PrizeClass struct {
	Class      int      `bson:"class" json:"class"`
	Percentage float64  `bson:"percentage" json:"percentage"`
	MinPrize   float64  `bson:"minPrize" json:"minPrize"`
	Cap        *float64 `bson:"cap,omitempty" json:"cap,omitempty"`
}

// PrizeClassTable maps class number (1..12) to its configuration.
type PrizeClassTable map[int]PrizeClass

func capOf(v float64) *float64 { return &v }

// DefaultPrizeClassTable returns the standard 12-tier allocation. The
// percentages sum to exactly 100.
func DefaultPrizeClassTable() PrizeClassTable {
	return PrizeClassTable{
		1:  {Class: 1, Percentage: 36.00, MinPrize: 0, Cap: nil},
		2:  {Class: 2, Percentage: 8.60, MinPrize: 100000, Cap: capOf(5000000)},
		3:  {Class: 3, Percentage: 4.85, MinPrize: 50000, Cap: capOf(1000000)},
		4:  {Class: 4, Percentage: 0.80, MinPrize: 2000, Cap: nil},
		5:  {Class: 5, Percentage: 1.10, MinPrize: 300, Cap: nil},
		6:  {Class: 6, Percentage: 1.10, MinPrize: 150, Cap: nil},
		7:  {Class: 7, Percentage: 0.55, MinPrize: 80, Cap: nil},
		8:  {Class: 8, Percentage: 1.10, MinPrize: 40, Cap: nil},
		9:  {Class: 9, Percentage: 3.10, MinPrize: 25, Cap: nil},
		10: {Class: 10, Percentage: 5.30, MinPrize: 15, Cap: nil},
		11: {Class: 11, Percentage: 7.80, MinPrize: 12, Cap: nil},
		12: {Class: 12, Percentage: 29.70, MinPrize: 8, Cap: nil},
	}
}
