package catalog

// defaultRows is the embedded core database shipped with the binary.
var defaultRows = []Combo{
	{ID: "WIZ-001", Rank: 1, Points: 4500, Blade: "Wizard Rod", Ratchet: "9-60", Bit: "Ball", Wins: 1240, Description: "Stamina king."},
	{ID: "PHO-002", Rank: 2, Points: 4200, Blade: "Phoenix Wing", Ratchet: "5-60", Bit: "Point", Wins: 1150, Description: "Heavy attack."},
	{ID: "WIZ-003", Rank: 3, Points: 3800, Blade: "Wizard Rod", Ratchet: "5-70", Bit: "Hexa", Wins: 980, Description: "Tanky stamina."},
	{ID: "HEL-004", Rank: 4, Points: 3600, Blade: "Hells Scythe", Ratchet: "3-60", Bit: "Ball", Wins: 890, Description: "Balance standard."},
	{ID: "SHA-005", Rank: 5, Points: 3400, Blade: "Shark Edge", Ratchet: "3-60", Bit: "Low Flat", Wins: 850, Description: "Upper attack."},
	{ID: "PHO-006", Rank: 6, Points: 3300, Blade: "Phoenix Wing", Ratchet: "3-60", Bit: "Rush", Wins: 820, Description: "Aggressive."},
	{ID: "DRA-007", Rank: 7, Points: 3100, Blade: "Dran Sword", Ratchet: "3-60", Bit: "Flat", Wins: 780, Description: "Classic attack."},
	{ID: "COB-008", Rank: 8, Points: 2900, Blade: "Cobalt Drake", Ratchet: "4-60", Bit: "Flat", Wins: 750, Description: "Heavy chrome."},
	{ID: "UNI-009", Rank: 9, Points: 2800, Blade: "Unicorn Sting", Ratchet: "5-60", Bit: "Gear Point", Wins: 710, Description: "Unpredictable."},
	{ID: "VIP-010", Rank: 10, Points: 2600, Blade: "Viper Tail", Ratchet: "5-80", Bit: "Orb", Wins: 680, Description: "Smash stamina."},
	{ID: "WIZ-011", Rank: 11, Points: 2500, Blade: "Wizard Arrow", Ratchet: "4-80", Bit: "Ball", Wins: 650, Description: "Beginner stamina."},
	{ID: "KNI-012", Rank: 12, Points: 2400, Blade: "Knight Shield", Ratchet: "3-80", Bit: "Needle", Wins: 620, Description: "High defense."},
	{ID: "HEL-013", Rank: 13, Points: 2300, Blade: "Hells Chain", Ratchet: "5-60", Bit: "High Taper", Wins: 600, Description: "Shock absorb."},
	{ID: "DKE-014", Rank: 14, Points: 2200, Blade: "Dran Dagger", Ratchet: "3-60", Bit: "Rush", Wins: 580, Description: "Barrage."},
	{ID: "RHI-015", Rank: 15, Points: 2100, Blade: "Rhino Horn", Ratchet: "3-80", Bit: "Spike", Wins: 550, Description: "Compact defense."},
}

// Defaults returns a fresh copy of the embedded combos with RagContent
// filled in, sorted by rank.
func Defaults() []Combo {
	out := make([]Combo, len(defaultRows))
	for i, c := range defaultRows {
		c.RagContent = Summarize(c)
		out[i] = c
	}
	SortByRank(out)
	return out
}
