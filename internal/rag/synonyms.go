package rag

// synonym maps a trigger phrase found in the query to the component words
// that usually characterize that archetype.
type synonym struct {
	trigger string
	tokens  []string
}

var (
	staminaTokens = []string{"wizard", "rod", "ball", "orb", "glide", "9-60"}
	attackTokens  = []string{"flat", "rush", "low", "shark", "dran", "phoenix", "wing", "sword", "axe", "buster"}
	defenseTokens = []string{"needle", "shield", "chain", "keeper", "hexa"}
	balanceTokens = []string{"point", "taper", "unicorn", "scythe"}
)

// synonyms is evaluated in order; every trigger contained in the query adds
// its tokens.
var synonyms = []synonym{
	{"stamina", staminaTokens},
	{"resistenza", staminaTokens},
	{"attack", attackTokens},
	{"attacco", attackTokens},
	{"defense", defenseTokens},
	{"difesa", defenseTokens},
	{"balance", balanceTokens},
	{"equilibrio", balanceTokens},
}
