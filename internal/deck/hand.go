package deck

import "strings"

// handNames covers the category keys the room server reports in hand_value.
var handNames = map[string]string{
	"high_card":      "High Card",
	"pair":           "Pair",
	"two_pair":       "Two Pair",
	"three_of_kind":  "Three of a Kind",
	"straight":       "Straight",
	"flush":          "Flush",
	"full_house":     "Full House",
	"four_of_kind":   "Four of a Kind",
	"straight_flush": "Straight Flush",
}

// HandName formats a hand category key for display ("two_pair" -> "Two Pair").
// Unknown keys are title-cased word by word.
func HandName(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if name, ok := handNames[key]; ok {
		return name
	}

	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == ' ' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
