package render

// greekNumerals maps book numbers to the uppercase Milesian numerals used in
// critical edition book headers. Values beyond the table fall back to the
// raw number string.
var greekNumerals = map[string]string{
	"1": "Α", "2": "Β", "3": "Γ", "4": "Δ", "5": "Ε",
	"6": "ΣΤ", "7": "Ζ", "8": "Η", "9": "Θ", "10": "Ι",
	"11": "ΙΑ", "12": "ΙΒ", "13": "ΙΓ", "14": "ΙΔ", "15": "ΙΕ",
	"16": "ΙΣΤ", "17": "ΙΖ", "18": "ΙΗ", "19": "ΙΘ", "20": "Κ",
}

func greekNumeral(book string) string {
	if n, ok := greekNumerals[book]; ok {
		return n
	}
	return book
}
