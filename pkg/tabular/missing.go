package tabular

// missingTokens are the strings read as missing values. The set matches
// the defaults of common dataframe CSV readers so counts line up with
// analyst tooling.
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissingToken reports whether a raw CSV field denotes a missing value.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// ParseCell converts a raw CSV field into a cell.
func ParseCell(s string) Cell {
	if IsMissingToken(s) {
		return Missing
	}
	return Text(s)
}
