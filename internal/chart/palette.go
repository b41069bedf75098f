package chart

// Tableau10 is the default categorical palette.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

const fallbackColor = "#bab0ab"

// ColorMap assigns a color to each key.
type ColorMap map[string]string

func (c ColorMap) Color(key string) string {
	if col, ok := c[key]; ok {
		return col
	}
	return fallbackColor
}

// AssignColors gives each distinct key the next palette color in first-seen
// order, cycling when keys outnumber colors. The same keys in the same order
// always get the same colors.
func AssignColors(keys []string, palette []string) ColorMap {
	if len(palette) == 0 {
		palette = Tableau10
	}
	out := make(ColorMap, len(keys))
	for _, k := range keys {
		if _, ok := out[k]; ok {
			continue
		}
		out[k] = palette[len(out)%len(palette)]
	}
	return out
}
