package util

import (
	"sort"
	"strings"
)

// OrderedKeys returns the keys of m sorted ascending, so that map iteration
// in diagnostics and table dumps produces stable output.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ArticleFor returns "a" or "an" depending on whether noun starts with a
// vowel sound. It's a simple spelling-based check (not phonetic), good
// enough for the grammar-symbol names this generator ever has to narrate in
// an error message.
func ArticleFor(noun string, capital bool) string {
	article := "a"
	if len(noun) > 0 {
		switch noun[0] {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			article = "an"
		}
	}
	if capital {
		return strings.ToUpper(article[:1]) + article[1:]
	}
	return article
}

// MakeTextList gives a nice list of things based on their display name.
//
// TODO: turn this into a generic function that accepts displayable OR ~string
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	if len(items) == 1 {
		output += items[0]
	} else if len(items) == 2 {
		output += items[0] + " and " + items[1]
	} else {
		// if its more than two, use an oxford comma
		items[len(items)-1] = "and " + items[len(items)-1]
		output += strings.Join(items, ", ")
	}

	return output
}
