package staff

import (
	"fmt"
	"strings"
)

// Login names are derived from the first two words of the employee's full
// name, transliterated to Latin, lowercased, with everything outside
// [a-z0-9_] stripped.

var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "i", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

func transliterate(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if lat, ok := cyrillicToLatin[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DeriveLogin builds the base login candidate from a full name: the first
// two space-separated words, transliterated, lowercased, joined by an
// underscore, stripped to [a-z0-9_].
func DeriveLogin(fullName string) string {
	words := strings.Fields(fullName)
	if len(words) > 2 {
		words = words[:2]
	}
	candidate := transliterate(strings.Join(words, "_"))

	var b strings.Builder
	for _, r := range candidate {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// deriveUniqueLogin resolves collisions against the given set of existing
// logins by appending an incrementing numeric suffix. Deterministic for a
// fixed candidate and set, and always terminates: the counter is strictly
// increasing over a finite set.
func deriveUniqueLogin(candidate string, existing map[string]bool) string {
	if candidate == "" {
		candidate = "user"
	}
	if !existing[candidate] {
		return candidate
	}
	for counter := 1; ; counter++ {
		next := fmt.Sprintf("%s_%d", candidate, counter)
		if !existing[next] {
			return next
		}
	}
}
