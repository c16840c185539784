package progress

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Planned-sets data has been written by several generations of admin tooling:
// JSON arrays, bare numbers, objects, free text ("10-10-8", "4x12"), and JSON
// that was string-encoded one, two or three times. Normalize is the single
// compatibility boundary that turns all of it into an ordered token sequence.
// It never fails; illegible input degrades to an empty sequence, which is a
// valid answer (a bodyweight exercise described only in its notes has no sets
// to show).

var (
	// numberRe matches signed decimal number substrings.
	numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	// separatorRe matches runs of list separators used in free-text entries.
	separatorRe = regexp.MustCompile(`[,;/|\-\s]+`)
)

// maxDecodePasses bounds how many layers of string-encoded JSON are peeled.
const maxDecodePasses = 3

// NormalizeRaw normalizes a raw planned-sets column or wire value.
func NormalizeRaw(raw []byte) []string {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		// Not valid JSON at all — legacy rows stored bare text.
		return normalizeString(s)
	}
	return Normalize(v)
}

// Normalize converts a decoded planned-sets value of any historical shape into
// ordered, trimmed, non-empty string tokens.
func Normalize(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		if tokens, ok := scalarTokens(t); ok {
			return tokens
		}
		// Sequence with nested containers — fall back to text tokenization
		// of its serialized form rather than failing.
		b, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return normalizeString(string(b))
	case float64:
		return []string{formatNumber(t)}
	case json.Number:
		return []string{t.String()}
	case bool:
		return []string{strconv.FormatBool(t)}
	case string:
		return normalizeString(t)
	default:
		// Object or other non-sequence container: one stringified token.
		b, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return []string{string(b)}
	}
}

// scalarTokens stringifies a sequence of scalars. ok is false when an element
// is itself a container.
func scalarTokens(seq []any) ([]string, bool) {
	var tokens []string
	for _, e := range seq {
		switch t := e.(type) {
		case nil:
			continue
		case string:
			if s := strings.TrimSpace(t); s != "" {
				tokens = append(tokens, s)
			}
		case float64:
			tokens = append(tokens, formatNumber(t))
		case json.Number:
			tokens = append(tokens, t.String())
		case bool:
			tokens = append(tokens, strconv.FormatBool(t))
		default:
			return nil, false
		}
	}
	return tokens, true
}

func normalizeString(s string) []string {
	s = strings.TrimSpace(s)

	// Peel string-encoded JSON, up to three layers deep. A decode to a
	// sequence wins immediately; null means "nothing planned"; any other
	// scalar keeps being normalized as text.
	for range maxDecodePasses {
		if s == "" {
			return nil
		}
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			break
		}
		switch t := v.(type) {
		case nil:
			return nil
		case []any:
			if tokens, ok := scalarTokens(t); ok {
				return tokens
			}
			b, err := json.Marshal(t)
			if err != nil {
				return nil
			}
			s = string(b)
		case string:
			if t == s {
				// No progress; avoid spinning on self-decoding input.
				return tokenizeText(s)
			}
			s = strings.TrimSpace(t)
		case float64:
			s = formatNumber(t)
		case bool:
			s = strconv.FormatBool(t)
		default:
			b, err := json.Marshal(t)
			if err != nil {
				return nil
			}
			return []string{string(b)}
		}
		if _, isStr := v.(string); !isStr {
			// A non-string decode cannot be JSON-encoded again in a way
			// another pass would help with.
			break
		}
	}

	return tokenizeText(s)
}

// tokenizeText handles free-text planned-sets entries after JSON peeling.
func tokenizeText(s string) []string {
	s = stripWrapping(s)
	if s == "" {
		return nil
	}

	// Numeric substrings take precedence over separator splitting, so
	// "3x10" yields ["3","10"] and "10-10-8" yields ["10","10","8"].
	if nums := extractNumbers(s); len(nums) > 0 {
		return nums
	}

	var tokens []string
	for _, part := range separatorRe.Split(s, -1) {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// stripWrapping removes one layer of surrounding matching quotes, then one
// layer of surrounding matching brackets.
func stripWrapping(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	if len(s) >= 2 {
		if (s[0] == '[' && s[len(s)-1] == ']') || (s[0] == '{' && s[len(s)-1] == '}') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// extractNumbers returns all signed decimal substrings. A minus directly
// following a digit is a separator, not a sign: "10-10-8" is three positive
// numbers, while "-5" keeps its sign.
func extractNumbers(s string) []string {
	var nums []string
	for _, loc := range numberRe.FindAllStringIndex(s, -1) {
		tok := s[loc[0]:loc[1]]
		if tok[0] == '-' && loc[0] > 0 {
			prev := s[loc[0]-1]
			if prev >= '0' && prev <= '9' || prev == '.' {
				tok = tok[1:]
			}
		}
		nums = append(nums, tok)
	}
	return nums
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
