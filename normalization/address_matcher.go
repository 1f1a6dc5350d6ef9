package normalization

import (
	"strings"
	"unicode"
)

// minTokenSimilarity порог схожести слов ответа и адреса
const minTokenSimilarity = 0.8

// MatchAddressOption выбирает адрес из ранее предложенных вариантов по ответу
// пользователя ("the one in Charlestown", "Boston 02215"). Учитываются только
// слова, которые отличают варианты друг от друга; слово считается совпавшим
// при равенстве, близком написании или одинаковом Soundex коде.
// Второе значение false, если ответ не указывает ровно на один вариант.
func MatchAddressOption(reply string, options []string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}

	replyKey := BaseAddressKey(reply, 5)
	var exact []string
	for _, option := range options {
		if BaseAddressKey(option, 5) == replyKey {
			exact = append(exact, option)
		}
	}
	if len(exact) == 1 {
		return exact[0], true
	}

	replyTokens := tokenizeAddress(reply)
	optionTokens := make([][]string, len(options))
	for i, option := range options {
		optionTokens[i] = tokenizeAddress(option)
	}

	scores := make([]int, len(options))
	for _, token := range replyTokens {
		matched := make([]bool, len(options))
		hits := 0
		for i, tokens := range optionTokens {
			if containsSimilarToken(tokens, token) {
				matched[i] = true
				hits++
			}
		}
		// Слово есть во всех вариантах или ни в одном: не различает
		if hits == 0 || hits == len(options) {
			continue
		}
		for i := range options {
			if matched[i] {
				scores[i]++
			}
		}
	}

	best, bestScore, tie := -1, 0, false
	for i, score := range scores {
		switch {
		case score > bestScore:
			best, bestScore, tie = i, score, false
		case score == bestScore && score > 0:
			tie = true
		}
	}
	if best < 0 || tie {
		return "", false
	}
	return options[best], true
}

func containsSimilarToken(tokens []string, token string) bool {
	for _, candidate := range tokens {
		if tokenSimilar(candidate, token) {
			return true
		}
	}
	return false
}

// tokenSimilar сравнивает слова. Числа (дома, ZIP) должны совпадать точно.
func tokenSimilar(a, b string) bool {
	if a == b {
		return true
	}
	if isNumeric(a) || isNumeric(b) {
		return false
	}
	if damerauLevenshteinSimilarity(a, b) >= minTokenSimilarity {
		return true
	}
	return len(a) > 3 && len(b) > 3 && soundex(a) == soundex(b)
}

// tokenizeAddress разбивает адрес на слова в нижнем регистре
func tokenizeAddress(text string) []string {
	return strings.FieldsFunc(foldAddress(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// soundex американский Soundex код слова
func soundex(word string) string {
	codes := map[rune]byte{
		'b': '1', 'f': '1', 'p': '1', 'v': '1',
		'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
		'd': '3', 't': '3',
		'l': '4',
		'm': '5', 'n': '5',
		'r': '6',
	}

	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}

	result := []byte{byte(unicode.ToUpper(runes[0]))}
	last := codes[runes[0]]
	for _, r := range runes[1:] {
		code, ok := codes[r]
		if !ok {
			// h и w не разделяют одинаковые коды, гласные разделяют
			if r != 'h' && r != 'w' {
				last = 0
			}
			continue
		}
		if code != last {
			result = append(result, code)
			if len(result) == 4 {
				break
			}
		}
		last = code
	}
	for len(result) < 4 {
		result = append(result, '0')
	}
	return string(result)
}

// damerauLevenshteinDistance расстояние с учетом перестановки соседних символов
func damerauLevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1, len2 := len(r1), len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)

			if i > 1 && j > 1 && r1[i-1] == r2[j-2] && r1[i-2] == r2[j-1] {
				matrix[i][j] = min(matrix[i][j], matrix[i-2][j-2]+1)
			}
		}
	}

	return matrix[len1][len2]
}

func damerauLevenshteinSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	maxLen := max(len([]rune(s1)), len([]rune(s2)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(damerauLevenshteinDistance(s1, s2))/float64(maxLen)
}
