package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchAddressOption(t *testing.T) {
	options := []string{"1 Main St, Charlestown 02129", "1 Main St, Boston 02215"}

	tests := []struct {
		name   string
		reply  string
		want   string
		wantOK bool
	}{
		{"full address", "1 Main St, Boston 02215", "1 Main St, Boston 02215", true},
		{"neighborhood only", "Charlestown", "1 Main St, Charlestown 02129", true},
		{"spoken phrase", "the one in charlestown", "1 Main St, Charlestown 02129", true},
		{"misheard neighborhood", "Charleston", "1 Main St, Charlestown 02129", true},
		{"zip code", "02215", "1 Main St, Boston 02215", true},
		{"street without locality", "1 main st", "", false},
		{"unrelated reply", "yes please", "", false},
		{"both neighborhoods", "boston or charlestown", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchAddressOption(tt.reply, options)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchAddressOption_NoOptions(t *testing.T) {
	_, ok := MatchAddressOption("Charlestown", nil)
	assert.False(t, ok)
}

func TestSoundex(t *testing.T) {
	assert.Equal(t, "R163", soundex("Robert"))
	assert.Equal(t, "R163", soundex("Rupert"))
	assert.Equal(t, "A261", soundex("Ashcraft"))
	assert.Equal(t, "T522", soundex("Tymczak"))
}

func TestDamerauLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, damerauLevenshteinDistance("beach", "beach"))
	assert.Equal(t, 1, damerauLevenshteinDistance("baech", "beach"))
	assert.Equal(t, 1, damerauLevenshteinDistance("charleston", "charlestown"))
	assert.Equal(t, 5, damerauLevenshteinDistance("", "beach"))
}
