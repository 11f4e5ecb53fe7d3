package labelindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"seashore", "beach"},
		{"Ocean", "beach"},
		{"  Coast ", "beach"},
		{"dusk", "sunset"},
		{"Puppy", "dog"},
		{"kitten", "cat"},
		{"hiking   trail", "trail"},
		{"Giraffe", "giraffe"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
	assert.Equal(t, Normalize("seashore"), Normalize("ocean"))
}

func TestExpandSearchTerms(t *testing.T) {
	got := ExpandSearchTerms([]string{"pets"})
	assert.Equal(t, []string{"dog", "cat"}, got)

	got = ExpandSearchTerms([]string{"Outdoor", "puppy", "giraffe"})
	assert.Contains(t, got, "sky")
	assert.Contains(t, got, "beach")
	assert.Contains(t, got, "dog")
	assert.Contains(t, got, "giraffe")
	assert.NotContains(t, got, "puppy")
}

func TestExpandSearchTerms_Deduplicates(t *testing.T) {
	got := ExpandSearchTerms([]string{"beach", "ocean", "seashore", "summer"})
	assert.Equal(t, []string{"beach", "swimming pool", "sunset"}, got)
}

func TestExpandSearchTerms_Empty(t *testing.T) {
	assert.Empty(t, ExpandSearchTerms(nil))
	assert.Empty(t, ExpandSearchTerms([]string{" "}))
}
