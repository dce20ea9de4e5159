package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Basic(t *testing.T) {
	n := New(false)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n ", ""},
		{"punctuation only", "!?.,", ""},
		{"lowercases", "PIZZA", "pizza"},
		{"trims", "  pizza  ", "pizza"},
		{"collapses internal whitespace", "i  like\tpizza", "i like pizza"},
		{"strips trailing punctuation", "pizza!", "pizza"},
		{"strips repeated punctuation", "pizza!?!.,", "pizza"},
		{"strips punctuation after space", "pizza !", "pizza"},
		{"keeps internal punctuation", "rock'n'roll", "rock'n'roll"},
		{"keeps leading punctuation", "!important", "!important"},
		{"combined", "  Pizza!!  ", "pizza"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := New(false)
	assert.Equal(t, n.Normalize("  PiZZa! "), n.Normalize("  PiZZa! "))
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New(false)
	once := n.Normalize("  I LIKE  Pizza!! ")
	assert.Equal(t, once, n.Normalize(once))
}

func TestNormalize_UnicodeCompatibility(t *testing.T) {
	n := New(false)
	// NFKC folds the fullwidth form to plain ASCII.
	assert.Equal(t, "pizza", n.Normalize("ｐｉｚｚａ"))
}

func TestNormalize_Stemming(t *testing.T) {
	n := New(true)

	assert.Equal(t, n.Normalize("dogs"), n.Normalize("dog"))
	assert.Equal(t, n.Normalize("running shoes"), n.Normalize("run shoe"))
}

func TestNormalize_StemmingDisabled(t *testing.T) {
	n := New(false)
	assert.NotEqual(t, n.Normalize("dogs"), n.Normalize("dog"))
}
