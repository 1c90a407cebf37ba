package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"9780306406157", "9780306406157"},
		{"978-0-306-40615-7", "9780306406157"},
		{"ISBN: 978 0 306 40615 7", "9780306406157"},
		{"isbn9780141439518", "9780141439518"},
		{"0-306-40615-2", "9780306406157"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Normalize(tt.input), tt.input)
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Valid("9780306406157"))
	assert.True(t, Valid("9780141439518"))
	assert.False(t, Valid("9780306406158"), "bad check digit")
	assert.False(t, Valid("978030640615"), "too short")
	assert.False(t, Valid("978030640615X"), "letters")
	assert.False(t, Valid(""))
}
