package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWholeWord_SubstringRejected(t *testing.T) {
	assert.False(t, IsWholeWord("javascript", "java"))
	assert.False(t, IsWholeWord("typescript2", "typescript"))
	assert.False(t, IsWholeWord("golang", "go"))
}

func TestIsWholeWord_PunctuationBoundary(t *testing.T) {
	assert.True(t, IsWholeWord("i love java!", "java"))
	assert.True(t, IsWholeWord("fix: resolve typescript errors", "typescript"))
	assert.True(t, IsWholeWord("(react)", "react"))
}

func TestIsWholeWord_ExactString(t *testing.T) {
	assert.True(t, IsWholeWord("java", "java"))
}

func TestIsWholeWord_LaterOccurrenceSucceeds(t *testing.T) {
	// The first occurrence fails the boundary test; the scan must continue
	// to the standalone occurrence.
	assert.True(t, IsWholeWord("javascript and java", "java"))
	assert.True(t, IsWholeWord("gopher go", "go"))
}

func TestIsWholeWord_EmptyInputs(t *testing.T) {
	assert.False(t, IsWholeWord("", "java"))
	assert.False(t, IsWholeWord("java", ""))
	assert.False(t, IsWholeWord("", ""))
}

func TestIsWholeWord_WordLongerThanText(t *testing.T) {
	assert.False(t, IsWholeWord("go", "golang"))
}

func TestIsWholeWord_DigitsAreWordCharacters(t *testing.T) {
	assert.False(t, IsWholeWord("python3", "python"))
	assert.True(t, IsWholeWord("python 3", "python"))
}
