package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReasonableMatch_ExactNormalized(t *testing.T) {
	assert.True(t, IsReasonableMatch("react.js", "React.js"))
	assert.True(t, IsReasonableMatch("Node JS", "node.js"))
	assert.True(t, IsReasonableMatch("go", "Go"))
}

func TestIsReasonableMatch_PrefixWithinRatio(t *testing.T) {
	// "react" vs "reactjs": 7 <= 5*1.5.
	assert.True(t, IsReasonableMatch("react", "React.js"))
	assert.True(t, IsReasonableMatch("postgres", "PostgreSQL"))
}

func TestIsReasonableMatch_PrefixRatioExceeded(t *testing.T) {
	// "java" is a prefix of "javascript" but the length ratio is 2.5.
	assert.False(t, IsReasonableMatch("java", "JavaScript"))
}

func TestIsReasonableMatch_WholeWordInsideName(t *testing.T) {
	assert.True(t, IsReasonableMatch("rails", "Ruby on Rails"))
	assert.True(t, IsReasonableMatch("native", "React Native"))
}

func TestIsReasonableMatch_ShortTermAgainstLongName(t *testing.T) {
	// "go" buried inside an unrelated multi-word name: no whole-word hit,
	// and the substring ratio 2/16 is below the floor.
	assert.False(t, IsReasonableMatch("go", "Google Analytics"))
}

func TestIsReasonableMatch_TypoDistance(t *testing.T) {
	assert.True(t, IsReasonableMatch("kuberntes", "Kubernetes"))
	assert.True(t, IsReasonableMatch("javascrpt", "JavaScript"))
}

func TestIsReasonableMatch_Unrelated(t *testing.T) {
	assert.False(t, IsReasonableMatch("rust", "JavaScript"))
	assert.False(t, IsReasonableMatch("docker", "PostgreSQL"))
}

func TestIsReasonableMatch_EmptyInputs(t *testing.T) {
	assert.False(t, IsReasonableMatch("", "Go"))
	assert.False(t, IsReasonableMatch("go", ""))
}
