package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFiltered(t *testing.T) {
	// inclusion
	assert.True(t, IsFiltered("file.py", "*.py", "", false))
	assert.False(t, IsFiltered("file.txt", "*.py", "", false))

	// exclusion wins
	assert.False(t, IsFiltered("file.py", "*.py", "*.py", false))
	assert.True(t, IsFiltered("file.py", "*.py", "*.txt", false))

	// case sensitivity
	assert.True(t, IsFiltered("FILE.PY", "*.py", "", false))
	assert.False(t, IsFiltered("FILE.PY", "*.py", "", true))
	assert.True(t, IsFiltered("file.py", "*.PY", "", false))

	// no include pattern includes everything not excluded
	assert.True(t, IsFiltered("file.py", "", "*.txt", false))
	assert.False(t, IsFiltered("file.txt", "", "*.txt", false))

	// no exclude pattern excludes nothing
	assert.True(t, IsFiltered("file.py", "*.py", "", false))
	assert.True(t, IsFiltered("file.txt", "*.txt", "", false))
}

func TestIsFilteredNoRestrictions(t *testing.T) {
	for _, p := range []string{"a.go", "deep/dir/b.bin", "", "UPPER.TXT"} {
		assert.True(t, IsFiltered(p, "", "", false), p)
		assert.True(t, IsFiltered(p, " , ,", ",", true), p)
	}
}

func TestFilenameMatchingIgnoresDirectories(t *testing.T) {
	assert.True(t, IsFiltered("src/pkg/main.go", "*.go", "", false))
	assert.False(t, IsFiltered("src/ignore_me.py", "", "ignore_me.py", false))
	assert.True(t, IsFiltered("src/keep.py", "", "ignore_me.py", false))
}

func TestDoubleStarMatchesRelativePath(t *testing.T) {
	spec, err := New("src/**/*.go", "**/testdata/**", false)
	require.NoError(t, err)

	assert.True(t, spec.Match("src/main.go"))
	assert.True(t, spec.Match("src/a/b/c.go"))
	assert.False(t, spec.Match("cmd/main.go"))
	assert.False(t, spec.Match("src/testdata/fixture.go"))
	assert.False(t, spec.Match("src/a/testdata/b/fixture.go"))
}

func TestSplitPatterns(t *testing.T) {
	assert.Equal(t, []string{"*.py", "*.md"}, SplitPatterns(" *.PY , ,*.md,", false))
	assert.Equal(t, []string{"*.PY"}, SplitPatterns("*.PY", true))
	assert.Nil(t, SplitPatterns("", false))
}

func TestNewRejectsInvalidGlob(t *testing.T) {
	_, err := New("[abc", "", false)
	assert.Error(t, err)

	spec, err := New("*.go", "vendor/**", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.go"}, spec.Include)
	assert.Equal(t, []string{"vendor/**"}, spec.Exclude)
	assert.False(t, spec.IsZero())
	assert.True(t, Spec{}.IsZero())
}
