package ignore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPatternsMissingFile(t *testing.T) {
	patterns, err := LoadPatterns(filepath.Join(t.TempDir(), ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, 0, patterns.Len())
}

func TestLoadPatternsSkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	content := "# build output\n\n*.pyc\n  dist/  \n*.pyc\n\t\n# trailing\n/node_modules\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	patterns, err := LoadPatterns(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.pyc", "/node_modules", "dist/"}, patterns.Sorted())
}

func TestLoadPatternsUnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("*.log\n"), 0o000))

	_, err := LoadPatterns(path)
	assert.Error(t, err)
}

func TestLoadForRootAlwaysAddsVCSPattern(t *testing.T) {
	dir := t.TempDir()

	patterns, err := LoadForRoot(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{VCSPattern}, patterns.Sorted())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.txt\n"), 0o644))
	patterns, err = LoadForRoot(dir, "")
	require.NoError(t, err)
	assert.True(t, patterns.Contains("*.txt"))
	assert.True(t, patterns.Contains(VCSPattern))
}

func TestLoadForRootOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.txt\n"), 0o644))
	override := filepath.Join(t.TempDir(), "custom.ignore")
	require.NoError(t, os.WriteFile(override, []byte("*.md\n"), 0o644))

	patterns, err := LoadForRoot(dir, override)
	require.NoError(t, err)
	assert.Equal(t, []string{".git", "*.md"}, patterns.Sorted())
}
