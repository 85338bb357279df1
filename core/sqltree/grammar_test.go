package sqltree

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Grammar Tests
// =============================================================================

func TestGrammarLibName_PerPlatform(t *testing.T) {
	name := grammarLibName()

	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, "libtree-sitter-sql.dylib", name)
	case "windows":
		assert.Equal(t, "tree-sitter-sql.dll", name)
	default:
		assert.Equal(t, "libtree-sitter-sql.so", name)
	}
}

func TestGrammar_NotInstalledInEmptyDir(t *testing.T) {
	g := NewGrammar(WithTrustedDir(t.TempDir()))

	// An empty trusted dir in front changes nothing if the default dirs
	// happen to hold a grammar, so only assert the negative case.
	if g.Installed() {
		t.Skip("grammar installed in a default search dir")
	}

	_, err := g.Language()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGrammarNotFound))
	assert.Empty(t, g.LibraryPath())
}

func TestGrammar_FindsLibraryInTrustedDir(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, grammarLibName())
	require.NoError(t, os.WriteFile(libPath, []byte("not a real library"), 0o644))

	g := NewGrammar(WithTrustedDir(dir))
	assert.True(t, g.Installed())

	// The file is not a loadable library, so Language must fail with the
	// load error, not the not-found error.
	_, err := g.Language()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGrammarLoadFailed))
}

func TestDownloader_DefaultCacheDir(t *testing.T) {
	d := NewDownloader("")
	assert.NotEmpty(t, d.CacheDir())

	custom := NewDownloader("/tmp/grammars")
	assert.Equal(t, "/tmp/grammars", custom.CacheDir())
}

func TestWithDownloader_AddsCacheDirToSearchPath(t *testing.T) {
	dir := t.TempDir()
	d := NewDownloader(dir)
	g := NewGrammar(WithDownloader(d))

	require.NotEmpty(t, g.trustedDirs)
	assert.Equal(t, dir, g.trustedDirs[0])
}

// =============================================================================
// Parser Tests
// =============================================================================

// loadedLanguage skips when no compiled SQL grammar is installed locally.
func loadedLanguage(t *testing.T) *Grammar {
	t.Helper()

	g := NewGrammar()
	if !g.Installed() {
		t.Skip("sql grammar library not installed")
	}
	return g
}

func TestParser_ParseWellFormedStatement(t *testing.T) {
	g := loadedLanguage(t)
	lang, err := g.Language()
	require.NoError(t, err)

	parser, err := NewParser(lang)
	require.NoError(t, err)
	defer parser.Close()

	tree, err := parser.Parse([]byte("SELECT id FROM orders"))
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	require.NotNil(t, root)
	assert.False(t, root.HasError())
	assert.Nil(t, tree.FirstError())
}

func TestParser_FirstErrorOnMalformedStatement(t *testing.T) {
	g := loadedLanguage(t)
	lang, err := g.Language()
	require.NoError(t, err)

	parser, err := NewParser(lang)
	require.NoError(t, err)
	defer parser.Close()

	tree, err := parser.Parse([]byte("SELECT * FROM"))
	require.NoError(t, err)
	defer tree.Close()

	assert.NotNil(t, tree.FirstError())
}

func TestNode_ContentIsVerbatim(t *testing.T) {
	g := loadedLanguage(t)
	lang, err := g.Language()
	require.NoError(t, err)

	parser, err := NewParser(lang)
	require.NoError(t, err)
	defer parser.Close()

	source := []byte("SELECT total FROM payments")
	tree, err := parser.Parse(source)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, string(source), root.Content())
	assert.Equal(t, uint(0), root.StartByte())
	assert.Equal(t, uint(len(source)), root.EndByte())
}
