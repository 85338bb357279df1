// Package sqltree provides cgo-free tree-sitter SQL parsing via purego.
// The grammar itself (DerekStride/tree-sitter-sql) is loaded from a shared
// library at runtime; the package only implements the traversal surface the
// rest of nameguard needs.
package sqltree

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// GrammarName is the tree-sitter grammar identifier. The exported symbol in
// the shared library is tree_sitter_sql.
const GrammarName = "sql"

// GrammarRepository is the upstream source used by the downloader.
const GrammarRepository = "github.com/DerekStride/tree-sitter-sql"

// Grammar owns a loaded SQL grammar library and hands out *sitter.Language
// values backed by it. A Grammar is safe for concurrent use; the underlying
// library is loaded at most once.
type Grammar struct {
	trustedDirs []string
	downloader  *Downloader

	mu        sync.Mutex
	libHandle uintptr
	langPtr   unsafe.Pointer
	libPath   string
}

type GrammarOption func(*Grammar)

// WithTrustedDir prepends a directory to the library search path.
func WithTrustedDir(dir string) GrammarOption {
	return func(g *Grammar) {
		if abs, err := filepath.Abs(dir); err == nil {
			g.trustedDirs = append([]string{abs}, g.trustedDirs...)
		}
	}
}

// WithDownloader enables fetching and compiling the grammar when no
// installed library is found.
func WithDownloader(d *Downloader) GrammarOption {
	return func(g *Grammar) {
		g.downloader = d
		if d != nil {
			g.trustedDirs = append([]string{d.CacheDir()}, g.trustedDirs...)
		}
	}
}

func NewGrammar(opts ...GrammarOption) *Grammar {
	g := &Grammar{trustedDirs: defaultTrustedDirs()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func defaultTrustedDirs() []string {
	dirs := []string{}

	if dataDir := nameguardDataDir(); dataDir != "" {
		grammarDir := filepath.Join(dataDir, "grammars")
		if abs, err := filepath.Abs(grammarDir); err == nil {
			dirs = append(dirs, abs)
		}
	}

	switch runtime.GOOS {
	case "darwin":
		dirs = append(dirs, "/opt/homebrew/lib", "/usr/local/lib")
	case "linux":
		dirs = append(dirs, "/usr/lib", "/usr/local/lib")
	}

	return dirs
}

func nameguardDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "nameguard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "nameguard")
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, "nameguard")
		}
		return filepath.Join(home, "AppData", "Roaming", "nameguard")
	default:
		return filepath.Join(home, ".local", "share", "nameguard")
	}
}

// Language loads the grammar library if necessary and returns a language
// handle for parser and query construction.
func (g *Grammar) Language() (*sitter.Language, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.langPtr != nil {
		return sitter.NewLanguage(g.langPtr), nil
	}

	libPath, err := g.findLibrary()
	if err != nil {
		if g.downloader == nil {
			return nil, err
		}
		libPath, err = g.downloader.EnsureGrammar()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGrammarNotFound, err)
		}
	}

	if err := g.openLibrary(libPath); err != nil {
		return nil, err
	}
	return sitter.NewLanguage(g.langPtr), nil
}

// Installed reports whether a grammar library is present without loading it.
func (g *Grammar) Installed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.langPtr != nil {
		return true
	}
	_, err := g.findLibrary()
	return err == nil
}

// LibraryPath returns the path of the loaded library, empty before Language
// succeeds.
func (g *Grammar) LibraryPath() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.libPath
}

func (g *Grammar) findLibrary() (string, error) {
	libName := grammarLibName()
	for _, dir := range g.trustedDirs {
		path := filepath.Join(dir, libName)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return path, nil
	}
	return "", fmt.Errorf("%w: %s not present in %v", ErrGrammarNotFound, libName, g.trustedDirs)
}

func (g *Grammar) openLibrary(libPath string) error {
	lib, err := purego.Dlopen(libPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("%w: dlopen %s: %v", ErrGrammarLoadFailed, libPath, err)
	}

	var langFunc func() unsafe.Pointer
	purego.RegisterLibFunc(&langFunc, lib, "tree_sitter_"+GrammarName)

	ptr := langFunc()
	if ptr == nil {
		purego.Dlclose(lib)
		return fmt.Errorf("%w: tree_sitter_%s returned null", ErrGrammarLoadFailed, GrammarName)
	}

	g.libHandle = lib
	g.langPtr = ptr
	g.libPath = libPath
	return nil
}

func grammarLibName() string {
	switch runtime.GOOS {
	case "darwin":
		return "libtree-sitter-" + GrammarName + ".dylib"
	case "windows":
		return "tree-sitter-" + GrammarName + ".dll"
	default:
		return "libtree-sitter-" + GrammarName + ".so"
	}
}
