package sqltree

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Downloader fetches the SQL grammar source and compiles it into a shared
// library that Grammar can dlopen. Requires git and a C compiler on PATH.
type Downloader struct {
	cacheDir  string
	compilers []string
}

func NewDownloader(cacheDir string) *Downloader {
	if cacheDir == "" {
		if dataDir := nameguardDataDir(); dataDir != "" {
			cacheDir = filepath.Join(dataDir, "grammars")
		}
	}
	return &Downloader{
		cacheDir:  cacheDir,
		compilers: []string{"cc", "clang", "gcc"},
	}
}

func (d *Downloader) CacheDir() string {
	return d.cacheDir
}

func (d *Downloader) IsInstalled() bool {
	_, err := os.Stat(d.libraryPath())
	return err == nil
}

// EnsureGrammar returns the path of the compiled grammar library, building
// it first when missing.
func (d *Downloader) EnsureGrammar() (string, error) {
	return d.EnsureGrammarContext(context.Background())
}

func (d *Downloader) EnsureGrammarContext(ctx context.Context) (string, error) {
	libPath := d.libraryPath()
	if _, err := os.Stat(libPath); err == nil {
		return libPath, nil
	}

	if err := os.MkdirAll(d.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("%w: create cache dir: %v", ErrDownloadFailed, err)
	}

	compiler := d.findCompiler()
	if compiler == "" {
		return "", fmt.Errorf("%w: no C compiler on PATH (tried %s)",
			ErrCompileFailed, strings.Join(d.compilers, ", "))
	}

	sourceDir, err := d.cloneGrammar(ctx)
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(sourceDir)

	return d.compile(ctx, sourceDir, compiler)
}

func (d *Downloader) libraryPath() string {
	return filepath.Join(d.cacheDir, grammarLibName())
}

func (d *Downloader) findCompiler() string {
	for _, name := range d.compilers {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func (d *Downloader) cloneGrammar(ctx context.Context) (string, error) {
	tmpDir, err := os.MkdirTemp("", "nameguard-grammar-*")
	if err != nil {
		return "", err
	}

	repoURL := "https://" + GrammarRepository + ".git"
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth=1", repoURL, tmpDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("%w: git clone %s: %s: %v",
			ErrDownloadFailed, repoURL, strings.TrimSpace(string(output)), err)
	}

	return tmpDir, nil
}

func (d *Downloader) compile(ctx context.Context, sourceDir, compiler string) (string, error) {
	srcPath := filepath.Join(sourceDir, "src", "parser.c")
	if _, err := os.Stat(srcPath); err != nil {
		return "", fmt.Errorf("%w: parser.c not found under %s", ErrCompileFailed, sourceDir)
	}

	libPath := d.libraryPath()
	args := []string{
		"-shared",
		"-fPIC",
		"-O2",
		"-I" + filepath.Dir(srcPath),
		"-o", libPath,
		srcPath,
	}
	if scanner := filepath.Join(filepath.Dir(srcPath), "scanner.c"); fileExists(scanner) {
		args = append(args, scanner)
	}

	cmd := exec.CommandContext(ctx, compiler, args...)
	cmd.Dir = sourceDir
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrCompileFailed, strings.TrimSpace(string(output)), err)
	}

	return libPath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
