package resource

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kargones/findbugs-ci/internal/pkg/urlutil"
)

// ClasspathPrefix may prefix a reference to make the classpath lookup explicit.
const ClasspathPrefix = "classpath:"

// maxErrorBody caps how much of a failed HTTP response is kept for diagnostics.
const maxErrorBody = 1 << 10

// Strategy locates the bytes behind a reference.
//
// Lookup returns ErrNotFound (possibly wrapped) when the reference is not
// this strategy's to satisfy. Any other error means the resource was found
// but could not be opened.
type Strategy interface {
	Name() string
	Lookup(ctx context.Context, ref Reference) (rc io.ReadCloser, origin string, err error)
}

// ClasspathStrategy treats the reference as a logical name inside a list of
// search roots (directories or jar archives), searched in order.
type ClasspathStrategy struct {
	roots   []fs.FS
	closers []io.Closer
}

// NewClasspathStrategy searches the given file systems in order.
func NewClasspathStrategy(roots ...fs.FS) *ClasspathStrategy {
	return &ClasspathStrategy{roots: roots}
}

// OpenClasspath opens directories and jar/zip files as search roots.
// Missing roots are skipped. Close releases opened archives.
func OpenClasspath(paths []string) (*ClasspathStrategy, error) {
	s := &ClasspathStrategy{}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		if fi.IsDir() {
			s.roots = append(s.roots, os.DirFS(p))
			continue
		}
		zr, err := zip.OpenReader(p)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open search root %s: %w", p, err)
		}
		s.roots = append(s.roots, zr)
		s.closers = append(s.closers, zr)
	}
	return s, nil
}

// Close releases archives opened by OpenClasspath.
func (s *ClasspathStrategy) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Name implements Strategy.
func (s *ClasspathStrategy) Name() string { return "classpath" }

// Lookup implements Strategy.
func (s *ClasspathStrategy) Lookup(_ context.Context, ref Reference) (io.ReadCloser, string, error) {
	name := strings.TrimPrefix(string(ref), ClasspathPrefix)
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	if !fs.ValidPath(name) || name == "." {
		return nil, "", fmt.Errorf("%w: not a classpath name", ErrNotFound)
	}
	for i, root := range s.roots {
		fi, err := fs.Stat(root, name)
		if err != nil || fi.IsDir() {
			continue
		}
		f, err := root.Open(name)
		if err != nil {
			return nil, "", err
		}
		return f, fmt.Sprintf("classpath[%d]:%s", i, name), nil
	}
	return nil, "", fmt.Errorf("%w: not in %d search roots", ErrNotFound, len(s.roots))
}

// URLStrategy fetches http, https and file URLs.
type URLStrategy struct {
	client *http.Client
}

// NewURLStrategy returns a URLStrategy whose requests time out after timeout.
func NewURLStrategy(timeout time.Duration) *URLStrategy {
	return &URLStrategy{client: &http.Client{Timeout: timeout}}
}

// Name implements Strategy.
func (s *URLStrategy) Name() string { return "url" }

// Lookup implements Strategy. A failed fetch counts as not found so that
// the filesystem strategy still gets its turn.
func (s *URLStrategy) Lookup(ctx context.Context, ref Reference) (io.ReadCloser, string, error) {
	u, err := url.Parse(string(ref))
	if err != nil || !u.IsAbs() {
		return nil, "", fmt.Errorf("%w: not a URL", ErrNotFound)
	}

	switch u.Scheme {
	case "file":
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		f, err := openRegular(filepath.FromSlash(p))
		if err != nil {
			return nil, "", err
		}
		return f, u.String(), nil
	case "http", "https":
	default:
		return nil, "", fmt.Errorf("%w: unsupported scheme %q", ErrNotFound, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	req.Header.Set("User-Agent", "findbugs-ci/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		return nil, "", fmt.Errorf("%w: HTTP %d %s", ErrNotFound, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.Body, urlutil.RedactUserinfo(u.String()), nil
}

// FileStrategy treats the reference as a filesystem path. Relative paths
// are resolved against BaseDir.
type FileStrategy struct {
	BaseDir string
}

// Name implements Strategy.
func (s *FileStrategy) Name() string { return "file" }

// Lookup implements Strategy.
func (s *FileStrategy) Lookup(_ context.Context, ref Reference) (io.ReadCloser, string, error) {
	p := string(ref)
	if !filepath.IsAbs(p) && s.BaseDir != "" {
		p = filepath.Join(s.BaseDir, p)
	}
	f, err := openRegular(p)
	if err != nil {
		return nil, "", err
	}
	return f, p, nil
}

// openRegular opens p, mapping a missing file or a directory to ErrNotFound.
func openRegular(p string) (*os.File, error) {
	fi, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrNotFound, p)
	}
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, p)
	}
	return os.Open(p)
}

// baseName derives the destination file name for a reference.
func baseName(ref Reference) string {
	s := strings.TrimPrefix(string(ref), ClasspathPrefix)
	if u, err := url.Parse(s); err == nil && u.IsAbs() && len(u.Scheme) > 1 {
		s = u.Path
	}
	s = strings.ReplaceAll(s, `\`, "/")
	name := path.Base(s)
	if name == "." || name == "/" || name == "" {
		return "resource"
	}
	return name
}
