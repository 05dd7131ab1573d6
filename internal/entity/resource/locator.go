// Package resource resolves filter, baseline and plugin-list references and
// materializes their bytes into the per-build working directory.
package resource

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/metrics"
)

// Reference names a resource: a classpath name, a URL or a filesystem path.
type Reference string

// Resolved is a materialized copy of a resource inside the destination directory.
type Resolved struct {
	Reference Reference
	Path      string
	// Strategy is the name of the strategy that located the resource.
	Strategy string
	// Origin describes where the bytes came from, credentials redacted.
	Origin string
	Size   int64
}

// EmptyPolicy decides what happens to a located resource with zero bytes.
type EmptyPolicy string

const (
	// EmptyKeep materializes the empty file and logs a warning.
	EmptyKeep EmptyPolicy = "keep"
	// EmptySkip treats the feature as absent.
	EmptySkip EmptyPolicy = "skip"
	// EmptyFail fails with *EmptyError.
	EmptyFail EmptyPolicy = "fail"
)

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(loc *Locator) { loc.logger = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(c metrics.Collector) Option {
	return func(loc *Locator) { loc.metrics = c }
}

// WithEmptyPolicy sets the empty resource policy. The default is EmptyKeep.
func WithEmptyPolicy(p EmptyPolicy) Option {
	return func(loc *Locator) { loc.empty = p }
}

// Locator tries its strategies in a fixed order; the first one that yields
// bytes wins.
type Locator struct {
	strategies []Strategy
	empty      EmptyPolicy
	logger     logging.Logger
	metrics    metrics.Collector

	mu sync.Mutex
	// claimed maps a destination path to the reference that owns it.
	claimed map[string]Reference
	// names maps destDir+reference to its destination path.
	names map[string]string
}

// NewLocator returns a Locator over strategies, tried in the given order.
func NewLocator(strategies []Strategy, opts ...Option) *Locator {
	l := &Locator{
		strategies: strategies,
		empty:      EmptyKeep,
		logger:     logging.NopLogger{},
		metrics:    metrics.NopCollector{},
		claimed:    make(map[string]Reference),
		names:      make(map[string]string),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// DefaultStrategies returns the classpath, URL and file strategies in
// lookup order.
func DefaultStrategies(cp *ClasspathStrategy, u *URLStrategy, f *FileStrategy) []Strategy {
	return []Strategy{cp, u, f}
}

// Resolve locates ref and copies its bytes into destDir.
//
// A blank reference yields (nil, nil). When no strategy finds the reference
// the result is *NotFoundError and destDir is left untouched. When copying
// fails the result is *CopyError.
func (l *Locator) Resolve(ctx context.Context, ref Reference, destDir string) (*Resolved, error) {
	ref = Reference(strings.TrimSpace(string(ref)))
	if ref == "" {
		return nil, nil
	}

	var attempts []string
	for _, s := range l.strategies {
		rc, origin, err := s.Lookup(ctx, ref)
		if errors.Is(err, ErrNotFound) {
			attempts = append(attempts, s.Name()+": "+err.Error())
			continue
		}
		if err != nil {
			l.metrics.RecordResource(s.Name(), false)
			return nil, &CopyError{Reference: ref, Origin: s.Name(), Err: err}
		}

		res, err := l.materialize(rc, ref, s.Name(), origin, destDir)
		_ = rc.Close()
		l.metrics.RecordResource(s.Name(), err == nil)
		return res, err
	}

	l.metrics.RecordResource("none", false)
	return nil, &NotFoundError{Reference: ref, Attempts: attempts}
}

// ResolveList resolves a comma-delimited list of references. Blank items
// are ignored, as are resources skipped by the empty policy.
func (l *Locator) ResolveList(ctx context.Context, list string, destDir string) ([]*Resolved, error) {
	var out []*Resolved
	for _, item := range strings.Split(list, ",") {
		res, err := l.Resolve(ctx, Reference(item), destDir)
		if err != nil {
			return nil, err
		}
		if res != nil {
			out = append(out, res)
		}
	}
	return out, nil
}

// Paths returns the destination paths of resolved resources.
func Paths(rs []*Resolved) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Path)
	}
	return out
}

// PathOf returns the destination path or "" for an absent resource.
func PathOf(r *Resolved) string {
	if r == nil {
		return ""
	}
	return r.Path
}

func (l *Locator) materialize(rc io.Reader, ref Reference, strategy, origin, destDir string) (*Resolved, error) {
	br := bufio.NewReader(rc)
	if _, err := br.Peek(1); err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, &CopyError{Reference: ref, Origin: origin, Err: err}
		}
		switch l.empty {
		case EmptySkip:
			l.logger.Warn("Пустой ресурс пропущен", "reference", string(ref), "origin", origin)
			return nil, nil
		case EmptyFail:
			return nil, &EmptyError{Reference: ref, Origin: origin}
		default:
			l.logger.Warn("Ресурс пуст, передаётся движку как есть", "reference", string(ref), "origin", origin)
		}
	}

	dest := l.destination(ref, destDir)
	size, err := publish(br, dest)
	if err != nil {
		return nil, &CopyError{Reference: ref, Origin: origin, Err: err}
	}

	l.logger.Debug("Ресурс материализован",
		"reference", string(ref),
		"strategy", strategy,
		"origin", origin,
		"path", dest,
		"bytes", size,
	)
	return &Resolved{Reference: ref, Path: dest, Strategy: strategy, Origin: origin, Size: size}, nil
}

// destination assigns a file name in destDir. The first reference claims the
// plain base name; a different reference with the same base name gets a
// suffix derived from its own text. The same reference always gets the
// same path.
func (l *Locator) destination(ref Reference, destDir string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := destDir + "\x00" + string(ref)
	if p, ok := l.names[key]; ok {
		return p
	}

	name := baseName(ref)
	dest := filepath.Join(destDir, name)
	if owner, taken := l.claimed[dest]; taken && owner != ref {
		sum := sha256.Sum256([]byte(ref))
		ext := path.Ext(name)
		dest = filepath.Join(destDir, strings.TrimSuffix(name, ext)+"-"+hex.EncodeToString(sum[:4])+ext)
	}
	l.claimed[dest] = ref
	l.names[key] = dest
	return dest
}

// publish writes r to a temp file next to dest and renames it into place,
// so a partially written resource is never visible under dest.
func publish(r io.Reader, dest string) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, constants.DirPermStandard); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		cleanup()
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return 0, err
	}
	if err := os.Chmod(tmpName, constants.FilePermReadWrite); err != nil {
		cleanup()
		return 0, err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return 0, err
	}
	return n, nil
}
