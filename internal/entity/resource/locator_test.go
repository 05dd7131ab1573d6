package resource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"
	"github.com/Kargones/findbugs-ci/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCollector struct {
	resources []string
}

func (r *recordingCollector) RecordCommand(string, time.Duration, bool) {}
func (r *recordingCollector) RecordAnalysis(string, time.Duration, int) {}
func (r *recordingCollector) Push(context.Context) error                { return nil }
func (r *recordingCollector) RecordResource(strategy string, ok bool) {
	status := "ok"
	if !ok {
		status = "fail"
	}
	r.resources = append(r.resources, strategy+":"+status)
}

type failingStrategy struct{ err error }

func (failingStrategy) Name() string { return "broken" }
func (s failingStrategy) Lookup(context.Context, Reference) (io.ReadCloser, string, error) {
	return nil, "", s.err
}

func newTestLocator(t *testing.T, cp *ClasspathStrategy, baseDir string, opts ...Option) *Locator {
	t.Helper()
	if cp == nil {
		cp = NewClasspathStrategy()
	}
	return NewLocator(DefaultStrategies(cp, NewURLStrategy(5*time.Second), &FileStrategy{BaseDir: baseDir}), opts...)
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

func TestResolve_ClasspathOnly(t *testing.T) {
	cp := NewClasspathStrategy(fstest.MapFS{
		"rules/exclude.xml": {Data: []byte("<FindBugsFilter/>")},
	})
	dest := filepath.Join(t.TempDir(), "findbugs")
	loc := newTestLocator(t, cp, t.TempDir())

	res, err := loc.Resolve(context.Background(), "rules/exclude.xml", dest)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "classpath", res.Strategy)
	assert.Equal(t, filepath.Join(dest, "exclude.xml"), res.Path)
	assert.Equal(t, "<FindBugsFilter/>", readFile(t, res.Path))
	assert.Equal(t, int64(len("<FindBugsFilter/>")), res.Size)
}

func TestResolve_ClasspathWinsOverFile(t *testing.T) {
	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{"filter.xml": "from-file"})
	cp := NewClasspathStrategy(fstest.MapFS{"filter.xml": {Data: []byte("from-classpath")}})

	res, err := newTestLocator(t, cp, base).Resolve(context.Background(), "filter.xml", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "from-classpath", readFile(t, res.Path))
}

func TestResolve_ClasspathPrefixAndJar(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "rules.jar")
	testutil.WriteJar(t, jar, map[string]string{"META-INF/findbugs/include.xml": "<FindBugsFilter><Match/></FindBugsFilter>"})

	cp, err := OpenClasspath([]string{filepath.Join(dir, "absent"), jar})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cp.Close() })

	res, err := newTestLocator(t, cp, dir).Resolve(context.Background(), "classpath:/META-INF/findbugs/include.xml", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "<FindBugsFilter><Match/></FindBugsFilter>", readFile(t, res.Path))
	assert.Equal(t, "include.xml", filepath.Base(res.Path))
}

func TestResolve_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/filters/exclude.xml" {
			_, _ = io.WriteString(w, "<FindBugsFilter/>")
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	loc := newTestLocator(t, nil, t.TempDir())
	dest := t.TempDir()

	ref := Reference(strings.Replace(srv.URL, "http://", "http://ci:secret@", 1) + "/filters/exclude.xml")
	res, err := loc.Resolve(context.Background(), ref, dest)
	require.NoError(t, err)
	assert.Equal(t, "url", res.Strategy)
	assert.Equal(t, "<FindBugsFilter/>", readFile(t, res.Path))
	assert.NotContains(t, res.Origin, "secret")

	_, err = loc.Resolve(context.Background(), Reference(srv.URL+"/missing.xml"), dest)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Contains(t, nf.Error(), "HTTP 404")
}

func TestResolve_FileURLAndRelativePath(t *testing.T) {
	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{"conf/baseline.xml": "<BugCollection/>"})
	loc := newTestLocator(t, nil, base)
	dest := t.TempDir()

	res, err := loc.Resolve(context.Background(), "conf/baseline.xml", dest)
	require.NoError(t, err)
	assert.Equal(t, "file", res.Strategy)
	assert.Equal(t, "<BugCollection/>", readFile(t, res.Path))

	fileURL := "file://" + filepath.ToSlash(filepath.Join(base, "conf", "baseline.xml"))
	res, err = loc.Resolve(context.Background(), Reference(fileURL), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "url", res.Strategy)
	assert.Equal(t, "<BugCollection/>", readFile(t, res.Path))
}

func TestResolve_SourceNeverMutated(t *testing.T) {
	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{"exclude.xml": "original"})
	loc := newTestLocator(t, nil, base)

	res, err := loc.Resolve(context.Background(), "exclude.xml", filepath.Join(base, "target", "findbugs"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(res.Path, []byte("changed"), 0o644))

	assert.Equal(t, "original", readFile(t, filepath.Join(base, "exclude.xml")))
}

func TestResolve_NotFoundLeavesDestinationUntouched(t *testing.T) {
	coll := &recordingCollector{}
	dest := filepath.Join(t.TempDir(), "findbugs")
	loc := newTestLocator(t, nil, t.TempDir(), WithMetrics(coll))

	res, err := loc.Resolve(context.Background(), "rules/missing.xml", dest)
	require.Error(t, err)
	assert.Nil(t, res)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Len(t, nf.Attempts, 3)
	assert.Equal(t, apperrors.ErrResourceNotFound, apperrors.CodeOf(err, ""))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrResourceNotFound, appErr.Code)

	assert.Nil(t, testutil.ListDir(t, dest))
	assert.Equal(t, []string{"none:fail"}, coll.resources)
}

func TestResolve_CopyFailureDoesNotFallBack(t *testing.T) {
	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{"exclude.xml": "x", "blocker": "i am a file"})
	loc := newTestLocator(t, nil, base)

	// destination parent is a regular file, so the directory cannot be created
	_, err := loc.Resolve(context.Background(), "exclude.xml", filepath.Join(base, "blocker", "findbugs"))
	var ce *CopyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, apperrors.ErrResourceCopy, apperrors.CodeOf(err, ""))

	boom := errors.New("permission denied")
	loc = NewLocator([]Strategy{failingStrategy{err: boom}, &FileStrategy{BaseDir: base}})
	_, err = loc.Resolve(context.Background(), "exclude.xml", t.TempDir())
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, boom)
}

func TestResolve_CollidingNames(t *testing.T) {
	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{
		"a/baseline.xml": "first",
		"b/baseline.xml": "second",
	})
	loc := newTestLocator(t, nil, base)
	dest := t.TempDir()

	r1, err := loc.Resolve(context.Background(), "a/baseline.xml", dest)
	require.NoError(t, err)
	r2, err := loc.Resolve(context.Background(), "b/baseline.xml", dest)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("b/baseline.xml"))
	assert.Equal(t, filepath.Join(dest, "baseline.xml"), r1.Path)
	assert.Equal(t, filepath.Join(dest, "baseline-"+hex.EncodeToString(sum[:4])+".xml"), r2.Path)
	assert.Equal(t, "first", readFile(t, r1.Path))
	assert.Equal(t, "second", readFile(t, r2.Path))
}

func TestResolve_Idempotent(t *testing.T) {
	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{"exclude.xml": "v1"})
	loc := newTestLocator(t, nil, base)
	dest := t.TempDir()

	r1, err := loc.Resolve(context.Background(), "exclude.xml", dest)
	require.NoError(t, err)

	testutil.WriteTree(t, base, map[string]string{"exclude.xml": "v2"})
	r2, err := loc.Resolve(context.Background(), "exclude.xml", dest)
	require.NoError(t, err)

	assert.Equal(t, r1.Path, r2.Path)
	assert.Equal(t, "v2", readFile(t, r2.Path))
	assert.Equal(t, []string{"exclude.xml"}, testutil.ListDir(t, dest))
}

func TestResolve_Blank(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "findbugs")
	res, err := newTestLocator(t, nil, "").Resolve(context.Background(), "   ", dest)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Nil(t, testutil.ListDir(t, dest))
}

func TestResolveList(t *testing.T) {
	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{"one.xml": "1", "two.xml": "2"})
	loc := newTestLocator(t, nil, base)

	rs, err := loc.ResolveList(context.Background(), " one.xml, ,two.xml,", t.TempDir())
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, []string{"one.xml", "two.xml"}, []string{filepath.Base(rs[0].Path), filepath.Base(rs[1].Path)})
	assert.Len(t, Paths(rs), 2)

	_, err = loc.ResolveList(context.Background(), "one.xml,missing.xml", t.TempDir())
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, Reference("missing.xml"), nf.Reference)
}

func TestResolve_EmptyPolicy(t *testing.T) {
	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{"empty.xml": ""})

	t.Run("keep", func(t *testing.T) {
		res, err := newTestLocator(t, nil, base).Resolve(context.Background(), "empty.xml", t.TempDir())
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, int64(0), res.Size)
		assert.Equal(t, "", readFile(t, res.Path))
	})
	t.Run("skip", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "findbugs")
		res, err := newTestLocator(t, nil, base, WithEmptyPolicy(EmptySkip)).Resolve(context.Background(), "empty.xml", dest)
		require.NoError(t, err)
		assert.Nil(t, res)
		assert.Nil(t, testutil.ListDir(t, dest))
	})
	t.Run("fail", func(t *testing.T) {
		_, err := newTestLocator(t, nil, base, WithEmptyPolicy(EmptyFail)).Resolve(context.Background(), "empty.xml", t.TempDir())
		var ee *EmptyError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, apperrors.ErrResourceEmpty, apperrors.CodeOf(err, ""))
	})
}

func TestBaseName(t *testing.T) {
	tests := map[Reference]string{
		"rules/exclude.xml":                   "exclude.xml",
		"classpath:/META-INF/include.xml":     "include.xml",
		"https://host/a/b/baseline.xml?rev=2": "baseline.xml",
		`C:\work\filters\exclude.xml`:         "exclude.xml",
		"https://host/":                       "resource",
		"plugins.jar":                         "plugins.jar",
	}
	for ref, want := range tests {
		assert.Equal(t, want, baseName(ref), string(ref))
	}
}
