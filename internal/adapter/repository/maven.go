package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/urlutil"
	"github.com/ProtonMail/go-crypto/openpgp"
)

// maxSignatureSize ограничивает размер .asc файла.
const maxSignatureSize = 64 << 10

// Config — параметры MavenResolver.
type Config struct {
	// Local — корень локального репозитория.
	Local string
	// Remotes — базовые URL удалённых репозиториев, опрашиваются по порядку.
	Remotes []string
	// Keyring — путь к armored keyring с доверенными ключами.
	Keyring string
	// VerifySignatures — проверять .asc подписи скачанных артефактов.
	VerifySignatures bool
	// HTTPTimeout — таймаут одного HTTP запроса.
	HTTPTimeout time.Duration
	// MaxRetries — повторы для сетевых ошибок и 5xx.
	MaxRetries int
	// RetryBackoff — начальная задержка между повторами.
	RetryBackoff time.Duration
}

// MavenResolver разрешает координаты по Maven-раскладке: сначала в локальном
// репозитории, затем скачивая артефакт из удалённых в локальный.
type MavenResolver struct {
	cfg     Config
	client  *http.Client
	keyring openpgp.EntityList
	logger  logging.Logger
}

// Compile-time проверка реализации интерфейса.
var _ Resolver = (*MavenResolver)(nil)

// NewMavenResolver создаёт MavenResolver. При VerifySignatures загружает keyring.
func NewMavenResolver(cfg Config, logger logging.Logger) (*MavenResolver, error) {
	if cfg.Local == "" {
		return nil, errors.New("не задан локальный репозиторий")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	r := &MavenResolver{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
		logger: logger,
	}
	if cfg.VerifySignatures {
		kr, err := readKeyring(cfg.Keyring)
		if err != nil {
			return nil, err
		}
		r.keyring = kr
	}
	return r, nil
}

func readKeyring(path string) (openpgp.EntityList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть keyring: %w", err)
	}
	defer f.Close()

	kr, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать keyring %s: %w", path, err)
	}
	if len(kr) == 0 {
		return nil, fmt.Errorf("keyring %s не содержит ключей", path)
	}
	return kr, nil
}

// Resolve реализует Resolver.
func (r *MavenResolver) Resolve(ctx context.Context, coords []Coordinate) (map[Coordinate]string, error) {
	out := make(map[Coordinate]string, len(coords))
	for _, c := range coords {
		p, err := r.resolveOne(ctx, c)
		if err != nil {
			return nil, &ResolutionError{Coordinate: c, Err: err}
		}
		out[c] = p
	}
	return out, nil
}

func (r *MavenResolver) resolveOne(ctx context.Context, c Coordinate) (string, error) {
	rel := c.RelPath()
	local := filepath.Join(r.cfg.Local, filepath.FromSlash(rel))

	if fi, err := os.Stat(local); err == nil && fi.Mode().IsRegular() {
		r.logger.Debug("Артефакт найден в локальном репозитории", "coordinate", c.String(), "path", local)
		return local, nil
	}
	if len(r.cfg.Remotes) == 0 {
		return "", fmt.Errorf("отсутствует в %s, удалённые репозитории не заданы", r.cfg.Local)
	}

	var errs []error
	for _, remote := range r.cfg.Remotes {
		u := strings.TrimSuffix(remote, "/") + "/" + rel
		err := r.fetch(ctx, u, local)
		if err == nil {
			r.logger.Info("Артефакт скачан",
				"coordinate", c.String(),
				"url", urlutil.RedactUserinfo(u),
				"path", local,
			)
			return local, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", urlutil.MaskURL(remote), err))
		if errors.Is(err, ErrSignature) || ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}

// fetch скачивает u во временный файл рядом с dest, при необходимости
// проверяет подпись и атомарно публикует файл.
func (r *MavenResolver) fetch(ctx context.Context, u, dest string) error {
	body, err := r.getWithRetry(ctx, u)
	if err != nil {
		return err
	}
	defer body.Close()

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, constants.DirPermStandard); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".part-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	published := false
	defer func() {
		if !published {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("загрузка прервана: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	var sig []byte
	if r.cfg.VerifySignatures {
		sig, err = r.verify(ctx, u, tmpName)
		if err != nil {
			return err
		}
	}

	if err := os.Rename(tmpName, dest); err != nil {
		return err
	}
	published = true

	if sig != nil {
		if err := os.WriteFile(dest+".asc", sig, constants.FilePermReadWrite); err != nil {
			r.logger.Warn("Не удалось сохранить подпись", "path", dest+".asc", "error", err.Error())
		}
	}
	return nil
}

func (r *MavenResolver) verify(ctx context.Context, u, file string) ([]byte, error) {
	body, err := r.getWithRetry(ctx, u+".asc")
	if err != nil {
		return nil, fmt.Errorf("%w: подпись недоступна: %v", ErrSignature, err)
	}
	sig, err := io.ReadAll(io.LimitReader(body, maxSignatureSize))
	_ = body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignature, err)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	signer, err := openpgp.CheckArmoredDetachedSignature(r.keyring, f, bytes.NewReader(sig), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignature, err)
	}
	r.logger.Debug("Подпись проверена",
		"url", urlutil.RedactUserinfo(u),
		"key", fmt.Sprintf("%X", signer.PrimaryKey.Fingerprint),
	)
	return sig, nil
}

// getWithRetry выполняет GET с повторами для сетевых ошибок и 5xx.
// 4xx не ретраятся: артефакта в этом репозитории нет.
func (r *MavenResolver) getWithRetry(ctx context.Context, u string) (io.ReadCloser, error) {
	var lastErr error
	backoff := r.cfg.RetryBackoff
	const maxBackoff = 4 * time.Second

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
			}
			r.logger.Debug("Повтор загрузки артефакта",
				"attempt", attempt,
				"max_retries", r.cfg.MaxRetries,
				"error", lastErr.Error(),
				"url", urlutil.MaskURL(u),
			)
		}

		body, err := r.get(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if isClientHTTPError(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("все %d попыток неуспешны: %w", r.cfg.MaxRetries+1, lastErr)
}

func (r *MavenResolver) get(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "findbugs-ci/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))
		_ = resp.Body.Close()
		return nil, &httpError{StatusCode: resp.StatusCode, URL: urlutil.RedactUserinfo(u)}
	}
	return resp.Body, nil
}
