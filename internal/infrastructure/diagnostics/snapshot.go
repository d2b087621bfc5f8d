package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/example/fumoto-monitor/internal/domain/page"
)

// Snapshots writes a screenshot and the gzip'd page source into Dir. Either
// half may fail on its own; Capture reports an error only when both do.
type Snapshots struct {
	Dir string
	Now func() time.Time
}

func (s Snapshots) Capture(ctx context.Context, p page.Page, label string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	base := filepath.Join(s.Dir, fmt.Sprintf("%s-%s-%s", label, now().Format("20060102-150405"), uuid.NewString()[:8]))

	var errs []error
	written := ""
	if png, err := p.Screenshot(ctx); err != nil {
		errs = append(errs, fmt.Errorf("screenshot: %w", err))
	} else if err := os.WriteFile(base+".png", png, 0o644); err != nil {
		errs = append(errs, err)
	} else {
		written = base + ".png"
	}

	if html, err := p.Source(ctx); err != nil {
		errs = append(errs, fmt.Errorf("page source: %w", err))
	} else if err := writeGzip(base+".html.gz", html); err != nil {
		errs = append(errs, err)
	} else if written == "" {
		written = base + ".html.gz"
	}

	if written == "" {
		return "", errors.Join(errs...)
	}
	return written, nil
}

func writeGzip(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(content)); err != nil {
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
