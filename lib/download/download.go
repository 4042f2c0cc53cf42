// Package download fetches binary assets to deterministic local paths,
// treating a non-empty destination file as an already completed
// download across runs.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"egzamin-backend/lib/fetchutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/download")

type Error struct {
	URL   string
	Dest  string
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("download %s -> %s: %s", e.URL, e.Dest, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// EnsureLocal returns dest once the asset at url exists there. when
// dest already holds a non-empty file no request is made at all.
// nothing is ever left behind at dest on failure: the body is written
// to a sibling temp file and renamed into place only when complete.
func EnsureLocal(ctx context.Context, client *resty.Client, url, dest string) (string, error) {
	ctx, span := tracer.Start(ctx, "EnsureLocal")
	defer span.End()

	info, err := os.Stat(dest)
	if err == nil && info.Size() > 0 {
		return dest, nil
	}

	err = os.MkdirAll(filepath.Dir(dest), 0o755)
	if err != nil {
		return "", &Error{URL: url, Dest: dest, cause: err}
	}

	body, err := fetchutil.Fetch(ctx, client, url)
	if err != nil {
		span.SetStatus(codes.Error, "fetch failed")
		return "", &Error{URL: url, Dest: dest, cause: err}
	}

	part := dest + ".part"
	err = os.WriteFile(part, body, 0o644)
	if err != nil {
		os.Remove(part)
		span.SetStatus(codes.Error, "write failed")
		return "", &Error{URL: url, Dest: dest, cause: err}
	}
	err = os.Rename(part, dest)
	if err != nil {
		os.Remove(part)
		span.SetStatus(codes.Error, "rename failed")
		return "", &Error{URL: url, Dest: dest, cause: err}
	}

	return dest, nil
}
