package fetchutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/fetchutil")

type Kind int

const (
	// the request did not complete within the client's timeout
	Timeout Kind = iota
	// the server answered with a non-2xx status
	HTTP
	// everything else: dns, refused connections, broken transfers
	Network
)

func (k Kind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case HTTP:
		return "http"
	default:
		return "network"
	}
}

// Error is the failure of a single fetch attempt. there are no retries,
// the caller decides whether to skip the item, the year or the profile.
type Error struct {
	URL    string
	Kind   Kind
	Status int
	cause  error
}

func (e *Error) Error() string {
	if e.Kind == HTTP {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	if e.cause != nil {
		return fmt.Sprintf("fetch %s: %s: %s", e.URL, e.Kind, e.cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func classify(err error) Kind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	return Network
}

// Fetch performs a single GET and returns the response body. a non-2xx
// status is an error just like a transport failure.
func Fetch(ctx context.Context, client *resty.Client, url string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	res, err := client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		fe := &Error{URL: url, Kind: classify(err), cause: err}
		span.RecordError(fe)
		span.SetStatus(codes.Error, "request failed")
		return nil, fe
	}
	if res.IsError() {
		fe := &Error{URL: url, Kind: HTTP, Status: res.StatusCode()}
		span.RecordError(fe)
		span.SetStatus(codes.Error, "bad status")
		return nil, fe
	}

	return res.Body(), nil
}

// FetchDocument fetches a page and parses it with goquery.
func FetchDocument(ctx context.Context, client *resty.Client, url string) (*goquery.Document, error) {
	body, err := Fetch(ctx, client, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
