package feed

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/domain"
)

//go:generate moq -out ../scheduler/mocks/feed_parser.go -pkg mocks -skip-ensure -fmt goimports . FeedParser

// FeedParser fetches and parses a single feed
type FeedParser interface {
	Parse(ctx context.Context, url string) (*domain.ParsedFeed, error)
}

// Source is a configured feed, Feed is set once the source passed validation
type Source struct {
	URL  string
	Name string
	Feed *domain.ParsedFeed
}

// ErrorKind classifies fetch failures for retry decisions
type ErrorKind int

// error kinds
const (
	KindOther ErrorKind = iota
	KindTransient
	KindParse
	KindStatus
	KindTLS
	KindCanceled
)

// Validator probes sources and keeps the ones that respond with a parseable feed.
// A dropped source is dropped for the current run only.
type Validator struct {
	Parser         FeedParser
	MaxRetries     int           // retries for transient network errors
	TransientDelay time.Duration // delay before retrying a transient error
	ParseDelay     time.Duration // delay before the single retry of parse and status errors
}

// NewValidator makes a validator with the default delays
func NewValidator(parser FeedParser, maxRetries int) *Validator {
	return &Validator{Parser: parser, MaxRetries: maxRetries, TransientDelay: 2 * time.Second, ParseDelay: time.Second}
}

// Validate fetches every source and returns the valid ones with their parsed feeds, in input order.
// Blank and duplicate addresses are skipped.
func (v *Validator) Validate(ctx context.Context, sources []Source) []Source {
	res := make([]Source, 0, len(sources))
	seen := map[string]bool{}
	for _, src := range sources {
		url := strings.TrimSpace(src.URL)
		if url == "" {
			log.Printf("[WARN] skip feed %q with empty url", src.Name)
			continue
		}
		if seen[url] {
			log.Printf("[DEBUG] skip duplicate feed %s", url)
			continue
		}
		seen[url] = true

		feed, err := v.probe(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("[WARN] feed validation interrupted: %v", ctx.Err())
				return res
			}
			log.Printf("[WARN] feed %s (%s) unavailable, skipped for this run: %v", src.Name, url, err)
			continue
		}
		src.URL, src.Feed = url, feed
		res = append(res, src)
	}
	log.Printf("[INFO] %d of %d feeds valid", len(res), len(sources))
	return res
}

// probe fetches one url, retry budget and delay depend on the error kind
func (v *Validator) probe(ctx context.Context, url string) (*domain.ParsedFeed, error) {
	for attempt := 1; ; attempt++ {
		feed, err := v.Parser.Parse(ctx, url)
		if err == nil {
			return feed, nil
		}

		var retries int
		var delay time.Duration
		kind := ClassifyError(err)
		switch kind {
		case KindTransient:
			retries, delay = v.MaxRetries, v.TransientDelay
		case KindParse, KindStatus:
			retries, delay = 1, v.ParseDelay
		default:
			retries = 0
		}
		if attempt > retries {
			return nil, err
		}
		log.Printf("[DEBUG] feed %s attempt %d failed, retry in %v: %v", url, attempt, delay, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// ClassifyError maps a fetch error to its retry class
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindOther
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Transient() {
			return KindTransient
		}
		return KindStatus
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return KindParse
	}

	if isTLSError(err) {
		return KindTLS
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransient // timeouts, refused and reset connections, dns failures
	}
	return KindOther
}

func isTLSError(err error) bool {
	var (
		verifyErr   *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		unknownAuth x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidCert x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &verifyErr), errors.As(err, &recordErr), errors.As(err, &unknownAuth),
		errors.As(err, &hostnameErr), errors.As(err, &invalidCert):
		return true
	}
	return strings.Contains(err.Error(), "tls: ")
}
