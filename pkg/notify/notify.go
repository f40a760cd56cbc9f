// Package notify delivers digest messages to configured destinations
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
)

// ErrNoDestinations is returned by Multi when nothing is configured
var ErrNoDestinations = errors.New("no notification destinations configured")

//go:generate moq -out ../scheduler/mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// Notifier sends one message
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// Destination is a notifier with a printable, secret-free name
type Destination interface {
	Notifier
	String() string
}

// Multi fans a message out to all destinations, each one retried with exponential backoff.
// Send succeeds only if every destination accepted the message.
type Multi struct {
	dests   []Destination
	retries int
	backoff time.Duration
}

// NewMulti makes a fan-out notifier, retries is the number of attempts per destination
func NewMulti(retries int, backoff time.Duration, dests ...Destination) *Multi {
	if retries < 1 {
		retries = 1
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Multi{dests: dests, retries: retries, backoff: backoff}
}

// Len returns the number of destinations
func (m *Multi) Len() int { return len(m.dests) }

// Send delivers the message to every destination
func (m *Multi) Send(ctx context.Context, title, body string) error {
	if len(m.dests) == 0 {
		return ErrNoDestinations
	}

	var errs []error
	for _, d := range m.dests {
		attempt := 0
		err := repeater.NewBackoff(m.retries, m.backoff).Do(ctx, func() error {
			attempt++
			if err := d.Send(ctx, title, body); err != nil {
				log.Printf("[WARN] send %q to %s failed, attempt %d/%d: %v", title, d, attempt, m.retries, err)
				return err
			}
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
			continue
		}
		log.Printf("[INFO] sent %q to %s", title, d)
	}
	return errors.Join(errs...)
}

// Options tune destinations created by ParseDestinations
type Options struct {
	Timeout time.Duration // per-request timeout of network destinations
}

// ParseDestinations creates destinations from url descriptors. Invalid descriptors are
// logged and skipped, they never stop the other destinations from being used.
func ParseDestinations(descriptors []string, opts Options) []Destination {
	res := make([]Destination, 0, len(descriptors))
	for _, d := range descriptors {
		dest, err := ParseDestination(d, opts)
		if err != nil {
			log.Printf("[ERROR] skip notification destination: %v", err)
			continue
		}
		res = append(res, dest)
	}
	return res
}

// ParseDestination creates a destination from one url descriptor:
// telegram://token@chat, http(s)://webhook, smtp(s)://user:pass@host:port?from=&to=, mailto:// and log://
func ParseDestination(descriptor string, opts Options) (Destination, error) {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return nil, errors.New("empty destination")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	u, err := url.Parse(descriptor)
	if err != nil {
		return nil, fmt.Errorf("parse destination: %w", redact(err))
	}

	switch strings.ToLower(u.Scheme) {
	case "telegram", "tg":
		return newTelegram(u, opts)
	case "http", "https":
		return NewWebhook(descriptor, opts.Timeout), nil
	case "smtp", "smtps", "mailto", "mailtos":
		if strings.Contains(descriptor, "http://") || strings.Contains(descriptor, "https://") {
			log.Printf("[WARN] mail destination %s contains an http address, smtp:// is expected", safeName(u))
		}
		return newEmail(u, opts)
	case "log":
		return &Log{}, nil
	default:
		return nil, fmt.Errorf("unsupported destination scheme %q", u.Scheme)
	}
}

// safeName returns the url without credentials and query
func safeName(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}

// redact drops the url from parse errors, it may contain credentials
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// Log writes messages to the log, useful as a dry run destination
type Log struct{}

// Send logs the message
func (l *Log) Send(_ context.Context, title, body string) error {
	log.Printf("[INFO] notification %q:\n%s", title, body)
	return nil
}

func (l *Log) String() string { return "log" }
