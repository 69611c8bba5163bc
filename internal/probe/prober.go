// Package probe resolves one URL at a time to a classified result. Check is
// total: every input line maps to exactly one record, and no error or panic
// escapes past the package boundary.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"urlcheck/internal/domain"
	"urlcheck/internal/ratelimit"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Options parameterize a prober. The same core serves the general checker,
// the kayako-style checker, and the retest pass.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Markers      []domain.Marker
	DNSPrecheck  bool
	HeadFirst    bool
	Binary       bool // collapse statuses to Active/Inactive (retest pass)
	MaxBodyBytes int64
}

// Prober checks single URLs. Safe for concurrent use.
type Prober struct {
	opts    Options
	client  *http.Client
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

func New(opts Options, limiter *ratelimit.Limiter, logger *zap.Logger) *Prober {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 2 << 20
	}
	if limiter == nil {
		limiter = ratelimit.New(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		opts:    opts,
		client:  newClient(opts.Timeout),
		limiter: limiter,
		logger:  logger,
	}
}

// StripComment removes a trailing #-comment from an input line.
func StripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Normalize prepends https:// when the line carries no scheme.
func Normalize(line string) string {
	if !strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://") {
		return "https://" + line
	}
	return line
}

// Check classifies one input line. Blank lines and header tokens short-circuit
// to a skipped record without touching the network or the rate limiter.
func (p *Prober) Check(ctx context.Context, line string) (rec domain.Result) {
	original := StripComment(strings.TrimSpace(line))

	defer func() {
		if r := recover(); r != nil {
			rec = domain.Result{
				URL:          original,
				Status:       domain.StatusUnknownError,
				HTTPCode:     domain.CodeUnknownError,
				ErrorMessage: truncate(fmt.Sprint(r), 150),
				ErrorType:    domain.TypeUnknownError,
			}
			if p.opts.Binary {
				rec = binaryResult(rec, p.opts.Timeout)
			}
		}
	}()

	if p.opts.Binary {
		if original == "" {
			return domain.Result{
				URL:          original,
				Status:       domain.StatusInactive,
				HTTPCode:     domain.CodeNA,
				ErrorMessage: "Empty URL",
			}
		}
	} else if original == "" || domain.IsHeaderToken(original) {
		return domain.Result{
			URL:          original,
			Status:       domain.StatusSkipped,
			HTTPCode:     domain.CodeNA,
			ErrorMessage: "Empty or header line",
			ErrorType:    domain.TypeNA,
		}
	}

	rec = domain.Result{URL: original, NormalizedURL: Normalize(original)}

	if err := p.limiter.Acquire(ctx); err != nil {
		return p.classifyError(rec, err)
	}

	if p.opts.DNSPrecheck {
		if failed, ok := p.precheckDNS(ctx, rec); !ok {
			return failed
		}
	}

	resp, err := p.fetch(ctx, rec.NormalizedURL)
	if err != nil {
		return p.classifyError(rec, err)
	}
	defer resp.Body.Close()

	return p.classifyResponse(rec, resp)
}

// precheckDNS resolves the host before the HTTP attempt. Only a definitive
// not-found answer fails the record; an ambiguous resolver error is treated
// as indeterminate and the HTTP attempt proceeds.
func (p *Prober) precheckDNS(ctx context.Context, rec domain.Result) (domain.Result, bool) {
	u, err := url.Parse(rec.NormalizedURL)
	if err != nil || u.Hostname() == "" {
		return rec, true
	}
	_, err = net.DefaultResolver.LookupHost(ctx, u.Hostname())
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		rec.Status = domain.StatusDNSError
		rec.HTTPCode = domain.CodeNA
		rec.ErrorMessage = "DNS Error: " + truncate(dnsErr.Error(), 100)
		rec.ErrorType = domain.TypeDNS
		return rec, false
	}
	return rec, true
}

// fetch issues the probe request. With HeadFirst set it tries HEAD and falls
// back to GET only when the HEAD attempt timed out.
func (p *Prober) fetch(ctx context.Context, target string) (*http.Response, error) {
	if p.opts.HeadFirst {
		resp, err := p.do(ctx, http.MethodHead, target)
		if err == nil {
			return resp, nil
		}
		if !isTimeout(err) {
			return nil, err
		}
		p.logger.Debug("HEAD timed out, falling back to GET", zap.String("url", target))
	}
	return p.do(ctx, http.MethodGet, target)
}

func (p *Prober) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)
	return p.client.Do(req)
}

// classifyResponse maps a completed response to a record. Marker phrases win
// over the numeric status: an error page served with a 200 is still an error.
func (p *Prober) classifyResponse(rec domain.Result, resp *http.Response) domain.Result {
	code := resp.StatusCode
	rec.HTTPCode = strconv.Itoa(code)

	if len(p.opts.Markers) > 0 && resp.Request.Method != http.MethodHead {
		body, err := io.ReadAll(io.LimitReader(resp.Body, p.opts.MaxBodyBytes))
		if err != nil {
			return p.classifyError(rec, err)
		}
		if m, ok := matchMarker(body, p.opts.Markers); ok {
			rec.Status = m.Status
			rec.ErrorMessage = m.Phrase
			rec.ErrorType = m.ErrorType
			if p.opts.Binary {
				return binaryResult(rec, p.opts.Timeout)
			}
			return rec
		}
	}

	switch {
	case code >= 200 && code < 400:
		rec.Status = domain.StatusWorking
		rec.ErrorType = domain.TypeSuccess
	case code >= 400:
		rec.Status = domain.HTTPStatus(code)
		rec.ErrorMessage = fmt.Sprintf("HTTP Error %d", code)
		rec.ErrorType = domain.TypeHTTP
	default:
		rec.Status = domain.StatusUnknown
		rec.ErrorMessage = fmt.Sprintf("Unexpected status code: %d", code)
		rec.ErrorType = domain.TypeUnknown
	}

	if p.opts.Binary {
		return binaryResult(rec, p.opts.Timeout)
	}
	return rec
}

// matchMarker searches both the raw body and its extracted visible text, so
// markup inside a phrase cannot mask the match.
func matchMarker(body []byte, markers []domain.Marker) (domain.Marker, bool) {
	raw := strings.ToLower(string(body))
	visible := ""
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		visible = strings.ToLower(doc.Text())
	}
	for _, m := range markers {
		phrase := strings.ToLower(m.Phrase)
		if strings.Contains(raw, phrase) || strings.Contains(visible, phrase) {
			return m, true
		}
	}
	return domain.Marker{}, false
}

// binaryResult collapses the detailed classification into the Active/Inactive
// pair the retest CSV uses.
func binaryResult(rec domain.Result, timeout time.Duration) domain.Result {
	switch {
	case rec.Status == domain.StatusWorking:
		rec.Status = domain.StatusActive
		rec.ErrorMessage = ""
	case strings.HasPrefix(string(rec.Status), "HTTP"):
		rec.Status = domain.StatusInactive
		rec.ErrorMessage = "HTTP " + rec.HTTPCode
	case rec.Status == domain.StatusUnknown:
		rec.Status = domain.StatusInactive
		rec.ErrorMessage = "HTTP " + rec.HTTPCode
	case rec.Status == domain.StatusTimeout:
		rec.Status = domain.StatusInactive
		rec.ErrorMessage = fmt.Sprintf("Request timeout after %ds", int(timeout.Seconds()))
	case rec.Status == domain.StatusSSLError:
		rec.Status = domain.StatusInactive
		rec.ErrorMessage = "SSL/Certificate error"
	case rec.Status == domain.StatusDNSError:
		rec.Status = domain.StatusInactive
		rec.ErrorMessage = "DNS resolution failed"
	case rec.Status == domain.StatusConnectionRefused:
		rec.Status = domain.StatusInactive
		rec.HTTPCode = domain.CodeRefused
		rec.ErrorMessage = "Connection refused by server"
	case rec.Status == domain.StatusConnectionError:
		rec.Status = domain.StatusInactive
		rec.ErrorMessage = "Connection failed"
	case rec.Status == domain.StatusRedirectError:
		rec.Status = domain.StatusInactive
		rec.ErrorMessage = "Too many redirects"
	default:
		rec.Status = domain.StatusInactive
	}
	return rec
}
