package probe

import (
	"errors"
	"net/http"
	"time"
)

// errTooManyRedirects marks a probe that exceeded the redirect cap. The
// client wraps it in a *url.Error, so detection goes through errors.Is.
var errTooManyRedirects = errors.New("too many redirects")

const maxRedirects = 10

// newClient builds the one-shot probe client: bounded timeout, redirects
// followed up to the cap, TLS verification left on. Keep-alives are disabled
// because each host is normally hit exactly once per run.
func newClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DisableKeepAlives: true,
		MaxIdleConns:      100,
		IdleConnTimeout:   90 * time.Second,
		ForceAttemptHTTP2: true,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}
}
