package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	"urlcheck/internal/domain"
)

// classifyError maps a request-layer failure to a record. Precedence:
// timeout, TLS/certificate, name resolution, refused, redirect cap, other
// connection failures, other request errors, everything else.
func (p *Prober) classifyError(rec domain.Result, err error) domain.Result {
	switch {
	case isTimeout(err):
		rec.Status = domain.StatusTimeout
		rec.HTTPCode = domain.CodeTimeout
		rec.ErrorMessage = "Request timeout - site did not respond"
		rec.ErrorType = domain.TypeTimeout
	case isCertificateError(err):
		rec.Status = domain.StatusSSLError
		rec.HTTPCode = domain.CodeSSLError
		rec.ErrorMessage = "SSL Certificate error: " + truncate(err.Error(), 100)
		rec.ErrorType = domain.TypeSSL
	case isDNSError(err):
		rec.Status = domain.StatusDNSError
		rec.HTTPCode = domain.CodeDNSError
		rec.ErrorMessage = "DNS_PROBE_FINISHED_NXDOMAIN"
		rec.ErrorType = domain.TypeDNS
	case isRefused(err):
		rec.Status = domain.StatusConnectionRefused
		rec.HTTPCode = domain.CodeConnectionError
		rec.ErrorMessage = "Connection refused - site not responding"
		rec.ErrorType = domain.TypeConnection
	case errors.Is(err, errTooManyRedirects):
		rec.Status = domain.StatusRedirectError
		rec.HTTPCode = domain.CodeRedirectError
		rec.ErrorMessage = "Too many redirects"
		rec.ErrorType = domain.TypeRedirect
	case isConnectionError(err):
		rec.Status = domain.StatusConnectionError
		rec.HTTPCode = domain.CodeConnectionError
		rec.ErrorMessage = "Connection failed: " + truncate(err.Error(), 100)
		rec.ErrorType = domain.TypeConnection
	case isRequestError(err):
		rec.Status = domain.StatusRequestError
		rec.HTTPCode = domain.CodeRequestError
		rec.ErrorMessage = truncate(err.Error(), 150)
		rec.ErrorType = domain.TypeRequest
	default:
		rec.Status = domain.StatusUnknownError
		rec.HTTPCode = domain.CodeUnknownError
		rec.ErrorMessage = truncate(err.Error(), 150)
		rec.ErrorType = domain.TypeUnknownError
	}

	if p.opts.Binary {
		return binaryResult(rec, p.opts.Timeout)
	}
	return rec
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return true
	}
	var invalid x509.CertificateInvalidError
	if errors.As(err, &invalid) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "certificate") || strings.Contains(msg, "tls:")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "name or service not known") ||
		strings.Contains(msg, "nodename nor servname")
}

func isRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}

func isRequestError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
