package domain

import (
	"strconv"
	"strings"
	"time"
)

// Status is the named bucket a checked URL lands in.
type Status string

const (
	StatusSkipped             Status = "Skipped"
	StatusWorking             Status = "Working"
	StatusErrorPage           Status = "Error Page"
	StatusSiteUnreachable     Status = "Site Unreachable"
	StatusInstanceUnavailable Status = "Instance unavailable"
	StatusUnknown             Status = "Unknown Status"
	StatusTimeout             Status = "Timeout"
	StatusSSLError            Status = "SSL Error"
	StatusDNSError            Status = "DNS Error"
	StatusConnectionRefused   Status = "Connection Refused"
	StatusConnectionError     Status = "Connection Error"
	StatusRedirectError       Status = "Redirect Error"
	StatusRequestError        Status = "Request Error"
	StatusUnknownError        Status = "Unknown Error"

	// Retest (binary) statuses used by the merge pass.
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// HTTPStatus builds the per-code bucket, e.g. "HTTP 404".
func HTTPStatus(code int) Status {
	return Status("HTTP " + strconv.Itoa(code))
}

// Sentinel values for the HTTP Code column when no numeric code was obtained.
const (
	CodeNA              = "N/A"
	CodeTimeout         = "Timeout"
	CodeSSLError        = "SSL Error"
	CodeDNSError        = "DNS Error"
	CodeConnectionError = "Connection Error"
	CodeRefused         = "Connection Refused"
	CodeRedirectError   = "Redirect Error"
	CodeRequestError    = "Request Error"
	CodeUnknownError    = "Unknown Error"
)

// Error type labels, kept as a separate column for grouping in the report.
const (
	TypeNA           = "N/A"
	TypeSuccess      = "Success"
	TypeApplication  = "Application Error"
	TypeHTTP         = "HTTP Error"
	TypeTimeout      = "Timeout"
	TypeSSL          = "SSL Error"
	TypeDNS          = "DNS Error"
	TypeConnection   = "Connection Error"
	TypeRedirect     = "Redirect Error"
	TypeRequest      = "Request Error"
	TypeUnknown      = "Unknown"
	TypeUnknownError = "Unknown Error"
)

// Result is the classified outcome for one input line. It is created by the
// prober and read-only afterwards; the retest pass overwrites matching CSV
// rows rather than mutating live records.
type Result struct {
	URL           string
	NormalizedURL string
	Status        Status
	HTTPCode      string
	ErrorMessage  string
	ErrorType     string
}

// Skipped reports whether the record was produced without any network I/O.
func (r Result) Skipped() bool {
	return r.Status == StatusSkipped
}

// Marker is a known error-page phrase embedded in an otherwise ordinary
// response body. A match wins over the numeric HTTP status.
type Marker struct {
	Phrase    string
	Status    Status
	ErrorType string
}

const (
	OopsErrorMessage   = "Oops, something has gone wrong. Please try again later while we try and fix this."
	KayakoErrorMessage = "Either this Kayako instance does not exist or we are facing temporary problems. Please try again in a few minutes"
	UnreachableMessage = "site can't be reached"
)

// GeneralMarkers are the error-page phrases checked by the general profile.
func GeneralMarkers() []Marker {
	return []Marker{
		{Phrase: OopsErrorMessage, Status: StatusErrorPage, ErrorType: TypeApplication},
		{Phrase: UnreachableMessage, Status: StatusSiteUnreachable, ErrorType: TypeConnection},
	}
}

// KayakoMarkers are the phrases checked by the kayako profile.
func KayakoMarkers() []Marker {
	return []Marker{
		{Phrase: KayakoErrorMessage, Status: StatusInstanceUnavailable, ErrorType: TypeApplication},
	}
}

// headerTokens are first-line column labels that must not be probed.
var headerTokens = map[string]struct{}{
	"url":           {},
	"domain":        {},
	"instance name": {},
}

// IsHeaderToken reports whether a trimmed input line is a recognized list
// header rather than a URL.
func IsHeaderToken(line string) bool {
	_, ok := headerTokens[strings.ToLower(strings.TrimSpace(line))]
	return ok
}

// Summary aggregates results into the report buckets. The buckets are
// keyword views over the Status/ErrorType strings, so the counts match the
// keyword-based report rather than a strict partition; Other absorbs
// whatever matched none.
type Summary struct {
	Total           int
	Working         int
	ErrorPage       int
	DNSErrors       int
	Timeouts        int
	ConnectionError int
	HTTPErrors      int
	Skipped         int
	Other           int
	Elapsed         time.Duration
}

// Summarize buckets results by substring matching against the status and
// error-type fields.
func Summarize(results []Result, elapsed time.Duration) Summary {
	s := Summary{Total: len(results), Elapsed: elapsed}
	for _, r := range results {
		status := string(r.Status)
		switch {
		case r.Status == StatusWorking:
			s.Working++
		case r.Status == StatusErrorPage:
			s.ErrorPage++
		case strings.Contains(status, "DNS") || strings.Contains(r.ErrorType, "DNS"):
			s.DNSErrors++
		case r.Status == StatusTimeout:
			s.Timeouts++
		case strings.Contains(status, "Connection") || strings.Contains(r.ErrorType, "Connection"):
			s.ConnectionError++
		case strings.HasPrefix(status, "HTTP"):
			s.HTTPErrors++
		case r.Status == StatusSkipped:
			s.Skipped++
		default:
			s.Other++
		}
	}
	return s
}

// Rate returns the average throughput in URLs per second.
func (s Summary) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Total) / s.Elapsed.Seconds()
}

// Progress is a point-in-time view of a running check, served by the status
// API and logged by the dispatcher.
type Progress struct {
	Completed int64   `json:"completed"`
	Total     int64   `json:"total"`
	Percent   float64 `json:"percent"`
	Rate      float64 `json:"rate"`
	ETASecs   float64 `json:"eta_seconds"`
}
