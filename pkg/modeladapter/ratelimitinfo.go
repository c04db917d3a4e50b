package modeladapter

import (
	"net/http"
	"strconv"
	"time"
)

// RateLimitInfo is the remaining provider quota as last reported by response
// headers.
type RateLimitInfo struct {
	RemainingRequests int
	RemainingTokens   int
	RequestsReset     time.Time
	TokensReset       time.Time
}

// ResumeAt returns when the next request may be sent without tripping the
// provider's limit. It is the zero time when there is quota left.
func (i *RateLimitInfo) ResumeAt(now time.Time) time.Time {
	var at time.Time
	if i == nil {
		return at
	}

	for _, q := range []struct {
		remaining int
		reset     time.Time
	}{
		{i.RemainingRequests, i.RequestsReset},
		{i.RemainingTokens, i.TokensReset},
	} {
		if q.remaining <= 1 && q.reset.After(now) && q.reset.After(at) {
			at = q.reset
		}
	}

	return at
}

// RateLimitInfoReporter exposes the quota seen on the latest response.
type RateLimitInfoReporter interface {
	LastRateLimitInfo() *RateLimitInfo
}

// RateLimitHeaderParser reads quota headers. now anchors relative reset values.
type RateLimitHeaderParser func(h http.Header, now time.Time) *RateLimitInfo

// OpenAI-compatible quota headers. DeepSeek uses the same names when it sends
// them at all.
const (
	hdrRemainingRequests = "x-ratelimit-remaining-requests"
	hdrRemainingTokens   = "x-ratelimit-remaining-tokens"
	hdrResetRequests     = "x-ratelimit-reset-requests"
	hdrResetTokens       = "x-ratelimit-reset-tokens"
)

// ParseOpenAIRateLimitHeaders returns nil when neither remaining header is
// present.
func ParseOpenAIRateLimitHeaders(h http.Header, now time.Time) *RateLimitInfo {
	reqs, toks := h.Get(hdrRemainingRequests), h.Get(hdrRemainingTokens)
	if reqs == "" && toks == "" {
		return nil
	}

	return &RateLimitInfo{
		RemainingRequests: atoiOr(reqs, 0),
		RemainingTokens:   atoiOr(toks, 0),
		RequestsReset:     parseResetTime(h.Get(hdrResetRequests), now),
		TokensReset:       parseResetTime(h.Get(hdrResetTokens), now),
	}
}

func atoiOr(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// parseResetTime accepts an RFC 3339 instant or a duration such as "6s" or
// "1m30s" counted from now.
func parseResetTime(val string, now time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t
	}
	if d, err := time.ParseDuration(val); err == nil {
		return now.Add(d)
	}
	return time.Time{}
}
