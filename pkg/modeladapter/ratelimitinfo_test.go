package modeladapter_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/germanamz/pdfask/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOpenAIRateLimitHeaders_AllHeaders(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	h := http.Header{}
	h.Set("x-ratelimit-remaining-requests", "59")
	h.Set("x-ratelimit-remaining-tokens", "89000")
	h.Set("x-ratelimit-reset-requests", "1s")
	h.Set("x-ratelimit-reset-tokens", "6m0s")

	info := modeladapter.ParseOpenAIRateLimitHeaders(h, now)
	require.NotNil(t, info)
	assert.Equal(t, 59, info.RemainingRequests)
	assert.Equal(t, 89000, info.RemainingTokens)
	assert.Equal(t, now.Add(time.Second), info.RequestsReset)
	assert.Equal(t, now.Add(6*time.Minute), info.TokensReset)
}

func TestParseOpenAIRateLimitHeaders_RFC3339Reset(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	reset := now.Add(30 * time.Second)

	h := http.Header{}
	h.Set("x-ratelimit-remaining-requests", "0")
	h.Set("x-ratelimit-reset-requests", reset.Format(time.RFC3339))

	info := modeladapter.ParseOpenAIRateLimitHeaders(h, now)
	require.NotNil(t, info)
	assert.Equal(t, reset, info.RequestsReset)
	assert.True(t, info.TokensReset.IsZero())
}

func TestParseOpenAIRateLimitHeaders_NoHeaders(t *testing.T) {
	assert.Nil(t, modeladapter.ParseOpenAIRateLimitHeaders(http.Header{}, time.Now()))
}

func TestParseOpenAIRateLimitHeaders_GarbageReset(t *testing.T) {
	h := http.Header{}
	h.Set("x-ratelimit-remaining-tokens", "10")
	h.Set("x-ratelimit-reset-tokens", "whenever")

	info := modeladapter.ParseOpenAIRateLimitHeaders(h, time.Now())
	require.NotNil(t, info)
	assert.True(t, info.TokensReset.IsZero())
}

func TestRateLimitInfo_ResumeAt(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	var none *modeladapter.RateLimitInfo
	assert.True(t, none.ResumeAt(now).IsZero())

	plenty := &modeladapter.RateLimitInfo{RemainingRequests: 40, RemainingTokens: 9000, RequestsReset: now.Add(time.Second)}
	assert.True(t, plenty.ResumeAt(now).IsZero())

	spent := &modeladapter.RateLimitInfo{
		RemainingRequests: 0,
		RemainingTokens:   1,
		RequestsReset:     now.Add(2 * time.Second),
		TokensReset:       now.Add(5 * time.Second),
	}
	assert.Equal(t, now.Add(5*time.Second), spent.ResumeAt(now))

	stale := &modeladapter.RateLimitInfo{RequestsReset: now.Add(-time.Second)}
	assert.True(t, stale.ResumeAt(now).IsZero())
}
