package modeladapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/chat"
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ modeladapter.Completer = modeladapter.CompleterFunc(nil)

func TestCompleterFunc(t *testing.T) {
	f := modeladapter.CompleterFunc(func(_ context.Context, c *chat.Chat) (message.Message, error) {
		last, _ := c.Last()
		return message.New(role.Assistant, "echo: "+last.Content, time.Now()), nil
	})

	got, err := f.Complete(context.Background(), chat.New(message.New(role.User, "hello", time.Now())))
	require.NoError(t, err)
	assert.Equal(t, role.Assistant, got.Role)
	assert.Equal(t, "echo: hello", got.Content)
}

func TestNew_DefaultClient(t *testing.T) {
	a := modeladapter.New("https://api.example.com/v1/chat/completions", "", nil)
	assert.Nil(t, a.Client)
}

func TestNewRequest_BearerAuth(t *testing.T) {
	a := modeladapter.New("https://api.example.com/v1/chat/completions", "sk-test", nil)

	req, err := a.NewRequest(context.Background(), http.MethodPost, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/chat/completions", req.URL.String())
	assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
}

func TestNewRequest_NoAuth(t *testing.T) {
	a := modeladapter.New("https://api.example.com", "", nil)

	req, err := a.NewRequest(context.Background(), http.MethodPost, nil)
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestDo_Passthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL+"/ping", "", srv.Client())

	req, err := a.NewRequest(context.Background(), http.MethodGet, nil)
	require.NoError(t, err)

	resp, err := a.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestPostJSON_Success(t *testing.T) {
	type reqBody struct {
		Model string `json:"model"`
	}
	type respBody struct {
		ID string `json:"id"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got reqBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "gpt-4", got.Model)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(respBody{ID: "chatcmpl-123"})
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, "sk-test", srv.Client())

	var dest respBody
	err := a.PostJSON(context.Background(), reqBody{Model: "gpt-4"}, &dest)
	require.NoError(t, err)
	assert.Equal(t, "chatcmpl-123", dest.ID)
}

func TestPostJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, "", srv.Client())

	err := a.PostJSON(context.Background(), map[string]string{"model": "gpt-4"}, nil)

	var se *modeladapter.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "Incorrect API key provided", se.Detail)
	assert.EqualError(t, err, "unexpected status 401 - Incorrect API key provided")
}

func TestPostJSON_RateLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, "", srv.Client())

	err := a.PostJSON(context.Background(), map[string]string{}, nil)

	var rle *modeladapter.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 7*time.Second, rle.RetryAfter)
	assert.Equal(t, "slow down", rle.Body)
}

func TestPostJSON_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, "", srv.Client())

	var dest map[string]any
	err := a.PostJSON(context.Background(), map[string]string{}, &dest)

	var fe *modeladapter.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestPostJSON_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := modeladapter.New(url, "", nil)

	err := a.PostJSON(context.Background(), map[string]string{}, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "do request")

	var se *modeladapter.StatusError
	assert.False(t, errors.As(err, &se))
}

func TestPostJSON_MarshalError(t *testing.T) {
	a := modeladapter.New("https://api.example.com", "", nil)

	err := a.PostJSON(context.Background(), make(chan int), nil)
	assert.ErrorContains(t, err, "marshal payload")
}

func TestPostJSON_StoresRateLimitInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("x-ratelimit-remaining-requests", "42")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, "", srv.Client())
	a.HeaderParser = modeladapter.ParseOpenAIRateLimitHeaders

	require.NoError(t, a.PostJSON(context.Background(), map[string]string{}, nil))

	info := a.LastRateLimitInfo()
	require.NotNil(t, info)
	assert.Equal(t, 42, info.RemainingRequests)
}
