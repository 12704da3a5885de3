package faq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/faqchat/internal/model"
)

func TestClientAskPostsQuestion(t *testing.T) {
	var gotBody map[string]string
	var gotHeaders http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ask", r.URL.Path)
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"Use the settings page."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", time.Second, nil)
	answer, err := c.Ask(context.Background(), "req-1", "How do I reset?")

	require.NoError(t, err)
	assert.Equal(t, "Use the settings page.", answer)
	assert.Equal(t, map[string]string{"question": "How do I reset?"}, gotBody)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "req-1", gotHeaders.Get("X-Request-ID"))
	assert.Equal(t, "Bearer secret", gotHeaders.Get("Authorization"))
}

func TestClientAskWithoutTokenSendsNoAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	answer, err := NewClient(srv.URL, "", time.Second, nil).
		Ask(context.Background(), "", "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
}

func TestClientAskNon2xxReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index not ready", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second, nil).
		Ask(context.Background(), "", "q")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, "index not ready", statusErr.Body)
	assert.Contains(t, err.Error(), "503")
}

func TestClientAskInvalidBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second, nil).
		Ask(context.Background(), "", "q")
	assert.Error(t, err)
}

func TestClientAskTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "", time.Second, nil).
		Ask(context.Background(), "", "q")
	assert.Error(t, err)
}

func TestClientSearchEncodesQuery(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/search", r.URL.Path)
		rawQuery = r.URL.RawQuery
		assert.Equal(t, "a b&c+d?", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"results":["one",{"title":"two"}]}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "", time.Second, nil).
		Search(context.Background(), "", "a b&c+d?", 10)

	require.NoError(t, err)
	assert.Equal(t, "q=a%20b%26c%2Bd%3F", rawQuery)
	assert.Equal(t, []model.Suggestion{
		{Title: "one", Query: "one"},
		{Title: "two", Query: "two"},
	}, got)
}

func TestClientSearchNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second, nil).
		Search(context.Background(), "", "q", 10)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "request failed with status 404", statusErr.Error())
}

func TestClientBaseURLTrimmed(t *testing.T) {
	c := NewClient("http://faq.example///", "", 0, nil)
	assert.Equal(t, "http://faq.example", c.BaseURL())
}
