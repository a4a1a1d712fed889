package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsFormFields(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/messages", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"apikey":     r.PostFormValue("apikey"),
			"number":     r.PostFormValue("number"),
			"message":    r.PostFormValue("message"),
			"sendername": r.PostFormValue("sendername"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, APIKey: "test-key", SenderName: "FixUp"})
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), "09171234567", "hello owner"))
	assert.Equal(t, map[string]string{
		"apikey":     "test-key",
		"number":     "09171234567",
		"message":    "hello owner",
		"sendername": "FixUp",
	}, gotForm)
}

func TestSendNon2xxIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, APIKey: "bad-key"})
	require.NoError(t, err)

	err = client.Send(context.Background(), "09171234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendTimeoutIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, APIKey: "key", Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	require.Error(t, client.Send(context.Background(), "09171234567", "hello"))
}

func TestSendContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, APIKey: "key"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = client.Send(ctx, "09171234567", "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewDefaultsAndValidation(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	client, err := New(Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, defaultSender, client.senderName)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
}

func TestSendRequiresRecipientAndMessage(t *testing.T) {
	client, err := New(Config{APIKey: "key"})
	require.NoError(t, err)

	require.Error(t, client.Send(context.Background(), "", "hello"))
	require.Error(t, client.Send(context.Background(), "09171234567", ""))
}
