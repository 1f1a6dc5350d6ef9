package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackNotifier_Notify(t *testing.T) {
	var received slackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL, "bostoninfo-test", nil)
	require.True(t, notifier.Enabled())

	err := notifier.Notify(context.Background(), errors.New("boom"), "goroutine 1 [running]")
	require.NoError(t, err)
	assert.Contains(t, received.Text, "*bostoninfo-test* unhandled error: `boom`")
	assert.Contains(t, received.Text, "goroutine 1 [running]")
}

func TestSlackNotifier_Disabled(t *testing.T) {
	notifier := NewSlackNotifier("", "", nil)
	assert.False(t, notifier.Enabled())
	assert.NoError(t, notifier.Notify(context.Background(), errors.New("boom"), ""))

	var nilNotifier *SlackNotifier
	assert.False(t, nilNotifier.Enabled())
}

func TestSlackNotifier_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL, "", nil)
	err := notifier.Notify(context.Background(), errors.New("boom"), "")
	assert.ErrorIs(t, err, ErrNotifyFailed)
}
