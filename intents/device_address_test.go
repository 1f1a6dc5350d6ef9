package intents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bostoninfo/skill"
)

func deviceRequest(endpoint string) *skill.SkillRequest {
	req := skill.NewSkillRequest()
	req.DeviceID = "device-1"
	req.APIEndpoint = endpoint
	req.APIAccessToken = "token-123"
	return req
}

func TestDeviceAddressClient_GetDeviceAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/devices/device-1/settings/address", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"addressLine1": "46 Everdean St",
			"addressLine2": "",
			"city": "Boston",
			"stateOrRegion": "MA",
			"postalCode": "02122",
			"countryCode": "US"
		}`))
	}))
	defer server.Close()

	client := NewDeviceAddressClient(time.Second, nil)
	address, err := client.GetDeviceAddress(context.Background(), deviceRequest(server.URL+"/"))
	require.NoError(t, err)
	assert.Equal(t, "46 Everdean St Boston MA 02122", address)
}

func TestDeviceAddressClient_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewDeviceAddressClient(time.Second, nil)
	_, err := client.GetDeviceAddress(context.Background(), deviceRequest(server.URL))
	assert.ErrorIs(t, err, ErrDeviceAddressPermission)
}

func TestDeviceAddressClient_NoToken(t *testing.T) {
	client := NewDeviceAddressClient(time.Second, nil)
	req := skill.NewSkillRequest()
	req.APIEndpoint = "https://api.amazonalexa.com"

	_, err := client.GetDeviceAddress(context.Background(), req)
	assert.ErrorIs(t, err, ErrDeviceAddressPermission)
}

func TestDeviceAddressClient_EmptyAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"addressLine1": null, "city": null}`))
	}))
	defer server.Close()

	client := NewDeviceAddressClient(time.Second, nil)
	address, err := client.GetDeviceAddress(context.Background(), deviceRequest(server.URL))
	require.NoError(t, err)
	assert.Empty(t, address)
}

func TestDeviceAddressClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewDeviceAddressClient(time.Second, nil)
	_, err := client.GetDeviceAddress(context.Background(), deviceRequest(server.URL))
	assert.ErrorIs(t, err, ErrDeviceAddressUnavailable)
}
