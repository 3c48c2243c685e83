package ws

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/playback", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.RemoteAddr = "10.0.0.2:41234"

	assert.Equal(t, "203.0.113.9", clientIPFrom(req))
}

func TestClientIPFallsBackToPeerAddress(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/playback", nil)
	req.RemoteAddr = "192.0.2.4:55000"

	assert.Equal(t, "192.0.2.4", clientIPFrom(req))
}

func TestRequestIdentityHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/playback", nil)
	req.Header.Set("X-Device-Id", "device-9")
	req.Header.Set("X-Request-Id", "req-9")

	assert.Equal(t, "device-9", deviceIDFrom(req))
	assert.Equal(t, "req-9", requestIDFrom(req))
}
