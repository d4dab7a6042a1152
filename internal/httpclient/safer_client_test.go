package httpclient

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qntx-eurostat/internal/util"
)

func TestNewSaferClientDefaults(t *testing.T) {
	client := NewSaferClient(30*time.Second, SaferClientOptions{})

	require.NotNil(t, client)
	assert.Equal(t, 30*time.Second, client.Timeout)
	assert.Equal(t, 10, client.maxRedirects)
	assert.True(t, client.blockPrivateIP)
	assert.Equal(t, []string{"http", "https"}, client.allowedSchemes)
}

func TestSaferClientOptions(t *testing.T) {
	client := NewSaferClient(5*time.Second, SaferClientOptions{
		AllowedSchemes: []string{"https"},
		MaxRedirects:   util.Ptr(2),
		BlockPrivateIP: util.Ptr(false),
	})

	assert.Equal(t, 2, client.maxRedirects)
	assert.False(t, client.blockPrivateIP)

	_, err := client.ValidateURL("http://ec.europa.eu/")
	assert.Error(t, err, "http should be rejected when only https is allowed")

	_, err = client.ValidateURL("https://127.0.0.1/")
	assert.NoError(t, err, "private IPs pass when blocking is disabled")
}

func TestValidateURL(t *testing.T) {
	client := NewSaferClient(30*time.Second, SaferClientOptions{})

	tests := []struct {
		name        string
		url         string
		errContains string // empty = must pass
	}{
		{name: "eurostat https", url: "https://ec.europa.eu/eurostat/api/dissemination/catalogue/toc/txt?lang=en"},
		{name: "plain http", url: "http://example.com"},
		{name: "file scheme", url: "file:///etc/passwd", errContains: "scheme"},
		{name: "gopher scheme", url: "gopher://example.com", errContains: "scheme"},
		{name: "localhost", url: "http://localhost:8080/", errContains: "localhost"},
		{name: "localhost subdomain", url: "http://api.localhost/", errContains: "localhost"},
		{name: "loopback v4", url: "http://127.0.0.1/", errContains: "private IP"},
		{name: "rfc1918 10/8", url: "http://10.1.2.3/", errContains: "private IP"},
		{name: "rfc1918 172.16/12", url: "http://172.20.0.1/", errContains: "private IP"},
		{name: "rfc1918 192.168/16", url: "http://192.168.1.1/", errContains: "private IP"},
		{name: "metadata endpoint", url: "http://169.254.169.254/latest/meta-data/", errContains: "private IP"},
		{name: "loopback v6", url: "http://[::1]/", errContains: "private IP"},
		{name: "credentials in URL", url: "http://evil.com@localhost/", errContains: "@"},
		{name: "missing host", url: "http:///path", errContains: "hostname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ValidateURL(tt.url)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"10.0.0.1", true},
		{"172.31.255.255", true},
		{"172.32.0.1", false},
		{"192.168.0.1", true},
		{"127.0.0.1", true},
		{"169.254.1.1", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"8.8.8.8", false},
		{"147.67.34.30", false},
		{"::1", true},
		{"fe80::1", true},
		{"fc00::1", true},
		{"fec0::1", true},
		{"2001:4860:4860::8888", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip)
			assert.Equal(t, tt.private, isPrivateIP(ip))
		})
	}
}

func TestIsLocalhost(t *testing.T) {
	assert.True(t, isLocalhost("localhost"))
	assert.True(t, isLocalhost("LOCALHOST"))
	assert.True(t, isLocalhost("localhost.localdomain"))
	assert.True(t, isLocalhost("app.localhost"))
	assert.False(t, isLocalhost("localhost.example.com"))
	assert.False(t, isLocalhost("ec.europa.eu"))
}

func TestDoBlocksPrivateTargets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewSaferClient(5*time.Second, SaferClientOptions{})
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SSRF")
}

func TestWrapClientAllowsTestServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := WrapClient(server.Client())
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}

func TestMaxRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	client := NewSaferClient(5*time.Second, SaferClientOptions{
		MaxRedirects:   util.Ptr(3),
		BlockPrivateIP: util.Ptr(false),
	})
	req, err := http.NewRequest(http.MethodGet, server.URL+"/", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 3 redirects")
}
