package waqi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

var testBounds = domain.Bounds{MinLat: 24, MinLon: 123, MaxLat: 46, MaxLon: 146}

func testClient(baseURL string, keywords ...string) *Client {
	return NewClient(testToken, baseURL, 5*time.Second, testBounds, keywords,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, err := io.WriteString(w, body)
		assert.NoError(t, err)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Stations_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/map/bounds/", r.URL.Path)
		assert.Equal(t, "24,123,46,146", r.URL.Query().Get("latlng"))
		assert.Equal(t, testToken, r.URL.Query().Get("token"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, err := io.WriteString(w, `{"status":"ok","data":[
			{"lat":35.68,"lon":139.76,"aqi":"57","station":{"name":"Chiyoda, Tokyo, Japan"}},
			{"lat":34.69,"lon":135.50,"aqi":112,"station":{"name":"OSAKA"}},
			{"lat":37.56,"lon":126.97,"aqi":"80","station":{"name":"Seoul, Korea"}}
		]}`)
		assert.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "tokyo", "osaka")
	got, err := c.Stations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Sample{
		{Lat: 35.68, Lon: 139.76, AQI: 57, Name: "Chiyoda, Tokyo, Japan"},
		{Lat: 34.69, Lon: 135.50, AQI: 112, Name: "Osaka"},
	}, got)
}

func TestClient_Stations_SkipsUnusableEntries(t *testing.T) {
	srv := serveJSON(t, `{"status":"ok","data":[
		{"lat":35.0,"lon":139.0,"aqi":"-","station":{"name":"tokyo a"}},
		{"lat":35.0,"lon":139.0,"aqi":null,"station":{"name":"tokyo b"}},
		{"lat":35.0,"lon":139.0,"aqi":"4.5","station":{"name":"tokyo c"}},
		{"lon":139.0,"aqi":"30","station":{"name":"tokyo d"}},
		{"lat":35.0,"lon":139.0,"aqi":" 41 ","station":{"name":"tokyo e"}},
		{"lat":35.0,"lon":139.0,"aqi":63.9,"station":{"name":"tokyo f"}}
	]}`)

	got, err := testClient(srv.URL, "tokyo").Stations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tokyo E", got[0].Name)
	assert.Equal(t, 41.0, got[0].AQI)
	assert.Equal(t, "Tokyo F", got[1].Name)
	assert.Equal(t, 63.0, got[1].AQI)
}

func TestClient_Stations_NoKeywordsKeepsAll(t *testing.T) {
	srv := serveJSON(t, `{"status":"ok","data":[
		{"lat":37.56,"lon":126.97,"aqi":"80","station":{"name":"seoul"}}
	]}`)

	got, err := testClient(srv.URL).Stations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Seoul", got[0].Name)
}

func TestClient_Stations_EmptyData(t *testing.T) {
	srv := serveJSON(t, `{"status":"ok","data":[]}`)

	got, err := testClient(srv.URL, "tokyo").Stations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_Stations_APIErrorStatus(t *testing.T) {
	srv := serveJSON(t, `{"status":"error","data":"Invalid key"}`)

	_, err := testClient(srv.URL).Stations(context.Background())
	require.Error(t, err)
}

func TestClient_Stations_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Stations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestClient_Stations_BadJSON(t *testing.T) {
	srv := serveJSON(t, `{not json`)

	_, err := testClient(srv.URL).Stations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Stations_ContextCanceled(t *testing.T) {
	srv := serveJSON(t, `{"status":"ok","data":[]}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Stations(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Stations_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(testToken, srv.URL, 50*time.Millisecond, testBounds, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.Stations(context.Background())
	require.Error(t, err)
}
