package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-advisory/internal/registry"
)

var testLoc = registry.Location{Name: "Leeds", Lat: 53.8008, Lon: -1.5491}

func newTestClient(srvURL string) *Client {
	c := NewClient(&http.Client{Timeout: 5 * time.Second}, "test-key")
	c.baseURL = srvURL
	c.httpCfg.Backoff.InitialInterval = time.Millisecond
	return c
}

func TestFetchDecodesReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "test-key" {
			t.Errorf("missing appid, query: %s", r.URL.RawQuery)
		}
		if q.Get("exclude") != "minutely,hourly" {
			t.Errorf("unexpected exclude %q", q.Get("exclude"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"current": {"dt": 1700000000, "temp": 11.2, "feels_like": 9.4, "humidity": 71,
				"wind_speed": 10, "weather": [{"main": "Clouds", "description": "overcast clouds", "icon": "04d"}]},
			"daily": [{"dt": 1700000000, "temp": {"min": 4.1, "max": 12.3},
				"weather": [{"main": "Rain", "description": "light rain", "icon": "10d"}], "pop": 0.35}],
			"alerts": [{"sender_name": "Met Office", "event": "Wind Warning",
				"start": 1700000000, "end": 1700086400, "description": "Gusty. Stay indoors."}]
		}`))
	}))
	defer srv.Close()

	report, err := newTestClient(srv.URL).Fetch(context.Background(), testLoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Current.WindSpeed != 10 {
		t.Fatalf("wind speed = %v", report.Current.WindSpeed)
	}
	if len(report.Daily) != 1 || report.Daily[0].Temp.Max != 12.3 {
		t.Fatalf("daily = %+v", report.Daily)
	}
	if len(report.Alerts) != 1 || report.Alerts[0].Event != "Wind Warning" {
		t.Fatalf("alerts = %+v", report.Alerts)
	}
}

func TestFetchStatusError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), testLoc)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusUnauthorized || se.Location != "Leeds" {
		t.Fatalf("status error = %+v", se)
	}
	if hits.Load() != 1 {
		t.Fatalf("client errors must not be retried, got %d attempts", hits.Load())
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"current": {"temp": 5}}`))
	}))
	defer srv.Close()

	report, err := newTestClient(srv.URL).Fetch(context.Background(), testLoc)
	if err != nil {
		t.Fatalf("unexpected error after retries: %v", err)
	}
	if report.Current.Temp != 5 {
		t.Fatalf("temp = %v", report.Current.Temp)
	}
	if hits.Load() != 3 {
		t.Fatalf("attempts = %d, want 3", hits.Load())
	}
}

func TestFetchWithoutAPIKey(t *testing.T) {
	c := NewClient(&http.Client{}, "")
	if _, err := c.Fetch(context.Background(), testLoc); err == nil {
		t.Fatal("fetch without an api key should fail")
	}
}
