package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testWeatherService(nominatim, smhi string) *WeatherService {
	return &WeatherService{
		client:        &http.Client{Timeout: fetchTimeout},
		userAgent:     "LunchBot test@example.com",
		nominatimBase: nominatim,
		smhiBase:      smhi,
		now:           func() time.Time { return time.Date(2025, time.June, 10, 11, 0, 0, 0, time.UTC) },
	}
}

func TestWeatherLine(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Karlskoga" {
			t.Errorf("geocoding query = %q, want Karlskoga", r.URL.Query().Get("q"))
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "LunchBot") {
			t.Errorf("User-Agent = %q, want LunchBot identification", r.Header.Get("User-Agent"))
		}
		fmt.Fprint(w, `[{"lat":"59.32651","lon":"14.52506"}]`)
	}))
	defer nominatim.Close()

	smhi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Rounded coordinates end up in the point URL.
		if !strings.Contains(r.URL.Path, "/lon/14.525/lat/59.327/") {
			t.Errorf("forecast path = %q, want rounded coordinates", r.URL.Path)
		}
		fmt.Fprint(w, `{"timeSeries":[
			{"validTime":"2025-06-10T06:00:00Z","parameters":[{"name":"t","values":[12.0]},{"name":"Wsymb2","values":[4]}]},
			{"validTime":"2025-06-10T12:00:00Z","parameters":[{"name":"t","values":[18.5]},{"name":"Wsymb2","values":[1]}]}
		]}`)
	}))
	defer smhi.Close()

	service := testWeatherService(nominatim.URL, smhi.URL)
	line := service.Line("Karlskoga")

	want := "Karlskoga: 18.5°C och Klart ☀️"
	if line != want {
		t.Errorf("Line() = %q, want %q (nearest timestep)", line, want)
	}
}

func TestWeatherLineEmptyCity(t *testing.T) {
	service := testWeatherService("http://127.0.0.1:0", "http://127.0.0.1:0")
	if line := service.Line(""); line != "" {
		t.Errorf("Line(\"\") = %q, want empty", line)
	}
}

func TestWeatherLineDegradesOnGeocodingFailure(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer nominatim.Close()

	service := testWeatherService(nominatim.URL, "http://127.0.0.1:0")
	line := service.Line("Atlantis")

	if !strings.Contains(line, "väderprognos saknas") {
		t.Errorf("Line() = %q, want the placeholder on geocoding failure", line)
	}
}

func TestWeatherLineDegradesOnForecastFailure(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"lat":"59.32651","lon":"14.52506"}]`)
	}))
	defer nominatim.Close()

	smhi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer smhi.Close()

	service := testWeatherService(nominatim.URL, smhi.URL)
	line := service.Line("Karlskoga")

	if !strings.Contains(line, "väderprognos saknas") {
		t.Errorf("Line() = %q, want the placeholder on forecast failure", line)
	}
}

func TestDescribeWeatherCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{1, "Klart ☀️"},
		{11, "Åska med regn ⛈️"},
		{27, "Kraftigt snöfall 🌨️"},
		{0, "Okänt väder (0) ❓"},
		{99, "Okänt väder (99) ❓"},
	}

	for _, tt := range tests {
		if got := describeWeatherCode(tt.code); got != tt.want {
			t.Errorf("describeWeatherCode(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
