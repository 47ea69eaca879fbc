package main

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultNominatimBase = "https://nominatim.openstreetmap.org"
	defaultSMHIBase      = "https://opendata-download-metfcst.smhi.se/api/category/pmp3g/version/2"
)

// WeatherService provides the optional weather line for the email
// greeting: Nominatim for coordinates, SMHI point forecast for the
// nearest timestep. Every failure degrades to a placeholder; weather
// never aborts a run.
type WeatherService struct {
	client        *http.Client
	userAgent     string
	nominatimBase string
	smhiBase      string
	now           func() time.Time
}

// NewWeatherService creates a weather service. Nominatim requires an
// identifying User-Agent, so the sender address is included.
func NewWeatherService(sender string) *WeatherService {
	return &WeatherService{
		client:        &http.Client{Timeout: fetchTimeout},
		userAgent:     fmt.Sprintf("LunchBot %s", sender),
		nominatimBase: defaultNominatimBase,
		smhiBase:      defaultSMHIBase,
		now:           time.Now,
	}
}

// Line returns a short Swedish weather description for city, or a
// placeholder when the lookups fail. An empty city disables weather.
func (w *WeatherService) Line(city string) string {
	if city == "" {
		return ""
	}

	lat, lon, err := w.geocode(city)
	if err != nil {
		debugLog("geocoding %s: %v", city, err)
		return fmt.Sprintf("%s: väderprognos saknas idag", city)
	}

	temp, code, err := w.forecast(lat, lon)
	if err != nil {
		debugLog("weather for %s: %v", city, err)
		return fmt.Sprintf("%s: väderprognos saknas idag", city)
	}

	return fmt.Sprintf("%s: %.1f°C och %s", city, temp, describeWeatherCode(code))
}

// geocode resolves a city name to coordinates via Nominatim, rounded
// to three decimals.
func (w *WeatherService) geocode(city string) (lat, lon float64, err error) {
	query := url.Values{
		"q":      {city},
		"format": {"json"},
		"limit":  {"1"},
	}
	req, err := http.NewRequest("GET", w.nominatimBase+"/search?"+query.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, &HTTPError{StatusCode: resp.StatusCode, URL: w.nominatimBase}
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("parsing geocoding response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("city %q not found", city)
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing longitude: %w", err)
	}
	return round3(lat), round3(lon), nil
}

// forecast returns the temperature and Wsymb2 code of the forecast
// timestep closest to now.
func (w *WeatherService) forecast(lat, lon float64) (temp float64, code int, err error) {
	pointURL := fmt.Sprintf("%s/geotype/point/lon/%g/lat/%g/data.json", w.smhiBase, lon, lat)

	resp, err := w.client.Get(pointURL)
	if err != nil {
		return 0, 0, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, &HTTPError{StatusCode: resp.StatusCode, URL: pointURL}
	}

	var data struct {
		TimeSeries []struct {
			ValidTime  time.Time `json:"validTime"`
			Parameters []struct {
				Name   string    `json:"name"`
				Values []float64 `json:"values"`
			} `json:"parameters"`
		} `json:"timeSeries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, 0, fmt.Errorf("parsing forecast response: %w", err)
	}
	if len(data.TimeSeries) == 0 {
		return 0, 0, fmt.Errorf("empty forecast")
	}

	now := w.now()
	closest := data.TimeSeries[0]
	for _, step := range data.TimeSeries[1:] {
		if absDuration(step.ValidTime.Sub(now)) < absDuration(closest.ValidTime.Sub(now)) {
			closest = step
		}
	}

	var haveTemp, haveCode bool
	for _, p := range closest.Parameters {
		if len(p.Values) == 0 {
			continue
		}
		switch p.Name {
		case "t":
			temp = p.Values[0]
			haveTemp = true
		case "Wsymb2":
			code = int(p.Values[0])
			haveCode = true
		}
	}
	if !haveTemp || !haveCode {
		return 0, 0, fmt.Errorf("forecast timestep missing temperature or weather symbol")
	}
	return temp, code, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Wsymb2 weather symbols, per the SMHI open data documentation:
// https://opendata.smhi.se/metfcst/pmp/parameters#weather-symbol
var wsymbDescriptions = map[int]string{
	1:  "Klart ☀️",
	2:  "Nästan klart 🌤️",
	3:  "Växlande molnighet 🌥️",
	4:  "Molnigt ☁️",
	5:  "Mycket moln ☁️",
	6:  "Mulet ☁️",
	7:  "Dimma 🌫️",
	8:  "Lätt regnskur 🌦️",
	9:  "Måttlig regnskur 🌧️",
	10: "Kraftig regnskur 🌧️",
	11: "Åska med regn ⛈️",
	12: "Lätt blötsnöskur 🌨️",
	13: "Måttlig blötsnöskur 🌨️",
	14: "Kraftig blötsnöskur ❄️",
	15: "Lätt snöskur ❄️",
	16: "Måttlig snöskur 🌨️",
	17: "Kraftig snöskur 🌨️",
	18: "Lätt regn 🌦️",
	19: "Måttligt regn 🌧️",
	20: "Kraftigt regn 🌧️",
	21: "Åska ⚡️",
	22: "Lätt blötsnö 🌨️",
	23: "Måttlig blötsnö 🌨️",
	24: "Kraftig blötsnö ❄️",
	25: "Lätt snöfall ❄️",
	26: "Måttligt snöfall 🌨️",
	27: "Kraftigt snöfall 🌨️",
}

// describeWeatherCode returns the Swedish description with emoji for a
// Wsymb2 code.
func describeWeatherCode(code int) string {
	if desc, ok := wsymbDescriptions[code]; ok {
		return desc
	}
	return fmt.Sprintf("Okänt väder (%d) ❓", code)
}
