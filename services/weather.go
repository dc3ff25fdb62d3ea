package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aistylist/logger"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/getsentry/sentry-go"
)

const (
	weatherAPIBaseURL    = "http://api.weatherapi.com/v1"
	weatherCacheDuration = 6 * time.Minute
	weatherHTTPTimeout   = 10 * time.Second

	fallbackTemperature = 22.0
	fallbackCondition   = "Sunny"
	fallbackHumidity    = 60
	fallbackWindSpeed   = 10.0
)

type WeatherReport struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	// Fallback marks a made-up reading used when the API is unavailable.
	Fallback bool `json:"fallback"`
}

type ForecastDay struct {
	Date        string  `json:"date"`
	Day         string  `json:"day"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

type WeatherServiceProvider interface {
	Current(ctx context.Context, location string) (WeatherReport, error)
	Forecast(ctx context.Context, location string, days int) ([]ForecastDay, error)
}

// WeatherService talks to weatherapi.com. Current readings are cached per
// location for six minutes.
type WeatherService struct {
	apiKey  string
	baseURL string
	client  *http.Client
	current *cache.LoadableCache[WeatherReport]
	peek    *cache.Cache[WeatherReport]
	log     *logger.Logger
	now     func() time.Time
}

// NewWeatherService builds the client. A nil log discards fallback warnings.
func NewWeatherService(apiKey, baseURL string, log *logger.Logger) (*WeatherService, error) {
	if baseURL == "" {
		baseURL = weatherAPIBaseURL
	}
	if log == nil {
		log = logger.NewNop()
	}
	s := &WeatherService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: weatherHTTPTimeout},
		log:     log.Component("weather"),
		now:     time.Now,
	}
	loadable, plain, err := newLoadableCache(s.fetchCurrent, weatherCacheDuration)
	if err != nil {
		return nil, err
	}
	s.current = loadable
	s.peek = plain
	return s, nil
}

func NewWeatherServiceFromEnv(log *logger.Logger) (*WeatherService, error) {
	return NewWeatherService(GetEnv("WEATHER_API_KEY", ""), GetEnv("WEATHER_API_URL", weatherAPIBaseURL), log)
}

func cacheKey(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// Current never fails on API trouble; it falls back to a fixed mild reading.
func (s *WeatherService) Current(ctx context.Context, location string) (WeatherReport, error) {
	if location == "" {
		location = GetEnv("WEATHER_LOCATION", "Vancouver")
	}
	if s.apiKey == "" {
		return fallbackReport(location), nil
	}
	report, err := s.current.Get(ctx, cacheKey(location))
	if err != nil {
		s.log.Warn("[Weather] API error, using fallback", "location", location, "error", err)
		sentry.CaptureException(fmt.Errorf("[Weather: %s] current weather: %w", location, err))
		return fallbackReport(location), nil
	}
	return report, nil
}

func (s *WeatherService) Forecast(ctx context.Context, location string, days int) ([]ForecastDay, error) {
	if days <= 0 {
		days = 7
	}
	if location == "" {
		location = GetEnv("WEATHER_LOCATION", "Vancouver")
	}
	if s.apiKey == "" {
		return s.fallbackForecast(days), nil
	}

	var body struct {
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					AvgTempC    float64 `json:"avgtemp_c"`
					AvgHumidity float64 `json:"avghumidity"`
					MaxWindKph  float64 `json:"maxwind_kph"`
					Condition   struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}
	params := url.Values{"q": {location}, "days": {strconv.Itoa(days)}, "aqi": {"no"}, "alerts": {"no"}}
	if err := s.get(ctx, "forecast.json", params, &body); err != nil {
		s.log.Warn("[Weather] forecast API error, using fallback", "location", location, "error", err)
		sentry.CaptureException(fmt.Errorf("[Weather: %s] forecast: %w", location, err))
		return s.fallbackForecast(days), nil
	}

	out := make([]ForecastDay, 0, len(body.Forecast.ForecastDay))
	for _, d := range body.Forecast.ForecastDay {
		day := ""
		if parsed, err := time.Parse(time.DateOnly, d.Date); err == nil {
			day = parsed.Weekday().String()
		}
		out = append(out, ForecastDay{
			Date:        d.Date,
			Day:         day,
			Temperature: math.Round(d.Day.AvgTempC),
			Condition:   d.Day.Condition.Text,
			Humidity:    int(math.Round(d.Day.AvgHumidity)),
			WindSpeed:   d.Day.MaxWindKph,
		})
	}
	return out, nil
}

// Cached reports whether a reading for location is already cached.
func (s *WeatherService) Cached(ctx context.Context, location string) bool {
	_, err := s.peek.Get(ctx, cacheKey(location))
	return err == nil
}

func (s *WeatherService) fetchCurrent(ctx context.Context, location string) (WeatherReport, error) {
	var body struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		Current struct {
			TempC     float64 `json:"temp_c"`
			Humidity  int     `json:"humidity"`
			WindKph   float64 `json:"wind_kph"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := s.get(ctx, "current.json", url.Values{"q": {location}, "aqi": {"no"}}, &body); err != nil {
		return WeatherReport{}, err
	}
	return WeatherReport{
		Location:    body.Location.Name,
		Temperature: math.Round(body.Current.TempC),
		Condition:   body.Current.Condition.Text,
		Humidity:    body.Current.Humidity,
		WindSpeed:   body.Current.WindKph,
	}, nil
}

func (s *WeatherService) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get response: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("weather API status code: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode weather response: %w", err)
	}
	return nil
}

func fallbackReport(location string) WeatherReport {
	return WeatherReport{
		Location:    location,
		Temperature: fallbackTemperature,
		Condition:   fallbackCondition,
		Humidity:    fallbackHumidity,
		WindSpeed:   fallbackWindSpeed,
		Fallback:    true,
	}
}

func (s *WeatherService) fallbackForecast(days int) []ForecastDay {
	out := make([]ForecastDay, 0, days)
	start := s.now()
	for i := range days {
		date := start.AddDate(0, 0, i)
		out = append(out, ForecastDay{
			Date:        date.Format(time.DateOnly),
			Day:         date.Weekday().String(),
			Temperature: fallbackTemperature + float64(i*2),
			Condition:   fallbackCondition,
			Humidity:    fallbackHumidity,
			WindSpeed:   fallbackWindSpeed,
		})
	}
	return out
}

// LabelFor maps a reading to the composer's weather label. Wet skies win;
// otherwise anything under 10°C counts as cold.
func LabelFor(report WeatherReport) string {
	condition := strings.ToLower(report.Condition)
	switch {
	case strings.Contains(condition, "rain"), strings.Contains(condition, "drizzle"), strings.Contains(condition, "shower"):
		return "rainy"
	case strings.Contains(condition, "snow"), strings.Contains(condition, "sleet"), strings.Contains(condition, "blizzard"):
		return "cold"
	case report.Temperature < 10:
		return "cold"
	case strings.Contains(condition, "cloud"), strings.Contains(condition, "overcast"):
		return "cloudy"
	default:
		return "warm"
	}
}

func Recommendation(report WeatherReport) string {
	condition := strings.ToLower(report.Condition)
	switch {
	case report.Temperature < 10:
		return "Cold weather - wear warm layers, coats, and boots"
	case report.Temperature < 20:
		return "Cool weather - light jackets and long sleeves recommended"
	case strings.Contains(condition, "rain"):
		return "Rainy weather - waterproof clothing and umbrellas essential"
	case strings.Contains(condition, "sun"):
		return "Sunny weather - light, breathable fabrics and sun protection"
	default:
		return "Moderate weather - versatile clothing options work well"
	}
}
