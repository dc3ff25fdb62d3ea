package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"aistylist/logger"
	"aistylist/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const currentBody = `{
  "location": {"name": "Vancouver"},
  "current": {"temp_c": 14.6, "humidity": 81, "wind_kph": 12.2, "condition": {"text": "Light rain", "code": 1183}}
}`

const forecastBody = `{
  "forecast": {"forecastday": [
    {"date": "2026-10-17", "day": {"avgtemp_c": 11.4, "avghumidity": 77, "maxwind_kph": 20.5, "condition": {"text": "Overcast"}}},
    {"date": "2026-10-18", "day": {"avgtemp_c": 8.2, "avghumidity": 90, "maxwind_kph": 15, "condition": {"text": "Light snow"}}}
  ]}
}`

func weatherServer(t *testing.T, status int) (*httptest.Server, *int32) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch r.URL.Path {
		case "/current.json":
			w.Write([]byte(currentBody))
		case "/forecast.json":
			w.Write([]byte(forecastBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestWeatherCurrentIsCached(t *testing.T) {
	server, hits := weatherServer(t, http.StatusOK)
	svc, err := services.NewWeatherService("test-key", server.URL, nil)
	require.NoError(t, err)
	ctx := context.Background()

	report, err := svc.Current(ctx, "Vancouver")
	require.NoError(t, err)
	assert.Equal(t, services.WeatherReport{
		Location:    "Vancouver",
		Temperature: 15,
		Condition:   "Light rain",
		Humidity:    81,
		WindSpeed:   12.2,
	}, report)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	assert.Eventually(t, func() bool { return svc.Cached(ctx, "vancouver") }, 2*time.Second, 10*time.Millisecond)

	again, err := svc.Current(ctx, "VANCOUVER")
	require.NoError(t, err)
	assert.Equal(t, report, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestWeatherFallsBack(t *testing.T) {
	ctx := context.Background()

	noKey, err := services.NewWeatherService("", "", nil)
	require.NoError(t, err)
	report, err := noKey.Current(ctx, "Tokyo")
	require.NoError(t, err)
	assert.True(t, report.Fallback)
	assert.Equal(t, "Tokyo", report.Location)
	assert.Equal(t, 22.0, report.Temperature)
	assert.Equal(t, "Sunny", report.Condition)

	server, _ := weatherServer(t, http.StatusInternalServerError)
	core, logs := observer.New(zap.DebugLevel)
	broken, err := services.NewWeatherService("test-key", server.URL, &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	require.NoError(t, err)
	report, err = broken.Current(ctx, "Vancouver")
	require.NoError(t, err)
	assert.True(t, report.Fallback)
	warnings := logs.FilterMessage("[Weather] API error, using fallback").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zap.WarnLevel, warnings[0].Level)
	assert.Equal(t, "Vancouver", warnings[0].ContextMap()["location"])
	assert.Equal(t, "weather", warnings[0].ContextMap()["component"])

	days, err := broken.Forecast(ctx, "Vancouver", 3)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, []float64{22, 24, 26}, []float64{days[0].Temperature, days[1].Temperature, days[2].Temperature})
}

func TestWeatherForecast(t *testing.T) {
	server, _ := weatherServer(t, http.StatusOK)
	svc, err := services.NewWeatherService("test-key", server.URL, nil)
	require.NoError(t, err)

	days, err := svc.Forecast(context.Background(), "Vancouver", 2)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, services.ForecastDay{
		Date:        "2026-10-17",
		Day:         "Saturday",
		Temperature: 11,
		Condition:   "Overcast",
		Humidity:    77,
		WindSpeed:   20.5,
	}, days[0])
	assert.Equal(t, "Light snow", days[1].Condition)
}

func TestLabelFor(t *testing.T) {
	cases := []struct {
		temp      float64
		condition string
		want      string
	}{
		{15, "Light rain", "rainy"},
		{4, "Moderate rain", "rainy"},
		{-2, "Light snow", "cold"},
		{15, "Patchy light drizzle", "rainy"},
		{12, "Heavy snow", "cold"},
		{5, "Sunny", "cold"},
		{18, "Partly cloudy", "cloudy"},
		{18, "Overcast", "cloudy"},
		{25, "Sunny", "warm"},
		{25, "Clear", "warm"},
		{25, "Mist", "warm"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, services.LabelFor(services.WeatherReport{Temperature: tc.temp, Condition: tc.condition}), tc.condition)
	}
}

func TestRecommendation(t *testing.T) {
	assert.Equal(t, "Cold weather - wear warm layers, coats, and boots",
		services.Recommendation(services.WeatherReport{Temperature: 4, Condition: "Sunny"}))
	assert.Equal(t, "Cool weather - light jackets and long sleeves recommended",
		services.Recommendation(services.WeatherReport{Temperature: 15, Condition: "Rain"}))
	assert.Equal(t, "Rainy weather - waterproof clothing and umbrellas essential",
		services.Recommendation(services.WeatherReport{Temperature: 21, Condition: "Light rain"}))
	assert.Equal(t, "Sunny weather - light, breathable fabrics and sun protection",
		services.Recommendation(services.WeatherReport{Temperature: 25, Condition: "Sunny"}))
	assert.Equal(t, "Moderate weather - versatile clothing options work well",
		services.Recommendation(services.WeatherReport{Temperature: 25, Condition: "Overcast"}))
}
