package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

type WeatherResult struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Success     bool    `json:"success"`
	Error       string  `json:"error,omitempty"`
}

type WeatherLookup interface {
	Lookup(ctx context.Context, city string) WeatherResult
}

// WeatherClient ходит в OpenWeatherMap. Любая ошибка возвращается как
// Success=false, вызывающий код подставляет температуру по умолчанию.
type WeatherClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewWeatherClient(baseURL, apiKey string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

var errNoAPIKey = errors.New("weather api key is not configured")

func (w *WeatherClient) Lookup(ctx context.Context, city string) WeatherResult {
	if w.apiKey == "" {
		return WeatherResult{City: city, Error: errNoAPIKey.Error()}
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", w.apiKey)
	params.Set("units", "metric")
	params.Set("lang", "ru")

	body, err := getJSON(ctx, w.client, w.baseURL+"?"+params.Encode())
	if err != nil {
		return WeatherResult{City: city, Error: err.Error()}
	}

	res := gjson.GetManyBytes(body, "main.temp", "weather.0.description", "name")
	if !res[0].Exists() {
		return WeatherResult{City: city, Error: "в ответе нет температуры"}
	}

	name := res[2].String()
	if name == "" {
		name = city
	}
	return WeatherResult{
		City:        name,
		Temperature: res[0].Float(),
		Description: res[1].String(),
		Success:     true,
	}
}

func getJSON(ctx context.Context, client *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "healthy-lifestyle-bot/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON in response")
	}
	return body, nil
}
