package services

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const ErrFoodNotFound = "Продукт не найден"

type FoodResult struct {
	Name            string  `json:"name"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
	Brand           string  `json:"brand,omitempty"`
	Success         bool    `json:"success"`
	Error           string  `json:"error,omitempty"`
}

type FoodLookup interface {
	Lookup(ctx context.Context, product string) FoodResult
}

// FoodClient ищет калорийность продукта в OpenFoodFacts.
type FoodClient struct {
	baseURL string
	client  *http.Client
}

func NewFoodClient(baseURL string, timeout time.Duration) *FoodClient {
	return &FoodClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *FoodClient) Lookup(ctx context.Context, product string) FoodResult {
	params := url.Values{}
	params.Set("action", "process")
	params.Set("search_terms", product)
	params.Set("json", "true")
	params.Set("page_size", "1")

	body, err := getJSON(ctx, f.client, f.baseURL+"?"+params.Encode())
	if err != nil {
		return FoodResult{Name: product, Error: "Ошибка API: " + err.Error()}
	}

	first := gjson.GetBytes(body, "products.0")
	if !first.Exists() {
		return FoodResult{Name: product, Error: ErrFoodNotFound}
	}

	kcal := first.Get("nutriments.energy-kcal_100g")
	if !kcal.Exists() {
		return FoodResult{Name: product, Error: "Нет данных о калорийности"}
	}

	name := first.Get("product_name").String()
	if name == "" {
		name = product
	}
	return FoodResult{
		Name:            name,
		CaloriesPer100g: kcal.Float(),
		Brand:           first.Get("brands").String(),
		Success:         true,
	}
}
