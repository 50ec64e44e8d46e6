package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/pkg/money"
)

// CatalogClient представляет HTTP клиент для работы с внешним каталогом товаров
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// productPayload товар в формате ответов каталога
type productPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Category    string `json:"category"`
	Barcode     string `json:"barcode"`
	ImageURL    string `json:"image_url"`
	InStock     bool   `json:"in_stock"`
}

func (p productPayload) toEntity() entity.Product {
	return entity.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money.FromCents(p.PriceCents),
		Category:    p.Category,
		Barcode:     p.Barcode,
		ImageURL:    p.ImageURL,
		InStock:     p.InStock,
	}
}

// FetchProducts загружает каталог из внешней системы, при непустой
// категории — только товары этой категории
func (c *CatalogClient) FetchProducts(ctx context.Context, category string) ([]entity.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v1/catalog/products", c.baseURL)
	if category != "" {
		endpoint += "?category=" + url.QueryEscape(category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании запроса: %w", err)
	}

	return c.doProductsRequest(req)
}

// FetchProductByBarcode запрашивает товар по штрихкоду напрямую у каталога
func (c *CatalogClient) FetchProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v1/catalog/products/barcode/%s", c.baseURL, url.PathEscape(barcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании запроса: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("ошибка при разборе ответа каталога: %w", err)
	}

	if envelope.Code != http.StatusOK {
		return nil, fmt.Errorf("каталог вернул ошибку: %s", envelope.Message)
	}

	var data struct {
		Product productPayload `json:"product"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("ошибка при разборе данных каталога: %w", err)
	}

	product := data.Product.toEntity()
	return &product, nil
}

// SyncProducts запрашивает инкрементальную синхронизацию: каталог отдает
// товары, измененные после водяного знака. Нулевой знак означает полную
// выгрузку.
func (c *CatalogClient) SyncProducts(ctx context.Context, updatedSince time.Time) ([]entity.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v1/catalog/sync/products", c.baseURL)

	body := struct {
		UpdatedSince string `json:"updated_since,omitempty"`
	}{}
	if !updatedSince.IsZero() {
		body.UpdatedSince = updatedSince.UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ошибка при маршалинге запроса синхронизации: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doProductsRequest(req)
}

// doProductsRequest выполняет запрос, ответ которого содержит список товаров
func (c *CatalogClient) doProductsRequest(req *http.Request) ([]entity.Product, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("ошибка при разборе ответа каталога: %w", err)
	}

	if envelope.Code != http.StatusOK {
		return nil, fmt.Errorf("каталог вернул ошибку: %s", envelope.Message)
	}

	var data struct {
		Products []productPayload `json:"products"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("ошибка при разборе данных каталога: %w", err)
	}

	products := make([]entity.Product, 0, len(data.Products))
	for _, p := range data.Products {
		products = append(products, p.toEntity())
	}
	return products, nil
}
