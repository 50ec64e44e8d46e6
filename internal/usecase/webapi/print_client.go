package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/usecase"
)

// PrintClient представляет HTTP клиент для работы с сервисом печати
type PrintClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPrintClient(baseURL string) *PrintClient {
	return &PrintClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Submit отправляет задание принтеру
func (c *PrintClient) Submit(ctx context.Context, job *entity.PrintJob) error {
	url := fmt.Sprintf("%s/api/v1/print/jobs", c.baseURL)

	reqBody := map[string]interface{}{
		"job_id":       job.ID,
		"printer_name": job.PrinterName,
		"type":         job.Type,
		"content":      job.Content,
		"copies":       job.Copies,
	}

	reqBodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("ошибка при маршалинге запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBodyJSON))
	if err != nil {
		return fmt.Errorf("ошибка при создании запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("ошибка при разборе ответа сервиса печати: %w", err)
	}

	if envelope.Code != http.StatusOK {
		return fmt.Errorf("сервис печати отклонил задание: %s", envelope.Message)
	}

	return nil
}

// Status опрашивает состояние принтера
func (c *PrintClient) Status(ctx context.Context, printerName string) (*usecase.PrinterStatus, error) {
	url := fmt.Sprintf("%s/api/v1/print/printers/%s/status", c.baseURL, printerName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
		return nil, fmt.Errorf("ошибка при разборе ответа сервиса печати: %w", err)
	}

	if envelope.Code != http.StatusOK {
		return nil, fmt.Errorf("сервис печати вернул ошибку: %s", envelope.Message)
	}

	var data struct {
		Online     bool   `json:"online"`
		PaperOut   bool   `json:"paper_out"`
		StatusText string `json:"status_text"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("ошибка при разборе данных ответа сервиса печати: %w", err)
	}

	return &usecase.PrinterStatus{
		Online:     data.Online,
		PaperOut:   data.PaperOut,
		StatusText: data.StatusText,
	}, nil
}
