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
	"github.com/director74/pos-terminal/pkg/money"
)

// apiResponse конверт ответа внешних сервисов терминала. Код 200 внутри
// конверта означает успех независимо от HTTP статуса.
type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// PaymentClient представляет HTTP клиент для работы с платежным процессингом
type PaymentClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPaymentClient(baseURL string) *PaymentClient {
	return &PaymentClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Charge проводит оплату во внешнем процессинге. Отклонение платежа
// (недостаточно средств, отказ карты) не является ошибкой вызова.
func (c *PaymentClient) Charge(ctx context.Context, transactionID string, amount money.Money, method entity.PaymentMethod) (*usecase.PaymentResult, error) {
	url := fmt.Sprintf("%s/api/v1/payments/charge", c.baseURL)

	reqBody := map[string]interface{}{
		"transaction_id": transactionID,
		"amount_cents":   amount.Cents(),
		"method":         method,
	}

	reqBodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка при маршалинге запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBodyJSON))
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("ошибка при разборе ответа процессинга: %w", err)
	}

	if envelope.Code != http.StatusOK {
		return &usecase.PaymentResult{
			Approved:      false,
			FailureReason: envelope.Message,
		}, nil
	}

	var data struct {
		AuthCode string `json:"auth_code"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("ошибка при разборе данных ответа процессинга: %w", err)
	}

	return &usecase.PaymentResult{
		Approved: true,
		AuthCode: data.AuthCode,
	}, nil
}
