package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"minetrack/internal/app/client/config"
	"minetrack/internal/domain/catalog"
	"minetrack/internal/domain/operation"
	"minetrack/internal/domain/user"
)

type httpClient struct {
	client  *http.Client
	baseURL string
	token   string
	log     *slog.Logger
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second

	return &httpClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.ServerAddress,
		log:     log.With("component", "http_client"),
	}
}

func (c *httpClient) SetToken(token string) {
	c.token = token
}

// apiEnvelope — стандартный конверт ответов сервиса операций.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  user.Account `json:"user"`
	Error string       `json:"error,omitempty"`
}

// ErrLoginRejected — сервер явно отклонил вход. Транспортные ошибки
// (сеть пропала, таймаут) под этот сентинел не попадают.
var ErrLoginRejected = errors.New("сервер отклонил вход")

// Login аутентифицирует пользователя на сервере.
func (c *httpClient) Login(ctx context.Context, email, password string) (string, user.Account, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := c.post(ctx, "/api/auth/login", body, &resp); err != nil {
		return "", user.Account{}, err
	}
	if resp.Error != "" {
		return "", user.Account{}, fmt.Errorf("%w: %s", ErrLoginRejected, resp.Error)
	}

	return resp.Token, resp.User, nil
}

// Register регистрирует нового пользователя.
func (c *httpClient) Register(ctx context.Context, name, email, password string) (string, user.Account, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var resp authResponse
	if err := c.post(ctx, "/api/auth/register", body, &resp); err != nil {
		return "", user.Account{}, err
	}
	if resp.Error != "" {
		return "", user.Account{}, fmt.Errorf("server error: %s", resp.Error)
	}

	return resp.Token, resp.User, nil
}

// StartOperation отправляет запрос на запуск операции. Payload уходит
// как есть: очередь хранит непрозрачные данные мутации.
func (c *httpClient) StartOperation(ctx context.Context, payload map[string]any) (operation.Operation, error) {
	var op operation.Operation
	if err := c.postEnvelope(ctx, "/api/operations/start", payload, &op); err != nil {
		return operation.Operation{}, err
	}
	return op, nil
}

// StopOperation отправляет запрос на остановку операции.
func (c *httpClient) StopOperation(ctx context.Context, operationID string, payload map[string]any) (operation.Operation, error) {
	var op operation.Operation
	path := fmt.Sprintf("/api/operations/%s/stop", operationID)
	if err := c.postEnvelope(ctx, path, payload, &op); err != nil {
		return operation.Operation{}, err
	}
	return op, nil
}

// ListOperations возвращает все операции, видимые пользователю.
func (c *httpClient) ListOperations(ctx context.Context) ([]operation.Operation, error) {
	var ops []operation.Operation
	if err := c.getEnvelope(ctx, "/api/operations", &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

func (c *httpClient) ListEquipment(ctx context.Context) ([]catalog.Equipment, error) {
	var items []catalog.Equipment
	if err := c.getEnvelope(ctx, "/api/equipment", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *httpClient) ListActivities(ctx context.Context) ([]catalog.Activity, error) {
	var items []catalog.Activity
	if err := c.getEnvelope(ctx, "/api/activities", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *httpClient) ListMaterials(ctx context.Context) ([]catalog.Material, error) {
	var items []catalog.Material
	if err := c.getEnvelope(ctx, "/api/materials", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// HealthCheck проверяет доступность сервера.
func (c *httpClient) HealthCheck(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status: %d", response.StatusCode)
	}
	return nil
}

// postEnvelope выполняет POST и разворачивает конверт {success, data, error}.
func (c *httpClient) postEnvelope(ctx context.Context, path string, body, data any) error {
	var env apiEnvelope
	if err := c.post(ctx, path, body, &env); err != nil {
		return err
	}
	return unwrapEnvelope(env, data)
}

func (c *httpClient) getEnvelope(ctx context.Context, path string, data any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(request)

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer response.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(response.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return unwrapEnvelope(env, data)
}

func (c *httpClient) post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewBuffer(encoded),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(request)

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", response.StatusCode, err)
	}
	return nil
}

func (c *httpClient) setHeaders(request *http.Request) {
	request.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func unwrapEnvelope(env apiEnvelope, data any) error {
	if !env.Success {
		if env.Error != "" {
			return fmt.Errorf("server error: %s", env.Error)
		}
		return fmt.Errorf("server reported failure")
	}

	if data == nil || len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, data); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
