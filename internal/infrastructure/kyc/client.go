package kyc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
)

const (
	// DefaultNINValidationURL указывает на эндпоинт Dojah для проверки NIN.
	DefaultNINValidationURL = "https://api.dojah.io/api/v1/kyc/nin"

	defaultTimeout  = 45 * time.Second
	maxResponseSize = 1 << 20
)

// Category классифицирует причину неудачного запроса к провайдеру.
type Category string

const (
	CategoryNotConfigured Category = "not_configured"
	CategoryTimeout       Category = "timeout"
	CategoryUnavailable   Category = "provider_outage"
	CategoryRejected      Category = "rejected"
	CategoryBadData       Category = "bad_data"
)

// LookupError описывает неудачный KYC-запрос.
type LookupError struct {
	Category   Category
	StatusCode int
	Message    string
	Underlying error
}

func (e *LookupError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("kyc: %s (status=%d): %s", e.Category, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("kyc: %s: %s", e.Category, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Underlying
}

// Retryable сообщает, имеет ли смысл повторить запрос позже.
func (e *LookupError) Retryable() bool {
	switch e.Category {
	case CategoryTimeout, CategoryUnavailable:
		return true
	}
	return false
}

// Client обращается к Dojah KYC API.
type Client struct {
	appID      string
	secretKey  string
	endpoint   string
	httpClient *http.Client
}

// NewClient создаёт клиента. Пустой endpoint заменяется адресом по умолчанию.
func NewClient(appID, secretKey, endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultNINValidationURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		appID:      appID,
		secretKey:  secretKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Entity map[string]any `json:"entity"`
}

// LookupNIN возвращает атрибуты личности или *LookupError.
func (c *Client) LookupNIN(ctx context.Context, nin valueobject.NIN) (entity.IdentityDetail, error) {
	if c.appID == "" || c.secretKey == "" {
		return nil, &LookupError{Category: CategoryNotConfigured, Message: "dojah credentials are not configured"}
	}

	target, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &LookupError{Category: CategoryNotConfigured, Message: "invalid endpoint", Underlying: err}
	}
	q := target.Query()
	q.Set("nin", nin.String())
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &LookupError{Category: CategoryNotConfigured, Message: "build request", Underlying: err}
	}
	req.Header.Set("AppId", c.appID)
	req.Header.Set("Authorization", c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &LookupError{Category: CategoryUnavailable, StatusCode: resp.StatusCode, Message: "read response", Underlying: err}
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	default:
		category := CategoryRejected
		if resp.StatusCode >= http.StatusInternalServerError {
			category = CategoryUnavailable
		}
		return nil, &LookupError{Category: category, StatusCode: resp.StatusCode, Message: truncate(string(body), 256)}
	}

	var payload lookupResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &LookupError{Category: CategoryBadData, StatusCode: resp.StatusCode, Message: "malformed json", Underlying: err}
	}
	if len(payload.Entity) == 0 {
		return nil, &LookupError{Category: CategoryBadData, StatusCode: resp.StatusCode, Message: "entity is missing"}
	}

	return entity.IdentityDetail(payload.Entity), nil
}

func transportError(err error) *LookupError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &LookupError{Category: CategoryTimeout, Message: "request timed out", Underlying: err}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &LookupError{Category: CategoryTimeout, Message: "request timed out", Underlying: err}
	}
	return &LookupError{Category: CategoryUnavailable, Message: "request failed", Underlying: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
