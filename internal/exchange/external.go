// internal/exchange/external.go
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jpillora/backoff"
	"go.uber.org/zap"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/logger"
)

// ExternalClient забирает метрики из внешних HTTP-источников:
// индекс страха и жадности (alternative.me) и агрегированные объемы
// ликвидаций (настраиваемый агрегатор)
type ExternalClient struct {
	httpClient *http.Client
	config     config.SourcesConfig
}

// NewExternalClient создает новый клиент внешних источников
func NewExternalClient(cfg config.SourcesConfig) *ExternalClient {
	return &ExternalClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		config: cfg,
	}
}

// fearGreedResponse формат ответа alternative.me
type fearGreedResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
	} `json:"data"`
}

// GetFearGreedIndex получает текущее значение индекса страха и жадности
func (c *ExternalClient) GetFearGreedIndex(ctx context.Context) (float64, error) {
	var resp fearGreedResponse
	if err := c.getJSON(ctx, c.config.FearGreedURL, &resp); err != nil {
		return 0, fmt.Errorf("ошибка получения индекса страха и жадности: %w", err)
	}
	if len(resp.Data) == 0 {
		return 0, fmt.Errorf("пустой ответ индекса страха и жадности")
	}

	value, err := strconv.ParseFloat(resp.Data[0].Value, 64)
	if err != nil {
		return 0, fmt.Errorf("ошибка разбора индекса: %w", err)
	}
	return value, nil
}

// liquidationsResponse формат ответа агрегатора ликвидаций
type liquidationsResponse struct {
	LongVolume  float64 `json:"long_volume"`
	ShortVolume float64 `json:"short_volume"`
}

// GetLiquidations получает агрегированные объемы ликвидаций по сторонам.
// Источник опционален: без настроенного URL фактор просто не участвует.
func (c *ExternalClient) GetLiquidations(ctx context.Context, symbol string) (long, short float64, err error) {
	if c.config.LiquidationsURL == "" {
		return 0, 0, fmt.Errorf("источник ликвидаций не настроен")
	}

	url := fmt.Sprintf("%s?symbol=%s", c.config.LiquidationsURL, symbol)
	var resp liquidationsResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return 0, 0, fmt.Errorf("ошибка получения объемов ликвидаций: %w", err)
	}
	return resp.LongVolume, resp.ShortVolume, nil
}

// getJSON выполняет GET с повторными попытками и экспоненциальной задержкой
func (c *ExternalClient) getJSON(ctx context.Context, url string, out interface{}) error {
	b := &backoff.Backoff{
		Min:    200 * time.Millisecond,
		Max:    3 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := b.Duration()
			logger.Debug("Повторный запрос к внешнему источнику",
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("неожиданный статус %d", resp.StatusCode)
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
