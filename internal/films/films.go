// Package films — доступ к внешним кино-каталогам. Ядро вовлечённости
// не разбирает их ответы: payload — непрозрачный JSON, который
// кэшируется и отдаётся как есть; вся бизнес-логика ограничена моделью
// критериев оценки (internal/rating).
package films

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/avikulina/kinolenta/internal/config"
)

// Fetcher — узкий контракт каталога: фильм/сериал по внешнему id.
type Fetcher interface {
	FilmByID(ctx context.Context, id string) (json.RawMessage, error)
}

// Client — resty-обёртка одного каталога.
type Client struct {
	http *resty.Client
	name string
	path func(id string) string
}

// NewKinopoisk — клиент неофициального API Кинопоиска.
// Ключ передаётся заголовком X-API-KEY.
func NewKinopoisk(cfg config.FilmsConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.KinopoiskURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-API-KEY", cfg.APIKey).
		SetTimeout(cfg.Timeout)

	return &Client{
		http: c,
		name: "kinopoisk",
		path: func(id string) string { return "/api/v2.2/films/" + id },
	}
}

// NewTMDB — клиент TMDB. Ключ передаётся query-параметром.
func NewTMDB(cfg config.FilmsConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.TMDBURL).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("api_key", cfg.APIKey).
		SetTimeout(cfg.Timeout)

	return &Client{
		http: c,
		name: "tmdb",
		path: func(id string) string { return "/movie/" + id },
	}
}

// NewOMDB — клиент OMDB. Идентификатор и ключ — query-параметры.
func NewOMDB(cfg config.FilmsConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.OMDBURL).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("apikey", cfg.APIKey).
		SetTimeout(cfg.Timeout)

	return &Client{
		http: c,
		name: "omdb",
		path: func(id string) string { return "/?i=" + id },
	}
}

// FilmByID возвращает сырой ответ каталога по внешнему идентификатору.
func (c *Client) FilmByID(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: empty film id", c.name)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.path(id))
	if err != nil {
		return nil, fmt.Errorf("%s: request: %w", c.name, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %s", c.name, resp.StatusCode(), resp.String())
	}

	// Валидность JSON проверяем, содержимое не интерпретируем.
	raw := json.RawMessage(resp.Body())
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s: invalid json payload", c.name)
	}

	out := make(json.RawMessage, len(raw))
	copy(out, raw)

	return out, nil
}
