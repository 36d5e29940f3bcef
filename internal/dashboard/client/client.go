// Package client содержит HTTP клиент API пользователей для дашборда.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3/client"

	"userboard/internal/users/app/dto"
)

// HeaderTotalCount - заголовок с общим числом записей.
const HeaderTotalCount = "X-Total-Count"

// ErrFetchFailed возвращается при неуспешном статусе ответа сервера.
var ErrFetchFailed = errors.New("failed to fetch users")

// Page представляет одну загруженную страницу пользователей.
type Page struct {
	Users []dto.UserResponse
	Total int
}

// Client запрашивает страницы пользователей у сервиса.
type Client struct {
	baseURL string
	http    *client.Client
}

// New создает новый клиент API пользователей.
func New(baseURL string, timeout time.Duration) *Client {
	httpClient := client.New()
	httpClient.SetTimeout(timeout)

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// FetchPage загружает страницу page размером limit. Общее число записей
// берется из заголовка X-Total-Count, конверт ответа служит запасным
// источником.
func (c *Client) FetchPage(ctx context.Context, page, limit int) (*Page, error) {
	url := fmt.Sprintf("%s/api/users?_page=%d&_limit=%d", c.baseURL, page, limit)

	resp, err := c.http.Get(url, client.Config{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("requesting users page: %w", err)
	}
	defer resp.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode())
	}

	var envelope dto.ListEnvelope
	if err := resp.JSON(&envelope); err != nil {
		return nil, fmt.Errorf("decoding users page: %w", err)
	}

	total := envelope.Total
	if header := resp.Header(HeaderTotalCount); header != "" {
		if parsed, err := strconv.Atoi(header); err == nil {
			total = parsed
		}
	}

	return &Page{
		Users: envelope.Data,
		Total: total,
	}, nil
}
