// Package dashboard реализует клиентское состояние списка пользователей:
// постраничную загрузку и локальный поиск по загруженной странице.
package dashboard

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"userboard/internal/dashboard/client"
	"userboard/internal/users/app/dto"
	"userboard/pkg/logger"
)

// State описывает состояние контроллера страницы.
type State string

// Состояния контроллера.
const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// DefaultPageSize - фиксированный размер страницы дашборда.
const DefaultPageSize = 4

const (
	msgLoadingPage       = "loading users page"
	msgPageLoaded        = "users page loaded"
	msgPageLoadFailed    = "users page load failed"
	msgStaleResponseDrop = "discarding stale page response"
)

// PageFetcher загружает одну страницу пользователей с сервера.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, limit int) (*client.Page, error)
}

// Controller хранит состояние представления страницы: текущую страницу,
// общее число страниц, загруженный набор записей и отфильтрованное
// подмножество по поисковому запросу. Поиск не обращается к серверу и
// действует только на загруженную страницу.
type Controller struct {
	mu      sync.Mutex
	fetcher PageFetcher

	pageSize    int
	state       State
	currentPage int
	totalPages  int
	errMessage  string
	searchTerm  string

	pageUsers []dto.UserResponse
	displayed []dto.UserResponse

	// Монотонный номер последнего отправленного запроса; ответы с меньшим
	// номером отбрасываются, чтобы устаревший ответ не перезаписал свежий.
	latestSeq uint64
}

// NewController создает контроллер с указанным размером страницы.
// Неположительный pageSize заменяется значением по умолчанию.
func NewController(fetcher PageFetcher, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		fetcher:     fetcher,
		pageSize:    pageSize,
		state:       StateLoading,
		currentPage: 1,
		totalPages:  1,
	}
}

// LoadPage загружает страницу page и делает ее текущей. Во время загрузки
// контроллер находится в состоянии loading; ошибка переводит его в error
// до следующей успешной загрузки.
func (c *Controller) LoadPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.state = StateLoading
	c.currentPage = page
	c.latestSeq++
	seq := c.latestSeq
	c.mu.Unlock()

	log := logger.Log(ctx).With(zap.Int("page", page), zap.Int("page_size", c.pageSize))
	log.Debug(ctx, msgLoadingPage)

	loaded, err := c.fetcher.FetchPage(ctx, page, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.latestSeq {
		log.Debug(ctx, msgStaleResponseDrop)
		return nil
	}

	if err != nil {
		log.Error(ctx, msgPageLoadFailed, zap.Error(err))
		c.state = StateError
		c.errMessage = err.Error()
		return err
	}

	c.pageUsers = loaded.Users
	c.totalPages = (loaded.Total + c.pageSize - 1) / c.pageSize
	c.applyFilter()
	c.state = StateReady
	c.errMessage = ""

	log.Debug(ctx, msgPageLoaded, zap.Int("count", len(loaded.Users)), zap.Int("total_pages", c.totalPages))
	return nil
}

// SetSearch обновляет поисковый запрос и пересчитывает отображаемый набор.
// Повторная загрузка страницы не выполняется.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchTerm = term
	c.applyFilter()
}

// applyFilter пересчитывает displayed по текущему запросу. Пустой запрос
// восстанавливает полный набор страницы; иначе выполняется
// регистронезависимый поиск подстроки в имени с сохранением порядка.
// Вызывается под мьютексом.
func (c *Controller) applyFilter() {
	trimmed := strings.TrimSpace(c.searchTerm)
	if trimmed == "" {
		c.displayed = c.pageUsers
		return
	}

	needle := strings.ToLower(trimmed)
	filtered := make([]dto.UserResponse, 0, len(c.pageUsers))
	for _, user := range c.pageUsers {
		if strings.Contains(strings.ToLower(user.Name), needle) {
			filtered = append(filtered, user)
		}
	}
	c.displayed = filtered
}

// NextPage загружает следующую страницу, если текущая не последняя.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.currentPage >= c.totalPages {
		c.mu.Unlock()
		return nil
	}
	next := c.currentPage + 1
	c.mu.Unlock()

	return c.LoadPage(ctx, next)
}

// PrevPage загружает предыдущую страницу, если текущая не первая.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	if c.currentPage <= 1 {
		c.mu.Unlock()
		return nil
	}
	prev := c.currentPage - 1
	c.mu.Unlock()

	return c.LoadPage(ctx, prev)
}

// State возвращает текущее состояние контроллера.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentPage возвращает номер текущей страницы.
func (c *Controller) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// TotalPages возвращает общее число страниц по данным сервера.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

// ErrorMessage возвращает сообщение последней ошибки загрузки.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMessage
}

// SearchTerm возвращает текущий поисковый запрос.
func (c *Controller) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchTerm
}

// Displayed возвращает копию отображаемого набора записей.
func (c *Controller) Displayed() []dto.UserResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]dto.UserResponse, len(c.displayed))
	copy(out, c.displayed)
	return out
}

// PageUsers возвращает копию полного набора текущей страницы.
func (c *Controller) PageUsers() []dto.UserResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]dto.UserResponse, len(c.pageUsers))
	copy(out, c.pageUsers)
	return out
}

// CanPrev сообщает, доступна ли навигация назад.
func (c *Controller) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage > 1
}

// CanNext сообщает, доступна ли навигация вперед.
func (c *Controller) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage < c.totalPages
}
