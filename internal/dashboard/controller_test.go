package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userboard/internal/dashboard"
	"userboard/internal/dashboard/client"
	"userboard/internal/users/app/dto"
)

// stubFetcher возвращает заранее подготовленные страницы по номеру.
type stubFetcher struct {
	mu    sync.Mutex
	pages map[int]*client.Page
	errs  map[int]error
	calls int
}

func (s *stubFetcher) FetchPage(_ context.Context, page, _ int) (*client.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.errs[page]; ok {
		return nil, err
	}
	if loaded, ok := s.pages[page]; ok {
		return loaded, nil
	}
	return &client.Page{Users: nil, Total: 0}, nil
}

func namesOf(users []dto.UserResponse) []string {
	names := make([]string, 0, len(users))
	for _, user := range users {
		names = append(names, user.Name)
	}
	return names
}

func pageOf(total int, names ...string) *client.Page {
	users := make([]dto.UserResponse, 0, len(names))
	for i, name := range names {
		users = append(users, dto.UserResponse{ID: int64(i + 1), Name: name})
	}
	return &client.Page{Users: users, Total: total}
}

func TestControllerLoadPage(t *testing.T) {
	ctx := context.Background()

	t.Run("successful load enters ready state", func(t *testing.T) {
		fetcher := &stubFetcher{pages: map[int]*client.Page{
			1: pageOf(10, "Alice", "bob", "Charlie", "dave"),
		}}
		controller := dashboard.NewController(fetcher, 4)

		assert.Equal(t, dashboard.StateLoading, controller.State())

		require.NoError(t, controller.LoadPage(ctx, 1))

		assert.Equal(t, dashboard.StateReady, controller.State())
		assert.Equal(t, 1, controller.CurrentPage())
		assert.Equal(t, 3, controller.TotalPages()) // ceil(10/4)
		assert.Equal(t, []string{"Alice", "bob", "Charlie", "dave"}, namesOf(controller.Displayed()))
	})

	t.Run("fetch failure enters error state and next success clears it", func(t *testing.T) {
		fetchErr := errors.New("failed to fetch users")
		fetcher := &stubFetcher{
			pages: map[int]*client.Page{2: pageOf(8, "Erin")},
			errs:  map[int]error{1: fetchErr},
		}
		controller := dashboard.NewController(fetcher, 4)

		require.Error(t, controller.LoadPage(ctx, 1))
		assert.Equal(t, dashboard.StateError, controller.State())
		assert.Equal(t, fetchErr.Error(), controller.ErrorMessage())

		require.NoError(t, controller.LoadPage(ctx, 2))
		assert.Equal(t, dashboard.StateReady, controller.State())
		assert.Empty(t, controller.ErrorMessage())
		assert.Equal(t, []string{"Erin"}, namesOf(controller.Displayed()))
	})

	t.Run("page below one is clamped", func(t *testing.T) {
		fetcher := &stubFetcher{pages: map[int]*client.Page{1: pageOf(1, "Alice")}}
		controller := dashboard.NewController(fetcher, 4)

		require.NoError(t, controller.LoadPage(ctx, -3))
		assert.Equal(t, 1, controller.CurrentPage())
	})
}

func TestControllerSearch(t *testing.T) {
	ctx := context.Background()

	newReady := func(t *testing.T) *dashboard.Controller {
		t.Helper()
		fetcher := &stubFetcher{pages: map[int]*client.Page{
			1: pageOf(3, "Alice", "bob", "Charlie"),
		}}
		controller := dashboard.NewController(fetcher, 4)
		require.NoError(t, controller.LoadPage(ctx, 1))
		return controller
	}

	t.Run("case-insensitive substring match preserves order", func(t *testing.T) {
		controller := newReady(t)

		controller.SetSearch("a")

		assert.Equal(t, []string{"Alice", "Charlie"}, namesOf(controller.Displayed()))
		// Авторитетный набор страницы не изменяется поиском.
		assert.Equal(t, []string{"Alice", "bob", "Charlie"}, namesOf(controller.PageUsers()))
	})

	t.Run("empty term restores the full page", func(t *testing.T) {
		controller := newReady(t)

		controller.SetSearch("a")
		controller.SetSearch("")

		assert.Equal(t, []string{"Alice", "bob", "Charlie"}, namesOf(controller.Displayed()))
	})

	t.Run("whitespace-only term restores the full page", func(t *testing.T) {
		controller := newReady(t)

		controller.SetSearch("   ")

		assert.Equal(t, []string{"Alice", "bob", "Charlie"}, namesOf(controller.Displayed()))
	})

	t.Run("no match yields empty displayed set", func(t *testing.T) {
		controller := newReady(t)

		controller.SetSearch("zzz")

		assert.Empty(t, controller.Displayed())
	})

	t.Run("search survives page reload", func(t *testing.T) {
		controller := newReady(t)

		controller.SetSearch("bo")
		require.NoError(t, controller.LoadPage(ctx, 1))

		assert.Equal(t, []string{"bob"}, namesOf(controller.Displayed()))
	})
}

func TestControllerNavigation(t *testing.T) {
	ctx := context.Background()

	fetcher := &stubFetcher{pages: map[int]*client.Page{
		1: pageOf(8, "Alice", "bob", "Charlie", "dave"),
		2: pageOf(8, "Erin", "frank", "Grace", "heidi"),
	}}
	controller := dashboard.NewController(fetcher, 4)
	require.NoError(t, controller.LoadPage(ctx, 1))

	assert.False(t, controller.CanPrev())
	assert.True(t, controller.CanNext())

	// Назад с первой страницы не двигаемся.
	require.NoError(t, controller.PrevPage(ctx))
	assert.Equal(t, 1, controller.CurrentPage())

	require.NoError(t, controller.NextPage(ctx))
	assert.Equal(t, 2, controller.CurrentPage())
	assert.Equal(t, []string{"Erin", "frank", "Grace", "heidi"}, namesOf(controller.Displayed()))

	assert.True(t, controller.CanPrev())
	assert.False(t, controller.CanNext())

	// Вперед с последней страницы не двигаемся.
	require.NoError(t, controller.NextPage(ctx))
	assert.Equal(t, 2, controller.CurrentPage())
}

// blockingFetcher позволяет управлять порядком завершения конкурирующих запросов.
type blockingFetcher struct {
	started map[int]chan struct{}
	release map[int]chan struct{}
	pages   map[int]*client.Page
}

func (b *blockingFetcher) FetchPage(_ context.Context, page, _ int) (*client.Page, error) {
	if ch, ok := b.started[page]; ok {
		close(ch)
	}
	if ch, ok := b.release[page]; ok {
		<-ch
	}
	return b.pages[page], nil
}

func TestControllerDiscardsStaleResponse(t *testing.T) {
	ctx := context.Background()

	startedFirst := make(chan struct{})
	releaseFirst := make(chan struct{})
	fetcher := &blockingFetcher{
		started: map[int]chan struct{}{1: startedFirst},
		release: map[int]chan struct{}{1: releaseFirst},
		pages: map[int]*client.Page{
			1: pageOf(8, "Alice", "bob", "Charlie", "dave"),
			2: pageOf(8, "Erin", "frank", "Grace", "heidi"),
		},
	}
	controller := dashboard.NewController(fetcher, 4)

	done := make(chan error, 1)
	go func() {
		done <- controller.LoadPage(ctx, 1)
	}()

	// Более поздний запрос отправляется после первого, но завершается раньше.
	<-startedFirst
	require.NoError(t, controller.LoadPage(ctx, 2))
	assert.Equal(t, []string{"Erin", "frank", "Grace", "heidi"}, namesOf(controller.Displayed()))

	// Устаревший ответ первой страницы не должен перезаписать вторую.
	close(releaseFirst)
	require.NoError(t, <-done)

	assert.Equal(t, 2, controller.CurrentPage())
	assert.Equal(t, dashboard.StateReady, controller.State())
	assert.Equal(t, []string{"Erin", "frank", "Grace", "heidi"}, namesOf(controller.Displayed()))
}
