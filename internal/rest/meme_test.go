package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narongrit/meme-hub/domain"
	"github.com/narongrit/meme-hub/internal/rest"
	"github.com/narongrit/meme-hub/internal/rest/middleware"
)

type stubFeed struct {
	lastViewer int64
	page       domain.FeedPage
	deleteErr  error
}

func (s *stubFeed) GetFeed(_ context.Context, page, pageSize int, search, category string, viewerID int64) (domain.FeedPage, error) {
	s.lastViewer = viewerID
	return s.page, nil
}

func (s *stubFeed) CreateMeme(context.Context, *domain.Meme, []byte, string) error { return nil }
func (s *stubFeed) DeleteMeme(_ context.Context, _ int64, requester domain.User) error {
	return s.deleteErr
}
func (s *stubFeed) GetImage(context.Context, int64) ([]byte, error) { return nil, domain.ErrNotFound }
func (s *stubFeed) OnMemeCreated(context.Context, domain.Meme)      {}
func (s *stubFeed) OnMemeDeleted(context.Context, int64)            {}

type stubLedger struct {
	res domain.ToggleResult
	err error
}

func (s *stubLedger) Toggle(context.Context, int64, int64) (domain.ToggleResult, error) {
	return s.res, s.err
}

func setupRouter(feed *stubFeed, ledger *stubLedger, viewerID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	route := gin.New()
	if viewerID > 0 {
		route.Use(func(c *gin.Context) {
			c.Set(middleware.CtxUserID, viewerID)
			c.Set(middleware.CtxUserRole, domain.RoleUser)
		})
	}

	h := rest.NewMemeHandler(feed, ledger)
	route.GET("/api/memes", h.Fetch)
	route.POST("/api/memes/:id/like", h.ToggleLike)
	route.DELETE("/api/memes/:id", h.Delete)
	return route
}

func TestFetchServesFeed(t *testing.T) {
	feed := &stubFeed{page: domain.FeedPage{
		Items: []domain.FeedItem{
			{ID: 2, Title: "second", Likes: 3, IsLiked: true, CreatedAt: time.Now()},
		},
		HasMore: true,
	}}
	route := setupRouter(feed, &stubLedger{}, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/memes?page=1&limit=20", nil)
	route.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), feed.lastViewer)

	var body struct {
		Data []struct {
			ID      int64 `json:"id"`
			IsLiked bool  `json:"is_liked"`
		} `json:"data"`
		HasMore bool `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.True(t, body.Data[0].IsLiked)
	assert.True(t, body.HasMore)
}

func TestFetchAnonymousViewer(t *testing.T) {
	feed := &stubFeed{}
	route := setupRouter(feed, &stubLedger{}, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/memes", nil)
	route.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), feed.lastViewer)
}

func TestToggleLike(t *testing.T) {
	route := setupRouter(&stubFeed{}, &stubLedger{res: domain.Liked}, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/memes/9/like", nil)
	route.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"liked"}`, w.Body.String())
}

func TestToggleLikeRequiresAuth(t *testing.T) {
	route := setupRouter(&stubFeed{}, &stubLedger{res: domain.Liked}, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/memes/9/like", nil)
	route.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestToggleLikeUnknownMeme(t *testing.T) {
	route := setupRouter(&stubFeed{}, &stubLedger{err: domain.ErrNotFound}, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/memes/999/like", nil)
	route.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteForbidden(t *testing.T) {
	route := setupRouter(&stubFeed{deleteErr: domain.ErrForbidden}, &stubLedger{}, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/memes/9", nil)
	route.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
