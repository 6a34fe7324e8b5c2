package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type stubPagePoster struct {
	postID string
	err    error

	pageID    string
	pageToken string
	message   string
}

func (s *stubPagePoster) PostToPage(ctx context.Context, pageID, pageToken, message string) (string, error) {
	s.pageID = pageID
	s.pageToken = pageToken
	s.message = message
	return s.postID, s.err
}

func pagePostTestRouter(t *testing.T, poster *stubPagePoster) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/api/fb-page-post", HandleFacebookPagePost(poster, zap.NewNop()))
	return router
}

func TestFacebookPagePostReturnsPostID(t *testing.T) {
	poster := &stubPagePoster{postID: "1234567890_987654321"}
	router := pagePostTestRouter(t, poster)

	body := `{"pageId":"1234567890","message":"โปรโมชั่นวันนี้","accessToken":"page-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/fb-page-post", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"1234567890_987654321"}`, w.Body.String())
	assert.Equal(t, "1234567890", poster.pageID)
	assert.Equal(t, "page-token", poster.pageToken)
	assert.Equal(t, "โปรโมชั่นวันนี้", poster.message)
}

func TestFacebookPagePostMissingFields(t *testing.T) {
	router := pagePostTestRouter(t, &stubPagePoster{})

	req := httptest.NewRequest(http.MethodPost, "/api/fb-page-post", strings.NewReader(`{"pageId":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFacebookPagePostUpstreamFailure(t *testing.T) {
	poster := &stubPagePoster{err: &errors.ErrUpstream{Service: "facebook"}}
	router := pagePostTestRouter(t, poster)

	body := `{"pageId":"1234567890","message":"hello","accessToken":"page-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/fb-page-post", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
