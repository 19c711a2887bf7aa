package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postaibot-webapp/internal/common/i18n"
	"postaibot-webapp/internal/common/middleware"
	"postaibot-webapp/internal/features/welcome/host"
	"postaibot-webapp/internal/features/welcome/models"
	"postaibot-webapp/internal/features/welcome/service"
	"postaibot-webapp/internal/features/welcome/surface"
)

const (
	notAuthorized = "Вы не авторизованы в Telegram WebApp."
	deepLink      = `href="https://t.me/NewsAnaliticAI_bot?start=topics"`
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, token string, factory DocumentFactory) *gin.Engine {
	t.Helper()

	tr, err := i18n.Default()
	require.NoError(t, err)
	s, err := surface.New(tr)
	require.NoError(t, err)

	h := NewWelcomeHandler(service.NewBootstrapper(s), s, factory, token, time.Hour)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler(), middleware.TelegramInitData())
	h.RegisterRoutes(r, r.Group("/api/v1"))
	return r
}

func initDataQuery(userJSON string) string {
	raw := url.Values{"user": {userJSON}}.Encode()
	return "?init_data=" + url.QueryEscape(raw)
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPageAnonymous(t *testing.T) {
	r := newRouter(t, "", nil)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, `<div id="root">`)
	assert.Contains(t, body, ">PostAIBot</h1>")
	assert.Contains(t, body, notAuthorized)
	assert.Contains(t, body, deepLink)
}

func TestPageWithUser(t *testing.T) {
	r := newRouter(t, "", nil)

	w := get(r, "/"+initDataQuery(`{"id":1,"first_name":"Иван","last_name":"Петров"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Добро пожаловать, Иван Петров!")
	assert.NotContains(t, w.Body.String(), notAuthorized)
	assert.Contains(t, w.Body.String(), deepLink)
}

func TestPageWithInitDataHeader(t *testing.T) {
	r := newRouter(t, "", nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.InitDataHeader, url.Values{"user": {`{"id":1,"first_name":"Иван"}`}}.Encode())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "Добро пожаловать, Иван!")
}

func TestPageUnsignedInitDataRejectedWhenTokenSet(t *testing.T) {
	r := newRouter(t, "1:token", nil)

	w := get(r, "/"+initDataQuery(`{"id":1,"first_name":"Иван"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), notAuthorized)
}

func TestPageMalformedInitData(t *testing.T) {
	r := newRouter(t, "", nil)

	w := get(r, "/"+initDataQuery(`{"id":`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), notAuthorized)
}

func TestPageWithoutMountTarget(t *testing.T) {
	factory := func() (*host.Document, error) {
		return host.Parse(strings.NewReader(`<html><body><div id="app"></div></body></html>`))
	}
	r := newRouter(t, "", factory)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<div id="app"></div>`)
	assert.NotContains(t, w.Body.String(), "PostAIBot")
}

func TestGreetingJSON(t *testing.T) {
	r := newRouter(t, "", nil)

	var resp models.GreetingResponse

	w := get(r, "/api/v1/greeting")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Authorized)
	assert.Equal(t, "Гость", resp.FirstName)
	assert.Equal(t, notAuthorized, resp.Message)
	assert.Equal(t, "https://t.me/NewsAnaliticAI_bot?start=topics", resp.Link)

	w = get(r, "/api/v1/greeting"+initDataQuery(`{"id":1,"first_name":"Иван"}`))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Authorized)
	assert.Equal(t, "Добро пожаловать, Иван!", resp.Message)
	assert.Empty(t, resp.LastName)
}
