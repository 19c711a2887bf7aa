package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "postaibot-webapp/internal/common/errors"
	"postaibot-webapp/internal/common/middleware"
	"postaibot-webapp/internal/features/welcome/bridge"
	"postaibot-webapp/internal/features/welcome/host"
	"postaibot-webapp/internal/features/welcome/service"
	"postaibot-webapp/internal/features/welcome/surface"
)

// DocumentFactory builds a fresh host page per response.
type DocumentFactory func() (*host.Document, error)

type WelcomeHandler struct {
	boot        *service.Bootstrapper
	surface     *surface.Surface
	newDocument DocumentFactory
	botToken    string
	initDataTTL time.Duration
}

func NewWelcomeHandler(boot *service.Bootstrapper, s *surface.Surface, newDocument DocumentFactory, botToken string, initDataTTL time.Duration) *WelcomeHandler {
	if newDocument == nil {
		newDocument = host.Default
	}
	return &WelcomeHandler{
		boot:        boot,
		surface:     s,
		newDocument: newDocument,
		botToken:    botToken,
		initDataTTL: initDataTTL,
	}
}

// RegisterRoutes mounts the page on router and the JSON form under api.
func (h *WelcomeHandler) RegisterRoutes(router gin.IRoutes, api gin.IRoutes) {
	wrap := middleware.HandleErrorWrapper()
	router.GET("/", wrap(h.getPage))
	api.GET("/greeting", h.getGreeting)
}

func (h *WelcomeHandler) bridgeFor(c *gin.Context) bridge.Bridge {
	return bridge.FromRequest(middleware.InitDataFromContext(c), h.botToken, h.initDataTTL)
}

// getPage renders the host page with the welcome screen mounted. Bridge
// and mount failures still answer 200 with whatever the page holds.
func (h *WelcomeHandler) getPage(c *gin.Context) {
	doc, err := h.newDocument()
	if err != nil {
		_ = c.Error(apperrors.NewRenderError(err))
		return
	}

	h.boot.Run(c.Request.Context(), h.bridgeFor(c), doc)

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		_ = c.Error(apperrors.NewRenderError(err))
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// getGreeting returns the same view as JSON. Bridge failures degrade to
// the guest view.
func (h *WelcomeHandler) getGreeting(c *gin.Context) {
	user, _ := h.boot.ReadUser(c.Request.Context(), h.bridgeFor(c))
	c.JSON(http.StatusOK, h.surface.Build(user).Response())
}
