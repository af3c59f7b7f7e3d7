package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-rotator/internal/app"
	"github.com/jsamuelsen/quote-rotator/internal/platform/logging"
)

const (
	// MenuCookieName holds the class attribute of the visitor's menu.
	MenuCookieName = "menu_class"

	maxMenuClassLen = 256
	menuCookieAge   = 365 * 24 * 60 * 60
)

// MenuHandlerConfig configures a MenuHandler.
type MenuHandlerConfig struct {
	Toggler *app.MenuToggler

	// InitiallyFolded is the state of a menu without a cookie.
	InitiallyFolded bool

	// SecureCookie sets the Secure attribute on the menu cookie.
	SecureCookie bool
}

// MenuHandler toggles the navigation menu. The menu element of a visitor is
// the class attribute kept in the menu cookie.
type MenuHandler struct {
	toggler         *app.MenuToggler
	initiallyFolded bool
	secure          bool
}

// NewMenuHandler creates a menu handler.
func NewMenuHandler(cfg MenuHandlerConfig) *MenuHandler {
	toggler := cfg.Toggler
	if toggler == nil {
		toggler = app.NewMenuToggler(app.MenuTogglerConfig{})
	}

	return &MenuHandler{
		toggler:         toggler,
		initiallyFolded: cfg.InitiallyFolded,
		secure:          cfg.SecureCookie,
	}
}

// Element returns the visitor's menu element: the cookie class, or the
// initial markup class when the cookie is missing or oversized.
func (h *MenuHandler) Element(c *gin.Context) *app.MenuElement {
	class, err := c.Cookie(MenuCookieName)
	if err != nil || len(class) > maxMenuClassLen {
		class = h.toggler.Initial(h.initiallyFolded)
	}

	return &app.MenuElement{Class: class}
}

// Toggler returns the toggler used by the handler.
func (h *MenuHandler) Toggler() *app.MenuToggler {
	return h.toggler
}

func (h *MenuHandler) toggle(c *gin.Context) dto.MenuStateResponse {
	el := h.Element(c)
	state := h.toggler.Toggle(el)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(MenuCookieName, el.Class, menuCookieAge, "/", "", h.secure, true)

	logging.Trace(c.Request.Context(), logging.FromContext(c.Request.Context()), "menu toggled",
		"class", el.Class,
		"state", string(state),
	)

	return dto.MenuStateResponse{Class: el.Class, State: state}
}

// Toggle handles POST /menu/toggle from the page form: one activation of the
// toggle control, then 303 back to the page.
func (h *MenuHandler) Toggle(c *gin.Context) {
	h.toggle(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// ToggleJSON handles POST /api/v1/menu/toggle.
func (h *MenuHandler) ToggleJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.toggle(c))
}

// RegisterRoutes mounts the JSON toggle on api (/api/v1).
func (h *MenuHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/menu/toggle", h.ToggleJSON)
}
