package dto

import "github.com/jsamuelsen/quote-rotator/internal/domain"

// MenuStateResponse is the body of POST /api/v1/menu/toggle.
type MenuStateResponse struct {
	Class string           `json:"class"`
	State domain.MenuState `json:"state"`
}
