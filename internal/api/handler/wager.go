package handler

import (
	"encoding/json"
	"net/http"

	"github.com/versflip/versflip/internal/api/apierr"
	"github.com/versflip/versflip/internal/api/middleware"
	"github.com/versflip/versflip/internal/api/request"
	"github.com/versflip/versflip/internal/api/response"
	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/services/wager"
)

// WagerHandler handles wager endpoints
type WagerHandler struct {
	wagerController *wager.Controller
}

// NewWagerHandler creates a new wager handler
func NewWagerHandler(wagerController *wager.Controller) *WagerHandler {
	return &WagerHandler{
		wagerController: wagerController,
	}
}

// Place handles POST /api/v1/wager
func (h *WagerHandler) Place(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.PlaceWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.wagerController.PlaceWager(r.Context(), session.Identity(), req.Stake, model.RiskProfile(req.Risk))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WagerResponseFromModel(result))
}
