package handler

import (
	"net/http"

	"github.com/versflip/versflip/internal/api/apierr"
	"github.com/versflip/versflip/internal/api/middleware"
	"github.com/versflip/versflip/internal/api/response"
	"github.com/versflip/versflip/internal/services/wallet"
)

// WalletHandler handles balance endpoints
type WalletHandler struct {
	walletService *wallet.Service
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService *wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetBalance handles GET /api/v1/wallet/balance
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	balance, err := h.walletService.CurrentBalance(r.Context(), session.Identity())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BalanceResponse{Balance: balance})
}
