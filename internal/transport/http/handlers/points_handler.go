package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	ledgersvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/ledger"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/dto"
	httperrors "github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/errors"
)

type PointsHandler struct {
	service *ledgersvc.Service
}

func NewPointsHandler(service *ledgersvc.Service) *PointsHandler {
	return &PointsHandler{service: service}
}

func (h *PointsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LEDGER_SERVICE_UNAVAILABLE", "points service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 20)
	summary, err := h.service.Summary(r.Context(), identity.UserID, limit)
	if err != nil {
		switch {
		case errors.Is(err, ledgersvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		case errors.Is(err, ledgersvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid points request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load points summary")
		}
		return
	}

	transactions := make([]dto.PointTransactionResponse, 0, len(summary.Transactions))
	for _, entry := range summary.Transactions {
		transactions = append(transactions, dto.PointTransactionResponse{
			ID:        entry.ID,
			Amount:    entry.Amount,
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.PointsSummaryResponse{
		Balance:      summary.Balance,
		TotalEarned:  summary.TotalEarned,
		TotalSpent:   summary.TotalSpent,
		Level:        summary.Level.Level,
		LevelName:    summary.Level.Name,
		Transactions: transactions,
	})
}
