package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/usecase/service_interfaces"
)

type BalanceController struct {
	service service_interfaces.BalanceService
}

func NewBalanceController(service service_interfaces.BalanceService) *BalanceController {
	return &BalanceController{service: service}
}

func (c *BalanceController) RegisterRoutes(mux *http.ServeMux, mw func(http.Handler) http.Handler) {
	mux.Handle("GET /account/{acc}", wrap(c.balances, mw))
	mux.Handle("GET /account/{acc}/{asset}", wrap(c.balances, mw))
	mux.Handle("GET /account/{acc}/{start}/{end}", wrap(c.balances, mw))
	mux.Handle("GET /account/{acc}/{asset}/{start}/{end}", wrap(c.balances, mw))
}

func (c *BalanceController) balances(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	query, err := balanceQuery(r)
	if err != nil {
		writeBadRequest[models.BalanceResponse](w, r, "validation failed", err.Error(), start)
		return
	}

	balances, err := c.service.Balances(r.Context(), query)
	if err != nil {
		writeError[models.BalanceResponse](w, r, err, "failed to fetch balances", start)
		return
	}

	response := models.BalanceResponse{
		AccountNo: query.AccountID,
		Balances:  make(map[string]string, len(balances)),
	}
	for _, balance := range balances {
		response.Balances[balance.Asset] = balance.Amount.String()
	}
	if query.Windowed() {
		response.Start = formatTime(*query.Start)
		response.End = formatTime(*query.End)
	}
	writeOK(w, r, http.StatusOK, "balances fetched successfully", response, start)
}

func balanceQuery(r *http.Request) (domain.BalanceQuery, error) {
	accountID, err := models.ParseAccountNo(r.PathValue("acc"))
	if err != nil {
		return domain.BalanceQuery{}, err
	}

	query := domain.BalanceQuery{AccountID: accountID, Asset: r.PathValue("asset")}
	if raw := r.PathValue("start"); raw != "" {
		ts, err := models.ParseTimestamp(raw)
		if err != nil {
			return domain.BalanceQuery{}, err
		}
		query.Start = &ts
	}
	if raw := r.PathValue("end"); raw != "" {
		ts, err := models.ParseTimestamp(raw)
		if err != nil {
			return domain.BalanceQuery{}, err
		}
		query.End = &ts
	}
	return query, nil
}
