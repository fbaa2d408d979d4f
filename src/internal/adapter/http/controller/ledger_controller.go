package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/usecase/service_interfaces"
)

type LedgerController struct {
	service service_interfaces.LedgerService
}

func NewLedgerController(service service_interfaces.LedgerService) *LedgerController {
	return &LedgerController{service: service}
}

func (c *LedgerController) RegisterRoutes(mux *http.ServeMux, mw func(http.Handler) http.Handler) {
	mux.Handle("POST /account/{acc}", wrap(c.deposit, mw))
	mux.Handle("PUT /account/{acc}", wrap(c.withdraw, mw))
	mux.Handle("PATCH /account", wrap(c.exchange, mw))
	mux.Handle("GET /account/{acc}/transactions", wrap(c.transactions, mw))
}

func (c *LedgerController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountID, err := models.ParseAccountNo(r.PathValue("acc"))
	if err != nil {
		writeBadRequest[models.ConfirmationResponse](w, r, "validation failed", err.Error(), start)
		return
	}

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeBadRequest[models.ConfirmationResponse](w, r, "invalid request body", err.Error(), start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeBadRequest[models.ConfirmationResponse](w, r, "validation failed", err.Error(), start)
		return
	}

	confirmation, err := c.service.Deposit(r.Context(), accountID, req.AssetType, req.DepositAmt)
	if err != nil {
		writeError[models.ConfirmationResponse](w, r, err, "failed to deposit", start)
		return
	}

	writeOK(w, r, http.StatusOK, "deposit successful", mapConfirmation(confirmation), start)
}

func (c *LedgerController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountID, err := models.ParseAccountNo(r.PathValue("acc"))
	if err != nil {
		writeBadRequest[models.ConfirmationResponse](w, r, "validation failed", err.Error(), start)
		return
	}

	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeBadRequest[models.ConfirmationResponse](w, r, "invalid request body", err.Error(), start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeBadRequest[models.ConfirmationResponse](w, r, "validation failed", err.Error(), start)
		return
	}

	confirmation, err := c.service.Withdraw(r.Context(), accountID, req.AssetType, req.WithdrawalAmt)
	if err != nil {
		writeError[models.ConfirmationResponse](w, r, err, "failed to withdraw", start)
		return
	}

	writeOK(w, r, http.StatusOK, "withdrawal successful", mapConfirmation(confirmation), start)
}

func (c *LedgerController) exchange(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeBadRequest[models.ExchangeResponse](w, r, "invalid request body", err.Error(), start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeBadRequest[models.ExchangeResponse](w, r, "validation failed", err.Error(), start)
		return
	}

	result, err := c.service.Exchange(r.Context(), domain.ExchangeRequest{
		SrcAccountID:  req.SrcAccNo,
		DestAccountID: req.DestAccNo,
		SrcAsset:      req.SrcAssetType,
		DestAsset:     req.DestAssetType,
		TransferAmt:   req.TransferAmt,
	})
	if err != nil {
		writeError[models.ExchangeResponse](w, r, err, "failed to exchange", start)
		return
	}

	response := models.ExchangeResponse{
		SrcAccNo:      result.SrcAccountID,
		DestAccNo:     result.DestAccountID,
		SrcAssetType:  result.SrcAsset,
		DestAssetType: result.DestAsset,
		TransferAmt:   result.TransferAmt.String(),
		ExchangeAmt:   result.ExchangeAmt.String(),
		Price:         result.Price.String(),
		WithdrawalID:  result.Withdrawal.ID,
		DepositID:     result.Deposit.ID,
	}
	writeOK(w, r, http.StatusOK, "exchange successful", response, start)
}

func (c *LedgerController) transactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountID, err := models.ParseAccountNo(r.PathValue("acc"))
	if err != nil {
		writeBadRequest[[]models.TransactionResponse](w, r, "validation failed", err.Error(), start)
		return
	}

	history, err := c.service.Transactions(r.Context(), domain.TransactionFilter{
		AccountID: accountID,
		Asset:     r.URL.Query().Get("asset"),
	})
	if err != nil {
		writeError[[]models.TransactionResponse](w, r, err, "failed to fetch transactions", start)
		return
	}

	resp := make([]models.TransactionResponse, 0, len(history))
	for _, tx := range history {
		resp = append(resp, models.TransactionResponse{
			ID:        tx.ID,
			AssetType: tx.Asset,
			Amount:    tx.Amount.String(),
			Timestamp: formatTime(tx.Timestamp),
		})
	}
	writeOK(w, r, http.StatusOK, "transactions fetched successfully", resp, start)
}

func mapConfirmation(confirmation domain.Confirmation) models.ConfirmationResponse {
	return models.ConfirmationResponse{
		AccountNo:     confirmation.AccountID,
		AssetType:     confirmation.Asset,
		Amount:        confirmation.Amount.String(),
		TransactionID: confirmation.Transaction.ID,
		Timestamp:     formatTime(confirmation.Transaction.Timestamp),
	}
}
