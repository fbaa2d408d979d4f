package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, mw func(http.Handler) http.Handler) {
	mux.Handle("POST /accounts", wrap(c.createAccount, mw))
	mux.Handle("GET /accounts", wrap(c.listAccounts, mw))
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateAccountRequest
	// an empty body opens an account with the next free number
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logError(r, err, nil)
		writeBadRequest[models.AccountResponse](w, r, "invalid request body", err.Error(), start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeBadRequest[models.AccountResponse](w, r, "validation failed", err.Error(), start)
		return
	}

	account, err := c.service.OpenAccount(r.Context(), req.AccountNo)
	if err != nil {
		writeError[models.AccountResponse](w, r, err, "failed to create account", start)
		return
	}

	writeOK(w, r, http.StatusCreated, "account created successfully", mapAccount(account), start)
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accounts, err := c.service.ListAccounts(r.Context())
	if err != nil {
		writeError[[]models.AccountResponse](w, r, err, "failed to list accounts", start)
		return
	}

	resp := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, mapAccount(account))
	}
	writeOK(w, r, http.StatusOK, "accounts fetched successfully", resp, start)
}

func mapAccount(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		AccountNo: account.ID,
		CreatedAt: formatTime(account.CreatedAt),
	}
}
