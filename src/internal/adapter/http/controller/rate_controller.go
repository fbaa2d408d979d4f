package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/api-sage/asset-ledger/src/internal/usecase/service_interfaces"
)

type RateController struct {
	service service_interfaces.RateService
}

func NewRateController(service service_interfaces.RateService) *RateController {
	return &RateController{service: service}
}

func (c *RateController) RegisterRoutes(mux *http.ServeMux, mw func(http.Handler) http.Handler) {
	mux.Handle("GET /rates", wrap(c.getRates, mw))
	mux.Handle("GET /rate", wrap(c.getRate, mw))
	mux.Handle("POST /quote", wrap(c.quote, mw))
}

func (c *RateController) getRates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetRates(r.Context())
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status, _ := errorStatus(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *RateController) getRate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := models.GetRateRequest{
		FromCurrency: r.URL.Query().Get("from"),
		ToCurrency:   r.URL.Query().Get("to"),
	}
	logRequest(r, req)

	response, err := c.service.GetRate(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status, _ := errorStatus(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *RateController) quote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeBadRequest[models.QuoteResponse](w, r, "invalid request body", err.Error(), start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Quote(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status, _ := errorStatus(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
