package cn23

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/retour-ops/retour/internal/shared"
)

// Handler exposes CN23 product library and declaration form endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers CN23 routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(shared.RequireLogin)
	r.Get("/products", h.searchProducts)
	r.Post("/products", h.createProduct)
	r.Put("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
	r.Get("/forms/{shipment_id}", h.getForm)
	r.Post("/forms/{shipment_id}", h.saveForm)
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("search cn23 products", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if products == nil {
		products = []Product{}
	}
	shared.OK(w, shared.Envelope{"data": products})
}

type createProductRequest struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	HSCode        *string  `json:"hs_code"`
	OriginCountry string   `json:"origin_country"`
	NetWeightKg   *float64 `json:"net_weight_kg"`
	UnitValue     *float64 `json:"unit_value"`
	Currency      string   `json:"currency"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if req.Name == "" {
		shared.Fail(w, http.StatusBadRequest, shared.CodeNameRequired)
		return
	}
	if req.OriginCountry == "" {
		req.OriginCountry = "CN"
	}
	if req.Currency == "" {
		req.Currency = "EUR"
	}

	id, err := h.repo.CreateProduct(r.Context(), Product{
		Name:          req.Name,
		Description:   req.Description,
		HSCode:        req.HSCode,
		OriginCountry: req.OriginCountry,
		NetWeightKg:   req.NetWeightKg,
		UnitValue:     req.UnitValue,
		Currency:      req.Currency,
	})
	if err != nil {
		h.logger.Error("create cn23 product", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{"id": id})
}

type updateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	HSCode        *string  `json:"hs_code"`
	OriginCountry *string  `json:"origin_country"`
	NetWeightKg   *float64 `json:"net_weight_kg"`
	UnitValue     *float64 `json:"unit_value"`
	Currency      *string  `json:"currency"`
	Active        *bool    `json:"active"`
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.HSCode != nil {
		updates["hs_code"] = *req.HSCode
	}
	if req.OriginCountry != nil {
		updates["origin_country"] = *req.OriginCountry
	}
	if req.NetWeightKg != nil {
		updates["net_weight_kg"] = *req.NetWeightKg
	}
	if req.UnitValue != nil {
		updates["unit_value"] = *req.UnitValue
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		shared.OK(w, nil)
		return
	}

	if err := h.repo.UpdateProduct(r.Context(), id, updates); err != nil {
		h.logger.Error("update cn23 product", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}
	if err := h.repo.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error("delete cn23 product", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}

func (h *Handler) getForm(w http.ResponseWriter, r *http.Request) {
	shipmentID, err := strconv.ParseInt(chi.URLParam(r, "shipment_id"), 10, 64)
	if err != nil || shipmentID <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}

	form, err := h.repo.GetForm(r.Context(), shipmentID)
	if err != nil {
		h.logger.Error("get cn23 form", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if form == nil {
		shared.OK(w, shared.Envelope{"data": nil})
		return
	}
	shared.OK(w, shared.Envelope{"data": form})
}

type saveFormRequest struct {
	TotalValue      *float64        `json:"total_value"`
	Currency        string          `json:"currency"`
	ReasonForExport *string         `json:"reason_for_export"`
	Incoterm        *string         `json:"incoterm"`
	FormData        json.RawMessage `json:"form_data"`
}

func (h *Handler) saveForm(w http.ResponseWriter, r *http.Request) {
	shipmentID, err := strconv.ParseInt(chi.URLParam(r, "shipment_id"), 10, 64)
	if err != nil || shipmentID <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}
	var req saveFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if req.Currency == "" {
		req.Currency = "EUR"
	}

	err = h.repo.SaveForm(r.Context(), Form{
		ShipmentID:      shipmentID,
		TotalValue:      req.TotalValue,
		Currency:        req.Currency,
		ReasonForExport: req.ReasonForExport,
		Incoterm:        req.Incoterm,
		FormData:        req.FormData,
	})
	if err != nil {
		h.logger.Error("save cn23 form", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}
