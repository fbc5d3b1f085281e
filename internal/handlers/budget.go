package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/dto"
	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/models"
	"GO2GETHER_BUDGET/internal/utils"
)

// BudgetLedger is the server-side ledger the handlers call into.
type BudgetLedger interface {
	Authorize(ctx context.Context, tripID, requester uuid.UUID) error
	ListEntries(ctx context.Context, tripID, requester uuid.UUID) (models.BudgetSnapshot, error)
	CreateEntry(ctx context.Context, tripID, requester uuid.UUID, in ledger.EntryInput) (models.BudgetItem, error)
	UpdateEntry(ctx context.Context, tripID, itemID, requester uuid.UUID, patch ledger.EntryPatch) (models.BudgetItem, error)
	DeleteEntry(ctx context.Context, tripID, itemID, requester uuid.UUID) error
	ListItemSplits(ctx context.Context, tripID, itemID, requester uuid.UUID) ([]models.Split, error)
}

// BudgetHandler manages trip budget endpoints
type BudgetHandler struct {
	ledger BudgetLedger
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(l BudgetLedger) *BudgetHandler {
	return &BudgetHandler{ledger: l}
}

// ListBudget handles GET /trips/{tripId}/budget
// @Summary List a trip's budget items with summary and active members
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param tripId path string true "Trip ID"
// @Success 200 {object} dto.BudgetListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trips/{tripId}/budget [get]
func (h *BudgetHandler) ListBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	snap, err := h.ledger.ListEntries(r.Context(), tripID, userID)
	if err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.BudgetListResponse{
		BudgetItems: snap.Items,
		Summary:     snap.Summary,
		TripMembers: snap.Members,
	})
}

// CreateBudgetItem handles POST /trips/{tripId}/budget
// @Summary Record an expense and split it between active members
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tripId path string true "Trip ID"
// @Param payload body dto.CreateBudgetItemRequest true "Budget item payload"
// @Success 201 {object} dto.BudgetItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trips/{tripId}/budget [post]
func (h *BudgetHandler) CreateBudgetItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	// Non-members get 404 before the body is looked at.
	if err := h.ledger.Authorize(r.Context(), tripID, userID); err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}

	var req dto.CreateBudgetItemRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}
	in, err := req.ToInput()
	if err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}

	item, err := h.ledger.CreateEntry(r.Context(), tripID, userID, in)
	if err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, dto.BudgetItemResponse{BudgetItem: item})
}

// UpdateBudgetItem handles PUT /trips/{tripId}/budget/{itemId}
// @Summary Update a budget item
// @Description Only supplied fields change. Splits are regenerated when the amount or split type changes.
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tripId path string true "Trip ID"
// @Param itemId path string true "Budget item ID"
// @Param payload body dto.UpdateBudgetItemRequest true "Update payload"
// @Success 200 {object} dto.BudgetItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trips/{tripId}/budget/{itemId} [put]
func (h *BudgetHandler) UpdateBudgetItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	// Non-members get 404 before the body is looked at.
	if err := h.ledger.Authorize(r.Context(), tripID, userID); err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}

	var req dto.UpdateBudgetItemRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}

	item, err := h.ledger.UpdateEntry(r.Context(), tripID, itemID, userID, patch)
	if err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.BudgetItemResponse{BudgetItem: item})
}

// DeleteBudgetItem handles DELETE /trips/{tripId}/budget/{itemId}
// @Summary Delete a budget item and its splits
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param tripId path string true "Trip ID"
// @Param itemId path string true "Budget item ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trips/{tripId}/budget/{itemId} [delete]
func (h *BudgetHandler) DeleteBudgetItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	if err := h.ledger.DeleteEntry(r.Context(), tripID, itemID, userID); err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Budget item deleted successfully"})
}

// ListItemSplits handles GET /trips/{tripId}/budget/{itemId}/splits
// @Summary List the splits of a budget item
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param tripId path string true "Trip ID"
// @Param itemId path string true "Budget item ID"
// @Success 200 {object} dto.SplitListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trips/{tripId}/budget/{itemId}/splits [get]
func (h *BudgetHandler) ListItemSplits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	splits, err := h.ledger.ListItemSplits(r.Context(), tripID, itemID, userID)
	if err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.SplitListResponse{Splits: splits})
}
