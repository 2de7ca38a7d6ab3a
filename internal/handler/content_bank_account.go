package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/undangan-builder/internal/model"
)

type createBankAccountReq struct {
	UndanganID    *uint64 `json:"undangan_id"`
	AccountName   string  `json:"account_name" validate:"required,notblank,max=255"`
	AccountNumber string  `json:"account_number" validate:"required,notblank,max=64"`
	Bank          string  `json:"bank" validate:"required,notblank,max=255"`
}

type updateBankAccountReq struct {
	UndanganID    *uint64 `json:"undangan_id"`
	AccountName   *string `json:"account_name" validate:"omitempty,notblank,max=255"`
	AccountNumber *string `json:"account_number" validate:"omitempty,notblank,max=64"`
	Bank          *string `json:"bank" validate:"omitempty,notblank,max=255"`
}

// CreateBankAccount handles POST /undangan/:undangan_id/rekening.
func (h *ContentHandler) CreateBankAccount(c echo.Context) error {
	invitationID, err := parseID(c, invitationParam)
	if err != nil {
		return err
	}
	var req createBankAccountReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authorize(c, invitationID, req.UndanganID); err != nil {
		return err
	}

	b := &model.BankAccount{
		InvitationID:  invitationID,
		AccountName:   strings.TrimSpace(req.AccountName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		Bank:          strings.TrimSpace(req.Bank),
	}
	if err := h.BankAccounts.Create(c.Request().Context(), b); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, b)
}

// ListBankAccounts handles GET /undangan/:undangan_id/rekening.
func (h *ContentHandler) ListBankAccounts(c echo.Context) error {
	invitationID, err := h.readable(c)
	if err != nil {
		return err
	}
	list, err := h.BankAccounts.ListByInvitation(c.Request().Context(), invitationID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return notFound("no rekening found for this undangan")
	}
	return respond(c, http.StatusOK, list)
}

// UpdateBankAccount handles PUT /rekening/:id.
func (h *ContentHandler) UpdateBankAccount(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req updateBankAccountReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	b, err := h.BankAccounts.GetByID(ctx, id)
	if err != nil {
		return rowMissing(err)
	}
	if err := h.authorize(c, b.InvitationID, req.UndanganID); err != nil {
		return err
	}

	if req.AccountName != nil {
		b.AccountName = strings.TrimSpace(*req.AccountName)
	}
	if req.AccountNumber != nil {
		b.AccountNumber = strings.TrimSpace(*req.AccountNumber)
	}
	if req.Bank != nil {
		b.Bank = strings.TrimSpace(*req.Bank)
	}
	if err := h.BankAccounts.Update(ctx, b); err != nil {
		return err
	}
	return respond(c, http.StatusOK, b)
}

// DeleteBankAccount handles DELETE /rekening/:id.
func (h *ContentHandler) DeleteBankAccount(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	b, err := h.BankAccounts.GetByID(ctx, id)
	if err != nil {
		return rowMissing(err)
	}
	if err := h.authorize(c, b.InvitationID, nil); err != nil {
		return err
	}
	if err := h.BankAccounts.Delete(ctx, id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "rekening deleted")
}
