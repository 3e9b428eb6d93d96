package handler // handler package contains the account endpoints

import (
	"errors"   // errors supports sentinel matching via errors.Is
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/transactsync/transactsync/internal/model"      // model holds the persisted entity structs
	"github.com/transactsync/transactsync/internal/repository" // repository holds the data access layer
)

// accountRequest is the JSON body accepted by POST and PUT /accounts.  The
// same shape serves both verbs; PUT is a full replace of the mutable fields.
type accountRequest struct {
	AccountNumber        string  `json:"account_number"`        // unique external number, required
	FinancialInstitution string  `json:"financial_institution"` // issuer name, required
	AccountName          string  `json:"account_name"`          // human-friendly label, required
	AccountOwner         *string `json:"account_owner"`         // optional owner
	Active               *bool   `json:"active"`                // defaults to true when omitted
	Comments             *string `json:"comments"`              // optional notes
	AccountType          *string `json:"account_type"`          // optional type tag
	LoadBy               *string `json:"load_by"`               // optional writer identity
}

// validate trims the required string fields and reports the first problem.
func (r *accountRequest) validate() error {
	r.AccountNumber = strings.TrimSpace(r.AccountNumber)
	r.FinancialInstitution = strings.TrimSpace(r.FinancialInstitution)
	r.AccountName = strings.TrimSpace(r.AccountName)
	switch {
	case r.AccountNumber == "":
		return errors.New("account_number is required")
	case r.FinancialInstitution == "":
		return errors.New("financial_institution is required")
	case r.AccountName == "":
		return errors.New("account_name is required")
	}
	return nil
}

// toModel converts the request into a model.Account.  Active defaults to
// true so new accounts are live unless the caller says otherwise.
func (r *accountRequest) toModel() *model.Account {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &model.Account{
		AccountNumber:        r.AccountNumber,
		FinancialInstitution: r.FinancialInstitution,
		AccountName:          r.AccountName,
		AccountOwner:         r.AccountOwner,
		Active:               active,
		Comments:             r.Comments,
		AccountType:          r.AccountType,
		LoadBy:               r.LoadBy,
	}
}

// CreateAccount handles POST /accounts.  A duplicate account_number is a
// conflict regardless of whether the existing account is active.
func (h *Handler) CreateAccount(c echo.Context) error {
	var body accountRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := body.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	account := body.toModel()
	if err := h.AccountRepo.Create(c.Request().Context(), account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "account_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create account"})
	}
	return c.JSON(http.StatusCreated, account)
}

// ListAccounts handles GET /accounts and returns every account.
func (h *Handler) ListAccounts(c echo.Context) error {
	items, err := h.AccountRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Account{} // encode an empty list, not null
	}
	return c.JSON(http.StatusOK, items)
}

// GetAccountByNumber handles GET /accounts/by-number?account_number=...
// Absence is encoded as {"account_id": null} with a 200 status rather than
// a 404; callers depend on this shape to distinguish "no such account" from
// a hard failure.
func (h *Handler) GetAccountByNumber(c echo.Context) error {
	number := strings.TrimSpace(c.QueryParam("account_number"))
	if number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account_number is required"})
	}
	id, err := h.AccountRepo.GetIDByNumber(c.Request().Context(), number)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"account_id": id})
}

// GetAccount handles GET /accounts/:id.
func (h *Handler) GetAccount(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	account, err := h.AccountRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, account)
}

// UpdateAccount handles PUT /accounts/:id with full-record replacement of
// the mutable fields.  The account_id itself is immutable.
func (h *Handler) UpdateAccount(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body accountRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := body.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	account := body.toModel()
	if err := h.AccountRepo.Update(c.Request().Context(), id, account); err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "account_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, account)
}

// DeleteAccount handles DELETE /accounts/:id.  An account that still has
// transactions cannot be deleted; the chosen policy is reject-with-conflict
// rather than cascade, since silently dropping financial history is worse
// than making the caller clean up first.
func (h *Handler) DeleteAccount(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.AccountRepo.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		case errors.Is(err, repository.ErrReferenced):
			return c.JSON(http.StatusConflict, echo.Map{"error": "account has transactions and cannot be deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Account deleted"})
}
