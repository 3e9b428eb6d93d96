package handler // handler package contains the email-checkpoint endpoints

import (
	"errors"   // errors supports sentinel matching via errors.Is
	"fmt"      // fmt formats the deletion confirmation message
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/transactsync/transactsync/internal/model"      // model holds the persisted entity structs
	"github.com/transactsync/transactsync/internal/repository" // repository holds the data access layer
)

// ListCheckpoints handles GET /email_checkpoints and returns every
// checkpoint row.
func (h *Handler) ListCheckpoints(c echo.Context) error {
	items, err := h.CheckpointRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.EmailCheckpoint{} // encode an empty list, not null
	}
	return c.JSON(http.StatusOK, items)
}

// GetCheckpoint handles GET /email_checkpoints/:folder.  An unknown folder
// is NOT a 404: the response is a record-shaped body with a null id and
// null last_seen_uid, so the external ingestion process can always issue
// the same request and branch on the null.  This contract is deliberate
// and preserved for backward compatibility.
func (h *Handler) GetCheckpoint(c echo.Context) error {
	folder := c.Param("folder")
	cp, err := h.CheckpointRepo.GetByFolder(c.Request().Context(), folder)
	if err != nil {
		if errors.Is(err, repository.ErrCheckpointNotFound) {
			return c.JSON(http.StatusOK, model.EmailCheckpoint{Folder: folder})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cp)
}

// checkpointCreateRequest is the JSON body accepted by POST
// /email_checkpoints.  The UID is a pointer so a missing field can be
// distinguished from a legitimate zero.
type checkpointCreateRequest struct {
	Folder      string `json:"folder"`        // folder name, required
	LastSeenUID *int64 `json:"last_seen_uid"` // UID to store, required
}

// CreateCheckpoint handles POST /email_checkpoints.  Unlike PUT, POST does
// not upsert: a folder that already has a checkpoint is a conflict.  The
// two verbs intentionally differ in collision policy.
func (h *Handler) CreateCheckpoint(c echo.Context) error {
	var body checkpointCreateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Folder = strings.TrimSpace(body.Folder)
	if body.Folder == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "folder is required"})
	}
	if body.LastSeenUID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "last_seen_uid is required"})
	}
	cp, err := h.CheckpointRepo.Create(c.Request().Context(), body.Folder, *body.LastSeenUID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "checkpoint already exists for folder"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create checkpoint"})
	}
	return c.JSON(http.StatusCreated, cp)
}

// checkpointUpdateRequest is the JSON body accepted by PUT
// /email_checkpoints/:folder.
type checkpointUpdateRequest struct {
	LastSeenUID *int64 `json:"last_seen_uid"` // UID to store, required
}

// UpsertCheckpoint handles PUT /email_checkpoints/:folder.  The write is a
// single atomic insert-or-replace in the repository, so the endpoint is
// idempotent: calling it twice with the same UID yields the same stored
// state and the same response both times.
func (h *Handler) UpsertCheckpoint(c echo.Context) error {
	folder := c.Param("folder")
	var body checkpointUpdateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.LastSeenUID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "last_seen_uid is required"})
	}
	cp, err := h.CheckpointRepo.Upsert(c.Request().Context(), folder, *body.LastSeenUID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store checkpoint"})
	}
	return c.JSON(http.StatusOK, cp)
}

// DeleteCheckpoint handles DELETE /email_checkpoints/:folder.  Both
// outcomes carry a structured body: a status/message confirmation on
// success and an error message when the folder had no checkpoint.
func (h *Handler) DeleteCheckpoint(c echo.Context) error {
	folder := c.Param("folder")
	if err := h.CheckpointRepo.DeleteByFolder(c.Request().Context(), folder); err != nil {
		if errors.Is(err, repository.ErrCheckpointNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "email checkpoint not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": fmt.Sprintf("Checkpoint for folder %s deleted", folder),
	})
}
