package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var checkpointCols = []string{"id", "folder", "last_seen_uid"}

func TestGetCheckpointUnknownFolderIsAlways200(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM email_checkpoints WHERE folder`).
		WithArgs("INBOX").
		WillReturnRows(sqlmock.NewRows(checkpointCols))

	c, rec := newJSONContext(t, http.MethodGet, "/email_checkpoints/INBOX", "")
	c.SetPath("/email_checkpoints/:folder")
	c.SetParamNames("folder")
	c.SetParamValues("INBOX")
	if err := h.GetCheckpoint(c); err != nil {
		t.Fatalf("GetCheckpoint: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (record-shaped null contract)", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["id"] != nil {
		t.Errorf("id = %v, want null", body["id"])
	}
	if body["folder"] != "INBOX" {
		t.Errorf("folder = %v, want INBOX", body["folder"])
	}
	if body["last_seen_uid"] != nil {
		t.Errorf("last_seen_uid = %v, want null", body["last_seen_uid"])
	}
	expectMet(t, mock)
}

// putCheckpoint drives one PUT /email_checkpoints/:folder through the
// handler and returns the recorder.
func putCheckpoint(t *testing.T, h *Handler, folder, body string) *httptest.ResponseRecorder {
	t.Helper()
	c, rec := newJSONContext(t, http.MethodPut, "/email_checkpoints/"+folder, body)
	c.SetPath("/email_checkpoints/:folder")
	c.SetParamNames("folder")
	c.SetParamValues(folder)
	if err := h.UpsertCheckpoint(c); err != nil {
		t.Fatalf("UpsertCheckpoint: %v", err)
	}
	return rec
}

func TestUpsertCheckpointIsIdempotent(t *testing.T) {
	h, mock := newTestHandler(t)

	// Two identical PUTs: each one is a single atomic insert-or-replace
	// followed by a read-back. Stored state and response shape match both
	// times.
	for i := 0; i < 2; i++ {
		mock.ExpectExec(`ON DUPLICATE KEY UPDATE`).
			WithArgs("INBOX", int64(42)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(`FROM email_checkpoints WHERE folder`).
			WithArgs("INBOX").
			WillReturnRows(sqlmock.NewRows(checkpointCols).AddRow(1, "INBOX", 42))
	}

	first := putCheckpoint(t, h, "INBOX", `{"last_seen_uid":42}`)
	second := putCheckpoint(t, h, "INBOX", `{"last_seen_uid":42}`)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d; want 200, 200", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("responses differ:\n first: %s\nsecond: %s", first.Body.String(), second.Body.String())
	}
	body := decodeBody(t, second)
	if body["last_seen_uid"] != float64(42) {
		t.Errorf("last_seen_uid = %v, want 42", body["last_seen_uid"])
	}
	expectMet(t, mock)
}

func TestCreateCheckpointExistingFolderConflicts(t *testing.T) {
	h, mock := newTestHandler(t)

	// POST does not upsert; a duplicate folder is a conflict, unlike PUT.
	mock.ExpectExec(`INSERT INTO email_checkpoints`).
		WithArgs("INBOX", int64(42)).
		WillReturnError(errors.New(`Error 1062 (23000): Duplicate entry 'INBOX' for key 'email_checkpoints.uq_checkpoints_folder'`))

	c, rec := newJSONContext(t, http.MethodPost, "/email_checkpoints",
		`{"folder":"INBOX","last_seen_uid":42}`)
	if err := h.CreateCheckpoint(c); err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	expectMet(t, mock)
}

func TestCreateCheckpointNewFolder(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(`INSERT INTO email_checkpoints`).
		WithArgs("Archive", int64(7)).
		WillReturnResult(sqlmock.NewResult(2, 1))

	c, rec := newJSONContext(t, http.MethodPost, "/email_checkpoints",
		`{"folder":"Archive","last_seen_uid":7}`)
	if err := h.CreateCheckpoint(c); err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["id"] != float64(2) || body["last_seen_uid"] != float64(7) {
		t.Errorf("body = %v, want id=2 last_seen_uid=7", body)
	}
	expectMet(t, mock)
}

func TestUpsertCheckpointMissingUIDRejected(t *testing.T) {
	h, mock := newTestHandler(t)

	rec := putCheckpoint(t, h, "INBOX", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	expectMet(t, mock)
}

func TestDeleteCheckpointAbsentIsStructured404(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(`DELETE FROM email_checkpoints WHERE folder`).
		WithArgs("INBOX").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := newJSONContext(t, http.MethodDelete, "/email_checkpoints/INBOX", "")
	c.SetPath("/email_checkpoints/:folder")
	c.SetParamNames("folder")
	c.SetParamValues("INBOX")
	if err := h.DeleteCheckpoint(c); err != nil {
		t.Fatalf("DeleteCheckpoint: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] == nil {
		t.Errorf("body = %v, want a structured error message", body)
	}
	expectMet(t, mock)
}

func TestDeleteCheckpointConfirmsWithMessage(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(`DELETE FROM email_checkpoints WHERE folder`).
		WithArgs("INBOX").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newJSONContext(t, http.MethodDelete, "/email_checkpoints/INBOX", "")
	c.SetPath("/email_checkpoints/:folder")
	c.SetParamNames("folder")
	c.SetParamValues("INBOX")
	if err := h.DeleteCheckpoint(c); err != nil {
		t.Fatalf("DeleteCheckpoint: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "success" {
		t.Errorf("status field = %v, want success", body["status"])
	}
	if body["message"] != "Checkpoint for folder INBOX deleted" {
		t.Errorf("message = %v", body["message"])
	}
	expectMet(t, mock)
}
