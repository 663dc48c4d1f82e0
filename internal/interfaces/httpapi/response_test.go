package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/pgctour/fantasy-golf/internal/usecase"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantReason string
	}{
		{usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput"},
		{usecase.ErrNotFound, http.StatusNotFound, "notFound"},
		{usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{usecase.ErrGroupsLocked, http.StatusConflict, "groupsLocked"},
		{usecase.ErrSyncInProgress, http.StatusConflict, "syncInProgress"},
		{usecase.ErrSnapshotInvalid, http.StatusBadGateway, "invalidSnapshot"},
		{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "internalError"},
		// Wrapped sentinels map the same as bare ones.
		{fmt.Errorf("sync tournament: %w", usecase.ErrSyncInProgress), http.StatusConflict, "syncInProgress"},
	}

	for _, tc := range cases {
		mapped := mapError(tc.err)
		if mapped.HTTPStatus != tc.wantStatus || mapped.Reason != tc.wantReason {
			t.Fatalf("mapError(%v) = %d/%s, want %d/%s", tc.err, mapped.HTTPStatus, mapped.Reason, tc.wantStatus, tc.wantReason)
		}
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()

	writeError(context.Background(), rec, fmt.Errorf("%w: tournament=wm-phoenix-open-2026", usecase.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.APIVersion != googleAPIVersion {
		t.Fatalf("api version = %q", envelope.APIVersion)
	}
	if envelope.Error == nil || envelope.Error.Code != http.StatusNotFound || envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("error body = %+v", envelope.Error)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Domain != errorDomain {
		t.Fatalf("error items = %+v", envelope.Error.Errors)
	}
	if !strings.Contains(envelope.Error.Message, "wm-phoenix-open-2026") {
		t.Fatalf("error message = %q", envelope.Error.Message)
	}
}

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()

	writeSuccess(context.Background(), rec, http.StatusOK, map[string]any{"id": "season-2026"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error != nil {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["id"] != "season-2026" {
		t.Fatalf("data = %+v", envelope.Data)
	}
}

func TestWriteInternalError_HidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()

	writeInternalError(context.Background(), rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "panic") {
		t.Fatalf("body leaked detail: %s", rec.Body.String())
	}
	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error == nil || envelope.Error.Message != "internal server error" {
		t.Fatalf("error body = %+v", envelope.Error)
	}
}
