package recordscmd

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-admin/internal/transport"
	goerrors "github.com/goliatone/go-errors"
)

type fakeBackend struct {
	deleted []int64
	created []transport.Payload
	updated []int64
	err     error
}

func (f *fakeBackend) Delete(_ context.Context, _ string, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeBackend) Create(_ context.Context, _ string, payload transport.Payload) ([]byte, error) {
	f.created = append(f.created, payload)
	return nil, f.err
}

func (f *fakeBackend) Update(_ context.Context, _ string, id int64, _ transport.Payload) ([]byte, error) {
	f.updated = append(f.updated, id)
	return nil, f.err
}

func TestDeleteRecordCommandValidate(t *testing.T) {
	if err := (DeleteRecordCommand{Resource: "news", ID: 1}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	err := (DeleteRecordCommand{}).Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	errs, ok := err.(validation.Errors)
	if !ok || errs["resource"] == nil || errs["id"] == nil {
		t.Fatalf("expected resource and id errors, got %v", err)
	}
}

func TestDeleteRecordHandlerCallsBackend(t *testing.T) {
	backend := &fakeBackend{}
	handler := NewDeleteRecordHandler(backend, nil)

	if err := handler.Execute(context.Background(), DeleteRecordCommand{Resource: " news ", ID: 4}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(backend.deleted) != 1 || backend.deleted[0] != 4 {
		t.Fatalf("expected delete of id 4, got %v", backend.deleted)
	}
}

func TestDeleteRecordHandlerRejectsInvalidMessage(t *testing.T) {
	backend := &fakeBackend{}
	handler := NewDeleteRecordHandler(backend, nil)

	err := handler.Execute(context.Background(), DeleteRecordCommand{Resource: "news"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(backend.deleted) != 0 {
		t.Fatal("expected no backend call for invalid message")
	}
}

func TestSaveRecordHandlerRoutesCreateAndUpdate(t *testing.T) {
	backend := &fakeBackend{}
	handler := NewSaveRecordHandler(backend, nil)
	payload := transport.Payload{Fields: map[string]string{"title": "Hello"}}

	if err := handler.Execute(context.Background(), SaveRecordCommand{Resource: "news", Payload: payload}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := handler.Execute(context.Background(), SaveRecordCommand{Resource: "news", ID: 9, Payload: payload}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(backend.created) != 1 || len(backend.updated) != 1 || backend.updated[0] != 9 {
		t.Fatalf("unexpected backend calls %+v", backend)
	}
}

func TestSaveRecordHandlerPropagatesBackendError(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	handler := NewSaveRecordHandler(backend, nil)

	err := handler.Execute(context.Background(), SaveRecordCommand{Resource: "news", Payload: transport.Payload{Fields: map[string]string{"a": "b"}}})
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestSaveRecordCommandRequiresPayload(t *testing.T) {
	if err := (SaveRecordCommand{Resource: "news"}).Validate(); err == nil {
		t.Fatal("expected empty payload to be rejected")
	}
}
