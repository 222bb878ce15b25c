package exportcmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-cms-admin/internal/export"
	goerrors "github.com/goliatone/go-errors"
)

func TestExportRecordsCommandValidate(t *testing.T) {
	valid := ExportRecordsCommand{Resource: "news", Format: "xlsx"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	invalid := ExportRecordsCommand{Resource: "news", Format: "csv"}
	if err := invalid.Validate(); err == nil {
		t.Fatal("expected csv to be rejected")
	}
}

func TestExportRecordsHandlerDelivers(t *testing.T) {
	dir := t.TempDir()
	exporter, err := export.NewExporter(export.DirSink{Dir: dir})
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	handler := NewExportRecordsHandler(exporter, nil)

	var result export.Result
	err = handler.Execute(context.Background(), ExportRecordsCommand{
		Resource:  "contacts",
		Format:    "xlsx",
		Table:     export.Table{Headers: []string{"Email"}, Rows: [][]string{{"a@example.com"}}},
		Delivered: func(r export.Result) { result = r },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Location != filepath.Join(dir, "contacts_records.xlsx") || result.Records != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestExportRecordsHandlerRejectsUnknownFormat(t *testing.T) {
	exporter, _ := export.NewExporter(export.DirSink{Dir: t.TempDir()})
	handler := NewExportRecordsHandler(exporter, nil)

	err := handler.Execute(context.Background(), ExportRecordsCommand{Resource: "news", Format: "docx"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
