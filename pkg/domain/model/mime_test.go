package model_test

import (
	"testing"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestResolveMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		declared string
		want     string
	}{
		{name: "declared wins", fileName: "a.pdf", declared: "application/x-custom", want: "application/x-custom"},
		{name: "markdown", fileName: "notes.md", want: "text/markdown"},
		{name: "text", fileName: "notes.txt", want: "text/plain"},
		{name: "pdf", fileName: "manual.pdf", want: "application/pdf"},
		{name: "csv", fileName: "prices.csv", want: "text/csv"},
		{name: "extension is case insensitive", fileName: "MANUAL.PDF", want: "application/pdf"},
		{name: "unknown extension", fileName: "image.png", want: "text/plain"},
		{name: "no extension", fileName: "README", want: "text/plain"},
		{name: "blank declared is ignored", fileName: "b.md", declared: "  ", want: "text/markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.ResolveMIMEType(tt.fileName, tt.declared)).Equal(tt.want)
		})
	}
}

func TestIsPlainText(t *testing.T) {
	gt.Bool(t, model.IsPlainText("text/markdown")).True()
	gt.Bool(t, model.IsPlainText("text/plain; charset=utf-8")).True()
	gt.Bool(t, model.IsPlainText("application/json")).True()
	gt.Bool(t, model.IsPlainText("application/pdf")).False()
}
