package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Service decodes plain text documents itself and hands other types to the Unstructured API
type Service struct {
	unstructured *Unstructured
}

var _ interfaces.Extractor = &Service{}

type Option func(*Service)

func WithUnstructured(u *Unstructured) Option {
	return func(s *Service) {
		s.unstructured = u
	}
}

func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Extract(ctx context.Context, doc *model.SourceDocument) (string, error) {
	if doc.IsEmpty() {
		return "", goerr.Wrap(model.ErrEmptyDocument, "no content to extract", goerr.V(model.FileNameKey, doc.Name))
	}

	if model.IsPlainText(doc.MIMEType) {
		return decodeText(doc)
	}

	if s.unstructured == nil {
		return "", goerr.Wrap(model.ErrExtraction, "no extractor available for content type",
			goerr.V(model.FileNameKey, doc.Name),
			goerr.V("mime_type", doc.MIMEType))
	}

	return s.unstructured.Extract(ctx, doc)
}

func decodeText(doc *model.SourceDocument) (string, error) {
	if !utf8.Valid(doc.Content) {
		return "", goerr.Wrap(model.ErrExtraction, "document is not valid UTF-8",
			goerr.V(model.FileNameKey, doc.Name),
			goerr.V("mime_type", doc.MIMEType))
	}

	text := strings.TrimPrefix(string(doc.Content), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return text, nil
}
