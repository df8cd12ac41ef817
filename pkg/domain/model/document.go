package model

// SourceDocument is the ephemeral input of ingestion. It is not retained after linking.
type SourceDocument struct {
	Name     string
	Content  []byte
	MIMEType string
}

// NewSourceDocument builds a document with its MIME type resolved from declared or the file name
func NewSourceDocument(name string, content []byte, declared string) *SourceDocument {
	return &SourceDocument{
		Name:     name,
		Content:  content,
		MIMEType: ResolveMIMEType(name, declared),
	}
}

func (d *SourceDocument) IsEmpty() bool {
	return d == nil || len(d.Content) == 0
}
