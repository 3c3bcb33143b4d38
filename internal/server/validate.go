package server

import (
	"fmt"
	"strings"

	"github.com/sells-group/evolsynth-api/internal/model"
)

const (
	maxDocuments    = 10
	maxDocumentSize = 1 << 20 // 1 MiB of content per document
)

// validateDocuments enforces the request boundary preconditions: between one
// and ten documents, each with non-empty content under the size cap. The
// pipeline itself tolerates anything; these checks belong to the HTTP layer.
func validateDocuments(docs []model.Document) error {
	if len(docs) == 0 {
		return fmt.Errorf("at least one document is required")
	}
	if len(docs) > maxDocuments {
		return fmt.Errorf("too many documents: %d (maximum %d)", len(docs), maxDocuments)
	}
	for i, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			return fmt.Errorf("document %d has empty content", i)
		}
		if len(doc.Content) > maxDocumentSize {
			return fmt.Errorf("document %d exceeds maximum size of %d bytes", i, maxDocumentSize)
		}
	}
	return nil
}
