package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/sells-group/evolsynth-api/internal/model"
)

// resultKeyPrefix namespaces generation result entries.
const resultKeyPrefix = "evolsynth:results:"

// DeriveKey computes a deterministic cache key for a generation request.
// The key covers every document's content and metadata plus all generation
// settings, so two requests collide only when both are identical. Metadata
// keys are hashed in sorted order; map iteration order never leaks in.
func DeriveKey(docs []model.Document, settings model.GenerationSettings) string {
	h := sha256.New()

	for _, doc := range docs {
		h.Write([]byte(doc.Content))
		h.Write([]byte{0})

		keys := make([]string, 0, len(doc.Metadata))
		for k := range doc.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			h.Write([]byte(k))
			h.Write([]byte{1})
			h.Write([]byte(doc.Metadata[k]))
			h.Write([]byte{1})
		}
		h.Write([]byte{0})
	}

	// Struct marshaling has deterministic field order.
	settingsJSON, _ := json.Marshal(settings)
	h.Write(settingsJSON)

	return resultKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
