package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs.yaml")
	yaml := `
documents:
  - content: "Federal student loans have a ten year standard repayment term."
    metadata:
      source: loans.txt
  - content: "Pell Grants do not require repayment."
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	docs, err := loadDocuments(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "loans.txt", docs[0].Metadata["source"])
	assert.Contains(t, docs[1].Content, "Pell Grants")
}

func TestLoadDocuments_Missing(t *testing.T) {
	_, err := loadDocuments(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadDocuments_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents: []\n"), 0o644))

	_, err := loadDocuments(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no documents")
}
