package faqrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/blob"
)

func TestBuiltinSource(t *testing.T) {
	src := NewBuiltinSource()
	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 10)
	require.Equal(t, "What is Social Security?", entries[0].Question)
	require.Equal(t, "How do I report a change of address to Social Security?", entries[9].Question)

	entries[0].Question = "mutated"
	again, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "What is Social Security?", again[0].Question)

	catalog, err := faq.LoadCatalog(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, 10, catalog.Len())
}

func TestFileSourceFormats(t *testing.T) {
	dir := t.TempDir()
	yamlDoc := []byte(`
faqs:
  - question: What is SSI?
    answer: Supplemental Security Income.
  - question: What is Medicare?
    answer: Federal health insurance.
`)
	jsonDoc := []byte(`{"faqs":[{"question":"What is SSI?","answer":"Supplemental Security Income."}]}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "faqs.yaml"), yamlDoc, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "faqs.json"), jsonDoc, 0o600))

	reader := blob.NewLocalReader(dir)

	entries, err := NewFileSource(reader, "faqs.yaml").Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []faq.Entry{
		{Question: "What is SSI?", Answer: "Supplemental Security Income."},
		{Question: "What is Medicare?", Answer: "Federal health insurance."},
	}, entries)

	entries, err = NewFileSource(reader, "faqs.json").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = NewFileSource(reader, "missing.yaml").Load(context.Background())
	require.True(t, errors.Is(err, blob.ErrNotFound))
}

func TestDecodeFAQsRejectsMalformed(t *testing.T) {
	_, err := decodeFAQs("faqs.json", []byte(`{"faqs":`))
	require.Error(t, err)
	_, err = decodeFAQs("faqs.yml", []byte("faqs: [unterminated"))
	require.Error(t, err)
}

func TestSQLiteSource(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "faq.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE faqs (position INTEGER NOT NULL, question TEXT NOT NULL, answer TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO faqs (position, question, answer) VALUES
		(2, 'What is Medicare?', 'Federal health insurance.'),
		(1, 'What is SSI?', 'Supplemental Security Income.')`)
	require.NoError(t, err)

	src := NewSQLiteSource(db, "faqs")
	require.Equal(t, "sqlite:faqs", src.Name())
	entries, err := src.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []faq.Entry{
		{Question: "What is SSI?", Answer: "Supplemental Security Income."},
		{Question: "What is Medicare?", Answer: "Federal health insurance."},
	}, entries)

	_, err = NewSQLiteSource(db, "missing").Load(ctx)
	require.Error(t, err)
}

func TestSelectEntriesQuery(t *testing.T) {
	require.Equal(t, "SELECT question, answer FROM faq_entries ORDER BY position", selectEntriesQuery("faq_entries"))
}
