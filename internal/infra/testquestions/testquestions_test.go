package testquestions

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/blob"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleDoc = `{"test_questions":[
	{"question":"What is Social Security?","description":"exact match"},
	{"question":"pension for disabled people","description":"paraphrase"}
]}`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_questions.json"), []byte(sampleDoc), 0o600))
	reader := blob.NewLocalReader(dir)

	items, err := Load(context.Background(), reader, "test_questions.json", newTestLogger())
	require.NoError(t, err)
	require.Equal(t, []faq.TestQuestion{
		{Question: "What is Social Security?", Description: "exact match"},
		{Question: "pension for disabled people", Description: "paraphrase"},
	}, items)

	items, err = Load(context.Background(), reader, "absent.json", newTestLogger())
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"test_questions":`), 0o600))
	_, err = Load(context.Background(), reader, "broken.json", newTestLogger())
	require.Error(t, err)
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_questions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"test_questions":[]}`), 0o600))

	set := faq.NewTestQuestionSet(nil)
	w := NewWatcher(path, set, newTestLogger())
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register the directory
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(sampleDoc), 0o600)
		return set.Len() == 2
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 2, set.Len())

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool { return set.Len() == 0 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
