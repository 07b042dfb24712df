package main

import (
	"log/slog"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/config"
	"github.com/yanqian/faq-matcher/internal/infra/testquestions"
)

// provideWatcher returns nil unless hot reload is enabled for a local file.
func provideWatcher(cfg *config.Config, set *faq.TestQuestionSet, logger *slog.Logger) *testquestions.Watcher {
	if !cfg.TestQuestions.Watch {
		return nil
	}
	if cfg.Storage.Enabled() {
		logger.Warn("test question hot reload ignored for object storage", "path", cfg.TestQuestions.Path)
		return nil
	}
	return testquestions.NewWatcher(cfg.TestQuestions.Path, set, logger)
}
