package bootstrap

import (
	"log/slog"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/config"
)

// Core is the transport-independent application: the comparison service and
// the sample questions. Both the server and the CLI are built on it.
type Core struct {
	Config    *config.Config
	Service   faq.Service
	Questions *faq.TestQuestionSet
	Logger    *slog.Logger
}

// NewCore is used by Wire.
func NewCore(cfg *config.Config, svc faq.Service, questions *faq.TestQuestionSet, logger *slog.Logger) *Core {
	return &Core{Config: cfg, Service: svc, Questions: questions, Logger: logger}
}
