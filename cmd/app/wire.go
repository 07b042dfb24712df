//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/yanqian/faq-matcher/internal/bootstrap"
	"github.com/yanqian/faq-matcher/internal/infra/config"
	httpiface "github.com/yanqian/faq-matcher/internal/interface/http"
	"github.com/yanqian/faq-matcher/pkg/logger"
)

func initializeApp(ctx context.Context) (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		bootstrap.CoreSet,
		provideWatcher,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
