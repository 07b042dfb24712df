//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/yanqian/faq-matcher/internal/bootstrap"
	"github.com/yanqian/faq-matcher/internal/infra/config"
	"github.com/yanqian/faq-matcher/pkg/logger"
)

func initializeCore(ctx context.Context, cfg *config.Config) (*bootstrap.Core, func(), error) {
	wire.Build(
		logger.New,
		bootstrap.CoreSet,
	)
	return nil, nil, nil
}
