package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/blob"
	"github.com/yanqian/faq-matcher/internal/infra/config"
	"github.com/yanqian/faq-matcher/internal/infra/embedder"
	"github.com/yanqian/faq-matcher/internal/infra/faqrepo"
	"github.com/yanqian/faq-matcher/internal/infra/faqstore"
	"github.com/yanqian/faq-matcher/internal/infra/llm/chatgpt"
	"github.com/yanqian/faq-matcher/internal/infra/telemetry"
	"github.com/yanqian/faq-matcher/internal/infra/testquestions"
	"github.com/yanqian/faq-matcher/pkg/metrics"
)

const startupTimeout = 2 * time.Minute

// CoreSet builds the comparison service and everything it depends on.
var CoreSet = wire.NewSet(
	ProvideFAQConfig,
	ProvideBlobReader,
	ProvideFAQSource,
	ProvideCatalog,
	ProvideVectorCache,
	ProvideEmbedder,
	ProvideMatchers,
	ProvideTelemetry,
	ProvideRecorder,
	ProvideTestQuestions,
	faq.NewService,
	NewCore,
)

// ProvideFAQConfig maps configuration onto the domain knobs.
func ProvideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		LexicalThreshold:  cfg.FAQ.Thresholds.Lexical,
		SemanticThreshold: cfg.FAQ.Thresholds.Semantic,
		SurfaceThreshold:  cfg.FAQ.Thresholds.Surface,
		Timeout:           cfg.FAQ.Timeout,
	}
}

// ProvideBlobReader reads input files from the bucket when storage is
// configured, otherwise from the working directory.
func ProvideBlobReader(cfg *config.Config, logger *slog.Logger) (blob.Reader, error) {
	if !cfg.Storage.Enabled() {
		return blob.NewLocalReader(""), nil
	}
	s := cfg.Storage
	reader, err := blob.NewR2Reader(s.Endpoint, s.AccessKey, s.SecretKey, s.Bucket, s.Region, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("reading input files from object storage", "bucket", s.Bucket)
	return reader, nil
}

// ProvideFAQSource selects the catalog source. Unlike caches, a broken source
// is a startup failure.
func ProvideFAQSource(ctx context.Context, cfg *config.Config, reader blob.Reader, logger *slog.Logger) (faq.Source, func(), error) {
	noop := func() {}
	switch cfg.FAQ.Source {
	case "", "builtin":
		return faqrepo.NewBuiltinSource(), noop, nil
	case "file":
		return faqrepo.NewFileSource(reader, cfg.FAQ.Path), noop, nil
	case "postgres":
		pool, err := newPostgresPool(ctx, cfg.FAQ.Postgres)
		if err != nil {
			return nil, noop, fmt.Errorf("faq postgres source: %w", err)
		}
		logger.Info("faq postgres source enabled", "table", cfg.FAQ.Table)
		return faqrepo.NewPostgresSource(pool, cfg.FAQ.Table), pool.Close, nil
	case "sqlite":
		db, err := faqrepo.OpenSQLite(cfg.FAQ.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() { _ = db.Close() }
		logger.Info("faq sqlite source enabled", "path", cfg.FAQ.SQLitePath, "table", cfg.FAQ.Table)
		return faqrepo.NewSQLiteSource(db, cfg.FAQ.Table), cleanup, nil
	default:
		return nil, noop, fmt.Errorf("faq source %q is not supported", cfg.FAQ.Source)
	}
}

// ProvideCatalog loads the catalog once.
func ProvideCatalog(ctx context.Context, src faq.Source, logger *slog.Logger) (*faq.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	catalog, err := faq.LoadCatalog(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.Info("faq catalog loaded", "source", src.Name(), "entries", catalog.Len())
	return catalog, nil
}

// ProvideVectorCache builds the query embedding cache, falling back to memory
// when the configured backend is unreachable. The "none" backend yields a nil
// cache.
func ProvideVectorCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (faq.VectorCache, func()) {
	noop := func() {}
	cacheCfg := cfg.Embedding.Cache
	memory := func() faq.VectorCache {
		return faqstore.NewMemoryStoreWithLimit(cacheCfg.MaxEntries)
	}
	switch cacheCfg.Backend {
	case "none":
		logger.Info("embedding cache disabled")
		return nil, noop
	case "valkey":
		opt, err := buildValkeyOptions(cacheCfg.Redis.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return memory(), noop
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return memory(), noop
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
			return memory(), noop
		}
		logger.Info("embedding valkey cache enabled", "addr", cacheCfg.Redis.Addr)
		return faqstore.NewValkeyStore(client, cacheCfg.Prefix), client.Close
	case "postgres":
		pool, err := newPostgresPool(ctx, cacheCfg.Postgres)
		if err != nil {
			logger.Error("postgres cache unavailable, falling back to memory cache", "error", err)
			return memory(), noop
		}
		store := faqstore.NewPostgresStore(pool)
		schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := store.EnsureSchema(schemaCtx); err != nil {
			logger.Error("postgres cache schema failed, falling back to memory cache", "error", err)
			pool.Close()
			return memory(), noop
		}
		logger.Info("embedding postgres cache enabled")
		return store, pool.Close
	default:
		return memory(), noop
	}
}

// ProvideEmbedder builds the sentence embedder. Remote providers get a
// circuit breaker and the query cache in front of them.
func ProvideEmbedder(ctx context.Context, cfg *config.Config, cache faq.VectorCache, logger *slog.Logger) (faq.Embedder, func(), error) {
	noop := func() {}
	ec := cfg.Embedding
	var (
		base    faq.Embedder
		cleanup = noop
	)
	switch ec.Provider {
	case "hash":
		logger.Info("using offline hash embedder", "dimensions", ec.Dimensions)
		return embedder.NewHashEmbedder(ec.Dimensions), noop, nil
	case "", "ollama":
		base = embedder.NewOllamaEmbedder(ec.BaseURL, ec.Model, ec.Timeout, logger)
	case "openai":
		client, err := chatgpt.NewClient(ec.APIKey, ec.BaseURL, ec.Timeout)
		if err != nil {
			return nil, noop, err
		}
		base = embedder.NewOpenAIEmbedder(client, ec.Model, ec.Dimensions, logger)
	case "gemini":
		gem, err := embedder.NewGeminiEmbedder(ctx, ec.APIKey, ec.Model)
		if err != nil {
			return nil, noop, err
		}
		base = gem
		cleanup = func() { _ = gem.Close() }
	default:
		return nil, noop, fmt.Errorf("embedding provider %q is not supported", ec.Provider)
	}

	if ec.Breaker.Enabled {
		base = embedder.NewBreakerEmbedder(base, embedder.BreakerSettings{
			Name:         "embedding-" + ec.Provider,
			MaxRequests:  ec.Breaker.MaxRequests,
			Interval:     ec.Breaker.Interval,
			OpenTimeout:  ec.Breaker.OpenTimeout,
			FailureRatio: ec.Breaker.FailureRatio,
			MinRequests:  ec.Breaker.MinRequests,
		}, logger)
	}
	logger.Info("embedding provider configured", "provider", ec.Provider, "model", ec.Model, "cache", ec.Cache.Backend)
	if cache == nil {
		return base, cleanup, nil
	}
	namespace := ec.Provider + "|" + ec.Model
	return embedder.NewCachedEmbedder(base, cache, namespace, ec.Cache.TTL, logger), cleanup, nil
}

// ProvideMatchers fits the lexical index and embeds the catalog. A failing
// embedding model aborts startup.
func ProvideMatchers(ctx context.Context, catalog *faq.Catalog, emb faq.Embedder, logger *slog.Logger) (faq.Matchers, error) {
	lexical := faq.NewLexicalMatcher(catalog)

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	started := time.Now()
	semantic, err := faq.NewSemanticMatcher(ctx, catalog, emb)
	if err != nil {
		return faq.Matchers{}, err
	}
	logger.Info("faq embeddings computed",
		"questions", catalog.Len(),
		"dimensions", semantic.Dimensions(),
		"vocabulary", len(lexical.Vocabulary()),
		"took_ms", time.Since(started).Milliseconds())

	return faq.Matchers{
		Lexical:  lexical,
		Semantic: semantic,
		Surface:  faq.NewSurfaceMatcher(catalog),
	}, nil
}

// ProvideTelemetry installs trace and metric export. The cleanup flushes both.
func ProvideTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*telemetry.Providers, func(), error) {
	providers, err := telemetry.Init(ctx, cfg, logger)
	if err != nil {
		return nil, func() {}, err
	}
	cleanup := func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(flushCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}
	return providers, cleanup, nil
}

// ProvideRecorder builds metric instruments. Metrics are optional.
func ProvideRecorder(tel *telemetry.Providers, logger *slog.Logger) *metrics.Recorder {
	recorder, err := metrics.NewRecorder(tel.Meter)
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
		return nil
	}
	return recorder
}

// ProvideTestQuestions loads the sample questions. A missing file is fine.
func ProvideTestQuestions(ctx context.Context, cfg *config.Config, reader blob.Reader, logger *slog.Logger) (*faq.TestQuestionSet, error) {
	items, err := testquestions.Load(ctx, reader, cfg.TestQuestions.Path, logger)
	if err != nil {
		return nil, err
	}
	return faq.NewTestQuestionSet(items), nil
}

func newPostgresPool(ctx context.Context, pg config.PostgresConfig) (*pgxpool.Pool, error) {
	dsn := strings.TrimSpace(pg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn not set")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	if pg.MinConns > 0 {
		poolConfig.MinConns = pg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return pool, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
