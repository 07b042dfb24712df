package faq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/faq-matcher/pkg/errors"
	"github.com/yanqian/faq-matcher/pkg/metrics"
)

const (
	noMatchQuestion = "No good match found"
	promptAnswer    = "Please enter a question."
)

var noMatchAnswers = map[Method]string{
	MethodLexical:  "Sorry, I couldn't find a close match using string-based similarity.",
	MethodSemantic: "Sorry, I couldn't find a close match using semantic similarity.",
	MethodSurface:  "Sorry, I couldn't find a close match using simple string similarity.",
}

// Service compares a query against the FAQ catalog with every method.
type Service interface {
	Compare(ctx context.Context, question string) (Comparison, error)
	Blank() Comparison
	Entries() []Entry
}

type service struct {
	cfg      Config
	catalog  *Catalog
	matchers Matchers
	recorder *metrics.Recorder
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewService wires up the comparison domain.
func NewService(cfg Config, catalog *Catalog, matchers Matchers, recorder *metrics.Recorder, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		catalog:  catalog,
		matchers: matchers,
		recorder: recorder,
		logger:   logger.With("component", "faq.service"),
		tracer:   otel.Tracer("github.com/yanqian/faq-matcher/internal/domain/faq"),
	}
}

// Compare runs all matchers on the query as given. A blank query
// short-circuits to the prompt message without touching the matchers.
func (s *service) Compare(ctx context.Context, question string) (Comparison, error) {
	if strings.TrimSpace(question) == "" {
		s.recorder.RecordComparison(ctx, true)
		return promptComparison(), nil
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	matchers := s.matchers.all()
	results := make([]Result, len(matchers))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range matchers {
		i, m := i, m
		g.Go(func() error {
			res, err := s.run(gctx, m, question)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.Wrap(apperrors.CodeFAQError, "comparison failed", err)
		}
		return Comparison{}, err
	}

	out := Comparison{Question: question, DurationMs: time.Since(start).Milliseconds()}
	for _, r := range results {
		out.Set(r)
	}
	s.recorder.RecordComparison(ctx, false)
	s.logger.Debug("faq comparison served",
		"lexical_score", out.StringCosine.Score,
		"semantic_score", out.EmbeddingCosine.Score,
		"surface_score", out.SimpleString.Score,
		"duration_ms", out.DurationMs)
	return out, nil
}

func (s *service) run(ctx context.Context, m Matcher, question string) (Result, error) {
	method := m.Method()
	ctx, span := s.tracer.Start(ctx, "faq.match."+string(method))
	defer span.End()

	started := time.Now()
	match, err := m.Match(ctx, question)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("faq matcher failed", "method", method, "error", err)
		return Result{}, err
	}
	if match.Index < 0 || match.Index >= s.catalog.Len() {
		return Result{}, apperrors.Wrap(apperrors.CodeFAQError,
			fmt.Sprintf("%s matcher returned index %d outside catalog", method, match.Index), nil)
	}

	res := s.resolve(method, match)
	span.SetAttributes(
		attribute.String("faq.method", string(method)),
		attribute.Int("faq.index", match.Index),
		attribute.Float64("faq.score", match.Score),
		attribute.Bool("faq.matched", res.Matched),
	)
	s.recorder.RecordMatch(ctx, string(method), match.Score, res.Matched, time.Since(started))
	return res, nil
}

// resolve applies the acceptance threshold. Scores must strictly exceed it.
func (s *service) resolve(method Method, match Match) Result {
	if match.Score > s.cfg.threshold(method) {
		entry := s.catalog.Entry(match.Index)
		return Result{
			Method:   method,
			Question: entry.Question,
			Answer:   entry.Answer,
			Score:    match.Score,
			Matched:  true,
			Index:    match.Index,
		}
	}
	return Result{
		Method:   method,
		Question: noMatchQuestion,
		Answer:   noMatchAnswers[method],
		Score:    match.Score,
		Index:    -1,
	}
}

// Blank returns the empty page state shown before any query.
func (s *service) Blank() Comparison {
	var c Comparison
	for _, m := range Methods {
		c.Set(Result{Method: m, Index: -1})
	}
	return c
}

func (s *service) Entries() []Entry {
	return s.catalog.Entries()
}

func promptComparison() Comparison {
	var c Comparison
	for _, m := range Methods {
		c.Set(Result{Method: m, Answer: promptAnswer, Index: -1})
	}
	return c
}
