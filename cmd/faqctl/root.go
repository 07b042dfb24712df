package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/faq-matcher/internal/bootstrap"
	"github.com/yanqian/faq-matcher/internal/infra/config"
)

type coreBuilder func(ctx context.Context, cfg *config.Config) (*bootstrap.Core, func(), error)

type options struct {
	provider  string
	source    string
	faqPath   string
	questions string
	jsonOut   bool
}

type cli struct {
	build   coreBuilder
	opts    options
	core    *bootstrap.Core
	cleanup func()
}

func newRootCmd(build coreBuilder) *cobra.Command {
	c := &cli{build: build, cleanup: func() {}}

	root := &cobra.Command{
		Use:          "faqctl",
		Short:        "Compare FAQ similarity techniques from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.provider, "provider", "", "embedding provider (ollama, openai, gemini, hash)")
	flags.StringVar(&c.opts.source, "source", "", "faq source (builtin, file, postgres, sqlite)")
	flags.StringVar(&c.opts.faqPath, "faq-path", "", "faq file when --source=file")
	flags.StringVar(&c.opts.questions, "questions", "", "test questions file")
	flags.BoolVar(&c.opts.jsonOut, "json", false, "print JSON instead of text")

	for _, sub := range []*cobra.Command{c.matchCmd(), c.evalCmd(), c.faqsCmd()} {
		sub.RunE = c.releasing(sub.RunE)
		root.AddCommand(sub)
	}
	return root
}

// releasing runs the cleanup from setup once run returns, whether or not it
// failed. cobra skips post-run hooks after an error.
func (c *cli) releasing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer c.release()
		return run(cmd, args)
	}
}

func (c *cli) release() {
	cleanup := c.cleanup
	c.cleanup = func() {}
	cleanup()
}

func (c *cli) setup(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := c.opts.apply(cfg); err != nil {
		return err
	}
	core, cleanup, err := c.build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	c.core = core
	c.cleanup = cleanup
	return nil
}

func (o options) apply(cfg *config.Config) error {
	if o.provider != "" {
		cfg.Embedding.Provider = strings.ToLower(o.provider)
	}
	if o.source != "" {
		cfg.FAQ.Source = strings.ToLower(o.source)
	}
	if o.faqPath != "" {
		cfg.FAQ.Path = o.faqPath
	}
	if o.questions != "" {
		cfg.TestQuestions.Path = o.questions
	}
	// CLI runs are short lived.
	cfg.TestQuestions.Watch = false
	if err := cfg.Validate(); err != nil {
		return errors.Join(errors.New("invalid flags"), err)
	}
	return nil
}
