package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

func (c *cli) matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <question>",
		Short: "Print the best FAQ for a question under each technique",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := c.core.Service.Compare(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if c.opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), cmp)
			}
			writeComparison(cmd.OutOrStdout(), cmp)
			return nil
		},
	}
}

type evalRow struct {
	Question    string         `json:"question"`
	Description string         `json:"description"`
	Comparison  faq.Comparison `json:"comparison"`
}

func (c *cli) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval",
		Short: "Run every test question through all techniques",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			questions := c.core.Questions.All()
			if len(questions) == 0 {
				return fmt.Errorf("no test questions loaded from %q", c.core.Config.TestQuestions.Path)
			}
			rows := make([]evalRow, 0, len(questions))
			for _, q := range questions {
				cmp, err := c.core.Service.Compare(cmd.Context(), q.Question)
				if err != nil {
					return fmt.Errorf("compare %q: %w", q.Question, err)
				}
				rows = append(rows, evalRow{Question: q.Question, Description: q.Description, Comparison: cmp})
			}
			if c.opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			writeEval(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}

func (c *cli) faqsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "faqs",
		Short: "List the FAQ catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := c.core.Service.Entries()
			if c.opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			w := cmd.OutOrStdout()
			for i, e := range entries {
				fmt.Fprintf(w, "%2d. %s\n    %s\n", i, e.Question, e.Answer)
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeComparison(w io.Writer, cmp faq.Comparison) {
	fmt.Fprintf(w, "Question: %s\n\n", cmp.Question)
	for _, r := range cmp.Results() {
		fmt.Fprintf(w, "%s\n", r.Method.Label())
		fmt.Fprintf(w, "  Matched question: %s\n", r.Question)
		fmt.Fprintf(w, "  Answer: %s\n", r.Answer)
		fmt.Fprintf(w, "  Similarity score: %.4f\n\n", r.Score)
	}
}

func writeEval(w io.Writer, rows []evalRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUESTION\tTF-IDF\tEMBEDDING\tSEQUENCE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			row.Question,
			cell(row.Comparison.StringCosine),
			cell(row.Comparison.EmbeddingCosine),
			cell(row.Comparison.SimpleString))
	}
	_ = tw.Flush()
}

func cell(r faq.Result) string {
	if !r.Matched {
		return fmt.Sprintf("-     (%.2f)", r.Score)
	}
	return fmt.Sprintf("#%d    (%.2f)", r.Index, r.Score)
}
