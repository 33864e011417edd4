package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/emtquiz/internal/explain"
	"github.com/abhisek/emtquiz/internal/quiz"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past quiz results",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed quizzes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		hist := e.loadHistory(cmd.Context())
		results := hist.Results()
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No quizzes completed yet.")
			return nil
		}

		st := hist.Stats()
		fmt.Fprintf(out, "%s quizzes · average %d%% · best %d%%\n\n",
			humanize.Comma(int64(st.Attempts)), st.AveragePercentage, st.BestPercentage)

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tWHEN\tQUIZ\tSCORE\tTOPICS")
		for i, r := range results {
			if limit > 0 && i >= limit {
				break
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d/%d (%d%%)\t%s\n",
				r.ID, relDate(r.Date, time.Now()), r.Config().Title(),
				r.Score, r.TotalQuestions, r.Percentage, strings.Join(r.Topics, ", "))
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the questions and answers of one quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		format, _ := cmd.Flags().GetString("output")

		e, err := openEnv(cmd, logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		r, ok := e.loadHistory(cmd.Context()).Get(id)
		if !ok {
			return fmt.Errorf("quiz %d not found", id)
		}

		out := cmd.OutOrStdout()
		switch format {
		case "text", "":
			writeResultText(out, r)
			return nil
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(newResultReport(r))
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(newResultReport(r))
		}
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	},
}

var historyExplainCmd = &cobra.Command{
	Use:   "explain <id> <question>",
	Short: "Ask the tutor to explain one answer of a past quiz",
	Long:  "Ask the tutor to explain one answer of a past quiz. Questions are numbered from 1.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid question number %q: %w", args[1], err)
		}

		e, err := openEnv(cmd, logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		r, ok := e.loadHistory(ctx).Get(id)
		if !ok {
			return fmt.Errorf("quiz %d not found", id)
		}
		if n < 1 || n > len(r.Questions) {
			return fmt.Errorf("question %d out of range (quiz has %d)", n, len(r.Questions))
		}

		q := r.Questions[n-1]
		var chosen *string
		if n-1 < len(r.UserAnswers) {
			chosen = r.UserAnswers[n-1]
		}

		svc := explain.NewService(e.provider(ctx), e.loadTopics(ctx), explain.DefaultConfig(), e.logger)
		text, err := svc.Explain(ctx, explain.Request{Question: q, Chosen: chosen, Topics: r.Topics})
		if err != nil {
			e.logger.Debug("explanation failed", "quiz", id, "question", n, "error", err)
			return fmt.Errorf("%s", explain.FailureMessage)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Q%d. %s\n\n%s\n", n, q.QuestionText, strings.TrimSpace(text))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all quiz history and custom topics",
	RunE:  runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, logStderr)
	if err != nil {
		return err
	}
	defer e.Close()

	if !confirm(cmd, "Are you sure you want to clear all quiz history and custom topics? This action cannot be undone.") {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}

	ctx := cmd.Context()
	if err := e.loadHistory(ctx).Clear(ctx); err != nil {
		return userError(err)
	}
	if err := e.loadTopics(ctx).Reset(ctx); err != nil {
		return userError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cleared quiz history and custom topics.")
	return nil
}

// relDate renders a stored result date relative to now, falling back to the
// raw value when it does not parse.
func relDate(date string, now time.Time) string {
	t, err := time.Parse(quiz.DateLayout, date)
	if err != nil {
		t, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return date
		}
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// resultReport is the machine-readable shape of `history show`.
type resultReport struct {
	ID           int64             `json:"id" yaml:"id"`
	Date         string            `json:"date" yaml:"date"`
	Difficulty   quiz.Difficulty   `json:"difficulty" yaml:"difficulty"`
	QuestionType quiz.QuestionType `json:"questionType" yaml:"questionType"`
	Topics       []string          `json:"topics" yaml:"topics"`
	Score        int               `json:"score" yaml:"score"`
	Total        int               `json:"totalQuestions" yaml:"totalQuestions"`
	Percentage   int               `json:"percentage" yaml:"percentage"`
	Questions    []questionReport  `json:"questions" yaml:"questions"`
}

type questionReport struct {
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
	Correct  string   `json:"correct" yaml:"correct"`
	Answer   *string  `json:"answer" yaml:"answer"`
	IsRight  bool     `json:"isCorrect" yaml:"isCorrect"`
}

func newResultReport(r quiz.Result) resultReport {
	rep := resultReport{
		ID:           r.ID,
		Date:         r.Date,
		Difficulty:   r.Difficulty,
		QuestionType: r.QuestionType,
		Topics:       r.Topics,
		Score:        r.Score,
		Total:        r.TotalQuestions,
		Percentage:   r.Percentage,
	}
	for i, q := range r.Questions {
		qr := questionReport{Question: q.QuestionText}
		for _, o := range q.Options {
			qr.Options = append(qr.Options, o.Text)
		}
		if c, ok := q.CorrectOption(); ok {
			qr.Correct = c.Text
		}
		if i < len(r.UserAnswers) {
			qr.Answer = r.UserAnswers[i]
		}
		qr.IsRight = quiz.IsCorrect(q, qr.Answer)
		rep.Questions = append(rep.Questions, qr)
	}
	return rep
}

func writeResultText(w io.Writer, r quiz.Result) {
	fmt.Fprintf(w, "%s\n", r.Config().Title())
	fmt.Fprintf(w, "Date:    %s\n", r.Date)
	fmt.Fprintf(w, "Topics:  %s\n", strings.Join(r.Topics, ", "))
	fmt.Fprintf(w, "Score:   %d/%d (%d%%)\n", r.Score, r.TotalQuestions, r.Percentage)

	for _, q := range newResultReport(r).Questions {
		fmt.Fprintln(w)
		fmt.Fprintln(w, q.Question)
		for _, o := range q.Options {
			mark := " "
			switch {
			case o == q.Correct:
				mark = "✓"
			case q.Answer != nil && o == *q.Answer:
				mark = "✗"
			}
			fmt.Fprintf(w, "  %s %s\n", mark, o)
		}
		if q.Answer == nil {
			fmt.Fprintln(w, "  (not answered)")
		}
	}
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 0, "Number of quizzes to show (0 = all)")
	historyShowCmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
	historyClearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExplainCmd)
	historyCmd.AddCommand(historyClearCmd)
}
