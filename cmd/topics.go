package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/quiz"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage knowledge base topics",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and custom topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		customOnly, _ := cmd.Flags().GetBool("custom")
		search, _ := cmd.Flags().GetString("search")

		topics := e.loadTopics(cmd.Context()).Filter(search)
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TOPIC\tKIND\tSIZE")
		shown := 0
		for _, t := range topics {
			if customOnly && !t.IsCustom {
				continue
			}
			kind := "built-in"
			if t.IsCustom {
				kind = "custom"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d chars\n", t.Name, kind, len(t.Content))
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No topics found.")
			return nil
		}
		return tw.Flush()
	},
}

var topicsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a topic's reference text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		t, ok := e.loadTopics(cmd.Context()).Lookup(args[0])
		if !ok {
			return fmt.Errorf("no topic named %q", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n\n%s\n", t.Name, strings.Repeat("─", len([]rune(t.Name))), t.Content)
		return nil
	},
}

var topicsAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a custom topic from a .txt or .md file",
	Long:  "Add a custom topic from a plain-text file. The topic is named after the file unless --name is given.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		name, content, err := knowledge.ReadTopicFile(args[0])
		if err != nil {
			return userError(err)
		}
		if n, _ := cmd.Flags().GetString("name"); n != "" {
			name = n
		}

		t, err := e.loadTopics(cmd.Context()).Add(cmd.Context(), name, content)
		if err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added topic %q (%d chars).\n", t.Name, len(t.Content))
		return nil
	},
}

var topicsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a custom topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		topics := e.loadTopics(cmd.Context())
		t, ok := topics.Lookup(args[0])
		if !ok {
			return fmt.Errorf("no topic named %q", args[0])
		}
		if !t.IsCustom {
			return fmt.Errorf("%q is a built-in topic and cannot be deleted", t.Name)
		}

		if !confirm(cmd, fmt.Sprintf("Are you sure you want to delete the custom topic %q?", t.Name)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		if err := topics.Delete(cmd.Context(), t.Name); err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted topic %q.\n", t.Name)
		return nil
	},
}

// userError replaces typed domain errors with their display message.
func userError(err error) error {
	if quiz.IsValidation(err) || quiz.IsPersistence(err) {
		return fmt.Errorf("%s", quiz.UserMessage(err))
	}
	return err
}

func init() {
	topicsListCmd.Flags().Bool("custom", false, "Show custom topics only")
	topicsListCmd.Flags().StringP("search", "s", "", "Filter topics by name")
	topicsAddCmd.Flags().String("name", "", "Topic name (defaults to the file name)")
	topicsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsShowCmd)
	topicsCmd.AddCommand(topicsAddCmd)
	topicsCmd.AddCommand(topicsDeleteCmd)
}
