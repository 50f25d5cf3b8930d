package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/musaed-ai/musaed/pkg/chat"
)

func newAskCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			ans, err := chat.Ask(a.assistant, strings.Join(args, " "))
			if errors.Is(err, chat.ErrEmptyQuestion) {
				fmt.Fprintln(out, chat.PromptEnterQuestion)
				return nil
			}
			a.history.Record(context.Background(), "cli", ans)

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ans)
			}
			fmt.Fprint(out, chat.Render(ans))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the answer as JSON")
	return cmd
}
