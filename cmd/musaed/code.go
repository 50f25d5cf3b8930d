package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/musaed-ai/musaed/pkg/models"
)

func newCodeCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Explain, debug or complete a code snippet",
	}
	cmd.AddCommand(
		newCodeActionCmd(configPath, models.ActionExplain, "Explain what a snippet does"),
		newCodeActionCmd(configPath, models.ActionDebug, "Check a snippet for problems"),
		newCodeActionCmd(configPath, models.ActionComplete, "Suggest a completion for a snippet"),
	)
	return cmd
}

func newCodeActionCmd(configPath *string, action models.CodeAction, short string) *cobra.Command {
	var (
		lang string
		file string
		code string
	)

	cmd := &cobra.Command{
		Use:   string(action),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			src, err := readSnippet(cmd.InOrStdin(), file, code)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := a.code.Run(ctx, models.CodeRequest{
				Action:   action,
				Language: models.Language(lang),
				Code:     src,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", string(models.LangPython), "snippet language (python, javascript, java, html)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the snippet from a file, or - for stdin")
	cmd.Flags().StringVar(&code, "code", "", "the snippet itself")
	return cmd
}

// readSnippet returns --code, or the contents of --file. "-" reads r.
func readSnippet(r io.Reader, file, code string) (string, error) {
	switch file {
	case "":
		return code, nil
	case "-":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read snippet: %w", err)
		}
		return string(data), nil
	}
}
