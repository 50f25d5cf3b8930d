package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/musaed-ai/musaed/pkg/models"
)

func newKnowledgeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "knowledge",
		Short: "List knowledge entries in lookup order",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprint(cmd.OutOrStdout(), formatKnowledge(a.knowledge.Entries()))
			return nil
		},
	}
}

func formatKnowledge(entries []models.KnowledgeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%3s  %-20s %s\n", "#", "PHRASE", "ANSWER")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%3d  %-20s %s\n", i+1, e.Phrase, e.Answer)
	}
	return b.String()
}
