package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonvlc/obsidian-reader-highlighter/internal/patch"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/renderer"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/store"
)

func newRootCmd() *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:           "readerhl",
		Short:         "Manage ==text== highlights in plain Markdown notes",
		Long:          "readerhl creates, adjusts, removes, and lists highlight markers in Markdown files without disturbing any other byte of the source.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&rootDir, "root", "r", ".", "directory the note paths are resolved against")

	cmd.AddCommand(
		newAddCmd(&rootDir),
		newRemoveCmd(&rootDir),
		newAdjustCmd(&rootDir),
		newListCmd(&rootDir),
		newRenderCmd(&rootDir),
	)
	return cmd
}

func newAddCmd(rootDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <note> <text>",
		Short: "Toggle a highlight on the given text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := store.NewFileStore(*rootDir)
			h, text := store.Handle(args[0]), args[1]
			doc, err := fs.Read(cmd.Context(), h)
			if err != nil {
				return err
			}
			next, err := patch.ApplyCreate(doc, text)
			if err != nil {
				return fmt.Errorf("highlight %q: %w", text, err)
			}
			return fs.Replace(cmd.Context(), h, next)
		},
	}
}

func newRemoveCmd(rootDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <note> <text>",
		Short: "Remove the highlight on the given text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := store.NewFileStore(*rootDir)
			h, text := store.Handle(args[0]), args[1]
			doc, err := fs.Read(cmd.Context(), h)
			if err != nil {
				return err
			}
			next, err := patch.ApplyRemove(doc, text)
			if err != nil {
				return fmt.Errorf("remove %q: %w", text, err)
			}
			return fs.Replace(cmd.Context(), h, next)
		},
	}
}

func newAdjustCmd(rootDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <note> <from> <to>",
		Short: "Move a highlight's boundaries from one text to another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := store.NewFileStore(*rootDir)
			h, from, to := store.Handle(args[0]), args[1], args[2]
			doc, err := fs.Read(cmd.Context(), h)
			if err != nil {
				return err
			}
			next, err := patch.ApplyAdjust(doc, from, to)
			if err != nil {
				return fmt.Errorf("adjust %q: %w", from, err)
			}
			return fs.Replace(cmd.Context(), h, next)
		},
	}
}

func newListCmd(rootDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list <note>",
		Short: "List the highlights in a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := store.NewFileStore(*rootDir)
			doc, err := fs.Read(cmd.Context(), store.Handle(args[0]))
			if err != nil {
				return err
			}
			for _, m := range patch.Marks(doc) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", m.Offset, m.Body)
			}
			return nil
		},
	}
}

func newRenderCmd(rootDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "render <note>",
		Short: "Render a note to HTML with highlights as <mark> elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := store.NewFileStore(*rootDir)
			doc, err := fs.Read(cmd.Context(), store.Handle(args[0]))
			if err != nil {
				return err
			}
			out, err := renderer.New().HTML(doc)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
