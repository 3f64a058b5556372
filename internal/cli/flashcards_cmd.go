package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studymate/internal/backend"
	"github.com/alexanderramin/studymate/internal/cli/formatter"
	"github.com/alexanderramin/studymate/internal/domain"
)

func newFlashcardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flashcards",
		Aliases: []string{"cards"},
		Short:   "Manage the flashcard deck",
	}

	cmd.AddCommand(
		newFlashcardsListCmd(app),
		newFlashcardsAddCmd(app),
		newFlashcardsRemoveCmd(app),
		newFlashcardsGenerateCmd(app),
	)

	return cmd
}

func newFlashcardsListCmd(app *App) *cobra.Command {
	var showBack bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List flashcards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cards := app.Flashcards.Flashcards()
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No flashcards yet. Add one with 'studymate flashcards add'.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatFlashcards(cards, showBack))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showBack, "answers", false, "Show the back of each card")

	return cmd
}

func formatFlashcards(cards []domain.Flashcard, showBack bool) string {
	headers := []string{"ID", "FRONT"}
	if showBack {
		headers = append(headers, "BACK")
	}
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		row := []string{formatter.TruncID(c.ID), formatter.Truncate(c.Front, 60)}
		if showBack {
			row = append(row, formatter.Truncate(c.Back, 60))
		}
		rows = append(rows, row)
	}
	title := fmt.Sprintf("Flashcards (%d)", len(cards))
	return formatter.RenderBox(title, formatter.RenderTable(headers, rows))
}

func newFlashcardsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add FRONT BACK",
		Short: "Add a flashcard",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := app.Flashcards.AddFlashcard(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added flashcard %s\n", card.ID)
			return nil
		},
	}
}

func newFlashcardsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a flashcard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Flashcards.RemoveFlashcard(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed flashcard %s\n", args[0])
			return nil
		},
	}
}

func newFlashcardsGenerateCmd(app *App) *cobra.Command {
	var count int
	var text string

	cmd := &cobra.Command{
		Use:   "generate [FILE]",
		Short: "Generate flashcards from a study file or text",
		Long: fmt.Sprintf(`Sends a study file (%s) or raw text to the
flashcard backend and adds the generated cards to the deck.`, strings.Join(backend.AllowedExtensions, ", ")),
		Example: `  studymate flashcards generate notes.pdf --count 15
  studymate flashcards generate --text "Mitochondria produce ATP..."`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (text == "") {
				return errors.New("pass either FILE or --text")
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Generating flashcards...")
			}

			var (
				cards []domain.Flashcard
				err   error
			)
			if text != "" {
				cards, err = app.Flashcards.GenerateFlashcardsFromText(cmd.Context(), text, count)
			} else {
				cards, err = generateFromFile(cmd, app, args[0], count)
			}
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d flashcards\n", len(cards))
			fmt.Fprintln(cmd.OutOrStdout(), formatFlashcards(cards, true))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", backend.DefaultCount, "Number of cards to generate (1-50)")
	cmd.Flags().StringVar(&text, "text", "", "Generate from this text instead of a file")

	return cmd
}

func generateFromFile(cmd *cobra.Command, app *App, path string, count int) ([]domain.Flashcard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return app.Flashcards.GenerateFlashcards(cmd.Context(), filepath.Base(path), f, count)
}
