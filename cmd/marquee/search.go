package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marquee/internal/screen"
)

var clearTerm bool

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search titles and print the list",
	Long: `Search the catalog by title. The term is remembered for the next run.

With no term the remembered one is searched again, like reopening the list.
--clear forgets the remembered term.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		sc := screen.NewSearch(ctx, s.components.Catalog, s.terms, s.cfg.TermKey, s.log)
		defer sc.Unmount()

		out := cmd.OutOrStdout()
		switch {
		case clearTerm:
			sc.Clear()
			fmt.Fprintln(out, "search term cleared")
			return nil
		case len(args) == 0:
			<-sc.Mount()
		default:
			sc.InputChange(strings.Join(args, " "))
			<-sc.Submit()
		}

		printSearch(out, sc.Snapshot())
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&clearTerm, "clear", false, "forget the remembered search term")
	rootCmd.AddCommand(searchCmd)
}

func printSearch(w io.Writer, st screen.SearchState) {
	if st.NoResults {
		fmt.Fprintln(w, "No movies found")
		return
	}
	if len(st.Movies) == 0 {
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "YEAR", "POSTER")
	for _, m := range st.Movies {
		t.Row(m.ID, m.Title, m.Year, m.PosterOr("-"))
	}
	fmt.Fprintln(w, t.Render())
}
