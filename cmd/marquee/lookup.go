package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/screen"
)

var rawBody bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <imdbID>",
	Short: "Print the full record of one movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		d := screen.NewDetail(ctx, s.components.Catalog, args[0], s.log)
		defer d.Unmount()
		<-d.Mount()

		movie := d.Snapshot()
		if rawBody {
			_, err := cmd.OutOrStdout().Write(append(movie.Raw, '\n'))
			return err
		}
		printDetail(cmd.OutOrStdout(), movie)
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&rawBody, "raw", false, "print the response body as received")
	rootCmd.AddCommand(lookupCmd)
}

func printDetail(w io.Writer, m domain.MovieDetail) {
	label := lipgloss.NewStyle().Bold(true).Width(10)
	fmt.Fprintf(w, "%s (%s)\n", m.Title, m.Year)
	for _, r := range [][2]string{
		{"Poster", m.Poster},
		{"Plot", m.Plot},
		{"Released", m.Released},
		{"Director", m.Director},
		{"Actors", m.Actors},
		{"Awards", m.Awards},
	} {
		fmt.Fprintln(w, label.Render(r[0])+r[1])
	}
}
