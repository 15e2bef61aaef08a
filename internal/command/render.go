package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamavenir/slackdump-render/internal/core"
	"github.com/adamavenir/slackdump-render/internal/render"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <archive>",
		Short: "Render channels to static HTML",
		Long: `Render every channel of a slackdump archive to <output>/<slug>.html.

<archive> is the slackdump SQLite file or the directory that contains it.
Pages go to an "html" directory next to the database unless --output is set.
A channel that fails to render is reported and the others still render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd, args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			archive, err := ctx.Load()
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if err := core.EnsureOutputDir(ctx.Archive); err != nil {
				return writeCommandError(cmd, err)
			}

			site, err := render.NewSite(ctx.Archive.OutputDir, archive.Users, render.SiteOptions{
				Workers: ctx.Config.Workers,
				NoIndex: ctx.Config.NoIndex,
				Logger:  ctx.Logger,
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			result, err := site.Render(cmd.Context(), archive.Channels)
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d channels to %s\n", len(archive.Channels)-len(result.Failed), ctx.Archive.OutputDir)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "output directory (default: <archive dir>/html)")
	cmd.Flags().Int("workers", 1, "number of channels rendered concurrently")
	cmd.Flags().Bool("no-index", false, "do not write index.html")

	return cmd
}
