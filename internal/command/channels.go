package command

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamavenir/slackdump-render/internal/core"
)

type channelSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsPrivate bool   `json:"is_private"`
	Members   int    `json:"members"`
	Messages  int    `json:"messages"`
	Threads   int    `json:"threads"`
}

// NewChannelsCmd creates the channels command.
func NewChannelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels <archive>",
		Short: "List the channels that would be rendered",
		Args:  cobra.ExactArgs(1),
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

			summaries := make([]channelSummary, 0, len(archive.Channels))
			for _, channel := range archive.Channels {
				summaries = append(summaries, channelSummary{
					ID:        channel.ID,
					Name:      channel.Name,
					Slug:      channel.Slug,
					IsPrivate: channel.IsPrivate,
					Members:   len(channel.Members),
					Messages:  len(channel.Messages),
					Threads:   core.CountThreads(channel.Messages),
				})
			}

			jsonMode, _ := cmd.Flags().GetBool("json")
			if jsonMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(summaries)
			}

			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No channels")
				return nil
			}
			for _, s := range summaries {
				private := ""
				if s.IsPrivate {
					private = " (private)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s%s  %d members, %d messages, %d threads\n",
					s.Slug, s.Name, private, s.Members, s.Messages, s.Threads)
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "output in JSON format")

	return cmd
}
