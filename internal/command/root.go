package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "slackdump-render"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Render a slackdump archive as a static HTML website",
		Long:          "slackdump-render turns a slackdump SQLite archive into one HTML page per channel.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("config", "", "path to a YAML config file")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolP("only-public", "p", false, "exclude private channels and direct messages")
	cmd.PersistentFlags().StringSliceP("channels", "c", nil, "only include channels whose name or id matches (glob patterns)")

	cmd.AddCommand(
		NewRenderCmd(),
		NewChannelsCmd(),
	)

	return cmd
}

func Execute() error {
	return NewRootCmd(Version).Execute()
}
