package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами.
// Без подкоманды запускается интерфейс плеера.
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "go-playlist",
		Short: "A terminal music player for a fixed playlist",
		Long: `A terminal music player: plays a fixed playlist of tracks from local files,
HTTP(S) URLs or S3, with cover art, seeking and volume control.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.prepare(opts, cmd.Flags().Changed("volume")); err != nil {
				return err
			}
			return app.setupLogging()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "path to the config file")
	flags.StringVarP(&opts.playlistPath, "playlist", "p", "", "path to a YAML playlist (built-in playlist if empty)")
	flags.IntVarP(&opts.volume, "volume", "v", 100, "initial volume, 0..100")

	rootCmd.AddCommand(app.createListCommand())

	return rootCmd
}
