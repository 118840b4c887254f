package cli

import (
	"github.com/jpalmeida/narro/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "narro",
	Short: "Narrate subtitle files into audio tracks",
	Long: `Narro reads a subtitle file and synthesizes a narrated audio
track from it.

Each cue is spoken by a text-to-speech provider and placed on the
timeline following the cue start times, with pauses shortened when
the spoken audio runs long.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Speech language code (e.g., pt-BR, en-US)")
	rootCmd.PersistentFlags().
		String("config", "", "Config file path (default: narro/narro.yaml in the user config dir)")
}
