package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmeida/narro/internal/subtitle"
	"github.com/jpalmeida/narro/internal/synth"
	"github.com/jpalmeida/narro/internal/translate"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported subtitle formats and providers",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Subtitle formats:")
		for _, name := range subtitle.Names() {
			fmt.Printf("  %s\n", name)
		}

		fmt.Println("Speech providers:")
		for _, provider := range synth.Providers() {
			fmt.Printf("  %s\n", provider)
		}

		fmt.Println("Translation providers:")
		for _, provider := range translate.Providers() {
			fmt.Printf("  %s\n", provider)
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
