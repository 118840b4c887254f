package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpalmeida/narro/internal/config"
	"github.com/jpalmeida/narro/internal/synth"
	"github.com/jpalmeida/narro/internal/translate"
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// an explicitly set flag beats the config file; the config file beats
// the flag's default
func resolveString(cmd *cobra.Command, name, configValue string) string {
	flagValue, _ := cmd.Flags().GetString(name)
	if cmd.Flags().Changed(name) || configValue == "" {
		return flagValue
	}
	return configValue
}

func resolveInt(cmd *cobra.Command, name string, configValue int) int {
	flagValue, _ := cmd.Flags().GetInt(name)
	if cmd.Flags().Changed(name) || configValue == 0 {
		return flagValue
	}
	return configValue
}

func resolveBool(cmd *cobra.Command, name string, configValue bool) bool {
	flagValue, _ := cmd.Flags().GetBool(name)
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return flagValue || configValue
}

// default output sits next to the input with an mp3 extension
func defaultOutputPath(subtitlePath string) string {
	return strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath)) + ".mp3"
}

func synthAPIKey(provider synth.Provider, flagKey string) (string, error) {
	if flagKey != "" {
		return flagKey, nil
	}

	switch provider {
	case synth.ProviderOpenAI:
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key, nil
		}
		return "", fmt.Errorf(
			"OpenAI API key is required: use --api-key flag or set OPENAI_API_KEY environment variable",
		)
	case synth.ProviderGemini:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key, nil
		}
		return "", fmt.Errorf(
			"Gemini API key is required: use --api-key flag or set GEMINI_API_KEY environment variable",
		)
	default:
		// the google provider is keyless
		return "", nil
	}
}

func translateAPIKey(provider translate.Provider) (string, error) {
	var envVar string
	switch provider {
	case translate.ProviderAnthropic:
		envVar = "ANTHROPIC_API_KEY"
	case translate.ProviderOpenAI:
		envVar = "OPENAI_API_KEY"
	case translate.ProviderGemini:
		envVar = "GEMINI_API_KEY"
	default:
		return "", fmt.Errorf("unsupported translation provider: %s", provider)
	}

	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf(
		"translation API key is required: set %s environment variable",
		envVar,
	)
}
