package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"sfgen/pkg/config"

	"github.com/spf13/cobra"
)

// Version information
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	configPath string
	verbose    bool

	cfg    = config.DefaultConfig()
	logger = log.New(io.Discard, "sfgen: ", 0)
)

var rootCmd = &cobra.Command{
	Use:   "sfgen",
	Short: "Extract special function signatures and test cases from C sources",
	Long: `sfgen reads C header declarations and TEST_SF test macros, binds every
test case to the signature of the function it calls, and coerces numeric
literals to the parameter types so the cases can be fed to a test generator.`,
	Version:           getVersionString(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sfgen %s\n", getVersionString())
		fmt.Fprintf(out, "  Version: %s\n", version)
		fmt.Fprintf(out, "  Commit:  %s\n", commit)
		fmt.Fprintf(out, "  Date:    %s\n", date)
	},
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func Execute() error {
	return rootCmd.Execute()
}

// setup loads the configuration and wires the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if verbose {
		logger.SetOutput(cmd.ErrOrStderr())
	} else {
		logger.SetOutput(io.Discard)
	}

	loaded, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
		logger.Printf("using config %s", configPath)
		return config.LoadFromPath(configPath)
	}

	path, err := config.FindConfigFile(".")
	if err != nil {
		logger.Printf("no %s found, using defaults", config.ConfigFileName)
		return config.DefaultConfig(), nil
	}
	logger.Printf("using config %s", path)
	return config.LoadFromPath(path)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a "+config.ConfigFileName+" file (default: search upward from the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(signatureCmd)
	rootCmd.AddCommand(exprCmd)
	rootCmd.AddCommand(headsCmd)
	rootCmd.AddCommand(testsCmd)
	rootCmd.AddCommand(bindCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
