// Package commands holds the aios-demo subcommands, grouped the way
// mywant's cmd/mywant/commands package groups each cobra.Command alongside
// the state it owns.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DemoConfig is the on-disk config for aios-demo: which scenarios to run by
// default and how chatty the printing OutputHandler should be.
type DemoConfig struct {
	Verbose   bool     `yaml:"verbose"`
	Scenarios []string `yaml:"scenarios"`
}

func DefaultConfig() *DemoConfig {
	return &DemoConfig{
		Verbose:   false,
		Scenarios: []string{"s1", "s2", "s3", "s4", "s5", "s6"},
	}
}

var configFilePath string

// SetConfigPath lets main.go override the default path from --config.
func SetConfigPath(path string) {
	configFilePath = path
}

func getConfigPath() string {
	if configFilePath != "" {
		return configFilePath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".aios-demo.yaml")
}

// LoadConfig loads configuration from file, or returns the default if the
// file doesn't exist yet.
func LoadConfig() (*DemoConfig, error) {
	path := getConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg DemoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *DemoConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(getConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

var ConfigCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Show or reset the aios-demo configuration",
}

var configGetCmd = &cobra.Command{
	Use:     "get",
	Aliases: []string{"show"},
	Short:   "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("verbose:   %v\n", cfg.Verbose)
		fmt.Printf("scenarios: %v\n", cfg.Scenarios)
		fmt.Printf("config file: %s\n", getConfigPath())
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the configuration to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := DefaultConfig()
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println("configuration reset to defaults at", getConfigPath())
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configResetCmd)
}
