// Command aios-demo is a runnable walkthrough of the aios engine: it drives
// the same scenario table the library tests assert against, printing the
// resulting tree and, with --verbose, narrating each lock/change/release
// call.
package main

import (
	"fmt"
	"os"

	"github.com/xlfe/aios/cmd/aios-demo/commands"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "aios-demo",
	Short: "aios-demo - walkthrough CLI for the aios state-machine engine",
	Long: `aios-demo runs the built-in scenarios that exercise object trees,
state machines, wiring, and the two-phase commit protocol, printing the
resulting tree repr and, with --verbose, each output call.`,
}

func main() {
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.aios-demo.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "narrate every AcquireLock/Change/ReleaseLock call")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		commands.SetConfigPath(cfgFile)
	}
	viper.AutomaticEnv()
}
