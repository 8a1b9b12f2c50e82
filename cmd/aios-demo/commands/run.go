package commands

import (
	"context"
	"fmt"

	"github.com/xlfe/aios"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// printingOutput is an aios.OutputHandler that narrates each phase of the
// commit protocol to stdout instead of recording a trace, the way a real
// actuator integration would log its own lock/change/release calls.
type printingOutput struct {
	name    string
	async   bool
	verbose bool
	locked  bool
}

func (p *printingOutput) RequireAsync() bool { return p.async }

func (p *printingOutput) AcquireLock(ctx context.Context, newLabel string) error {
	if p.verbose {
		fmt.Printf("  [%s] acquire_lock(%s)\n", p.name, newLabel)
	}
	if p.locked {
		return fmt.Errorf("%s: re-entrant acquisition", p.name)
	}
	p.locked = true
	return nil
}

func (p *printingOutput) Change(ctx context.Context) error {
	if p.verbose {
		fmt.Printf("  [%s] change()\n", p.name)
	}
	return nil
}

func (p *printingOutput) ReleaseLock(ctx context.Context) error {
	if p.verbose {
		fmt.Printf("  [%s] release_lock()\n", p.name)
	}
	p.locked = false
	return nil
}

func printingFactory(verbose bool) aios.HandlerFactory {
	return aios.HandlerFactory{
		New: func(name string) aios.OutputHandler {
			return &printingOutput{name: name, verbose: verbose}
		},
		NewAsyncRequired: func(name string) aios.OutputHandler {
			return &printingOutput{name: name, async: true, verbose: verbose}
		},
	}
}

var RunCmd = &cobra.Command{
	Use:   "run [scenario-id...]",
	Short: "Run one or more of the built-in walkthrough scenarios (s1-s6)",
	Long: `Run replays the scenarios used to validate the state machine and
wiring engine: basic commit, a lock veto, fan-out and chained wiring, an
async-required output, and a rejected duplicate child name. With no
arguments it runs every scenario configured in the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		ids := args
		if len(ids) == 0 {
			ids = cfg.Scenarios
		}
		verbose := viper.GetBool("verbose") || cfg.Verbose

		byID := make(map[string]aios.Scenario, len(aios.Scenarios))
		for _, s := range aios.Scenarios {
			byID[s.ID] = s
		}

		for _, id := range ids {
			s, ok := byID[id]
			if !ok {
				fmt.Printf("unknown scenario %q, skipping\n", id)
				continue
			}
			fmt.Printf("== %s: %s ==\n", s.ID, s.Description)
			res := s.Run(context.Background(), printingFactory(verbose))
			if res.Err != nil {
				fmt.Printf("  result: error: %v\n", res.Err)
			} else {
				fmt.Printf("  result: ok\n")
			}
			fmt.Printf("  %s\n", res.Root)
		}
		return nil
	},
}
