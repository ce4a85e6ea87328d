package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nstehr/vimy/assault-core/agent"
	"github.com/nstehr/vimy/assault-core/ipc"
	"github.com/nstehr/vimy/assault-core/scenario"
	"github.com/spf13/cobra"
)

var (
	replayJSON  bool
	replayQuiet bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>...",
	Short: "Evaluate recorded scenarios offline and check their expectations",
	Long: `replay feeds every tick of each scenario file through a fresh session,
exactly as if the game mod had sent it, prints the resulting plans and
checks them against the expectations recorded in the file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg, os.Stderr)

		scenarios, err := scenario.LoadAll(cmd.Context(), args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, sc := range scenarios {
			s, err := agent.New(nil, agent.Options{
				Tuning:         cfg.Tuning.Tuning,
				Namespace:      cfg.Namespace,
				MaxSnapshotAge: cfg.Tuning.MaxSnapshotAge,
			})
			if err != nil {
				return err
			}

			if !replayJSON {
				printHeader(out, fmt.Sprintf("%s (%d ticks)", sc.Name, len(sc.Ticks)))
			}
			var replies []ipc.PlansMessage
			mismatches := 0
			for i, tick := range sc.Ticks {
				plans, ok := s.ProcessTick(sc.Message(i))
				if !ok {
					printFailure(out, fmt.Sprintf("tick %d dropped as stale", tick.World.Tick))
					mismatches++
					continue
				}
				replies = append(replies, plans)
				if !replayJSON && !replayQuiet {
					printPlans(out, plans)
				}
				for _, m := range tick.Check(plans) {
					printFailure(out, fmt.Sprintf("tick %d: %s", tick.World.Tick, m))
					mismatches++
				}
			}

			if replayJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{"scenario": sc.Name, "ticks": replies}); err != nil {
					return fmt.Errorf("encode replay: %w", err)
				}
			}
			if mismatches > 0 {
				failed++
				continue
			}
			if !replayJSON {
				printSuccess(out, sc.Name)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print plans as JSON")
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "only report mismatches")
	rootCmd.AddCommand(replayCmd)
}
