package cli

import (
	"github.com/spf13/cobra"
)

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BalanceResult

			if err := client.Get("/api/v1/wallet/balance", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayCmd() *cobra.Command {
	var stake int64
	var risk string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Place a plinko wager",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"stake": stake,
				"risk":  risk,
			}
			var result WagerResult

			if err := client.Post("/api/v1/wager", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&stake, "stake", 0, "Stake in F$ (required)")
	cmd.Flags().StringVar(&risk, "risk", "balanced", "Risk profile: safe, balanced, risky")
	_ = cmd.MarkFlagRequired("stake")

	return cmd
}
