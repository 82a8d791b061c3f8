package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newEvaluateCmd(root *rootOptions) *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:   "evaluate <player-id>",
		Short: "Show a team's BPA breakdown for one prospect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := parseID("player id", args[0])
			if err != nil {
				return err
			}
			teamID, err := parseID("team", team)
			if err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				p, err := s.Players.GetPlayer(ctx, playerID)
				if err != nil {
					return err
				}
				b, err := s.Evaluator.BPAScore(ctx, p, teamID)
				if err != nil {
					return err
				}
				return printJSON(b)
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "scouting team")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}
