package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/strategy"
	"github.com/mcdev12/warroom/go/internal/trade"
	"github.com/spf13/cobra"
)

func newTradeCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "trade", Short: "Propose and answer pick trades"}
	cmd.AddCommand(
		newTradeProposeCmd(root),
		tradeAnswerCmd(root, "accept", "Accept a trade as the receiving team", func(ctx context.Context, s *Services, req answer) (*models.PickTrade, error) {
			return s.Trades.AcceptTrade(ctx, req.tradeID, req.teamID)
		}),
		tradeAnswerCmd(root, "reject", "Reject or withdraw a trade", func(ctx context.Context, s *Services, req answer) (*models.PickTrade, error) {
			return s.Trades.RejectTrade(ctx, req.tradeID, req.teamID)
		}),
		newTradePendingCmd(root),
		newTradeGetCmd(root),
	)
	return cmd
}

func newTradeProposeCmd(root *rootOptions) *cobra.Command {
	var draftID, fromTeam, toTeam string
	var give, get []string

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Offer picks to another team",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req trade.ProposeRequest
			var err error
			if req.SessionID, err = parseID("draft id", draftID); err != nil {
				return err
			}
			if req.FromTeamID, err = parseID("from team", fromTeam); err != nil {
				return err
			}
			if req.ToTeamID, err = parseID("to team", toTeam); err != nil {
				return err
			}
			if req.FromPickIDs, err = parseIDs("pick id", give); err != nil {
				return err
			}
			if req.ToPickIDs, err = parseIDs("pick id", get); err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				t, err := s.Trades.ProposeTrade(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(t)
			})
		},
	}
	cmd.Flags().StringVar(&draftID, "draft", "", "draft the trade happens in")
	cmd.Flags().StringVar(&fromTeam, "from", "", "proposing team")
	cmd.Flags().StringVar(&toTeam, "to", "", "receiving team")
	cmd.Flags().StringSliceVar(&give, "give", nil, "picks the proposing team offers")
	cmd.Flags().StringSliceVar(&get, "get", nil, "picks the proposing team asks for")
	for _, f := range []string{"draft", "from", "to"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

type answer struct {
	tradeID, teamID uuid.UUID
}

func tradeAnswerCmd(root *rootOptions, use, short string, fn func(context.Context, *Services, answer) (*models.PickTrade, error)) *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:   use + " <trade-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tradeID, err := parseID("trade id", args[0])
			if err != nil {
				return err
			}
			teamID, err := parseID("team", team)
			if err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				t, err := fn(ctx, s, answer{tradeID: tradeID, teamID: teamID})
				if err != nil {
					return err
				}
				return printJSON(t)
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "acting team")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newTradePendingCmd(root *rootOptions) *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List proposals awaiting a team's answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := parseID("team", team)
			if err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				trades, err := s.Trades.GetPendingTrades(ctx, teamID)
				if err != nil {
					return err
				}
				return printJSON(trades)
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "receiving team")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newTradeGetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <trade-id>",
		Short: "Show a trade with its picks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tradeID, err := parseID("trade id", args[0])
			if err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				t, err := s.Trades.GetTrade(ctx, tradeID)
				if err != nil {
					return err
				}
				return printJSON(t)
			})
		},
	}
}

func newStrategyCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "strategy", Short: "Show or set a team's draft strategy"}

	var draftID, team string
	get := &cobra.Command{
		Use:   "get",
		Short: "Show the strategy, creating the default on first use",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseID("draft id", draftID)
			if err != nil {
				return err
			}
			t, err := parseID("team", team)
			if err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				st, err := s.Strategies.Resolve(ctx, t, d)
				if err != nil {
					return err
				}
				return printJSON(st)
			})
		},
	}
	get.Flags().StringVar(&draftID, "draft", "", "draft")
	get.Flags().StringVar(&team, "team", "", "team")

	var req strategy.SetStrategyRequest
	var setDraft, setTeam string
	var aggressiveness float64
	var multipliers map[string]string
	set := &cobra.Command{
		Use:   "set",
		Short: "Set BPA/need weights and position multipliers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.DraftID, err = parseID("draft id", setDraft); err != nil {
				return err
			}
			if req.TeamID, err = parseID("team", setTeam); err != nil {
				return err
			}
			if req.PositionMultipliers, err = parseMultipliers(multipliers); err != nil {
				return err
			}
			if cmd.Flags().Changed("aggressiveness") {
				req.Aggressiveness = &aggressiveness
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				st, err := s.Strategies.SetStrategy(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(st)
			})
		},
	}
	set.Flags().StringVar(&setDraft, "draft", "", "draft")
	set.Flags().StringVar(&setTeam, "team", "", "team")
	set.Flags().IntVar(&req.BPAWeight, "bpa", 60, "best-player-available weight")
	set.Flags().IntVar(&req.NeedWeight, "need", 40, "team need weight")
	set.Flags().StringToStringVar(&multipliers, "multiplier", nil, "position multiplier overrides, e.g. QB=1.8,RB=0.7")
	set.Flags().Float64Var(&aggressiveness, "aggressiveness", 0, "trade-up aggressiveness in [0,1]")

	cmd.AddCommand(get, set)
	return cmd
}
