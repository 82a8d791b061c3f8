package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/draft/autopick"
	"github.com/mcdev12/warroom/go/internal/draft/draft"
	"github.com/mcdev12/warroom/go/internal/draft/pick"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDraftCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "draft", Short: "Create drafts and move them through their lifecycle"}

	var req draft.CreateDraftRequest
	var picksPerRound int
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			if picksPerRound > 0 {
				req.PicksPerRound = &picksPerRound
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				d, err := s.Drafts.CreateDraft(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(d)
			})
		},
	}
	create.Flags().IntVar(&req.Year, "year", 0, "draft year")
	create.Flags().IntVar(&req.Rounds, "rounds", 7, "number of rounds")
	create.Flags().IntVar(&picksPerRound, "picks-per-round", 0, "fixed picks per round (0 for an imported, realistic order)")
	_ = create.MarkFlagRequired("year")

	cmd.AddCommand(
		create,
		draftAction(root, "get", "Show a draft", func(ctx context.Context, s *Services, id uuid.UUID) (*models.Draft, error) {
			return s.Drafts.GetDraft(ctx, id)
		}),
		draftAction(root, "start", "Start a draft", func(ctx context.Context, s *Services, id uuid.UUID) (*models.Draft, error) {
			return s.Drafts.StartDraft(ctx, id)
		}),
		draftAction(root, "resume", "Resume a paused draft", func(ctx context.Context, s *Services, id uuid.UUID) (*models.Draft, error) {
			return s.Drafts.ResumeDraft(ctx, id)
		}),
		draftAction(root, "complete", "Complete a draft", func(ctx context.Context, s *Services, id uuid.UUID) (*models.Draft, error) {
			return s.Drafts.CompleteDraft(ctx, id)
		}),
		newDraftPauseCmd(root),
	)
	return cmd
}

func newDraftPauseCmd(root *rootOptions) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "pause <draft-id>",
		Short: "Pause an in-progress draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("draft id", args[0])
			if err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				d, err := s.Drafts.PauseDraft(ctx, id, reason)
				if err != nil {
					return err
				}
				return printJSON(d)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded on the DraftPaused event")
	return cmd
}

func draftAction(root *rootOptions, use, short string, fn func(context.Context, *Services, uuid.UUID) (*models.Draft, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <draft-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("draft id", args[0])
			if err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				d, err := fn(ctx, s, id)
				if err != nil {
					return err
				}
				return printJSON(d)
			})
		},
	}
}

func newPicksCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "picks", Short: "Initialize and make draft picks"}

	byDraft := func(use, short string, fn func(context.Context, *Services, uuid.UUID) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <draft-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("draft id", args[0])
				if err != nil {
					return err
				}
				return withServices(cmd, root, func(ctx context.Context, s *Services) error {
					out, err := fn(ctx, s, id)
					if err != nil {
						return err
					}
					return printJSON(out)
				})
			},
		}
	}

	cmd.AddCommand(
		byDraft("init", "Create the rounds x teams pick grid", func(ctx context.Context, s *Services, id uuid.UUID) (any, error) {
			return s.Picks.InitializePicks(ctx, id)
		}),
		byDraft("next", "Show the next open pick", func(ctx context.Context, s *Services, id uuid.UUID) (any, error) {
			return s.Picks.FindNextPick(ctx, id)
		}),
		byDraft("available", "List open picks in order", func(ctx context.Context, s *Services, id uuid.UUID) (any, error) {
			return s.Picks.FindAvailablePicks(ctx, id)
		}),
		byDraft("list", "List every pick of the draft", func(ctx context.Context, s *Services, id uuid.UUID) (any, error) {
			return s.Picks.ListPicks(ctx, id)
		}),
		newPicksImportCmd(root),
		newPicksMakeCmd(root),
	)
	return cmd
}

func newPicksImportCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import <draft-id>",
		Short: "Import a realistic pick order from a YAML list of slots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("draft id", args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read pick order: %w", err)
			}
			var slots []pick.PickSlot
			if err := yaml.Unmarshal(data, &slots); err != nil {
				return fmt.Errorf("failed to parse pick order: %w", err)
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				picks, err := s.Picks.ImportPickOrder(ctx, id, slots)
				if err != nil {
					return err
				}
				return printJSON(picks)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with round, pick, overall_pick, team_id per slot")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPicksMakeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "make <pick-id> <player-id>",
		Short: "Select a player with a pick",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pickID, err := parseID("pick id", args[0])
			if err != nil {
				return err
			}
			playerID, err := parseID("player id", args[1])
			if err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				p, err := s.Picks.MakePick(ctx, pick.MakePickRequest{PickID: pickID, PlayerID: playerID})
				if err != nil {
					return err
				}
				return printJSON(p)
			})
		},
	}
}

func newAutoPickCmd(root *rootOptions) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "autopick <pick-id>",
		Short: "Let the engine choose and make the pick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pickID, err := parseID("pick id", args[0])
			if err != nil {
				return err
			}
			return withServices(cmd, root, func(ctx context.Context, s *Services) error {
				res, err := s.AutoPick.ExecuteAutoPick(ctx, pickID)
				if err != nil {
					return err
				}
				if explain {
					return printJSON(res)
				}
				return printJSON(struct {
					Pick     *models.DraftPick   `json:"pick"`
					Selected autopick.Candidate `json:"selected"`
					Attempts int                `json:"attempts"`
				}{res.Pick, res.Decision.Selected(), res.Attempts})
			})
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print every scored candidate")
	return cmd
}
