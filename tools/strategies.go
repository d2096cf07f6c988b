package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
)

type findStrategiesArgs struct {
	CampaignID     int64  `json:"campaign_id,omitempty" jsonschema:"description=Filter by parent campaign id"`
	OrganizationID int64  `json:"organization_id,omitempty" jsonschema:"description=Filter by organization id"`
	Status         string `json:"status,omitempty" jsonschema:"description=Filter by strategy status,enum=active,enum=paused"`
}

type strategyIDArgs struct {
	StrategyID int64 `json:"strategy_id" jsonschema:"description=Strategy id"`
}

type createStrategyArgs struct {
	CampaignID int64  `json:"campaign_id" jsonschema:"description=Parent campaign id"`
	Name       string `json:"name" jsonschema:"description=Strategy name"`
	Type       string `json:"type,omitempty" jsonschema:"description=Strategy channel,enum=display,enum=video,enum=native"`
}

type updateStrategyArgs struct {
	StrategyID int64          `json:"strategy_id" jsonschema:"description=Strategy id"`
	Updates    map[string]any `json:"updates" jsonschema:"description=Sparse update map; allowed keys: name status bid budget"`
}

func (r *Registry) registerStrategyTools() {
	register(r, "find_strategies",
		"Search strategies by campaign, organization, and status.",
		func(ctx context.Context, sc sessions.Context, args findStrategiesArgs) (any, error) {
			orgID := args.OrganizationID
			if orgID == 0 && args.CampaignID == 0 {
				orgID = sc.OrganizationID
			}
			strategies := r.data.FindStrategies(args.CampaignID, orgID, args.Status)
			return map[string]any{
				"strategies": strategies,
				"count":      len(strategies),
			}, nil
		})

	register(r, "get_strategy_info",
		"Fetch a single strategy with its delivery metrics.",
		func(ctx context.Context, sc sessions.Context, args strategyIDArgs) (any, error) {
			if args.StrategyID == 0 {
				return nil, errors.New("strategy_id is required")
			}
			st, ok := r.data.GetStrategy(args.StrategyID)
			if !ok {
				return nil, fmt.Errorf("strategy %d not found", args.StrategyID)
			}
			return st, nil
		})

	register(r, "create_strategy",
		"Create a new strategy under an existing campaign.",
		func(ctx context.Context, sc sessions.Context, args createStrategyArgs) (any, error) {
			if args.CampaignID == 0 {
				return nil, errors.New("campaign_id is required")
			}
			if args.Name == "" {
				return nil, errors.New("name is required")
			}
			strategyType := args.Type
			if strategyType == "" {
				strategyType = "display"
			}
			return r.data.CreateStrategy(args.CampaignID, args.Name, strategyType)
		})

	register(r, "update_strategy",
		"Apply a sparse field update to a strategy.",
		func(ctx context.Context, sc sessions.Context, args updateStrategyArgs) (any, error) {
			if args.StrategyID == 0 {
				return nil, errors.New("strategy_id is required")
			}
			if len(args.Updates) == 0 {
				return nil, errors.New("updates must not be empty")
			}
			return r.data.UpdateStrategy(args.StrategyID, args.Updates)
		})
}
