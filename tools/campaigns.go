package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/fixtures"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
)

type findCampaignsArgs struct {
	OrganizationID int64  `json:"organization_id,omitempty" jsonschema:"description=Filter by organization id"`
	AdvertiserID   int64  `json:"advertiser_id,omitempty" jsonschema:"description=Filter by advertiser id"`
	Status         string `json:"status,omitempty" jsonschema:"description=Filter by campaign status,enum=active,enum=paused,enum=completed"`
}

type campaignIDArgs struct {
	CampaignID int64 `json:"campaign_id" jsonschema:"description=Campaign id"`
}

type createCampaignArgs struct {
	Name           string  `json:"name" jsonschema:"description=Campaign name"`
	OrganizationID int64   `json:"organization_id,omitempty" jsonschema:"description=Owning organization id; defaults to the session's organization"`
	Budget         float64 `json:"budget,omitempty" jsonschema:"description=Total campaign budget in USD"`
}

type updateCampaignArgs struct {
	CampaignID int64          `json:"campaign_id" jsonschema:"description=Campaign id"`
	Updates    map[string]any `json:"updates" jsonschema:"description=Sparse update map; allowed keys: name status budget goal"`
}

type updateCampaignBudgetArgs struct {
	CampaignID int64   `json:"campaign_id" jsonschema:"description=Campaign id"`
	Budget     float64 `json:"budget" jsonschema:"description=New total budget in USD"`
}

type budgetAllocationArgs struct {
	OrganizationID int64 `json:"organization_id,omitempty" jsonschema:"description=Organization id; defaults to the session's organization"`
}

func (r *Registry) registerCampaignTools() {
	register(r, "find_campaigns",
		"Search campaigns by organization, advertiser, and status.",
		func(ctx context.Context, sc sessions.Context, args findCampaignsArgs) (any, error) {
			orgID := args.OrganizationID
			if orgID == 0 {
				orgID = sc.OrganizationID
			}
			campaigns := r.data.FindCampaigns(orgID, args.AdvertiserID, args.Status)
			return map[string]any{
				"campaigns": campaigns,
				"count":     len(campaigns),
			}, nil
		})

	register(r, "get_campaign_info",
		"Fetch a single campaign with its delivery metrics.",
		func(ctx context.Context, sc sessions.Context, args campaignIDArgs) (any, error) {
			if args.CampaignID == 0 {
				return nil, errors.New("campaign_id is required")
			}
			c, ok := r.data.GetCampaign(args.CampaignID)
			if !ok {
				return nil, fmt.Errorf("campaign %d not found", args.CampaignID)
			}
			return c, nil
		})

	register(r, "create_campaign",
		"Create a new campaign in active status.",
		func(ctx context.Context, sc sessions.Context, args createCampaignArgs) (any, error) {
			if args.Name == "" {
				return nil, errors.New("name is required")
			}
			orgID := args.OrganizationID
			if orgID == 0 {
				orgID = sc.OrganizationID
			}
			return r.data.CreateCampaign(args.Name, orgID, args.Budget), nil
		})

	register(r, "update_campaign",
		"Apply a sparse field update to a campaign.",
		func(ctx context.Context, sc sessions.Context, args updateCampaignArgs) (any, error) {
			if args.CampaignID == 0 {
				return nil, errors.New("campaign_id is required")
			}
			if len(args.Updates) == 0 {
				return nil, errors.New("updates must not be empty")
			}
			return r.data.UpdateCampaign(args.CampaignID, args.Updates)
		})

	register(r, "update_campaign_budget",
		"Overwrite a campaign's total budget.",
		func(ctx context.Context, sc sessions.Context, args updateCampaignBudgetArgs) (any, error) {
			if args.CampaignID == 0 {
				return nil, errors.New("campaign_id is required")
			}
			if args.Budget <= 0 {
				return nil, errors.New("budget must be positive")
			}
			return r.data.SetCampaignBudget(args.CampaignID, args.Budget)
		})

	register(r, "get_budget_allocation",
		"Report budget vs. spend across an organization's campaigns.",
		func(ctx context.Context, sc sessions.Context, args budgetAllocationArgs) (any, error) {
			orgID := args.OrganizationID
			if orgID == 0 {
				orgID = sc.OrganizationID
			}
			alloc := r.data.BudgetAllocationFor(orgID)
			if len(alloc.Campaigns) == 0 {
				alloc.Campaigns = []fixtures.CampaignBudgetSnapshot{}
			}
			return alloc, nil
		})
}
