// Package prompts serves the mock's static prompt templates over
// prompts/list and prompts/get.
package prompts

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/mcp"
)

type renderFunc func(args map[string]string) (*mcp.GetPromptResult, error)

// Registry holds the static prompt set. Definitions are fixed at
// construction; Registry is safe for concurrent use.
type Registry struct {
	defs   []mcp.Prompt
	render map[string]renderFunc
}

// NewRegistry builds the registry with the mock's prompt templates.
func NewRegistry() *Registry {
	r := &Registry{render: make(map[string]renderFunc)}
	r.add(campaignPerformanceReview())
	r.add(budgetReallocationPlan())
	r.add(strategyOptimization())
	return r
}

func (r *Registry) add(def mcp.Prompt, fn renderFunc) {
	r.defs = append(r.defs, def)
	r.render[def.Name] = fn
}

// ListPrompts returns the prompt definitions in registration order.
func (r *Registry) ListPrompts(ctx context.Context) []mcp.Prompt {
	out := make([]mcp.Prompt, len(r.defs))
	copy(out, r.defs)
	return out
}

// GetPrompt renders the named prompt with the given arguments. The boolean
// reports whether the name is known; the dispatcher maps false to a
// method-not-found error naming the prompt.
func (r *Registry) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, bool, error) {
	fn, ok := r.render[name]
	if !ok {
		return nil, false, nil
	}
	res, err := fn(args)
	return res, true, err
}

func argOr(args map[string]string, key, fallback string) string {
	if v, ok := args[key]; ok && v != "" {
		return v
	}
	return fallback
}

func userText(text string) []mcp.PromptMessage {
	return []mcp.PromptMessage{{Role: "user", Content: mcp.TextContent(text)}}
}

func campaignPerformanceReview() (mcp.Prompt, renderFunc) {
	def := mcp.Prompt{
		Name:        "campaign_performance_review",
		Description: "Review a campaign's delivery and suggest next actions.",
		Arguments: []mcp.PromptArgument{
			{Name: "campaign_id", Description: "Campaign to review", Required: true},
			{Name: "lookback_days", Description: "Days of history to consider (default 30)"},
		},
	}
	render := func(args map[string]string) (*mcp.GetPromptResult, error) {
		campaignID, ok := args["campaign_id"]
		if !ok || campaignID == "" {
			return nil, errors.New("campaign_id argument is required")
		}
		lookback := argOr(args, "lookback_days", "30")
		text := fmt.Sprintf(
			"Review the performance of campaign %s over the last %s days. "+
				"Use get_campaign_info and find_strategies to pull its metrics, "+
				"compare CTR and conversion trends across strategies, and recommend "+
				"concrete pacing or bid adjustments.",
			campaignID, lookback)
		return &mcp.GetPromptResult{
			Description: def.Description,
			Messages:    userText(text),
		}, nil
	}
	return def, render
}

func budgetReallocationPlan() (mcp.Prompt, renderFunc) {
	def := mcp.Prompt{
		Name:        "budget_reallocation_plan",
		Description: "Draft a budget reallocation plan across an organization's campaigns.",
		Arguments: []mcp.PromptArgument{
			{Name: "organization_id", Description: "Organization whose budgets to rebalance", Required: true},
		},
	}
	render := func(args map[string]string) (*mcp.GetPromptResult, error) {
		orgID, ok := args["organization_id"]
		if !ok || orgID == "" {
			return nil, errors.New("organization_id argument is required")
		}
		text := fmt.Sprintf(
			"Build a budget reallocation plan for organization %s. "+
				"Call get_budget_allocation to see budget vs. spend per campaign, "+
				"identify overspending and underspending campaigns, and propose "+
				"update_campaign_budget calls that keep total budget constant.",
			orgID)
		return &mcp.GetPromptResult{
			Description: def.Description,
			Messages:    userText(text),
		}, nil
	}
	return def, render
}

func strategyOptimization() (mcp.Prompt, renderFunc) {
	def := mcp.Prompt{
		Name:        "strategy_optimization",
		Description: "Suggest bid and targeting optimizations for a strategy.",
		Arguments: []mcp.PromptArgument{
			{Name: "strategy_id", Description: "Strategy to optimize", Required: true},
			{Name: "goal", Description: "Optimization goal, e.g. ctr or conversions"},
		},
	}
	render := func(args map[string]string) (*mcp.GetPromptResult, error) {
		strategyID, ok := args["strategy_id"]
		if !ok || strategyID == "" {
			return nil, errors.New("strategy_id argument is required")
		}
		goal := argOr(args, "goal", "conversions")
		text := fmt.Sprintf(
			"Optimize strategy %s for %s. Pull its current metrics with "+
				"get_strategy_info, compare against sibling strategies on the same "+
				"campaign, and recommend bid changes via update_strategy.",
			strategyID, goal)
		return &mcp.GetPromptResult{
			Description: def.Description,
			Messages:    userText(text),
		}, nil
	}
	return def, render
}
