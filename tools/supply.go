package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
)

type findSupplySourcesArgs struct {
	Type string `json:"type,omitempty" jsonschema:"description=Filter by inventory type,enum=display,enum=video"`
}

type supplySourceIDArgs struct {
	SupplySourceID int64 `json:"supply_source_id" jsonschema:"description=Supply source id"`
}

func (r *Registry) registerSupplyTools() {
	register(r, "find_supply_sources",
		"List inventory supply sources, optionally filtered by type.",
		func(ctx context.Context, sc sessions.Context, args findSupplySourcesArgs) (any, error) {
			sources := r.data.FindSupplySources(args.Type)
			return map[string]any{
				"supply_sources": sources,
				"count":          len(sources),
			}, nil
		})

	register(r, "get_supply_source_performance",
		"Fetch a supply source with its fill rate and delivery metrics.",
		func(ctx context.Context, sc sessions.Context, args supplySourceIDArgs) (any, error) {
			if args.SupplySourceID == 0 {
				return nil, errors.New("supply_source_id is required")
			}
			ss, ok := r.data.GetSupplySource(args.SupplySourceID)
			if !ok {
				return nil, fmt.Errorf("supply source %d not found", args.SupplySourceID)
			}
			return ss, nil
		})
}
