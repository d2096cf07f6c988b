package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
)

type createSegmentArgs struct {
	Name           string `json:"name" jsonschema:"description=Segment name"`
	OrganizationID int64  `json:"organization_id,omitempty" jsonschema:"description=Owning organization id; defaults to the session's organization"`
	Description    string `json:"description,omitempty" jsonschema:"description=Human-readable segment definition"`
}

type findSegmentsArgs struct {
	OrganizationID int64 `json:"organization_id,omitempty" jsonschema:"description=Organization id; defaults to the session's organization"`
}

type findCreativesArgs struct {
	AdvertiserID int64  `json:"advertiser_id,omitempty" jsonschema:"description=Filter by advertiser id"`
	Status       string `json:"status,omitempty" jsonschema:"description=Filter by review status,enum=approved,enum=pending_review,enum=rejected"`
}

type creativeIDArgs struct {
	CreativeID int64 `json:"creative_id" jsonschema:"description=Creative id"`
}

type createCreativeArgs struct {
	Name         string `json:"name" jsonschema:"description=Creative name"`
	AdvertiserID int64  `json:"advertiser_id" jsonschema:"description=Owning advertiser id"`
	Type         string `json:"type,omitempty" jsonschema:"description=Creative format,enum=banner,enum=video,enum=native"`
}

func (r *Registry) registerAudienceTools() {
	register(r, "create_audience_segment",
		"Create a new audience segment in building status.",
		func(ctx context.Context, sc sessions.Context, args createSegmentArgs) (any, error) {
			if args.Name == "" {
				return nil, errors.New("name is required")
			}
			orgID := args.OrganizationID
			if orgID == 0 {
				orgID = sc.OrganizationID
			}
			return r.data.CreateAudienceSegment(args.Name, orgID, args.Description), nil
		})

	register(r, "find_audience_segments",
		"List an organization's audience segments.",
		func(ctx context.Context, sc sessions.Context, args findSegmentsArgs) (any, error) {
			orgID := args.OrganizationID
			if orgID == 0 {
				orgID = sc.OrganizationID
			}
			segments := r.data.FindAudienceSegments(orgID)
			return map[string]any{
				"segments": segments,
				"count":    len(segments),
			}, nil
		})

	register(r, "find_creatives",
		"Search creatives by advertiser and review status.",
		func(ctx context.Context, sc sessions.Context, args findCreativesArgs) (any, error) {
			creatives := r.data.FindCreatives(args.AdvertiserID, args.Status)
			return map[string]any{
				"creatives": creatives,
				"count":     len(creatives),
			}, nil
		})

	register(r, "get_creative_info",
		"Fetch a single creative with its delivery metrics.",
		func(ctx context.Context, sc sessions.Context, args creativeIDArgs) (any, error) {
			if args.CreativeID == 0 {
				return nil, errors.New("creative_id is required")
			}
			cr, ok := r.data.GetCreative(args.CreativeID)
			if !ok {
				return nil, fmt.Errorf("creative %d not found", args.CreativeID)
			}
			return cr, nil
		})

	register(r, "create_creative",
		"Register a new creative asset in pending_review status.",
		func(ctx context.Context, sc sessions.Context, args createCreativeArgs) (any, error) {
			if args.Name == "" {
				return nil, errors.New("name is required")
			}
			if args.AdvertiserID == 0 {
				return nil, errors.New("advertiser_id is required")
			}
			creativeType := args.Type
			if creativeType == "" {
				creativeType = "banner"
			}
			return r.data.CreateCreative(args.Name, args.AdvertiserID, creativeType), nil
		})
}
