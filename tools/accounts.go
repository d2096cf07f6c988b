package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
)

type findOrganizationsArgs struct{}

type findUsersArgs struct {
	OrganizationID int64  `json:"organization_id,omitempty" jsonschema:"description=Filter by organization id"`
	Role           string `json:"role,omitempty" jsonschema:"description=Filter by role,enum=campaign_manager,enum=analyst"`
}

type userIDArgs struct {
	UserID int64 `json:"user_id,omitempty" jsonschema:"description=User id; defaults to the session's user"`
}

func (r *Registry) registerAccountTools() {
	register(r, "find_organizations",
		"List all organizations visible to the mock.",
		func(ctx context.Context, sc sessions.Context, args findOrganizationsArgs) (any, error) {
			orgs := r.data.Organizations()
			return map[string]any{
				"organizations": orgs,
				"count":         len(orgs),
			}, nil
		})

	register(r, "find_users",
		"Search users by organization and role.",
		func(ctx context.Context, sc sessions.Context, args findUsersArgs) (any, error) {
			orgID := args.OrganizationID
			if orgID == 0 {
				orgID = sc.OrganizationID
			}
			users := r.data.FindUsers(orgID, args.Role)
			return map[string]any{
				"users": users,
				"count": len(users),
			}, nil
		})

	register(r, "get_user_permissions",
		"Report a user's role and permission grants.",
		func(ctx context.Context, sc sessions.Context, args userIDArgs) (any, error) {
			userID := args.UserID
			if userID == 0 {
				userID = sc.UserID
			}
			u, ok := r.data.GetUser(userID)
			if !ok {
				return nil, fmt.Errorf("user %d not found", userID)
			}
			return map[string]any{
				"user_id":     u.ID,
				"username":    u.Username,
				"role":        u.Role,
				"permissions": u.Permissions,
			}, nil
		})

	register(r, "get_user_info",
		"Fetch a single user's profile.",
		func(ctx context.Context, sc sessions.Context, args userIDArgs) (any, error) {
			userID := args.UserID
			if userID == 0 {
				userID = sc.UserID
			}
			if userID == 0 {
				return nil, errors.New("user_id is required")
			}
			u, ok := r.data.GetUser(userID)
			if !ok {
				return nil, fmt.Errorf("user %d not found", userID)
			}
			return u, nil
		})
}
