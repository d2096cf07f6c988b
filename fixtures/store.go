package fixtures

import (
	"fmt"
	"sort"
	"sync"
)

// Store is the in-memory entity store backing the tool registry. It owns
// every fixture map; collaborators read and mutate only through its methods.
type Store struct {
	mu sync.RWMutex

	organizations map[int64]*Organization
	users         map[int64]*User
	campaigns     map[int64]*Campaign
	strategies    map[int64]*Strategy
	segments      map[int64]*AudienceSegment
	creatives     map[int64]*Creative
	supplySources map[int64]*SupplySource

	nextCampaignID int64
	nextStrategyID int64
	nextSegmentID  int64
	nextCreativeID int64
}

// NewStore returns a store populated with the deterministic seed data.
func NewStore() *Store {
	s := &Store{
		organizations: make(map[int64]*Organization),
		users:         make(map[int64]*User),
		campaigns:     make(map[int64]*Campaign),
		strategies:    make(map[int64]*Strategy),
		segments:      make(map[int64]*AudienceSegment),
		creatives:     make(map[int64]*Creative),
		supplySources: make(map[int64]*SupplySource),
	}
	s.seed()
	return s
}

// --- Organizations & users ---

// Organizations returns all organizations ordered by id.
func (s *Store) Organizations() []Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Organization, 0, len(s.organizations))
	for _, o := range s.organizations {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindUsers filters users by organization and/or role. Zero/empty filters
// match everything.
func (s *Store) FindUsers(organizationID int64, role string) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0)
	for _, u := range s.users {
		if organizationID != 0 && u.OrganizationID != organizationID {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetUser returns a user by id.
func (s *Store) GetUser(id int64) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

// GetUserByUsername looks a user up by login name. Used by the OAuth mock's
// password grant.
func (s *Store) GetUserByUsername(username string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, true
		}
	}
	return nil, false
}

// --- Campaigns ---

// FindCampaigns filters campaigns by organization, advertiser, and/or
// status. Zero/empty filters match everything.
func (s *Store) FindCampaigns(organizationID, advertiserID int64, status string) []Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Campaign, 0)
	for _, c := range s.campaigns {
		if organizationID != 0 && c.OrganizationID != organizationID {
			continue
		}
		if advertiserID != 0 && c.AdvertiserID != advertiserID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetCampaign returns a campaign by id.
func (s *Store) GetCampaign(id int64) (*Campaign, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, false
	}
	cp := *c
	return &cp, true
}

// CreateCampaign allocates a new active campaign.
func (s *Store) CreateCampaign(name string, organizationID int64, budget float64) *Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCampaignID++
	c := &Campaign{
		ID:             s.nextCampaignID,
		Name:           name,
		OrganizationID: organizationID,
		Status:         "active",
		Budget:         budget,
	}
	s.campaigns[c.ID] = c
	cp := *c
	return &cp
}

// UpdateCampaign applies a sparse update map (name, status, budget, goal) to
// a campaign. Unknown keys are rejected.
func (s *Store) UpdateCampaign(id int64, updates map[string]any) (*Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("campaign %d not found", id)
	}
	for k, v := range updates {
		switch k {
		case "name":
			if sv, ok := v.(string); ok {
				c.Name = sv
			}
		case "status":
			if sv, ok := v.(string); ok {
				c.Status = sv
			}
		case "budget":
			if fv, ok := toFloat(v); ok {
				c.Budget = fv
			}
		case "goal":
			if sv, ok := v.(string); ok {
				c.Goal = sv
			}
		default:
			return nil, fmt.Errorf("unknown campaign field %q", k)
		}
	}
	cp := *c
	return &cp, nil
}

// SetCampaignBudget overwrites a campaign's budget.
func (s *Store) SetCampaignBudget(id int64, budget float64) (*Campaign, error) {
	return s.UpdateCampaign(id, map[string]any{"budget": budget})
}

// BudgetAllocationFor reports budget vs spend across an organization's
// campaigns.
func (s *Store) BudgetAllocationFor(organizationID int64) BudgetAllocation {
	campaigns := s.FindCampaigns(organizationID, 0, "")
	alloc := BudgetAllocation{OrganizationID: organizationID}
	for _, c := range campaigns {
		alloc.TotalBudget += c.Budget
		alloc.TotalSpend += c.SpendToDate
		alloc.Campaigns = append(alloc.Campaigns, CampaignBudgetSnapshot{
			CampaignID: c.ID,
			Name:       c.Name,
			Budget:     c.Budget,
			Spend:      c.SpendToDate,
			Remaining:  c.Budget - c.SpendToDate,
		})
	}
	return alloc
}

// --- Strategies ---

// FindStrategies filters strategies by campaign, organization, and/or status.
func (s *Store) FindStrategies(campaignID, organizationID int64, status string) []Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Strategy, 0)
	for _, st := range s.strategies {
		if campaignID != 0 && st.CampaignID != campaignID {
			continue
		}
		if organizationID != 0 && st.OrganizationID != organizationID {
			continue
		}
		if status != "" && st.Status != status {
			continue
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetStrategy returns a strategy by id.
func (s *Store) GetStrategy(id int64) (*Strategy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.strategies[id]
	if !ok {
		return nil, false
	}
	cp := *st
	return &cp, true
}

// CreateStrategy allocates a new strategy under an existing campaign.
func (s *Store) CreateStrategy(campaignID int64, name, strategyType string) (*Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return nil, fmt.Errorf("campaign %d not found", campaignID)
	}
	s.nextStrategyID++
	st := &Strategy{
		ID:             s.nextStrategyID,
		Name:           name,
		CampaignID:     campaignID,
		OrganizationID: c.OrganizationID,
		Type:           strategyType,
		Status:         "active",
	}
	s.strategies[st.ID] = st
	cp := *st
	return &cp, nil
}

// UpdateStrategy applies a sparse update map (name, status, bid, budget).
func (s *Store) UpdateStrategy(id int64, updates map[string]any) (*Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.strategies[id]
	if !ok {
		return nil, fmt.Errorf("strategy %d not found", id)
	}
	for k, v := range updates {
		switch k {
		case "name":
			if sv, ok := v.(string); ok {
				st.Name = sv
			}
		case "status":
			if sv, ok := v.(string); ok {
				st.Status = sv
			}
		case "bid":
			if fv, ok := toFloat(v); ok {
				st.Bid = fv
			}
		case "budget":
			if fv, ok := toFloat(v); ok {
				st.Budget = fv
			}
		default:
			return nil, fmt.Errorf("unknown strategy field %q", k)
		}
	}
	cp := *st
	return &cp, nil
}

// --- Audience segments ---

// CreateAudienceSegment allocates a new segment.
func (s *Store) CreateAudienceSegment(name string, organizationID int64, description string) *AudienceSegment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSegmentID++
	seg := &AudienceSegment{
		ID:             s.nextSegmentID,
		Name:           name,
		OrganizationID: organizationID,
		Description:    description,
		Status:         "building",
	}
	s.segments[seg.ID] = seg
	cp := *seg
	return &cp
}

// FindAudienceSegments returns an organization's segments.
func (s *Store) FindAudienceSegments(organizationID int64) []AudienceSegment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AudienceSegment, 0)
	for _, seg := range s.segments {
		if organizationID != 0 && seg.OrganizationID != organizationID {
			continue
		}
		out = append(out, *seg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- Creatives ---

// FindCreatives filters creatives by advertiser and/or status.
func (s *Store) FindCreatives(advertiserID int64, status string) []Creative {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Creative, 0)
	for _, cr := range s.creatives {
		if advertiserID != 0 && cr.AdvertiserID != advertiserID {
			continue
		}
		if status != "" && cr.Status != status {
			continue
		}
		out = append(out, *cr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetCreative returns a creative by id.
func (s *Store) GetCreative(id int64) (*Creative, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cr, ok := s.creatives[id]
	if !ok {
		return nil, false
	}
	cp := *cr
	return &cp, true
}

// CreateCreative allocates a new creative asset.
func (s *Store) CreateCreative(name string, advertiserID int64, creativeType string) *Creative {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCreativeID++
	cr := &Creative{
		ID:           s.nextCreativeID,
		Name:         name,
		AdvertiserID: advertiserID,
		Type:         creativeType,
		Status:       "pending_review",
	}
	s.creatives[cr.ID] = cr
	cp := *cr
	return &cp
}

// --- Supply sources ---

// FindSupplySources filters supply sources by type.
func (s *Store) FindSupplySources(sourceType string) []SupplySource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SupplySource, 0)
	for _, ss := range s.supplySources {
		if sourceType != "" && ss.Type != sourceType {
			continue
		}
		out = append(out, *ss)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetSupplySource returns a supply source by id.
func (s *Store) GetSupplySource(id int64) (*SupplySource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ss, ok := s.supplySources[id]
	if !ok {
		return nil, false
	}
	cp := *ss
	return &cp, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
