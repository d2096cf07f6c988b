package fixtures

// seed populates the store with the deterministic demo dataset the upstream
// agents are written against. IDs are stable: tests and agent prompts refer
// to them literally (org 100048, campaign 12345, strategy 67890, ...).
func (s *Store) seed() {
	orgs := []*Organization{
		{ID: 100048, Name: "MediaMath Demo Org", Status: "active", Country: "US"},
		{ID: 100049, Name: "Hypermindz Labs", Status: "active", Country: "US"},
	}
	for _, o := range orgs {
		s.organizations[o.ID] = o
	}

	users := []*User{
		{
			ID: 1, Username: "demo@mediamath.com", Password: "demo-password-2025",
			FirstName: "Demo", LastName: "Admin", OrganizationID: 100048,
			Role:        "campaign_manager",
			Permissions: []string{"campaigns:read", "campaigns:write", "strategies:read", "strategies:write", "budgets:write"},
			Active:      true,
		},
		{
			ID: 111, Username: "analyst@mediamath.com", Password: "analyst-password-2025",
			FirstName: "Ava", LastName: "Nguyen", OrganizationID: 100048,
			Role:        "analyst",
			Permissions: []string{"campaigns:read", "strategies:read", "reports:read"},
			Active:      true,
		},
		{
			ID: 112, Username: "ops@hypermindz.ai", Password: "ops-password-2025",
			FirstName: "Noor", LastName: "Haddad", OrganizationID: 100049,
			Role:        "campaign_manager",
			Permissions: []string{"campaigns:read", "campaigns:write"},
			Active:      true,
		},
	}
	for _, u := range users {
		s.users[u.ID] = u
	}

	campaigns := []*Campaign{
		{
			ID: 12345, Name: "Q3 Brand Awareness", OrganizationID: 100048, AdvertiserID: 5001,
			Status: "active", Budget: 50000, SpendToDate: 31250.75,
			StartDate: "2025-07-01", EndDate: "2025-09-30", Goal: "reach",
			Metrics: Metrics{Impressions: 4200000, Clicks: 18600, Conversions: 940, Spend: 31250.75, CTR: 0.44},
		},
		{
			ID: 12346, Name: "Holiday Retargeting", OrganizationID: 100048, AdvertiserID: 5001,
			Status: "paused", Budget: 25000, SpendToDate: 812.40,
			StartDate: "2025-11-01", EndDate: "2025-12-31", Goal: "conversions",
			Metrics: Metrics{Impressions: 150000, Clicks: 1200, Conversions: 85, Spend: 812.40, CTR: 0.80},
		},
		{
			ID: 12347, Name: "App Install Push", OrganizationID: 100049, AdvertiserID: 5002,
			Status: "active", Budget: 12000, SpendToDate: 4400.10,
			StartDate: "2025-08-01", EndDate: "2025-10-15", Goal: "installs",
			Metrics: Metrics{Impressions: 880000, Clicks: 9900, Conversions: 1210, Spend: 4400.10, CTR: 1.13},
		},
	}
	for _, c := range campaigns {
		s.campaigns[c.ID] = c
	}
	s.nextCampaignID = 12347

	strategies := []*Strategy{
		{
			ID: 67890, Name: "Display Prospecting", CampaignID: 12345, OrganizationID: 100048,
			Type: "display", Status: "active", Bid: 2.25, Budget: 20000,
			Metrics: Metrics{Impressions: 2600000, Clicks: 10400, Conversions: 410, Spend: 18200.50, CTR: 0.40},
		},
		{
			ID: 67891, Name: "Video Completion", CampaignID: 12345, OrganizationID: 100048,
			Type: "video", Status: "active", Bid: 8.50, Budget: 18000,
			Metrics: Metrics{Impressions: 1600000, Clicks: 8200, Conversions: 530, Spend: 13050.25, CTR: 0.51},
		},
		{
			ID: 67892, Name: "Cart Abandoners", CampaignID: 12346, OrganizationID: 100048,
			Type: "display", Status: "paused", Bid: 3.10, Budget: 9000,
			Metrics: Metrics{Impressions: 150000, Clicks: 1200, Conversions: 85, Spend: 812.40, CTR: 0.80},
		},
	}
	for _, st := range strategies {
		s.strategies[st.ID] = st
	}
	s.nextStrategyID = 67892

	segments := []*AudienceSegment{
		{ID: 55501, Name: "In-Market Auto Shoppers", OrganizationID: 100048, Description: "Users researching vehicle purchases in the last 30 days", Size: 1250000, Status: "active"},
		{ID: 55502, Name: "Lapsed Purchasers", OrganizationID: 100048, Description: "Customers with no purchase in 90+ days", Size: 480000, Status: "active"},
	}
	for _, seg := range segments {
		s.segments[seg.ID] = seg
	}
	s.nextSegmentID = 55502

	creatives := []*Creative{
		{
			ID: 98765, Name: "Summer Hero Banner", AdvertiserID: 5001, Type: "banner",
			Status: "approved", Width: 728, Height: 90,
			Metrics: Metrics{Impressions: 1900000, Clicks: 7400, Conversions: 260, Spend: 0, CTR: 0.39},
		},
		{
			ID: 98766, Name: "Product Demo 15s", AdvertiserID: 5001, Type: "video",
			Status: "approved", Width: 1920, Height: 1080,
			Metrics: Metrics{Impressions: 1600000, Clicks: 8200, Conversions: 530, Spend: 0, CTR: 0.51},
		},
	}
	for _, cr := range creatives {
		s.creatives[cr.ID] = cr
	}
	s.nextCreativeID = 98766

	supply := []*SupplySource{
		{
			ID: 88888, Name: "Open Exchange Display", Type: "display", Status: "active", FillRate: 0.87,
			Metrics: Metrics{Impressions: 3100000, Clicks: 12400, Conversions: 520, Spend: 21400.00, CTR: 0.40},
		},
		{
			ID: 88889, Name: "Premium Video PMP", Type: "video", Status: "active", FillRate: 0.64,
			Metrics: Metrics{Impressions: 1200000, Clicks: 6100, Conversions: 380, Spend: 9800.00, CTR: 0.51},
		},
	}
	for _, ss := range supply {
		s.supplySources[ss.ID] = ss
	}
}
