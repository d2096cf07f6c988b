package fixtures

// Entity shapes mirror the JSON payloads the original MediaMath API mock
// returned from its tool handlers. All monetary values are USD.

// Organization is a top-level account.
type Organization struct {
	ID      int64  `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Status  string `json:"status" yaml:"status"`
	Country string `json:"country" yaml:"country"`
}

// User is a person with access to an organization.
type User struct {
	ID             int64    `json:"id" yaml:"id"`
	Username       string   `json:"username" yaml:"username"`
	Password       string   `json:"-" yaml:"password"`
	FirstName      string   `json:"firstName" yaml:"firstName"`
	LastName       string   `json:"lastName" yaml:"lastName"`
	OrganizationID int64    `json:"organizationId" yaml:"organizationId"`
	Role           string   `json:"role" yaml:"role"`
	Permissions    []string `json:"permissions" yaml:"permissions"`
	Active         bool     `json:"active" yaml:"active"`
}

// Metrics is the performance rollup attached to campaigns, strategies,
// creatives, and supply sources.
type Metrics struct {
	Impressions int64   `json:"impressions" yaml:"impressions"`
	Clicks      int64   `json:"clicks" yaml:"clicks"`
	Conversions int64   `json:"conversions" yaml:"conversions"`
	Spend       float64 `json:"spend" yaml:"spend"`
	CTR         float64 `json:"ctr" yaml:"ctr"`
}

// Campaign is an advertising campaign owned by an organization.
type Campaign struct {
	ID             int64   `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	OrganizationID int64   `json:"organizationId" yaml:"organizationId"`
	AdvertiserID   int64   `json:"advertiserId" yaml:"advertiserId"`
	Status         string  `json:"status" yaml:"status"`
	Budget         float64 `json:"budget" yaml:"budget"`
	SpendToDate    float64 `json:"spendToDate" yaml:"spendToDate"`
	StartDate      string  `json:"startDate" yaml:"startDate"`
	EndDate        string  `json:"endDate" yaml:"endDate"`
	Goal           string  `json:"goal" yaml:"goal"`
	Metrics        Metrics `json:"metrics" yaml:"metrics"`
}

// Strategy is a bidding strategy within a campaign.
type Strategy struct {
	ID             int64   `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	CampaignID     int64   `json:"campaignId" yaml:"campaignId"`
	OrganizationID int64   `json:"organizationId" yaml:"organizationId"`
	Type           string  `json:"type" yaml:"type"`
	Status         string  `json:"status" yaml:"status"`
	Bid            float64 `json:"bid" yaml:"bid"`
	Budget         float64 `json:"budget" yaml:"budget"`
	Metrics        Metrics `json:"metrics" yaml:"metrics"`
}

// AudienceSegment is a targetable set of users.
type AudienceSegment struct {
	ID             int64  `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	OrganizationID int64  `json:"organizationId" yaml:"organizationId"`
	Description    string `json:"description" yaml:"description"`
	Size           int64  `json:"size" yaml:"size"`
	Status         string `json:"status" yaml:"status"`
}

// Creative is an ad asset.
type Creative struct {
	ID           int64   `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	AdvertiserID int64   `json:"advertiserId" yaml:"advertiserId"`
	Type         string  `json:"type" yaml:"type"`
	Status       string  `json:"status" yaml:"status"`
	Width        int     `json:"width" yaml:"width"`
	Height       int     `json:"height" yaml:"height"`
	Metrics      Metrics `json:"metrics" yaml:"metrics"`
}

// SupplySource is an inventory source for ad serving.
type SupplySource struct {
	ID       int64   `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Type     string  `json:"type" yaml:"type"`
	Status   string  `json:"status" yaml:"status"`
	FillRate float64 `json:"fillRate" yaml:"fillRate"`
	Metrics  Metrics `json:"metrics" yaml:"metrics"`
}

// BudgetAllocation is the per-campaign budget rollup for an organization.
type BudgetAllocation struct {
	OrganizationID int64                    `json:"organizationId"`
	TotalBudget    float64                  `json:"totalBudget"`
	TotalSpend     float64                  `json:"totalSpend"`
	Campaigns      []CampaignBudgetSnapshot `json:"campaigns"`
}

// CampaignBudgetSnapshot is one row of a budget allocation report.
type CampaignBudgetSnapshot struct {
	CampaignID int64   `json:"campaignId"`
	Name       string  `json:"name"`
	Budget     float64 `json:"budget"`
	Spend      float64 `json:"spend"`
	Remaining  float64 `json:"remaining"`
}
