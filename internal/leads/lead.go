// Package leads turns raw place records into qualified, ranked sales leads.
package leads

import (
	"github.com/webgap/leadscout/internal/scorer"
	"github.com/webgap/leadscout/pkg/places"
)

// QualifiedLead is a place record that passed qualification, enriched with
// derived fields. Every lead has a validated, canonical mobile number and no
// website.
type QualifiedLead struct {
	places.Place
	Score           scorer.Tier `json:"lead_score"`
	NormalizedPhone string      `json:"normalized_phone"`
	PrimaryCategory string      `json:"primary_category"`
}

// Status is a pipeline stage for an accepted lead.
type Status string

// Pipeline stages in progression order.
const (
	StatusNew        Status = "New"
	StatusQualified  Status = "Qualified"
	StatusContacted  Status = "Contacted"
	StatusInterested Status = "Interested"
	StatusClosed     Status = "Closed"
)

// Statuses lists all pipeline stages in order.
var Statuses = []Status{StatusNew, StatusQualified, StatusContacted, StatusInterested, StatusClosed}

// StatusColors maps each stage to its display color.
var StatusColors = map[Status]string{
	StatusNew:        "#3b82f6",
	StatusQualified:  "#8b5cf6",
	StatusContacted:  "#f59e0b",
	StatusInterested: "#10b981",
	StatusClosed:     "#6b7280",
}

// Valid reports whether s is a known pipeline stage.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}
