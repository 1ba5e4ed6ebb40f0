package domain

import (
	"strings"
	"time"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// SubstringMatch reports whether needle occurs, ignoring case, in the haystacks
// joined by single spaces, so a query may span adjacent fields.
// An empty needle matches everything.
func SubstringMatch(needle string, haystacks ...string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(haystacks, " ")), strings.ToLower(needle))
}
