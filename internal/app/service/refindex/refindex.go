// Package refindex builds the per-run read-only lookup maps used to resolve
// foreign keys while assembling reports. Indexes are built once after the
// collection fetch and never mutated afterward.
package refindex

import (
	"strings"

	"github.com/fatflowers/siteexport/internal/models"
)

// UnknownName is the identity fallback when a member has neither a first
// nor a last name. Consumers key off the exact literal.
const UnknownName = "Unknown Name"

// MemberInfo is the denormalized identity payload stored per member id.
type MemberInfo struct {
	Email     string
	FirstName string
	LastName  string
	FullName  string
}

// Plans maps plan id to plan name. Records without an id are dropped so a
// downstream lookup miss falls through to the order's own planName field.
func Plans(plans []*models.Plan) map[string]string {
	idx := make(map[string]string, len(plans))
	for _, p := range plans {
		if p == nil || p.ID == "" {
			continue
		}
		idx[p.ID] = p.Name
	}
	return idx
}

// Members maps member id to denormalized identity. FullName is the trimmed
// "first last" concatenation, or UnknownName when both parts are empty.
func Members(members []*models.Member) map[string]MemberInfo {
	idx := make(map[string]MemberInfo, len(members))
	for _, m := range members {
		if m == nil || m.ID == "" {
			continue
		}
		idx[m.ID] = MemberInfo{
			Email:     m.LoginEmail,
			FirstName: m.FirstName(),
			LastName:  m.LastName(),
			FullName:  FullName(m.FirstName(), m.LastName()),
		}
	}
	return idx
}

// FullName joins first and last name, defaulting to UnknownName.
func FullName(first, last string) string {
	full := strings.TrimSpace(first + " " + last)
	if full == "" {
		return UnknownName
	}
	return full
}
