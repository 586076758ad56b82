package services

import (
	"testing"

	"busline/internal/domain"
)

func TestDashboardOverview(t *testing.T) {
	reg := NewDraftRegistry()
	DraftService{Registry: reg}.Create("u-1", nil)
	svc := DashboardService{Drafts: reg}

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleOperator, domain.RoleSupport} {
		ov, err := svc.Overview(role)
		if err != nil {
			t.Fatalf("%s: Overview error: %v", role, err)
		}
		if ov.Offers != 3 || ov.OpenDrafts != 1 || ov.Title == "" || len(ov.Sections) == 0 {
			t.Fatalf("%s: overview = %+v", role, ov)
		}
	}
	if _, err := svc.Overview(domain.RolePassenger); !domain.IsForbidden(err) {
		t.Fatalf("passenger: expected forbidden, got %v", err)
	}
}
