package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/pkg/clock"
	"landreg-portal/internal/pkg/latency"
)

func TestCreateAssignsPerTypeSequence(t *testing.T) {
	svc, _, _ := newRegistrationService(t, clock.NewStub(fixedNow))
	ctx := context.Background()

	want := []struct {
		draft *domain.RegistrationDraft
		id    string
	}{
		{landDraft("2.5"), "LND-2025-001"},
		{landDraft("1"), "LND-2025-002"},
		{permitDraft(domain.TypeDevelopment, "50000"), "DEV-2025-001"},
		{permitDraft(domain.TypeBuilding, "120000"), "BLD-2025-001"},
		{landDraft("0.75"), "LND-2025-003"},
	}
	for _, w := range want {
		reg, err := svc.Create(ctx, w.draft, "deo_officer")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if reg.ID != w.id {
			t.Errorf("Create() id = %s, want %s", reg.ID, w.id)
		}
	}
}

func TestCreateInitialisesLifecycle(t *testing.T) {
	svc, _, _ := newRegistrationService(t, clock.NewStub(fixedNow))

	reg, err := svc.Create(context.Background(), landDraft("2.5"), "ama")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if reg.Status != domain.StatusPending {
		t.Errorf("Status = %q, want Pending Review", reg.Status)
	}
	if !reg.SubmissionDate.Equal(fixedNow) {
		t.Errorf("SubmissionDate = %v, want %v", reg.SubmissionDate, fixedNow)
	}
	if reg.SubmittedBy != "ama" {
		t.Errorf("SubmittedBy = %q, want ama", reg.SubmittedBy)
	}
	if len(reg.StatusHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(reg.StatusHistory))
	}
	first := reg.StatusHistory[0]
	if first.Status != domain.StatusPending || first.Notes != SubmittedNote || !first.Date.Equal(fixedNow) {
		t.Errorf("history[0] = %+v", first)
	}
	if reg.Location.Region != domain.DefaultRegion || reg.Location.District != domain.DefaultDistrict {
		t.Errorf("location defaults not applied: %+v", reg.Location)
	}
	if reg.SizeAcres != 2.5 {
		t.Errorf("SizeAcres = %v, want 2.5", reg.SizeAcres)
	}
	if reg.Documents[0].StorageRef != "mock://documents/id-1" {
		t.Errorf("StorageRef = %q", reg.Documents[0].StorageRef)
	}
}

func TestCreateSkipsTakenSequence(t *testing.T) {
	svc, _, _ := newRegistrationService(t, clock.NewStub(fixedNow))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, landDraft("1"), "deo"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if ok, err := svc.Delete(ctx, "LND-2025-001"); err != nil || !ok {
		t.Fatalf("Delete() = %v, %v", ok, err)
	}

	reg, err := svc.Create(ctx, landDraft("1"), "deo")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if reg.ID != "LND-2025-004" {
		t.Errorf("Create() id = %s, want LND-2025-004", reg.ID)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft func() *domain.RegistrationDraft
		field string
	}{
		{"non-numeric size", func() *domain.RegistrationDraft { return landDraft("abc") }, "sizeAcres"},
		{"zero size", func() *domain.RegistrationDraft { return landDraft("0") }, "sizeAcres"},
		{"missing land use", func() *domain.RegistrationDraft {
			d := landDraft("1")
			d.LandUse = ""
			return d
		}, "landUse"},
		{"bad ghana card", func() *domain.RegistrationDraft {
			d := landDraft("1")
			d.Applicant.IDNumber = "GHA-1234"
			return d
		}, "applicant.idNumber"},
		{"missing town", func() *domain.RegistrationDraft {
			d := landDraft("1")
			d.Location.Town = "  "
			return d
		}, "location.town"},
		{"missing cost", func() *domain.RegistrationDraft { return permitDraft(domain.TypeBuilding, "") }, "permitDetails.estimatedCost"},
		{"non-numeric cost", func() *domain.RegistrationDraft { return permitDraft(domain.TypeDevelopment, "lots") }, "permitDetails.estimatedCost"},
		{"missing structure", func() *domain.RegistrationDraft {
			d := permitDraft(domain.TypeBuilding, "100")
			d.PermitDetails.ProposedStructure = ""
			return d
		}, "permitDetails.proposedStructure"},
		{"unknown type", func() *domain.RegistrationDraft {
			d := landDraft("1")
			d.Type = "Farm"
			return d
		}, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newRegistrationService(t, clock.NewStub(fixedNow))

			_, err := svc.Create(context.Background(), tt.draft(), "deo")
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create() error %T is not a *ValidationError", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("Fields = %v, want key %q", verr.Fields, tt.field)
			}
			if list, _ := repo.List(context.Background()); len(list) != 0 {
				t.Errorf("store holds %d records after failed create", len(list))
			}
		})
	}
}

func TestUpdateStatusBuildsHistory(t *testing.T) {
	clk := clock.NewStub(fixedNow)
	svc, _, notify := newRegistrationService(t, clk)
	ctx := context.Background()

	reg, err := svc.Create(ctx, landDraft("2"), "deo")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	clk.Advance(24 * time.Hour)
	if _, err := svc.UpdateStatus(ctx, reg.ID, domain.StatusQueried, "Boundary markers unclear"); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	clk.Advance(24 * time.Hour)
	got, err := svc.UpdateStatus(ctx, reg.ID, domain.StatusApproved, "  Revised plan accepted  ")
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	if got.Status != domain.StatusApproved {
		t.Errorf("Status = %q, want Approved", got.Status)
	}
	wantHistory := []domain.StatusEntry{
		{Status: domain.StatusApproved, Date: fixedNow.Add(48 * time.Hour), Notes: "Revised plan accepted"},
		{Status: domain.StatusQueried, Date: fixedNow.Add(24 * time.Hour), Notes: "Boundary markers unclear"},
		{Status: domain.StatusPending, Date: fixedNow, Notes: SubmittedNote},
	}
	if len(got.StatusHistory) != len(wantHistory) {
		t.Fatalf("history length = %d, want %d", len(got.StatusHistory), len(wantHistory))
	}
	for i, w := range wantHistory {
		e := got.StatusHistory[i]
		if e.Status != w.Status || e.Notes != w.Notes || !e.Date.Equal(w.Date) {
			t.Errorf("history[%d] = %+v, want %+v", i, e, w)
		}
	}
	if len(notify.statuses) != 2 {
		t.Errorf("notifier saw %d status changes, want 2", len(notify.statuses))
	}
}

func TestUpdateStatusRejectsBadInput(t *testing.T) {
	svc, _, _ := newRegistrationService(t, clock.NewStub(fixedNow))
	ctx := context.Background()
	reg, err := svc.Create(ctx, landDraft("2"), "deo")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name   string
		id     string
		status domain.Status
		notes  string
		want   error
	}{
		{"blank notes", reg.ID, domain.StatusApproved, "   ", domain.ErrValidation},
		{"unknown status", reg.ID, domain.Status("Archived"), "done", domain.ErrValidation},
		{"unknown id", "LND-2025-999", domain.StatusApproved, "ok", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(ctx, tt.id, tt.status, tt.notes)
			if !errors.Is(err, tt.want) {
				t.Fatalf("UpdateStatus() error = %v, want %v", err, tt.want)
			}
		})
	}

	stored, err := svc.Get(ctx, reg.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Status != domain.StatusPending || len(stored.StatusHistory) != 1 {
		t.Errorf("record changed by rejected updates: %+v", stored)
	}
}

func TestDelete(t *testing.T) {
	svc, _, _ := newRegistrationService(t, clock.NewStub(fixedNow))
	ctx := context.Background()
	reg, err := svc.Create(ctx, landDraft("2"), "deo")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if ok, err := svc.Delete(ctx, "LND-2025-404"); err != nil || ok {
		t.Fatalf("Delete(missing) = %v, %v; want false, nil", ok, err)
	}
	if ok, err := svc.Delete(ctx, reg.ID); err != nil || !ok {
		t.Fatalf("Delete() = %v, %v; want true, nil", ok, err)
	}
	if _, err := svc.Get(ctx, reg.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if ok, _ := svc.Delete(ctx, reg.ID); ok {
		t.Error("second Delete() reported true")
	}
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	svc, _, _ := newRegistrationService(t, clock.NewStub(fixedNow))
	ctx := context.Background()
	reg, err := svc.Create(ctx, landDraft("2"), "deo")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	reg.Status = domain.StatusRejected
	reg.StatusHistory[0].Notes = "tampered"
	reg.Documents[0].Name = "tampered.pdf"

	stored, err := svc.Get(ctx, reg.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Status != domain.StatusPending || stored.StatusHistory[0].Notes != SubmittedNote || stored.Documents[0].Name != "site_plan.pdf" {
		t.Errorf("stored record was mutated through a returned copy: %+v", stored)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _ := newRegistrationService(t, clock.NewStub(fixedNow))
	ctx := context.Background()
	for _, d := range []*domain.RegistrationDraft{landDraft("1"), permitDraft(domain.TypeBuilding, "10")} {
		if _, err := svc.Create(ctx, d, "deo"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	regs, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(regs) != 2 || regs[0].ID != "BLD-2025-001" || regs[1].ID != "LND-2025-001" {
		t.Errorf("List() order = %v", ids(regs))
	}
}

func TestAbandonedRequestLeavesStoreUntouched(t *testing.T) {
	repo := newRepoForLatency(t)
	svc := NewRegistrationService(repo, clock.NewStub(fixedNow), &seqIDs{}, latency.New(time.Hour, 0), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Create(ctx, landDraft("1"), "deo"); !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("Create() error = %v, want ErrTransient", err)
	}
	if ok, err := svc.Delete(ctx, "LND-2025-001"); !errors.Is(err, domain.ErrTransient) || ok {
		t.Fatalf("Delete() = %v, %v; want false, ErrTransient", ok, err)
	}
	if list, _ := repo.List(context.Background()); len(list) != 1 {
		t.Errorf("store holds %d records, want 1", len(list))
	}
}

func TestInjectedFailureIsTransient(t *testing.T) {
	svc := NewRegistrationService(newRepoForLatency(t), clock.NewStub(fixedNow), &seqIDs{}, latency.New(0, 1), nil, nil)

	if _, err := svc.List(context.Background()); !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("List() error = %v, want ErrTransient", err)
	}
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	svc, _, _ := newRegistrationService(t, clock.NewStub(fixedNow))
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	idsCh := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg, err := svc.Create(ctx, landDraft("1"), "deo")
			if err != nil {
				t.Errorf("Create() error = %v", err)
				return
			}
			idsCh <- reg.ID
		}()
	}
	wg.Wait()
	close(idsCh)

	seen := make(map[string]bool)
	for id := range idsCh {
		if seen[id] {
			t.Errorf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct ids, want %d", len(seen), n)
	}
}

func TestApplyQuery(t *testing.T) {
	day := func(d int) time.Time { return fixedNow.AddDate(0, 0, d) }
	regs := []*domain.Registration{
		{ID: "LND-2025-003", Type: domain.TypeLand, Applicant: domain.Applicant{FullName: "Yaa Dufie"}, Location: domain.Location{Town: "Krobo"}, Status: domain.StatusQueried, SubmissionDate: day(3), SizeAcres: 5},
		{ID: "LND-2025-002", Type: domain.TypeLand, Applicant: domain.Applicant{FullName: "Kwabena Asante"}, Location: domain.Location{Town: "Tanoso"}, Status: domain.StatusPending, SubmissionDate: day(2), SizeAcres: 0.8},
		{ID: "DEV-2025-001", Type: domain.TypeDevelopment, Applicant: domain.Applicant{FullName: "Ama Serwaa"}, Location: domain.Location{Town: "Tuobodom"}, Status: domain.StatusApproved, SubmissionDate: day(1)},
	}

	tests := []struct {
		name string
		q    ListQuery
		want []string
	}{
		{"no query keeps order", ListQuery{}, []string{"LND-2025-003", "LND-2025-002", "DEV-2025-001"}},
		{"term matches town", ListQuery{Term: "tano"}, []string{"LND-2025-002"}},
		{"term matches applicant", ListQuery{Term: "SERWAA"}, []string{"DEV-2025-001"}},
		{"term matches id", ListQuery{Term: "lnd-2025"}, []string{"LND-2025-003", "LND-2025-002"}},
		{"status filter", ListQuery{Status: domain.StatusQueried}, []string{"LND-2025-003"}},
		{"type filter", ListQuery{Type: domain.TypeDevelopment}, []string{"DEV-2025-001"}},
		{"sort by applicant", ListQuery{SortBy: SortByApplicant}, []string{"DEV-2025-001", "LND-2025-002", "LND-2025-003"}},
		{"sort by town desc", ListQuery{SortBy: SortByTown, Desc: true}, []string{"DEV-2025-001", "LND-2025-002", "LND-2025-003"}},
		{"sort by date", ListQuery{SortBy: SortBySubmissionDate}, []string{"DEV-2025-001", "LND-2025-002", "LND-2025-003"}},
		{"sort by size desc", ListQuery{SortBy: SortBySize, Desc: true}, []string{"LND-2025-003", "LND-2025-002", "DEV-2025-001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ApplyQuery(regs, tt.q))
			if len(got) != len(tt.want) {
				t.Fatalf("ApplyQuery() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ApplyQuery() = %v, want %v", got, tt.want)
				}
			}
		})
	}

	if regs[0].ID != "LND-2025-003" {
		t.Error("ApplyQuery reordered its input")
	}
}

func TestParseSortField(t *testing.T) {
	if got := ParseSortField("town"); got != SortByTown {
		t.Errorf("ParseSortField(town) = %q", got)
	}
	if got := ParseSortField("password"); got != "" {
		t.Errorf("ParseSortField(password) = %q, want empty", got)
	}
}

func ids(regs []*domain.Registration) []string {
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = r.ID
	}
	return out
}
