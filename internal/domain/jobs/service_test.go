package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"staffing/internal/domain/facilities"
	"staffing/internal/domain/interpreters"
)

type fakeStore struct {
	jobs     map[string]Job
	outreach map[string]Outreach
	seq      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: map[string]Job{}, outreach: map[string]Outreach{}}
}

func (f *fakeStore) Count(context.Context, ListFilter) (int, error) { return len(f.jobs), nil }

func (f *fakeStore) List(context.Context, ListFilter, int, int) ([]Job, error) {
	var out []Job
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return j, nil
}

func (f *fakeStore) Create(_ context.Context, j Job) (string, error) {
	f.seq++
	j.ID = fmt.Sprintf("j%d", f.seq)
	f.jobs[j.ID] = j
	return j.ID, nil
}

func (f *fakeStore) Save(_ context.Context, j Job, expectedStatus string) error {
	current, ok := f.jobs[j.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Status != expectedStatus {
		return ErrStatusConflict
	}
	f.jobs[j.ID] = j
	return nil
}

func (f *fakeStore) CreateOutreach(_ context.Context, jobID, interpreterID string) (string, error) {
	id := jobID + "-" + interpreterID
	f.outreach[id] = Outreach{ID: id, JobID: jobID, InterpreterID: interpreterID, Status: OutreachSent}
	return id, nil
}

func (f *fakeStore) GetOutreach(_ context.Context, jobID, outreachID string) (Outreach, error) {
	o, ok := f.outreach[outreachID]
	if !ok || o.JobID != jobID {
		return Outreach{}, ErrOutreachNotFound
	}
	return o, nil
}

func (f *fakeStore) ListOutreach(_ context.Context, jobID string) ([]Outreach, error) {
	var out []Outreach
	for _, o := range f.outreach {
		if o.JobID == jobID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) SetOutreachStatus(_ context.Context, outreachID, status string) error {
	o := f.outreach[outreachID]
	o.Status = status
	f.outreach[outreachID] = o
	return nil
}

func (f *fakeStore) WithdrawOutreach(_ context.Context, jobID string) error {
	for id, o := range f.outreach {
		if o.JobID == jobID && o.Status == OutreachSent {
			o.Status = OutreachWithdrawn
			f.outreach[id] = o
		}
	}
	return nil
}

type fakeFacilities map[string]facilities.Facility

func (f fakeFacilities) Get(_ context.Context, id string) (facilities.Facility, error) {
	item, ok := f[id]
	if !ok {
		return facilities.Facility{}, facilities.ErrNotFound
	}
	return item, nil
}

type fakeInterpreters map[string]interpreters.Interpreter

func (f fakeInterpreters) Get(_ context.Context, id string) (interpreters.Interpreter, error) {
	item, ok := f[id]
	if !ok {
		return interpreters.Interpreter{}, interpreters.ErrNotFound
	}
	return item, nil
}

type fixedMileage float64

func (m fixedMileage) MileageRate(context.Context) float64 { return float64(m) }

func newTestService(store *fakeStore) *Service {
	return NewService(store,
		fakeFacilities{
			"f1":     {ID: "f1", Active: true, BusinessRate: 100, AfterHoursRate: 150},
			"closed": {ID: "closed"},
		},
		fakeInterpreters{
			"i1": {ID: "i1", Active: true, Languages: []string{"Spanish"}, BusinessRate: 40, AfterHoursRate: 60},
			"i2": {ID: "i2", Active: true, Languages: []string{"spanish"}, BusinessRate: 45, AfterHoursRate: 65},
			"i3": {ID: "i3", Active: true, Languages: []string{"French"}},
		},
		fixedMileage(0.7), 2)
}

func TestCreatePricesFromFacilityDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	priced, err := svc.Create(context.Background(), Job{FacilityID: "f1", Language: "Spanish", StartTime: "09:00", EndTime: "17:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if priced.Job.Status != StatusPending {
		t.Fatalf("expected pending, got %s", priced.Job.Status)
	}
	if priced.Job.Totals.FacilityBillableTotal != 800 {
		t.Fatalf("expected facility total 800, got %v", priced.Job.Totals.FacilityBillableTotal)
	}
	if store.jobs[priced.Job.ID].FacilityRates.BusinessRate != 100 {
		t.Fatalf("expected stored facility rate 100, got %+v", store.jobs[priced.Job.ID].FacilityRates)
	}
}

func TestCreateWithInterpreterConfirms(t *testing.T) {
	svc := newTestService(newFakeStore())

	priced, err := svc.Create(context.Background(), Job{FacilityID: "f1", InterpreterID: "i1", Language: "Spanish", StartTime: "09:00", EndTime: "10:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if priced.Job.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", priced.Job.Status)
	}
	if priced.Quote.Hours.BillableHours != 2 {
		t.Fatalf("expected 2 billable hours, got %v", priced.Quote.Hours.BillableHours)
	}
	if priced.Job.Totals.InterpreterBillableTotal != 80 {
		t.Fatalf("expected interpreter total 80, got %v", priced.Job.Totals.InterpreterBillableTotal)
	}
}

func TestCreateRejectsInactiveFacilityAndWrongLanguage(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, Job{FacilityID: "closed", StartTime: "09:00", EndTime: "10:00"}); !errors.Is(err, ErrFacilityInactive) {
		t.Fatalf("expected ErrFacilityInactive, got %v", err)
	}
	_, err := svc.Create(ctx, Job{FacilityID: "f1", InterpreterID: "i3", Language: "Spanish", StartTime: "09:00", EndTime: "10:00"})
	if !errors.Is(err, ErrInterpreterBusy) {
		t.Fatalf("expected ErrInterpreterBusy, got %v", err)
	}
}

func TestTrilingualUpliftOnlyRaisesFacilityTotal(t *testing.T) {
	svc := newTestService(newFakeStore())

	priced, err := svc.QuoteDraft(context.Background(), Job{
		FacilityID: "f1", InterpreterID: "i1", Language: "Spanish",
		StartTime: "09:00", EndTime: "11:00", Trilingual: true, TrilingualUplift: 10,
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if priced.Job.Totals.FacilityBillableTotal != 220 {
		t.Fatalf("expected facility total 220, got %v", priced.Job.Totals.FacilityBillableTotal)
	}
	if priced.Job.Totals.InterpreterBillableTotal != 80 {
		t.Fatalf("expected interpreter total 80, got %v", priced.Job.Totals.InterpreterBillableTotal)
	}
}

func TestOutreachAcceptConfirmsAndWithdrawsOthers(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, Job{FacilityID: "f1", Language: "Spanish", StartTime: "09:00", EndTime: "12:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	offers, err := svc.StartOutreach(ctx, created.Job.ID, []string{"i1", "i2"})
	if err != nil {
		t.Fatalf("outreach: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offers))
	}
	if store.jobs[created.Job.ID].Status != StatusOutreach {
		t.Fatalf("expected outreach, got %s", store.jobs[created.Job.ID].Status)
	}

	priced, err := svc.RespondOutreach(ctx, created.Job.ID, created.Job.ID+"-i2", true)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if priced.Job.Status != StatusConfirmed || priced.Job.InterpreterID != "i2" {
		t.Fatalf("expected confirmed with i2, got %s/%s", priced.Job.Status, priced.Job.InterpreterID)
	}
	if priced.Job.Totals.InterpreterBillableTotal != 135 {
		t.Fatalf("expected interpreter total 135, got %v", priced.Job.Totals.InterpreterBillableTotal)
	}
	if got := store.outreach[created.Job.ID+"-i2"].Status; got != OutreachAccepted {
		t.Fatalf("expected accepted, got %s", got)
	}
	if got := store.outreach[created.Job.ID+"-i1"].Status; got != OutreachWithdrawn {
		t.Fatalf("expected withdrawn, got %s", got)
	}
}

func TestOutreachLastDeclineReturnsToPending(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, _ := svc.Create(ctx, Job{FacilityID: "f1", Language: "Spanish", StartTime: "09:00", EndTime: "12:00"})
	if _, err := svc.StartOutreach(ctx, created.Job.ID, []string{"i1"}); err != nil {
		t.Fatalf("outreach: %v", err)
	}
	if _, err := svc.RespondOutreach(ctx, created.Job.ID, created.Job.ID+"-i1", false); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if got := store.jobs[created.Job.ID].Status; got != StatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
	if _, err := svc.RespondOutreach(ctx, created.Job.ID, created.Job.ID+"-i1", true); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateLockedAfterCancel(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	created, _ := svc.Create(ctx, Job{FacilityID: "f1", StartTime: "09:00", EndTime: "12:00"})
	if _, err := svc.Cancel(ctx, created.Job.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Update(ctx, created.Job.ID, Job{FacilityID: "f1", StartTime: "09:00", EndTime: "13:00"}); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, err := svc.Cancel(ctx, created.Job.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateRepricesAndKeepsAssignment(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, _ := svc.Create(ctx, Job{FacilityID: "f1", InterpreterID: "i1", Language: "Spanish", StartTime: "09:00", EndTime: "12:00"})
	priced, err := svc.Update(ctx, created.Job.ID, Job{FacilityID: "f1", Language: "Spanish", StartTime: "16:00", EndTime: "18:00"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if priced.Job.InterpreterID != "i1" || priced.Job.Status != StatusConfirmed {
		t.Fatalf("expected assignment kept, got %+v", priced.Job)
	}
	// one business hour at 100 plus one after hour at 150
	if got := store.jobs[created.Job.ID].Totals.FacilityBillableTotal; got != 250 {
		t.Fatalf("expected facility total 250, got %v", got)
	}
}

func TestUpdateRejectsBadTime(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	created, _ := svc.Create(ctx, Job{FacilityID: "f1", StartTime: "09:00", EndTime: "12:00"})
	_, err := svc.Update(ctx, created.Job.ID, Job{FacilityID: "f1", StartTime: "9am", EndTime: "12:00"})
	if err == nil {
		t.Fatalf("expected error for bad time")
	}
}
