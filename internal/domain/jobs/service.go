package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"staffing/internal/domain/facilities"
	"staffing/internal/domain/interpreters"
	"staffing/internal/domain/rates"
)

type FacilityLookup interface {
	Get(ctx context.Context, id string) (facilities.Facility, error)
}

type InterpreterLookup interface {
	Get(ctx context.Context, id string) (interpreters.Interpreter, error)
}

type MileageRateSource interface {
	MileageRate(ctx context.Context) float64
}

type Service struct {
	store               StoreAPI
	facilities          FacilityLookup
	interpreters        InterpreterLookup
	mileage             MileageRateSource
	defaultMinimumHours float64
	quoter              rates.Quoter
}

func NewService(store StoreAPI, facilityLookup FacilityLookup, interpreterLookup InterpreterLookup, mileage MileageRateSource, defaultMinimumHours float64) *Service {
	return &Service{
		store:               store,
		facilities:          facilityLookup,
		interpreters:        interpreterLookup,
		mileage:             mileage,
		defaultMinimumHours: defaultMinimumHours,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Job, int, error) {
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (Job, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Outreach(ctx context.Context, jobID string) ([]Outreach, error) {
	if _, err := s.store.Get(ctx, jobID); err != nil {
		return nil, err
	}
	return s.store.ListOutreach(ctx, jobID)
}

// price fills rate defaults and recomputes the stored totals of job.
func (s *Service) price(ctx context.Context, job *Job) (rates.BillableTotal, error) {
	facility, err := s.facilities.Get(ctx, job.FacilityID)
	if err != nil {
		return rates.BillableTotal{}, err
	}
	ApplyFacilityDefaults(job, facility)

	var interpreter *interpreters.Interpreter
	if job.InterpreterID != "" {
		found, err := s.interpreters.Get(ctx, job.InterpreterID)
		if err != nil {
			return rates.BillableTotal{}, err
		}
		ApplyInterpreterDefaults(job, found)
		interpreter = &found
	}

	terms := Terms(*job, facility, interpreter, s.mileage.MileageRate(ctx), s.defaultMinimumHours)
	total, err := s.quoter.Quote(terms)
	if err != nil {
		return rates.BillableTotal{}, err
	}
	job.Totals = total.Projection()
	return total, nil
}

// QuoteDraft prices an unsaved job.
func (s *Service) QuoteDraft(ctx context.Context, job Job) (Priced, error) {
	normalize(&job)
	total, err := s.price(ctx, &job)
	if err != nil {
		return Priced{}, err
	}
	return Priced{Job: job, Quote: total}, nil
}

// Quote prices a stored job against the current settings without saving.
func (s *Service) Quote(ctx context.Context, id string) (Priced, error) {
	job, err := s.store.Get(ctx, id)
	if err != nil {
		return Priced{}, err
	}
	total, err := s.price(ctx, &job)
	if err != nil {
		return Priced{}, err
	}
	return Priced{Job: job, Quote: total}, nil
}

func (s *Service) Create(ctx context.Context, job Job) (Priced, error) {
	normalize(&job)
	facility, err := s.facilities.Get(ctx, job.FacilityID)
	if err != nil {
		return Priced{}, err
	}
	if !facility.Active {
		return Priced{}, ErrFacilityInactive
	}

	job.Status = StatusPending
	if job.InterpreterID != "" {
		if _, err := s.eligibleInterpreter(ctx, job.InterpreterID, job.Language); err != nil {
			return Priced{}, err
		}
		job.Status = StatusConfirmed
	}

	total, err := s.price(ctx, &job)
	if err != nil {
		return Priced{}, err
	}
	id, err := s.store.Create(ctx, job)
	if err != nil {
		return Priced{}, err
	}
	job.ID = id
	return Priced{Job: job, Quote: total}, nil
}

// Update replaces the editable fields of a job and reprices it. Status and
// interpreter assignment only change through the workflow actions.
func (s *Service) Update(ctx context.Context, id string, changes Job) (Priced, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Priced{}, err
	}
	if !Editable(current.Status) {
		return Priced{}, ErrLocked
	}

	normalize(&changes)
	changes.ID = current.ID
	changes.Status = current.Status
	changes.InterpreterID = current.InterpreterID
	changes.CreatedAt = current.CreatedAt

	total, err := s.price(ctx, &changes)
	if err != nil {
		return Priced{}, err
	}
	if err := s.store.Save(ctx, changes, current.Status); err != nil {
		return Priced{}, err
	}
	return Priced{Job: changes, Quote: total}, nil
}

// StartOutreach records an offer to each interpreter and moves the job into outreach.
func (s *Service) StartOutreach(ctx context.Context, jobID string, interpreterIDs []string) ([]Outreach, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(job.Status, StatusOutreach); err != nil {
		return nil, err
	}

	for _, interpreterID := range interpreterIDs {
		if _, err := s.eligibleInterpreter(ctx, interpreterID, job.Language); err != nil {
			return nil, fmt.Errorf("interpreter %s: %w", interpreterID, err)
		}
	}
	for _, interpreterID := range interpreterIDs {
		if _, err := s.store.CreateOutreach(ctx, job.ID, interpreterID); err != nil {
			return nil, err
		}
	}

	if job.Status != StatusOutreach {
		previous := job.Status
		job.Status = StatusOutreach
		if err := s.store.Save(ctx, job, previous); err != nil {
			return nil, err
		}
	}
	return s.store.ListOutreach(ctx, job.ID)
}

// RespondOutreach records an interpreter's answer. Accepting confirms the job
// with that interpreter; the last open offer being declined sends the job back
// to pending.
func (s *Service) RespondOutreach(ctx context.Context, jobID, outreachID string, accept bool) (Priced, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return Priced{}, err
	}
	offer, err := s.store.GetOutreach(ctx, jobID, outreachID)
	if err != nil {
		return Priced{}, err
	}
	if job.Status != StatusOutreach || offer.Status != OutreachSent {
		return Priced{}, fmt.Errorf("%w: offer is %s, job is %s", ErrInvalidTransition, offer.Status, job.Status)
	}

	if accept {
		priced, err := s.Confirm(ctx, jobID, offer.InterpreterID)
		if err != nil {
			return Priced{}, err
		}
		if err := s.store.SetOutreachStatus(ctx, offer.ID, OutreachAccepted); err != nil {
			return Priced{}, err
		}
		return priced, nil
	}

	if err := s.store.SetOutreachStatus(ctx, offer.ID, OutreachDeclined); err != nil {
		return Priced{}, err
	}
	offers, err := s.store.ListOutreach(ctx, jobID)
	if err != nil {
		return Priced{}, err
	}
	if !anyOpen(offers, offer.ID) {
		job.Status = StatusPending
		if err := s.store.Save(ctx, job, StatusOutreach); err != nil {
			return Priced{}, err
		}
	}
	return Priced{Job: job}, nil
}

// Confirm assigns the interpreter, prices the job with their rates and
// withdraws any offers still open.
func (s *Service) Confirm(ctx context.Context, jobID, interpreterID string) (Priced, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return Priced{}, err
	}
	if err := checkTransition(job.Status, StatusConfirmed); err != nil {
		return Priced{}, err
	}
	if interpreterID == "" {
		interpreterID = job.InterpreterID
	}
	if interpreterID == "" {
		return Priced{}, ErrNoInterpreter
	}
	if _, err := s.eligibleInterpreter(ctx, interpreterID, job.Language); err != nil {
		return Priced{}, err
	}

	previous := job.Status
	if job.InterpreterID != interpreterID {
		// a different interpreter brings their own standing rates
		job.InterpreterRates = rates.PartyRates{RateAdjustment: job.InterpreterRates.RateAdjustment}
	}
	job.InterpreterID = interpreterID
	job.Status = StatusConfirmed
	total, err := s.price(ctx, &job)
	if err != nil {
		return Priced{}, err
	}
	if err := s.store.Save(ctx, job, previous); err != nil {
		return Priced{}, err
	}
	if previous == StatusOutreach {
		if err := s.store.WithdrawOutreach(ctx, job.ID); err != nil {
			slog.Warn("withdraw outreach failed", "job_id", job.ID, "err", err)
		}
	}
	return Priced{Job: job, Quote: total}, nil
}

func (s *Service) Cancel(ctx context.Context, jobID string) (Job, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if err := checkTransition(job.Status, StatusCancelled); err != nil {
		return Job{}, err
	}
	previous := job.Status
	job.Status = StatusCancelled
	if err := s.store.Save(ctx, job, previous); err != nil {
		return Job{}, err
	}
	if previous == StatusOutreach {
		if err := s.store.WithdrawOutreach(ctx, job.ID); err != nil {
			slog.Warn("withdraw outreach failed", "job_id", job.ID, "err", err)
		}
	}
	return job, nil
}

func (s *Service) eligibleInterpreter(ctx context.Context, id, language string) (interpreters.Interpreter, error) {
	interpreter, err := s.interpreters.Get(ctx, id)
	if err != nil {
		return interpreters.Interpreter{}, err
	}
	if !interpreter.Active || (language != "" && !interpreter.Speaks(language)) {
		return interpreters.Interpreter{}, ErrInterpreterBusy
	}
	return interpreter, nil
}

func anyOpen(offers []Outreach, exceptID string) bool {
	for _, o := range offers {
		if o.ID != exceptID && o.Status == OutreachSent {
			return true
		}
	}
	return false
}

func normalize(job *Job) {
	job.Language = strings.TrimSpace(job.Language)
	job.StartTime = strings.TrimSpace(job.StartTime)
	job.EndTime = strings.TrimSpace(job.EndTime)
	job.Notes = strings.TrimSpace(job.Notes)
	job.Mileage = rates.NonNegative(job.Mileage)
	job.TravelTimeHours = rates.NonNegative(job.TravelTimeHours)
	job.Parking = rates.NonNegative(job.Parking)
	job.Tolls = rates.NonNegative(job.Tolls)
	job.MiscFee = rates.NonNegative(job.MiscFee)
	if !job.Trilingual {
		job.TrilingualUplift = 0
	}
}
