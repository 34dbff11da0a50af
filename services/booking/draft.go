package booking

import (
	"time"

	"carwash/models"
)

// Stage is the position of a draft in the booking flow.
type Stage string

const (
	StageEmpty             Stage = "Empty"
	StagePackageChosen     Stage = "PackageChosen"
	StageCarDetailsPending Stage = "CarDetailsPending"
	StageScheduling        Stage = "Scheduling"
	StageReviewing         Stage = "Reviewing"
	StageSubmitted         Stage = "Submitted"
	StageFailed            Stage = "Failed"
)

// ResetMode selects what Reset keeps.
type ResetMode string

const (
	// ResetAll clears the package, the car and the dates.
	ResetAll ResetMode = "all"
	// ResetAddAnotherCar keeps the package and clears the car and the dates.
	ResetAddAnotherCar ResetMode = "addAnotherCar"
)

// CarDetailsUpdate is a partial update; nil fields are left unchanged.
type CarDetailsUpdate struct {
	Make               *string `json:"carMake"`
	Model              *string `json:"carModel"`
	RegistrationNumber *string `json:"registrationNumber"`
	Color              *string `json:"color"`
	AdditionalNotes    *string `json:"additionalNotes"`
}

// Draft is an in-progress booking for one car. It is not safe for concurrent use;
// callers serialize operations on a draft.
type Draft struct {
	Owner      string            `json:"owner"`
	Package    *models.Package   `json:"package,omitempty"`
	Car        models.CarDetails `json:"car"`
	Dates      []time.Time       `json:"dates"`
	Stage      Stage             `json:"stage"`
	ScheduleID string            `json:"scheduleId,omitempty"`
	LastError  string            `json:"lastError,omitempty"`
}

func NewDraft(owner string) *Draft {
	return &Draft{Owner: owner, Dates: []time.Time{}, Stage: StageEmpty}
}

func (d *Draft) locked() bool {
	return d.Stage == StageReviewing || d.Stage == StageSubmitted
}

// settle derives the editing stage from the draft contents.
func (d *Draft) settle() {
	switch {
	case d.Package == nil:
		d.Stage = StageEmpty
	case d.Car.Complete():
		d.Stage = StageScheduling
	case carEmpty(d.Car):
		d.Stage = StagePackageChosen
	default:
		d.Stage = StageCarDetailsPending
	}
}

func carEmpty(c models.CarDetails) bool {
	return c.Make == "" && c.Model == "" && c.RegistrationNumber == "" && c.Color == "" && c.AdditionalNotes == ""
}

// SelectPackage replaces the package and discards every proposed date.
func (d *Draft) SelectPackage(pkg models.Package) error {
	if d.locked() {
		return ErrDraftLocked
	}
	p := pkg
	d.Package = &p
	d.Dates = []time.Time{}
	d.settle()
	return nil
}

// SetCarDetails applies u; the draft reaches Scheduling once a package is chosen and
// the four required fields are filled.
func (d *Draft) SetCarDetails(u CarDetailsUpdate) error {
	if d.locked() {
		return ErrDraftLocked
	}
	if u.Make != nil {
		d.Car.Make = *u.Make
	}
	if u.Model != nil {
		d.Car.Model = *u.Model
	}
	if u.RegistrationNumber != nil {
		d.Car.RegistrationNumber = *u.RegistrationNumber
	}
	if u.Color != nil {
		d.Car.Color = *u.Color
	}
	if u.AdditionalNotes != nil {
		d.Car.AdditionalNotes = *u.AdditionalNotes
	}
	d.settle()
	if d.Stage == StagePackageChosen {
		d.Stage = StageCarDetailsPending
	}
	return nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, day := t.In(loc).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// ProposeDate appends date and returns the remaining quota. Window checks are made
// on calendar days in now's location.
func (d *Draft) ProposeDate(date, now time.Time) (int, error) {
	if d.locked() {
		return d.RemainingQuota(), ErrDraftLocked
	}
	if d.Package == nil {
		return 0, ErrNoPackageSelected
	}
	if !d.Car.Complete() {
		return d.RemainingQuota(), ErrCarDetailsIncomplete
	}

	loc := now.Location()
	today := startOfDay(now, loc)
	day := startOfDay(date, loc)
	if day.After(today.AddDate(0, 0, d.Package.DurationDays)) {
		return d.RemainingQuota(), ErrDateOutOfWindow
	}
	if day.Before(today) {
		return d.RemainingQuota(), ErrDateInPast
	}
	if len(d.Dates) >= d.Package.WashQuota {
		return 0, ErrQuotaExceeded
	}
	for _, existing := range d.Dates {
		if existing.Equal(date) {
			return d.RemainingQuota(), ErrDuplicateDate
		}
	}

	d.Dates = append(d.Dates, date)
	d.settle()
	return d.RemainingQuota(), nil
}

// RemoveDate drops date by exact instant. Removing an absent date is a no-op.
func (d *Draft) RemoveDate(date time.Time) error {
	if d.locked() {
		return ErrDraftLocked
	}
	kept := d.Dates[:0]
	for _, existing := range d.Dates {
		if !existing.Equal(date) {
			kept = append(kept, existing)
		}
	}
	d.Dates = kept
	return nil
}

// Reset is allowed from every stage.
func (d *Draft) Reset(mode ResetMode) {
	d.Car = models.CarDetails{}
	d.Dates = []time.Time{}
	d.ScheduleID = ""
	d.LastError = ""
	if mode != ResetAddAnotherCar {
		d.Package = nil
	}
	d.settle()
}

func (d *Draft) BeginReview() error {
	if d.Stage != StageScheduling {
		return ErrInvalidTransition
	}
	if len(d.Dates) == 0 {
		return ErrNoDatesScheduled
	}
	d.Stage = StageReviewing
	return nil
}

func (d *Draft) BackToScheduling() error {
	if d.Stage != StageReviewing && d.Stage != StageFailed {
		return ErrInvalidTransition
	}
	d.LastError = ""
	d.Stage = StageScheduling
	return nil
}

func (d *Draft) MarkSubmitted(scheduleID string) error {
	if d.Stage != StageReviewing {
		return ErrInvalidTransition
	}
	d.ScheduleID = scheduleID
	d.LastError = ""
	d.Stage = StageSubmitted
	return nil
}

func (d *Draft) MarkFailed(reason string) error {
	if d.Stage != StageReviewing {
		return ErrInvalidTransition
	}
	d.LastError = reason
	d.Stage = StageFailed
	return nil
}

func (d *Draft) Retry() error {
	if d.Stage != StageFailed {
		return ErrInvalidTransition
	}
	d.Stage = StageReviewing
	return nil
}

// RemainingQuota is zero when no package is selected.
func (d *Draft) RemainingQuota() int {
	if d.Package == nil {
		return 0
	}
	if r := d.Package.WashQuota - len(d.Dates); r > 0 {
		return r
	}
	return 0
}
