package booking

import (
	"errors"
	"testing"
	"time"

	"carwash/models"
)

var (
	testNow     = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	thirtyDay   = models.Package{Name: "30 Days - 4 Washes", DurationDays: 30, WashQuota: 4}
	ninetyDay   = models.Package{Name: "90 Days - 12 Washes", DurationDays: 90, WashQuota: 12}
	completeCar = CarDetailsUpdate{
		Make:               strPtr("Toyota"),
		Model:              strPtr("Axio"),
		RegistrationNumber: strPtr("KDA 123A"),
		Color:              strPtr("Silver"),
	}
)

func strPtr(s string) *string { return &s }

func day(n int) time.Time {
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func schedulingDraft(t *testing.T, pkg models.Package) *Draft {
	t.Helper()
	d := NewDraft("user-1")
	if err := d.SelectPackage(pkg); err != nil {
		t.Fatalf("SelectPackage failed: %v", err)
	}
	if err := d.SetCarDetails(completeCar); err != nil {
		t.Fatalf("SetCarDetails failed: %v", err)
	}
	if d.Stage != StageScheduling {
		t.Fatalf("Expected Scheduling stage, got %s", d.Stage)
	}
	return d
}

func TestProposeDateOrdering(t *testing.T) {
	t.Run("NoPackageSelected", func(t *testing.T) {
		d := NewDraft("user-1")
		_ = d.SetCarDetails(completeCar)
		if _, err := d.ProposeDate(day(1), testNow); !errors.Is(err, ErrNoPackageSelected) {
			t.Errorf("Expected ErrNoPackageSelected, got %v", err)
		}
	})

	t.Run("CarDetailsIncomplete", func(t *testing.T) {
		d := NewDraft("user-1")
		_ = d.SelectPackage(thirtyDay)
		_ = d.SetCarDetails(CarDetailsUpdate{Make: strPtr("Toyota"), Model: strPtr("Axio"), Color: strPtr("  ")})
		if d.Stage != StageCarDetailsPending {
			t.Errorf("Expected CarDetailsPending, got %s", d.Stage)
		}
		// An out-of-window date still reports the car first.
		if _, err := d.ProposeDate(day(400), testNow); !errors.Is(err, ErrCarDetailsIncomplete) {
			t.Errorf("Expected ErrCarDetailsIncomplete, got %v", err)
		}
	})

	t.Run("WindowBeforeQuota", func(t *testing.T) {
		d := schedulingDraft(t, models.Package{Name: "tiny", DurationDays: 5, WashQuota: 1})
		if _, err := d.ProposeDate(day(1), testNow); err != nil {
			t.Fatalf("ProposeDate failed: %v", err)
		}
		if _, err := d.ProposeDate(day(6), testNow); !errors.Is(err, ErrDateOutOfWindow) {
			t.Errorf("Expected ErrDateOutOfWindow before quota check, got %v", err)
		}
	})

	t.Run("QuotaBeforeDuplicate", func(t *testing.T) {
		d := schedulingDraft(t, models.Package{Name: "tiny", DurationDays: 5, WashQuota: 1})
		_, _ = d.ProposeDate(day(1), testNow)
		if _, err := d.ProposeDate(day(1), testNow); !errors.Is(err, ErrQuotaExceeded) {
			t.Errorf("Expected ErrQuotaExceeded before duplicate check, got %v", err)
		}
	})
}

func TestProposeDateWindow(t *testing.T) {
	for _, pkg := range []models.Package{thirtyDay, ninetyDay} {
		t.Run(pkg.Name, func(t *testing.T) {
			d := schedulingDraft(t, pkg)

			// The last day of the window is accepted at any hour.
			last := day(pkg.DurationDays).Add(23 * time.Hour)
			if _, err := d.ProposeDate(last, testNow); err != nil {
				t.Errorf("Expected last in-window day to be accepted, got %v", err)
			}

			for _, offset := range []int{1, 2, 100} {
				before := len(d.Dates)
				if _, err := d.ProposeDate(day(pkg.DurationDays+offset), testNow); !errors.Is(err, ErrDateOutOfWindow) {
					t.Errorf("offset %d: expected ErrDateOutOfWindow, got %v", offset, err)
				}
				if len(d.Dates) != before {
					t.Errorf("offset %d: dates changed on rejection", offset)
				}
			}
		})
	}

	t.Run("PastDateRejected", func(t *testing.T) {
		d := schedulingDraft(t, thirtyDay)
		if _, err := d.ProposeDate(day(-1), testNow); !errors.Is(err, ErrDateInPast) {
			t.Errorf("Expected ErrDateInPast, got %v", err)
		}
		// Earlier today is still today.
		if _, err := d.ProposeDate(day(0), testNow); err != nil {
			t.Errorf("Expected today to be accepted, got %v", err)
		}
	})

	t.Run("DaysFollowNowLocation", func(t *testing.T) {
		nairobi := time.FixedZone("EAT", 3*60*60)
		now := time.Date(2026, 3, 10, 23, 30, 0, 0, nairobi)
		d := schedulingDraft(t, thirtyDay)
		// 22:00 UTC on the 9th is 01:00 on the 10th in Nairobi.
		if _, err := d.ProposeDate(time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC), now); err != nil {
			t.Errorf("Expected same local day to be accepted, got %v", err)
		}
	})
}

func TestProposeDateScenario(t *testing.T) {
	d := schedulingDraft(t, thirtyDay)

	for i, n := range []int{1, 2, 3} {
		remaining, err := d.ProposeDate(day(n), testNow)
		if err != nil {
			t.Fatalf("date %d: %v", i, err)
		}
		if want := 4 - (i + 1); remaining != want {
			t.Errorf("date %d: remaining = %d, want %d", i, remaining, want)
		}
	}

	if _, err := d.ProposeDate(day(1), testNow); !errors.Is(err, ErrDuplicateDate) {
		t.Errorf("Expected ErrDuplicateDate, got %v", err)
	}
	if len(d.Dates) != 3 {
		t.Errorf("Expected exactly one entry per instant, got %d dates", len(d.Dates))
	}

	remaining, err := d.ProposeDate(day(4), testNow)
	if err != nil || remaining != 0 {
		t.Fatalf("Expected 4th date accepted with 0 remaining, got %d, %v", remaining, err)
	}

	if _, err := d.ProposeDate(day(5), testNow); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Expected ErrQuotaExceeded, got %v", err)
	}
	if len(d.Dates) > thirtyDay.WashQuota {
		t.Errorf("Accepted %d dates, quota is %d", len(d.Dates), thirtyDay.WashQuota)
	}
}

func TestSelectPackageClearsDates(t *testing.T) {
	d := schedulingDraft(t, thirtyDay)
	_, _ = d.ProposeDate(day(1), testNow)
	_, _ = d.ProposeDate(day(2), testNow)

	if err := d.SelectPackage(ninetyDay); err != nil {
		t.Fatalf("SelectPackage failed: %v", err)
	}
	if len(d.Dates) != 0 {
		t.Errorf("Expected dates to be cleared, got %v", d.Dates)
	}
	if d.RemainingQuota() != 12 {
		t.Errorf("Expected remaining quota 12, got %d", d.RemainingQuota())
	}
	if d.Stage != StageScheduling {
		t.Errorf("Expected car details to survive a package switch, got stage %s", d.Stage)
	}
}

func TestRemoveDate(t *testing.T) {
	d := schedulingDraft(t, thirtyDay)
	_, _ = d.ProposeDate(day(1), testNow)
	_, _ = d.ProposeDate(day(2), testNow)

	if err := d.RemoveDate(day(7)); err != nil {
		t.Errorf("Removing an absent date should not error, got %v", err)
	}
	if len(d.Dates) != 2 {
		t.Errorf("Expected 2 dates after no-op removal, got %d", len(d.Dates))
	}

	if err := d.RemoveDate(day(1)); err != nil {
		t.Fatalf("RemoveDate failed: %v", err)
	}
	if len(d.Dates) != 1 || !d.Dates[0].Equal(day(2)) {
		t.Errorf("Expected only day 2 to remain, got %v", d.Dates)
	}
	if d.RemainingQuota() != 3 {
		t.Errorf("Expected remaining quota 3, got %d", d.RemainingQuota())
	}
}

func TestReset(t *testing.T) {
	t.Run("All", func(t *testing.T) {
		d := schedulingDraft(t, thirtyDay)
		_, _ = d.ProposeDate(day(1), testNow)
		d.Reset(ResetAll)
		if d.Package != nil || len(d.Dates) != 0 || d.Car.Make != "" || d.Stage != StageEmpty {
			t.Errorf("Expected empty draft, got %+v", d)
		}
	})

	t.Run("AddAnotherCar", func(t *testing.T) {
		d := schedulingDraft(t, thirtyDay)
		_, _ = d.ProposeDate(day(1), testNow)
		_ = d.BeginReview()
		_ = d.MarkSubmitted("sched-1")

		d.Reset(ResetAddAnotherCar)
		if d.Package == nil || d.Package.Name != thirtyDay.Name {
			t.Errorf("Expected package to be kept, got %+v", d.Package)
		}
		if len(d.Dates) != 0 || d.Car.RegistrationNumber != "" || d.ScheduleID != "" {
			t.Errorf("Expected car and dates to be cleared, got %+v", d)
		}
		if d.Stage != StagePackageChosen {
			t.Errorf("Expected PackageChosen, got %s", d.Stage)
		}
	})
}

func TestStageMachine(t *testing.T) {
	t.Run("ReviewRequiresDates", func(t *testing.T) {
		d := schedulingDraft(t, thirtyDay)
		if err := d.BeginReview(); !errors.Is(err, ErrNoDatesScheduled) {
			t.Errorf("Expected ErrNoDatesScheduled, got %v", err)
		}
	})

	t.Run("ReviewRequiresScheduling", func(t *testing.T) {
		d := NewDraft("user-1")
		_ = d.SelectPackage(thirtyDay)
		if err := d.BeginReview(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("ReviewingIsLocked", func(t *testing.T) {
		d := schedulingDraft(t, thirtyDay)
		_, _ = d.ProposeDate(day(1), testNow)
		if err := d.BeginReview(); err != nil {
			t.Fatalf("BeginReview failed: %v", err)
		}
		if _, err := d.ProposeDate(day(2), testNow); !errors.Is(err, ErrDraftLocked) {
			t.Errorf("Expected ErrDraftLocked from ProposeDate, got %v", err)
		}
		if err := d.SelectPackage(ninetyDay); !errors.Is(err, ErrDraftLocked) {
			t.Errorf("Expected ErrDraftLocked from SelectPackage, got %v", err)
		}
		if err := d.RemoveDate(day(1)); !errors.Is(err, ErrDraftLocked) {
			t.Errorf("Expected ErrDraftLocked from RemoveDate, got %v", err)
		}
		if err := d.BackToScheduling(); err != nil || d.Stage != StageScheduling {
			t.Errorf("Expected back to Scheduling, got %s, %v", d.Stage, err)
		}
	})

	t.Run("FailAndRetry", func(t *testing.T) {
		d := schedulingDraft(t, thirtyDay)
		_, _ = d.ProposeDate(day(1), testNow)
		_ = d.BeginReview()

		if err := d.MarkFailed("store unavailable"); err != nil {
			t.Fatalf("MarkFailed failed: %v", err)
		}
		if d.Stage != StageFailed || d.LastError != "store unavailable" {
			t.Errorf("Expected Failed with reason, got %s %q", d.Stage, d.LastError)
		}
		if err := d.MarkSubmitted("x"); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Expected ErrInvalidTransition submitting from Failed, got %v", err)
		}
		if err := d.Retry(); err != nil || d.Stage != StageReviewing {
			t.Fatalf("Expected Retry to return to Reviewing, got %s, %v", d.Stage, err)
		}
		if err := d.MarkSubmitted("sched-9"); err != nil || d.Stage != StageSubmitted || d.ScheduleID != "sched-9" {
			t.Errorf("Expected Submitted with schedule id, got %+v, %v", d, err)
		}
		if err := d.Retry(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Expected ErrInvalidTransition retrying a submitted draft, got %v", err)
		}
	})
}
