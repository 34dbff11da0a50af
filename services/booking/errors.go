package booking

import "carwash/utils"

// Draft rule violations. Each is a sentinel, so callers can match with errors.Is.
var (
	ErrNoPackageSelected    = utils.NewRuleError("noPackageSelected", "Please select a package first.")
	ErrCarDetailsIncomplete = utils.NewRuleError("carDetailsIncomplete", "Car make, model, registration number and color are required.")
	ErrDateOutOfWindow      = utils.NewRuleError("dateOutOfWindow", "Date exceeds the package duration.")
	ErrDateInPast           = utils.NewRuleError("dateInPast", "Date is in the past.")
	ErrQuotaExceeded        = utils.NewRuleError("quotaExceeded", "You have reached the maximum number of washes for this package.")
	ErrDuplicateDate        = utils.NewRuleError("duplicateDate", "This date is already scheduled.")
	ErrNoDatesScheduled     = utils.NewRuleError("noDatesScheduled", "Schedule at least one wash before reviewing.")
	ErrInvalidTransition    = utils.NewRuleError("invalidTransition", "This action is not available at the current step.")
	ErrDraftLocked          = utils.NewRuleError("draftLocked", "The booking is under review or already submitted.")
)

// ErrUnknownPackage is returned when a package name is not in the catalog.
var ErrUnknownPackage = utils.NewValidationError("unknownPackage", "Unknown package.")

// ErrSubmitInProgress is returned when another submission of the same session is running.
var ErrSubmitInProgress = utils.NewConflictError("submitInProgress", "This booking is already being submitted.")
