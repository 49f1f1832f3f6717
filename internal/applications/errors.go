package applications

import (
	"fmt"

	"jobboard-backend/internal/shared/apperr"
)

var (
	ErrNotFound    = apperr.Wrap(apperr.ErrNotFound, "Application")
	ErrJobNotFound = apperr.Wrap(apperr.ErrNotFound, "Job")

	ErrStatusRequired = apperr.Validation("Status is required", apperr.FieldIssue{Field: "status", Issue: "is required"})
	ErrInvalidStatus  = apperr.Validation("Invalid status", apperr.FieldIssue{Field: "status", Issue: "must be one of: Pending, Reviewed, Rejected, Accepted, shortlisted"})

	ErrNotApplicant = fmt.Errorf("%w: only user accounts may apply", apperr.ErrForbidden)
	ErrNotSelf      = fmt.Errorf("%w: applications are submitted as the signed-in user", apperr.ErrForbidden)
	ErrNotJobOwner  = fmt.Errorf("%w: application belongs to another company's job", apperr.ErrForbidden)
)
