package jobs

import (
	"fmt"

	"jobboard-backend/internal/shared/apperr"
)

var (
	ErrNotFound   = apperr.Wrap(apperr.ErrNotFound, "Job")
	ErrNotOwner   = fmt.Errorf("%w: job belongs to another company", apperr.ErrForbidden)
	ErrNotCompany = fmt.Errorf("%w: only company accounts manage jobs", apperr.ErrForbidden)
)
