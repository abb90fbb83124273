package recruitment

import (
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Validate checks the query tags and the salary bounds.
func (q ListQuery) Validate() error {
	if err := shared.ValidateStruct(q); err != nil {
		return err
	}
	return checkSalaryRange(q.SalaryMin, q.SalaryMax)
}

// Validate checks the payload tags and the salary bounds.
func (in Input) Validate() error {
	if err := shared.ValidateStruct(in); err != nil {
		return err
	}
	return checkSalaryRange(in.SalaryMin, in.SalaryMax)
}

func checkSalaryRange(lo, hi *int64) error {
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("%w: salary_min must not exceed salary_max", shared.ErrValidation)
	}
	return nil
}
