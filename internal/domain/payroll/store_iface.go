package payroll

import "context"

type StoreAPI interface {
	CreateValidation(ctx context.Context, v *Validation) error
	SaveResult(ctx context.Context, v *Validation, payslips []*Payslip, issues []Issue) error
	MarkFailed(ctx context.Context, orgID, validationID, notes string) error
	GetValidation(ctx context.Context, orgID, validationID string) (*Validation, error)
	ListValidations(ctx context.Context, orgID string, limit, offset int) ([]Validation, int, error)
	ListPayslips(ctx context.Context, orgID, validationID string) ([]Payslip, error)
	ListIssues(ctx context.Context, orgID, validationID string) ([]Issue, error)
}
