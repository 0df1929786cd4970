package employee

import (
	"time"

	"fairworkly/internal/domain/award"
)

type Employee struct {
	ID               string               `json:"id"`
	OrganizationID   string               `json:"organizationId"`
	EmployeeNumber   string               `json:"employeeNumber"`
	FirstName        string               `json:"firstName"`
	LastName         string               `json:"lastName"`
	AwardType        award.Type           `json:"awardType"`
	AwardLevelNumber int                  `json:"awardLevelNumber"`
	EmploymentType   award.EmploymentType `json:"employmentType"`
	GuaranteedHours  *float64             `json:"guaranteedHours,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
}

func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// SyncRecord is one employee's latest data from an uploaded payroll
// file, used to upsert the employee register before payslips are built.
type SyncRecord struct {
	EmployeeNumber   string
	FirstName        string
	LastName         string
	AwardType        award.Type
	AwardLevelNumber int
	EmploymentType   award.EmploymentType
}
