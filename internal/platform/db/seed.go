package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type demoEmployee struct {
	number     string
	firstName  string
	lastName   string
	awardType  string
	level      int
	employment string
	guaranteed *float64
}

func hoursPtr(v float64) *float64 { return &v }

var demoEmployees = []demoEmployee{
	{"EMP-001", "Alex", "Chen", "GeneralRetailIndustryAward2020", 1, "FullTime", nil},
	{"EMP-002", "Priya", "Nair", "GeneralRetailIndustryAward2020", 3, "Casual", nil},
	{"EMP-003", "Jordan", "Walsh", "HospitalityIndustryAward2020", 2, "PartTime", hoursPtr(24)},
	{"EMP-004", "Mia", "Okafor", "HospitalityIndustryAward2020", 4, "FullTime", nil},
	{"EMP-005", "Sam", "Kowalski", "ClerksPrivateSectorAward2020", 2, "PartTime", hoursPtr(20)},
	{"EMP-006", "Tara", "Singh", "ClerksPrivateSectorAward2020", 5, "FullTime", nil},
}

// SeedDemoEmployees inserts a small fixed set of employees for local
// development so uploaded files have someone to match against. Safe to
// run repeatedly.
func SeedDemoEmployees(ctx context.Context, pool *pgxpool.Pool, organizationID string) error {
	const query = `
		INSERT INTO employees (organization_id, employee_number, first_name, last_name, award_type, award_level, employment_type, guaranteed_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organization_id, employee_number) DO NOTHING`

	for _, emp := range demoEmployees {
		_, err := pool.Exec(ctx, query,
			organizationID,
			emp.number,
			emp.firstName,
			emp.lastName,
			emp.awardType,
			emp.level,
			emp.employment,
			emp.guaranteed,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
