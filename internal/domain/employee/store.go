package employee

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fairworkly/internal/domain/award"
)

type StoreAPI interface {
	Sync(ctx context.Context, organizationID string, records []SyncRecord) (map[string]string, error)
	ListByNumbers(ctx context.Context, organizationID string, numbers []string) ([]Employee, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Sync upserts employees keyed by (organization, employee number) and
// returns employee number -> id for the synced records.
func (s *Store) Sync(ctx context.Context, organizationID string, records []SyncRecord) (map[string]string, error) {
	mapping := make(map[string]string, len(records))
	for _, record := range records {
		var id string
		err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (organization_id, employee_number, first_name, last_name, award_type, award_level, employment_type)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (organization_id, employee_number) DO UPDATE
    SET first_name = EXCLUDED.first_name,
        last_name = EXCLUDED.last_name,
        award_type = EXCLUDED.award_type,
        award_level = EXCLUDED.award_level,
        employment_type = EXCLUDED.employment_type
    RETURNING id
  `, organizationID, record.EmployeeNumber, record.FirstName, record.LastName,
			string(record.AwardType), record.AwardLevelNumber, string(record.EmploymentType)).Scan(&id)
		if err != nil {
			return nil, err
		}
		mapping[record.EmployeeNumber] = id
	}
	return mapping, nil
}

func (s *Store) ListByNumbers(ctx context.Context, organizationID string, numbers []string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, organization_id, employee_number, first_name, last_name,
           award_type, award_level, employment_type, guaranteed_hours, created_at
    FROM employees
    WHERE organization_id = $1 AND employee_number = ANY($2)
  `, organizationID, numbers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		var awardType, employmentType string
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.EmployeeNumber, &e.FirstName, &e.LastName,
			&awardType, &e.AwardLevelNumber, &employmentType, &e.GuaranteedHours, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.AwardType = award.Type(awardType)
		e.EmploymentType = award.EmploymentType(employmentType)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
