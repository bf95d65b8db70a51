package repositories

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// Statement is one SQL command of a migration step.
type Statement struct {
	SQL  string
	Args []interface{}
}

// HierarchySeed is the default top of the hierarchy every region is moved under.
type HierarchySeed struct {
	CompanyID    int64
	CompanyName  string
	CompanyCode  string
	DivisionID   int64
	DivisionName string
	DivisionCode string
}

// Tables mutated by the migration and copied into backups first.
var HierarchyMutatedTables = []string{"markets", "regions", "districts"}

// HierarchyPlan renders the DDL/DML of each migration step.
type HierarchyPlan struct {
	Seed         HierarchySeed
	BackupPrefix string
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func (p HierarchyPlan) BackupTable(table string) string {
	return p.BackupPrefix + table
}

func (p HierarchyPlan) CreateTables() []Statement {
	return []Statement{
		{SQL: `CREATE TABLE companies (
	id         BIGSERIAL PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	code       VARCHAR(50)  NOT NULL UNIQUE,
	is_active  BOOLEAN      NOT NULL DEFAULT TRUE,
	ceo_employee_id BIGINT,
	metadata   JSONB        NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`},
		{SQL: `CREATE TABLE divisions (
	id                  BIGSERIAL PRIMARY KEY,
	company_id          BIGINT       NOT NULL,
	name                VARCHAR(255) NOT NULL,
	code                VARCHAR(50)  NOT NULL UNIQUE,
	is_active           BOOLEAN      NOT NULL DEFAULT TRUE,
	manager_employee_id BIGINT,
	metadata            JSONB        NOT NULL DEFAULT '{}'::jsonb,
	created_at          TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	UNIQUE (company_id, name)
)`},
	}
}

func (p HierarchyPlan) CreateBackups() []Statement {
	out := make([]Statement, 0, len(HierarchyMutatedTables))
	for _, table := range HierarchyMutatedTables {
		out = append(out, Statement{
			SQL: fmt.Sprintf("CREATE TABLE %s AS TABLE %s", ident(p.BackupTable(table)), ident(table)),
		})
	}
	return out
}

func (p HierarchyPlan) DropConstraints() []Statement {
	return []Statement{
		{SQL: "ALTER TABLE districts DROP CONSTRAINT IF EXISTS districts_region_id_fkey"},
		{SQL: "ALTER TABLE regions DROP CONSTRAINT IF EXISTS regions_market_id_fkey"},
	}
}

func (p HierarchyPlan) AddColumns() []Statement {
	return []Statement{
		{SQL: "ALTER TABLE regions ADD COLUMN IF NOT EXISTS division_id BIGINT"},
		{SQL: "ALTER TABLE markets ADD COLUMN IF NOT EXISTS region_id BIGINT"},
		{SQL: "ALTER TABLE districts ADD COLUMN IF NOT EXISTS market_id BIGINT"},
	}
}

func (p HierarchyPlan) SeedDefaults() ([]Statement, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	companySQL, companyArgs, err := psql.Insert("companies").
		Columns("id", "name", "code").
		Values(p.Seed.CompanyID, p.Seed.CompanyName, p.Seed.CompanyCode).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build company seed: %w", err)
	}
	divisionSQL, divisionArgs, err := psql.Insert("divisions").
		Columns("id", "company_id", "name", "code").
		Values(p.Seed.DivisionID, p.Seed.CompanyID, p.Seed.DivisionName, p.Seed.DivisionCode).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build division seed: %w", err)
	}

	return []Statement{
		{SQL: companySQL, Args: companyArgs},
		{SQL: divisionSQL, Args: divisionArgs},
		// explicit ids leave the sequences behind
		{SQL: "SELECT setval(pg_get_serial_sequence('companies', 'id'), (SELECT MAX(id) FROM companies))"},
		{SQL: "SELECT setval(pg_get_serial_sequence('divisions', 'id'), (SELECT MAX(id) FROM divisions))"},
	}, nil
}

func (p HierarchyPlan) MigrateRelationships() ([]Statement, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	regionsSQL, regionsArgs, err := psql.Update("regions").
		Set("division_id", p.Seed.DivisionID).
		Where(sq.Eq{"division_id": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build region relink: %w", err)
	}

	return []Statement{
		{SQL: regionsSQL, Args: regionsArgs},
		// a market now belongs to the region that used to point at it
		{SQL: `UPDATE markets m
SET region_id = r.region_id
FROM (SELECT market_id, MIN(id) AS region_id FROM regions WHERE market_id IS NOT NULL GROUP BY market_id) r
WHERE r.market_id = m.id AND m.region_id IS NULL`},
		{SQL: `UPDATE districts d
SET market_id = r.market_id
FROM regions r
WHERE d.region_id = r.id AND d.market_id IS NULL`},
	}, nil
}

func (p HierarchyPlan) AddConstraints() []Statement {
	return []Statement{
		{SQL: "ALTER TABLE divisions ADD CONSTRAINT divisions_company_id_fkey FOREIGN KEY (company_id) REFERENCES companies (id)"},
		{SQL: "ALTER TABLE regions ADD CONSTRAINT regions_division_id_fkey FOREIGN KEY (division_id) REFERENCES divisions (id)"},
		{SQL: "ALTER TABLE markets ADD CONSTRAINT markets_region_id_fkey FOREIGN KEY (region_id) REFERENCES regions (id)"},
		{SQL: "ALTER TABLE districts ADD CONSTRAINT districts_market_id_fkey FOREIGN KEY (market_id) REFERENCES markets (id)"},
	}
}
