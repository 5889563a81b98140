package loader

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

// Querier is the subset of pgxpool.Pool used by the read adapter
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads DVF mutations and rent references from an existing database.
// It never writes.
type PostgresSource struct {
	db  Querier
	log *logger.Logger
}

// NewPostgresSource creates a new PostgresSource
func NewPostgresSource(db Querier, log *logger.Logger) *PostgresSource {
	if log == nil {
		log = logger.Nop()
	}
	return &PostgresSource{db: db, log: log.Component("s0_data.postgres")}
}

// LoadTransactions implements contracts.TransactionSource
func (s *PostgresSource) LoadTransactions(ctx context.Context) ([]contracts.RawTransaction, error) {
	query := `
		SELECT
			COALESCE(nom_commune, ''),
			COALESCE(code_departement::TEXT, ''),
			valeur_fonciere::FLOAT8,
			surface_reelle_bati::FLOAT8,
			COALESCE(date_mutation::TEXT, ''),
			COALESCE(type_local, ''),
			nombre_pieces_principales::INT
		FROM dvf.mutations
		ORDER BY id
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query mutations: %w", err)
	}
	defer rows.Close()

	var result []contracts.RawTransaction
	for rows.Next() {
		var r contracts.RawTransaction
		if err := rows.Scan(
			&r.Commune,
			&r.DepartmentCode,
			&r.SaleValue,
			&r.BuiltArea,
			&r.MutationDate,
			&r.PropertyType,
			&r.Rooms,
		); err != nil {
			return nil, fmt.Errorf("scan mutation: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mutations: %w", err)
	}

	s.log.WithField("rows", len(result)).Info("DVF mutations loaded")
	return result, nil
}

// LoadRentReferences implements contracts.RentReferenceSource
func (s *PostgresSource) LoadRentReferences(ctx context.Context) ([]contracts.RentReference, error) {
	query := `
		SELECT
			code_departement::TEXT,
			COALESCE(loyer_median, 0)::FLOAT8,
			loyer_m2_median::FLOAT8
		FROM dvf.rent_references
		WHERE loyer_m2_median > 0
		ORDER BY code_departement
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rent references: %w", err)
	}
	defer rows.Close()

	var refs []contracts.RentReference
	for rows.Next() {
		var ref contracts.RentReference
		if err := rows.Scan(&ref.DepartmentCode, &ref.MedianRent, &ref.MedianRentPerArea); err != nil {
			return nil, fmt.Errorf("scan rent reference: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rent references: %w", err)
	}

	s.log.Infof("Rent references loaded: %d departments", len(refs))
	return refs, nil
}
