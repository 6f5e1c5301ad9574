package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/martium/fsh/internal/models"
	"github.com/martium/fsh/internal/shared"
)

var _ models.RecordStore = (*FuneralServiceRepository)(nil)

const detailColumns = `order_date, customer_names, customer_phone_numbers, customer_emails, customer_addresses,
	service_dates, service_places, service_types, service_duration, service_musicians_count,
	service_music_program, departed_info, departed_confession, departed_remains_type,
	service_musician_unit_prices, service_discount_percentage, service_payment_amount,
	service_payment_type, service_description`

// FuneralServiceRepository implements [models.RecordStore] on the funeral_services table.
type FuneralServiceRepository struct {
	db conner
}

// NewFuneralServiceRepository creates a new FuneralServiceRepository with the given database connection
func NewFuneralServiceRepository(db *sql.DB) *FuneralServiceRepository {
	return &FuneralServiceRepository{db: db}
}

// List returns summaries ordered by order number, newest first.
//
// A non-blank searchPhrase keeps rows where the service dates, order number, customer names,
// phone numbers or departed info contain the phrase, ignoring case.
func (r *FuneralServiceRepository) List(ctx context.Context, searchPhrase string) ([]models.ServiceSummary, error) {
	query := `
		SELECT order_number, service_dates, customer_names, customer_phone_numbers, departed_info
		FROM funeral_services
	`
	var args []any

	if strings.TrimSpace(searchPhrase) != "" {
		query += `
		WHERE fold(service_dates) LIKE @phrase ESCAPE '\'
			OR fold(order_number) LIKE @phrase ESCAPE '\'
			OR fold(customer_names) LIKE @phrase ESCAPE '\'
			OR fold(customer_phone_numbers) LIKE @phrase ESCAPE '\'
			OR fold(departed_info) LIKE @phrase ESCAPE '\'
		`
		args = append(args, sql.Named("phrase", shared.LikePattern(searchPhrase)))
	}

	query += " ORDER BY order_number DESC"

	var summaries []models.ServiceSummary
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query funeral services: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var s models.ServiceSummary
			if err := rows.Scan(&s.OrderNumber, &s.ServiceDates, &s.CustomerNames, &s.CustomerPhoneNumbers, &s.DepartedInfo); err != nil {
				return fmt.Errorf("failed to scan funeral service summary: %w", err)
			}
			summaries = append(summaries, s)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("row iteration error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

// Get retrieves the full record for orderNumber.
//
// Exactly one row must match: none yields [shared.ErrRecordNotFound], several yield [shared.ErrAmbiguousRecord].
func (r *FuneralServiceRepository) Get(ctx context.Context, orderNumber int) (*models.ServiceRecord, error) {
	query := `
		SELECT order_number, ` + detailColumns + `
		FROM funeral_services
		WHERE order_number = ?
		LIMIT 2
	`

	var records []*models.ServiceRecord
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, orderNumber)
		if err != nil {
			return fmt.Errorf("failed to query funeral service: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanRecord(rows)
			if err != nil {
				return err
			}
			records = append(records, record)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("row iteration error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch len(records) {
	case 0:
		return nil, fmt.Errorf("%w: order number %d", shared.ErrRecordNotFound, orderNumber)
	case 1:
		return records[0], nil
	default:
		return nil, fmt.Errorf("%w: order number %d", shared.ErrAmbiguousRecord, orderNumber)
	}
}

// NextOrderNumber returns the largest order number plus one, or 1 for an empty store.
//
// The value is advisory: Create lets SQLite assign the identifier.
func (r *FuneralServiceRepository) NextOrderNumber(ctx context.Context) (int, error) {
	var next int
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(order_number), 0) + 1 FROM funeral_services")
		if err := row.Scan(&next); err != nil {
			return fmt.Errorf("failed to get next order number: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Create inserts record and sets its OrderNumber to the identifier SQLite assigned.
// It reports true iff exactly one row was inserted.
func (r *FuneralServiceRepository) Create(ctx context.Context, record *models.ServiceRecord) (bool, error) {
	if record == nil {
		return false, fmt.Errorf("%w: record is nil", shared.ErrInvalidInput)
	}
	if err := record.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO funeral_services (` + detailColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var ok bool
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, query, detailArgs(record)...)
		if err != nil {
			return fmt.Errorf("failed to insert funeral service: %w", err)
		}

		if ok, err = exactlyOne(result); err != nil || !ok {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get assigned order number: %w", err)
		}
		record.OrderNumber = int(id)
		return nil
	})
	if err != nil {
		return false, err
	}

	return ok, nil
}

// Update replaces every detail field of the row identified by orderNumber.
// It reports false, without an error, when no row has that order number.
func (r *FuneralServiceRepository) Update(ctx context.Context, orderNumber int, record *models.ServiceRecord) (bool, error) {
	if record == nil {
		return false, fmt.Errorf("%w: record is nil", shared.ErrInvalidInput)
	}
	if err := record.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE funeral_services
		SET order_date = ?, customer_names = ?, customer_phone_numbers = ?, customer_emails = ?,
			customer_addresses = ?, service_dates = ?, service_places = ?, service_types = ?,
			service_duration = ?, service_musicians_count = ?, service_music_program = ?,
			departed_info = ?, departed_confession = ?, departed_remains_type = ?,
			service_musician_unit_prices = ?, service_discount_percentage = ?,
			service_payment_amount = ?, service_payment_type = ?, service_description = ?
		WHERE order_number = ?
	`

	args := append(detailArgs(record), orderNumber)

	var ok bool
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update funeral service: %w", err)
		}
		ok, err = exactlyOne(result)
		return err
	})
	if err != nil {
		return false, err
	}

	if ok {
		record.OrderNumber = orderNumber
	}
	return ok, nil
}

// detailArgs returns the bound values for detailColumns, in column order.
func detailArgs(record *models.ServiceRecord) []any {
	return []any{
		record.OrderDate,
		record.CustomerNames,
		record.CustomerPhoneNumbers,
		record.CustomerEmails,
		record.CustomerAddresses,
		record.ServiceDates,
		record.ServicePlaces,
		record.ServiceTypes,
		record.ServiceDuration,
		record.ServiceMusiciansCount,
		record.ServiceMusicProgram,
		record.DepartedInfo,
		record.DepartedConfession,
		record.DepartedRemainsType,
		record.ServiceMusicianUnitPrices,
		record.ServiceDiscountPercentage.String(),
		record.ServicePaymentAmount.String(),
		record.ServicePaymentType,
		record.ServiceDescription,
	}
}

// scanRecord scans a row selected as order_number + detailColumns into a [models.ServiceRecord]
func scanRecord(rows *sql.Rows) (*models.ServiceRecord, error) {
	var r models.ServiceRecord

	err := rows.Scan(
		&r.OrderNumber,
		&r.OrderDate,
		&r.CustomerNames,
		&r.CustomerPhoneNumbers,
		&r.CustomerEmails,
		&r.CustomerAddresses,
		&r.ServiceDates,
		&r.ServicePlaces,
		&r.ServiceTypes,
		&r.ServiceDuration,
		&r.ServiceMusiciansCount,
		&r.ServiceMusicProgram,
		&r.DepartedInfo,
		&r.DepartedConfession,
		&r.DepartedRemainsType,
		&r.ServiceMusicianUnitPrices,
		&r.ServiceDiscountPercentage,
		&r.ServicePaymentAmount,
		&r.ServicePaymentType,
		&r.ServiceDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan funeral service: %w", err)
	}

	return &r, nil
}
