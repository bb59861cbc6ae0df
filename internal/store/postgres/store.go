package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paydesk/internal/domain/payroll"
	"paydesk/internal/platform/crypto"
)

const selectColumns = `id::text, payroll_number, first_name, last_name, pay_date, month,
  pin_no_enc, nssf_no_enc, sha_no_enc, earnings, deductions,
  gross_pay, total_deductions, net_pay, signature, initials`

// Store persists payroll records in the payroll_records table. Government
// identifiers are encrypted at rest when the crypto service has a key.
type Store struct {
	pool   *pgxpool.Pool
	crypto *crypto.Service
}

func New(pool *pgxpool.Pool, cryptoSvc *crypto.Service) *Store {
	if cryptoSvc == nil {
		cryptoSvc, _ = crypto.New("")
	}
	return &Store{pool: pool, crypto: cryptoSvc}
}

func (s *Store) List(ctx context.Context) ([]payroll.Record, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+selectColumns+" FROM payroll_records ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Record
	for rows.Next() {
		record, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	args, err := s.columns(record)
	if err != nil {
		return payroll.Record{}, err
	}
	row := s.pool.QueryRow(ctx, `
    INSERT INTO payroll_records (payroll_number, first_name, last_name, pay_date, month,
      pin_no_enc, nssf_no_enc, sha_no_enc, earnings, deductions,
      gross_pay, total_deductions, net_pay, signature, initials)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    RETURNING `+selectColumns, args...)
	return s.scan(row)
}

func (s *Store) Update(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	if record.ID == "" {
		return payroll.Record{}, &payroll.ValidationError{Violation: payroll.ViolationMissingIdentifier}
	}
	if _, err := uuid.Parse(record.ID); err != nil {
		return payroll.Record{}, payroll.ErrNotFound
	}
	args, err := s.columns(record)
	if err != nil {
		return payroll.Record{}, err
	}
	args = append(args, record.ID)
	row := s.pool.QueryRow(ctx, `
    UPDATE payroll_records SET payroll_number = $1, first_name = $2, last_name = $3,
      pay_date = $4, month = $5, pin_no_enc = $6, nssf_no_enc = $7, sha_no_enc = $8,
      earnings = $9, deductions = $10, gross_pay = $11, total_deductions = $12,
      net_pay = $13, signature = $14, initials = $15, updated_at = now()
    WHERE id = $16
    RETURNING `+selectColumns, args...)
	updated, err := s.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return payroll.Record{}, payroll.ErrNotFound
	}
	return updated, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return payroll.ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM payroll_records WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrNotFound
	}
	return nil
}

func (s *Store) columns(record payroll.Record) ([]any, error) {
	pinEnc, err := s.crypto.EncryptString(record.PinNo)
	if err != nil {
		return nil, err
	}
	nssfEnc, err := s.crypto.EncryptString(record.NSSFNo)
	if err != nil {
		return nil, err
	}
	shaEnc, err := s.crypto.EncryptString(record.SHANo)
	if err != nil {
		return nil, err
	}
	earnings, err := json.Marshal(record.Earnings)
	if err != nil {
		return nil, err
	}
	deductions, err := json.Marshal(record.Deductions)
	if err != nil {
		return nil, err
	}
	return []any{
		record.PayrollNumber, record.FirstName, record.LastName, record.Date, record.Month,
		pinEnc, nssfEnc, shaEnc, earnings, deductions,
		record.GrossPay, record.TotalDeductions, record.NetPay, record.Signature, record.Initials,
	}, nil
}

func (s *Store) scan(row pgx.Row) (payroll.Record, error) {
	var record payroll.Record
	var pinEnc, nssfEnc, shaEnc, earnings, deductions []byte
	if err := row.Scan(
		&record.ID, &record.PayrollNumber, &record.FirstName, &record.LastName, &record.Date, &record.Month,
		&pinEnc, &nssfEnc, &shaEnc, &earnings, &deductions,
		&record.GrossPay, &record.TotalDeductions, &record.NetPay, &record.Signature, &record.Initials,
	); err != nil {
		return payroll.Record{}, err
	}

	var err error
	if record.PinNo, err = s.crypto.DecryptString(pinEnc); err != nil {
		return payroll.Record{}, err
	}
	if record.NSSFNo, err = s.crypto.DecryptString(nssfEnc); err != nil {
		return payroll.Record{}, err
	}
	if record.SHANo, err = s.crypto.DecryptString(shaEnc); err != nil {
		return payroll.Record{}, err
	}
	if len(earnings) > 0 {
		if err := json.Unmarshal(earnings, &record.Earnings); err != nil {
			return payroll.Record{}, err
		}
	}
	if len(deductions) > 0 {
		if err := json.Unmarshal(deductions, &record.Deductions); err != nil {
			return payroll.Record{}, err
		}
	}
	return record, nil
}
