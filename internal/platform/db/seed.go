package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"paydesk/internal/domain/payroll"
)

type seedFile struct {
	Version  int              `yaml:"version"`
	Payrolls []payroll.Record `yaml:"payrolls"`
}

// LoadSeed reads a version 1 YAML fixture of payroll records.
func LoadSeed(path string) ([]payroll.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(b)
}

func ParseSeed(b []byte) ([]payroll.Record, error) {
	var sf seedFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, err
	}
	if sf.Version != 1 {
		return nil, errors.New("seed: unsupported version")
	}

	seen := make(map[string]struct{}, len(sf.Payrolls))
	records := make([]payroll.Record, 0, len(sf.Payrolls))
	for _, record := range sf.Payrolls {
		record = record.Normalize()
		if record.PayrollNumber == "" {
			return nil, errors.New("seed: payroll number is required")
		}
		if _, ok := seen[record.PayrollNumber]; ok {
			return nil, fmt.Errorf("seed: duplicate payroll number %s", record.PayrollNumber)
		}
		seen[record.PayrollNumber] = struct{}{}
		records = append(records, record.WithTotals())
	}
	return records, nil
}

// Seed inserts records through the store when it holds none. It returns the
// number of records created.
func Seed(ctx context.Context, store payroll.Store, records []payroll.Record) (int, error) {
	existing, err := store.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Debug().Int("existing", len(existing)).Msg("seed skipped, store not empty")
		return 0, nil
	}

	for i, record := range records {
		record.ID = ""
		if _, err := store.Create(ctx, record); err != nil {
			return i, fmt.Errorf("seed %s: %w", record.PayrollNumber, err)
		}
	}
	log.Info().Int("records", len(records)).Msg("seeded payroll store")
	return len(records), nil
}
