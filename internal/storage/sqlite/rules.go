package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"wallet-transfer-system/internal/models"
)

// ActiveRules получает активные fraud-правила, отсортированные по приоритету
func (s *SQLiteStorage) ActiveRules(ctx context.Context) ([]*models.FraudRuleRecord, error) {
	query := `
		SELECT id, kind, priority, params, is_active, created_at, updated_at
		FROM fraud_rules
		WHERE is_active = 1
		ORDER BY priority ASC, id ASC
	`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.FraudRuleRecord
	for rows.Next() {
		var (
			rec    models.FraudRuleRecord
			params string
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Priority, &params,
			&rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Params = json.RawMessage(params)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// SeedDefaultRules вставляет набор правил по умолчанию, если таблица пуста.
// Набор соответствует фиксированным приоритетам видов правил.
func (s *SQLiteStorage) SeedDefaultRules(ctx context.Context) error {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM fraud_rules`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		kind     string
		priority int
		params   string
	}{
		{models.RuleKindRiskyHour, 2, `{"start_hour": 2, "end_hour": 5}`},
		{models.RuleKindAccountAge, 3, `{"min_account_age_days": 30, "max_allowed_amount": "1000"}`},
		{models.RuleKindKycLevel, 4, `{"required_kyc_status": 2, "max_allowed_amount": "5000"}`},
	}

	query := `INSERT INTO fraud_rules (kind, priority, params, is_active) VALUES (?, ?, ?, 1)`
	for _, d := range defaults {
		err := retryOperation(func() error {
			_, err := s.DB.ExecContext(ctx, query, d.kind, d.priority, d.params)
			return err
		}, 3, 50*time.Millisecond)
		if err != nil {
			return err
		}
	}
	return nil
}
