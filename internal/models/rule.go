package models

import (
	"encoding/json"
	"time"
)

// Виды fraud-правил. Приоритет фиксирован за видом правила
// и определяет порядок вычисления в движке.
const (
	RuleKindBlockedIP  = "blocked_ip"
	RuleKindRiskyHour  = "risky_hour"
	RuleKindAccountAge = "account_age"
	RuleKindKycLevel   = "kyc_level"
)

// FraudRuleRecord - строка fraud-правила в хранилище.
// Параметры конкретного вида правила лежат в Params как JSON;
// разбор в типизированное правило выполняет пакет fraud.
type FraudRuleRecord struct {
	ID        int64           `json:"id" db:"id"`
	Kind      string          `json:"kind" db:"kind"`
	Priority  int             `json:"priority" db:"priority"`
	Params    json.RawMessage `json:"params" db:"params"`
	IsActive  bool            `json:"is_active" db:"is_active"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
