package fraud

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"wallet-transfer-system/internal/models"
)

// Фиксированные приоритеты правил: меньший номер вычисляется раньше
const (
	PriorityBlockedIP  = 1
	PriorityRiskyHour  = 2
	PriorityAccountAge = 3
	PriorityKycLevel   = 4
)

// Outcome - результат вычисления одного правила
type Outcome struct {
	Declined bool
	Reason   string
}

func approve() Outcome {
	return Outcome{}
}

func decline(reason string) Outcome {
	return Outcome{Declined: true, Reason: reason}
}

// EvalInput - вход для вычисления правила: запрос на перевод,
// верификационные данные отправителя (nil, если не найдены) и текущее время
type EvalInput struct {
	Request *models.CheckFraud
	Sender  *models.CustomerVerification
	Now     time.Time
}

// Rule - контракт fraud-правила. Новый вид правила добавляется
// реализацией контракта и назначением приоритета, без изменения движка.
type Rule interface {
	Name() string
	Priority() int
	// Evaluate проверяет запрос и возвращает approve или decline с причиной
	Evaluate(in *EvalInput) Outcome
}

// BlockedIPRule отклоняет переводы с заблокированных IP-адресов
type BlockedIPRule struct {
	IPAddress string     `json:"ip_address"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (r *BlockedIPRule) Name() string  { return "blocked_ip" }
func (r *BlockedIPRule) Priority() int { return PriorityBlockedIP }

func (r *BlockedIPRule) Evaluate(in *EvalInput) Outcome {
	if in.Request.ClientIPAddress == "" || in.Request.ClientIPAddress != r.IPAddress {
		return approve()
	}
	if r.ExpiresAt != nil && !in.Now.Before(*r.ExpiresAt) {
		return approve()
	}
	reason := r.Reason
	if reason == "" {
		reason = fmt.Sprintf("ip address %s is blocked", r.IPAddress)
	}
	return decline(reason)
}

// RiskyHourRule отклоняет переводы в рискованное время суток (UTC).
// Окно может переходить через полночь: start > end означает
// "от start до 23:59 и от 00:00 до end". Границы включительные.
type RiskyHourRule struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

func (r *RiskyHourRule) Name() string  { return "risky_hour" }
func (r *RiskyHourRule) Priority() int { return PriorityRiskyHour }

func (r *RiskyHourRule) Evaluate(in *EvalInput) Outcome {
	hour := in.Now.UTC().Hour()

	var risky bool
	if r.StartHour <= r.EndHour {
		risky = hour >= r.StartHour && hour <= r.EndHour
	} else {
		risky = hour >= r.StartHour || hour <= r.EndHour
	}

	if !risky {
		return approve()
	}
	return decline(fmt.Sprintf("transfers are not allowed between %02d:00 and %02d:00 UTC", r.StartHour, r.EndHour))
}

// AccountAgeRule ограничивает сумму перевода для молодых аккаунтов.
// Отсутствующий лимит означает "без ограничения".
// Отсутствие данных о клиенте - безусловный отказ (fail closed).
type AccountAgeRule struct {
	MinAccountAgeDays int              `json:"min_account_age_days"`
	MaxAllowedAmount  *decimal.Decimal `json:"max_allowed_amount,omitempty"`
}

func (r *AccountAgeRule) Name() string  { return "account_age" }
func (r *AccountAgeRule) Priority() int { return PriorityAccountAge }

func (r *AccountAgeRule) Evaluate(in *EvalInput) Outcome {
	if in.Sender == nil {
		return decline("account age rule: sender customer not found")
	}
	if r.MaxAllowedAmount == nil {
		return approve()
	}

	ageDays := in.Sender.AccountAgeDays(in.Now)
	if ageDays >= r.MinAccountAgeDays {
		return approve()
	}
	if in.Request.Amount.LessThanOrEqual(*r.MaxAllowedAmount) {
		return approve()
	}
	return decline(fmt.Sprintf(
		"account age rule: accounts younger than %d days cannot transfer more than %s",
		r.MinAccountAgeDays, r.MaxAllowedAmount.String()))
}

// KycLevelRule ограничивает сумму перевода при недостаточном уровне KYC.
// Отсутствующий лимит означает "без ограничения".
// Отсутствие данных о клиенте - безусловный отказ (fail closed).
type KycLevelRule struct {
	RequiredKycStatus models.KycStatus `json:"required_kyc_status"`
	MaxAllowedAmount  *decimal.Decimal `json:"max_allowed_amount,omitempty"`
}

func (r *KycLevelRule) Name() string  { return "kyc_level" }
func (r *KycLevelRule) Priority() int { return PriorityKycLevel }

func (r *KycLevelRule) Evaluate(in *EvalInput) Outcome {
	if in.Sender == nil {
		return decline("kyc level rule: sender customer not found")
	}
	if r.MaxAllowedAmount == nil {
		return approve()
	}
	if in.Sender.KycStatus >= r.RequiredKycStatus {
		return approve()
	}
	if in.Request.Amount.LessThanOrEqual(*r.MaxAllowedAmount) {
		return approve()
	}
	return decline(fmt.Sprintf(
		"kyc level rule: customers below %s verification cannot transfer more than %s",
		r.RequiredKycStatus.String(), r.MaxAllowedAmount.String()))
}

// needsVerification сообщает, требует ли правило верификационных данных отправителя
func needsVerification(rule Rule) bool {
	switch rule.(type) {
	case *AccountAgeRule, *KycLevelRule:
		return true
	}
	return false
}

// RuleFromRecord разбирает строку хранилища в типизированное правило
func RuleFromRecord(rec *models.FraudRuleRecord) (Rule, error) {
	var rule Rule
	switch rec.Kind {
	case models.RuleKindBlockedIP:
		rule = &BlockedIPRule{}
	case models.RuleKindRiskyHour:
		rule = &RiskyHourRule{}
	case models.RuleKindAccountAge:
		rule = &AccountAgeRule{}
	case models.RuleKindKycLevel:
		rule = &KycLevelRule{}
	default:
		return nil, fmt.Errorf("unknown fraud rule kind: %q", rec.Kind)
	}
	if err := json.Unmarshal(rec.Params, rule); err != nil {
		return nil, fmt.Errorf("failed to parse %s rule params: %w", rec.Kind, err)
	}
	return rule, nil
}
