package fraud

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"wallet-transfer-system/internal/models"
)

// RuleProvider отдает активный набор правил на момент проверки.
// Правила не версионируются: изменение правила действует на все
// последующие проверки немедленно.
type RuleProvider interface {
	ActiveRules(ctx context.Context) ([]*models.FraudRuleRecord, error)
}

// VerificationLookup отдает верификационные данные клиента.
// Возвращает (nil, nil), если клиент не найден.
type VerificationLookup interface {
	GetVerificationData(ctx context.Context, customerID string) (*models.CustomerVerification, error)
}

// Decision - итог проверки перевода движком правил
type Decision struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// Engine вычисляет fraud-правила по возрастанию приоритета
// и останавливается на первом отказе. Один отказ - одна причина.
type Engine struct {
	rules     RuleProvider
	customers VerificationLookup
	now       func() time.Time
}

// NewEngine создает движок правил
func NewEngine(rules RuleProvider, customers VerificationLookup) *Engine {
	return &Engine{
		rules:     rules,
		customers: customers,
		now:       time.Now,
	}
}

// Evaluate проверяет запрос на перевод по активным правилам.
// Ошибка возвращается только для инфраструктурных проблем;
// бизнес-отказ приходит как Decision с Approved=false.
func (e *Engine) Evaluate(ctx context.Context, req *models.CheckFraud) (*Decision, error) {
	records, err := e.rules.ActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active fraud rules: %w", err)
	}

	rules := make([]Rule, 0, len(records))
	for _, rec := range records {
		rule, err := RuleFromRecord(rec)
		if err != nil {
			// Нечитаемое правило не должно останавливать проверку остальных
			log.Printf("Skipping unreadable fraud rule %d: %v", rec.ID, err)
			continue
		}
		rules = append(rules, rule)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority() < rules[j].Priority()
	})

	in := &EvalInput{
		Request: req,
		Now:     e.now().UTC(),
	}

	verificationLoaded := false
	for _, rule := range rules {
		if needsVerification(rule) && !verificationLoaded {
			verification, err := e.customers.GetVerificationData(ctx, req.SenderCustomerID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch sender verification data: %w", err)
			}
			in.Sender = verification
			verificationLoaded = true
		}

		outcome := rule.Evaluate(in)
		if outcome.Declined {
			return &Decision{Approved: false, Reason: outcome.Reason}, nil
		}
	}

	return &Decision{Approved: true}, nil
}
