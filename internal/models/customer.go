package models

import "time"

// KycStatus - градуированный уровень верификации клиента
type KycStatus int

const (
	KycNone     KycStatus = 0
	KycBasic    KycStatus = 1
	KycStandard KycStatus = 2
	KycFull     KycStatus = 3
)

// String возвращает строковое имя уровня KYC
func (k KycStatus) String() string {
	switch k {
	case KycNone:
		return "none"
	case KycBasic:
		return "basic"
	case KycStandard:
		return "standard"
	case KycFull:
		return "full"
	}
	return "unknown"
}

// Customer - данные клиента из внешнего справочного сервиса
type Customer struct {
	ID             string    `json:"id"`
	CustomerNumber string    `json:"customer_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// CustomerVerification - верификационные данные клиента для fraud-проверок
type CustomerVerification struct {
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
	KycStatus  KycStatus `json:"kyc_status"`
}

// AccountAgeDays возвращает возраст аккаунта в днях на момент now
func (v *CustomerVerification) AccountAgeDays(now time.Time) int {
	return int(now.Sub(v.CreatedAt).Hours() / 24)
}
