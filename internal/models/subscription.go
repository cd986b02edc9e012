// Package models содержит доменные структуры приложения: запись о подписке,
// а также вспомогательные типы для приёма данных из JSON-запросов и настроек.
package models

// DateLayout формат календарной даты, используемый во всех записях.
const DateLayout = "2006-01-02"

// DefaultUserID единственный пользователь в текущей версии приложения.
const DefaultUserID = "default"

// Record представляет собой одно списание по подписке.
// Серия ежемесячных списаний не хранится отдельной сущностью:
// каждая запись несёт собственную дату, серия восстанавливается по совпадающим атрибутам.
type Record struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	ServiceID string  `json:"serviceId"`
	StartDate string  `json:"startDate"` // дата списания в формате 2006-01-02
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	// Monthly == nil означает, что признак ежемесячности не сохранён
	// и при необходимости выводится из соседних записей (series.InferMonthly).
	Monthly *bool `json:"monthly,omitempty"`
}

// IsMonthly возвращает явное значение флага или false, если флаг не сохранён.
func (r Record) IsMonthly() bool {
	return r.Monthly != nil && *r.Monthly
}

// DummyRecord используется для приёма данных из JSON-запроса на создание записи,
// прежде чем конвертировать их в Record. Дата валидируется до обращения к хранилищу.
type DummyRecord struct {
	UserID    string  `json:"userId"`
	ServiceID string  `json:"serviceId" validate:"required"`
	StartDate string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Currency  string  `json:"currency" validate:"required"`
	Monthly   *bool   `json:"monthly,omitempty"`
}

// UpdateRecord описывает частичное обновление записи: nil-поля не изменяются.
type UpdateRecord struct {
	ServiceID *string  `json:"serviceId,omitempty"`
	StartDate *string  `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amount    *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Currency  *string  `json:"currency,omitempty"`
	Monthly   *bool    `json:"monthly,omitempty"`
}

// Apply возвращает копию записи с применёнными ненулевыми полями обновления.
func (u UpdateRecord) Apply(r Record) Record {
	if u.ServiceID != nil {
		r.ServiceID = *u.ServiceID
	}
	if u.StartDate != nil {
		r.StartDate = *u.StartDate
	}
	if u.Amount != nil {
		r.Amount = *u.Amount
	}
	if u.Currency != nil {
		r.Currency = *u.Currency
	}
	if u.Monthly != nil {
		r.Monthly = u.Monthly
	}
	return r
}

// Currency элемент справочника валют из настроек.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Service элемент каталога сервисов из настроек. Category заполняется
// при чтении каталога, сгруппированного по категориям.
type Service struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// ServiceCategory группа сервисов одной категории в файле настроек.
type ServiceCategory struct {
	Category string    `json:"category"`
	Services []Service `json:"services"`
}
