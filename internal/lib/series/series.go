// Package series реализует календарную арифметику ежемесячных серий списаний:
// генерацию дат с прижатием дня к длине месяца, определение членов серии
// и эвристический вывод признака ежемесячности по соседним записям.
package series

import (
	"fmt"
	"math"
	"time"

	"github.com/magabrotheeeer/subscription-calendar/internal/models"
)

// DefaultMonths длина серии по умолчанию.
const DefaultMonths = 12

// lastDay возвращает число дней в месяце month года year.
func lastDay(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clamp возвращает дату в месяце (year, month) с днём min(day, последний день месяца).
// Якорь 31-го числа даёт 30-е (28-е/29-е для февраля) в коротких месяцах,
// а не переполнение в следующий месяц.
func clamp(year int, month time.Month, day int) time.Time {
	if last := lastDay(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Dates возвращает count дат ежемесячной серии, начиная с якорной.
// Элемент i — месяц, отстоящий от якорного на i, с днём min(день якоря, длина месяца).
// Нулевой элемент — сама якорная дата, при необходимости прижатая.
func Dates(anchor time.Time, count int) []time.Time {
	out := make([]time.Time, 0, count)
	year, month, day := anchor.Date()
	for i := 0; i < count; i++ {
		// time.Month со значением больше 12 нормализуется внутри time.Date.
		out = append(out, clamp(year, month+time.Month(i), day))
	}
	return out
}

// DateStrings возвращает серию в строковом формате записей.
// Невалидная якорная дата — нарушение предусловия: вызывающая сторона
// обязана валидировать ввод заранее.
func DateStrings(anchorISO string, count int) ([]string, error) {
	anchor, err := time.Parse(models.DateLayout, anchorISO)
	if err != nil {
		return nil, fmt.Errorf("series: invalid anchor date %q: %w", anchorISO, err)
	}
	dates := Dates(anchor, count)
	out := make([]string, 0, count)
	for _, d := range dates {
		out = append(out, d.Format(models.DateLayout))
	}
	return out, nil
}

// amountsMatch проверяет численное равенство сумм; нечисловые значения
// (NaN, бесконечности) не совпадают ни с чем.
func amountsMatch(a, b float64) bool {
	if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return false
	}
	return a == b
}

// MatchMembers возвращает идентификаторы записей pool, принадлежащих серии target:
// совпадающие userId, serviceId, currency, численно равная сумма, явный monthly == true
// и дата из 12-месячной серии, заякоренной на target.StartDate.
// Идентификатор самой target включается всегда, даже если запись не проходит
// собственный шаблон — явно выбранная запись не должна остаться после удаления серии.
// Порядок результата не гарантируется.
func MatchMembers(target models.Record, pool []models.Record) []string {
	ids := make([]string, 0, DefaultMonths)
	dates, err := DateStrings(target.StartDate, DefaultMonths)
	if err == nil {
		dateSet := make(map[string]struct{}, len(dates))
		for _, d := range dates {
			dateSet[d] = struct{}{}
		}
		for _, rec := range pool {
			if rec.UserID != target.UserID ||
				rec.ServiceID != target.ServiceID ||
				rec.Currency != target.Currency {
				continue
			}
			if !amountsMatch(rec.Amount, target.Amount) {
				continue
			}
			if !rec.IsMonthly() {
				continue
			}
			if _, ok := dateSet[rec.StartDate]; !ok {
				continue
			}
			ids = append(ids, rec.ID)
		}
	}
	for _, id := range ids {
		if id == target.ID {
			return ids
		}
	}
	return append(ids, target.ID)
}

// InferMonthly выводит признак ежемесячности для записи без сохранённого флага:
// true, если в pool найдётся запись с теми же serviceId, currency и суммой
// на одной из 11 следующих прижатых месячных дат. Результат не кешируется —
// состав pool между вызовами может измениться.
func InferMonthly(target models.Record, pool []models.Record) bool {
	anchor, err := time.Parse(models.DateLayout, target.StartDate)
	if err != nil {
		return false
	}
	year, month, day := anchor.Date()
	for i := 1; i < DefaultMonths; i++ {
		want := clamp(year, month+time.Month(i), day).Format(models.DateLayout)
		for _, rec := range pool {
			if rec.ServiceID == target.ServiceID &&
				rec.Currency == target.Currency &&
				amountsMatch(rec.Amount, target.Amount) &&
				rec.StartDate == want {
				return true
			}
		}
	}
	return false
}
