// Утилита календарного отчёта: ходит в запущенный сервер по REST API
// и печатает сводку по месяцу. Может предварительно добавить списание,
// в том числе серией на год вперёд.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/subscription-calendar/internal/apiclient"
	"github.com/magabrotheeeer/subscription-calendar/internal/lib/series"
	"github.com/magabrotheeeer/subscription-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-calendar/internal/lib/slug"
	"github.com/magabrotheeeer/subscription-calendar/internal/models"
	"github.com/magabrotheeeer/subscription-calendar/internal/store"
	"github.com/magabrotheeeer/subscription-calendar/internal/store/serializer"
)

func main() {
	_ = godotenv.Load()

	now := time.Now()
	addr := flag.String("addr", envOr("CALENDAR_ADDR", "http://localhost:3001"), "адрес сервера календаря")
	year := flag.Int("year", now.Year(), "год отчёта")
	month := flag.Int("month", int(now.Month()), "месяц отчёта, 1-12")
	currency := flag.String("currency", "USD", "валюта сводки")
	addName := flag.String("add", "", "перед отчётом добавить списание этого сервиса (имя из каталога или произвольное)")
	addAmount := flag.Float64("amount", 0, "сумма добавляемого списания")
	addDate := flag.String("date", now.Format(models.DateLayout), "дата добавляемого списания, YYYY-MM-DD")
	addMonthly := flag.Bool("monthly", false, "добавить серию на 12 месяцев вместо одного списания")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	client := apiclient.NewClient(*addr)
	records := store.New(client, serializer.New(), log)

	// Справочники и записи друг от друга не зависят, читаются параллельно.
	var services []models.Service
	var currencies []models.Currency
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		services, err = client.Services(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		currencies, err = client.Currencies(gctx)
		return err
	})
	g.Go(func() error {
		return records.LoadAll(gctx)
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load data from server", sl.Err(err))
		os.Exit(1)
	}

	if *addName != "" {
		if err := addRecord(ctx, records, services, *addName, *addAmount, *addDate, *currency, *addMonthly); err != nil {
			log.Error("failed to add subscription", sl.Err(err))
			os.Exit(1)
		}
	}

	printReport(records, services, currencies, *year, *month, *currency)
}

// addRecord сопоставляет имя с каталогом сервисов; неизвестное имя
// становится произвольным сервисом с синтетическим идентификатором.
func addRecord(ctx context.Context, records *store.Store, services []models.Service,
	name string, amount float64, date, currency string, monthly bool) error {

	serviceID := slug.ServiceID(name)
	for _, svc := range services {
		if strings.EqualFold(svc.Name, name) || svc.ID == name {
			serviceID = svc.ID
			break
		}
	}
	rec := models.Record{
		UserID:    models.DefaultUserID,
		ServiceID: serviceID,
		StartDate: date,
		Amount:    amount,
		Currency:  currency,
	}

	if monthly {
		created, err := records.AddSeries(ctx, rec, series.DefaultMonths)
		if err != nil {
			return err
		}
		fmt.Printf("added %d monthly charges of %s starting %s\n", len(created), serviceID, date)
		return nil
	}

	created, err := records.AddOne(ctx, rec)
	if err != nil {
		return err
	}
	fmt.Printf("added %s on %s (id %s)\n", serviceID, created.StartDate, created.ID)
	return nil
}

func printReport(records *store.Store, services []models.Service, currencies []models.Currency,
	year, month int, currency string) {

	symbol := currency
	for _, cur := range currencies {
		if cur.Code == currency {
			symbol = cur.Symbol
			break
		}
	}
	categories := make(map[string]string, len(services))
	for _, svc := range services {
		if svc.Category != "" {
			categories[svc.ID] = svc.Category
		}
	}

	prefix := fmt.Sprintf("%04d-%02d", year, month)
	var days []string
	for date := range records.MarkedDates() {
		if strings.HasPrefix(date, prefix) {
			days = append(days, date)
		}
	}
	sort.Strings(days)

	monthRecords := records.Records()
	sort.Slice(monthRecords, func(i, j int) bool {
		return monthRecords[i].StartDate < monthRecords[j].StartDate
	})

	fmt.Printf("%04d-%02d\n", year, month)
	fmt.Printf("charge days: %s\n", strings.Join(days, ", "))
	for _, rec := range monthRecords {
		if !strings.HasPrefix(rec.StartDate, prefix) {
			continue
		}
		marker := ""
		if records.IsMonthly(rec) {
			marker = "  monthly"
		}
		fmt.Printf("  %s  %-24s %10.2f %s%s\n", rec.StartDate, rec.ServiceID, rec.Amount, rec.Currency, marker)
	}
	fmt.Printf("total: %s\n", records.MonthlyTotal(year, month, currency, symbol))
	for _, sum := range records.PerCategory(year, month, currency, categories) {
		fmt.Printf("  %-16s %.2f\n", sum.Category, sum.Amount)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
