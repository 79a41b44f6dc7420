package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/ledger"
	"github.com/mamadbah2/cement/internal/repository/state"
	"github.com/mamadbah2/cement/internal/repository/store"
	"github.com/mamadbah2/cement/internal/service/reconciliation"
	"github.com/mamadbah2/cement/internal/service/reporting"
)

func newTestService(t *testing.T) (*Service, *reconciliation.Engine) {
	t.Helper()
	blobs := store.NewMemory()
	n := 0
	engine, err := reconciliation.NewEngine(context.Background(), state.NewSales(blobs, nil), state.NewInventory(blobs, nil), nil,
		ledger.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("r%d", n)
		}))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(engine, reporting.NewService(engine, nil), time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2025, time.January, 10, 9, 30, 0, 0, time.UTC) }
	return svc, engine
}

func run(t *testing.T, svc *Service, text string) (string, error) {
	t.Helper()
	return svc.HandleCommand(context.Background(), models.ParseCommand(text), "2348000000000")
}

func TestHandleCommandFlow(t *testing.T) {
	svc, engine := newTestService(t)

	reply, err := run(t, svc, "delivery 1 dangote 600 2025-01-05")
	if err != nil {
		t.Fatalf("delivery: %v", err)
	}
	if !strings.Contains(reply, "600 DANGOTE bags to Shop 1 on 2025-01-05") || !strings.Contains(reply, "Stock now 600") {
		t.Errorf("delivery reply = %q", reply)
	}

	reply, err = run(t, svc, "/Sale shop1 Dangote 100 4,000 380000 5000 Paid by Musa")
	if err != nil {
		t.Fatalf("sale: %v", err)
	}
	for _, want := range []string{"Sale recorded (ID r2)", "Shop 1, 100 DANGOTE bags @ ₦4,000.00 on 2025-01-10", "discrepancy +₦15,000.00", "stock left: 500"} {
		if !strings.Contains(reply, want) {
			t.Errorf("sale reply missing %q: %q", want, reply)
		}
	}
	sale, err := engine.Sale("r2")
	if err != nil {
		t.Fatal(err)
	}
	if sale.Notes != "Paid by Musa" {
		t.Errorf("notes = %q", sale.Notes)
	}

	reply, err = run(t, svc, "edit r2 1 dangote 150 4000 600000")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(reply, "Sale updated") || !strings.Contains(reply, "stock left: 450") {
		t.Errorf("edit reply = %q", reply)
	}

	reply, err = run(t, svc, "stock 1")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Stock levels:\n- Shop 1: DANGOTE 450, ASHAKA 0" {
		t.Errorf("stock reply = %q", reply)
	}

	reply, err = run(t, svc, "summary")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "Sales: 1 | Bags: 150") {
		t.Errorf("summary reply = %q", reply)
	}

	if _, err := run(t, svc, "delete-delivery 1 r1"); !errors.Is(err, models.ErrInsufficientStock) {
		t.Errorf("delete-delivery error = %v, want insufficient stock", err)
	}

	reply, err = run(t, svc, "delete-sale r2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "150 DANGOTE bags returned to Shop 1") {
		t.Errorf("delete-sale reply = %q", reply)
	}

	if _, err := run(t, svc, "delete-delivery 1 r1"); err != nil {
		t.Errorf("delete-delivery after sale removal: %v", err)
	}
}

func TestHandleCommandErrors(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		text string
		want error
	}{
		{"sale 1 dangote", ErrInvalidArguments},
		{"sale 1 dangote ten 4000 40000", ErrInvalidArguments},
		{"sale 11 dangote 1 4000 4000", models.ErrValidation},
		{"sale 1 bua 1 4000 4000", models.ErrValidation},
		{"sale 1 ashaka 1 4000 4000", models.ErrInsufficientStock},
		{"delivery 1 dangote 10 10/01/2025", models.ErrValidation},
		{"delivery 1 dangote -5", models.ErrValidation},
		{"edit missing 1 dangote 1 1 1", models.ErrNotFound},
		{"delete-sale", ErrInvalidArguments},
		{"delete-sale nope", models.ErrNotFound},
		{"hello there", ErrUnsupportedCommand},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if _, err := run(t, svc, tt.text); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	svc, engine := newTestService(t)
	if _, err := engine.AddDelivery(context.Background(), "Shop 4", models.StockAshaka, 30, models.MustParseDate("2025-01-02")); err != nil {
		t.Fatal(err)
	}

	prompt, err := svc.Describe(models.ParseCommand("delete-delivery 4 r1"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(prompt, "Delete delivery r1 (Shop 4, 30 ASHAKA bags on 2025-01-02)?") {
		t.Errorf("prompt = %q", prompt)
	}

	if _, err := svc.Describe(models.ParseCommand("delete-sale r9")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Describe missing sale error = %v", err)
	}
	if _, err := svc.Describe(models.ParseCommand("stock")); !errors.Is(err, ErrUnsupportedCommand) {
		t.Errorf("Describe stock error = %v", err)
	}
}
