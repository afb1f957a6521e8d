package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeFinanceRepo struct {
	transactions map[string]*Transaction
}

func newFakeFinanceRepo() *fakeFinanceRepo {
	return &fakeFinanceRepo{transactions: map[string]*Transaction{}}
}

func (f *fakeFinanceRepo) CreateTransaction(ctx context.Context, t *Transaction) error {
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeFinanceRepo) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	if t, ok := f.transactions[id]; ok {
		return t, nil
	}
	return nil, ErrTransactionNotFound
}

func (f *fakeFinanceRepo) UpdateTransaction(ctx context.Context, t *Transaction) error {
	if _, ok := f.transactions[t.ID]; !ok {
		return ErrTransactionNotFound
	}
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeFinanceRepo) DeleteTransaction(ctx context.Context, id string) error {
	if _, ok := f.transactions[id]; !ok {
		return ErrTransactionNotFound
	}
	delete(f.transactions, id)
	return nil
}

func (f *fakeFinanceRepo) ListTransactions(ctx context.Context, filter ListFilter) ([]Transaction, int64, error) {
	var out []Transaction
	for _, t := range f.transactions {
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (f *fakeFinanceRepo) SumByType(ctx context.Context) (map[string]decimal.Decimal, error) {
	sums := map[string]decimal.Decimal{}
	for _, t := range f.transactions {
		sums[t.Type] = sums[t.Type].Add(t.Amount)
	}
	return sums, nil
}

func amount(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCreateTransactionValidation(t *testing.T) {
	svc := NewService(newFakeFinanceRepo())
	ctx := context.Background()

	if _, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		AdminID: "a", Type: "donation", Amount: amount("10"),
	}); !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}

	if _, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		AdminID: "a", Type: TypeIncome, Amount: amount("-5"), Source: "membership dues",
	}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	if _, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		AdminID: "a", Type: TypeIncome, Amount: amount("10"), Source: "  ",
	}); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("expected ErrInvalidSource, got %v", err)
	}

	got, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		AdminID: "a", Type: TypeExpense, Amount: amount("120.50"), Description: "fuel", Source: "tractor refuel",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if got.ID == "" || got.TransactionDate.IsZero() {
		t.Errorf("transaction not filled in: %+v", got)
	}
	if got.Source != "tractor refuel" {
		t.Errorf("source = %q, want tractor refuel", got.Source)
	}
	fetched, err := svc.GetTransaction(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if fetched.Source != "tractor refuel" {
		t.Errorf("stored source = %q, want tractor refuel", fetched.Source)
	}
}

func TestUpdateTransactionPartial(t *testing.T) {
	repo := newFakeFinanceRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		AdminID: "a", Type: TypeIncome, Amount: amount("300"), Description: "harvest sale", Source: "palengke stall",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	newAmount := amount("450")
	got, err := svc.UpdateTransaction(ctx, created.ID, UpdateTransactionInput{Amount: &newAmount})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if !got.Amount.Equal(newAmount) {
		t.Errorf("amount = %s, want 450", got.Amount)
	}
	if got.Description != "harvest sale" || got.Source != "palengke stall" {
		t.Errorf("untouched fields must survive, got description=%q source=%q", got.Description, got.Source)
	}

	empty := ""
	if _, err := svc.UpdateTransaction(ctx, created.ID, UpdateTransactionInput{Source: &empty}); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("expected ErrInvalidSource, got %v", err)
	}

	bad := amount("0")
	if _, err := svc.UpdateTransaction(ctx, created.ID, UpdateTransactionInput{Amount: &bad}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.UpdateTransaction(ctx, "nope", UpdateTransactionInput{}); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestFederationBalance(t *testing.T) {
	repo := newFakeFinanceRepo()
	svc := NewService(repo)
	ctx := context.Background()

	seed := []struct {
		typ    string
		amount string
	}{
		{TypeIncome, "1000.00"},
		{TypeIncome, "250.50"},
		{TypeExpense, "400.25"},
	}
	for _, s := range seed {
		if _, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			AdminID: "a", Type: s.typ, Amount: amount(s.amount), Source: "ledger seed", TransactionDate: time.Now(),
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	bal, err := svc.FederationBalance(ctx)
	if err != nil {
		t.Fatalf("FederationBalance: %v", err)
	}
	if !bal.TotalIncome.Equal(amount("1250.50")) {
		t.Errorf("income = %s, want 1250.50", bal.TotalIncome)
	}
	if !bal.TotalExpenses.Equal(amount("400.25")) {
		t.Errorf("expenses = %s, want 400.25", bal.TotalExpenses)
	}
	if !bal.Balance.Equal(amount("850.25")) {
		t.Errorf("balance = %s, want 850.25", bal.Balance)
	}
}

func TestFederationBalanceEmptyLedger(t *testing.T) {
	svc := NewService(newFakeFinanceRepo())
	bal, err := svc.FederationBalance(context.Background())
	if err != nil {
		t.Fatalf("FederationBalance: %v", err)
	}
	if !bal.Balance.IsZero() || !bal.TotalIncome.IsZero() || !bal.TotalExpenses.IsZero() {
		t.Errorf("empty ledger must report zeroes, got %+v", bal)
	}
}
