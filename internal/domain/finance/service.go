package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*Transaction, error) {
	if !IsValidType(input.Type) {
		return nil, ErrInvalidType
	}
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(input.Source) == "" {
		return nil, ErrInvalidSource
	}
	date := input.TransactionDate
	if date.IsZero() {
		date = time.Now()
	}
	t := &Transaction{
		ID:              uuid.NewString(),
		AdminID:         input.AdminID,
		Type:            input.Type,
		Amount:          input.Amount,
		Description:     input.Description,
		Source:          input.Source,
		TransactionDate: date,
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Type != "" {
		if !IsValidType(input.Type) {
			return nil, ErrInvalidType
		}
		t.Type = input.Type
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		t.Amount = *input.Amount
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Source != nil {
		if strings.TrimSpace(*input.Source) == "" {
			return nil, ErrInvalidSource
		}
		t.Source = *input.Source
	}
	if input.TransactionDate != nil {
		t.TransactionDate = *input.TransactionDate
	}
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, filter ListFilter) ([]Transaction, int64, error) {
	if filter.Type != "" && !IsValidType(filter.Type) {
		return nil, 0, ErrInvalidType
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListTransactions(ctx, filter)
}

// FederationBalance sums the whole ledger. Missing types count as zero.
func (s *Service) FederationBalance(ctx context.Context) (*Balance, error) {
	sums, err := s.repo.SumByType(ctx)
	if err != nil {
		return nil, err
	}
	income := sums[TypeIncome]
	expenses := sums[TypeExpense]
	return &Balance{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
	}, nil
}
