package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Arzion032/binhi-fms-backend/internal/events"
	"github.com/Arzion032/binhi-fms-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	log       logger.Logger
}

func NewService(repo Repository, publisher events.Publisher, log logger.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop()
	}
	return &Service{repo: repo, publisher: publisher, log: log}
}

func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) GetItem(ctx context.Context, itemID string) (*Item, error) {
	return s.repo.GetItemByID(ctx, itemID)
}

func (s *Service) AddItem(ctx context.Context, input CreateItemInput) (*Item, error) {
	if strings.TrimSpace(input.ItemName) == "" {
		return nil, fmt.Errorf("item_name is required")
	}
	if input.RentalPrice.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("rental_price cannot be negative")
	}

	item := &Item{
		ID:          uuid.NewString(),
		AdminID:     input.AdminID,
		ItemName:    strings.TrimSpace(input.ItemName),
		RentalPrice: input.RentalPrice,
		Quantity:    input.Quantity,
		Available:   input.Available,
		Rented:      input.Rented,
		Unit:        strings.TrimSpace(input.Unit),
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
	}
	if err := item.CheckCounters(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, input UpdateItemInput) (*Item, error) {
	item, err := s.repo.GetItemByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	if input.ItemName.Set {
		name := strings.TrimSpace(input.ItemName.Value)
		if name == "" {
			return nil, fmt.Errorf("item_name is required")
		}
		item.ItemName = name
	}
	if input.RentalPrice != nil {
		if input.RentalPrice.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("rental_price cannot be negative")
		}
		item.RentalPrice = *input.RentalPrice
	}
	if input.Quantity.Set {
		item.Quantity = input.Quantity.Value
	}
	if input.Available.Set {
		item.Available = input.Available.Value
	}
	if input.Rented.Set {
		item.Rented = input.Rented.Value
	}
	if input.Unit.Set {
		item.Unit = strings.TrimSpace(input.Unit.Value)
	}
	if input.Category.Set {
		item.Category = strings.TrimSpace(input.Category.Value)
	}
	if input.Description.Set {
		item.Description = strings.TrimSpace(input.Description.Value)
	}
	if err := item.CheckCounters(); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, itemID string) error {
	deleted, err := s.repo.DeleteItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItemNotFound
	}
	return nil
}

// Rent moves quantity from available to rented and records the rental.
// The item row is locked so the check and the decrement cannot race; the
// whole thing commits or nothing does.
func (s *Service) Rent(ctx context.Context, input RentInput) (*Rental, error) {
	if strings.TrimSpace(input.RenterName) == "" {
		return nil, fmt.Errorf("renter_name is required")
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	var rental Rental
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := tx.GetItemForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}
		if item.Available < input.Quantity {
			return ErrInsufficientAvailable
		}

		item.Available -= input.Quantity
		item.Rented += input.Quantity
		item.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateItem(ctx, item); err != nil {
			return err
		}

		rental = Rental{
			ID:            uuid.NewString(),
			AdminID:       input.AdminID,
			ItemID:        item.ID,
			RenterName:    strings.TrimSpace(input.RenterName),
			ContactNumber: strings.TrimSpace(input.ContactNumber),
			Quantity:      input.Quantity,
			Notes:         strings.TrimSpace(input.Notes),
			Status:        RentalStatusRented,
		}
		return tx.CreateRental(ctx, &rental)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RentalCreated, map[string]any{
		"rental_id": rental.ID,
		"item_id":   rental.ItemID,
		"quantity":  rental.Quantity,
	})
	return &rental, nil
}

// Return reverses a rental's counter adjustment and stamps the return
// date. Returning an already-returned rental is rejected.
func (s *Service) Return(ctx context.Context, rentalID string) (*Rental, error) {
	var rental Rental
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetRentalForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}
		if current.Status == RentalStatusReturned {
			return ErrAlreadyReturned
		}

		item, err := tx.GetItemForUpdate(ctx, current.ItemID)
		if err != nil {
			return err
		}

		item.Available += current.Quantity
		item.Rented -= current.Quantity
		if item.Rented < 0 {
			item.Rented = 0
		}
		if item.Available > item.Quantity {
			item.Available = item.Quantity
		}
		item.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateItem(ctx, item); err != nil {
			return err
		}

		now := time.Now().UTC()
		current.Status = RentalStatusReturned
		current.ReturnDate = &now
		if err := tx.UpdateRental(ctx, current); err != nil {
			return err
		}

		rental = *current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RentalReturned, map[string]any{
		"rental_id": rental.ID,
		"item_id":   rental.ItemID,
		"quantity":  rental.Quantity,
	})
	return &rental, nil
}

func (s *Service) ListRentals(ctx context.Context) ([]Rental, error) {
	return s.repo.ListRentals(ctx)
}

// Reconcile re-derives each item's rented counter from open rental rows
// and repairs any drift, keeping available consistent with quantity.
// Running counters can diverge if a process dies between rental-record
// creation and counter adjustment.
func (s *Service) Reconcile(ctx context.Context) ([]DriftReport, error) {
	var reports []DriftReport
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		derived, err := tx.SumOpenRentalsByItem(ctx)
		if err != nil {
			return err
		}

		items, err := tx.ListItems(ctx)
		if err != nil {
			return err
		}

		for _, item := range items {
			want := derived[item.ID]
			if item.Rented == want {
				continue
			}

			reports = append(reports, DriftReport{
				ItemID:        item.ID,
				ItemName:      item.ItemName,
				StoredRented:  item.Rented,
				DerivedRented: want,
			})

			locked, err := tx.GetItemForUpdate(ctx, item.ID)
			if err != nil {
				return err
			}
			locked.Rented = want
			locked.Available = locked.Quantity - want
			if locked.Available < 0 {
				locked.Available = 0
			}
			locked.UpdatedAt = time.Now().UTC()
			if err := tx.UpdateItem(ctx, locked); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, report := range reports {
		s.log.Warn("inventory: repaired counter drift",
			"item_id", report.ItemID,
			"stored_rented", report.StoredRented,
			"derived_rented", report.DerivedRented)
	}
	return reports, nil
}

func (s *Service) publish(ctx context.Context, routingKey string, payload map[string]any) {
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		s.log.InternalError("inventory: event publish failed", err, "routing_key", routingKey)
	}
}
