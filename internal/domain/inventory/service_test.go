package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Arzion032/binhi-fms-backend/pkg/logger"
)

type fakeInventoryRepo struct {
	items   map[string]*Item
	rentals map[string]*Rental
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		items:   map[string]*Item{},
		rentals: map[string]*Rental{},
	}
}

func (f *fakeInventoryRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeInventoryRepo) ListItems(ctx context.Context) ([]Item, error) {
	var out []Item
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeInventoryRepo) GetItemByID(ctx context.Context, itemID string) (*Item, error) {
	if item, ok := f.items[itemID]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, ErrItemNotFound
}

func (f *fakeInventoryRepo) GetItemForUpdate(ctx context.Context, itemID string) (*Item, error) {
	return f.GetItemByID(ctx, itemID)
}

func (f *fakeInventoryRepo) CreateItem(ctx context.Context, item *Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeInventoryRepo) UpdateItem(ctx context.Context, item *Item) error {
	if _, ok := f.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeInventoryRepo) DeleteItem(ctx context.Context, itemID string) (bool, error) {
	if _, ok := f.items[itemID]; !ok {
		return false, nil
	}
	delete(f.items, itemID)
	return true, nil
}

func (f *fakeInventoryRepo) ListRentals(ctx context.Context) ([]Rental, error) {
	var out []Rental
	for _, rental := range f.rentals {
		out = append(out, *rental)
	}
	return out, nil
}

func (f *fakeInventoryRepo) GetRentalByID(ctx context.Context, rentalID string) (*Rental, error) {
	if rental, ok := f.rentals[rentalID]; ok {
		copied := *rental
		return &copied, nil
	}
	return nil, ErrRentalNotFound
}

func (f *fakeInventoryRepo) GetRentalForUpdate(ctx context.Context, rentalID string) (*Rental, error) {
	return f.GetRentalByID(ctx, rentalID)
}

func (f *fakeInventoryRepo) CreateRental(ctx context.Context, rental *Rental) error {
	f.rentals[rental.ID] = rental
	return nil
}

func (f *fakeInventoryRepo) UpdateRental(ctx context.Context, rental *Rental) error {
	if _, ok := f.rentals[rental.ID]; !ok {
		return ErrRentalNotFound
	}
	copied := *rental
	f.rentals[rental.ID] = &copied
	return nil
}

func (f *fakeInventoryRepo) SumOpenRentalsByItem(ctx context.Context) (map[string]int, error) {
	sums := map[string]int{}
	for _, rental := range f.rentals {
		if rental.Status == RentalStatusRented {
			sums[rental.ItemID] += rental.Quantity
		}
	}
	return sums, nil
}

func rentalPrice(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newTestInventoryService(repo Repository) *Service {
	return NewService(repo, nil, logger.NewFromEnv())
}

func seedItem(repo *fakeInventoryRepo, quantity, available, rented int) *Item {
	item := &Item{
		ID:          uuid.NewString(),
		AdminID:     uuid.NewString(),
		ItemName:    "Hand Tractor",
		RentalPrice: rentalPrice("500.00"),
		Quantity:    quantity,
		Available:   available,
		Rented:      rented,
		Unit:        "unit",
	}
	repo.items[item.ID] = item
	return item
}

func TestAddItemCounters(t *testing.T) {
	svc := newTestInventoryService(newFakeInventoryRepo())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, CreateItemInput{
		AdminID: "a", ItemName: "Thresher", RentalPrice: rentalPrice("800"),
		Quantity: 2, Available: 2, Rented: 1,
	}); !errors.Is(err, ErrCountersExceedQuantity) {
		t.Errorf("expected ErrCountersExceedQuantity, got %v", err)
	}

	if _, err := svc.AddItem(ctx, CreateItemInput{
		AdminID: "a", ItemName: "Thresher", RentalPrice: rentalPrice("800"),
		Quantity: 2, Available: -1,
	}); !errors.Is(err, ErrNegativeQuantity) {
		t.Errorf("expected ErrNegativeQuantity, got %v", err)
	}

	item, err := svc.AddItem(ctx, CreateItemInput{
		AdminID: "a", ItemName: "  Thresher ", RentalPrice: rentalPrice("800"),
		Quantity: 2, Available: 2,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.ItemName != "Thresher" {
		t.Errorf("name not trimmed: %q", item.ItemName)
	}
}

func TestRentMovesCounters(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newTestInventoryService(repo)
	item := seedItem(repo, 5, 5, 0)
	ctx := context.Background()

	rental, err := svc.Rent(ctx, RentInput{
		AdminID:    item.AdminID,
		ItemID:     item.ID,
		RenterName: "Aling Nena",
		Quantity:   3,
	})
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}
	if rental.Status != RentalStatusRented {
		t.Errorf("status = %s, want rented", rental.Status)
	}

	got := repo.items[item.ID]
	if got.Available != 2 || got.Rented != 3 {
		t.Errorf("counters = %d/%d, want 2/3", got.Available, got.Rented)
	}
}

func TestRentInsufficientAvailable(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newTestInventoryService(repo)
	item := seedItem(repo, 5, 2, 3)

	_, err := svc.Rent(context.Background(), RentInput{
		AdminID: item.AdminID, ItemID: item.ID, RenterName: "x", Quantity: 3,
	})
	if !errors.Is(err, ErrInsufficientAvailable) {
		t.Fatalf("expected ErrInsufficientAvailable, got %v", err)
	}
	got := repo.items[item.ID]
	if got.Available != 2 || got.Rented != 3 {
		t.Errorf("counters must be untouched, got %d/%d", got.Available, got.Rented)
	}
	if len(repo.rentals) != 0 {
		t.Errorf("no rental should be recorded, got %d", len(repo.rentals))
	}
}

func TestReturnReversesCounters(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newTestInventoryService(repo)
	item := seedItem(repo, 5, 5, 0)
	ctx := context.Background()

	rental, err := svc.Rent(ctx, RentInput{
		AdminID: item.AdminID, ItemID: item.ID, RenterName: "x", Quantity: 2,
	})
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}

	returned, err := svc.Return(ctx, rental.ID)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if returned.Status != RentalStatusReturned || returned.ReturnDate == nil {
		t.Errorf("returned rental = %+v", returned)
	}

	got := repo.items[item.ID]
	if got.Available != 5 || got.Rented != 0 {
		t.Errorf("counters = %d/%d, want 5/0", got.Available, got.Rented)
	}

	if _, err := svc.Return(ctx, rental.ID); !errors.Is(err, ErrAlreadyReturned) {
		t.Errorf("double return: expected ErrAlreadyReturned, got %v", err)
	}
}

func TestReturnClampsCounters(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newTestInventoryService(repo)
	item := seedItem(repo, 3, 3, 0) // counters already drifted back to full
	rental := &Rental{
		ID: uuid.NewString(), AdminID: item.AdminID, ItemID: item.ID,
		RenterName: "x", Quantity: 2, Status: RentalStatusRented,
	}
	repo.rentals[rental.ID] = rental

	if _, err := svc.Return(context.Background(), rental.ID); err != nil {
		t.Fatalf("Return: %v", err)
	}
	got := repo.items[item.ID]
	if got.Available != 3 || got.Rented != 0 {
		t.Errorf("counters must clamp to 3/0, got %d/%d", got.Available, got.Rented)
	}
}

func TestReconcileRepairsDrift(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newTestInventoryService(repo)
	ctx := context.Background()

	drifted := seedItem(repo, 10, 10, 0) // says nothing rented
	clean := seedItem(repo, 4, 3, 1)

	// two open rentals against the drifted item
	for _, q := range []int{2, 3} {
		rental := &Rental{
			ID: uuid.NewString(), AdminID: drifted.AdminID, ItemID: drifted.ID,
			RenterName: "x", Quantity: q, Status: RentalStatusRented,
		}
		repo.rentals[rental.ID] = rental
	}
	cleanRental := &Rental{
		ID: uuid.NewString(), AdminID: clean.AdminID, ItemID: clean.ID,
		RenterName: "y", Quantity: 1, Status: RentalStatusRented,
	}
	repo.rentals[cleanRental.ID] = cleanRental

	reports, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("reports = %+v, want exactly the drifted item", reports)
	}
	if reports[0].ItemID != drifted.ID || reports[0].StoredRented != 0 || reports[0].DerivedRented != 5 {
		t.Errorf("report = %+v", reports[0])
	}

	got := repo.items[drifted.ID]
	if got.Rented != 5 || got.Available != 5 {
		t.Errorf("repaired counters = %d/%d, want 5/5", got.Available, got.Rented)
	}
	untouched := repo.items[clean.ID]
	if untouched.Rented != 1 || untouched.Available != 3 {
		t.Errorf("clean item must be untouched, got %d/%d", untouched.Available, untouched.Rented)
	}
}

func TestUpdateItemPartial(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newTestInventoryService(repo)
	item := seedItem(repo, 5, 5, 0)

	newPrice := rentalPrice("650.00")
	got, err := svc.UpdateItem(context.Background(), UpdateItemInput{
		ItemID:      item.ID,
		RentalPrice: &newPrice,
		Category:    OptionalString{Set: true, Value: "machinery"},
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if !got.RentalPrice.Equal(newPrice) || got.Category != "machinery" {
		t.Errorf("patch wrong: %+v", got)
	}
	if got.ItemName != item.ItemName {
		t.Errorf("untouched name changed to %q", got.ItemName)
	}

	if _, err := svc.UpdateItem(context.Background(), UpdateItemInput{
		ItemID:   item.ID,
		Quantity: OptionalInt{Set: true, Value: 3}, // 5 available + 0 rented > 3
	}); !errors.Is(err, ErrCountersExceedQuantity) {
		t.Errorf("expected ErrCountersExceedQuantity, got %v", err)
	}
}
