package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Arzion032/binhi-fms-backend/internal/domain/account"
	"github.com/Arzion032/binhi-fms-backend/internal/events"
	"github.com/Arzion032/binhi-fms-backend/pkg/logger"
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

// Checkout turns the selected cart items into one order per vendor.
// Stock is checked and decremented under row locks; either every order
// is created and every selected cart item removed, or nothing is.
func (s *Service) Checkout(ctx context.Context, input CheckoutInput) ([]CheckoutOrder, error) {
	if len(input.VariationIDs) == 0 {
		return nil, ErrEmptySelection
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, fmt.Errorf("%w: shipping address is required", ErrInvalidCheckout)
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidCheckout)
	}

	var created []CheckoutOrder
	err := s.repo.Transaction(ctx, func(repo Repository) error {
		cart, err := repo.GetOrCreateCart(ctx, input.BuyerID)
		if err != nil {
			return err
		}

		lines, err := repo.CartLinesForUpdate(ctx, cart.ID, input.VariationIDs)
		if err != nil {
			return err
		}
		if missing := missingVariations(input.VariationIDs, lines); len(missing) > 0 {
			return &NotInCartError{VariationIDs: missing}
		}

		for _, line := range lines {
			if line.Quantity > line.Stock {
				return &InsufficientStockError{
					VariationName: line.VariationName,
					Requested:     line.Quantity,
					Available:     line.Stock,
				}
			}
		}

		byVendor := map[string][]CartLine{}
		for _, line := range lines {
			byVendor[line.VendorID] = append(byVendor[line.VendorID], line)
		}
		vendors := make([]string, 0, len(byVendor))
		for vendorID := range byVendor {
			vendors = append(vendors, vendorID)
		}
		sort.Strings(vendors)

		now := time.Now()
		for _, vendorID := range vendors {
			vendorLines := byVendor[vendorID]

			total := decimal.Zero
			for _, line := range vendorLines {
				total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			}

			o := &Order{
				ID:              uuid.NewString(),
				OrderIdentifier: newOrderIdentifier(),
				BuyerID:         input.BuyerID,
				Status:          StatusPending,
				TotalPrice:      total,
				ShippingAddress: input.ShippingAddress,
				PaymentMethod:   input.PaymentMethod,
				DeliveryMethod:  input.DeliveryMethod,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := repo.CreateOrder(ctx, o); err != nil {
				return err
			}

			items := make([]OrderItem, 0, len(vendorLines))
			for _, line := range vendorLines {
				items = append(items, OrderItem{
					ID:          uuid.NewString(),
					OrderID:     o.ID,
					VariationID: line.VariationID,
					Quantity:    line.Quantity,
					UnitPrice:   line.UnitPrice,
				})
			}
			if err := repo.CreateOrderItems(ctx, items); err != nil {
				return err
			}

			if err := repo.CreateStatusHistory(ctx, &StatusHistory{
				ID:        uuid.NewString(),
				OrderID:   o.ID,
				Status:    StatusPending,
				ChangedAt: now,
			}); err != nil {
				return err
			}

			if err := repo.CreateTransaction(ctx, &MarketTransaction{
				ID:            uuid.NewString(),
				OrderID:       o.ID,
				BuyerID:       input.BuyerID,
				SellerID:      vendorID,
				PaymentMethod: input.PaymentMethod,
				TotalAmount:   total,
				Status:        PaymentPending,
				CreatedAt:     now,
			}); err != nil {
				return err
			}

			for _, line := range vendorLines {
				newStock := line.Stock - line.Quantity
				if err := repo.UpdateVariationStock(ctx, line.VariationID, newStock, newStock > 0); err != nil {
					return err
				}
			}

			created = append(created, CheckoutOrder{
				OrderID:         o.ID,
				OrderIdentifier: o.OrderIdentifier,
				VendorID:        vendorID,
				OrderTotal:      total,
			})
		}

		return repo.DeleteCartItems(ctx, cart.ID, input.VariationIDs)
	})
	if err != nil {
		return nil, err
	}

	for _, o := range created {
		if err := s.publisher.Publish(ctx, events.OrderCreated, o); err != nil {
			s.log.InternalError("orders: event publish failed", err, "order_id", o.OrderID)
		}
	}
	return created, nil
}

func missingVariations(requested []string, lines []CartLine) []string {
	present := make(map[string]bool, len(lines))
	for _, line := range lines {
		present[line.VariationID] = true
	}
	var missing []string
	for _, id := range requested {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func newOrderIdentifier() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(raw[:10])
}

func (s *Service) GetOrder(ctx context.Context, id string) (*OrderWithDetails, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadDetails(ctx, o)
}

func (s *Service) loadDetails(ctx context.Context, o *Order) (*OrderWithDetails, error) {
	items, err := s.repo.ListOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ListStatusHistory(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	txn, err := s.repo.GetTransactionByOrder(ctx, o.ID)
	if err != nil && err != ErrTransactionNotFound {
		return nil, err
	}
	return &OrderWithDetails{Order: *o, Items: items, History: history, Transaction: txn}, nil
}

func (s *Service) ListOrders(ctx context.Context, filter ListFilter) ([]Order, int64, error) {
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListOrders(ctx, filter)
}

// OrderHistory returns orders with items attached. Buyers see their own
// orders; admins see every order.
func (s *Service) OrderHistory(ctx context.Context, actorID, actorRole string) ([]OrderWithDetails, error) {
	var orders []Order
	var err error
	if actorRole == account.RoleAdmin {
		orders, err = s.repo.ListAllOrders(ctx)
	} else {
		orders, err = s.repo.ListOrdersByBuyer(ctx, actorID)
	}
	if err != nil {
		return nil, err
	}
	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	itemsByOrder, err := s.repo.ListOrderItemsByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	out := make([]OrderWithDetails, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderWithDetails{Order: o, Items: itemsByOrder[o.ID]})
	}
	return out, nil
}

// UpdateStatus patches the order status and/or the payment status of the
// order's transaction. The two patches are evaluated independently: an
// invalid value for one does not block the other, and nothing changes
// when the value already matches.
func (s *Service) UpdateStatus(ctx context.Context, input StatusPatchInput) (*OrderWithDetails, error) {
	var updated *Order
	var statusChanged bool
	err := s.repo.Transaction(ctx, func(repo Repository) error {
		o, err := repo.GetOrder(ctx, input.OrderID)
		if err != nil {
			return err
		}

		if input.Status != "" && IsValidStatus(input.Status) && input.Status != o.Status {
			statusChanged = true
			o.Status = input.Status
			o.UpdatedAt = time.Now()
			if err := repo.UpdateOrder(ctx, o); err != nil {
				return err
			}
			if err := repo.CreateStatusHistory(ctx, &StatusHistory{
				ID:        uuid.NewString(),
				OrderID:   o.ID,
				Status:    input.Status,
				ChangedAt: time.Now(),
			}); err != nil {
				return err
			}
		}

		if input.PaymentStatus != "" && IsValidPaymentStatus(input.PaymentStatus) {
			txn, err := repo.GetTransactionByOrder(ctx, o.ID)
			if err != nil {
				if err == ErrTransactionNotFound {
					s.log.Warn("orders: order has no transaction", "order_id", o.ID)
				} else {
					return err
				}
			} else if txn.Status != input.PaymentStatus {
				txn.Status = input.PaymentStatus
				if IsTerminalPaymentStatus(input.PaymentStatus) {
					now := time.Now()
					txn.EndedAt = &now
				} else {
					txn.EndedAt = nil
				}
				if err := repo.UpdateTransaction(ctx, txn); err != nil {
					return err
				}
			}
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		event := map[string]string{"order_id": updated.ID, "status": updated.Status}
		if err := s.publisher.Publish(ctx, events.OrderStatusChanged, event); err != nil {
			s.log.InternalError("orders: event publish failed", err, "order_id", updated.ID)
		}
	}
	return s.loadDetails(ctx, updated)
}

// UpdateTransactionStatus patches a transaction directly by its own id.
// Unlike UpdateStatus, an invalid value here is an error.
func (s *Service) UpdateTransactionStatus(ctx context.Context, id, status string) (*MarketTransaction, error) {
	if !IsValidPaymentStatus(status) {
		return nil, ErrInvalidPayment
	}
	txn, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.Status != status {
		txn.Status = status
		if IsTerminalPaymentStatus(status) {
			now := time.Now()
			txn.EndedAt = &now
		} else {
			txn.EndedAt = nil
		}
		if err := s.repo.UpdateTransaction(ctx, txn); err != nil {
			return nil, err
		}
	}
	return txn, nil
}

func (s *Service) ListTransactions(ctx context.Context, limit, offset int) ([]MarketTransaction, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTransactions(ctx, limit, offset)
}

func (s *Service) StatusCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	// Absent statuses still show up as zero.
	for _, status := range []string{
		StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned,
	} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts, nil
}

func (s *Service) BulkDelete(ctx context.Context, identifiers []string) (int64, error) {
	if len(identifiers) == 0 {
		return 0, ErrEmptySelection
	}
	return s.repo.DeleteOrdersByIdentifiers(ctx, identifiers)
}

func (s *Service) GetCart(ctx context.Context, buyerID string) (*Cart, []CartItem, error) {
	cart, err := s.repo.GetOrCreateCart(ctx, buyerID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.GetCartItems(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}
	return cart, items, nil
}

// AddCartItem sets the quantity for a variation in the buyer's cart,
// creating the cart on first use.
func (s *Service) AddCartItem(ctx context.Context, buyerID, variationID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := uuid.Parse(variationID); err != nil {
		return fmt.Errorf("%w: bad variation id", ErrCartItemNotFound)
	}
	cart, err := s.repo.GetOrCreateCart(ctx, buyerID)
	if err != nil {
		return err
	}
	return s.repo.UpsertCartItem(ctx, &CartItem{
		CartID:      cart.ID,
		VariationID: variationID,
		Quantity:    quantity,
		AddedAt:     time.Now(),
	})
}

func (s *Service) RemoveCartItem(ctx context.Context, buyerID, variationID string) error {
	cart, err := s.repo.GetOrCreateCart(ctx, buyerID)
	if err != nil {
		return err
	}
	return s.repo.DeleteCartItem(ctx, cart.ID, variationID)
}
