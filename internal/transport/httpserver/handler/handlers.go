package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Arzion032/binhi-fms-backend/internal/auth"
	accountdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/account"
	associationdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/association"
	catalogdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/catalog"
	financedomain "github.com/Arzion032/binhi-fms-backend/internal/domain/finance"
	inventorydomain "github.com/Arzion032/binhi-fms-backend/internal/domain/inventory"
	orderdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/order"
	"github.com/Arzion032/binhi-fms-backend/internal/storage"
	"github.com/Arzion032/binhi-fms-backend/pkg/logger"
)

type Handlers struct {
	Accounts     *accountdomain.Service
	Associations *associationdomain.Service
	Catalog      *catalogdomain.Service
	Inventory    *inventorydomain.Service
	Orders       *orderdomain.Service
	Finance      *financedomain.Service

	tokens   *auth.TokenManager
	images   *storage.ImageStore
	validate *validator.Validate
	log      logger.Logger
}

func New(
	accounts *accountdomain.Service,
	associations *associationdomain.Service,
	catalog *catalogdomain.Service,
	inventory *inventorydomain.Service,
	orders *orderdomain.Service,
	finance *financedomain.Service,
	tokens *auth.TokenManager,
	images *storage.ImageStore,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Accounts:     accounts,
		Associations: associations,
		Catalog:      catalog,
		Inventory:    inventory,
		Orders:       orders,
		Finance:      finance,
		tokens:       tokens,
		images:       images,
		validate:     validator.New(),
		log:          log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
