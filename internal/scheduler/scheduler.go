// Package scheduler runs periodic maintenance jobs in-process.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Arzion032/binhi-fms-backend/internal/domain/inventory"
	"github.com/Arzion032/binhi-fms-backend/pkg/logger"
)

type Scheduler struct {
	cron      *cron.Cron
	inventory *inventory.Service
	log       logger.Logger
}

func New(inventorySvc *inventory.Service, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		inventory: inventorySvc,
		log:       log,
	}
}

// Start registers the inventory counter reconciliation at the given cron
// spec and begins running jobs.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.reconcileInventory)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler: started", "reconcile_spec", spec)
	return nil
}

func (s *Scheduler) reconcileInventory() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reports, err := s.inventory.Reconcile(ctx)
	if err != nil {
		s.log.InternalError("scheduler: inventory reconcile failed", err)
		return
	}
	s.log.Info("scheduler: inventory reconcile finished", "repaired", len(reports))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
