package services

import (
	"github.com/texora/texora-core/internal/config"
	"github.com/texora/texora-core/internal/repository"
)

// Services holds all service instances
type Services struct {
	Sequence *SequenceService
	Audit    *AuditService
	Order    *OrderService
	Party    *PartyService
	Quality  *QualityService
	Export   *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	sequenceSvc := NewSequenceService(repos.Counter)

	auditSvc := NewAuditService(repos.AuditLog)
	auditSvc.RegisterDiffer(ResourceTypeOrder, NewOrderDiffer())
	auditSvc.RegisterDiffer(ResourceTypeParty, NewPartyDiffer())

	return &Services{
		Sequence: sequenceSvc,
		Audit:    auditSvc,
		Order:    NewOrderService(repos.Order, repos.Party, repos.Quality, sequenceSvc, auditSvc, cfg.OrderNumberFormat),
		Party:    NewPartyService(repos.Party, auditSvc),
		Quality:  NewQualityService(repos.Quality),
		Export:   NewExportService(auditSvc),
	}
}
