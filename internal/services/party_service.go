package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/texora/texora-core/internal/audit"
	"github.com/texora/texora-core/internal/models"
	"github.com/texora/texora-core/internal/repository"
	"github.com/texora/texora-core/pkg/logger"
	"gorm.io/gorm"
)

// PartyService manages trading partners and logs their changes through the
// same audit pipeline orders use
type PartyService struct {
	repo     repository.PartyRepository
	auditSvc *AuditService
}

// NewPartyService creates a new party service
func NewPartyService(repo repository.PartyRepository, auditSvc *AuditService) *PartyService {
	return &PartyService{repo: repo, auditSvc: auditSvc}
}

// FindByID gets a party by ID
func (s *PartyService) FindByID(ctx context.Context, id uint) (*models.Party, error) {
	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: party %d", ErrNotFound, id)
		}
		return nil, err
	}
	return party, nil
}

// List retrieves parties matching the query
func (s *PartyService) List(ctx context.Context, query *repository.ListQuery) ([]models.Party, int64, error) {
	return s.repo.List(ctx, query)
}

// Create saves a new party
func (s *PartyService) Create(ctx context.Context, actor audit.Actor, party *models.Party) error {
	if party.Name == "" {
		return fmt.Errorf("%w: party name is required", ErrInvalidArgument)
	}
	if party.PartyType == "" {
		party.PartyType = models.PartyTypeCustomer
	}
	party.Active = true

	if err := s.repo.Create(ctx, party); err != nil {
		return err
	}

	if _, err := s.auditSvc.Record(ctx, RecordParams{
		Actor:        actor,
		Action:       models.AuditActionCreate,
		ResourceType: ResourceTypeParty,
		ResourceID:   strconv.FormatUint(uint64(party.ID), 10),
		Success:      true,
		Metadata:     map[string]string{"name": party.Name},
	}); err != nil {
		logger.Warn("Party audit entry dropped", "party_id", party.ID)
	}
	return nil
}

// Update saves changes to a party and logs the diff
func (s *PartyService) Update(ctx context.Context, actor audit.Actor, party *models.Party) (*models.Party, error) {
	existing, err := s.repo.FindByID(ctx, party.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: party %d", ErrNotFound, party.ID)
		}
		return nil, err
	}
	oldSnapshot := existing.AuditSnapshot()

	if err := s.repo.Update(ctx, party); err != nil {
		return nil, err
	}

	if _, err := s.auditSvc.Record(ctx, RecordParams{
		Actor:        actor,
		Action:       models.AuditActionUpdate,
		ResourceType: ResourceTypeParty,
		ResourceID:   strconv.FormatUint(uint64(party.ID), 10),
		OldSnapshot:  oldSnapshot,
		NewSnapshot:  party.AuditSnapshot(),
		Success:      true,
		Metadata:     map[string]string{"name": party.Name},
	}); err != nil {
		logger.Warn("Party audit entry dropped", "party_id", party.ID)
	}
	return party, nil
}
