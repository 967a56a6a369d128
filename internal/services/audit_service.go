package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/texora/texora-core/internal/audit"
	"github.com/texora/texora-core/internal/models"
	"github.com/texora/texora-core/internal/repository"
	"github.com/texora/texora-core/pkg/logger"
)

// AuditService records immutable activity log entries. For each mutating
// operation it diffs the before/after snapshots, renders the change summary
// and appends one entry. Recording is best-effort: a failure is returned to
// the caller (and surfaced to telemetry) but must never roll back the
// business mutation that triggered it.
type AuditService struct {
	repo       repository.AuditLogRepository
	differs    map[string]*audit.Differ
	summarizer *audit.Summarizer
}

// NewAuditService creates a new audit service. Differs are registered per
// resource type at construction time by the caller that owns the wiring.
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{
		repo:       repo,
		differs:    make(map[string]*audit.Differ),
		summarizer: audit.NewSummarizer(),
	}
}

// RegisterDiffer binds a differ to a resource type. Snapshots passed to
// Record for that type are compared with it.
func (s *AuditService) RegisterDiffer(resourceType string, differ *audit.Differ) {
	s.differs[resourceType] = differ
}

// RecordParams describes one audited action
type RecordParams struct {
	Actor        audit.Actor
	Action       string
	ResourceType string
	ResourceID   string
	// OldSnapshot and NewSnapshot are both set for updates; creations and
	// deletions leave them nil and carry context in Metadata instead.
	OldSnapshot audit.Snapshot
	NewSnapshot audit.Snapshot
	Success     bool
	// Severity overrides the inferred severity when non-empty
	Severity string
	Metadata  map[string]string
}

// Record appends one activity log entry. A no-op diff (identical snapshots)
// still logs the event at info severity, just without a change list; that is
// a legitimate result, distinct from a failed operation.
func (s *AuditService) Record(ctx context.Context, params RecordParams) (*models.AuditLog, error) {
	entry := &models.AuditLog{
		ActorID:      params.Actor.ID,
		ActorName:    params.Actor.Name,
		ActorRole:    params.Actor.Role,
		Action:       params.Action,
		ResourceType: params.ResourceType,
		ResourceID:   params.ResourceID,
		Success:      params.Success,
		Severity:     params.Severity,
		Metadata:     params.Metadata,
	}
	if entry.Severity == "" {
		entry.Severity = inferSeverity(params.Success, params.Action)
	}

	if params.OldSnapshot != nil || params.NewSnapshot != nil {
		differ, ok := s.differs[params.ResourceType]
		if !ok {
			return nil, fmt.Errorf("%w: no differ registered for resource type %q", ErrInvalidArgument, params.ResourceType)
		}
		changeSet, err := differ.Diff(params.OldSnapshot, params.NewSnapshot)
		if err != nil {
			if errors.Is(err, audit.ErrNilSnapshot) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
			}
			return nil, fmt.Errorf("%w: diffing %s/%s: %v", ErrInternal, params.ResourceType, params.ResourceID, err)
		}
		if !changeSet.Empty() {
			entry.Diff = changeSet
			entry.Summary = s.summarizer.Summarize(changeSet)
		}
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		// Invisible to the end user, but operations needs to know.
		logger.Error("Audit append failed",
			"resource_type", params.ResourceType,
			"resource_id", params.ResourceID,
			"action", params.Action,
			"error", err)
		sentry.CaptureException(err)
		return nil, fmt.Errorf("%w: appending audit entry: %v", ErrUnavailable, err)
	}
	return entry, nil
}

// ListByResource retrieves entries for one resource, newest first
func (s *AuditService) ListByResource(ctx context.Context, resourceType, resourceID string, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	return s.repo.FindByResource(ctx, resourceType, resourceID, query)
}

// ListByActor retrieves entries recorded for one actor, newest first
func (s *AuditService) ListByActor(ctx context.Context, actorID string, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	return s.repo.FindByActor(ctx, actorID, query)
}

// ListByDateRange retrieves entries inside a timestamp window, newest first
func (s *AuditService) ListByDateRange(ctx context.Context, from, to time.Time, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	return s.repo.FindByDateRange(ctx, from, to, query)
}

// PurgeOlderThan removes entries past the retention horizon. This is the
// only path that deletes audit entries.
func (s *AuditService) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	purged, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: purging audit entries: %v", ErrUnavailable, err)
	}
	if purged > 0 {
		logger.Info("Purged audit entries", "count", purged, "cutoff", cutoff)
	}
	return purged, nil
}

// inferSeverity applies the default severity rules: failures are errors,
// destructive or state-changing actions warn, everything else informs.
func inferSeverity(success bool, action string) string {
	if !success {
		return models.SeverityError
	}
	switch action {
	case models.AuditActionDelete, models.AuditActionStatusChange:
		return models.SeverityWarning
	}
	return models.SeverityInfo
}
