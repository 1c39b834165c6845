// Package service implements result recording and leaderboard aggregation.
// Recording snapshots points at write time; aggregation is pull-based and
// recomputed on every call, which stays cheap because each item contributes
// at most three result rows.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"gala/internal/audit"
	catalogstore "gala/internal/catalog/store"
	"gala/internal/results/metrics"
	"gala/internal/results/models"
	"gala/internal/results/store"
	"gala/pkg/domain"
	dErrors "gala/pkg/domain-errors"
	"gala/pkg/platform/sentinel"
)

// Service records results and computes leaderboards.
type Service struct {
	results            store.ResultStore
	items              catalogstore.ItemStore
	events             catalogstore.EventStore
	registrations      catalogstore.RegistrationStore
	groupRegistrations catalogstore.GroupRegistrationStore
	participants       catalogstore.ParticipantStore
	sections           catalogstore.SectionStore
	auditPublisher     *audit.Publisher
	metrics            *metrics.Metrics
	logger             *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithAuditPublisher attaches the audit trail.
func WithAuditPublisher(publisher *audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

// WithMetrics attaches module metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the results service.
func New(
	results store.ResultStore,
	items catalogstore.ItemStore,
	events catalogstore.EventStore,
	registrations catalogstore.RegistrationStore,
	groupRegistrations catalogstore.GroupRegistrationStore,
	participants catalogstore.ParticipantStore,
	sections catalogstore.SectionStore,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if results == nil {
		return nil, fmt.Errorf("result store is required")
	}
	svc := &Service{
		results:            results,
		items:              items,
		events:             events,
		registrations:      registrations,
		groupRegistrations: groupRegistrations,
		participants:       participants,
		sections:           sections,
		logger:             logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CreateResult records one individual award. Points are copied from the
// item's reward scale now; later scale edits never touch existing rows.
func (s *Service) CreateResult(ctx context.Context, itemID domain.ItemID, position domain.Position, registrationID domain.RegistrationID) (models.Result, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return models.Result{}, s.notFound(err, "item not found")
	}
	if item.Type != domain.ItemIndividual {
		return models.Result{}, dErrors.New(dErrors.CodeValidation, "item is not an individual item")
	}
	registration, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return models.Result{}, s.notFound(err, "registration not found")
	}
	if registration.ItemID != itemID {
		return models.Result{}, dErrors.New(dErrors.CodeValidation, "registration does not belong to this item")
	}

	result := models.Result{
		ItemID:   itemID,
		ItemType: domain.ItemIndividual,
		Position: position,
		Points:   item.Scale.Points(position),
		Ref:      int64(registrationID),
	}
	return s.persist(ctx, result)
}

// CreateGroupResult records one group award, resolved through the group
// registration.
func (s *Service) CreateGroupResult(ctx context.Context, groupRegistrationID domain.GroupRegistrationID, position domain.Position) (models.Result, error) {
	registration, err := s.groupRegistrations.GetByID(ctx, groupRegistrationID)
	if err != nil {
		return models.Result{}, s.notFound(err, "group registration not found")
	}
	item, err := s.items.GetByID(ctx, registration.ItemID)
	if err != nil {
		return models.Result{}, s.notFound(err, "item not found")
	}
	if item.Type != domain.ItemGroup {
		return models.Result{}, dErrors.New(dErrors.CodeValidation, "item is not a group item")
	}

	result := models.Result{
		ItemID:   item.ID,
		ItemType: domain.ItemGroup,
		Position: position,
		Points:   item.Scale.Points(position),
		Ref:      int64(groupRegistrationID),
	}
	return s.persist(ctx, result)
}

func (s *Service) persist(ctx context.Context, result models.Result) (models.Result, error) {
	if err := s.results.Create(ctx, &result); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return models.Result{}, dErrors.New(dErrors.CodeConflict,
				"a result already exists for this item and position")
		}
		return models.Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record result")
	}

	s.metrics.IncrementRecorded(result.ItemType.String(), result.Position.String())
	s.emit(ctx, audit.ActionResultRecorded, result)
	return result, nil
}

// DeleteResult removes one result row. Deletion is the only mutation the
// lifecycle allows after creation.
func (s *Service) DeleteResult(ctx context.Context, id domain.ResultID, itemType domain.ItemType) error {
	result, err := s.results.GetByID(ctx, id, itemType)
	if err != nil {
		return s.notFound(err, "result not found")
	}
	if err := s.results.Delete(ctx, id, itemType); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "result not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete result")
	}
	s.emit(ctx, audit.ActionResultDeleted, result)
	return nil
}

// SectionLeaderboard aggregates both competition tracks for one event into
// per-section standings. Ordering: total points descending, then section id
// ascending as the deterministic tie-break.
func (s *Service) SectionLeaderboard(ctx context.Context, eventID domain.EventID) ([]models.SectionStanding, error) {
	start := time.Now()

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, s.notFound(err, "event not found")
	}

	var individual, group map[domain.SectionID]models.SideTotals
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		individual, err = s.aggregateIndividual(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		group, err = s.aggregateGroup(gctx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	union := make(map[domain.SectionID]bool, len(individual)+len(group))
	for id := range individual {
		union[id] = true
	}
	for id := range group {
		union[id] = true
	}

	standings := make([]models.SectionStanding, 0, len(union))
	for id := range union {
		standing := models.SectionStanding{
			SectionID:  id,
			Individual: individual[id],
			Group:      group[id],
		}
		standing.TotalPoints = standing.Individual.Points + standing.Group.Points
		if s.sections != nil {
			if section, err := s.sections.GetByID(ctx, id); err == nil {
				standing.SectionName = section.Name
			}
		}
		standings = append(standings, standing)
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].TotalPoints != standings[j].TotalPoints {
			return standings[i].TotalPoints > standings[j].TotalPoints
		}
		return standings[i].SectionID < standings[j].SectionID
	})

	s.metrics.ObserveLeaderboardLatency(time.Since(start))
	return standings, nil
}

func (s *Service) aggregateIndividual(ctx context.Context, eventID domain.EventID) (map[domain.SectionID]models.SideTotals, error) {
	rows, err := s.eventResults(ctx, eventID, domain.ItemIndividual)
	if err != nil {
		return nil, err
	}
	totals := make(map[domain.SectionID]models.SideTotals)
	for _, row := range rows {
		registration, err := s.registrations.GetByID(ctx, domain.RegistrationID(row.Ref))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve registration for result")
		}
		participant, err := s.participants.GetByID(ctx, registration.ParticipantID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve participant for result")
		}
		side := totals[participant.SectionID]
		side.Add(row.Position, row.Points)
		totals[participant.SectionID] = side
	}
	return totals, nil
}

func (s *Service) aggregateGroup(ctx context.Context, eventID domain.EventID) (map[domain.SectionID]models.SideTotals, error) {
	rows, err := s.eventResults(ctx, eventID, domain.ItemGroup)
	if err != nil {
		return nil, err
	}
	totals := make(map[domain.SectionID]models.SideTotals)
	for _, row := range rows {
		registration, err := s.groupRegistrations.GetByID(ctx, domain.GroupRegistrationID(row.Ref))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve group registration for result")
		}
		// Group registrations without a section do not feed the board.
		if registration.SectionID == nil {
			continue
		}
		side := totals[*registration.SectionID]
		side.Add(row.Position, row.Points)
		totals[*registration.SectionID] = side
	}
	return totals, nil
}

func (s *Service) eventResults(ctx context.Context, eventID domain.EventID, itemType domain.ItemType) ([]models.Result, error) {
	items, err := s.items.ListByEvent(ctx, eventID, itemType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list event items")
	}
	ids := make([]domain.ItemID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	rows, err := s.results.ListByItems(ctx, ids, itemType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list results")
	}
	return rows, nil
}

// GlobalLeaderboard ranks participants by the sum of their individual result
// points across all events. Ordering: points descending, participant id
// ascending.
func (s *Service) GlobalLeaderboard(ctx context.Context) ([]models.ParticipantStanding, error) {
	rows, err := s.results.ListByType(ctx, domain.ItemIndividual)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list results")
	}

	points := make(map[domain.ParticipantID]int)
	names := make(map[domain.ParticipantID]string)
	for _, row := range rows {
		registration, err := s.registrations.GetByID(ctx, domain.RegistrationID(row.Ref))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve registration for result")
		}
		if _, seen := names[registration.ParticipantID]; !seen {
			participant, err := s.participants.GetByID(ctx, registration.ParticipantID)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve participant for result")
			}
			names[registration.ParticipantID] = participant.FullName
		}
		points[registration.ParticipantID] += row.Points
	}

	standings := make([]models.ParticipantStanding, 0, len(points))
	for id, total := range points {
		standings = append(standings, models.ParticipantStanding{
			ParticipantID: id,
			FullName:      names[id],
			Points:        total,
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		return standings[i].ParticipantID < standings[j].ParticipantID
	})
	return standings, nil
}

func (s *Service) notFound(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store lookup failed")
}

func (s *Service) emit(ctx context.Context, action string, result models.Result) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:  action,
		Subject: strconv.FormatInt(int64(result.ItemID), 10),
		Detail: map[string]any{
			"item_type": result.ItemType,
			"position":  result.Position,
			"points":    result.Points,
			"ref":       result.Ref,
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}
