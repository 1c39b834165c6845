// Package service orchestrates certificate issuance: resolve the template,
// sign the payload, dispatch it to the renderer, then store the record. The
// store write happens last, so a failure anywhere leaves nothing behind.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gala/internal/audit"
	catalogstore "gala/internal/catalog/store"
	"gala/internal/certificates/metrics"
	"gala/internal/certificates/models"
	"gala/internal/certificates/store"
	"gala/pkg/domain"
	dErrors "gala/pkg/domain-errors"
	"gala/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Renderer dispatches a signed token to the external rendering service.
type Renderer interface {
	Render(ctx context.Context, token string, certID string) error
}

// TokenSigner serializes a resolved certificate into a signed token.
type TokenSigner interface {
	Sign(resolved models.ResolvedCertificate) (string, error)
}

// IssueParams identifies one issuance target.
type IssueParams struct {
	EventID       domain.EventID
	ItemID        domain.ItemID
	ItemType      domain.ItemType
	AwardType     domain.AwardType
	ParticipantID domain.ParticipantID
}

// Service issues certificates and serves issued records.
type Service struct {
	certificates   store.CertificateStore
	items          catalogstore.ItemStore
	resolver       *Resolver
	signer         TokenSigner
	renderer       Renderer
	auditPublisher *audit.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
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

// New constructs the certificates service.
func New(
	certificates store.CertificateStore,
	items catalogstore.ItemStore,
	resolver *Resolver,
	signer TokenSigner,
	renderer Renderer,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if certificates == nil {
		return nil, fmt.Errorf("certificate store is required")
	}
	if resolver == nil || signer == nil || renderer == nil {
		return nil, fmt.Errorf("resolver, signer and renderer are required")
	}
	svc := &Service{
		certificates: certificates,
		items:        items,
		resolver:     resolver,
		signer:       signer,
		renderer:     renderer,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Issue produces the certificate for one recipient and award. The call is
// idempotent on (item, type, award, ref): a repeat request returns the stored
// certificate without touching the renderer. The second return value reports
// whether this call created the record.
func (s *Service) Issue(ctx context.Context, params IssueParams) (models.Certificate, bool, error) {
	key := store.Key{
		ItemID:    params.ItemID,
		ItemType:  params.ItemType,
		AwardType: params.AwardType,
		Ref:       params.ParticipantID,
	}
	existing, err := s.certificates.FindByKey(ctx, key)
	if err == nil {
		s.metrics.IncrementIssued(params.AwardType.String(), "existing")
		return existing, false, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return models.Certificate{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "certificate lookup failed")
	}

	resolved, err := s.resolver.Resolve(ctx, params.EventID, params.AwardType,
		params.ItemID, params.ItemType, params.ParticipantID)
	if err != nil {
		s.metrics.IncrementFailure("resolve")
		return models.Certificate{}, false, err
	}

	token, err := s.signer.Sign(resolved)
	if err != nil {
		s.metrics.IncrementFailure("sign")
		return models.Certificate{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign certificate")
	}

	dispatchStart := time.Now()
	err = s.renderer.Render(ctx, token, resolved.ID)
	s.metrics.ObserveRendererLatency(time.Since(dispatchStart))
	if err != nil {
		s.metrics.IncrementFailure("dispatch")
		return models.Certificate{}, false, err
	}

	cert := models.Certificate{
		Key:       resolved.ID,
		ItemID:    params.ItemID,
		ItemType:  params.ItemType,
		AwardType: params.AwardType,
		Ref:       params.ParticipantID,
		Payload:   resolved,
	}
	if err := s.certificates.Create(ctx, &cert); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// A concurrent request won the insert; its certificate is the record.
			winner, findErr := s.certificates.FindByKey(ctx, key)
			if findErr != nil {
				return models.Certificate{}, false, dErrors.Wrap(findErr, dErrors.CodeInternal, "certificate lookup failed")
			}
			s.logger.InfoContext(ctx, "concurrent issuance resolved to existing certificate",
				"item_id", params.ItemID, "award_type", params.AwardType, "ref", params.ParticipantID)
			s.metrics.IncrementIssued(params.AwardType.String(), "existing")
			return winner, false, nil
		}
		s.metrics.IncrementFailure("store")
		return models.Certificate{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store certificate")
	}

	s.metrics.IncrementIssued(params.AwardType.String(), "created")
	s.emit(ctx, cert)
	return cert, true, nil
}

// ListByItem returns the certificates issued for one item, optionally
// filtered to a single award type.
func (s *Service) ListByItem(ctx context.Context, itemID domain.ItemID, itemType domain.ItemType, award *domain.AwardType) ([]models.Certificate, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store lookup failed")
	}
	certs, err := s.certificates.ListByItem(ctx, itemID, itemType, award)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list certificates")
	}
	return certs, nil
}

func (s *Service) emit(ctx context.Context, cert models.Certificate) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:  audit.ActionCertificateIssued,
		Subject: strconv.FormatInt(int64(cert.ItemID), 10),
		Detail: map[string]any{
			"key":        cert.Key,
			"item_type":  cert.ItemType,
			"award_type": cert.AwardType,
			"ref":        cert.Ref,
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", audit.ActionCertificateIssued, "error", err)
	}
}
