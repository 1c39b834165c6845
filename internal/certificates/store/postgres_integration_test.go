//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"gala/internal/certificates/models"
	"gala/internal/certificates/store"
	"gala/internal/platform/postgres"
	"gala/pkg/domain"
	"gala/pkg/platform/sentinel"
	"gala/pkg/testutil/containers"
)

type PostgresCertStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresCertStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCertStoreSuite))
}

func (s *PostgresCertStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.postgres.DB))
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresCertStoreSuite) SetupTest() {
	_, err := s.postgres.DB.Exec("TRUNCATE certificates")
	s.Require().NoError(err)
}

func newCert(key string, award domain.AwardType, ref int64) *models.Certificate {
	return &models.Certificate{
		Key:       key,
		ItemID:    10,
		ItemType:  domain.ItemIndividual,
		AwardType: award,
		Ref:       domain.ParticipantID(ref),
		Payload:   models.ResolvedCertificate{ID: key, Recipient: "Asha"},
	}
}

// TestRoundTrip verifies persistence of the payload and the key lookup.
func (s *PostgresCertStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	cert := newCert("cert-1", domain.AwardFirst, 7)
	s.Require().NoError(s.store.Create(ctx, cert))
	s.NotZero(cert.ID)
	s.False(cert.CreatedAt.IsZero())

	found, err := s.store.FindByKey(ctx, store.Key{10, domain.ItemIndividual, domain.AwardFirst, 7})
	s.Require().NoError(err)
	s.Equal("cert-1", found.Key)
	s.Equal("Asha", found.Payload.Recipient)

	_, err = s.store.FindByKey(ctx, store.Key{10, domain.ItemGroup, domain.AwardFirst, 7})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestUniqueness verifies the composite constraint turns duplicates into
// ErrConflict, including under concurrency.
func (s *PostgresCertStoreSuite) TestUniqueness() {
	ctx := context.Background()

	s.Run("sequential duplicate conflicts", func() {
		s.Require().NoError(s.store.Create(ctx, newCert("cert-2", domain.AwardSecond, 7)))
		err := s.store.Create(ctx, newCert("cert-3", domain.AwardSecond, 7))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("concurrent inserts produce exactly one row", func() {
		const attempts = 8

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := s.store.Create(ctx, newCert(fmt.Sprintf("racer-%d", i), domain.AwardThird, 9))

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, sentinel.ErrConflict):
					conflicts++
				}
			}(i)
		}
		wg.Wait()

		s.Equal(1, successes)
		s.Equal(attempts-1, conflicts)
	})
}

// TestListByItem verifies the award filter at the SQL layer.
func (s *PostgresCertStoreSuite) TestListByItem() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newCert("cert-a", domain.AwardFirst, 1)))
	s.Require().NoError(s.store.Create(ctx, newCert("cert-b", domain.AwardParticipation, 2)))

	certs, err := s.store.ListByItem(ctx, 10, domain.ItemIndividual, nil)
	s.Require().NoError(err)
	s.Len(certs, 2)

	award := domain.AwardParticipation
	certs, err = s.store.ListByItem(ctx, 10, domain.ItemIndividual, &award)
	s.Require().NoError(err)
	s.Require().Len(certs, 1)
	s.Equal("cert-b", certs[0].Key)
}
