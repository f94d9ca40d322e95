package services_test

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/SscSPs/branch_finance_admin/internal/core/services"
	"github.com/stretchr/testify/suite"
)

var recordIdentifierFormat = regexp.MustCompile(`^[A-Z0-9]{2}-(MC|TR|EX)-\d{4}-\d{6}$`)

type IdentifierAllocatorTestSuite struct {
	suite.Suite
	seqRepo   *memorySequenceRepo
	now       time.Time
	allocator *services.IdentifierAllocator
}

func (suite *IdentifierAllocatorTestSuite) SetupTest() {
	suite.seqRepo = newMemorySequenceRepo()
	suite.now = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	suite.allocator = services.NewIdentifierAllocator(suite.seqRepo,
		services.WithAllocatorClock(func() time.Time { return suite.now }),
		services.WithAllocatorLocation(time.UTC),
	)
}

func (suite *IdentifierAllocatorTestSuite) TestFirstIdentifierOfScope() {
	id, err := suite.allocator.NextRecordIdentifier(context.Background(), nil, domain.RecordContribution, "01")
	suite.Require().NoError(err)
	suite.Equal("01-MC-2026-000001", id)
	suite.Regexp(recordIdentifierFormat, id)

	id, err = suite.allocator.NextRecordIdentifier(context.Background(), nil, domain.RecordContribution, "01")
	suite.Require().NoError(err)
	suite.Equal("01-MC-2026-000002", id)
}

func (suite *IdentifierAllocatorTestSuite) TestScopesAreIndependent() {
	ctx := context.Background()
	tr, err := suite.allocator.NextRecordIdentifier(ctx, nil, domain.RecordTransaction, "01")
	suite.Require().NoError(err)
	ex, err := suite.allocator.NextRecordIdentifier(ctx, nil, domain.RecordExpenditure, "01")
	suite.Require().NoError(err)
	other, err := suite.allocator.NextRecordIdentifier(ctx, nil, domain.RecordTransaction, "02")
	suite.Require().NoError(err)

	suite.Equal("01-TR-2026-000001", tr)
	suite.Equal("01-EX-2026-000001", ex)
	suite.Equal("02-TR-2026-000001", other)
}

func (suite *IdentifierAllocatorTestSuite) TestContinuesAfterExistingIdentifiers() {
	suite.seqRepo.latest[latestKey(domain.RecordTransaction, "03", 2026)] = "03-TR-2026-000041"

	id, err := suite.allocator.NextRecordIdentifier(context.Background(), nil, domain.RecordTransaction, "03")
	suite.Require().NoError(err)
	suite.Equal("03-TR-2026-000042", id)
}

func (suite *IdentifierAllocatorTestSuite) TestResyncSkipsPastStoredIdentifiers() {
	ctx := context.Background()
	_, err := suite.allocator.NextRecordIdentifier(ctx, nil, domain.RecordTransaction, "03")
	suite.Require().NoError(err)
	// Rows imported behind the counter's back.
	suite.seqRepo.latest[latestKey(domain.RecordTransaction, "03", 2026)] = "03-TR-2026-000090"

	id, err := suite.allocator.NextRecordIdentifier(ctx, nil, domain.RecordTransaction, "03")
	suite.Require().NoError(err)
	suite.Equal("03-TR-2026-000002", id)

	id, err = suite.allocator.ResyncRecordIdentifier(ctx, nil, domain.RecordTransaction, "03")
	suite.Require().NoError(err)
	suite.Equal("03-TR-2026-000091", id)
}

func (suite *IdentifierAllocatorTestSuite) TestUnparseableLatestRestartsAtOne() {
	suite.seqRepo.latest[latestKey(domain.RecordExpenditure, "03", 2026)] = "03-EX-2026-legacy"

	id, err := suite.allocator.NextRecordIdentifier(context.Background(), nil, domain.RecordExpenditure, "03")
	suite.Require().NoError(err)
	suite.Equal("03-EX-2026-000001", id)
}

func (suite *IdentifierAllocatorTestSuite) TestNewYearStartsAtOne() {
	ctx := context.Background()
	suite.now = time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := suite.allocator.NextRecordIdentifier(ctx, nil, domain.RecordContribution, "01")
		suite.Require().NoError(err)
	}
	suite.seqRepo.latest[latestKey(domain.RecordContribution, "01", 2026)] = "01-MC-2026-000005"

	suite.now = time.Date(2027, time.January, 1, 0, 0, 1, 0, time.UTC)
	id, err := suite.allocator.NextRecordIdentifier(ctx, nil, domain.RecordContribution, "01")
	suite.Require().NoError(err)
	suite.Equal("01-MC-2027-000001", id)
}

func (suite *IdentifierAllocatorTestSuite) TestYearFollowsConfiguredLocation() {
	nairobi := time.FixedZone("EAT", 3*60*60)
	allocator := services.NewIdentifierAllocator(suite.seqRepo,
		services.WithAllocatorClock(func() time.Time { return time.Date(2026, time.December, 31, 22, 0, 0, 0, time.UTC) }),
		services.WithAllocatorLocation(nairobi),
	)

	id, err := allocator.NextRecordIdentifier(context.Background(), nil, domain.RecordTransaction, "01")
	suite.Require().NoError(err)
	suite.Equal("01-TR-2027-000001", id)
}

func (suite *IdentifierAllocatorTestSuite) TestConcurrentAllocationsAreDistinctAndContiguous() {
	suite.seqRepo.latest[latestKey(domain.RecordContribution, "01", 2026)] = "01-MC-2026-000010"
	const workers = 50

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make([]string, 0, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := suite.allocator.NextRecordIdentifier(context.Background(), nil, domain.RecordContribution, "01")
			suite.NoError(err)
			mu.Lock()
			ids = append(ids, id)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Strings(ids)
	suite.Require().Len(ids, workers)
	for i, id := range ids {
		suite.Equal(fmt.Sprintf("01-MC-2026-%06d", 11+i), id)
	}
}

func (suite *IdentifierAllocatorTestSuite) TestRejectsInvalidInput() {
	_, err := suite.allocator.NextRecordIdentifier(context.Background(), nil, domain.RecordContribution, "1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.allocator.NextRecordIdentifier(context.Background(), nil, domain.RecordType("invoice"), "01")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *IdentifierAllocatorTestSuite) TestExhaustedSequence() {
	suite.seqRepo.counters["transaction:01:2026"] = domain.MaxSequence

	_, err := suite.allocator.NextRecordIdentifier(context.Background(), nil, domain.RecordTransaction, "01")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *IdentifierAllocatorTestSuite) TestEntityCodes() {
	ctx := context.Background()
	suite.seqRepo.counts[domain.EntitySupplier] = 6

	code, err := suite.allocator.NextEntityCode(ctx, nil, domain.EntitySupplier, "")
	suite.Require().NoError(err)
	suite.Equal("SUP0007", code)

	code, err = suite.allocator.NextEntityCode(ctx, nil, domain.EntityAsset, "01")
	suite.Require().NoError(err)
	suite.Equal("01-AST0001", code)

	code, err = suite.allocator.NextEntityCode(ctx, nil, domain.EntityExpenditureHead, "")
	suite.Require().NoError(err)
	suite.Equal("EH001", code)

	// Deleting rows must not hand a code out twice.
	suite.seqRepo.counts[domain.EntitySupplier] = 0
	code, err = suite.allocator.NextEntityCode(ctx, nil, domain.EntitySupplier, "")
	suite.Require().NoError(err)
	suite.Equal("SUP0008", code)

	_, err = suite.allocator.NextEntityCode(ctx, nil, domain.EntityContract, "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestIdentifierAllocatorTestSuite(t *testing.T) {
	suite.Run(t, new(IdentifierAllocatorTestSuite))
}
