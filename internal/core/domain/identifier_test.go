package domain_test

import (
	"regexp"
	"testing"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identifierFormat = regexp.MustCompile(`^[A-Z0-9]{2}-(MC|TR|EX)-\d{4}-\d{6}$`)

func TestRecordTypePrefix(t *testing.T) {
	tests := map[domain.RecordType]string{
		domain.RecordContribution: "MC",
		domain.RecordTransaction:  "TR",
		domain.RecordExpenditure:  "EX",
	}
	for recordType, want := range tests {
		got, err := recordType.Prefix()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := domain.RecordType("invoice").Prefix()
	assert.Error(t, err)
}

func TestFormatAndParseRecordIdentifier(t *testing.T) {
	id := domain.FormatRecordIdentifier("01", "MC", 2026, 42)
	assert.Equal(t, "01-MC-2026-000042", id)
	assert.Regexp(t, identifierFormat, id)

	parsed, ok := domain.ParseRecordIdentifier(id)
	require.True(t, ok)
	assert.Equal(t, domain.RecordIdentifier{BranchCode: "01", Prefix: "MC", Year: 2026, Sequence: 42}, parsed)

	_, ok = domain.ParseRecordIdentifier("01-XX-2026-000001")
	assert.False(t, ok)
}

func TestSequenceAfterPrefix(t *testing.T) {
	seq, ok := domain.SequenceAfterPrefix("02-TR-2026-000123", "TR")
	assert.True(t, ok)
	assert.Equal(t, int64(123), seq)

	_, ok = domain.SequenceAfterPrefix("02-TR-2026-abc", "TR")
	assert.False(t, ok)

	_, ok = domain.SequenceAfterPrefix("02-EX-2026-000009", "TR")
	assert.False(t, ok)
}

func TestFormatEntityCode(t *testing.T) {
	supplier, err := domain.EntitySupplier.CodeSpec()
	require.NoError(t, err)
	assert.Equal(t, "SUP0007", domain.FormatEntityCode(supplier, "01", 7))

	asset, err := domain.EntityAsset.CodeSpec()
	require.NoError(t, err)
	assert.Equal(t, "01-AST0012", domain.FormatEntityCode(asset, "01", 12))

	head, err := domain.HeadExpenditure.EntityKind().CodeSpec()
	require.NoError(t, err)
	assert.Equal(t, "EH003", domain.FormatEntityCode(head, "", 3))
}

func TestIsValidBranchCode(t *testing.T) {
	assert.True(t, domain.IsValidBranchCode("01"))
	assert.True(t, domain.IsValidBranchCode("HQ"))
	assert.False(t, domain.IsValidBranchCode("1"))
	assert.False(t, domain.IsValidBranchCode("hq"))
	assert.False(t, domain.IsValidBranchCode("001"))
}
