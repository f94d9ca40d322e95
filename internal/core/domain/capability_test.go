package domain_test

import (
	"testing"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCapabilities_NormalisesKnownEntries(t *testing.T) {
	caps, err := domain.ValidateCapabilities(map[string][]string{
		"transactions": {"read", " CREATE", "refund", "read"},
		"Reports":      {"export"},
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.Action{domain.ActionCreate, domain.ActionRead, domain.ActionRefund}, caps[domain.ModuleTransactions])
	assert.Equal(t, []domain.Action{domain.ActionExport}, caps[domain.ModuleReports])
}

func TestValidateCapabilities_MergesKeysNamingTheSameModule(t *testing.T) {
	caps, err := domain.ValidateCapabilities(map[string][]string{
		"members":  {"read", "create"},
		" Members": {"READ", "update"},
	})

	require.NoError(t, err)
	assert.Len(t, caps, 1)
	assert.Equal(t, []domain.Action{domain.ActionCreate, domain.ActionRead, domain.ActionUpdate}, caps[domain.ModuleMembers])
}

func TestValidateCapabilities_RejectsUnknownModulesAndActions(t *testing.T) {
	_, err := domain.ValidateCapabilities(map[string][]string{
		"transactions": {"read", "approve"},
		"payroll":      {"read"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown module "payroll"`)
	assert.Contains(t, err.Error(), `unknown action "approve" on module "transactions"`)
}

func TestCapabilityMap_AllowsIsFlat(t *testing.T) {
	caps := domain.CapabilityMap{
		domain.ModuleTransactions: {domain.ActionRead, domain.ActionReadAll},
	}

	assert.True(t, caps.Allows(domain.ModuleTransactions, domain.ActionRead))
	assert.True(t, caps.Allows(domain.ModuleTransactions, domain.ActionReadAll))
	// read_all does not imply create, and nothing spills over to other modules.
	assert.False(t, caps.Allows(domain.ModuleTransactions, domain.ActionCreate))
	assert.False(t, caps.Allows(domain.ModuleExpenditures, domain.ActionRead))
}

func TestScopeWidening(t *testing.T) {
	widened, ok := domain.ScopeWidening(domain.ActionUpdate)
	assert.True(t, ok)
	assert.Equal(t, domain.ActionUpdateAll, widened)

	_, ok = domain.ScopeWidening(domain.ActionRefund)
	assert.False(t, ok)
}
