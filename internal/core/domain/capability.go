package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Module is a functional area of the back office that capabilities are granted on.
type Module string

const (
	ModuleBranches       Module = "branches"
	ModuleRoles          Module = "roles"
	ModuleUsers          Module = "users"
	ModuleMembers        Module = "members"
	ModuleProjects       Module = "projects"
	ModuleContributions  Module = "contributions"
	ModuleTransactions   Module = "transactions"
	ModuleExpenditures   Module = "expenditures"
	ModuleSuppliers      Module = "suppliers"
	ModuleAssets         Module = "assets"
	ModuleContracts      Module = "contracts"
	ModuleHeads          Module = "heads"
	ModuleBudgets        Module = "budgets"
	ModuleCurrencies     Module = "currencies"
	ModulePaymentMethods Module = "payment_methods"
	ModuleReports        Module = "reports"
	ModuleAudit          Module = "audit"
)

// Action is an operation class within a module.
type Action string

const (
	ActionRead      Action = "read"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionRefund    Action = "refund"
	ActionExport    Action = "export"
	ActionUnlock    Action = "unlock"
	ActionReadAll   Action = "read_all"
	ActionCreateAll Action = "create_all"
	ActionUpdateAll Action = "update_all"
	ActionDeleteAll Action = "delete_all"
)

// CapabilitySchemaVersion identifies the module/action vocabulary below.
const CapabilitySchemaVersion = 1

var knownModules = []Module{
	ModuleBranches, ModuleRoles, ModuleUsers, ModuleMembers, ModuleProjects,
	ModuleContributions, ModuleTransactions, ModuleExpenditures, ModuleSuppliers,
	ModuleAssets, ModuleContracts, ModuleHeads, ModuleBudgets, ModuleCurrencies,
	ModulePaymentMethods, ModuleReports, ModuleAudit,
}

var knownActions = []Action{
	ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionRefund, ActionExport,
	ActionUnlock, ActionReadAll, ActionCreateAll, ActionUpdateAll, ActionDeleteAll,
}

// KnownModules returns the closed set of modules.
func KnownModules() []Module {
	return slices.Clone(knownModules)
}

// IsKnownModule reports whether m belongs to the capability schema.
func IsKnownModule(m Module) bool {
	return slices.Contains(knownModules, m)
}

// IsKnownAction reports whether a belongs to the capability schema.
func IsKnownAction(a Action) bool {
	return slices.Contains(knownActions, a)
}

// ScopeWidening returns the cross-branch variant of a base action, e.g. read -> read_all.
// ok is false for actions that have no widened form.
func ScopeWidening(a Action) (Action, bool) {
	switch a {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete:
		return Action(string(a) + "_all"), true
	default:
		return "", false
	}
}

// CapabilityMap grants a set of actions per module. There is no inheritance and no wildcard.
type CapabilityMap map[Module][]Action

// Allows reports whether action is granted on module.
func (c CapabilityMap) Allows(module Module, action Action) bool {
	return slices.Contains(c[module], action)
}

// Clone returns a deep copy.
func (c CapabilityMap) Clone() CapabilityMap {
	out := make(CapabilityMap, len(c))
	for m, actions := range c {
		out[m] = slices.Clone(actions)
	}
	return out
}

// ToStrings converts the map to its wire form.
func (c CapabilityMap) ToStrings() map[string][]string {
	out := make(map[string][]string, len(c))
	for m, actions := range c {
		list := make([]string, len(actions))
		for i, a := range actions {
			list[i] = string(a)
		}
		out[string(m)] = list
	}
	return out
}

// ValidateCapabilities checks a raw capability map against the closed schema and returns the
// normalised form (trimmed, lower-cased, de-duplicated, sorted actions). Unknown modules or
// actions are rejected, never silently stored.
func ValidateCapabilities(raw map[string][]string) (CapabilityMap, error) {
	// Keys differing only in case or whitespace name the same module and are merged.
	granted := make(map[Module]map[Action]struct{}, len(raw))
	var problems []string

	for rawModule, rawActions := range raw {
		module := Module(strings.ToLower(strings.TrimSpace(rawModule)))
		if !IsKnownModule(module) {
			problems = append(problems, fmt.Sprintf("unknown module %q", rawModule))
			continue
		}

		seen, ok := granted[module]
		if !ok {
			seen = make(map[Action]struct{}, len(rawActions))
			granted[module] = seen
		}
		for _, rawAction := range rawActions {
			action := Action(strings.ToLower(strings.TrimSpace(rawAction)))
			if !IsKnownAction(action) {
				problems = append(problems, fmt.Sprintf("unknown action %q on module %q", rawAction, module))
				continue
			}
			seen[action] = struct{}{}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("invalid capabilities: %s", strings.Join(problems, "; "))
	}

	out := make(CapabilityMap, len(granted))
	for module, seen := range granted {
		actions := make([]Action, 0, len(seen))
		for action := range seen {
			actions = append(actions, action)
		}
		sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
		out[module] = actions
	}
	return out, nil
}
