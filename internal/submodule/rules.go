package submodule

import (
	"fmt"
	"strings"
)

const (
	recurseRuleKindConstant           = "fetch recurse rule"
	ignoreRuleKindConstant            = "ignore rule"
	updateRuleKindConstant            = "update rule"
	unknownRuleNameTemplateConstant   = "unknown %s %q"
	unknownRuleCodeTemplateConstant   = "unknown %s code %d"
	unknownRuleStringTemplateConstant = "%s(%d)"
)

// RecurseRule enumerates the fetch.recurseSubmodules policies of a submodule.
type RecurseRule int

// Supported fetch recurse rules.
const (
	RecurseNo       RecurseRule = 0
	RecurseYes      RecurseRule = 1
	RecurseOnDemand RecurseRule = 2
)

// IgnoreRule enumerates how much workdir dirtiness is reported for a submodule.
type IgnoreRule int

// Supported ignore rules. IgnoreUnspecified defers to the configured rule.
const (
	IgnoreUnspecified IgnoreRule = -1
	IgnoreNone        IgnoreRule = 1
	IgnoreUntracked   IgnoreRule = 2
	IgnoreDirty       IgnoreRule = 3
	IgnoreAll         IgnoreRule = 4
)

// UpdateRule enumerates the update strategies of a submodule.
type UpdateRule int

// Supported update rules.
const (
	UpdateDefault  UpdateRule = 0
	UpdateCheckout UpdateRule = 1
	UpdateRebase   UpdateRule = 2
	UpdateMerge    UpdateRule = 3
	UpdateNone     UpdateRule = 4
)

type ruleTable[Rule ~int] struct {
	kind    string
	names   map[Rule]string
	aliases map[string]Rule
}

func (table ruleTable[Rule]) name(rule Rule) string {
	if name, known := table.names[rule]; known {
		return name
	}
	return fmt.Sprintf(unknownRuleStringTemplateConstant, table.kind, int(rule))
}

func (table ruleTable[Rule]) parse(value string) (Rule, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for rule, name := range table.names {
		if name == normalized {
			return rule, nil
		}
	}
	if rule, known := table.aliases[normalized]; known {
		return rule, nil
	}
	var zero Rule
	return zero, fmt.Errorf(unknownRuleNameTemplateConstant, table.kind, value)
}

func (table ruleTable[Rule]) fromCode(code int) (Rule, error) {
	candidate := Rule(code)
	if _, known := table.names[candidate]; known {
		return candidate, nil
	}
	var zero Rule
	return zero, fmt.Errorf(unknownRuleCodeTemplateConstant, table.kind, code)
}

var recurseRules = ruleTable[RecurseRule]{
	kind: recurseRuleKindConstant,
	names: map[RecurseRule]string{
		RecurseNo:       "no",
		RecurseYes:      "yes",
		RecurseOnDemand: "on-demand",
	},
	aliases: map[string]RecurseRule{
		"false": RecurseNo,
		"off":   RecurseNo,
		"0":     RecurseNo,
		"true":  RecurseYes,
		"on":    RecurseYes,
		"1":     RecurseYes,
	},
}

var ignoreRules = ruleTable[IgnoreRule]{
	kind: ignoreRuleKindConstant,
	names: map[IgnoreRule]string{
		IgnoreUnspecified: "unspecified",
		IgnoreNone:        "none",
		IgnoreUntracked:   "untracked",
		IgnoreDirty:       "dirty",
		IgnoreAll:         "all",
	},
	aliases: map[string]IgnoreRule{
		"": IgnoreUnspecified,
	},
}

var updateRules = ruleTable[UpdateRule]{
	kind: updateRuleKindConstant,
	names: map[UpdateRule]string{
		UpdateDefault:  "default",
		UpdateCheckout: "checkout",
		UpdateRebase:   "rebase",
		UpdateMerge:    "merge",
		UpdateNone:     "none",
	},
}

// String returns the git configuration spelling of the rule.
func (rule RecurseRule) String() string {
	return recurseRules.name(rule)
}

// ParseRecurseRule converts a fetchRecurseSubmodules value into a RecurseRule.
func ParseRecurseRule(value string) (RecurseRule, error) {
	return recurseRules.parse(value)
}

// RecurseRuleFromCode maps a numeric code onto a RecurseRule.
func RecurseRuleFromCode(code int) (RecurseRule, error) {
	return recurseRules.fromCode(code)
}

// MarshalText implements encoding.TextMarshaler.
func (rule RecurseRule) MarshalText() ([]byte, error) {
	return []byte(rule.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (rule *RecurseRule) UnmarshalText(data []byte) error {
	parsed, parseError := ParseRecurseRule(string(data))
	if parseError != nil {
		return parseError
	}
	*rule = parsed
	return nil
}

// String returns the git configuration spelling of the rule.
func (rule IgnoreRule) String() string {
	return ignoreRules.name(rule)
}

// ParseIgnoreRule converts an ignore value into an IgnoreRule. An empty value yields IgnoreUnspecified.
func ParseIgnoreRule(value string) (IgnoreRule, error) {
	return ignoreRules.parse(value)
}

// IgnoreRuleFromCode maps a numeric code onto an IgnoreRule.
func IgnoreRuleFromCode(code int) (IgnoreRule, error) {
	return ignoreRules.fromCode(code)
}

// MarshalText implements encoding.TextMarshaler.
func (rule IgnoreRule) MarshalText() ([]byte, error) {
	return []byte(rule.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (rule *IgnoreRule) UnmarshalText(data []byte) error {
	parsed, parseError := ParseIgnoreRule(string(data))
	if parseError != nil {
		return parseError
	}
	*rule = parsed
	return nil
}

// String returns the git configuration spelling of the rule.
func (rule UpdateRule) String() string {
	return updateRules.name(rule)
}

// ParseUpdateRule converts an update value into an UpdateRule.
// Custom "!command" strategies are rejected.
func ParseUpdateRule(value string) (UpdateRule, error) {
	return updateRules.parse(value)
}

// UpdateRuleFromCode maps a numeric code onto an UpdateRule.
func UpdateRuleFromCode(code int) (UpdateRule, error) {
	return updateRules.fromCode(code)
}

// MarshalText implements encoding.TextMarshaler.
func (rule UpdateRule) MarshalText() ([]byte, error) {
	return []byte(rule.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (rule *UpdateRule) UnmarshalText(data []byte) error {
	parsed, parseError := ParseUpdateRule(string(data))
	if parseError != nil {
		return parseError
	}
	*rule = parsed
	return nil
}
