package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var fieldIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// SchemaError accumulates every validation failure found in a form definition.
type SchemaError struct {
	Errors []string `json:"errors"`
}

func (e *SchemaError) Error() string {
	return strings.Join(e.Errors, "; ")
}

func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// Validate applies every structural invariant to the form, regardless of where
// the form came from (JSON create, spreadsheet import, AI generation). It
// accumulates all failures instead of stopping at the first.
func (f *Form) Validate() error {
	var errs []string

	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "form name is required")
	}

	if len(f.Fields) == 0 {
		errs = append(errs, "at least one field is required")
	}

	fieldIDs := make(map[string]bool, len(f.Fields))
	for i := range f.Fields {
		field := &f.Fields[i]
		errs = append(errs, validateField(field)...)

		if field.ID == "" {
			continue
		}
		if fieldIDs[field.ID] {
			errs = append(errs, fmt.Sprintf("duplicate field id: %q", field.ID))
		}
		fieldIDs[field.ID] = true
	}

	// Rule references are checked after the id set is complete so that
	// forward references between fields stay legal.
	for i := range f.Fields {
		for j := range f.Fields[i].Rules {
			errs = append(errs, validateRule(&f.Fields[i].Rules[j], fieldIDs)...)
		}
	}
	for i := range f.Rules {
		errs = append(errs, validateRule(&f.Rules[i], fieldIDs)...)
	}

	if len(errs) > 0 {
		return &SchemaError{Errors: errs}
	}
	return nil
}

func validateField(field *FormField) []string {
	var errs []string

	if field.ID == "" {
		errs = append(errs, "field id is required")
	} else if !fieldIDPattern.MatchString(field.ID) {
		errs = append(errs, fmt.Sprintf("field id %q contains invalid characters (use only letters, numbers, underscore)", field.ID))
	}

	if strings.TrimSpace(field.Label) == "" {
		errs = append(errs, fmt.Sprintf("field %q: label is required", field.ID))
	}

	if field.Type == "" {
		errs = append(errs, fmt.Sprintf("field %q: type is required", field.ID))
	} else if !field.Type.Valid() {
		errs = append(errs, fmt.Sprintf("field %q: invalid type %q, allowed: %s", field.ID, field.Type, allowedTypeList()))
	}

	if TypesRequiringOptions[field.Type] && len(field.Options) == 0 {
		errs = append(errs, fmt.Sprintf("field %q of type %q requires at least one option", field.ID, field.Type))
	}

	if field.Type == FieldTypeNumber {
		min, max := numericBound(field, ValidationMin), numericBound(field, ValidationMax)
		if min == nil {
			errs = append(errs, fmt.Sprintf("field %q of type \"number\" requires a min validation", field.ID))
		}
		if max == nil {
			errs = append(errs, fmt.Sprintf("field %q of type \"number\" requires a max validation", field.ID))
		}
		if min != nil && max != nil && *min > *max {
			errs = append(errs, fmt.Sprintf("field %q has min (%v) greater than max (%v)", field.ID, *min, *max))
		}
	}

	return errs
}

func validateRule(rule *FormRule, fieldIDs map[string]bool) []string {
	var errs []string

	if rule.ID == "" {
		errs = append(errs, "rule id is required")
	}
	if rule.Combinator != "" && !rule.Combinator.Valid() {
		errs = append(errs, fmt.Sprintf("rule %q: invalid combinator %q", rule.ID, rule.Combinator))
	}
	if len(rule.Conditions) == 0 {
		errs = append(errs, fmt.Sprintf("rule %q: at least one condition is required", rule.ID))
	}
	if len(rule.Actions) == 0 {
		errs = append(errs, fmt.Sprintf("rule %q: at least one action is required", rule.ID))
	}

	for i := range rule.Conditions {
		errs = append(errs, validateConditionNode(rule.ID, &rule.Conditions[i], fieldIDs)...)
	}

	for _, action := range rule.Actions {
		if !action.Type.Valid() {
			errs = append(errs, fmt.Sprintf("rule %q: invalid action type %q", rule.ID, action.Type))
		}
		if action.TargetFieldID == "" {
			errs = append(errs, fmt.Sprintf("rule %q: action target field id is required", rule.ID))
		} else if !fieldIDs[action.TargetFieldID] {
			errs = append(errs, fmt.Sprintf("rule %q: action references unknown field %q", rule.ID, action.TargetFieldID))
		}
	}

	return errs
}

func validateConditionNode(ruleID string, node *RuleConditionNode, fieldIDs map[string]bool) []string {
	var errs []string

	switch {
	case node.Condition != nil:
		cond := node.Condition
		if !cond.Operator.Valid() {
			errs = append(errs, fmt.Sprintf("rule %q: invalid condition operator %q", ruleID, cond.Operator))
		}
		if cond.FieldID == "" {
			errs = append(errs, fmt.Sprintf("rule %q: condition field id is required", ruleID))
		} else if !fieldIDs[cond.FieldID] {
			errs = append(errs, fmt.Sprintf("rule %q: condition references unknown field %q", ruleID, cond.FieldID))
		}
	case node.Group != nil:
		group := node.Group
		if !group.Operator.Valid() {
			errs = append(errs, fmt.Sprintf("rule %q: invalid group operator %q", ruleID, group.Operator))
		}
		if len(group.Conditions) == 0 {
			errs = append(errs, fmt.Sprintf("rule %q: condition group must not be empty", ruleID))
		}
		for i := range group.Conditions {
			errs = append(errs, validateConditionNode(ruleID, &group.Conditions[i], fieldIDs)...)
		}
	default:
		errs = append(errs, fmt.Sprintf("rule %q: empty condition node", ruleID))
	}

	return errs
}

func numericBound(field *FormField, kind string) *float64 {
	for _, v := range field.Validations {
		if v.Type != kind {
			continue
		}
		switch n := v.Value.(type) {
		case float64:
			return &n
		case int:
			f := float64(n)
			return &f
		}
	}
	return nil
}

func allowedTypeList() string {
	parts := make([]string, len(AllowedFieldTypes))
	for i, t := range AllowedFieldTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
