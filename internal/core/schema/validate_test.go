package schema

import (
	"strings"
	"testing"
)

func validForm() *Form {
	return &Form{
		Name: "Contact",
		Fields: []FormField{
			{
				ID:    "name",
				Type:  FieldTypeText,
				Label: "Name",
				Validations: []Validation{
					{Type: ValidationRequired, Value: true},
				},
			},
			{
				ID:    "rating",
				Type:  FieldTypeNumber,
				Label: "Rating",
				Validations: []Validation{
					{Type: ValidationMin, Value: float64(1)},
					{Type: ValidationMax, Value: float64(5)},
				},
			},
			{
				ID:    "country",
				Type:  FieldTypeSelect,
				Label: "Country",
				Options: []FieldOption{
					{Label: "Serbia", Value: "rs"},
				},
			},
		},
	}
}

func assertHasError(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error containing %q, got nil", substr)
	}
	se, ok := err.(*SchemaError)
	if !ok {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	for _, msg := range se.Errors {
		if strings.Contains(msg, substr) {
			return
		}
	}
	t.Errorf("no error containing %q in %v", substr, se.Errors)
}

func TestValidate_ValidForm(t *testing.T) {
	if err := validForm().Validate(); err != nil {
		t.Errorf("valid form should pass: %v", err)
	}
}

func TestValidate_MissingName(t *testing.T) {
	f := validForm()
	f.Name = "  "
	assertHasError(t, f.Validate(), "form name is required")
}

func TestValidate_NoFields(t *testing.T) {
	f := &Form{Name: "Empty"}
	assertHasError(t, f.Validate(), "at least one field is required")
}

func TestValidate_DuplicateFieldIDs(t *testing.T) {
	f := validForm()
	f.Fields = append(f.Fields, FormField{ID: "name", Type: FieldTypeText, Label: "Name again"})
	assertHasError(t, f.Validate(), `duplicate field id: "name"`)
}

func TestValidate_InvalidFieldID(t *testing.T) {
	f := validForm()
	f.Fields[0].ID = "has space"
	assertHasError(t, f.Validate(), "invalid characters")
}

func TestValidate_InvalidFieldType(t *testing.T) {
	f := validForm()
	f.Fields[0].Type = "password"
	assertHasError(t, f.Validate(), `invalid type "password"`)
}

func TestValidate_SelectWithoutOptions(t *testing.T) {
	f := validForm()
	f.Fields[2].Options = nil
	assertHasError(t, f.Validate(), "requires at least one option")
}

func TestValidate_NumberWithoutBounds(t *testing.T) {
	f := validForm()
	f.Fields[1].Validations = nil
	assertHasError(t, f.Validate(), "requires a min validation")
	assertHasError(t, f.Validate(), "requires a max validation")
}

func TestValidate_NumberMinGreaterThanMax(t *testing.T) {
	f := validForm()
	f.Fields[1].Validations = []Validation{
		{Type: ValidationMin, Value: float64(10)},
		{Type: ValidationMax, Value: float64(5)},
	}
	assertHasError(t, f.Validate(), "min (10) greater than max (5)")
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	f := &Form{
		Fields: []FormField{
			{ID: "", Type: "bogus", Label: ""},
		},
	}
	err := f.Validate()
	se, ok := err.(*SchemaError)
	if !ok {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	// name, field id, label, type: every failure is reported at once
	if len(se.Errors) < 4 {
		t.Errorf("expected at least 4 accumulated errors, got %d: %v", len(se.Errors), se.Errors)
	}
}

// Rule validation

func ruleOn(fieldID, target string) FormRule {
	return FormRule{
		ID: "r1",
		Conditions: []RuleConditionNode{
			{Condition: &RuleCondition{FieldID: fieldID, Operator: OperatorEquals, Value: "x"}},
		},
		Actions: []RuleAction{
			{TargetFieldID: target, Type: ActionShow},
		},
	}
}

func TestValidate_RuleReferencesKnownFields(t *testing.T) {
	f := validForm()
	f.Rules = []FormRule{ruleOn("name", "rating")}
	if err := f.Validate(); err != nil {
		t.Errorf("rule over existing fields should pass: %v", err)
	}
}

func TestValidate_RuleConditionUnknownField(t *testing.T) {
	f := validForm()
	f.Rules = []FormRule{ruleOn("ghost", "rating")}
	assertHasError(t, f.Validate(), `condition references unknown field "ghost"`)
}

func TestValidate_RuleActionUnknownField(t *testing.T) {
	f := validForm()
	f.Rules = []FormRule{ruleOn("name", "ghost")}
	assertHasError(t, f.Validate(), `action references unknown field "ghost"`)
}

func TestValidate_RuleInvalidOperator(t *testing.T) {
	f := validForm()
	rule := ruleOn("name", "rating")
	rule.Conditions[0].Condition.Operator = "matches"
	f.Rules = []FormRule{rule}
	assertHasError(t, f.Validate(), `invalid condition operator "matches"`)
}

func TestValidate_RuleInvalidCombinator(t *testing.T) {
	f := validForm()
	rule := ruleOn("name", "rating")
	rule.Combinator = "xor"
	f.Rules = []FormRule{rule}
	assertHasError(t, f.Validate(), `invalid combinator "xor"`)
}

func TestValidate_RuleEmptyCombinatorAllowed(t *testing.T) {
	// An unset combinator means "and" and must not be flagged.
	f := validForm()
	f.Rules = []FormRule{ruleOn("name", "rating")}
	if err := f.Validate(); err != nil {
		t.Errorf("empty combinator should default silently: %v", err)
	}
}

func TestValidate_RuleWithoutConditionsOrActions(t *testing.T) {
	f := validForm()
	f.Rules = []FormRule{{ID: "empty"}}
	assertHasError(t, f.Validate(), "at least one condition is required")
	assertHasError(t, f.Validate(), "at least one action is required")
}

func TestValidate_NestedGroupValidation(t *testing.T) {
	f := validForm()
	f.Rules = []FormRule{{
		ID: "grouped",
		Conditions: []RuleConditionNode{
			{Group: &RuleConditionGroup{
				Operator: GroupOr,
				Conditions: []RuleConditionNode{
					{Condition: &RuleCondition{FieldID: "name", Operator: OperatorEquals, Value: "a"}},
					{Condition: &RuleCondition{FieldID: "missing", Operator: OperatorEquals, Value: "b"}},
				},
			}},
		},
		Actions: []RuleAction{{TargetFieldID: "rating", Type: ActionHide}},
	}}
	assertHasError(t, f.Validate(), `condition references unknown field "missing"`)
}

func TestValidate_EmptyGroup(t *testing.T) {
	f := validForm()
	f.Rules = []FormRule{{
		ID: "grouped",
		Conditions: []RuleConditionNode{
			{Group: &RuleConditionGroup{Operator: GroupAnd}},
		},
		Actions: []RuleAction{{TargetFieldID: "rating", Type: ActionHide}},
	}}
	assertHasError(t, f.Validate(), "condition group must not be empty")
}

func TestValidate_FieldLevelRulesChecked(t *testing.T) {
	f := validForm()
	f.Fields[0].Rules = []FormRule{ruleOn("name", "ghost")}
	assertHasError(t, f.Validate(), `action references unknown field "ghost"`)
}

func TestIsSchemaError(t *testing.T) {
	if !IsSchemaError(&SchemaError{Errors: []string{"x"}}) {
		t.Error("IsSchemaError should recognize *SchemaError")
	}
	if IsSchemaError(nil) {
		t.Error("IsSchemaError should reject nil")
	}
}
