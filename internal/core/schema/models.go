package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FieldType enumerates the supported form field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDate     FieldType = "date"
)

var AllowedFieldTypes = []FieldType{
	FieldTypeText, FieldTypeEmail, FieldTypeNumber, FieldTypeTextarea,
	FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox, FieldTypeDate,
}

func (t FieldType) Valid() bool {
	for _, allowed := range AllowedFieldTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// TypesRequiringOptions lists field types that must carry at least one option.
var TypesRequiringOptions = map[FieldType]bool{
	FieldTypeSelect: true,
	FieldTypeRadio:  true,
}

// FieldOption is a selectable choice for select/radio/checkbox fields.
type FieldOption struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Validation is an open-ended constraint entry, e.g. {"type":"min","value":5}.
type Validation struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

const (
	ValidationRequired = "required"
	ValidationMin      = "min"
	ValidationMax      = "max"
)

type RuleConditionOperator string

const (
	OperatorEquals      RuleConditionOperator = "equals"
	OperatorNotEquals   RuleConditionOperator = "notEquals"
	OperatorGreaterThan RuleConditionOperator = "greaterThan"
	OperatorLessThan    RuleConditionOperator = "lessThan"
	OperatorContains    RuleConditionOperator = "contains"
)

func (o RuleConditionOperator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorGreaterThan, OperatorLessThan, OperatorContains:
		return true
	}
	return false
}

type RuleActionType string

const (
	ActionShow        RuleActionType = "show"
	ActionHide        RuleActionType = "hide"
	ActionEnable      RuleActionType = "enable"
	ActionDisable     RuleActionType = "disable"
	ActionSetRequired RuleActionType = "setRequired"
)

func (t RuleActionType) Valid() bool {
	switch t {
	case ActionShow, ActionHide, ActionEnable, ActionDisable, ActionSetRequired:
		return true
	}
	return false
}

// RuleCondition compares another field's value against a constant.
type RuleCondition struct {
	FieldID  string                `json:"fieldId"`
	Operator RuleConditionOperator `json:"operator"`
	Value    any                   `json:"value"`
}

// RuleConditionGroup combines nested conditions with a boolean operator.
type RuleConditionGroup struct {
	Operator   GroupOperator       `json:"operator"`
	Conditions []RuleConditionNode `json:"conditions"`
}

type GroupOperator string

const (
	GroupAnd GroupOperator = "and"
	GroupOr  GroupOperator = "or"
)

func (o GroupOperator) Valid() bool {
	return o == GroupAnd || o == GroupOr
}

// RuleConditionNode is either a leaf condition or a nested group. Exactly one
// of Condition and Group is set.
type RuleConditionNode struct {
	Condition *RuleCondition
	Group     *RuleConditionGroup
}

func (n RuleConditionNode) MarshalJSON() ([]byte, error) {
	switch {
	case n.Condition != nil:
		return json.Marshal(n.Condition)
	case n.Group != nil:
		return json.Marshal(n.Group)
	}
	return nil, fmt.Errorf("empty rule condition node")
}

func (n *RuleConditionNode) UnmarshalJSON(data []byte) error {
	// Groups carry a "conditions" key, leaves carry "fieldId".
	var probe struct {
		Conditions json.RawMessage `json:"conditions"`
		FieldID    json.RawMessage `json:"fieldId"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.Conditions != nil {
		group := &RuleConditionGroup{}
		if err := json.Unmarshal(data, group); err != nil {
			return err
		}
		n.Group = group
		return nil
	}

	if probe.FieldID != nil {
		cond := &RuleCondition{}
		if err := json.Unmarshal(data, cond); err != nil {
			return err
		}
		n.Condition = cond
		return nil
	}

	return fmt.Errorf("rule condition node must contain either 'fieldId' or 'conditions'")
}

// RuleAction mutates a target field's presentation state when the owning
// rule's condition tree evaluates true on the client.
type RuleAction struct {
	TargetFieldID string         `json:"targetFieldId"`
	Type          RuleActionType `json:"type"`
	Value         any            `json:"value,omitempty"`
}

// FormRule ties a condition tree to a list of actions. Combinator says how the
// top-level conditions list is joined; empty means "and".
type FormRule struct {
	ID          string              `json:"id"`
	Description string              `json:"description,omitempty"`
	Combinator  GroupOperator       `json:"combinator,omitempty"`
	Conditions  []RuleConditionNode `json:"conditions"`
	Actions     []RuleAction        `json:"actions"`
}

// FormField is a single input in a form. Field order is display order.
type FormField struct {
	ID          string        `json:"id"`
	Type        FieldType     `json:"type"`
	Label       string        `json:"label"`
	Placeholder string        `json:"placeholder,omitempty"`
	Options     []FieldOption `json:"options"`
	Validations []Validation  `json:"validations"`
	Rules       []FormRule    `json:"rules"`
}

// Required reports whether the field carries a required validation entry.
func (f *FormField) Required() bool {
	for _, v := range f.Validations {
		if v.Type != ValidationRequired {
			continue
		}
		if b, ok := v.Value.(bool); ok {
			return b
		}
		return true
	}
	return false
}

type Theme struct {
	PrimaryColor    string `json:"primaryColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
}

// Form is the full declarative definition of a form.
type Form struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Fields         []FormField `json:"fields"`
	Rules          []FormRule  `json:"rules"`
	Theme          *Theme      `json:"theme,omitempty"`
	OwnerID        *uuid.UUID  `json:"owner_id,omitempty"`
	OrganizationID *uuid.UUID  `json:"organization_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// FieldByID looks a field up by its id, preserving nothing about order.
func (f *Form) FieldByID(id string) *FormField {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i]
		}
	}
	return nil
}
