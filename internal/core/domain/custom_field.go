package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
)

const (
	MaxFieldKeyLength   = 64
	MaxFieldLabelLength = 255
	MaxFieldValueLength = 5000
	FieldDateLayout     = "2006-01-02"
)

var fieldKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// FieldType is the input kind of a custom field.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldSelect      FieldType = "select"
	FieldMultiselect FieldType = "multiselect"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
	FieldBoolean     FieldType = "boolean"
)

// FieldTypes lists every supported field type.
var FieldTypes = []FieldType{
	FieldText,
	FieldTextarea,
	FieldSelect,
	FieldMultiselect,
	FieldNumber,
	FieldDate,
	FieldBoolean,
}

// IsValid reports whether t is a supported field type.
func (t FieldType) IsValid() bool {
	for _, ft := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// HasOptions reports whether values must come from the option list.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldMultiselect
}

// CustomField is an extra ticket attribute. A nil TeamID makes it global.
type CustomField struct {
	ID         uuid.UUID
	Key        string
	Label      string
	Type       FieldType
	TeamID     *uuid.UUID
	Required   bool
	OrderIndex int
	Options    []string
	CreatedAt  time.Time
}

// CustomFieldParams holds the input for defining a field.
type CustomFieldParams struct {
	Key        string
	Label      string
	Type       FieldType
	TeamID     *uuid.UUID
	Required   bool
	OrderIndex int
	Options    []string
}

// Validate validates the field definition.
func (p *CustomFieldParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	if p.Key == "" {
		errs.Add("key", "Key is required")
	} else if len(p.Key) > MaxFieldKeyLength {
		errs.Add("key", "Key must be 64 characters or less")
	} else if !fieldKeyPattern.MatchString(p.Key) {
		errs.Add("key", "Key must start with a letter and contain only lowercase letters, digits and underscores")
	}

	label := strings.TrimSpace(p.Label)
	if label == "" {
		errs.Add("label", "Label is required")
	} else if len(label) > MaxFieldLabelLength {
		errs.Add("label", "Label must be 255 characters or less")
	}

	if !p.Type.IsValid() {
		errs.Add("type", "Invalid field type")
	} else if p.Type.HasOptions() && len(cleanOptions(p.Options)) == 0 {
		errs.Add("options", "At least one option is required")
	}

	if p.OrderIndex < 0 {
		errs.Add("orderIndex", "Order index cannot be negative")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// NewCustomField creates a validated field definition.
func NewCustomField(params CustomFieldParams) (*CustomField, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	field := &CustomField{
		ID:         uuid.New(),
		Key:        params.Key,
		Label:      strings.TrimSpace(params.Label),
		Type:       params.Type,
		TeamID:     params.TeamID,
		Required:   params.Required,
		OrderIndex: params.OrderIndex,
		Options:    []string{},
		CreatedAt:  time.Now().UTC(),
	}
	if params.Type.HasOptions() {
		field.Options = cleanOptions(params.Options)
	}
	return field, nil
}

// AppliesTo reports whether the field is shown on tickets of the given team.
func (f *CustomField) AppliesTo(teamID *uuid.UUID) bool {
	if f.TeamID == nil {
		return true
	}
	return teamID != nil && *f.TeamID == *teamID
}

// NormalizeValue validates raw against the field type and returns the
// stored text form. Multiselect values are stored comma separated.
func (f *CustomField) NormalizeValue(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Required {
			return "", apperrors.NewValidationError(apperrors.ErrInvalidFieldValue, f.Label+" is required", nil)
		}
		return "", nil
	}
	if len(value) > MaxFieldValueLength {
		return "", f.invalid("value is too long")
	}

	switch f.Type {
	case FieldText, FieldTextarea:
		return value, nil
	case FieldNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "", f.invalid("must be a number")
		}
		return value, nil
	case FieldDate:
		if _, err := time.Parse(FieldDateLayout, value); err != nil {
			return "", f.invalid("must be a date in YYYY-MM-DD format")
		}
		return value, nil
	case FieldBoolean:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", f.invalid("must be true or false")
		}
		return strconv.FormatBool(b), nil
	case FieldSelect:
		if !f.hasOption(value) {
			return "", f.invalid("must be one of the field options")
		}
		return value, nil
	case FieldMultiselect:
		selected := cleanOptions(strings.Split(value, ","))
		for _, option := range selected {
			if !f.hasOption(option) {
				return "", f.invalid("contains an unknown option: " + option)
			}
		}
		return strings.Join(selected, ","), nil
	default:
		return "", apperrors.ErrInvalidFieldType
	}
}

func (f *CustomField) hasOption(value string) bool {
	for _, option := range f.Options {
		if option == value {
			return true
		}
	}
	return false
}

func (f *CustomField) invalid(reason string) error {
	return apperrors.NewValidationError(
		apperrors.ErrInvalidFieldValue,
		f.Label+" "+reason,
		map[string]interface{}{"field": f.Key},
	)
}

// cleanOptions trims options and drops blanks and duplicates, keeping order.
func cleanOptions(options []string) []string {
	seen := make(map[string]bool, len(options))
	cleaned := make([]string, 0, len(options))
	for _, option := range options {
		option = strings.TrimSpace(option)
		if option == "" || seen[option] {
			continue
		}
		seen[option] = true
		cleaned = append(cleaned, option)
	}
	return cleaned
}

// CustomFieldValue is the stored value of a field on a ticket.
type CustomFieldValue struct {
	ID        uuid.UUID
	TicketID  uuid.UUID
	FieldID   uuid.UUID
	Value     string
	UpdatedAt time.Time
}

// TicketField pairs an applicable field with the ticket's value, if any.
type TicketField struct {
	Field *CustomField
	Value *CustomFieldValue
}
