package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// CustomFieldHandler handles field definitions and per-ticket values.
type CustomFieldHandler struct {
	fieldService ports.CustomFieldService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewCustomFieldHandler creates a new custom field handler.
func NewCustomFieldHandler(fieldService ports.CustomFieldService, errorHandler *ErrorHandler, logger *slog.Logger) *CustomFieldHandler {
	return &CustomFieldHandler{
		fieldService: fieldService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "custom_field"),
	}
}

// RegisterRoutes registers the /custom-fields definition routes.
func (h *CustomFieldHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListFields)
	r.Post("/", h.HandleCreateField)
	r.Put("/{fieldID}", h.HandleUpdateField)
	r.Delete("/{fieldID}", h.HandleDeleteField)
}

// RegisterTicketRoutes registers the value routes relative to
// /tickets/{ticketID}/custom-fields.
func (h *CustomFieldHandler) RegisterTicketRoutes(r chi.Router) {
	r.Get("/", h.HandleGetTicketFields)
	r.Put("/{fieldID}", h.HandleSetTicketFieldValue)
}

// --- Request/Response DTOs ---

// FieldRequest defines the JSON body for creating or replacing a field.
type FieldRequest struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Type       string   `json:"type"`
	TeamID     *string  `json:"teamId"`
	Required   bool     `json:"required"`
	OrderIndex int      `json:"orderIndex"`
	Options    []string `json:"options"`
}

func (r *FieldRequest) toParams() (domain.CustomFieldParams, error) {
	v := validation.NewValidator()

	v.Required("key", r.Key).
		MaxLength("key", r.Key, domain.MaxFieldKeyLength)
	v.Required("label", r.Label).
		MaxLength("label", r.Label, domain.MaxFieldLabelLength)
	v.Required("type", r.Type)
	teamID := validation.ParseOptionalUUID(v, "teamId", r.TeamID)

	if v.HasErrors() {
		return domain.CustomFieldParams{}, v.Errors()
	}

	return domain.CustomFieldParams{
		Key:        r.Key,
		Label:      r.Label,
		Type:       domain.FieldType(r.Type),
		TeamID:     teamID,
		Required:   r.Required,
		OrderIndex: r.OrderIndex,
		Options:    r.Options,
	}, nil
}

// SetFieldValueRequest defines the JSON body for setting a ticket's field value.
type SetFieldValueRequest struct {
	Value string `json:"value"`
}

// CustomFieldDTO defines the JSON response for field definitions.
type CustomFieldDTO struct {
	ID         string   `json:"id"`
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Type       string   `json:"type"`
	TeamID     *string  `json:"teamId"`
	Required   bool     `json:"required"`
	OrderIndex int      `json:"orderIndex"`
	Options    []string `json:"options"`
	CreatedAt  string   `json:"createdAt"`
}

func toCustomFieldDTO(field *domain.CustomField) CustomFieldDTO {
	options := field.Options
	if options == nil {
		options = []string{}
	}
	return CustomFieldDTO{
		ID:         field.ID.String(),
		Key:        field.Key,
		Label:      field.Label,
		Type:       string(field.Type),
		TeamID:     uuidString(field.TeamID),
		Required:   field.Required,
		OrderIndex: field.OrderIndex,
		Options:    options,
		CreatedAt:  formatTime(field.CreatedAt),
	}
}

// FieldValueDTO defines the JSON response for a stored value.
type FieldValueDTO struct {
	FieldID   string `json:"fieldId"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updatedAt"`
}

func toFieldValueDTO(value *domain.CustomFieldValue) FieldValueDTO {
	return FieldValueDTO{
		FieldID:   value.FieldID.String(),
		Value:     value.Value,
		UpdatedAt: formatTime(value.UpdatedAt),
	}
}

// TicketFieldDTO pairs a field definition with the ticket's value, if any.
type TicketFieldDTO struct {
	Field CustomFieldDTO `json:"field"`
	Value *string        `json:"value"`
}

// --- Handlers ---

// HandleListFields handles GET /custom-fields?teamId=
func (h *CustomFieldHandler) HandleListFields(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	v := validation.NewValidator()
	teamID := validation.ParseUUIDQueryParam(v, r, "teamId")
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	fields, err := h.fieldService.ListFields(r.Context(), claims.UserID, teamID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]CustomFieldDTO, 0, len(fields))
	for _, field := range fields {
		response = append(response, toCustomFieldDTO(field))
	}

	WriteList(w, response)
}

// HandleCreateField handles POST /custom-fields
func (h *CustomFieldHandler) HandleCreateField(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[FieldRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params, err := req.toParams()
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	field, err := h.fieldService.CreateField(r.Context(), claims.UserID, params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "custom field created",
		"field_id", field.ID,
		"key", field.Key,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toCustomFieldDTO(field))
}

// HandleUpdateField handles PUT /custom-fields/{fieldID}
func (h *CustomFieldHandler) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	fieldID, err := parseUUIDParam(r, "fieldID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[FieldRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params, err := req.toParams()
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	field, err := h.fieldService.UpdateField(r.Context(), claims.UserID, fieldID, params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toCustomFieldDTO(field))
}

// HandleDeleteField handles DELETE /custom-fields/{fieldID}
func (h *CustomFieldHandler) HandleDeleteField(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	fieldID, err := parseUUIDParam(r, "fieldID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.fieldService.DeleteField(r.Context(), claims.UserID, fieldID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "custom field deleted",
		"field_id", fieldID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleGetTicketFields handles GET /tickets/{ticketID}/custom-fields
func (h *CustomFieldHandler) HandleGetTicketFields(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	fields, err := h.fieldService.GetTicketFields(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]TicketFieldDTO, 0, len(fields))
	for _, tf := range fields {
		dto := TicketFieldDTO{Field: toCustomFieldDTO(tf.Field)}
		if tf.Value != nil {
			value := tf.Value.Value
			dto.Value = &value
		}
		response = append(response, dto)
	}

	WriteList(w, response)
}

// HandleSetTicketFieldValue handles PUT /tickets/{ticketID}/custom-fields/{fieldID}
func (h *CustomFieldHandler) HandleSetTicketFieldValue(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	fieldID, err := parseUUIDParam(r, "fieldID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[SetFieldValueRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	value, err := h.fieldService.SetTicketFieldValue(r.Context(), ports.SetFieldValueParams{
		TicketID: ticketID,
		FieldID:  fieldID,
		Value:    req.Value,
		ActorID:  claims.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toFieldValueDTO(value))
}
