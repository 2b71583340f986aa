package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

const (
	maxTicketsPerPage  = 100
	defaultEventsLimit = 50
	maxEventsLimit     = 200
)

// TicketHandler handles HTTP requests for tickets
type TicketHandler struct {
	ticketService      ports.TicketService
	eventService       ports.EventService
	interactionHandler *InteractionHandler
	fieldHandler       *CustomFieldHandler
	errorHandler       *ErrorHandler
	logger             *slog.Logger
}

// NewTicketHandler creates a new ticket handler. The interaction and
// field handlers are mounted under each ticket when non-nil.
func NewTicketHandler(
	ticketService ports.TicketService,
	eventService ports.EventService,
	interactionHandler *InteractionHandler,
	fieldHandler *CustomFieldHandler,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService:      ticketService,
		eventService:       eventService,
		interactionHandler: interactionHandler,
		fieldHandler:       fieldHandler,
		errorHandler:       errorHandler,
		logger:             logger.With("handler", "ticket"),
	}
}

// RegisterRoutes sets up the routing for all ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTickets)
	r.Post("/", h.HandleCreateTicket)

	r.Route("/{ticketID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTicket)
		r.Patch("/", h.HandleUpdateTicket)
		r.Get("/events", h.HandleListTicketEvents)

		if h.interactionHandler != nil {
			r.Route("/interactions", h.interactionHandler.RegisterRoutes)
		}
		if h.fieldHandler != nil {
			r.Route("/custom-fields", h.fieldHandler.RegisterTicketRoutes)
		}
	})
}

// --- Request/Response DTOs ---

// CreateTicketRequest defines the expected JSON body for creating a ticket
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	PrimaryType string  `json:"primaryType"`
	Type        string  `json:"type"`
	TeamID      *string `json:"teamId"`

	priority domain.TicketPriority
	teamID   *uuid.UUID
}

// Validate validates the create ticket request
func (r *CreateTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MaxLength("title", r.Title, domain.MaxTitleLength)

	v.MaxLength("description", r.Description, domain.MaxDescriptionLength)
	v.MaxLength("primaryType", r.PrimaryType, domain.MaxTypeLength)
	v.MaxLength("type", r.Type, domain.MaxTypeLength)

	if r.Priority != "" {
		priority, ok := domain.ParseTicketPriority(r.Priority)
		v.Custom("priority", ok, "Must be one of: low, medium, high, urgent")
		r.priority = priority
	}

	r.teamID = validation.ParseOptionalUUID(v, "teamId", r.TeamID)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateTicketRequest defines the expected JSON body for PATCH /tickets/{id}.
// Omitted fields are left unchanged; a null team or assignee clears it.
type UpdateTicketRequest struct {
	Status     *string      `json:"status"`
	Priority   *string      `json:"priority"`
	TeamID     nullableUUID `json:"teamId"`
	AssigneeID nullableUUID `json:"assigneeId"`
}

// toParams validates the request and converts it to service params.
func (r *UpdateTicketRequest) toParams(ticketID, actorID uuid.UUID) (ports.UpdateTicketParams, error) {
	v := validation.NewValidator()
	params := ports.UpdateTicketParams{
		TicketID: ticketID,
		ActorID:  actorID,
	}

	if r.Status != nil {
		status, ok := domain.ParseTicketStatus(*r.Status)
		v.Custom("status", ok, "Must be one of: open, in_progress, awaiting_customer, resolved, closed")
		params.Status = &status
	}

	if r.Priority != nil {
		priority, ok := domain.ParseTicketPriority(*r.Priority)
		v.Custom("priority", ok, "Must be one of: low, medium, high, urgent")
		params.Priority = &priority
	}

	if r.TeamID.Set {
		params.TeamID = r.TeamID.parse(v, "teamId")
		params.ClearTeam = params.TeamID == nil
	}

	if r.AssigneeID.Set {
		params.AssigneeID = r.AssigneeID.parse(v, "assigneeId")
		params.ClearAssignee = params.AssigneeID == nil
	}

	if v.HasErrors() {
		return params, v.Errors()
	}
	return params, nil
}

// TicketDTO defines the JSON response for tickets.
type TicketDTO struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	PrimaryType string       `json:"primaryType"`
	Type        string       `json:"type"`
	TeamID      *string      `json:"teamId"`
	TeamName    string       `json:"teamName,omitempty"`
	Creator     UserInfoDTO  `json:"creator"`
	Assignee    *UserInfoDTO `json:"assignee"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

func toTicketDTO(ticket *domain.Ticket) TicketDTO {
	return TicketDTO{
		ID:          ticket.ID.String(),
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		PrimaryType: ticket.PrimaryType,
		Type:        ticket.Type,
		TeamID:      uuidString(ticket.TeamID),
		TeamName:    ticket.TeamName,
		Creator:     toUserInfoDTO(ticket.CreatedBy, ticket.CreatorName),
		Assignee:    optionalUserInfo(ticket.AssignedTo, ticket.AssigneeName),
		CreatedAt:   formatTime(ticket.CreatedAt),
		UpdatedAt:   formatTime(ticket.UpdatedAt),
	}
}

func toTicketDTOs(tickets []*domain.Ticket) []TicketDTO {
	response := make([]TicketDTO, 0, len(tickets))
	for _, ticket := range tickets {
		response = append(response, toTicketDTO(ticket))
	}
	return response
}

// --- Handlers ---

// HandleListTickets handles GET /tickets
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxTicketsPerPage)
	v := validation.NewValidator()

	params := ports.ListTicketsParams{
		ViewerID: claims.UserID,
		Limit:    pagination.Limit,
		Offset:   pagination.Offset,
	}

	if raw := validation.ParseStringQueryParam(r, "status"); raw != nil {
		status, ok := domain.ParseTicketStatus(*raw)
		v.Custom("status", ok, "Invalid status filter")
		params.Status = &status
	}

	if raw := validation.ParseStringQueryParam(r, "priority"); raw != nil {
		priority, ok := domain.ParseTicketPriority(*raw)
		v.Custom("priority", ok, "Invalid priority filter")
		params.Priority = &priority
	}

	params.TeamID = validation.ParseUUIDQueryParam(v, r, "teamId")

	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	// The service fetches one extra row so the response can report hasMore.
	tickets, err := h.ticketService.ListTickets(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginatedSimple(w, toTicketDTOs(tickets), pagination.Limit, pagination.Offset)
}

// HandleCreateTicket handles POST /tickets
func (h *TicketHandler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateTicketParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.priority,
		PrimaryType: req.PrimaryType,
		Type:        req.Type,
		TeamID:      req.teamID,
		ActorID:     claims.UserID,
	}

	ticket, err := h.ticketService.CreateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "ticket created",
		"ticket_id", ticket.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toTicketDTO(ticket))
}

// HandleGetTicket handles GET /tickets/{ticketID}
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.GetTicket(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleUpdateTicket handles PATCH /tickets/{ticketID}
func (h *TicketHandler) HandleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params, err := req.toParams(ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.UpdateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "ticket updated",
		"ticket_id", ticketID,
		"status", ticket.Status,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// TicketEventsResponse defines the JSON response for ticket events.
type TicketEventsResponse struct {
	Data       []*domain.Event `json:"data"`
	NextCursor *int64          `json:"nextCursor,omitempty"`
}

// HandleListTicketEvents handles GET /tickets/{ticketID}/events
func (h *TicketHandler) HandleListTicketEvents(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	afterID, limit, err := parseEventQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.ListTicketEventsParams{
		TicketID: ticketID,
		ViewerID: claims.UserID,
		AfterID:  afterID,
		Limit:    limit,
	}

	events, err := h.eventService.ListTicketEvents(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var nextCursor *int64
	if len(events) == limit {
		cursor := events[len(events)-1].ID
		nextCursor = &cursor
	}

	WriteJSON(w, http.StatusOK, TicketEventsResponse{
		Data:       events,
		NextCursor: nextCursor,
	})
}

func parseEventQuery(r *http.Request) (int64, int, error) {
	v := validation.NewValidator()

	afterID := int64(0)
	if afterStr := r.URL.Query().Get("after"); afterStr != "" {
		parsed, err := strconv.ParseInt(afterStr, 10, 64)
		if err != nil || parsed < 0 {
			v.Custom("after", false, "after must be a positive integer")
		} else {
			afterID = parsed
		}
	}

	limit := defaultEventsLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			v.Custom("limit", false, "limit must be a positive integer")
		} else {
			limit = parsed
		}
	}

	if limit > maxEventsLimit {
		v.Custom("limit", false, "limit exceeds maximum")
	}

	if v.HasErrors() {
		return 0, 0, v.Errors()
	}

	return afterID, limit, nil
}
