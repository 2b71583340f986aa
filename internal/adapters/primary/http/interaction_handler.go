package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// InteractionHandler handles HTTP requests for ticket interactions.
type InteractionHandler struct {
	interactionService ports.InteractionService
	errorHandler       *ErrorHandler
	logger             *slog.Logger
}

// NewInteractionHandler creates a new interaction handler.
func NewInteractionHandler(
	interactionService ports.InteractionService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
		errorHandler:       errorHandler,
		logger:             logger.With("handler", "interaction"),
	}
}

// RegisterRoutes registers the interaction endpoints.
// These routes are relative to /api/v1/tickets/{ticketID}/interactions
func (h *InteractionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleAddInteraction)
	r.Get("/", h.HandleListInteractions)
	r.Get("/history", h.HandleHistory)
}

// --- Request DTOs ---

// AddInteractionRequest defines the expected JSON body for posting an interaction
type AddInteractionRequest struct {
	Content string `json:"content"`
}

// Validate validates the add interaction request
func (r *AddInteractionRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("content", r.Content).
		MaxLength("content", r.Content, domain.MaxContentLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// InteractionDTO defines the JSON response for interactions.
type InteractionDTO struct {
	ID        string      `json:"id"`
	TicketID  string      `json:"ticketId"`
	Author    UserInfoDTO `json:"author"`
	Type      string      `json:"type"`
	Content   string      `json:"content"`
	CreatedAt string      `json:"createdAt"`
}

func toInteractionDTO(interaction *domain.Interaction) InteractionDTO {
	return InteractionDTO{
		ID:        interaction.ID.String(),
		TicketID:  interaction.TicketID.String(),
		Author:    toUserInfoDTO(interaction.AuthorID, interaction.AuthorName),
		Type:      string(interaction.Type),
		Content:   interaction.Content,
		CreatedAt: formatTime(interaction.CreatedAt),
	}
}

// AuthorSummaryDTO defines one row of the interaction history.
type AuthorSummaryDTO struct {
	AuthorID          string `json:"authorId"`
	AuthorName        string `json:"authorName"`
	Count             int    `json:"count"`
	LastInteractionAt string `json:"lastInteractionAt"`
}

// --- Handlers ---

// HandleAddInteraction handles POST /tickets/{ticketID}/interactions
func (h *InteractionHandler) HandleAddInteraction(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[AddInteractionRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	interaction, err := h.interactionService.AddInteraction(r.Context(), ports.AddInteractionParams{
		TicketID: ticketID,
		ActorID:  claims.UserID,
		Content:  req.Content,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "interaction added",
		"interaction_id", interaction.ID,
		"ticket_id", ticketID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toInteractionDTO(interaction))
}

// HandleListInteractions handles GET /tickets/{ticketID}/interactions
func (h *InteractionHandler) HandleListInteractions(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	interactions, err := h.interactionService.ListInteractions(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]InteractionDTO, 0, len(interactions))
	for _, interaction := range interactions {
		response = append(response, toInteractionDTO(interaction))
	}

	WriteList(w, response)
}

// HandleHistory handles GET /tickets/{ticketID}/interactions/history
func (h *InteractionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	summaries, err := h.interactionService.SummarizeHistory(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]AuthorSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, AuthorSummaryDTO{
			AuthorID:          summary.AuthorID.String(),
			AuthorName:        summary.AuthorName,
			Count:             summary.Count,
			LastInteractionAt: formatTime(summary.LastInteractionAt),
		})
	}

	WriteList(w, response)
}
