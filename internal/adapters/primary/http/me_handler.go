package http

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// PermissionsResponse defines the JSON response for user permissions.
type PermissionsResponse struct {
	Permissions []string `json:"permissions"`
}

// MeHandler handles HTTP requests for the authenticated user.
type MeHandler struct {
	profileService ports.ProfileService
	authzService   ports.AuthorizationService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(
	profileService ports.ProfileService,
	authzService ports.AuthorizationService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *MeHandler {
	return &MeHandler{
		profileService: profileService,
		authzService:   authzService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "me"),
	}
}

// RegisterRoutes registers the /me routes.
func (h *MeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetMe)
	r.Patch("/", h.HandleUpdateMe)
	r.Get("/permissions", h.HandlePermissions)
}

// UpdateMeRequest defines the expected JSON body for PATCH /me.
// An omitted field keeps its value; "teamId": null leaves the team.
type UpdateMeRequest struct {
	FullName *string      `json:"fullName"`
	TeamID   nullableUUID `json:"teamId"`
}

// HandleGetMe handles GET /me.
func (h *MeHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toProfileDTO(profile))
}

// HandleUpdateMe handles PATCH /me.
func (h *MeHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateMeRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	v := validation.NewValidator()
	teamID := req.TeamID.parse(v, "teamId")
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	current, err := h.profileService.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := domain.ProfileUpdateParams{
		FullName: current.FullName,
		TeamID:   current.TeamID,
	}
	if req.FullName != nil {
		params.FullName = *req.FullName
	}
	if req.TeamID.Set {
		params.TeamID = teamID
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), claims.UserID, params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "profile updated", "profile_id", profile.ID)

	WriteJSON(w, http.StatusOK, toProfileDTO(profile))
}

// HandlePermissions handles GET /me/permissions.
func (h *MeHandler) HandlePermissions(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	permissions, err := h.authzService.GetPermissions(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if permissions == nil {
		permissions = []string{}
	}

	sort.Strings(permissions)

	WriteJSON(w, http.StatusOK, PermissionsResponse{
		Permissions: permissions,
	})
}
