package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/lorrc/aegis-helpdesk/internal/adapters/primary/http/middleware"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/aegis-helpdesk/internal/auth"
)

// getClaims extracts the authenticated caller, writing a 401 when absent.
func getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

// parseUUIDParam reads a UUID path parameter.
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	v := validation.NewValidator()
	id := validation.ParseUUID(v, name, chi.URLParam(r, name))
	if v.HasErrors() {
		return uuid.Nil, v.Errors()
	}
	return id, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	value := id.String()
	return &value
}

// nullableUUID distinguishes an omitted JSON field from an explicit null.
type nullableUUID struct {
	Set   bool
	Value *string
}

func (n *nullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

// parse returns the referenced id, or nil for an explicit null.
func (n nullableUUID) parse(v *validation.Validator, field string) *uuid.UUID {
	if !n.Set || n.Value == nil {
		return nil
	}
	id := validation.ParseUUID(v, field, *n.Value)
	return &id
}
