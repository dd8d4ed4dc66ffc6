package handlers

import (
	"net/http"

	"date-journal-backend/internal/middleware"
	"date-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// InvitationHandler handles invitation-related HTTP requests
type InvitationHandler struct {
	invitationService *services.InvitationService
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// ListInvitations handles GET /api/v1/invitations
func (h *InvitationHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.invitationService.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "Failed to list invitations")
		return
	}
	respondJSON(w, map[string]interface{}{"invitations": invitations}, http.StatusOK)
}

// CreateInvitation handles POST /api/v1/invitations
func (h *InvitationHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := middleware.GetIdentity(ctx)

	var req services.CreateInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	inv, err := h.invitationService.Create(ctx, actor, req)
	if err != nil {
		handleServiceError(w, r, err, "Failed to create invitation")
		return
	}

	log.Info().
		Str("from", inv.From.String()).
		Str("to", inv.To.String()).
		Str("invitation_id", inv.ID).
		Msg("Invitation sent")

	respondJSON(w, inv, http.StatusCreated)
}

// AcceptInvitationRequest represents the request body for accepting an
// invitation
type AcceptInvitationRequest struct {
	Note string `json:"note"`
}

// AcceptInvitation handles POST /api/v1/invitations/{id}/accept
func (h *InvitationHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := middleware.GetIdentity(ctx)

	var req AcceptInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	inv, date, err := h.invitationService.Accept(ctx, chi.URLParam(r, "id"), actor, req.Note)
	if err != nil {
		handleServiceError(w, r, err, "Failed to accept invitation")
		return
	}

	respondJSON(w, map[string]interface{}{
		"invitation": inv,
		"date":       date,
	}, http.StatusOK)
}

// MarkViewed handles POST /api/v1/invitations/{id}/view
func (h *InvitationHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inv, err := h.invitationService.MarkViewed(ctx, chi.URLParam(r, "id"), middleware.GetIdentity(ctx))
	if err != nil {
		handleServiceError(w, r, err, "Failed to mark invitation viewed")
		return
	}
	respondJSON(w, inv, http.StatusOK)
}

// DeleteInvitation handles DELETE /api/v1/invitations/{id}. The recipient
// declines, the sender cancels.
func (h *InvitationHandler) DeleteInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.invitationService.Delete(ctx, chi.URLParam(r, "id"), middleware.GetIdentity(ctx)); err != nil {
		handleServiceError(w, r, err, "Failed to delete invitation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
