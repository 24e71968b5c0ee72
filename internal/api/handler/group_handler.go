package handler

import (
	"log/slog"
	"net/http"

	"customer-engine/internal/api/handler/dto"
	"customer-engine/internal/domain/group"
)

// GroupHandler exposes the customer group catalogue read-only. Groups carry
// no business rules of their own here, so the handler talks straight to the
// repository.
type GroupHandler struct {
	repo   group.Repository
	logger *slog.Logger
}

func NewGroupHandler(repo group.Repository, l *slog.Logger) *GroupHandler {
	if repo == nil {
		panic("group repository cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &GroupHandler{
		repo:   repo,
		logger: l.With("component", "GroupHandler"),
	}
}

// ListGroups handles GET /customer-groups
// @Summary List customer groups
// @Description Retrieves the catalogue of customer classification groups.
// @Tags Groups
// @Produce json
// @Success 200 {array} dto.GroupResponse "List of groups"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customer-groups [get]
// @Security BearerAuth
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Calling group repository FindAll")
	groups, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Repository failed to list groups", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.GroupResponse, 0, len(groups))
	for _, grp := range groups {
		resp = append(resp, dto.NewGroupResponse(grp))
	}
	respondJSON(w, http.StatusOK, resp)
}
