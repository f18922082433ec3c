package handler

import (
	"errors"
	"net/http"

	"github.com/intellia-hq/mailroom/pkg/genai"
	"github.com/intellia-hq/mailroom/pkg/retry"
)

type generateRequest struct {
	Content               string `json:"content"`
	HasLogo               bool   `json:"hasLogo"`
	HasBanner             bool   `json:"hasBanner"`
	DesignPrompt          string `json:"designPrompt"`
	PlacementInstructions string `json:"placementInstructions"`
}

type generateResponse struct {
	HTML string `json:"html"`
}

// generateEmail proxies template generation to the model endpoint. Upstream
// failures surface as 500 with whatever detail the upstream error body
// carried.
func (h *Handler) generateEmail(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		h.respondError(w, r, &HTTPError{Code: http.StatusServiceUnavailable, Message: "Template generation is not configured"})
		return
	}

	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Content == "" {
		h.respondError(w, r, badRequest("Content is required"))
		return
	}

	html, err := h.generator.GenerateTemplate(r.Context(), genai.Request{
		Content:               req.Content,
		HasLogo:               req.HasLogo,
		HasBanner:             req.HasBanner,
		DesignPrompt:          req.DesignPrompt,
		PlacementInstructions: req.PlacementInstructions,
	})
	if err != nil {
		detail := ""
		var statusErr *retry.StatusError
		if errors.As(err, &statusErr) {
			detail = string(statusErr.Body)
		}
		h.respondError(w, r, internalError("Failed to generate email template", err, detail))
		return
	}

	respondJSON(w, http.StatusOK, generateResponse{HTML: html})
}
