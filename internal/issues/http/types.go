package http

import "github.com/trackly/tracker/internal/issues/service"

// Handler bundles the dependencies for issue HTTP endpoints.
type Handler struct {
	svc *service.IssueService
}

func New(svc *service.IssueService) *Handler {
	return &Handler{svc: svc}
}
