package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbeier/famsync/internal/api/http/middleware"
	"github.com/mbeier/famsync/internal/logger"
	"github.com/mbeier/famsync/internal/model"
	"github.com/mbeier/famsync/internal/service"
)

// FamilyService is the part of the family registry the handlers need.
type FamilyService interface {
	Create(ctx context.Context, name string) (model.FamilyProfile, string, error)
	Lookup(ctx context.Context, code string) (model.FamilyProfile, error)
	Join(ctx context.Context, code string) (model.FamilyProfile, error)
}

// MembershipService attaches a member profile to a family.
type MembershipService interface {
	Attach(ctx context.Context, code string, params model.AttachParams) (model.FamilyProfile, error)
}

// Family handles family creation, lookup, join and member attachment.
type Family struct {
	families   FamilyService
	membership MembershipService
	logger     *logger.Logger
}

// NewFamily creates family handlers.
func NewFamily(families FamilyService, membership MembershipService, logger *logger.Logger) *Family {
	return &Family{families: families, membership: membership, logger: logger}
}

type createFamilyRequest struct {
	Name string `json:"name"`
}

type createFamilyResponse struct {
	Family    model.FamilyProfile `json:"family"`
	ShareLink string              `json:"shareLink"`
}

func (h *Family) Create(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	family, link, err := h.families.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createFamilyResponse{Family: family, ShareLink: link})
}

func (h *Family) Lookup(w http.ResponseWriter, r *http.Request) {
	family, err := h.families.Lookup(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

func (h *Family) Join(w http.ResponseWriter, r *http.Request) {
	family, err := h.families.Join(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

type attachRequest struct {
	Age          int                     `json:"age"`
	Availability []model.DayAvailability `json:"availability"`
	Strengths    []model.Strength        `json:"strengths"`
}

func (h *Family) Attach(w http.ResponseWriter, r *http.Request) {
	var req attachRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	username, _ := middleware.UsernameFromContext(r.Context())
	params := model.AttachParams{
		User:         model.User{Username: username},
		Age:          req.Age,
		Availability: req.Availability,
		Strengths:    req.Strengths,
	}

	family, err := h.membership.Attach(r.Context(), mux.Vars(r)["code"], params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, family)
}

type deepLinkResponse struct {
	Code   string              `json:"code"`
	Family model.FamilyProfile `json:"family"`
}

// DeepLink resolves a shareable link to the family it points at, used to
// pre-fill the join flow on launch.
func (h *Family) DeepLink(w http.ResponseWriter, r *http.Request) {
	code, ok := service.ParseJoinLink(r.URL.Query().Get("u"))
	if !ok {
		writeError(w, model.ErrNotFound)
		return
	}

	family, err := h.families.Lookup(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deepLinkResponse{Code: code, Family: family})
}
