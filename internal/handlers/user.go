package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nutrilog/internal/middleware"
	"nutrilog/internal/services"
)

type UserHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserHandler(users *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ToProfileDTO(u))
}

// Batch resolves ?ids=a,b or repeated ?ids=a&ids=b.
func (h *UserHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, v := range r.URL.Query()["ids"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	users, err := h.users.GetUsersByIDs(r.Context(), ids)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out := make([]ProfileDTO, 0, len(users))
	for i := range users {
		out = append(out, ToProfileDTO(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := h.users.UpdateUser(r.Context(), chi.URLParam(r, "id"), req.Name, req.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ToProfileDTO(u))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := h.users.UpdateProfile(r.Context(), chi.URLParam(r, "id"), services.ProfileUpdate{
		Name:         req.Name,
		Bio:          req.Bio,
		Skills:       req.Skills,
		Location:     req.Location,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ToProfileDTO(u))
}

type followResponse struct {
	Message string     `json:"message"`
	User    ProfileDTO `json:"user"`
}

// followerID falls back to the caller when ?followerId is absent.
func followerID(r *http.Request) string {
	if id := r.URL.Query().Get("followerId"); id != "" {
		return id
	}
	id, _ := middleware.UserID(r.Context())
	return id
}

// Follow godoc
// @Summary Follow a user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param id path string true "User to follow"
// @Param followerId query string false "Follower, defaults to the caller"
// @Success 200 {object} followResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /user/{id}/follow [post]
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Follow(r.Context(), chi.URLParam(r, "id"), followerID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, followResponse{Message: "Successfully followed user", User: ToProfileDTO(u)})
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Unfollow(r.Context(), chi.URLParam(r, "id"), followerID(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, followResponse{Message: "Successfully unfollowed user", User: ToProfileDTO(u)})
}
