package http

import (
	"net/http"
	"strings"

	"github.com/boardsync/backend/internal/board/service"
	"github.com/boardsync/backend/internal/common/config"
	commonhttp "github.com/boardsync/backend/internal/common/http"
	"github.com/boardsync/backend/internal/common/jwtverify"
	"github.com/boardsync/backend/internal/common/logger"
)

const boardsPrefix = "/api/whiteboards/"

type Handler struct {
	boards *service.BoardService
	log    *logger.Logger
}

type userResponse struct {
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
}

type createBoardResponse struct {
	ID int64 `json:"id"`
}

func NewHandler(boards *service.BoardService, cfg config.BoardConfig, log *logger.Logger) http.Handler {
	h := &Handler{
		boards: boards,
		log:    log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/user", commonhttp.RequireMethod(http.MethodGet)(commonhttp.WithTimeout(cfg.RequestTimeout)(h.user)))
	mux.HandleFunc("/api/whiteboards", commonhttp.RequireMethod(http.MethodGet)(commonhttp.WithTimeout(cfg.RequestTimeout)(h.list)))
	mux.HandleFunc(boardsPrefix, commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(cfg.RequestTimeout)(h.boardRoutes)))

	return mux
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, userResponse{
		Email:             claims.Email,
		EmailVerified:     claims.EmailVerified,
		Name:              claims.Name,
		PreferredUsername: claims.PreferredUsername,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx := r.Context()

	boards, err := h.boards.List(ctx, claims.PreferredUsername)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	h.log.WithFields(ctx, logger.Fields{
		"owner":   claims.PreferredUsername,
		"results": len(boards),
		"action":  "board_list_success",
	}).Info("whiteboards list success")
	commonhttp.WriteJSON(w, http.StatusOK, boards)
}

func (h *Handler) boardRoutes(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/delete") {
		h.delete(w, r)
		return
	}
	h.create(w, r)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, boardsPrefix)
	if strings.Contains(name, "/") {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "invalid path", nil, "")
		return
	}

	ctx := r.Context()

	id, err := h.boards.Create(ctx, name, claims.PreferredUsername)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, createBoardResponse{ID: id})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx := r.Context()

	id, err := commonhttp.ParseBoardID(r.URL.Path, boardsPrefix)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	if err := h.boards.Delete(ctx, id, claims.PreferredUsername); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
