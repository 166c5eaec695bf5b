package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tdobson/snowy-sub000/internal/data/repos"
	"github.com/tdobson/snowy-sub000/internal/http/middleware"
	"github.com/tdobson/snowy-sub000/internal/http/response"
)

type UserHandler struct {
	userRepo repos.UserRepo
}

func NewUserHandler(userRepo repos.UserRepo) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	userID, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	user, err := uh.userRepo.GetByID(c.Request.Context(), nil, instanceID, userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (uh *UserHandler) ListUsers(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	users, err := uh.userRepo.List(c.Request.Context(), nil, instanceID, limit, offset)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}
