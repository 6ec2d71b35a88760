package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narongrit/meme-hub/domain"
	"github.com/narongrit/meme-hub/internal/rest/request"
	"github.com/narongrit/meme-hub/internal/rest/response"
)

// UserHandler represent the httphandler for users
type UserHandler struct {
	Service domain.UserUsecase
}

func NewUserHandler(svc domain.UserUsecase) *UserHandler {
	return &UserHandler{
		Service: svc,
	}
}

// Login verifies credentials and returns a bearer token
func (h *UserHandler) Login(c *gin.Context) {
	var req request.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, response.NewLoginFromDomain(token, &user))
}
