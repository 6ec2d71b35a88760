package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/narongrit/meme-hub/domain"
	"github.com/narongrit/meme-hub/internal/rest/middleware"
	"github.com/narongrit/meme-hub/internal/rest/request"
	"github.com/narongrit/meme-hub/internal/rest/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// MemeHandler represent the httphandler for memes
type MemeHandler struct {
	Feed   domain.MemeUsecase
	Ledger domain.LikeLedger
}

func NewMemeHandler(feed domain.MemeUsecase, ledger domain.LikeLedger) *MemeHandler {
	return &MemeHandler{
		Feed:   feed,
		Ledger: ledger,
	}
}

// Fetch serves one feed page. Page, limit, search and category are
// normalized inside the service; the viewer is taken from the optional
// credential so anonymous requests share the same cached pages.
func (h *MemeHandler) Fetch(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")
	category := c.DefaultQuery("category", domain.CategoryAll)

	viewerID := int64(0)
	if v, exists := c.Get(middleware.CtxUserID); exists {
		viewerID = v.(int64)
	}

	feedPage, err := h.Feed.GetFeed(c.Request.Context(), page, limit, search, category, viewerID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, response.NewFeedFromDomain(&feedPage))
}

// Store will store the meme by given request body
func (h *MemeHandler) Store(c *gin.Context) {
	var req request.UploadMeme
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, ext, err := req.DecodeImage()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image"})
		return
	}

	userID, exists := c.Get(middleware.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	meme := req.ToDomain()
	meme.CreatedBy.ID = userID.(int64)

	if err := h.Feed.CreateMeme(c.Request.Context(), &meme, image, ext); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": meme.ID})
}

// ToggleLike flips the caller's like state on a meme and reports which way
// it went.
func (h *MemeHandler) ToggleLike(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, exists := c.Get(middleware.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	res, err := h.Ledger.Toggle(c.Request.Context(), int64(idP), userID.(int64))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(res)})
}

// Delete will delete the meme by given param
func (h *MemeHandler) Delete(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, exists := c.Get(middleware.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	requester := domain.User{
		ID:   userID.(int64),
		Role: c.GetString(middleware.CtxUserRole),
	}

	if err := h.Feed.DeleteMeme(c.Request.Context(), int64(idP), requester); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Image streams the raw image bytes of a meme.
func (h *MemeHandler) Image(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	data, err := h.Feed.GetImage(c.Request.Context(), int64(idP))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// getStatusCode will get the code of the error from the usecase layer
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
