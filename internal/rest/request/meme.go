package request

import (
	"encoding/base64"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/narongrit/meme-hub/domain"
)

// dataURLPattern accepts the same image payloads the upload form produces.
var dataURLPattern = regexp.MustCompile(`^data:image/(png|jpeg|jpg|gif|webp);base64,(.+)$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("memecategory", func(fl validator.FieldLevel) bool {
			return domain.ValidCategory(fl.Field().String())
		})
	}
}

type UploadMeme struct {
	Title       string `json:"title" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"omitempty,memecategory"`
	Image       string `json:"image" binding:"required"`
}

// ToDomain: Request -> Domain
func (r *UploadMeme) ToDomain() domain.Meme {
	return domain.Meme{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
	}
}

// DecodeImage parses the base64 data URL and returns the raw bytes and the
// file extension. Returns ErrBadParamInput for anything else.
func (r *UploadMeme) DecodeImage() ([]byte, string, error) {
	matches := dataURLPattern.FindStringSubmatch(r.Image)
	if matches == nil {
		return nil, "", domain.ErrBadParamInput
	}
	data, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return nil, "", domain.ErrBadParamInput
	}
	return data, matches[1], nil
}

type Login struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
