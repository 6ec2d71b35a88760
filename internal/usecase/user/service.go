package user

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/narongrit/meme-hub/domain"
)

type Service struct {
	userRepo domain.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

var _ domain.UserUsecase = (*Service)(nil)

// NewService will create a new user service object
func NewService(u domain.UserRepository, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		userRepo: u,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Login verifies the credentials and issues a signed bearer token carrying
// the user's ID and role. Banned members are rejected like unknown ones so
// the response doesn't reveal which it was.
func (s *Service) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", domain.User{}, domain.ErrUnauthorized
	}
	if u.Banned {
		return "", domain.User{}, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrUnauthorized
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   u.ID,
		"role": u.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.User{}, err
	}

	u.Password = ""
	return signed, u, nil
}
