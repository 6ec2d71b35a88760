package response

import (
	"fmt"

	"github.com/narongrit/meme-hub/domain"
)

type FeedItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Likes     int64  `json:"likes"`
	Uploader  string `json:"uploader"`
	CreatedBy int64  `json:"created_by"`
	CreatedAt string `json:"created_at"`
	ImageURL  string `json:"image_url"`
	IsLiked   bool   `json:"is_liked"`
}

// FromDomain: Domain -> Response
func NewFeedItemFromDomain(it *domain.FeedItem) FeedItem {
	return FeedItem{
		ID:        it.ID,
		Title:     it.Title,
		Category:  it.Category,
		Likes:     it.Likes,
		Uploader:  it.Uploader,
		CreatedBy: it.CreatedBy,
		CreatedAt: it.CreatedAt.Format("2006-01-02 15:04:05"),
		ImageURL:  fmt.Sprintf("/api/memes/%d/image", it.ID),
		IsLiked:   it.IsLiked,
	}
}

type Feed struct {
	Data    []FeedItem `json:"data"`
	HasMore bool       `json:"has_more"`
}

func NewFeedFromDomain(p *domain.FeedPage) Feed {
	data := make([]FeedItem, len(p.Items))
	for i := range p.Items {
		data[i] = NewFeedItemFromDomain(&p.Items[i])
	}
	return Feed{
		Data:    data,
		HasMore: p.HasMore,
	}
}

type Login struct {
	Token string `json:"token"`
	User  struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"user"`
}

func NewLoginFromDomain(token string, u *domain.User) Login {
	var res Login
	res.Token = token
	res.User.ID = u.ID
	res.User.Name = u.Name
	res.User.Role = u.Role
	return res
}
