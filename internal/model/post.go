package model

type Post struct {
	ID         string `json:"id,omitempty"`
	AuthorID   string `json:"author_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateCategoryResponse struct {
	ID string `json:"id"`
}

type CreatePostRequest struct {
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

type CreatePostResponse struct {
	ID            string `json:"id"`
	GrantedXP     int64  `json:"granted_xp"`
	CurrentStreak int    `json:"current_streak"`
}

type AddLikeRequest struct {
	PostID string `json:"post_id"`
}

type AddLikeResponse struct{}

type AddBookmarkRequest struct {
	PostID string `json:"post_id"`
}

type AddBookmarkResponse struct{}
