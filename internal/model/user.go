package model

// AccessToken is the payload carried inside the signed bearer token.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type RegisterRequest struct {
	Name string `json:"name"`
}

type RegisterResponse struct {
	ID          string `json:"id"`
	AccessToken string `json:"access_token"`
}

type LoginRequest struct {
	Name string `json:"name"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type GetMeRequest struct{}

type GetMeResponse User
