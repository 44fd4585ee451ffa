package models

type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type BookCreateRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"`
}

// BookUpdateRequest is a partial update; nil fields are left unchanged.
type BookUpdateRequest struct {
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	Publisher     *string `json:"publisher,omitempty"`
	PublishedDate *string `json:"published_date,omitempty"`
	PageCount     *int    `json:"page_count,omitempty"`
	Language      *string `json:"language,omitempty"`
}

type ReviewCreateRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type LoginResponse struct {
	Message      string       `json:"message"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         LoginUserRef `json:"user"`
}

type LoginUserRef struct {
	Email   string `json:"email"`
	UserUID string `json:"user_uid"`
}

type SignupResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
