package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email        string `json:"email" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Firstname    string `json:"firstname" validate:"required"`
	Lastname     string `json:"lastname" validate:"required"`
	BirthdayDate string `json:"birthday_date" validate:"required"`
	Address      string `json:"address"`
	// Adress is the historical spelling still sent by older clients.
	Adress     string `json:"adress"`
	PostalCode string `json:"postal_code"`
}

type registerResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type changePasswordRequest struct {
	Email             string `json:"email"               validate:"required"`
	Password          string `json:"password"            validate:"required"`
	NewPassword       string `json:"new_password"        validate:"required"`
	RepeatNewPassword string `json:"repeat_new_password" validate:"required"`
}

// --- Users ---

type updateUserRequest struct {
	ID           int64   `json:"id"`
	Email        *string `json:"email"`
	Firstname    *string `json:"firstname"`
	Lastname     *string `json:"lastname"`
	BirthdayDate *string `json:"birthday_date"`
	Address      *string `json:"address"`
	Adress       *string `json:"adress"`
	PostalCode   *string `json:"postal_code"`
	Role         *string `json:"role"`
}

// profileResponse holds only the fields the caller may read.
type profileResponse map[string]any

// --- Pictures ---

type pictureResponse struct {
	Path string `json:"path"`
}

// --- Departments ---

type createDepartmentRequest struct {
	Name string `json:"name" validate:"required"`
}

type departmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type membersRequest struct {
	UserIDs []int64 `json:"user_ids" validate:"required,min=1,dive,gt=0"`
}

type memberResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// --- HR requests ---

type createHRRequestRequest struct {
	UserID  int64  `json:"user_id"`
	Content string `json:"content" validate:"required"`
}

type updateHRRequestRequest struct {
	ID      int64  `json:"id"      validate:"required,gt=0"`
	Content string `json:"content" validate:"required"`
}

type removeHRRequestRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type historyEntryResponse struct {
	Author  int64  `json:"author"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

type hrRequestResponse struct {
	ID               int64                  `json:"id"`
	UserID           int64                  `json:"user_id"`
	Content          string                 `json:"content"`
	RegistrationDate string                 `json:"registration_date"`
	Visibility       bool                   `json:"visibility"`
	Close            bool                   `json:"close"`
	LastAction       string                 `json:"last_action"`
	ContentHistory   []historyEntryResponse `json:"content_history"`
	DeleteDate       *string                `json:"delete_date"`
}
