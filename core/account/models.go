package account

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/omi-1602/Venz-edu/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
	RoleAdmin   = "admin"
)

// Statuses
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusInactive  = "inactive"
)

var (
	// SignupRoles are the roles users may pick for themselves.
	SignupRoles = []string{RoleStudent, RoleMentor}
	AllRoles    = []string{RoleStudent, RoleMentor, RoleAdmin}
)

// User is the profile document stored in the users collection.
type User struct {
	UID            string     `mapstructure:"uid" json:"uid"`
	Email          string     `mapstructure:"email" json:"email"`
	DisplayName    string     `mapstructure:"displayName" json:"displayName"`
	Role           string     `mapstructure:"role" json:"role"`
	ProfilePicture string     `mapstructure:"profilePicture" json:"profilePicture"`
	Bio            string     `mapstructure:"bio" json:"bio"`
	Verified       bool       `mapstructure:"verified" json:"verified"`
	Status         string     `mapstructure:"status" json:"status"`
	CreatedAt      time.Time  `mapstructure:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `mapstructure:"updatedAt" json:"updatedAt"`
	LastLogin      *time.Time `mapstructure:"lastLogin" json:"lastLogin"`
}

func (u User) IsActive() bool { return u.Status == StatusActive }

// Public returns the projection handed to clients.
func (u User) Public() PublicUser {
	return PublicUser{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName, Role: u.Role}
}

// PublicUser is the {uid, email, displayName, role} projection of a User.
type PublicUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// Person identifies the user in log entries.
func (u PublicUser) Person() core.Person {
	return core.Person{ID: u.UID, Name: u.DisplayName, Email: u.Email}
}

func decodeUser(doc core.Document) (User, error) {
	var usr User
	err := core.DecodeDocument(doc, &usr)
	return usr, err
}

// newUserDocument is the document written for a brand new user.
func newUserDocument(uid, email, displayName, role string, verified bool) core.Document {
	return core.Document{
		"uid":            uid,
		"email":          email,
		"displayName":    displayName,
		"role":           role,
		"profilePicture": "",
		"bio":            "",
		"verified":       verified,
		"createdAt":      core.ServerTimestamp,
		"updatedAt":      core.ServerTimestamp,
		"lastLogin":      nil,
		"status":         StatusActive,
	}
}

// Requests & responses

type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
	Role        string `json:"role" validate:"required,signup_role"`
}

func (r *SignupRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.DisplayName = core.CleanString(r.DisplayName)
	r.Role = core.CleanString(r.Role, true /* lower */)
	return validate.Struct(r)
}

type SignupResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid"`
	Message string `json:"message"`
}

// ProvisionRequest is used by administrators to create pre-verified accounts of any role.
type ProvisionRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
	Role        string `json:"role" validate:"required,any_role"`
}

func (r *ProvisionRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.DisplayName = core.CleanString(r.DisplayName)
	r.Role = core.CleanString(r.Role, true /* lower */)
	return validate.Struct(r)
}

type LoginRequest struct {
	Email string `json:"email" validate:"required"`
}

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

type LoginResponse struct {
	Success bool       `json:"success"`
	User    PublicUser `json:"user"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required"`
}

func (r *PasswordResetRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type FederatedLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

func (r *FederatedLoginRequest) Validate(validate *validator.Validate) error {
	r.IDToken = core.CleanString(r.IDToken)
	return validate.Struct(r)
}

type VerifyEmailRequest struct {
	UID string `json:"uid" validate:"required"`
}

func (r *VerifyEmailRequest) Validate(validate *validator.Validate) error {
	r.UID = core.CleanString(r.UID)
	return validate.Struct(r)
}
