// Package mockstore is a local fallback emulating the account backend when the API is unreachable.
// Its records are never reconciled with the API: accounts created here only exist locally.
package mockstore

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
	"github.com/omi-1602/Venz-edu/core/course"
	"github.com/omi-1602/Venz-edu/storage/local"
)

// Collection keys
const (
	UsersKey       = "mock_users"
	CoursesKey     = "mock_courses"
	EnrollmentsKey = "mock_enrollments"
	AssignmentsKey = "mock_assignments"
	SubmissionsKey = "mock_submissions"
)

var collectionKeys = []string{UsersKey, CoursesKey, EnrollmentsKey, AssignmentsKey, SubmissionsKey}

// Messages
const (
	MsgMissingFields   = "Missing fields"
	MsgUserExists      = "User already exists"
	MsgInvalidCreds    = "Invalid credentials"
	MsgUserNotFound    = "User not found"
	MsgResetLinkMocked = "Mock reset link generated"

	federatedDisplayName = "Mock User"
)

var nowFunc = time.Now // mockable

// User is a mock account. Password is kept in plain text: this store is not a security boundary.
type User struct {
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	Password    string     `json:"password,omitempty"`
	DisplayName string     `json:"displayName"`
	Role        string     `json:"role"`
	Verified    bool       `json:"verified"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin"`
}

func (u User) Public() account.PublicUser {
	return account.PublicUser{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName, Role: u.Role}
}

type SignUpRequest struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// Store keeps the mock collections as JSON arrays in local storage.
type Store struct {
	mu      sync.Mutex
	storage local.Storage
}

func New(storage local.Storage) (*Store, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(storage, "storage"),
	).Check(); err != nil {
		return nil, err
	}
	return &Store{storage: storage}, nil
}

func newID() string {
	return "mock_" + core.RandomString(8)
}

// init creates the missing collections as empty arrays.
func (s *Store) init() error {
	for _, key := range collectionKeys {
		_, ok, err := s.storage.GetItem(key)
		if err != nil {
			return errors.Wrapf(err, "reading %s", key)
		}
		if ok {
			continue
		}
		if err = s.storage.SetItem(key, []byte("[]")); err != nil {
			return errors.Wrapf(err, "initializing %s", key)
		}
	}
	return nil
}

func (s *Store) load(key string, out interface{}) error {
	if err := s.init(); err != nil {
		return err
	}
	raw, _, err := s.storage.GetItem(key)
	if err != nil {
		return errors.Wrapf(err, "reading %s", key)
	}
	return errors.Wrapf(json.Unmarshal(raw, out), "decoding %s", key)
}

func (s *Store) save(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return errors.Wrapf(s.storage.SetItem(key, raw), "writing %s", key)
}

func (s *Store) users() ([]User, error) {
	var usrs []User
	err := s.load(UsersKey, &usrs)
	return usrs, err
}

func findByEmail(usrs []User, email string) int {
	for i, u := range usrs {
		if u.Email == email {
			return i
		}
	}
	return -1
}

// Users returns every mock account.
func (s *Store) Users() ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users()
}

// SignUp creates a verified account. A taken email leaves the store untouched.
func (s *Store) SignUp(req SignUpRequest) (User, error) {
	if req.Email == "" || req.Password == "" || req.DisplayName == "" || req.Role == "" {
		return User{}, core.InvalidArgument(MsgMissingFields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	usrs, err := s.users()
	if err != nil {
		return User{}, err
	}
	if findByEmail(usrs, req.Email) >= 0 {
		return User{}, core.AlreadyExists(MsgUserExists)
	}

	now := nowFunc().UTC()
	usr := User{
		UID:         newID(),
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Verified:    true,
		Status:      account.StatusActive,
		CreatedAt:   now,
		LastLogin:   &now,
	}
	if err = s.save(UsersKey, append(usrs, usr)); err != nil {
		return User{}, err
	}
	return usr, nil
}

// Login matches the exact (email, password) pair then applies the same gating as the API.
func (s *Store) Login(email, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usrs, err := s.users()
	if err != nil {
		return User{}, err
	}
	i := findByEmail(usrs, email)
	if i < 0 || password == "" || usrs[i].Password != password {
		return User{}, core.InvalidCredentials(MsgInvalidCreds)
	}
	if !usrs[i].Verified {
		return User{}, core.PermissionDenied(account.MsgNotVerified)
	}
	if usrs[i].Status != account.StatusActive {
		return User{}, core.PermissionDenied(account.MsgNotActive)
	}

	now := nowFunc().UTC()
	usrs[i].LastLogin = &now
	if err = s.save(UsersKey, usrs); err != nil {
		return User{}, err
	}
	return usrs[i], nil
}

// FederatedLoginStub fabricates a student account; no token can be verified offline.
func (s *Store) FederatedLoginStub() (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usrs, err := s.users()
	if err != nil {
		return User{}, err
	}
	now := nowFunc().UTC()
	usr := User{
		UID:         newID(),
		Email:       "user_" + newID() + "@mock.local",
		DisplayName: federatedDisplayName,
		Role:        account.RoleStudent,
		Verified:    true,
		Status:      account.StatusActive,
		CreatedAt:   now,
		LastLogin:   &now,
	}
	if err = s.save(UsersKey, append(usrs, usr)); err != nil {
		return User{}, err
	}
	return usr, nil
}

// RequestPasswordResetStub acknowledges known emails. Nothing is sent.
func (s *Store) RequestPasswordResetStub(email string) (account.MessageResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usrs, err := s.users()
	if err != nil {
		return account.MessageResponse{}, err
	}
	if findByEmail(usrs, email) < 0 {
		return account.MessageResponse{}, core.NotFound(MsgUserNotFound)
	}
	return account.MessageResponse{Success: true, Message: MsgResetLinkMocked}, nil
}

// Courses returns the mock courses.
func (s *Store) Courses() ([]course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var crss []course.Course
	err := s.load(CoursesKey, &crss)
	return crss, err
}

// Assignments returns the mock assignments.
func (s *Store) Assignments() ([]course.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var asgs []course.Assignment
	err := s.load(AssignmentsKey, &asgs)
	return asgs, err
}

// SeedMockData adds the demo course and its assignment unless courses already exist.
func (s *Store) SeedMockData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var crss []course.Course
	if err := s.load(CoursesKey, &crss); err != nil {
		return err
	}
	if len(crss) > 0 {
		return nil
	}

	now := nowFunc().UTC()
	crs := course.Course{
		ID:          newID(),
		Title:       "Mastering Java: From Zero to Hero",
		Description: "Comprehensive Java course aligned with dashboard",
		MentorID:    "mentor-sample",
		MentorName:  "Sample Mentor",
		Category:    "programming",
		Level:       "beginner",
		IsPublished: true,
		Rating:      4.8,
		CreatedAt:   now,
	}
	asg := course.Assignment{
		ID:        newID(),
		CourseID:  crs.ID,
		Title:     "Assignment 1: Intro to Java",
		DueDate:   now.Add(7 * 24 * time.Hour),
		MaxScore:  100,
		CreatedAt: now,
	}
	if err := s.save(CoursesKey, append(crss, crs)); err != nil {
		return err
	}
	return s.save(AssignmentsKey, []course.Assignment{asg})
}
