// Package seed writes the fixed demo dataset used by the dashboards.
package seed

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
	"github.com/omi-1602/Venz-edu/core/course"
)

// Fixed ids
const (
	AdminID      = "admin-sample"
	MentorID     = "mentor-sample"
	StudentID    = "student-sample"
	CourseID     = "course-sample"
	AssignmentID = "assignment-sample"
	EnrollmentID = "enrollment-sample"
	SubmissionID = "submission-sample"
)

const (
	msgTokenRequired = "Seed token required"
	msgTokenInvalid  = "Invalid seed token"

	assignmentDueIn = 7 * 24 * time.Hour
)

var nowFunc = time.Now // mockable

type Request struct {
	Token string `json:"token"`
}

type Created struct {
	Users        []string `json:"users"`
	CourseID     string   `json:"courseId"`
	AssignmentID string   `json:"assignmentId"`
	EnrollmentID string   `json:"enrollmentId"`
	SubmissionID string   `json:"submissionId"`
}

type Response struct {
	Success bool    `json:"success"`
	Created Created `json:"created"`
}

type ServiceInterface interface {
	Seed(ctx context.Context, req Request) (Response, error)
}

type Service struct {
	docs   core.DocumentStore
	secret string
	logger core.Logger
}

var _ ServiceInterface = (*Service)(nil)

// NewService returns a seeding service. When secret is set, only that token is accepted.
func NewService(docs core.DocumentStore, secret string, logger core.Logger) *Service {
	return &Service{docs: docs, secret: secret, logger: logger}
}

func (svc *Service) checkToken(token string) error {
	token = core.CleanString(token)
	if token == "" {
		return core.PermissionDenied(msgTokenRequired)
	}
	if svc.secret != "" && subtle.ConstantTimeCompare([]byte(token), []byte(svc.secret)) != 1 {
		return core.PermissionDenied(msgTokenInvalid)
	}
	return nil
}

type write struct {
	collection, id string
	doc            core.Document
}

func sampleUser(uid, email, displayName, role string) write {
	return write{core.UsersCollection, uid, core.Document{
		"uid":         uid,
		"email":       email,
		"displayName": displayName,
		"role":        role,
		"verified":    true,
		"status":      account.StatusActive,
		"createdAt":   core.ServerTimestamp,
		"updatedAt":   core.ServerTimestamp,
	}}
}

func dataset(now time.Time) []write {
	crs := course.Course{
		Title:         "Mastering Java: From Zero to Hero",
		Description:   "Comprehensive Java course aligned with dashboard",
		MentorID:      MentorID,
		MentorName:    "Sample Mentor",
		Category:      "programming",
		Level:         "beginner",
		Price:         0,
		Thumbnail:     "assets/logo.png",
		Duration:      "4 weeks",
		MaxStudents:   50,
		EnrolledCount: 1,
		Rating:        4.8,
		IsPublished:   true,
	}
	asg := course.Assignment{
		CourseID:    CourseID,
		Title:       "Assignment 1: Intro to Java",
		Description: "Write your first Java program",
		DueDate:     now.Add(assignmentDueIn).UTC(),
		MaxScore:    100,
	}
	enr := course.Enrollment{
		StudentID:        StudentID,
		CourseID:         CourseID,
		Progress:         35,
		Status:           course.EnrollmentActive,
		CompletedLessons: 14,
	}
	sub := course.Submission{
		AssignmentID: AssignmentID,
		StudentID:    StudentID,
		FileURL:      "https://example.com/submissions/demo.zip",
		Status:       course.SubmissionSubmitted,
	}

	return []write{
		sampleUser(AdminID, "admin@venz-edu.local", "Admin User", account.RoleAdmin),
		sampleUser(MentorID, "mentor@venz-edu.local", "Sample Mentor", account.RoleMentor),
		sampleUser(StudentID, "student@venz-edu.local", "Sample Student", account.RoleStudent),
		{core.CoursesCollection, CourseID, crs.Document()},
		{core.AssignmentsCollection, AssignmentID, asg.Document()},
		{core.EnrollmentsCollection, EnrollmentID, enr.Document()},
		{core.SubmissionsCollection, SubmissionID, sub.Document()},
	}
}

// Seed merges the demo dataset into the store. Re-running it refreshes the same documents.
func (svc *Service) Seed(ctx context.Context, req Request) (Response, error) {
	if err := svc.checkToken(req.Token); err != nil {
		return Response{}, err
	}

	for _, w := range dataset(nowFunc()) {
		if err := svc.docs.Merge(ctx, w.collection, w.id, w.doc); err != nil {
			return Response{}, core.Internal(errors.Wrapf(err, "seeding %s/%s", w.collection, w.id))
		}
	}
	svc.logger.Info("demo data seeded")

	return Response{
		Success: true,
		Created: Created{
			Users:        []string{AdminID, MentorID, StudentID},
			CourseID:     CourseID,
			AssignmentID: AssignmentID,
			EnrollmentID: EnrollmentID,
			SubmissionID: SubmissionID,
		},
	}, nil
}
