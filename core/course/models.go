// Package course holds the learning content records: courses, assignments, enrollments and submissions.
package course

import (
	"time"

	"github.com/omi-1602/Venz-edu/core"
)

// Enrollment & submission statuses
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"

	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
)

type Course struct {
	ID            string    `mapstructure:"-" json:"id"`
	Title         string    `mapstructure:"title" json:"title"`
	Description   string    `mapstructure:"description" json:"description"`
	MentorID      string    `mapstructure:"mentorId" json:"mentorId"`
	MentorName    string    `mapstructure:"mentorName" json:"mentorName"`
	Category      string    `mapstructure:"category" json:"category"`
	Level         string    `mapstructure:"level" json:"level"`
	Price         float64   `mapstructure:"price" json:"price"`
	Thumbnail     string    `mapstructure:"thumbnail" json:"thumbnail"`
	Duration      string    `mapstructure:"duration" json:"duration"`
	MaxStudents   int       `mapstructure:"maxStudents" json:"maxStudents"`
	EnrolledCount int       `mapstructure:"enrolledCount" json:"enrolledCount"`
	Rating        float64   `mapstructure:"rating" json:"rating"`
	IsPublished   bool      `mapstructure:"isPublished" json:"isPublished"`
	CreatedAt     time.Time `mapstructure:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `mapstructure:"updatedAt" json:"updatedAt"`
}

// Document returns the fields written to the store; timestamps are server assigned.
func (c Course) Document() core.Document {
	return core.Document{
		"title":         c.Title,
		"description":   c.Description,
		"mentorId":      c.MentorID,
		"mentorName":    c.MentorName,
		"category":      c.Category,
		"level":         c.Level,
		"price":         c.Price,
		"thumbnail":     c.Thumbnail,
		"duration":      c.Duration,
		"maxStudents":   c.MaxStudents,
		"enrolledCount": c.EnrolledCount,
		"rating":        c.Rating,
		"isPublished":   c.IsPublished,
		"createdAt":     core.ServerTimestamp,
		"updatedAt":     core.ServerTimestamp,
	}
}

type Assignment struct {
	ID          string    `mapstructure:"-" json:"id"`
	CourseID    string    `mapstructure:"courseId" json:"courseId"`
	Title       string    `mapstructure:"title" json:"title"`
	Description string    `mapstructure:"description" json:"description"`
	DueDate     time.Time `mapstructure:"dueDate" json:"dueDate"`
	MaxScore    int       `mapstructure:"maxScore" json:"maxScore"`
	CreatedAt   time.Time `mapstructure:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `mapstructure:"updatedAt" json:"updatedAt"`
}

func (a Assignment) Document() core.Document {
	return core.Document{
		"courseId":    a.CourseID,
		"title":       a.Title,
		"description": a.Description,
		"dueDate":     a.DueDate,
		"maxScore":    a.MaxScore,
		"createdAt":   core.ServerTimestamp,
		"updatedAt":   core.ServerTimestamp,
	}
}

type Enrollment struct {
	ID               string    `mapstructure:"-" json:"id"`
	StudentID        string    `mapstructure:"studentId" json:"studentId"`
	CourseID         string    `mapstructure:"courseId" json:"courseId"`
	EnrolledAt       time.Time `mapstructure:"enrolledAt" json:"enrolledAt"`
	Progress         int       `mapstructure:"progress" json:"progress"`
	Status           string    `mapstructure:"status" json:"status"`
	LastAccessed     time.Time `mapstructure:"lastAccessed" json:"lastAccessed"`
	CompletedLessons int       `mapstructure:"completedLessons" json:"completedLessons"`
}

func (e Enrollment) Document() core.Document {
	return core.Document{
		"studentId":        e.StudentID,
		"courseId":         e.CourseID,
		"enrolledAt":       core.ServerTimestamp,
		"progress":         e.Progress,
		"status":           e.Status,
		"lastAccessed":     core.ServerTimestamp,
		"completedLessons": e.CompletedLessons,
	}
}

type Submission struct {
	ID           string     `mapstructure:"-" json:"id"`
	AssignmentID string     `mapstructure:"assignmentId" json:"assignmentId"`
	StudentID    string     `mapstructure:"studentId" json:"studentId"`
	FileURL      string     `mapstructure:"fileUrl" json:"fileUrl"`
	Status       string     `mapstructure:"status" json:"status"`
	Score        *int       `mapstructure:"score" json:"score"`
	Feedback     string     `mapstructure:"feedback" json:"feedback"`
	SubmittedAt  time.Time  `mapstructure:"submittedAt" json:"submittedAt"`
	GradedAt     *time.Time `mapstructure:"gradedAt" json:"gradedAt"`
}

func (s Submission) Document() core.Document {
	var score interface{}
	if s.Score != nil {
		score = *s.Score
	}
	var gradedAt interface{}
	if s.GradedAt != nil {
		gradedAt = *s.GradedAt
	}
	return core.Document{
		"assignmentId": s.AssignmentID,
		"studentId":    s.StudentID,
		"fileUrl":      s.FileURL,
		"status":       s.Status,
		"score":        score,
		"feedback":     s.Feedback,
		"submittedAt":  core.ServerTimestamp,
		"gradedAt":     gradedAt,
	}
}
