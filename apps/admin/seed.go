package main

import (
	"context"
	"fmt"

	"github.com/omi-1602/Venz-edu/core/seed"
)

func (cli *commandLine) seed(token string) error {
	res, err := cli.seedSvc.Seed(context.Background(), seed.Request{Token: token})
	if err != nil {
		return err
	}
	c := res.Created
	fmt.Printf("seeded users %v, course %s, assignment %s, enrollment %s, submission %s\n",
		c.Users, c.CourseID, c.AssignmentID, c.EnrollmentID, c.SubmissionID)
	return nil
}
