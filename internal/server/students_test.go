package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStudents(f *fixture) {
	studentID, tutorID := int64(1), int64(2)
	future := time.Now().Add(48 * time.Hour).UTC()
	past := time.Now().Add(-48 * time.Hour).UTC()
	f.students.Users = []domain.User{
		{ID: studentID, Email: "student@x.com", FirstName: "Ann", Role: "student"},
		{ID: tutorID, Email: "tutor@x.com", FirstName: "Tom", Role: "tutor"},
	}
	f.students.Bookings = []domain.Booking{
		{ID: 10, UserID: &studentID, Email: "student@x.com", PackageType: "interview_pro", Status: "confirmed"},
		{ID: 11, Email: "student@x.com", PackageType: "statement", Status: "pending"},
	}
	f.students.InterviewSet = []domain.Interview{
		{ID: 100, StudentID: studentID, TutorID: &tutorID, ScheduledAt: future, Status: domain.InterviewScheduled},
		{ID: 101, StudentID: studentID, TutorID: &tutorID, ScheduledAt: past, Status: domain.InterviewCompleted},
	}
}

func TestStudentDashboard(t *testing.T) {
	f := newFixture(t)
	seedStudents(f)

	res := f.json(t, http.MethodGet, "/api/students/student@x.com/dashboard", "")
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	var d Dashboard
	res.decode(t, &d)
	assert.Equal(t, "Ann", d.User.FirstName)
	assert.Len(t, d.Bookings, 2)
	require.Len(t, d.Upcoming, 1)
	assert.Equal(t, int64(100), d.Upcoming[0].ID)
	assert.Empty(t, d.Availability)

	res = f.json(t, http.MethodGet, "/api/students/ghost@x.com/dashboard", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestStudentAvailability(t *testing.T) {
	f := newFixture(t)
	seedStudents(f)
	target := "/api/students/student@x.com/availability"

	res := f.json(t, http.MethodPut, target, `{"slots":[{"day_of_week":1,"start_time":"09:00","end_time":"11:30"},{"day_of_week":0,"start_time":"18:00","end_time":"19:00"}]}`)
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	var slots []AvailabilitySlot
	res.decode(t, &slots)
	assert.Len(t, slots, 2)

	res = f.json(t, http.MethodPut, target, `{"slots":[{"day_of_week":7,"start_time":"09:00","end_time":"10:00"}]}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	res = f.json(t, http.MethodPut, target, `{"slots":[{"day_of_week":2,"start_time":"10:00","end_time":"09:00"}]}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	res = f.json(t, http.MethodPut, target, `{"slots":[{"start_time":"10:00","end_time":"11:00"}]}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = f.json(t, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, res.Code)
	res.decode(t, &slots)
	assert.Len(t, slots, 2)
}

func TestStudentListings(t *testing.T) {
	f := newFixture(t)
	seedStudents(f)

	res := f.json(t, http.MethodGet, "/api/students/student@x.com/bookings", "")
	require.Equal(t, http.StatusOK, res.Code)
	var bookings []Booking
	res.decode(t, &bookings)
	assert.Len(t, bookings, 2)

	res = f.json(t, http.MethodGet, "/api/students/student@x.com/interviews", "")
	require.Equal(t, http.StatusOK, res.Code)
	var interviews []Interview
	res.decode(t, &interviews)
	assert.Len(t, interviews, 2)
}

func TestTutorInterviews(t *testing.T) {
	f := newFixture(t)
	seedStudents(f)

	res := f.json(t, http.MethodGet, "/api/tutors/tutor@x.com/interviews", "")
	require.Equal(t, http.StatusOK, res.Code)
	var interviews []Interview
	res.decode(t, &interviews)
	assert.Len(t, interviews, 2)

	res = f.json(t, http.MethodPut, "/api/tutors/tutor@x.com/interviews/100", `{"status":"completed","notes":"Strong answers"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	var i Interview
	res.decode(t, &i)
	assert.Equal(t, domain.InterviewCompleted, i.Status)
	assert.Equal(t, "Strong answers", i.Notes)

	res = f.json(t, http.MethodPut, "/api/tutors/tutor@x.com/interviews/100", `{"status":"postponed"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = f.json(t, http.MethodPut, "/api/tutors/student@x.com/interviews/100", `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusNotFound, res.Code)
}
