package session

// Status is the booking state of a mentoring session.
type Status string

// Session statuses.
const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Session is the searchable projection of a booked mentoring session.
type Session struct {
	ID          string
	Title       string
	Description string
	MentorID    string
	Status      Status
	ScheduledAt int64 // unix millis
	CreatedAt   int64 // unix millis
}
