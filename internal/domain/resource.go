package domain

import "time"

// Resource is a downloadable file tracked in the resources table.
type Resource struct {
	ID        int64
	Title     string
	FilePath  string
	SignedURL string
	Category  string
}

type ResourcesRepository interface {
	List() ([]Resource, error)
	UpdateSignedURL(id int64, url string) error
}

type EmailLog struct {
	Kind      string
	Subject   string
	Total     int
	Sent      int
	Failed    int
	Errors    []string
	CreatedAt time.Time
}

type EmailLogRepository interface {
	Insert(entry EmailLog) error
}
