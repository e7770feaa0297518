package domain

type ProjectStatus string

const (
	StatusPending   ProjectStatus = "pending"
	StatusDesigning ProjectStatus = "designing"
	StatusQuoting   ProjectStatus = "quoting"
	StatusSubmitted ProjectStatus = "submitted"
	StatusArchived  ProjectStatus = "archived"
)

type ProjectSource string

const (
	SourceCrawled ProjectSource = "crawled"
	SourceManual  ProjectSource = "manual"
)

// BidProject is one tender opportunity being pursued. Projects are never
// hard-deleted; archived is terminal but retained.
type BidProject struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Client       string        `json:"client"`
	Industry     string        `json:"industry"`
	Budget       string        `json:"budget"`
	Deadline     Date          `json:"deadline"`
	Status       ProjectStatus `json:"status"`
	Source       ProjectSource `json:"source"`
	Requirements string        `json:"requirements"`
	CreatedAt    Date          `json:"createdAt"`
	UpdatedAt    Date          `json:"updatedAt"`
}

func ValidProjectStatus(status ProjectStatus) bool {
	switch status {
	case StatusPending, StatusDesigning, StatusQuoting, StatusSubmitted, StatusArchived:
		return true
	default:
		return false
	}
}
