package domain

type CaseResult string

const (
	CaseWon     CaseResult = "won"
	CaseLost    CaseResult = "lost"
	CaseUnknown CaseResult = "unknown"
)

// CaseRecord is the archived historical outcome of a closed project. Written
// once when the project is archived, immutable afterwards.
type CaseRecord struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"projectId"`
	Name          string     `json:"name"`
	Industry      string     `json:"industry"`
	Scale         string     `json:"scale"`
	FinalQuote    float64    `json:"finalQuote"`
	Result        CaseResult `json:"result"`
	DesignSummary string     `json:"designSummary"`
	ArchivedAt    Date       `json:"archivedAt"`
}

func ValidCaseResult(result CaseResult) bool {
	switch result {
	case CaseWon, CaseLost, CaseUnknown:
		return true
	default:
		return false
	}
}
