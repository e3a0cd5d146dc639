package models

type Severity string

const (
	SeverityDefault     Severity = "default"
	SeveritySuccess     Severity = "success"
	SeverityDestructive Severity = "destructive"
)

// Notice is a transient message shown once to the visitor.
type Notice struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}
