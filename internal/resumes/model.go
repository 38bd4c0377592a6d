package resumes

import "time"

// Attachment kinds. One snapshot holds at most one attachment per kind.
const (
	KindPhoto        = "PHOTO"
	KindServiceProof = "SERVICE_PROOF"
	KindResumeFile   = "RESUME_FILE"
)

// Snapshot is one immutable resume version as it existed at save time.
// Snapshots are never updated in place; every save creates a new one.
type Snapshot struct {
	ID          int64
	ApplicantID int64

	Name      string
	Gender    string
	BirthDate string
	Phone     string
	Email     string
	Address   string

	SchoolName     string
	Major          string
	EntranceDate   string
	GraduateDate   string
	GPA            string
	GraduateStatus string

	Skill        string
	Introduction string

	Careers      []CareerEntry
	Certificates []Certificate
	Attachments  []Attachment

	Deleted   bool
	CreatedAt time.Time
}

// CareerEntry is one row of the snapshot's career history, in form order.
type CareerEntry struct {
	ID              int64
	Company         string
	Department      string
	JoinDate        string
	RetireDate      string
	Position        string
	Salary          string
	PositionSummary string
	Experience      string
}

// Certificate is one certification held by the applicant.
type Certificate struct {
	ID           int64
	Name         string
	ObtainedDate string
	Agency       string
	Number       string
}

// Attachment is a stored file path tagged with its logical kind.
type Attachment struct {
	ID         int64
	Kind       string
	Path       string
	UploadedAt time.Time
}

// AttachmentPath returns the path stored for a kind, or "" when the
// snapshot has no attachment of that kind.
func (s Snapshot) AttachmentPath(kind string) string {
	for _, a := range s.Attachments {
		if a.Kind == kind {
			return a.Path
		}
	}
	return ""
}
