package applications

import (
	"context"
	"strconv"
	"time"

	"jobapply-backend/internal/jobs"
	"jobapply-backend/internal/shared/metrics"
	"jobapply-backend/internal/shared/telemetry"
)

// JobDetailClient fetches posting details from the jobs service.
type JobDetailClient interface {
	GetDetail(ctx context.Context, jobID int64) (jobs.Detail, error)
}

// Summary is one row of the "my applications" dashboard.
type Summary struct {
	ApplicationID int64  `json:"applicationId"`
	JobID         int64  `json:"jobId"`
	ResumeID      int64  `json:"resumeId"`
	StatusText    string `json:"statusText"`
	ReviewStatus  string `json:"reviewStatus"`
	Cancelled     bool   `json:"cancelled"`

	CompanyName string `json:"companyName"`
	Title       string `json:"title"`
	LogoPath    string `json:"logoPath,omitempty"`

	WorkType       string `json:"workType,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
	Industry       string `json:"industry,omitempty"`
	Level          string `json:"level,omitempty"`
	Experience     string `json:"experience,omitempty"`
	SalaryText     string `json:"salaryText,omitempty"`
	WorkingHours   string `json:"workingHours,omitempty"`
	Location       string `json:"location,omitempty"`

	Closed    bool   `json:"closed"`
	DdayText  string `json:"ddayText,omitempty"`
	AppliedAt string `json:"appliedAt,omitempty"`
}

// SummaryPage is one dashboard page with snapshot-level paging metadata.
type SummaryPage struct {
	Items      []Summary `json:"items"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	TotalCount int       `json:"totalCount"`
}

// MyApplications builds the dashboard page: the applicant's snapshot page
// joined to the latest ledger row per snapshot, deduplicated by job id and
// enriched with job details. A failed or missing detail degrades to
// placeholder text; it never fails the page.
func (s *Service) MyApplications(ctx context.Context, applicantID int64, page, size int) (SummaryPage, error) {
	if applicantID <= 0 {
		return SummaryPage{}, ErrInvalidInput
	}
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}

	snaps, total, err := s.Snapshots.List(ctx, applicantID, page, size)
	if err != nil {
		return SummaryPage{}, err
	}

	apps, err := s.Ledger.ListByApplicant(ctx, applicantID)
	if err != nil {
		return SummaryPage{}, err
	}

	// Latest ledger row per snapshot id; rows without a pointer never
	// reach the dashboard.
	latestByResume := make(map[int64]Application)
	for _, app := range apps {
		if app.ResumeID == nil {
			continue
		}
		cur, ok := latestByResume[*app.ResumeID]
		if !ok || app.ID > cur.ID {
			latestByResume[*app.ResumeID] = app
		}
	}

	seenJobs := make(map[int64]struct{})
	items := make([]Summary, 0, len(snaps))
	for _, snap := range snaps {
		app, ok := latestByResume[snap.ID]
		if !ok {
			continue
		}
		if _, dup := seenJobs[app.JobID]; dup {
			continue
		}

		item := Summary{
			ApplicationID: app.ID,
			JobID:         app.JobID,
			ResumeID:      snap.ID,
			ReviewStatus:  reviewStatusOf(app),
			Cancelled:     app.Cancelled,
			CompanyName:   "-",
			Title:         "-",
			AppliedAt:     app.UpdatedAt.Format("2006-01-02"),
		}
		item.StatusText = statusText(item.ReviewStatus, app.Cancelled)

		if detail, err := s.fetchJobDetail(ctx, app.JobID); err == nil {
			item.CompanyName = detail.CompanyName
			item.Title = detail.Title
			item.LogoPath = detail.LogoPath
			item.WorkType = detail.WorkType
			item.EmploymentType = detail.EmploymentType
			item.Industry = detail.Industry
			item.Level = detail.Level
			item.Experience = detail.Experience
			item.SalaryText = detail.SalaryText
			item.WorkingHours = detail.WorkingHours
			item.Location = detail.Location
			item.Closed = detail.Closed()
			item.DdayText = ddayText(detail, time.Now())
		}

		items = append(items, item)
		seenJobs[app.JobID] = struct{}{}
	}

	totalPages := (total + size - 1) / size
	return SummaryPage{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
	}, nil
}

func (s *Service) fetchJobDetail(ctx context.Context, jobID int64) (jobs.Detail, error) {
	if jobID <= 0 {
		return jobs.Detail{}, jobs.ErrUnavailable
	}

	start := time.Now()
	detail, err := s.Jobs.GetDetail(ctx, jobID)
	metrics.ObserveJobDetailDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncJobDetailFailed()
		telemetry.Warn("jobs.detail_unavailable", map[string]any{
			"job_id": jobID,
			"error":  err.Error(),
		})
		return jobs.Detail{}, err
	}
	return detail, nil
}

func reviewStatusOf(app Application) string {
	if blank(app.Status) {
		return StatusTemp
	}
	return app.Status
}

// statusText renders the applicant-facing status label.
func statusText(reviewStatus string, cancelled bool) string {
	if cancelled {
		return "지원취소"
	}
	if reviewStatus == StatusSubmitted {
		return "제출완료"
	}
	return "임시저장"
}

// ddayText renders the deadline badge. The jobs service's closed flag wins
// over the date computation; a missing or unparsable end date reads as
// still in progress.
func ddayText(detail jobs.Detail, now time.Time) string {
	if detail.Closed() {
		return "채용마감"
	}
	if blank(detail.EndDate) {
		return "진행중"
	}
	end, err := time.ParseInLocation("2006-01-02", detail.EndDate, now.Location())
	if err != nil {
		return "진행중"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(end.Sub(today).Hours() / 24)
	if days < 0 {
		return "마감"
	}
	return "D-" + strconv.Itoa(days)
}
