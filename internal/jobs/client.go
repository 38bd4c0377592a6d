package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable marks any failure to fetch a job detail. Callers degrade
// to placeholder content instead of propagating it.
var ErrUnavailable = errors.New("job detail unavailable")

// Detail is the job posting detail served by the jobs service. Wire names
// are the jobs service's own; unknown fields are ignored.
type Detail struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"companyId"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	LogoPath    string `json:"logoPath"`

	WorkType       string `json:"jobForm"`
	EmploymentType string `json:"jobType"`
	Industry       string `json:"jobCategory"`
	Level          string `json:"roleLevel"`
	Experience     string `json:"experience"`
	SalaryText     string `json:"baseSalary"`
	WorkingHours   string `json:"workTime"`
	Location       string `json:"workLocation"`

	ClosedYn  string `json:"closeYn"`
	EndDate   string `json:"endDate"`
	StartDate string `json:"startDate"`

	CompanyIntro       string `json:"companyIntro"`
	PositionSummary    string `json:"positionSummary"`
	SkillQualification string `json:"skillQualification"`
	Benefits           string `json:"benefits"`
	Notes              string `json:"notes"`
}

// Closed reports whether the posting is flagged closed by the jobs service.
func (d Detail) Closed() bool {
	return strings.EqualFold(strings.TrimSpace(d.ClosedYn), "Y")
}

// Client fetches public job details from the jobs service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient constructs a Client with a per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// GetDetail fetches one job posting. Every transport, status, or decode
// failure is reported as ErrUnavailable.
func (c *Client) GetDetail(ctx context.Context, jobID int64) (Detail, error) {
	url := fmt.Sprintf("%s/api/public/jobs/%d", c.BaseURL, jobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Detail{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Detail{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Detail{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Detail{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	raw, err := unwrapEnvelope(body)
	if err != nil {
		return Detail{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var detail Detail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return Detail{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return detail, nil
}

// unwrapEnvelope peels a non-null "data" wrapper up to twice; the jobs
// service wraps responses once and some endpoints wrap them again.
func unwrapEnvelope(body []byte) (json.RawMessage, error) {
	raw := json.RawMessage(body)
	for i := 0; i < 2; i++ {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, err
		}
		inner, ok := probe["data"]
		if !ok || string(inner) == "null" {
			break
		}
		raw = inner
	}
	return raw, nil
}
