package applications

import "jobapply-backend/internal/resumes"

// DraftResponse is the payload behind GET /apply/:jobId/draft.
type DraftResponse struct {
	Exists        bool          `json:"exists"`
	Status        string        `json:"status"`
	ApplicationID *int64        `json:"applicationId,omitempty"`
	ResumeID      *int64        `json:"resumeId,omitempty"`
	Form          *resumes.Form `json:"formData"`
}

// SaveResponse is the payload behind temp-save and submit.
type SaveResponse struct {
	OK            bool   `json:"ok"`
	Status        string `json:"status"`
	ApplicationID int64  `json:"applicationId"`
}

func toDraftResponse(d Draft) DraftResponse {
	resp := DraftResponse{
		Exists: d.Exists,
		Status: d.Status,
		Form:   d.Form,
	}
	if d.ApplicationID != 0 {
		id := d.ApplicationID
		resp.ApplicationID = &id
	}
	if d.ResumeID != 0 {
		id := d.ResumeID
		resp.ResumeID = &id
	}
	return resp
}

func toSaveResponse(r SaveResult) SaveResponse {
	return SaveResponse{
		OK:            true,
		Status:        r.Status,
		ApplicationID: r.ApplicationID,
	}
}
