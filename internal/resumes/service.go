package resumes

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"jobapply-backend/internal/shared/storage/upload"
)

// AttachmentResolver decides, per attachment slot, whether to store a new
// upload or carry a previously stored path forward.
type AttachmentResolver interface {
	Resolve(ctx context.Context, file *multipart.FileHeader, subDir, previousPath string) (string, error)
}

// Service creates and reads resume snapshots.
type Service struct {
	Repo  Repo
	Files AttachmentResolver
}

// Save persists a new immutable snapshot built from the form. All-blank
// career and license rows are dropped before persistence. Attachment slots
// follow the resolver: a new upload wins, otherwise the form's path hint is
// carried forward, otherwise the slot stays empty.
func (s *Service) Save(ctx context.Context, applicantID int64, form *Form) (Snapshot, error) {
	if form == nil {
		return Snapshot{}, ErrInvalidInput
	}

	now := time.Now().UTC()
	snap := Snapshot{
		ApplicantID:    applicantID,
		Name:           strings.TrimSpace(form.Name),
		Gender:         strings.TrimSpace(form.Gender),
		BirthDate:      strings.TrimSpace(form.BirthDate),
		Phone:          strings.TrimSpace(form.Phone),
		Email:          strings.TrimSpace(form.Email),
		Address:        strings.TrimSpace(form.Address),
		SchoolName:     strings.TrimSpace(form.School),
		Major:          strings.TrimSpace(form.Major),
		EntranceDate:   strings.TrimSpace(form.EnrollDate),
		GraduateDate:   strings.TrimSpace(form.GraduateDate),
		GPA:            strings.TrimSpace(form.GPA),
		GraduateStatus: strings.TrimSpace(form.GraduateStatus),
		Skill:          form.Skill,
		Introduction:   form.SelfIntro,
		CreatedAt:      now,
	}

	for _, row := range form.CareerRows() {
		snap.Careers = append(snap.Careers, CareerEntry{
			Company:         row.Company,
			Department:      row.Department,
			JoinDate:        row.JoinDate,
			RetireDate:      row.RetireDate,
			Position:        row.Position,
			Salary:          row.Salary,
			PositionSummary: row.PositionSummary,
			Experience:      row.Experience,
		})
	}
	for _, row := range form.LicenseRows() {
		snap.Certificates = append(snap.Certificates, Certificate{
			Name:         row.Name,
			ObtainedDate: row.ObtainedDate,
			Agency:       row.Agency,
			Number:       row.Number,
		})
	}

	slots := []struct {
		kind     string
		subDir   string
		file     *multipart.FileHeader
		previous string
	}{
		{KindPhoto, upload.SubDirPhotos, form.Photo, form.PhotoPath},
		{KindServiceProof, upload.SubDirFiles, form.ServiceProofFile, form.ServiceProofPath},
		{KindResumeFile, upload.SubDirFiles, form.ResumeFile, form.ResumeFilePath},
	}
	for _, slot := range slots {
		path, err := s.Files.Resolve(ctx, slot.file, slot.subDir, slot.previous)
		if err != nil {
			return Snapshot{}, fmt.Errorf("store %s attachment: %w", strings.ToLower(slot.kind), err)
		}
		if path == "" {
			continue
		}
		snap.Attachments = append(snap.Attachments, Attachment{
			Kind:       slot.kind,
			Path:       path,
			UploadedAt: now,
		})
	}

	id, err := s.Repo.Create(ctx, snap)
	if err != nil {
		return Snapshot{}, err
	}
	snap.ID = id
	return snap, nil
}

// Latest returns the applicant's newest snapshot.
func (s *Service) Latest(ctx context.Context, applicantID int64) (Snapshot, error) {
	return s.Repo.GetLatestByApplicant(ctx, applicantID)
}

// Get returns a snapshot by id.
func (s *Service) Get(ctx context.Context, id int64) (Snapshot, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns one page of the applicant's snapshots, newest first, plus
// the total count.
func (s *Service) List(ctx context.Context, applicantID int64, page, size int) ([]Snapshot, int, error) {
	return s.Repo.ListByApplicant(ctx, applicantID, page, size)
}

// ToForm rebuilds the apply form view of a snapshot, including the stored
// attachment paths as carry-forward hints for the next save.
func ToForm(snap Snapshot) *Form {
	form := &Form{
		Name:             snap.Name,
		Gender:           snap.Gender,
		BirthDate:        snap.BirthDate,
		Phone:            snap.Phone,
		Email:            snap.Email,
		Address:          snap.Address,
		School:           snap.SchoolName,
		Major:            snap.Major,
		EnrollDate:       snap.EntranceDate,
		GraduateDate:     snap.GraduateDate,
		GPA:              snap.GPA,
		GraduateStatus:   snap.GraduateStatus,
		Skill:            snap.Skill,
		SelfIntro:        snap.Introduction,
		Careers:          []CareerForm{},
		Licenses:         []LicenseForm{},
		PhotoPath:        snap.AttachmentPath(KindPhoto),
		ServiceProofPath: snap.AttachmentPath(KindServiceProof),
		ResumeFilePath:   snap.AttachmentPath(KindResumeFile),
	}
	for _, c := range snap.Careers {
		form.Careers = append(form.Careers, CareerForm{
			Company:         c.Company,
			Department:      c.Department,
			JoinDate:        c.JoinDate,
			RetireDate:      c.RetireDate,
			Position:        c.Position,
			Salary:          c.Salary,
			PositionSummary: c.PositionSummary,
			Experience:      c.Experience,
		})
	}
	for _, c := range snap.Certificates {
		form.Licenses = append(form.Licenses, LicenseForm{
			Name:         c.Name,
			ObtainedDate: c.ObtainedDate,
			Agency:       c.Agency,
			Number:       c.Number,
		})
	}
	return form
}
