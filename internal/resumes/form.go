package resumes

import (
	"mime/multipart"
	"strings"
)

// Form is the resume content of one apply form submission. Career and
// license rows arrive as parallel arrays, matching the apply page inputs.
type Form struct {
	Name      string `form:"name" json:"name"`
	Gender    string `form:"gender" json:"gender"`
	BirthDate string `form:"birthDate" json:"birthDate"`
	Phone     string `form:"phone" json:"phone"`
	Email     string `form:"email" json:"email"`
	Address   string `form:"address" json:"address"`

	School         string `form:"school" json:"school"`
	Major          string `form:"major" json:"major"`
	EnrollDate     string `form:"enrollDate" json:"enrollDate"`
	GraduateDate   string `form:"graduateDate" json:"graduateDate"`
	GPA            string `form:"gpa" json:"gpa"`
	GraduateStatus string `form:"graduateStatus" json:"graduateStatus"`

	Skill     string `form:"skill" json:"skill"`
	SelfIntro string `form:"selfIntro" json:"selfIntro"`

	CareerCompany         []string `form:"careerCompany" json:"-"`
	CareerDepartment      []string `form:"careerDepartment" json:"-"`
	CareerJoinDate        []string `form:"careerJoinDate" json:"-"`
	CareerRetireDate      []string `form:"careerRetireDate" json:"-"`
	CareerPosition        []string `form:"careerPosition" json:"-"`
	CareerSalary          []string `form:"careerSalary" json:"-"`
	CareerPositionSummary []string `form:"careerPositionSummary" json:"-"`
	CareerExperience      []string `form:"careerExperience" json:"-"`

	LicenseName   []string `form:"licenseName" json:"-"`
	LicenseDate   []string `form:"licenseDate" json:"-"`
	LicenseAgency []string `form:"licenseAgency" json:"-"`
	LicenseNum    []string `form:"licenseNum" json:"-"`

	Careers  []CareerForm  `form:"-" json:"careers"`
	Licenses []LicenseForm `form:"-" json:"licenses"`

	Photo            *multipart.FileHeader `form:"photo" json:"-"`
	ServiceProofFile *multipart.FileHeader `form:"serviceProofFile" json:"-"`
	ResumeFile       *multipart.FileHeader `form:"resumeFile" json:"-"`

	// Carry-forward hints: previously stored paths the form echoes back so
	// a save without a re-upload keeps the attached files.
	PhotoPath        string `form:"photoPath" json:"photoPath"`
	ServiceProofPath string `form:"serviceProofPath" json:"serviceProofPath"`
	ResumeFilePath   string `form:"resumeFilePath" json:"resumeFilePath"`
}

// CareerForm is one career row of the form.
type CareerForm struct {
	Company         string `json:"company"`
	Department      string `json:"department"`
	JoinDate        string `json:"joinDate"`
	RetireDate      string `json:"retireDate"`
	Position        string `json:"position"`
	Salary          string `json:"salary"`
	PositionSummary string `json:"positionSummary"`
	Experience      string `json:"experience"`
}

// LicenseForm is one certificate row of the form.
type LicenseForm struct {
	Name         string `json:"certificateName"`
	ObtainedDate string `json:"obtainedDate"`
	Agency       string `json:"agency"`
	Number       string `json:"certificateNum"`
}

// CareerRows merges the parallel array fields into career rows, dropping
// rows where every field is blank. Pre-built Careers win when present.
func (f *Form) CareerRows() []CareerForm {
	if f.Careers != nil {
		return f.Careers
	}

	n := maxLen(f.CareerCompany, f.CareerDepartment, f.CareerJoinDate, f.CareerRetireDate,
		f.CareerPosition, f.CareerSalary, f.CareerPositionSummary, f.CareerExperience)

	var out []CareerForm
	for i := 0; i < n; i++ {
		row := CareerForm{
			Company:         at(f.CareerCompany, i),
			Department:      at(f.CareerDepartment, i),
			JoinDate:        at(f.CareerJoinDate, i),
			RetireDate:      at(f.CareerRetireDate, i),
			Position:        at(f.CareerPosition, i),
			Salary:          at(f.CareerSalary, i),
			PositionSummary: at(f.CareerPositionSummary, i),
			Experience:      at(f.CareerExperience, i),
		}
		if allBlank(row.Company, row.Department, row.JoinDate, row.RetireDate,
			row.Position, row.Salary, row.PositionSummary, row.Experience) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// LicenseRows merges the parallel array fields into license rows, dropping
// rows where every field is blank. Pre-built Licenses win when present.
func (f *Form) LicenseRows() []LicenseForm {
	if f.Licenses != nil {
		return f.Licenses
	}

	n := maxLen(f.LicenseName, f.LicenseDate, f.LicenseAgency, f.LicenseNum)

	var out []LicenseForm
	for i := 0; i < n; i++ {
		row := LicenseForm{
			Name:         at(f.LicenseName, i),
			ObtainedDate: at(f.LicenseDate, i),
			Agency:       at(f.LicenseAgency, i),
			Number:       at(f.LicenseNum, i),
		}
		if allBlank(row.Name, row.ObtainedDate, row.Agency, row.Number) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func maxLen(lists ...[]string) int {
	n := 0
	for _, l := range lists {
		if len(l) > n {
			n = len(l)
		}
	}
	return n
}

func at(list []string, i int) string {
	if i < 0 || i >= len(list) {
		return ""
	}
	return list[i]
}

func allBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
