package dto

import (
	"strings"

	"ai-counsellor/internal/model"
)

// ProfileRequest 画像提交请求（onboarding / 整体替换 / 合并共用）
type ProfileRequest struct {
	EducationLevel     string   `json:"educationLevel"`
	Major              string   `json:"major"`
	GraduationYear     string   `json:"graduationYear"`
	GPA                string   `json:"gpa"`
	IntendedDegree     string   `json:"intendedDegree"`
	FieldOfStudy       string   `json:"fieldOfStudy"`
	TargetIntake       string   `json:"targetIntake"`
	PreferredCountries []string `json:"preferredCountries"`
	BudgetRange        string   `json:"budgetRange"`
	FundingPlan        string   `json:"fundingPlan"`
	IELTSStatus        string   `json:"ieltsStatus"`
	GREStatus          string   `json:"greStatus"`
	SOPStatus          string   `json:"sopStatus"`
}

// ToModel 去除首尾空白与空白国家后转换为模型
func (r *ProfileRequest) ToModel() model.StudentProfile {
	countries := make([]string, 0, len(r.PreferredCountries))
	for _, c := range r.PreferredCountries {
		if c = strings.TrimSpace(c); c != "" {
			countries = append(countries, c)
		}
	}
	return model.StudentProfile{
		EducationLevel:     strings.TrimSpace(r.EducationLevel),
		Major:              strings.TrimSpace(r.Major),
		GraduationYear:     strings.TrimSpace(r.GraduationYear),
		GPA:                strings.TrimSpace(r.GPA),
		IntendedDegree:     strings.TrimSpace(r.IntendedDegree),
		FieldOfStudy:       strings.TrimSpace(r.FieldOfStudy),
		TargetIntake:       strings.TrimSpace(r.TargetIntake),
		PreferredCountries: countries,
		BudgetRange:        strings.TrimSpace(r.BudgetRange),
		FundingPlan:        strings.TrimSpace(r.FundingPlan),
		IELTSStatus:        strings.TrimSpace(r.IELTSStatus),
		GREStatus:          strings.TrimSpace(r.GREStatus),
		SOPStatus:          strings.TrimSpace(r.SOPStatus),
	}
}
