package model

import (
	"database/sql/driver"
	"strings"

	"ai-counsellor/internal/matching"
)

// 申请阶段
const (
	StageDiscovering = "discovering"
	StageApplying    = "applying"
)

// User 用户文档 — 对应 users
// 画像与匹配结果以 JSONB 列存放，重算时整体替换
type User struct {
	UserID              string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name                string            `gorm:"type:varchar(100);not null"                     json:"name"`
	Email               string            `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash        string            `gorm:"type:varchar(255);not null"                     json:"-"`
	OnboardingCompleted bool              `gorm:"not null;default:false"                         json:"onboarding_completed"`
	ApplicationStage    string            `gorm:"type:varchar(20);not null;default:'discovering'" json:"application_stage"`
	Profile             StudentProfile    `gorm:"type:jsonb;not null;default:'{}'"               json:"profile"`
	UniversityMatches   UniversityMatches `gorm:"type:jsonb;not null;default:'[]'"               json:"university_matches"`
	UniversityMode      string            `gorm:"type:varchar(20);not null;default:'ai'"         json:"university_mode"`
	ProfileVersion      int               `gorm:"not null;default:0"                             json:"profile_version"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// StudentProfile 学生画像问卷（JSONB）
type StudentProfile struct {
	EducationLevel     string   `json:"educationLevel,omitempty"`
	Major              string   `json:"major,omitempty"`
	GraduationYear     string   `json:"graduationYear,omitempty"`
	GPA                string   `json:"gpa,omitempty"`
	IntendedDegree     string   `json:"intendedDegree,omitempty"`
	FieldOfStudy       string   `json:"fieldOfStudy,omitempty"`
	TargetIntake       string   `json:"targetIntake,omitempty"`
	PreferredCountries []string `json:"preferredCountries"`
	BudgetRange        string   `json:"budgetRange,omitempty"`
	FundingPlan        string   `json:"fundingPlan,omitempty"`
	IELTSStatus        string   `json:"ieltsStatus,omitempty"`
	GREStatus          string   `json:"greStatus,omitempty"`
	SOPStatus          string   `json:"sopStatus,omitempty"`
}

// Scan 实现 sql.Scanner
func (p *StudentProfile) Scan(src interface{}) error {
	return scanJSONB(src, p, "StudentProfile")
}

// Value 实现 driver.Valuer
func (p StudentProfile) Value() (driver.Value, error) {
	if p.PreferredCountries == nil {
		p.PreferredCountries = []string{}
	}
	return valueJSONB(p)
}

// ForMatching 提取评分所需字段
func (p StudentProfile) ForMatching() matching.Profile {
	return matching.Profile{
		GPA:                strings.TrimSpace(p.GPA),
		IELTSStatus:        p.IELTSStatus,
		GREStatus:          p.GREStatus,
		SOPStatus:          p.SOPStatus,
		BudgetRange:        p.BudgetRange,
		PreferredCountries: p.PreferredCountries,
	}
}

// UniversityMatches 按国家分组的匹配结果（JSONB）
type UniversityMatches []matching.CountryMatchGroup

// Scan 实现 sql.Scanner
func (m *UniversityMatches) Scan(src interface{}) error {
	return scanJSONB(src, m, "UniversityMatches")
}

// Value 实现 driver.Valuer
func (m UniversityMatches) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return valueJSONB([]matching.CountryMatchGroup(m))
}
