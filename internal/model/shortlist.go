package model

import "time"

// ShortlistedUniversity 收藏院校 — 对应 shortlisted_universities
type ShortlistedUniversity struct {
	ShortlistID         string     `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID              string     `gorm:"type:uuid;not null;uniqueIndex:uq_shortlist_user_name"    json:"-"`
	Name                string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_shortlist_user_name" json:"name"`
	Country             string     `gorm:"type:varchar(100);not null;default:''"                    json:"country"`
	PortalURL           string     `gorm:"type:varchar(500);not null;default:''"                    json:"portal_url"`
	MatchScore          int        `gorm:"not null;default:0"                                       json:"match_score"`
	Tuition             int        `gorm:"not null;default:0"                                       json:"tuition"`
	Ranking             *int       `json:"ranking"`
	Locked              bool       `gorm:"not null;default:false"                                   json:"locked"`
	ApplicationDeadline *time.Time `gorm:"type:date"                                                json:"application_deadline,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ShortlistedUniversity) TableName() string { return "shortlisted_universities" }
