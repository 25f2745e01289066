package model

// 任务分组
const (
	TaskGroupDocuments = "Documents"
	TaskGroupExams     = "Exams"
	TaskGroupForms     = "Forms"
)

// ApplicationTask 申请任务 — 对应 application_tasks
type ApplicationTask struct {
	ID             string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"-"`
	UserID         string `gorm:"type:uuid;not null;index:idx_tasks_user_university" json:"-"`
	UniversityName string `gorm:"type:varchar(255);not null;index:idx_tasks_user_university" json:"university_name"`
	TaskKey        string `gorm:"type:varchar(100);not null"                    json:"id"`
	Group          string `gorm:"column:task_group;type:varchar(20);not null"   json:"group"`
	Title          string `gorm:"type:varchar(500);not null"                    json:"title"`
	Description    string `gorm:"type:text;not null;default:''"                 json:"desc"`
	Priority       string `gorm:"type:varchar(20);not null;default:'medium'"    json:"priority"`
	Completed      bool   `gorm:"not null;default:false"                        json:"completed"`
	SortOrder      int    `gorm:"not null;default:0"                            json:"-"`
	BaseModel
}

// TableName 指定表名
func (ApplicationTask) TableName() string { return "application_tasks" }
