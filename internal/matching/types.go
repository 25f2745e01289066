package matching

// Difficulty 院校录取难度等级（仅由院校名称推断，与学生无关）
type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// Fit 院校相对学生的匹配档位
type Fit string

const (
	FitDream  Fit = "Dream"
	FitTarget Fit = "Target"
	FitSafe   Fit = "Safe"
)

// 考试/文书状态取值
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// BudgetUnder20K 预算最低档，仅此档参与学费匹配调整
const BudgetUnder20K = "Under $20K"

// ModeAI 按偏好国家过滤的模式；其他任意取值均视为不过滤
const ModeAI = "ai"

// Profile 参与评分的学生画像快照（字段缺失时按零值处理）
type Profile struct {
	GPA                string
	IELTSStatus        string
	GREStatus          string
	SOPStatus          string
	BudgetRange        string
	PreferredCountries []string
}

// UniversityCandidate 从目录服务拉取的候选院校（不单独持久化）
type UniversityCandidate struct {
	Name       string     `json:"name"`
	Website    string     `json:"website"`
	Difficulty Difficulty `json:"difficulty"`
}

// RankedUniversity 评分后的院校
type RankedUniversity struct {
	Name       string     `json:"name"`
	Website    string     `json:"website"`
	PortalURL  string     `json:"portalUrl"`
	Difficulty Difficulty `json:"difficulty"`
	Country    string     `json:"country"`
	MatchScore int        `json:"matchScore"`
	Fit        Fit        `json:"fit"`
	Tuition    int        `json:"tuition"`
	Ranking    *int       `json:"ranking"` // nil 表示未排名
}

// CountryMatchGroup 单个国家的匹配结果
type CountryMatchGroup struct {
	Country      string             `json:"country"`
	Universities []RankedUniversity `json:"universities"`
}
