package matching

import (
	"strconv"
	"strings"
)

const (
	baseScore     = 40
	minScore      = 0
	maxScore      = 100
	preferBoost   = 10
	safeCutoff    = 85
	targetCutoff  = 55
	budgetCeiling = 20000
)

// eliteFragments 知名院校名称片段，命中即为 high
var eliteFragments = []string{
	"MIT", "Harvard", "Stanford", "Oxford", "Cambridge", "ETH",
	"Imperial", "UCL", "Toronto", "Munich", "Heidelberg", "Melbourne",
}

// genericFragments 通用机构词，命中即为 medium
var genericFragments = []string{"University", "Institute", "Technology", "Tech"}

// GuessDifficulty 按名称子串推断院校难度，精英名单优先于通用词
func GuessDifficulty(name string) Difficulty {
	n := strings.ToLower(name)
	if containsAny(n, eliteFragments) {
		return DifficultyHigh
	}
	if containsAny(n, genericFragments) {
		return DifficultyMedium
	}
	return DifficultyLow
}

func containsAny(lowerName string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(lowerName, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// CalculateMatch 计算画像与院校的匹配分，结果钳制在 [0,100]
// 偏好国家加成不在此处处理，见 Engine.rank
func CalculateMatch(p Profile, difficulty Difficulty, country string) int {
	score := baseScore

	// GPA（无法解析视为 0）
	gpa := ParseGPA(p.GPA)
	switch {
	case gpa >= 9:
		score += 20
	case gpa >= 8:
		score += 15
	case gpa >= 7:
		score += 8
	case gpa >= 6:
		score -= 5
	default:
		score -= 20
	}

	// 考试
	if p.IELTSStatus == StatusCompleted {
		score += 10
	} else {
		score -= 10
	}
	if p.GREStatus == StatusCompleted {
		score += 5
	} else {
		score -= 5
	}

	// 文书：未填写等同未开始
	if p.SOPStatus != "" && p.SOPStatus != StatusNotStarted {
		score += 5
	} else {
		score -= 5
	}

	switch difficulty {
	case DifficultyHigh:
		score -= 20
	case DifficultyMedium:
		score -= 8
	case DifficultyLow:
		score += 5
	}

	// 预算：仅最低档参与
	if p.BudgetRange == BudgetUnder20K {
		if EstimateTuition(country) <= budgetCeiling {
			score += 10
		} else {
			score -= 20
		}
	}

	return clamp(score)
}

// ClassifyFit 分数到档位的阶梯函数
func ClassifyFit(score int) Fit {
	switch {
	case score >= safeCutoff:
		return FitSafe
	case score >= targetCutoff:
		return FitTarget
	default:
		return FitDream
	}
}

// ApplyPreference 偏好国家加成，仅做上限钳制
func ApplyPreference(score int, preferred bool) int {
	if !preferred {
		return score
	}
	score += preferBoost
	if score > maxScore {
		return maxScore
	}
	return score
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// ParseGPA 取字符串开头最长的数字前缀，如 "8.5/10" → 8.5、"9 CGPA" → 9；没有数字前缀时为 0
func ParseGPA(raw string) float64 {
	s := strings.TrimSpace(raw)
	end := numericPrefixLen(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

// numericPrefixLen 形如 [+-]digits[.digits][e[+-]digits] 的前缀长度，至少含一位数字才有效
func numericPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	// 指数部分不完整时（如 "9e"）忽略
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
