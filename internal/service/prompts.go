package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-counsellor/internal/model"
)

const counsellorPersona = `You are an AI Study Abroad Counsellor inside a premium web application.

This is the student's live profile from the database:
%s

Your personality:
You are warm, clear, professional, and motivating.
You guide decisions like a real counsellor.
You use emojis naturally to improve readability.
You write in short, clean, spaced sections.
`

const chatInstructions = `
You NEVER use Markdown headings, bullet symbols or numbered lists.
Use "Emoji + Section Title" followed by short paragraphs, each item on its own line.

Your responsibilities:
Understand the student's academic profile, budget, countries, and exam status.
Identify strengths and gaps.
Recommend universities in Dream, Target, and Safe groups and explain why each fits or is risky.
Suggest next best actions.

If the user asks to take an action (shortlist, lock, create a task), respond ONLY in this JSON format:
{"action": "shortlist | lock | add_task", "data": {"university": "Name", "category": "Dream | Target | Safe", "task": "optional"}}

Otherwise reply only in the styled natural language format above.
`

const introInstructions = `
STRICT STYLE RULES:
Do not use Markdown, bullet symbols, numbered lists, bold text or placeholders like [Degree].
Use "Emoji + Section Title" followed by short natural sentences, each line on its own.

Now introduce yourself and summarize the student profile in these sections:
🎓 Your Profile: the intended degree and field of study.
🌍 Preferred Countries: the countries the student is targeting.
💰 Budget Overview: the budget range in simple words.
📝 Exam Readiness: IELTS, GRE and SOP status.

If any information is missing, politely mention it.
End with "🧭 What would you like to explore next?" and invite the student to ask about universities, chances, or next steps.
`

const taskInstructions = `You are an AI Study Abroad Counsellor.

Return ONLY valid JSON. Complete the JSON fully and close all brackets. No markdown, no explanations.

Format EXACTLY like:
{"tasks": [{"id": "string", "group": "Documents | Exams | Forms", "title": "string", "desc": "string", "priority": "high | medium"}]}

University:
%s (%s)

Student profile:
%s
`

const analyzeInstructions = `You are an expert study-abroad counsellor.

University: %s
Website: %s
Student Profile: %s

Give:
1. Required exams
2. Minimum GPA estimate
3. Acceptance difficulty (Low/Medium/High)
4. Scholarship chances
`

func profileJSON(p model.StudentProfile) (string, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("序列化画像失败: %w", err)
	}
	return string(b), nil
}

func chatSystemPrompt(p model.StudentProfile) (string, error) {
	pj, err := profileJSON(p)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(counsellorPersona, pj) + chatInstructions, nil
}

func introPrompt(p model.StudentProfile) (string, error) {
	pj, err := profileJSON(p)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(counsellorPersona, pj) + introInstructions, nil
}

// taskPrompt 仅携带与任务规划相关的画像字段
func taskPrompt(uni *model.ShortlistedUniversity, p model.StudentProfile) (string, error) {
	subset := map[string]string{
		"educationLevel": p.EducationLevel,
		"major":          p.Major,
		"gpa":            p.GPA,
		"intendedDegree": p.IntendedDegree,
		"fieldOfStudy":   p.FieldOfStudy,
		"targetIntake":   p.TargetIntake,
		"ieltsStatus":    p.IELTSStatus,
		"greStatus":      p.GREStatus,
		"sopStatus":      p.SOPStatus,
	}
	b, err := json.Marshal(subset)
	if err != nil {
		return "", fmt.Errorf("序列化画像失败: %w", err)
	}
	return fmt.Sprintf(taskInstructions, uni.Name, uni.Country, string(b)), nil
}

func analyzePrompt(university, website string, profile map[string]interface{}) (string, error) {
	b, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("序列化画像失败: %w", err)
	}
	return fmt.Sprintf(analyzeInstructions, strings.TrimSpace(university), strings.TrimSpace(website), string(b)), nil
}
