package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ── 会面时间解析 ──────────────────────────────────────────────
//
// 选课系统的时间字符串是自由文本，格式不稳定：
//   "MWF 10:00AM-10:50AM"、"M W 08:30 AM-10:45 AM"、"TBA"、"Online Async"…
// 解析是全函数：任何无法解析的输入都降级为"无固定时间"
// （不参与冲突检测），绝不因时间格式拒绝一个课程班次。
//
// 注意字母映射：T=周二、R=周四。两个 T 开头的工作日靠 R 区分，
// 这是数据源的约定，不要"修正"。
// ─────────────────────────────────────────────────────────────

// dayLetters 数据源单字母 → 工作日 token
var dayLetters = map[rune]string{
	'M': "Mon",
	'T': "Tue",
	'W': "Wed",
	'R': "Thu",
	'F': "Fri",
	'S': "Sat",
	'U': "Sun",
}

// dayOrder 工作日 token → 周内序号（排序、求交用）
var dayOrder = map[string]int{
	"Mon": 1, "Tue": 2, "Wed": 3, "Thu": 4, "Fri": 5, "Sat": 6, "Sun": 7,
}

// timeRangeRe 12 小时制时间区间，分钟可省略："8AM-9:15AM"、"10:00 AM-10:50 AM"
var timeRangeRe = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*([AP])M\s*-\s*(\d{1,2})(?::(\d{2}))?\s*([AP])M`)

// MeetingTime 结构化的每周会面时间（由 raw_time 派生，不持久化）
// HasFixedTime=false 时其余字段无意义，该班次不参与冲突检测
type MeetingTime struct {
	Days            []string `json:"days,omitempty"` // Mon … Sun
	StartMinutes    int      `json:"start_minutes,omitempty"`
	EndMinutes      int      `json:"end_minutes,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	StartLabel      string   `json:"start_time,omitempty"`
	EndLabel        string   `json:"end_time,omitempty"`
	HasFixedTime    bool     `json:"has_fixed_time"`
}

// TimeRangeLabel 展示用时间区间，如 "10:00AM - 10:50AM"
func (mt MeetingTime) TimeRangeLabel() string {
	if !mt.HasFixedTime {
		return ""
	}
	return mt.StartLabel + " - " + mt.EndLabel
}

// noFixedTime 解析失败或显式异步课程的统一返回值
var noFixedTime = MeetingTime{HasFixedTime: false}

// ParseMeetingTime 解析原始时间字符串
//
// 步骤：
//  1. 规范化大小写与空白
//  2. TBA / ASYNC / 无时间区间 → 无固定时间
//  3. 时间区间之前的字母串逐个映射为工作日；出现非法字母即解析失败
//  4. 端点按 12 小时制换算为分钟数；end <= start 视为解析失败
func ParseMeetingTime(raw string) MeetingTime {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return noFixedTime
	}
	if strings.Contains(s, "TBA") || strings.Contains(s, "ASYNC") {
		return noFixedTime
	}

	loc := timeRangeRe.FindStringIndex(s)
	if loc == nil {
		// 覆盖 "ONLINE"、"TBD" 等无时间成分的描述
		return noFixedTime
	}
	m := timeRangeRe.FindStringSubmatch(s)

	days, ok := parseDayRun(s[:loc[0]])
	if !ok || len(days) == 0 {
		return noFixedTime
	}

	start, ok := toMinutes(m[1], m[2], m[3])
	if !ok {
		return noFixedTime
	}
	end, ok := toMinutes(m[4], m[5], m[6])
	if !ok {
		return noFixedTime
	}
	if end <= start {
		return noFixedTime
	}

	return MeetingTime{
		Days:            days,
		StartMinutes:    start,
		EndMinutes:      end,
		DurationMinutes: end - start,
		StartLabel:      minutesLabel(start),
		EndLabel:        minutesLabel(end),
		HasFixedTime:    true,
	}
}

// parseDayRun 解析时间区间前的工作日字母串
// 允许空白和分隔点；其他任何非工作日字母都是解析失败
func parseDayRun(run string) ([]string, bool) {
	var days []string
	seen := make(map[string]bool)
	for _, r := range run {
		if r == ' ' || r == '\t' || r == '·' || r == '.' {
			continue
		}
		day, ok := dayLetters[r]
		if !ok {
			return nil, false
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days, true
}

// toMinutes 12 小时制端点 → 当日分钟数（12:00AM=0, 12:00PM=720）
func toMinutes(hourStr, minStr, meridiem string) (int, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	minute := 0
	if minStr != "" {
		minute, err = strconv.Atoi(minStr)
		if err != nil || minute > 59 {
			return 0, false
		}
	}
	total := (hour % 12) * 60 + minute
	if meridiem == "P" {
		total += 12 * 60
	}
	return total, true
}

// minutesLabel 分钟数 → 展示字符串，如 650 → "10:50AM"
func minutesLabel(total int) string {
	meridiem := "AM"
	hour := total / 60
	minute := total % 60
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d%s", display, minute, meridiem)
}

// IntersectDays 求两个工作日集合的交集，结果按周内顺序排列
func IntersectDays(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, d := range b {
		inB[d] = true
	}
	var shared []string
	for _, d := range a {
		if inB[d] {
			shared = append(shared, d)
		}
	}
	for i := 0; i < len(shared); i++ {
		for j := i + 1; j < len(shared); j++ {
			if dayOrder[shared[j]] < dayOrder[shared[i]] {
				shared[i], shared[j] = shared[j], shared[i]
			}
		}
	}
	return shared
}
