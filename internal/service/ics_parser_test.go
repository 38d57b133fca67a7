package service

import (
	"testing"

	pkgerrors "course-planner/pkg/errors"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:lecture-1
DTSTART:20250825T103000
DTEND:20250825T114500
RRULE:FREQ=WEEKLY;BYDAY=MO,WE
LOCATION:ENG 189
SUMMARY:CS 146 Lecture
END:VEVENT
BEGIN:VEVENT
UID:lab-1
DTSTART:20250829T140000
DTEND:20250829T155000
SUMMARY:CS 146 Lab
END:VEVENT
END:VCALENDAR
`

func TestParseMeetingsFromICS(t *testing.T) {
	meetings, err := parseMeetingsFromICS(sampleICS)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	// RRULE 的 BYDAY 展开成两天，无 RRULE 的实验课取 DTSTART 当天
	if len(meetings) != 3 {
		t.Fatalf("期望 3 个时段，实际=%d", len(meetings))
	}

	if meetings[0].Day != "Monday" || meetings[1].Day != "Wednesday" {
		t.Errorf("期望讲座在 Monday/Wednesday，实际=%s/%s", meetings[0].Day, meetings[1].Day)
	}
	if meetings[0].StartTime != "10:30" || meetings[0].EndTime != "11:45" {
		t.Errorf("期望讲座时段 10:30-11:45，实际=%s-%s", meetings[0].StartTime, meetings[0].EndTime)
	}
	if meetings[0].Room != "ENG 189" {
		t.Errorf("期望教室 ENG 189，实际=%s", meetings[0].Room)
	}

	// 2025-08-29 是周五
	if meetings[2].Day != "Friday" {
		t.Errorf("期望实验课在 Friday，实际=%s", meetings[2].Day)
	}
}

func TestParseMeetingsFromICS_Invalid(t *testing.T) {
	if _, err := parseMeetingsFromICS("not an ics file"); err == nil {
		t.Error("期望非法内容报错")
	}

	empty := "BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:-//test//EN\nEND:VCALENDAR\n"
	_, err := parseMeetingsFromICS(empty)
	if _, ok := pkgerrors.AsValidationError(err); !ok {
		t.Errorf("期望 ValidationError，实际=%v", err)
	}
}
