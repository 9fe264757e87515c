package model

// ProfessorRatings 教授评分（来自 RateMyProfessors）
// 可选数据：查不到评分是正常情况，不是错误，也不影响加课
type ProfessorRatings struct {
	Rating     float64 `json:"rating"`
	Difficulty float64 `json:"difficulty"`
	NumRatings int     `json:"num_ratings"`
	URL        string  `json:"url,omitempty"`
}

// Section 已选课程表 — 对应 sections
// 一条记录是某一期的一个开课班次，按会话隔离，(session_id, crn) 唯一
type Section struct {
	SectionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"section_id"`
	SessionID string `gorm:"type:uuid;not null;uniqueIndex:uq_sections_session_crn"  json:"-"`
	CRN       string `gorm:"type:varchar(10);not null;uniqueIndex:uq_sections_session_crn;column:crn" json:"crn"`
	Course    string `gorm:"type:varchar(50);not null"                               json:"course"`
	Professor string `gorm:"type:varchar(100);not null;default:'TBA'"                json:"professor"`
	RawTime   string `gorm:"type:varchar(100);not null;default:'TBA'"                json:"class_time"`
	Format    string `gorm:"type:varchar(20);not null;default:'Unknown'"             json:"format"` // Lecture | Online | Hybrid | In-Person | Unknown
	// 评分快照（加课时附带；列表页展示用，不回源刷新）
	Rating     *float64 `gorm:"type:numeric(3,1)"   json:"-"`
	Difficulty *float64 `gorm:"type:numeric(3,1)"   json:"-"`
	NumRatings *int     `json:"-"`
	RatingURL  *string  `gorm:"type:varchar(255)"   json:"-"`
	Position   int      `gorm:"not null;default:0"  json:"-"` // 插入顺序
	BaseModel
}

// TableName 指定表名
func (Section) TableName() string { return "sections" }

// MeetingTime 按需从 raw_time 重算结构化会面时间（不落库）
func (s *Section) MeetingTime() MeetingTime {
	return ParseMeetingTime(s.RawTime)
}

// Ratings 以可选值形式返回评分；未存储评分时返回 nil
func (s *Section) Ratings() *ProfessorRatings {
	if s.Rating == nil && s.Difficulty == nil && s.NumRatings == nil {
		return nil
	}
	r := &ProfessorRatings{}
	if s.Rating != nil {
		r.Rating = *s.Rating
	}
	if s.Difficulty != nil {
		r.Difficulty = *s.Difficulty
	}
	if s.NumRatings != nil {
		r.NumRatings = *s.NumRatings
	}
	if s.RatingURL != nil {
		r.URL = *s.RatingURL
	}
	return r
}

// SetRatings 将可选评分写入存储列；传 nil 表示"未找到"，列保持 NULL
func (s *Section) SetRatings(r *ProfessorRatings) {
	if r == nil {
		s.Rating, s.Difficulty, s.NumRatings, s.RatingURL = nil, nil, nil, nil
		return
	}
	rating, difficulty, num := r.Rating, r.Difficulty, r.NumRatings
	s.Rating = &rating
	s.Difficulty = &difficulty
	s.NumRatings = &num
	if r.URL != "" {
		u := r.URL
		s.RatingURL = &u
	}
}
