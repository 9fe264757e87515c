package service

import (
	"github.com/Bryne19/deanza-course-planner/internal/dto"
	"github.com/Bryne19/deanza-course-planner/internal/model"
)

// ── 冲突检测 ────────────────────────────────────────────────
//
// 对课表中的每个无序课程对判定"同日且时间重叠"。
// 区间按半开 [start, end) 处理：一门 10:50 下课、另一门 10:50
// 上课不算冲突。无固定时间（TBA / 异步）的课程不参与检测。
// 课程数受学分上限约束，O(n²) 足够。
// ─────────────────────────────────────────────────────────────

// FindConflicts 计算课程集合的全部两两冲突
// 课程对按输入顺序枚举，每对至多产生一条冲突且只产生一个方向
func FindConflicts(sections []model.Section) []dto.Conflict {
	conflicts := []dto.Conflict{}

	for i := range sections {
		a := &sections[i]
		mtA := a.MeetingTime()
		if !mtA.HasFixedTime {
			continue
		}

		for j := i + 1; j < len(sections); j++ {
			b := &sections[j]
			if a.CRN == b.CRN {
				continue
			}
			mtB := b.MeetingTime()
			if !mtB.HasFixedTime {
				continue
			}

			sharedDays := model.IntersectDays(mtA.Days, mtB.Days)
			if len(sharedDays) == 0 {
				continue
			}
			// 半开区间重叠判定
			if mtA.StartMinutes >= mtB.EndMinutes || mtB.StartMinutes >= mtA.EndMinutes {
				continue
			}

			conflicts = append(conflicts, dto.Conflict{
				Section1: sectionBrief(a),
				Section2: sectionBrief(b),
				Days:     sharedDays,
				Time1:    mtA.TimeRangeLabel(),
				Time2:    mtB.TimeRangeLabel(),
			})
		}
	}

	return conflicts
}

// conflictsInvolving 过滤出涉及指定 CRN 的冲突（加课响应只报告新引入的冲突）
func conflictsInvolving(conflicts []dto.Conflict, crn string) []dto.Conflict {
	result := []dto.Conflict{}
	for _, c := range conflicts {
		if c.Section1.CRN == crn || c.Section2.CRN == crn {
			result = append(result, c)
		}
	}
	return result
}

func sectionBrief(s *model.Section) dto.SectionBrief {
	return dto.SectionBrief{
		CRN:       s.CRN,
		Course:    s.Course,
		Professor: s.Professor,
	}
}
