package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Bryne19/deanza-course-planner/internal/model"
	"github.com/Bryne19/deanza-course-planner/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptySchedule = errors.New("课表为空，无可导出内容")
	ErrExportGenerateFail  = errors.New("生成导出文件失败")
)

const campusTimezone = "America/Los_Angeles"

// ExportService 课表导出业务接口
//
// 设计说明：
//   - Excel 为平铺清单：一行一门课，附评分快照
//   - iCalendar 按 (课程, 星期) 生成每周重复事件；无固定时间的
//     课程（TBA / 异步在线）不进日历，只进 Excel
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type ExportService interface {
	// ExportXLSX 导出课表为 Excel
	ExportXLSX(ctx context.Context, sessionID string) (*bytes.Buffer, string, error)
	// ExportICS 导出课表为 iCalendar
	ExportICS(ctx context.Context, sessionID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportXLSX(ctx context.Context, sessionID string) (*bytes.Buffer, string, error) {
	sections, err := s.loadSections(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "My Schedule"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 24)
	f.SetColWidth(sheetName, "D", "E", 26)
	f.SetColWidth(sheetName, "F", "H", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"CRN", "Course", "Professor", "Class Time", "Format", "Rating", "Difficulty", "# Ratings"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", endHeader, headerStyle)

	for row, sec := range sections {
		values := []interface{}{sec.CRN, sec.Course, sec.Professor, sec.RawTime, sec.Format}
		if r := sec.Ratings(); r != nil {
			values = append(values, r.Rating, r.Difficulty, r.NumRatings)
		} else {
			values = append(values, "N/A", "N/A", "N/A")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("schedule_%s.xlsx", time.Now().Format("20060102"))
	return &buf, filename, nil
}

func (s *exportService) ExportICS(ctx context.Context, sessionID string) (*bytes.Buffer, string, error) {
	sections, err := s.loadSections(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	loc, err := time.LoadLocation(campusTimezone)
	if err != nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//deanza-course-planner//EN")

	now := time.Now().In(loc)
	eventCount := 0
	for i := range sections {
		sec := &sections[i]
		mt := sec.MeetingTime()
		if !mt.HasFixedTime {
			continue
		}
		for _, day := range mt.Days {
			start := nextOccurrence(now, day, mt.StartMinutes, loc)
			end := start.Add(time.Duration(mt.DurationMinutes) * time.Minute)

			evt := cal.AddEvent(fmt.Sprintf("%s-%s@deanza-course-planner", sec.CRN, day))
			evt.SetCreatedTime(now)
			evt.SetDtStampTime(now)
			evt.SetStartAt(start)
			evt.SetEndAt(end)
			evt.SetSummary(fmt.Sprintf("%s (CRN %s)", sec.Course, sec.CRN))
			evt.SetDescription(fmt.Sprintf("Professor: %s\nFormat: %s", sec.Professor, sec.Format))
			// 一学期约 12 周
			evt.AddRrule("FREQ=WEEKLY;COUNT=12")
			eventCount++
		}
	}

	if eventCount == 0 {
		return nil, "", ErrExportEmptySchedule
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("schedule_%s.ics", time.Now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) loadSections(ctx context.Context, sessionID string) ([]model.Section, error) {
	sections, err := s.repo.Section.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("导出时查询课表失败", zap.Error(err))
		return nil, storageErr(err)
	}
	if len(sections) == 0 {
		return nil, ErrExportEmptySchedule
	}
	return sections, nil
}

var weekdayByName = map[string]time.Weekday{
	"Mon": time.Monday, "Tue": time.Tuesday, "Wed": time.Wednesday,
	"Thu": time.Thursday, "Fri": time.Friday, "Sat": time.Saturday,
	"Sun": time.Sunday,
}

// nextOccurrence 从 now 起（含当天）该星期几的下一次上课时刻
func nextOccurrence(now time.Time, day string, startMinutes int, loc *time.Location) time.Time {
	target := weekdayByName[day]
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	offset := (int(target) - int(date.Weekday()) + 7) % 7
	date = date.AddDate(0, 0, offset)
	return date.Add(time.Duration(startMinutes) * time.Minute)
}
