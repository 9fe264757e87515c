package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Bryne19/deanza-course-planner/internal/model"
)

func newTestExportService(repo *mockSectionRepo) ExportService {
	return NewExportService(newTestRepository(repo, nil), zap.NewNop())
}

func seedSection(t *testing.T, repo *mockSectionRepo, crn, course, professor, rawTime string) {
	t.Helper()
	sec := &model.Section{
		SessionID: testSessionID,
		CRN:       crn,
		Course:    course,
		Professor: professor,
		RawTime:   rawTime,
		Format:    "In-Person",
	}
	if _, err := repo.Replace(context.Background(), sec); err != nil {
		t.Fatalf("写入测试数据失败: %v", err)
	}
}

func TestExportService_XLSX(t *testing.T) {
	repo := newMockSectionRepo()
	seedSection(t, repo, "10001", "MATH 1A", "Clare Nguyen", "MWF 10:00AM-10:50AM")
	seedSection(t, repo, "10002", "PHYS 4A", "TBA", "TBA")

	buf, filename, err := newTestExportService(repo).ExportXLSX(context.Background(), testSessionID)
	if err != nil {
		t.Fatalf("导出 Excel 失败: %v", err)
	}
	if !strings.HasPrefix(filename, "schedule_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名格式错误: %q", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容不是合法的 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("My Schedule")
	if err != nil {
		t.Fatalf("读取 Sheet 失败: %v", err)
	}
	// 表头 + 两门课
	if len(rows) != 3 {
		t.Fatalf("应有 3 行，实际 %d", len(rows))
	}
	if rows[0][0] != "CRN" || rows[0][1] != "Course" {
		t.Errorf("表头错误: %v", rows[0])
	}
	if rows[1][0] != "10001" || rows[1][2] != "Clare Nguyen" {
		t.Errorf("数据行错误: %v", rows[1])
	}
	// 无评分时填 N/A
	if rows[1][5] != "N/A" {
		t.Errorf("无评分应填 N/A，实际 %q", rows[1][5])
	}
}

func TestExportService_ICS(t *testing.T) {
	repo := newMockSectionRepo()
	seedSection(t, repo, "10001", "MATH 1A", "Clare Nguyen", "MWF 10:00AM-10:50AM")
	seedSection(t, repo, "10002", "CIS 22A", "TBA", "Online Async")

	buf, filename, err := newTestExportService(repo).ExportICS(context.Background(), testSessionID)
	if err != nil {
		t.Fatalf("导出 iCalendar 失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名格式错误: %q", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "END:VCALENDAR") {
		t.Error("导出内容不是合法的 iCalendar")
	}
	// MWF = 每周三个重复事件
	if n := strings.Count(content, "BEGIN:VEVENT"); n != 3 {
		t.Errorf("应生成 3 个事件（每个上课日一个），实际 %d", n)
	}
	if !strings.Contains(content, "FREQ=WEEKLY") {
		t.Error("事件应带每周重复规则")
	}
	if !strings.Contains(content, "MATH 1A (CRN 10001)") {
		t.Error("事件摘要应含课程与 CRN")
	}
	// 异步在线课程不进日历
	if strings.Contains(content, "CIS 22A") {
		t.Error("无固定时间的课程不应出现在日历中")
	}
}

func TestExportService_EmptySchedule(t *testing.T) {
	svc := newTestExportService(nil)

	if _, _, err := svc.ExportXLSX(context.Background(), testSessionID); !errors.Is(err, ErrExportEmptySchedule) {
		t.Errorf("空课表导出应返回 ErrExportEmptySchedule，实际 %v", err)
	}
	if _, _, err := svc.ExportICS(context.Background(), testSessionID); !errors.Is(err, ErrExportEmptySchedule) {
		t.Errorf("空课表导出应返回 ErrExportEmptySchedule，实际 %v", err)
	}
}

func TestExportService_ICSOnlyUnscheduled(t *testing.T) {
	repo := newMockSectionRepo()
	seedSection(t, repo, "10002", "CIS 22A", "TBA", "Online Async")

	if _, _, err := newTestExportService(repo).ExportICS(context.Background(), testSessionID); !errors.Is(err, ErrExportEmptySchedule) {
		t.Errorf("全是无固定时间课程时应返回 ErrExportEmptySchedule，实际 %v", err)
	}
}
