package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Bryne19/deanza-course-planner/config"
	"github.com/Bryne19/deanza-course-planner/internal/dto"
	"github.com/Bryne19/deanza-course-planner/internal/model"
)

// ── 客户端测试替身 ──

type stubListingsClient struct {
	sections []ScrapedSection
	err      error
}

func (s *stubListingsClient) SearchCourse(_ context.Context, _, _, _ string) ([]ScrapedSection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sections, nil
}

type stubRatingsClient struct {
	byName map[string]*model.ProfessorRatings
	calls  map[string]int
}

func (s *stubRatingsClient) FetchRatings(_ context.Context, name string) (*model.ProfessorRatings, error) {
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[name]++
	return s.byName[name], nil
}

func newTestSearchService(listings ListingsClient, ratings RatingsClient) SearchService {
	cfg := &config.ScraperConfig{DefaultTerm: "W2026"}
	return NewSearchService(listings, ratings, nil, cfg, zap.NewNop())
}

func scrapedSection(crn, professor, classTime string) ScrapedSection {
	return ScrapedSection{
		CRN:       crn,
		Course:    "MATH 1A",
		Professor: professor,
		ClassTime: classTime,
		Format:    "In-Person",
	}
}

func TestSearchService_Pipeline(t *testing.T) {
	listings := &stubListingsClient{sections: []ScrapedSection{
		scrapedSection("10001", "Clare Nguyen", "MWF 10:00AM-10:50AM"),
		scrapedSection("10002", "John Smith", "TR 1:00PM-2:15PM"),
		scrapedSection("10003", "TBA", "TBA"),
	}}
	ratings := &stubRatingsClient{byName: map[string]*model.ProfessorRatings{
		"Clare Nguyen": {Rating: 4.3, Difficulty: 2.9, NumRatings: 65},
	}}

	resp, err := newTestSearchService(listings, ratings).Search(context.Background(), &dto.SearchRequest{
		Department: "math", CourseCode: "1a",
	})
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if resp.CourseName != "MATH 1A" {
		t.Errorf("课程名应规整为大写，实际 %q", resp.CourseName)
	}
	if resp.Term != "W2026" {
		t.Errorf("缺省学期应回填默认值，实际 %q", resp.Term)
	}
	if len(resp.Sections) != 3 {
		t.Fatalf("应返回 3 个班次，实际 %d", len(resp.Sections))
	}

	// 评分挂载
	got := findSection(t, resp.Sections, "10001")
	if got.Ratings == nil || got.Ratings.Rating != 4.3 {
		t.Errorf("班次 10001 评分丢失: %+v", got.Ratings)
	}
	if findSection(t, resp.Sections, "10002").Ratings != nil {
		t.Error("未找到评分的教授 ratings 应为 nil")
	}

	// 时间解析
	if !got.TimeData.HasFixedTime || got.TimeData.StartMinutes != 600 {
		t.Errorf("班次 10001 时间解析错误: %+v", got.TimeData)
	}
	if findSection(t, resp.Sections, "10003").TimeData.HasFixedTime {
		t.Error("TBA 班次不应有固定时间")
	}

	// TBA 教授不应触发评分查询
	if ratings.calls["TBA"] != 0 {
		t.Error("不应为 TBA 教授查询评分")
	}
}

func TestSearchService_SortsByRatingDescUnratedLast(t *testing.T) {
	listings := &stubListingsClient{sections: []ScrapedSection{
		scrapedSection("10001", "Low Rated", "TBA"),
		scrapedSection("10002", "No Rating", "TBA"),
		scrapedSection("10003", "High Rated", "TBA"),
		scrapedSection("10004", "Also Unrated", "TBA"),
	}}
	ratings := &stubRatingsClient{byName: map[string]*model.ProfessorRatings{
		"Low Rated":  {Rating: 2.1},
		"High Rated": {Rating: 4.8},
	}}

	resp, err := newTestSearchService(listings, ratings).Search(context.Background(), &dto.SearchRequest{
		Department: "MATH", CourseCode: "1A",
	})
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}

	var order []string
	for _, s := range resp.Sections {
		order = append(order, s.CRN)
	}
	// 有评分的降序在前，无评分的保持原序在后
	want := []string{"10003", "10001", "10002", "10004"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("排序错误: 实际 %v，期望 %v", order, want)
		}
	}
}

func TestSearchService_SharedProfessorFetchedOnce(t *testing.T) {
	listings := &stubListingsClient{sections: []ScrapedSection{
		scrapedSection("10001", "Clare Nguyen", "MWF 9:00AM-9:50AM"),
		scrapedSection("10002", "Clare Nguyen", "MWF 10:00AM-10:50AM"),
		scrapedSection("10003", "Clare Nguyen", "TR 1:00PM-2:15PM"),
	}}
	ratings := &stubRatingsClient{byName: map[string]*model.ProfessorRatings{
		"Clare Nguyen": {Rating: 4.3},
	}}

	resp, err := newTestSearchService(listings, ratings).Search(context.Background(), &dto.SearchRequest{
		Department: "MATH", CourseCode: "1A",
	})
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}

	if n := ratings.calls["Clare Nguyen"]; n != 1 {
		t.Errorf("同名教授应只查一次评分，实际 %d 次", n)
	}
	for _, s := range resp.Sections {
		if s.Ratings == nil || s.Ratings.Rating != 4.3 {
			t.Errorf("班次 %s 应共享同一条评分", s.CRN)
		}
	}
}

func TestSearchService_ListingsFailurePropagates(t *testing.T) {
	listings := &stubListingsClient{err: ErrUpstreamUnavailable}

	_, err := newTestSearchService(listings, &stubRatingsClient{}).Search(context.Background(), &dto.SearchRequest{
		Department: "MATH", CourseCode: "1A",
	})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("列表页抓取失败应上抛 ErrUpstreamUnavailable，实际 %v", err)
	}
}

func TestSearchService_EmptyResultIsNotAnError(t *testing.T) {
	resp, err := newTestSearchService(&stubListingsClient{}, &stubRatingsClient{}).Search(context.Background(), &dto.SearchRequest{
		Department: "MATH", CourseCode: "999Z",
	})
	if err != nil {
		t.Fatalf("查无此课不应报错: %v", err)
	}
	if len(resp.Sections) != 0 {
		t.Errorf("应返回空班次列表，实际 %d", len(resp.Sections))
	}
}

func findSection(t *testing.T, sections []dto.SectionResponse, crn string) dto.SectionResponse {
	t.Helper()
	for _, s := range sections {
		if s.CRN == crn {
			return s
		}
	}
	t.Fatalf("未找到班次 %s", crn)
	return dto.SectionResponse{}
}
