package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/Bryne19/deanza-course-planner/config"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"Clare Nguyen", []string{"clare", "nguyen"}},
		{"Clare M. Nguyen", []string{"clare", "nguyen"}},
		{"Christopher N.Bradley", []string{"christopher", "bradley"}},
		{"Roderic (Rick)Taylor", []string{"roderic", "taylor"}},
		{"RodericTaylor", []string{"roderic", "taylor"}},
		{"MorganMcKnight", []string{"morgan", "mcknight"}},
		{"PatrickMcDonnell", []string{"patrick", "mcdonnell"}},
		{"Nguyen, Clare", []string{"nguyen", "clare"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeName(tt.name)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeName(%q) = %v，期望 %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestMatchProfessorName(t *testing.T) {
	tests := []struct {
		search string
		card   string
		want   bool
	}{
		{"Clare Nguyen", "Clare Nguyen", true},
		{"Clare Nguyen", "Clare M. Nguyen", true},
		{"Roderic Taylor", "Roderic (Rick)Taylor", true},
		{"Roderic Taylor", "RodericTaylor", true},
		{"Christopher Bradley", "Christopher N.Bradley", true},
		{"Morgan McKnight", "MorganMcKnight", true},
		{"Clare Nguyen", "Nguyen, Clare", true}, // 倒序格式
		{"Clare Nguyen", "John Nguyen", false},  // 姓同名不同
		{"Clare Nguyen", "Clare Smith", false},  // 名同姓不同
		{"Clare", "Clare Nguyen", false},        // 搜索名不完整
	}
	for _, tt := range tests {
		t.Run(tt.search+"/"+tt.card, func(t *testing.T) {
			if got := matchProfessorName(tt.search, tt.card); got != tt.want {
				t.Errorf("matchProfessorName(%q, %q) = %v，期望 %v", tt.search, tt.card, got, tt.want)
			}
		})
	}
}

// teacherCardHTML 模拟 RMP 搜索结果页的单张教授卡片
func teacherCardHTML(name string, rating float64, count int, difficulty float64, href string) string {
	return fmt.Sprintf(`
		<a class="TeacherCard__StyledTeacherCard-x1" href="%s">
			<div class="CardNumRating__CardNumRatingNumber-y1">%.1f</div>
			<div class="CardNumRating__CardNumRatingCount-y2">%d ratings</div>
			<div class="CardName__StyledCardName-z1">%s</div>
			<div class="CardFeedback__CardFeedbackItem-w1">
				<div class="CardFeedback__CardFeedbackNumber-w2">%.1f</div>
				<div>level of difficulty</div>
			</div>
		</a>`, href, rating, count, name, difficulty)
}

func newTestRatingsClient(serverURL string) RatingsClient {
	cfg := &config.ScraperConfig{
		RMPBaseURL:  serverURL,
		RMPSchoolID: "1967",
		MaxRetries:  1,
	}
	return NewRatingsClient(cfg, zap.NewNop())
}

func TestRatingsClient_FetchRatings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body>%s%s</body></html>",
			teacherCardHTML("John Nguyen", 2.1, 12, 4.5, "/professor/111"),
			teacherCardHTML("Clare M. Nguyen", 4.3, 65, 2.9, "/professor/222"),
		)
	}))
	defer srv.Close()

	client := newTestRatingsClient(srv.URL)
	ratings, err := client.FetchRatings(context.Background(), "Clare Nguyen")
	if err != nil {
		t.Fatalf("查询评分失败: %v", err)
	}
	if ratings == nil {
		t.Fatal("应匹配到 Clare M. Nguyen 的卡片")
	}
	if ratings.Rating != 4.3 || ratings.NumRatings != 65 || ratings.Difficulty != 2.9 {
		t.Errorf("评分数据错误: %+v", ratings)
	}
	if ratings.URL != srv.URL+"/professor/222" {
		t.Errorf("应取匹配卡片的主页链接，实际 %q", ratings.URL)
	}
}

func TestRatingsClient_NoExactMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body>%s</body></html>",
			teacherCardHTML("John Nguyen", 2.1, 12, 4.5, "/professor/111"))
	}))
	defer srv.Close()

	client := newTestRatingsClient(srv.URL)
	ratings, err := client.FetchRatings(context.Background(), "Clare Nguyen")
	if err != nil {
		t.Fatalf("查询不应报错: %v", err)
	}
	if ratings != nil {
		// 不允许退而求其次取第一个结果
		t.Errorf("无严格匹配时应返回 nil，实际 %+v", ratings)
	}
}

func TestRatingsClient_UpstreamFailureIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestRatingsClient(srv.URL)
	ratings, err := client.FetchRatings(context.Background(), "Clare Nguyen")
	if err != nil {
		t.Fatalf("评分查询失败应静默降级: %v", err)
	}
	if ratings != nil {
		t.Errorf("失败时应返回 nil 评分，实际 %+v", ratings)
	}
}

func TestRatingsClient_SkipsTBA(t *testing.T) {
	client := newTestRatingsClient("http://127.0.0.1:0")
	for _, name := range []string{"", "  ", "TBA", "tba"} {
		ratings, err := client.FetchRatings(context.Background(), name)
		if err != nil || ratings != nil {
			t.Errorf("FetchRatings(%q) 应直接返回 (nil, nil)，实际 (%+v, %v)", name, ratings, err)
		}
	}
}
