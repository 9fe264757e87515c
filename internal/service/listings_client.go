package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Bryne19/deanza-course-planner/config"
)

// ── 选课列表页客户端 ─────────────────────────────────────────
// 抓取 De Anza 选课列表页并解析指定课程的全部班次。
// 页面结构不受我们控制，解析策略是"宽松提取 + 逐列启发"：
// 只要一行里找得到 CRN 就算一个班次，其余字段缺失回填默认值。
// ─────────────────────────────────────────────────────────────

var (
	ErrUpstreamUnavailable = errors.New("上游数据源不可用")
)

// ScrapedSection 列表页解析出的一个开课班次
type ScrapedSection struct {
	CRN       string
	Course    string
	Professor string
	ClassTime string
	Format    string
}

// ListingsClient 选课列表页抓取接口
type ListingsClient interface {
	// SearchCourse 抓取并解析某系某课程在指定学期的全部班次
	SearchCourse(ctx context.Context, department, courseCode, term string) ([]ScrapedSection, error)
}

type listingsClient struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewListingsClient 创建选课列表页客户端
func NewListingsClient(cfg *config.ScraperConfig, logger *zap.Logger) ListingsClient {
	return &listingsClient{
		baseURL:    cfg.ListingsBaseURL,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

var (
	crnRe  = regexp.MustCompile(`\b(\d{5})\b`)
	timeRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*[AP]M)\s*-\s*(\d{1,2}:\d{2}\s*[AP]M)`)

	// 教师姓名兜底识别（无目录链接时）
	nameLastFirstRe  = regexp.MustCompile(`^[A-Z][a-z]+(?:-[A-Z][a-z]+)?,\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?$`)
	nameFirstLastRe  = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+$`)
	nameFirstMLastRe = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z]\.\s+[A-Z][a-z]+$`)
	digitRe          = regexp.MustCompile(`\d`)
)

// 不可能是姓名的常见词（列标题、状态标记等）
var nameExcludeTerms = map[string]struct{}{
	"view": {}, "footnote": {}, "math": {}, "calculus": {}, "class": {},
	"meets": {}, "campus": {}, "online": {}, "hybrid": {}, "tba": {},
	"tbd": {}, "am": {}, "pm": {}, "open": {}, "wl": {},
}

func (c *listingsClient) SearchCourse(ctx context.Context, department, courseCode, term string) ([]ScrapedSection, error) {
	department = strings.ToUpper(strings.TrimSpace(department))
	courseCode = strings.ToUpper(strings.TrimSpace(courseCode))
	fullCourse := department + " " + courseCode

	doc, err := c.fetchListings(ctx, department, term)
	if err != nil {
		return nil, err
	}

	sections := c.parseSections(doc, fullCourse)
	c.logger.Info("列表页解析完成",
		zap.String("course", fullCourse),
		zap.String("term", term),
		zap.Int("sections", len(sections)),
	)
	return sections, nil
}

// fetchListings 带重试地抓取列表页；等待时间线性递增
func (c *listingsClient) fetchListings(ctx context.Context, department, term string) (*goquery.Document, error) {
	reqURL := fmt.Sprintf("%s?dept=%s&t=%s", c.baseURL, url.QueryEscape(department), url.QueryEscape(term))

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * 2 * time.Second
			c.logger.Warn("列表页抓取失败，等待重试",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
			case <-time.After(wait):
			}
		}

		doc, err := c.fetchOnce(ctx, reqURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: 重试 %d 次后仍失败: %v", ErrUpstreamUnavailable, c.maxRetries, lastErr)
}

func (c *listingsClient) fetchOnce(ctx context.Context, reqURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", scraperUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析 HTML 失败: %w", err)
	}

	// 错误页 / 空页校验
	if title := doc.Find("title").First().Text(); strings.Contains(strings.ToLower(title), "error") {
		return nil, fmt.Errorf("上游返回错误页: %s", strings.TrimSpace(title))
	}
	if len(strings.TrimSpace(doc.Text())) < 100 {
		return nil, errors.New("上游返回空白页面")
	}

	return doc, nil
}

// parseSections 在列表页表格中按课程号收集班次，按 CRN 去重
func (c *listingsClient) parseSections(doc *goquery.Document, fullCourse string) []ScrapedSection {
	var sections []ScrapedSection
	seen := make(map[string]struct{})
	upperCourse := strings.ToUpper(fullCourse)

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		rowText := strings.ToUpper(normalizeSpace(row.Text()))
		if !strings.Contains(rowText, upperCourse) {
			return
		}
		sec, ok := c.extractSection(row, fullCourse)
		if !ok {
			return
		}
		if _, dup := seen[sec.CRN]; dup {
			return
		}
		seen[sec.CRN] = struct{}{}
		sections = append(sections, sec)
	})

	return sections
}

// extractSection 从单行提取班次；找不到 CRN 则整行丢弃
func (c *listingsClient) extractSection(row *goquery.Selection, fullCourse string) (ScrapedSection, bool) {
	var crn, professor, days, timeStr string

	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		text := normalizeSpace(cell.Text())
		upper := strings.ToUpper(text)

		if crn == "" {
			if m := crnRe.FindStringSubmatch(text); m != nil {
				crn = m[1]
			}
		}

		// 上课日在 class="days" 的 span 里，字母间可能有 · 分隔
		if days == "" {
			if span := cell.Find("span.days").First(); span.Length() > 0 {
				days = extractDayLetters(span.Text())
			}
		}

		if timeStr == "" {
			if m := timeRe.FindString(text); m != "" {
				timeStr = text
			} else if strings.Contains(upper, "TBA") {
				timeStr = "TBA"
			}
		}

		if professor == "" {
			if link := cell.Find(`a[href*="/directory/user"]`).First(); link.Length() > 0 {
				professor = normalizeSpace(link.Text())
			} else if looksLikeName(text, crn, fullCourse) {
				professor = text
			}
		}
	})

	if crn == "" {
		return ScrapedSection{}, false
	}

	classTime := timeStr
	if classTime != "" && days != "" {
		classTime = days + " " + timeStr
	}

	return ScrapedSection{
		CRN:       crn,
		Course:    fullCourse,
		Professor: defaultString(professor, "TBA"),
		ClassTime: defaultString(classTime, "TBA"),
		Format:    detectFormat(row),
	}, true
}

// detectFormat 判断上课形式；Hybrid 标记优先于 Online
func detectFormat(row *goquery.Selection) string {
	rowText := strings.ToLower(row.Text())
	hasHybridSkittle := false
	row.Find("span").Each(func(_ int, span *goquery.Selection) {
		if cls, ok := span.Attr("class"); ok {
			lower := strings.ToLower(cls)
			if strings.Contains(lower, "skittle") && strings.Contains(lower, "hybrid") {
				hasHybridSkittle = true
			}
		}
	})

	switch {
	case hasHybridSkittle || strings.Contains(rowText, "hybrid"):
		return "Hybrid"
	case strings.Contains(rowText, "fully online") || strings.Contains(rowText, "online class"):
		return "Online"
	case strings.Contains(rowText, "fully on-campus") || strings.Contains(rowText, "on-campus"):
		return "In-Person"
	case strings.Contains(rowText, "online"):
		return "Online"
	default:
		return "Unknown"
	}
}

// extractDayLetters 从 days span 文本里收集星期字母，空格分隔
func extractDayLetters(raw string) string {
	var letters []string
	for _, r := range strings.ToUpper(raw) {
		switch r {
		case 'M', 'T', 'W', 'R', 'F', 'S', 'U':
			letters = append(letters, string(r))
		}
	}
	return strings.Join(letters, " ")
}

// looksLikeName 无目录链接时的姓名启发判断
func looksLikeName(text, crn, fullCourse string) bool {
	if text == "" {
		return false
	}
	if crn != "" && strings.Contains(text, crn) {
		return false
	}
	if strings.Contains(strings.ToUpper(text), strings.ToUpper(fullCourse)) {
		return false
	}
	if nameLastFirstRe.MatchString(text) || nameFirstLastRe.MatchString(text) || nameFirstMLastRe.MatchString(text) {
		return true
	}

	words := strings.Fields(text)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if w == "" || w[0] < 'A' || w[0] > 'Z' {
			return false
		}
	}
	for _, w := range words {
		if _, excluded := nameExcludeTerms[strings.ToLower(w)]; excluded {
			return false
		}
	}
	return !digitRe.MatchString(text)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

const scraperUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
