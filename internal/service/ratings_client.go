package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Bryne19/deanza-course-planner/config"
	"github.com/Bryne19/deanza-course-planner/internal/model"
)

// ── RateMyProfessors 客户端 ──────────────────────────────────
// 在 RMP 搜索页按校区 + 姓名查询教授并解析卡片数据。
// 评分是锦上添花：任何失败（网络、解析、无匹配）都返回 nil 评分
// 而非错误，调用方照常返回无评分的搜索结果。
// 姓名匹配必须同时命中 first/last，避免把同姓教授的评分张冠李戴。
// ─────────────────────────────────────────────────────────────

// RatingsClient 教授评分查询接口
type RatingsClient interface {
	// FetchRatings 查询教授评分；未找到返回 (nil, nil)
	FetchRatings(ctx context.Context, professorName string) (*model.ProfessorRatings, error)
}

type ratingsClient struct {
	baseURL    string
	schoolID   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRatingsClient 创建 RateMyProfessors 客户端
func NewRatingsClient(cfg *config.ScraperConfig, logger *zap.Logger) RatingsClient {
	return &ratingsClient{
		baseURL:    cfg.RMPBaseURL,
		schoolID:   cfg.RMPSchoolID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

var (
	intRe      = regexp.MustCompile(`\d+`)
	parenRe    = regexp.MustCompile(`\([^)]*\)`)
	dotCapRe   = regexp.MustCompile(`\.([A-Z])`)
	capRunRe   = regexp.MustCompile(`[A-Z][^A-Z]*`)
	lowerCapRe = regexp.MustCompile(`^([a-z]+)([A-Z].*)$`)
)

func (c *ratingsClient) FetchRatings(ctx context.Context, professorName string) (*model.ProfessorRatings, error) {
	professorName = strings.TrimSpace(professorName)
	if professorName == "" || strings.EqualFold(professorName, "TBA") {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/search/professors/%s?q=%s",
		c.baseURL, c.schoolID, url.QueryEscape(professorName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", scraperUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("评分查询请求失败", zap.String("professor", professorName), zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("评分查询返回非 200",
			zap.String("professor", professorName),
			zap.Int("status", resp.StatusCode),
		)
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil
	}

	card := c.findMatchingCard(doc, professorName)
	if card == nil {
		c.logger.Debug("未找到匹配的教授卡片", zap.String("professor", professorName))
		return nil, nil
	}

	ratings := parseTeacherCard(card)
	if ratings == nil {
		return nil, nil
	}
	if href, ok := card.Attr("href"); ok {
		if strings.HasPrefix(href, "/professor/") {
			ratings.URL = c.baseURL + href
		} else if strings.HasPrefix(href, "http") {
			ratings.URL = href
		}
	}
	return ratings, nil
}

// findMatchingCard 在搜索结果里找姓名严格匹配的卡片；无匹配返回 nil
// （不回退到第一个结果：宁缺毋滥）
func (c *ratingsClient) findMatchingCard(doc *goquery.Document, professorName string) *goquery.Selection {
	cards := doc.Find(`a[class*="TeacherCard"]`)
	if cards.Length() == 0 {
		cards = doc.Find(`a[href*="/professor/"]`)
	}

	var match *goquery.Selection
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		cardName := normalizeSpace(card.Find(`div[class*="CardName"]`).First().Text())
		if cardName == "" {
			return true
		}
		if matchProfessorName(professorName, cardName) {
			match = card
			return false
		}
		return true
	})
	return match
}

// parseTeacherCard 从卡片提取评分、评价数、难度；全部缺失视为未找到
func parseTeacherCard(card *goquery.Selection) *model.ProfessorRatings {
	var ratings model.ProfessorRatings
	found := false

	if text := normalizeSpace(card.Find(`div[class*="CardNumRating__CardNumRatingNumber"]`).First().Text()); text != "" {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			ratings.Rating = v
			found = true
		}
	}

	if text := card.Find(`div[class*="CardNumRating__CardNumRatingCount"]`).First().Text(); text != "" {
		if m := intRe.FindString(text); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				ratings.NumRatings = n
				found = true
			}
		}
	}

	card.Find(`div[class*="CardFeedback__CardFeedbackItem"]`).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(item.Text()), "difficulty") {
			return true
		}
		text := normalizeSpace(item.Find(`div[class*="CardFeedback__CardFeedbackNumber"]`).First().Text())
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			ratings.Difficulty = v
			found = true
		}
		return false
	})

	if !found {
		return nil
	}
	return &ratings
}

// ── 姓名归一化与匹配 ──

// 姓氏前缀：驼峰拆分后需要与后一段合并（McKnight 不是 Mc + Knight 两个人名）
var surnamePrefixes = map[string]struct{}{
	"Mc": {}, "Mac": {}, "O'": {}, "De": {}, "Van": {}, "Von": {},
	"La": {}, "Le": {}, "St": {}, "Saint": {},
}

// normalizeName 把姓名拆成小写词段，兼容卡片上的各种脏格式：
// "Roderic (Rick)Taylor" / "RodericTaylor" / "Christopher N.Bradley"
// 都归一化为 [roderic taylor] / [christopher bradley]
func normalizeName(name string) []string {
	clean := parenRe.ReplaceAllString(name, "")
	clean = strings.ReplaceAll(clean, ",", " ")
	clean = dotCapRe.ReplaceAllString(clean, " $1")

	parts := strings.Fields(clean)

	// 无空格的连写名按大写边界拆分
	if len(parts) == 1 {
		split := capRunRe.FindAllString(parts[0], -1)
		if len(split) >= 2 {
			parts = mergeSurnamePrefixes(split)
		} else if m := lowerCapRe.FindStringSubmatch(parts[0]); m != nil {
			rest := capRunRe.FindAllString(m[2], -1)
			if len(rest) >= 2 {
				parts = append([]string{m[1]}, mergeSurnamePrefixes(rest)...)
			} else {
				parts = []string{m[1], m[2]}
			}
		}
	}

	// 丢弃中间名缩写等单字母段
	var out []string
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(p, ".", "")))
		if len(p) > 1 {
			out = append(out, p)
		}
	}
	return out
}

func mergeSurnamePrefixes(parts []string) []string {
	var merged []string
	for i := 0; i < len(parts); i++ {
		if _, ok := surnamePrefixes[parts[i]]; ok && i < len(parts)-1 {
			merged = append(merged, parts[i]+parts[i+1])
			i++
			continue
		}
		merged = append(merged, parts[i])
	}
	return merged
}

// matchProfessorName 严格匹配：first 和 last 必须同时相等，
// 兼容卡片使用 "Last, First" 顺序的情况
func matchProfessorName(searchName, cardName string) bool {
	search := normalizeName(searchName)
	card := normalizeName(cardName)
	if len(search) < 2 || len(card) < 2 {
		return false
	}

	searchFirst, searchLast := search[0], search[len(search)-1]
	cardFirst, cardLast := card[0], card[len(card)-1]

	if searchFirst == cardFirst && searchLast == cardLast {
		return true
	}
	// 倒序格式
	return searchFirst == cardLast && searchLast == cardFirst
}
