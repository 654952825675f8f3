package grabber

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"
	"SMGrab/pkg/ui"
	"SMGrab/pkg/utils"
)

// crawledPage 爬取阶段收集到的一个 HTML 页面
type crawledPage struct {
	html     string
	finalURL string
}

// Crawl 深度模式：先用 colly 收集 maxDepth 层内的同站 HTML 页面，
// 收集完成后再对每个页面顺序执行还原流水线。
// 起始页面一个都没有拿到视为致命错误，与单页模式的语义一致。
func (g *Grabber) Crawl(startURL string, maxDepth int, concurrency int, timeout int, userAgent string) error {
	startURL = utils.StripTrailingSlash(startURL)

	var mu sync.Mutex
	var pages []crawledPage
	var visitedPatterns sync.Map

	c := colly.NewCollector(
		colly.MaxDepth(maxDepth),
		colly.Async(true),
		colly.IgnoreRobotsTxt(),
	)
	c.UserAgent = userAgent
	c.SetRequestTimeout(time.Duration(timeout) * time.Second)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: concurrency,
		RandomDelay: 100 * time.Millisecond,
	})

	c.OnRequest(func(r *colly.Request) {
		if !shouldVisit(r.URL.String(), &visitedPatterns) {
			r.Abort()
		}
	})

	c.OnResponse(func(r *colly.Response) {
		if !strings.Contains(r.Headers.Get("Content-Type"), "text/html") {
			return
		}
		if len(r.Body) > 5*1024*1024 {
			return
		}
		mu.Lock()
		pages = append(pages, crawledPage{
			html:     string(r.Body),
			finalURL: r.Request.URL.String(),
		})
		mu.Unlock()
	})

	c.OnHTML("a[href], iframe[src]", func(e *colly.HTMLElement) {
		link := e.Attr("href")
		if link == "" {
			link = e.Attr("src")
		}
		if link != "" {
			e.Request.Visit(link)
		}
	})

	c.Visit(startURL)
	c.Wait()

	if len(pages) == 0 {
		return fmt.Errorf("爬取 %s 未获得任何页面", startURL)
	}

	ui.PrintInfo("爬取到 %d 个页面，开始逐页还原", len(pages))
	for _, p := range pages {
		if err := g.processPage(p.html, p.finalURL); err != nil {
			ui.PrintError("%v", err)
			g.Stats.Errors++
		}
	}
	return nil
}

// shouldVisit 过滤非 http 链接并按 URL 模式去重，避免同一接口反复访问
func shouldVisit(link string, visitedPatterns *sync.Map) bool {
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(lower, "#") {
		return false
	}

	pattern := utils.GetURLPattern(link)
	val, _ := visitedPatterns.LoadOrStore(pattern, new(int32))
	count := atomic.AddInt32(val.(*int32), 1)
	return count <= 3
}
