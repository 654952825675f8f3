package grabber

import (
	"fmt"
	"time"

	"SMGrab/pkg/client"
	"SMGrab/pkg/htmlscan"
	"SMGrab/pkg/models"
	"SMGrab/pkg/secrets"
	"SMGrab/pkg/sourcemap"
	"SMGrab/pkg/ui"
	"SMGrab/pkg/utils"
	"SMGrab/pkg/writer"
)

// Grabber 串起整条还原流水线：
// 页面 -> script 条目 -> sourceMappingURL -> map 文档 -> 源文件落盘
// 严格顺序处理，一个条目完整走完流水线后才开始下一个
type Grabber struct {
	client        *client.Client
	scanner       *htmlscan.Scanner
	decoder       *sourcemap.Decoder
	recoverer     *sourcemap.Recoverer
	writer        *writer.Writer
	secretScanner *secrets.Scanner

	Results []*models.ScriptResult
	Stats   models.RunStats

	startTime time.Time
}

// New 创建 Grabber，scanSecrets 控制是否对还原源码做敏感信息扫描
func New(c *client.Client, w *writer.Writer, scanSecrets bool) *Grabber {
	g := &Grabber{
		client:    c,
		scanner:   htmlscan.NewScanner(),
		decoder:   sourcemap.NewDecoder(c),
		recoverer: sourcemap.NewRecoverer(c),
		writer:    w,
		startTime: time.Now(),
	}
	if scanSecrets {
		g.secretScanner = secrets.NewScanner()
	}
	g.recoverer.OnSkip = func(source, reason string) {
		ui.PrintWarning("  - 无法还原源 %s: %s", source, reason)
	}
	return g
}

// Run 处理单个页面
// 页面本身拉取失败是整次运行中唯一的致命错误
func (g *Grabber) Run(pageURL string) error {
	pageURL = utils.StripTrailingSlash(pageURL)

	html, finalURL, err := g.client.GetText(pageURL)
	if err != nil {
		return fmt.Errorf("拉取页面 %s 失败: %w", pageURL, err)
	}
	return g.processPage(html, finalURL)
}

// processPage 扫描页面 HTML 并按出现顺序处理每个 script
func (g *Grabber) processPage(html string, finalPageURL string) error {
	entries, err := g.scanner.FindScripts(html, finalPageURL)
	if err != nil {
		return fmt.Errorf("解析页面 %s 失败: %w", finalPageURL, err)
	}

	g.Stats.Pages++
	ui.PrintInfo("在 %s 发现 %d 个 script 条目", finalPageURL, len(entries))

	for _, entry := range entries {
		g.processScript(entry, finalPageURL)
	}
	return nil
}

// processScript 完整处理一个 script 条目，任何可恢复失败只影响该条目
func (g *Grabber) processScript(entry models.ScriptEntry, finalPageURL string) {
	g.Stats.Scripts++

	result := &models.ScriptResult{URL: entry.Src, Inline: entry.Inline}

	var scriptText string
	var baseURL string
	var label string

	if entry.Inline {
		// 内联脚本没有自身地址，引用按宿主页面的最终地址解析
		scriptText = entry.Body
		baseURL = finalPageURL
		label = fmt.Sprintf("内联脚本 (%s)", finalPageURL)
		result.URL = finalPageURL
	} else {
		body, finalURL, err := g.client.GetText(entry.Src)
		if err != nil {
			ui.PrintError("拉取脚本 %s 失败: %v", entry.Src, err)
			g.Stats.Errors++
			return
		}
		// 引用相对脚本自身重定向后的地址解析，而不是页面地址
		scriptText = body
		baseURL = finalURL
		label = entry.Src
	}

	ref, ok := sourcemap.ExtractReference(scriptText)
	if !ok {
		ui.PrintWarning("未找到 sourceMappingURL: %s", label)
		g.Results = append(g.Results, result)
		return
	}
	result.MapReference = ref
	ui.PrintInfo("发现 map 引用 %s -> %s", label, truncate(ref, 80))

	decoded, err := g.decoder.DecodeMap(ref, baseURL)
	if err != nil {
		ui.PrintError("加载 map 失败 (%s): %v", label, err)
		g.Stats.Errors++
		g.Results = append(g.Results, result)
		return
	}

	g.Stats.MapsProcessed++
	result.MapHash = decoded.Hash
	result.SourceCount = len(decoded.Doc.Sources)

	g.recoverer.Recover(decoded.Doc, decoded.BaseURL, func(item models.RecoveredSource) bool {
		if _, err := g.writer.WriteFile(item.Path, item.Content); err != nil {
			ui.PrintError("  - 写入 %s 失败: %v", item.Path, err)
			g.Stats.Errors++
			return true
		}
		g.Stats.FilesSaved++
		ui.PrintSuccess("  - 已保存: %s", item.Path)

		if g.secretScanner != nil {
			result.Secrets = append(result.Secrets,
				g.secretScanner.Scan(item.Path, string(item.Content))...)
		}

		// 结果报告里不携带文件正文
		item.Content = nil
		result.SavedFiles = append(result.SavedFiles, item)
		return true
	})

	g.Results = append(g.Results, result)
}

// Summary 汇总统计
func (g *Grabber) Summary() models.RunStats {
	g.Stats.Duration = time.Since(g.startTime).Round(time.Millisecond).String()
	return g.Stats
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
