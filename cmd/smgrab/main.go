package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"SMGrab/pkg/client"
	"SMGrab/pkg/grabber"
	"SMGrab/pkg/models"
	"SMGrab/pkg/ui"
	"SMGrab/pkg/writer"
)

var (
	timeout     int
	userAgent   string
	maxDepth    int
	concurrency int
	outputFile  string
	saveFile    string
	scanSecrets bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "smgrab <page-url> <output-dir>",
		Short: "SMGrab - 通过 source map 还原站点前端源码",
		Long: `SMGrab 抓取目标页面的全部 script 资产，追踪其中的 sourceMappingURL 引用，
下载/解码 source map 并把还原出的源文件按原始目录结构写入输出目录。`,
		Args: cobra.ExactArgs(2),
		Run:  runGrab,
	}

	rootCmd.Flags().IntVarP(&timeout, "timeout", "t", 20, "单个请求超时秒数")
	rootCmd.Flags().StringVarP(&userAgent, "user-agent", "A", client.DefaultUserAgent, "请求 User-Agent")
	rootCmd.Flags().IntVarP(&maxDepth, "depth", "d", 1, "爬取深度，大于 1 时先爬取同站页面再逐页还原")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 5, "爬取并发数 (仅深度模式)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "导出结果文件 (支持 json, csv) - 覆盖模式")
	rootCmd.Flags().StringVarP(&saveFile, "save", "s", "", "导出结果文件 (支持 json, csv) - 追加模式")
	rootCmd.Flags().BoolVar(&scanSecrets, "secrets", false, "对还原出的源码做敏感信息扫描")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runGrab(cmd *cobra.Command, args []string) {
	pageURL := args[0]
	outDir := args[1]

	ui.PrintBanner()
	color.Green("[+] 开始还原: %s", pageURL)
	color.Cyan("[*] 配置: 输出目录=%s, 超时=%ds, 深度=%d", outDir, timeout, maxDepth)

	w, err := writer.New(outDir)
	if err != nil {
		color.Red("[-] 创建输出目录失败: %v", err)
		os.Exit(1)
	}

	c := client.New(timeout, userAgent)
	g := grabber.New(c, w, scanSecrets)

	if maxDepth > 1 {
		err = g.Crawl(pageURL, maxDepth, concurrency, timeout, userAgent)
	} else {
		err = g.Run(pageURL)
	}
	if err != nil {
		color.Red("[-] %v", err)
		os.Exit(1)
	}

	stats := g.Summary()

	printTable(g)

	color.Green("[+] 处理 %d 个 map，保存 %d 个文件到 '%s'，耗时 %s",
		stats.MapsProcessed, stats.FilesSaved, outDir, stats.Duration)

	if outputFile != "" {
		exportResults(g, outputFile, false)
	}
	if saveFile != "" {
		exportResults(g, saveFile, true)
	}
}

func printTable(g *grabber.Grabber) {
	if len(g.Results) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Script", "类型", "Map 引用", "源数", "已保存", "敏感信息"})
	table.SetAutoWrapText(true)
	table.SetRowLine(true)
	table.SetColWidth(40)

	for _, r := range g.Results {
		kind := "远程"
		if r.Inline {
			kind = "内联"
		}

		ref := r.MapReference
		if ref == "" {
			ref = "-"
		} else if strings.HasPrefix(ref, "data:") {
			ref = "data: (内联 map)"
		}

		secretStr := "-"
		if n := len(r.Secrets); n > 0 {
			secretStr = color.YellowString("%d 条", n)
		}

		table.Append([]string{
			r.URL,
			kind,
			ref,
			fmt.Sprintf("%d", r.SourceCount),
			fmt.Sprintf("%d", len(r.SavedFiles)),
			secretStr,
		})
	}
	table.Render()
}

func exportResults(g *grabber.Grabber, filename string, appendMode bool) {
	if strings.HasSuffix(filename, ".csv") {
		saveCSV(g, filename, appendMode)
	} else {
		// 默认为 JSON
		saveJSON(g, filename, appendMode)
	}
}

func saveJSON(g *grabber.Grabber, filename string, appendMode bool) {
	var results []*models.ScriptResult

	// 追加模式先读取现有文件
	if appendMode {
		if _, err := os.Stat(filename); err == nil {
			data, err := os.ReadFile(filename)
			if err == nil && len(data) > 0 {
				var existing []*models.ScriptResult
				if err := json.Unmarshal(data, &existing); err != nil {
					color.Yellow("[!] 警告: 无法解析现有文件 %s (可能不是有效的 JSON 数组)，将覆盖文件", filename)
				} else {
					results = append(results, existing...)
				}
			}
		}
	}

	results = append(results, g.Results...)

	file, err := os.Create(filename)
	if err != nil {
		color.Red("[-] 创建输出文件失败: %v", err)
		return
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		color.Red("[-] 写入 JSON 失败: %v", err)
	} else {
		if appendMode {
			color.Green("[+] 结果已追加至: %s", filename)
		} else {
			color.Green("[+] 结果已保存至: %s", filename)
		}
	}
}

func saveCSV(g *grabber.Grabber, filename string, appendMode bool) {
	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	flags := os.O_RDWR | os.O_CREATE | os.O_TRUNC
	if appendMode {
		flags = os.O_RDWR | os.O_CREATE | os.O_APPEND
	}

	file, err := os.OpenFile(filename, flags, 0644)
	if err != nil {
		color.Red("[-] 打开 CSV 文件失败: %v", err)
		return
	}
	defer file.Close()

	csvWriter := csv.NewWriter(file)
	defer csvWriter.Flush()

	if !appendMode || !fileExists {
		header := []string{"URL", "Inline", "MapReference", "MapHash", "Sources", "Saved", "SavedPaths", "Secrets"}
		csvWriter.Write(header)
	}

	for _, r := range g.Results {
		var paths []string
		for _, f := range r.SavedFiles {
			paths = append(paths, f.Path)
		}

		var findings []string
		for _, s := range r.Secrets {
			findings = append(findings, fmt.Sprintf("[%s]%s", s.Kind, s.File))
		}

		record := []string{
			r.URL,
			fmt.Sprintf("%v", r.Inline),
			r.MapReference,
			r.MapHash,
			fmt.Sprintf("%d", r.SourceCount),
			fmt.Sprintf("%d", len(r.SavedFiles)),
			strings.Join(paths, "|"),
			strings.Join(findings, "|"),
		}
		csvWriter.Write(record)
	}

	if appendMode {
		color.Green("[+] 结果已追加至 CSV: %s", filename)
	} else {
		color.Green("[+] 结果已保存至 CSV: %s", filename)
	}
}
