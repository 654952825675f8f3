package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// Banner 打印启动 Banner
func PrintBanner() {
	banner := `
   _____ __  __  _____           _
  / ____|  \/  |/ ____|         | |
 | (___ | \  / | |  __ _ __ __ _| |__
  \___ \| |\/| | | |_ | '__/ _` + "`" + ` | '_ \
  ____) | |  | | |__| | | | (_| | |_) |
 |_____/|_|  |_|\_____|_|  \__,_|_.__/

`
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Println(banner)

	info := color.New(color.FgWhite)
	info.Println("  Source Map Grabber - 从线上资产还原前端源码")
	fmt.Println()
}

// PrintSection 打印分隔区域
func PrintSection(title string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Printf("━━━ %s ━━━\n", title)
}

// PrintSuccess 打印成功信息
func PrintSuccess(format string, a ...interface{}) {
	green := color.New(color.FgGreen)
	green.Printf("[+] "+format+"\n", a...)
}

// PrintInfo 打印信息
func PrintInfo(format string, a ...interface{}) {
	cyan := color.New(color.FgCyan)
	cyan.Printf("[*] "+format+"\n", a...)
}

// PrintWarning 打印警告
func PrintWarning(format string, a ...interface{}) {
	yellow := color.New(color.FgYellow)
	yellow.Printf("[!] "+format+"\n", a...)
}

// PrintError 打印错误
func PrintError(format string, a ...interface{}) {
	red := color.New(color.FgRed)
	red.Printf("[-] "+format+"\n", a...)
}
