package models

// ScriptEntry 页面上发现的一个 script 资产
// 远程脚本 Src 非空；内联脚本 Inline 为 true 且 Body 为标签内容
type ScriptEntry struct {
	Src    string `json:"src,omitempty"`
	Inline bool   `json:"inline,omitempty"`
	Body   string `json:"-"`
}

// SourceMapDocument 解析后的 source map 文档
// SourcesContent 与 Sources 按下标对齐，null 项表示该源未内嵌内容，
// 超出长度的下标按缺失处理
type SourceMapDocument struct {
	Version        int       `json:"version"`
	SourceRoot     string    `json:"sourceRoot"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent"`
}

// RecoveredSource 恢复出的一个源文件
type RecoveredSource struct {
	Path     string `json:"path"`
	Content  []byte `json:"-"`
	Hash     string `json:"hash"`
	Embedded bool   `json:"embedded"`
}

// SecretFinding 从恢复源码中发现的敏感信息
type SecretFinding struct {
	Kind  string `json:"kind"`
	Match string `json:"match"`
	File  string `json:"file"`
}

// ScriptResult 单个 script 的处理结果
type ScriptResult struct {
	URL          string            `json:"url"`
	Inline       bool              `json:"inline"`
	MapReference string            `json:"map_reference,omitempty"`
	MapHash      string            `json:"map_hash,omitempty"`
	SourceCount  int               `json:"source_count"`
	SavedFiles   []RecoveredSource `json:"saved_files,omitempty"`
	Secrets      []SecretFinding   `json:"secrets,omitempty"`
}

// RunStats 单次运行的统计
type RunStats struct {
	Pages         int    `json:"pages"`
	Scripts       int    `json:"scripts"`
	MapsProcessed int    `json:"maps_processed"`
	FilesSaved    int    `json:"files_saved"`
	Errors        int    `json:"errors"`
	Duration      string `json:"duration"`
}
