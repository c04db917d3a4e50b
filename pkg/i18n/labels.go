package i18n

import "fmt"

// Labels is the string table for one language.
type Labels struct {
	Lang Lang

	// Export.
	ChatExportTitle    string
	ExportTime         string
	MessageCount       string
	User               string
	Assistant          string
	SelectedTextPrefix string
	Page               string

	// Prompts.
	AnalyzePrompt        string
	TestPrompt           string
	TestSystemPrompt     string
	selectionClauseShape string

	// Chat panel.
	AIThinking     string
	OCRProcessing  string
	EmptyState     string
	InputHint      string
	Regenerate     string
	ClearChat      string
	ExportChat     string
	CopyAllChats   string
	OpenPDF        string
	Settings       string
	SelectToStart  string
	ConnectionOK   string
	ConnectionFail string

	// Errors shown as assistant turns.
	ErrMissingAPIKey       string
	errUnsupportedProvider string
	errRequestFailed       string
	ErrBadFormat           string
	errNetwork             string
	ErrRateLimited         string
	ErrGeneric             string
}

var tables = map[Lang]Labels{
	English: {
		Lang:               English,
		ChatExportTitle:    "PDF Reader Chat History",
		ExportTime:         "Export Time",
		MessageCount:       "Message Count",
		User:               "User",
		Assistant:          "AI Assistant",
		SelectedTextPrefix: "Selected Text",
		Page:               "Page",

		AnalyzePrompt:        "Please analyze this text and provide relevant explanations.",
		TestPrompt:           `Please reply "Test successful"`,
		TestSystemPrompt:     "You are an AI assistant used to test the API connection.",
		selectionClauseShape: "Based on the selected text from the PDF: \"%s\", %s",

		AIThinking:     "AI is thinking...",
		OCRProcessing:  "Processing OCR...",
		EmptyState:     "Select text in PDF to start conversation",
		InputHint:      "Press Enter to send",
		Regenerate:     "Regenerate",
		ClearChat:      "Clear Chat",
		ExportChat:     "Export Chat",
		CopyAllChats:   "Copy All Chats",
		OpenPDF:        "Open PDF",
		Settings:       "Settings",
		SelectToStart:  "Select text to start analysis",
		ConnectionOK:   "Connection successful!",
		ConnectionFail: "Connection failed",

		ErrMissingAPIKey:       "API key is not configured. Please add an API key in the settings.",
		errUnsupportedProvider: "Unsupported AI provider: %s",
		errRequestFailed:       "AI API request failed: %d - %s",
		ErrBadFormat:           "The AI API returned an unexpected response format.",
		errNetwork:             "Network request failed: %v",
		ErrRateLimited:         "The AI API is rate limiting requests. Please try again shortly.",
		ErrGeneric:             "Sorry, an error occurred. Please check your API configuration or network connection.",
	},
	Chinese: {
		Lang:               Chinese,
		ChatExportTitle:    "PDF阅读对话记录",
		ExportTime:         "导出时间",
		MessageCount:       "消息数量",
		User:               "用户",
		Assistant:          "AI助手",
		SelectedTextPrefix: "选中文本",
		Page:               "页",

		AnalyzePrompt:        "请分析这段文本并提供相关解释",
		TestPrompt:           `请回复"测试成功"`,
		TestSystemPrompt:     "你是一个AI助手，用于测试API连接。",
		selectionClauseShape: "基于PDF中选中的文本：\"%s\"，%s",

		AIThinking:     "AI正在思考...",
		OCRProcessing:  "正在识别文字...",
		EmptyState:     "选择PDF中的文本开始对话",
		InputHint:      "按 Enter 发送",
		Regenerate:     "重新生成",
		ClearChat:      "清空对话",
		ExportChat:     "导出对话",
		CopyAllChats:   "复制全部对话",
		OpenPDF:        "打开PDF",
		Settings:       "设置",
		SelectToStart:  "选择文本开始分析",
		ConnectionOK:   "连接成功！",
		ConnectionFail: "连接失败",

		ErrMissingAPIKey:       "API密钥未配置，请在设置中添加API密钥",
		errUnsupportedProvider: "不支持的AI提供商: %s",
		errRequestFailed:       "AI API请求失败: %d - %s",
		ErrBadFormat:           "AI API返回数据格式错误",
		errNetwork:             "网络请求失败: %v",
		ErrRateLimited:         "AI API请求过于频繁，请稍后再试",
		ErrGeneric:             "抱歉，发生了错误。请检查您的API配置或网络连接。",
	},
}

// For returns the labels for l, English when l is unknown.
func For(l Lang) Labels {
	if t, ok := tables[l]; ok {
		return t
	}
	return tables[English]
}

// SelectionClause prefixes content with the selected PDF text.
func (l Labels) SelectionClause(selected, content string) string {
	return fmt.Sprintf(l.selectionClauseShape, selected, content)
}

// UnsupportedProvider reports a provider name the registry does not know.
func (l Labels) UnsupportedProvider(name string) string {
	return fmt.Sprintf(l.errUnsupportedProvider, name)
}

// RequestFailed reports a non-2xx answer. An empty detail is shown as
// "unknown error".
func (l Labels) RequestFailed(status int, detail string) string {
	if detail == "" {
		if l.Lang == Chinese {
			detail = "未知错误"
		} else {
			detail = "unknown error"
		}
	}
	return fmt.Sprintf(l.errRequestFailed, status, detail)
}

// Network reports a transport failure.
func (l Labels) Network(err error) string {
	return fmt.Sprintf(l.errNetwork, err)
}
