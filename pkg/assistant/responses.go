package assistant

import "fmt"

// greetings are picked uniformly at random and never cached.
var greetings = []string{
	"أهلاً وسهلاً! كيف يمكنني مساعدتك اليوم؟ 🌟",
	"مرحباً بك! أنا هنا للإجابة على استفساراتك ⚡",
	"أهلاً بك! اسألني عن أي شيء 🚀",
}

// genericTemplates each take the question once.
var genericTemplates = []string{
	"هذا سؤال مثير للاهتمام! بالنسبة لـ \"%s\"، أعتقد أن...",
	"رائع! دعني أفكر في \"%s\"...",
	"بناءً على سؤالك \"%s\"، إليك ما يمكنني تقديمه:",
	"سؤال جميل! دعني أساعدك في \"%s\"",
}

// techAnswer pairs a keyword with its fixed answer. The scan is ordered and
// the first keyword found in the question wins.
type techAnswer struct {
	keyword string
	answer  string
}

var techAnswers = []techAnswer{
	{keyword: "javascript", answer: "🎯 جافاسكريبت هي لغة برمجة رائعة لتطوير الويب!"},
	{keyword: "html", answer: "📝 HTML هي هيكل الصفحة الأساسي"},
	{keyword: "css", answer: "🎨 CSS تجعل التصميم جميلاً وسلساً"},
}

const defaultTechAnswer = "💻 يمكنني مساعدتك في مواضيع البرمجة والتطوير!"

func genericResponse(template, question string) string {
	return fmt.Sprintf(template, question)
}
