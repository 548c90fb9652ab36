package ws

import "math/rand/v2"

// loaderMessages rotate on the loading screen.
var loaderMessages = []string{
	"جاري مسح ترددات الأرواح...",
	"تتم الآن محاذاة المدارات الكونية...",
	"تحليل كيمياء المشاعر...",
	"فك تشفير لغة الصمت بينكما...",
	"جاري صياغة وثيقة القدر...",
}

// Insight is a short science fact shown while loading.
type Insight struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

var insights = []Insight{
	{"infinity", "التشابك الكمي", "في فيزياء الكم، عندما يتفاعل جسيمان، يصبحان مرتبطين للأبد."},
	{"sparkles", "غبار النجوم", "العناصر التي تكون أجسادنا خُلقت في قلوب النجوم المحتضرة."},
	{"atom", "تأثير المراقب", "الواقع ليس ثابتاً. مجرد ملاحظة الجسيمات تغير سلوكها."},
	{"orbit", "الرنين الكوني", "لكل شيء تردد اهتزازي. عندما يلتقي نظامان بتردد متقارب، تنتقل الطاقة."},
}

// LoaderMessage is the payload of a loader_message event.
type LoaderMessage struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func loaderMessage(tick int) LoaderMessage {
	i := tick % len(loaderMessages)
	return LoaderMessage{Index: i, Text: loaderMessages[i]}
}

func randomInsight() Insight {
	return insights[rand.IntN(len(insights))]
}
