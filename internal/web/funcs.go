package web

import (
	"time"

	"github.com/gofiber/template/html/v2"
)

const timeLayout = "2006-01-02 15:04"

func addTemplateFuncs(engine *html.Engine) {
	engine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	engine.AddFunc("when", func(t time.Time) string {
		return t.Local().Format(timeLayout)
	})
	engine.AddFunc("has", func(m map[uint]bool, id uint) bool {
		return m[id]
	})
}
