package minify

import (
	tdminify "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// HTMLMinifier 基于tdewolff/minify的HTML最小化器
type HTMLMinifier struct {
	m *tdminify.M
}

func NewHTMLMinifier() *HTMLMinifier {
	m := tdminify.New()
	m.AddFunc("text/html", html.Minify)
	return &HTMLMinifier{m: m}
}

func (h *HTMLMinifier) Minify(text string, url string, encodingName string, collectStatistics bool) Result {
	minified, err := h.m.String("text/html", text)
	if err != nil {
		return Result{Errors: []error{err}}
	}
	return Result{MinifiedText: minified}
}
