package minify

import (
	tdminify "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/xml"
)

// XMLMinifier 基于tdewolff/minify的XML最小化器
type XMLMinifier struct {
	m *tdminify.M
}

func NewXMLMinifier() *XMLMinifier {
	m := tdminify.New()
	m.AddFunc("text/xml", xml.Minify)
	return &XMLMinifier{m: m}
}

func (x *XMLMinifier) Minify(text string, url string, encodingName string, collectStatistics bool) Result {
	minified, err := x.m.String("text/xml", text)
	if err != nil {
		return Result{Errors: []error{err}}
	}
	return Result{MinifiedText: minified}
}
