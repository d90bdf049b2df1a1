package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"markupmin-go/internal/minify"
)

func TestMiddlewareEndToEnd(t *testing.T) {
	handler := MarkupMinMiddleware(htmlPolicyManager(), gzipManager(), defaultEligibility())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html>  <body>  hi  </body>  </html>"))
		}),
	)

	req := httptest.NewRequest("GET", "/index.html", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	expected := minify.NewHTMLMinifier().Minify("<html>  <body>  hi  </body>  </html>", "/index.html", "utf-8", false)
	if rec.Body.String() != expected.MinifiedText {
		t.Errorf("got %q, want %q", rec.Body.String(), expected.MinifiedText)
	}
}

func TestMiddlewareEncodingConflictReturns500(t *testing.T) {
	handler := MarkupMinMiddleware(htmlPolicyManager(), nil, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Header().Set("Content-Encoding", "br")
			w.Header().Set("Content-Length", "11")
			// 写入失败后处理器放弃
			if _, err := w.Write([]byte("<p>oops</p>")); err != nil {
				return
			}
		}),
	)

	req := httptest.NewRequest("GET", "/page.html", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}

	// 错误体是纯文本，处理器预设的编码/长度头必须被清掉
	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("stale Content-Encoding %q would make the error body undecodable", got)
	}
	if rec.Header().Get("Content-Length") != "" {
		t.Error("stale Content-Length must be removed")
	}
	if rec.Body.String() != "Internal Server Error\n" {
		t.Errorf("expected plain error body, got %q", rec.Body.String())
	}
}

func TestMiddlewareLeavesNonHtmlAlone(t *testing.T) {
	handler := MarkupMinMiddleware(htmlPolicyManager(), nil, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"spaces":  "  kept  "}`))
		}),
	)

	req := httptest.NewRequest("GET", "/api", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Body.String() != `{"spaces":  "  kept  "}` {
		t.Errorf("json body should be untouched, got %q", rec.Body.String())
	}
}
