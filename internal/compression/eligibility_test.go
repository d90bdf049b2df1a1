package compression

import "testing"

func TestEligibilityMediaTypePrefix(t *testing.T) {
	e := NewEligibility(nil, []string{"text/", "application/json"}, nil)

	// 前缀匹配所有text子类型
	if !e.IsSupportedMediaType("text/html") {
		t.Error("text/html should be compressible")
	}
	if !e.IsSupportedMediaType("text/plain") {
		t.Error("text/plain should be compressible")
	}
	if !e.IsSupportedMediaType("application/json") {
		t.Error("application/json should be compressible")
	}
	if e.IsSupportedMediaType("image/png") {
		t.Error("image/png should not be compressible")
	}
}

func TestEligibilityMethodDefault(t *testing.T) {
	e := NewEligibility(nil, []string{"text/"}, nil)

	if !e.IsSupportedHttpMethod("GET") {
		t.Error("GET should be supported by default")
	}
	if e.IsSupportedHttpMethod("POST") {
		t.Error("POST should not be supported by default")
	}
}

func TestEligibilityExcludePaths(t *testing.T) {
	e := NewEligibility(nil, []string{"text/"}, []string{"/stream/"})

	if !e.IsProcessablePage("/page.html") {
		t.Error("normal page should be processable")
	}
	if e.IsProcessablePage("/stream/events") {
		t.Error("excluded prefix should not be processable")
	}
}
