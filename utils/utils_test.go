package utils

import (
	"strings"
	"testing"
)

func TestParsePositiveID(t *testing.T) {
	cases := []struct {
		in   string
		id   int
		isOK bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{"", 0, false},
		{" 3", 0, false},
	}
	for _, tc := range cases {
		id, ok := ParsePositiveID(tc.in)
		if id != tc.id || ok != tc.isOK {
			t.Errorf("ParsePositiveID(%q) = %d, %v; want %d, %v", tc.in, id, ok, tc.id, tc.isOK)
		}
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("QUIZ_TEST_INT", "12")
	if got := GetEnvInt("QUIZ_TEST_INT", 3); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	t.Setenv("QUIZ_TEST_INT", "twelve")
	if got := GetEnvInt("QUIZ_TEST_INT", 3); got != 3 {
		t.Fatalf("expected fallback 3, got %d", got)
	}
}

func TestContentETag(t *testing.T) {
	a := ContentETag([]byte(`{"quizId":1}`))
	b := ContentETag([]byte(`{"quizId":1}`))
	c := ContentETag([]byte(`{"quizId":2}`))

	if a != b {
		t.Fatalf("same body must give the same tag")
	}
	if a == c {
		t.Fatalf("different bodies must give different tags")
	}
	if !strings.HasPrefix(a, `"`) || !strings.HasSuffix(a, `"`) || len(a) != 34 {
		t.Fatalf("unexpected tag format %s", a)
	}
}

func TestInitLogger(t *testing.T) {
	if err := InitLogger("production"); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	LogHTTP("request %d", 1)
	LogRequest("id", "GET", "/", 200, 1.5)
	if err := InitLogger("development"); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	LogDB("query %s", "x")
}
