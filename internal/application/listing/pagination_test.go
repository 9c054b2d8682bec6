package listing

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func render(items []PageItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}

func TestPageRange(t *testing.T) {
	cases := []struct {
		current, total int
		want           string
	}{
		{5, 20, "1 ... 3 4 5 6 7 ... 20"},
		{1, 20, "1 2 3 ... 20"},
		{20, 20, "1 ... 18 19 20"},
		{4, 20, "1 2 3 4 5 6 ... 20"},
		{3, 5, "1 2 3 4 5"},
		{1, 1, "1"},
		{1, 0, "1"},
		{2, 2, "1 2"},
		{99, 10, "1 ... 8 9 10"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, render(PageRange(tc.current, tc.total, DefaultDelta)), "current=%d total=%d", tc.current, tc.total)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0))
	assert.Equal(t, 1, TotalPages(12))
	assert.Equal(t, 2, TotalPages(13))
	assert.Equal(t, 17, TotalPages(194))
}

func TestValuesRoundTrip(t *testing.T) {
	assert.Empty(t, View{Page: 1}.Values())
	assert.Equal(t, "page=2", View{Page: 2, Query: "x"}.Values().Encode())
	assert.Equal(t, "category=beauty", View{Page: 1, Category: "beauty"}.Values().Encode())

	v := View{Page: 4, Category: "laptops"}
	assert.Equal(t, v, FromValues(v.Values()))

	bad, _ := url.ParseQuery("page=abc&category=All+Categories")
	assert.Equal(t, View{Page: 1}, FromValues(bad))
	assert.Equal(t, View{Page: 1}, FromValues(nil))
}
