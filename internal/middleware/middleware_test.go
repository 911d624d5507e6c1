package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(tag string) func(func()) func() {
		return func(next func()) func() {
			return func() {
				order = append(order, tag+">")
				next()
				order = append(order, "<"+tag)
			}
		}
	}

	Chain(func() { order = append(order, "handler") }, mw("a"), mw("b"))()
	assert.Equal(t, []string{"a>", "b>", "handler", "<b", "<a"}, order)
}

func TestRecoverSwallowsPanic(t *testing.T) {
	ran := false
	h := Chain(func() {
		ran = true
		panic("boom")
	}, Recover("test"), Logger("test"))

	assert.NotPanics(t, h)
	assert.True(t, ran)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
