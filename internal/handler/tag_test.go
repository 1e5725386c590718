package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithTagName(target, param string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", param)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTagNameParam(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		param   string
		want    string
		wantErr bool
	}{
		{name: "plain", target: "/tags/VIP", param: "VIP", want: "VIP"},
		{name: "escaped slash", target: "/tags/24%2F7", param: "24%2F7", want: "24/7"},
		{name: "percent routed on path", target: "/tags/100%25", param: "100%", want: "100%"},
		{name: "cyrillic", target: "/tags/%D0%9D%D0%BE%D0%B2%D0%B8%D1%87%D0%BE%D0%BA", param: "Новичок", want: "Новичок"},
		{name: "bad escape", target: "/tags/24%2F7", param: "%ZZ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tagNameParam(requestWithTagName(tt.target, tt.param))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagHandler_DeleteRejectsBadEscape(t *testing.T) {
	h := NewTagHandler(nil, newTestSessions(t))

	rec := httptest.NewRecorder()
	h.Delete(rec, withOperator(requestWithTagName("/tags/24%2F7", "%ZZ")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, rec).Error.Code)
}
