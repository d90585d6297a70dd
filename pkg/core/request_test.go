package core

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequest_QueryString(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want string
	}{
		{
			name: "empty",
			req:  NewRequest(http.MethodGet, "/api/v2/spot/account/info"),
			want: "",
		},
		{
			name: "single",
			req:  NewRequest(http.MethodGet, "/api/v2/spot/public/coins").SetQuery("coin", "ETH"),
			want: "?coin=ETH",
		},
		{
			name: "sorted_keys",
			req: NewRequest(http.MethodGet, "/api/v2/spot/wallet/withdrawal-records").SetQueryParams(Params{
				"orderId":   "123",
				"startTime": int64(1700000000000),
				"endTime":   int64(1700000060000),
			}),
			want: "?endTime=1700000060000&orderId=123&startTime=1700000000000",
		},
		{
			name: "escaped",
			req:  NewRequest(http.MethodGet, "/x").SetQuery("q", "a b&c"),
			want: "?q=a+b%26c",
		},
		{
			name: "scalar_kinds",
			req:  NewRequest(http.MethodGet, "/x").SetQueryParams(Params{"a": 5, "b": true, "c": 1.5}),
			want: "?a=5&b=true&c=1.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.QueryString())
		})
	}
}

func TestRequest_QueryStringIsStable(t *testing.T) {
	req := NewRequest(http.MethodGet, "/x").SetQueryParams(Params{"z": "1", "y": "2", "x": "3", "w": "4"})
	first := req.QueryString()
	for range 20 {
		assert.Equal(t, first, req.QueryString())
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr bool
	}{
		{"get_with_query", NewRequest(http.MethodGet, "/a").SetQuery("k", "v"), false},
		{"get_without_query", NewRequest(http.MethodGet, "/a"), false},
		{"post_with_body", NewRequest(http.MethodPost, "/a").SetBody(map[string]string{"k": "v"}), false},
		{"post_with_empty_query_map", &Request{Method: http.MethodPost, Path: "/a", Query: Params{}}, false},
		{"get_with_body", NewRequest(http.MethodGet, "/a").SetBody(map[string]string{"k": "v"}), true},
		{"post_with_query", NewRequest(http.MethodPost, "/a").SetQuery("k", "v"), true},
		{"relative_path", NewRequest(http.MethodGet, "a"), true},
		{"empty_path", NewRequest(http.MethodGet, ""), true},
		{"unknown_method", NewRequest("FETCH", "/a"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
